package domain

import "fmt"

// AisleColor is the display color assigned to an aisle
type AisleColor struct {
	Aisle string `json:"aisle"`
	R     uint8  `json:"r"`
	G     uint8  `json:"g"`
	B     uint8  `json:"b"`
	A     uint8  `json:"a"`
}

// Hex returns the color as #rrggbb, ignoring alpha
func (c AisleColor) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Point is a pixel position on the store map
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}
