package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ExtractionFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "smartshop_extraction_fallbacks_total",
			Help: "Total number of requests that fell back to the default intent",
		},
	)

	KeywordQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartshop_keyword_queries_total",
			Help: "Total number of catalog queries issued per keyword, by outcome",
		},
		[]string{"outcome"},
	)

	PlansServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartshop_plans_total",
			Help: "Total number of shopping plans produced, by result",
		},
		[]string{"result"},
	)

	PlanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "smartshop_plan_duration_seconds",
			Help: "Duration of the full resolution pipeline in seconds",
		},
	)

	GenerationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartshop_generation_requests_total",
			Help: "Total number of text-generation requests, by status",
		},
		[]string{"status"},
	)
)
