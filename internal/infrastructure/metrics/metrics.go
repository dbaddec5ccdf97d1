package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// NewCounter registers memberportal_general_counters on reg. Request results and file
// lifecycle outcomes share the one "result" label.
func NewCounter(reg prometheus.Registerer) *prometheus.CounterVec {
	return promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memberportal",
			Name:      "general_counters",
			Help:      "Request results and file lifecycle outcomes.",
		},
		[]string{"result"})
}
