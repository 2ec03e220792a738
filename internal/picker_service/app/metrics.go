package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pickerInvocationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "contacts_picker",
			Name:      "invocations_total",
			Help:      "Picker host invocations by mode and outcome.",
		},
		[]string{"mode", "outcome"}, // outcome: success, cancelled, failed, error
	)

	pickerInvocationDurationHist = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "contacts_picker",
			Name:      "invocation_duration_seconds",
			Help:      "Time spent waiting for the picker host.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"mode"},
	)

	pickerRejectedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "contacts_picker",
			Name:      "rejected_total",
			Help:      "Picker requests rejected before reaching the host.",
		},
		[]string{"mode", "code"},
	)
)
