package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubmissionsTotal counts POST /notify outcomes: accepted, invalid, failed.
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_submissions_total",
			Help: "Total number of contact submissions by outcome",
		},
		[]string{"result"},
	)

	// DeliveriesTotal counts per-recipient notification attempts: sent, failed.
	DeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_deliveries_total",
			Help: "Total number of admin notification deliveries by outcome",
		},
		[]string{"result"},
	)

	DeliveriesInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "contact_deliveries_in_flight",
			Help: "Number of admin notification deliveries currently running",
		},
	)
)
