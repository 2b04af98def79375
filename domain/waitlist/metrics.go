package waitlist

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Signup outcomes recorded against the signups counter.
const (
	outcomeAccepted = "accepted"
	outcomeRejected = "rejected"
	outcomeConflict = "conflict"
	outcomeFailed   = "failed"
)

var signupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "waitlist_signups_total",
		Help: "Waitlist signup attempts partitioned by outcome.",
	},
	[]string{"outcome"},
)
