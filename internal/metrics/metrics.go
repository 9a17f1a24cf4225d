// Package metrics exposes Prometheus collectors for scan outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ScanAttempts counts scan attempts by outcome: recorded, late,
	// not_found, no_schedule, duplicate, cooldown, invalid.
	ScanAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qrattend",
		Name:      "scan_attempts_total",
		Help:      "Scan attempts by outcome.",
	}, []string{"outcome"})

	// HistoryMirrored counts records the worker mirrored into student
	// history, by result.
	HistoryMirrored = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qrattend",
		Name:      "history_mirrored_total",
		Help:      "Attendance records mirrored into student history.",
	}, []string{"result"})
)
