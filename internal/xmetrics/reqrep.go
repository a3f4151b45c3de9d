package xmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// defaultBuckets uses a wide exponential spread so both sub-millisecond and
// multi-second processor calls land in a meaningful bucket.
var defaultBuckets = prometheus.ExponentialBuckets(0.0001, 2, 20)

var (
	// ReqRepProcessTimer records processor wall-time in seconds, labelled by ReqRepId.
	ReqRepProcessTimer = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reqrep",
			Name:      "process_timer_seconds",
			Help:      "Time spent inside the ReqRep processor, in seconds.",
			Buckets:   defaultBuckets,
		},
		[]string{"reqrep_id"},
	)

	// ReqRepServiceInstanceCount tracks the number of live backend tasks per ReqRepId.
	ReqRepServiceInstanceCount = promauto.With(Registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "reqrep",
			Name:      "service_instance_count",
			Help:      "Number of live ReqRep backend tasks, labelled by ReqRepId.",
		},
		[]string{"reqrep_id"},
	)

	// ReqRepSendCounter counts every request enqueued onto a ReqRep channel.
	ReqRepSendCounter = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reqrep",
			Name:      "send_total",
			Help:      "Total number of requests sent into a ReqRep service, labelled by ReqRepId.",
		},
		[]string{"reqrep_id"},
	)
)
