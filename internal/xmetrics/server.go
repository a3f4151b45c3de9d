package xmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ServerActiveConnCount is active pipe count: sum(AddPost) - sum(RemovePost), per server.
	ServerActiveConnCount = promauto.With(Registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "active_conn_count",
			Help:      "Currently connected peer pipes, labelled by server id.",
		},
		[]string{"server_id"},
	)

	// ServerTotalConnCount counts every AddPost pipe event ever observed.
	ServerTotalConnCount = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "total_conn_count",
			Help:      "Total pipe connections accepted, labelled by server id.",
		},
		[]string{"server_id"},
	)

	// ServerInitiateConnCount counts AddPre pipe events (connection attempts before acceptance).
	ServerInitiateConnCount = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "initiate_conn_count",
			Help:      "Total pipe connection attempts initiated, labelled by server id.",
		},
		[]string{"server_id"},
	)
)
