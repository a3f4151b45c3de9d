// Package xmetrics holds the process-wide Prometheus registry and the
// per-ReqRepId collectors (histogram, gauges, counters) the core registers
// once and reuses for every subsequent service instance sharing that id.
package xmetrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "nngmux"

// Registry is the shared Prometheus registry every collector in this package
// registers against: exactly one package-level Registry, with every
// collector registered onto it via promauto.With.
var Registry = prometheus.NewRegistry()
