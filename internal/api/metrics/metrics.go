// Package metrics defines and registers all custom Prometheus metrics for
// the product store API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the /metrics route exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "store"

// ProductsCreatedTotal counts newly created products.
// Label:
//   - category: the product category (e.g. "electronics")
var ProductsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_created_total",
		Help:      "Total number of products created, by category.",
	},
	[]string{"category"},
)

// ProductsUpdatedTotal counts successful full-field product replacements.
var ProductsUpdatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_updated_total",
		Help:      "Total number of products updated.",
	},
)

// ProductsDeletedTotal counts successful product deletions.
var ProductsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_deleted_total",
		Help:      "Total number of products deleted.",
	},
)

// StoreErrorsTotal counts requests that failed with an unexpected error.
// Label:
//   - op: the route template of the failing request
var StoreErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_errors_total",
		Help:      "Total number of unexpected errors, by route.",
	},
	[]string{"op"},
)
