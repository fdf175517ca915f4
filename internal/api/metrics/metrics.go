// Package metrics defines the storefront's custom Prometheus metrics. HTTP
// request metrics come from echoprometheus; everything here is business level.
//
// All collectors register with the default registry on package init through
// promauto, so importing the package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// ── Auth ─────────────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register, login and logout calls.
// Labels:
//   - action: "register", "login" or "logout"
//   - result: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by action and result.",
	},
	[]string{"action", "result"},
)

// RateLimitedTotal counts requests rejected by the rate limiter.
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter, by scope.",
	},
	[]string{"scope"},
)

// ── Catalog ──────────────────────────────────────────────────────────────────

var ProductsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_created_total",
		Help:      "Total number of products listed by sellers.",
	},
)

var PurchasesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchases_total",
		Help:      "Total number of product purchases recorded.",
	},
)

// ImageUploadsTotal counts product image uploads by result.
var ImageUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_uploads_total",
		Help:      "Total number of product image uploads, by result.",
	},
	[]string{"result"},
)

// SearchResults observes how many products each search returned.
var SearchResults = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_results",
		Help:      "Number of products returned per search request.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
	},
)

// ── Payments ─────────────────────────────────────────────────────────────────

// PaymentIntentsTotal counts payment intent requests by result.
var PaymentIntentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_intents_total",
		Help:      "Total number of payment intents requested, by result.",
	},
	[]string{"result"},
)

// Result maps an error to the result label.
func Result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
