// Package metrics holds the prometheus collectors shared by the website.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeFallback = "fallback"
)

var (
	// RenditionsTotal counts proxied asset renditions by size and outcome.
	RenditionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_renditions_total",
			Help: "Total number of asset renditions served by the gallery proxy",
		},
		[]string{"size", "outcome"},
	)

	// CatalogRequestsTotal counts calls to the photo-catalog API.
	CatalogRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "Total number of requests made to the photo-catalog API",
		},
		[]string{"outcome"},
	)

	// EmailsTotal counts outbound emails by kind (alert, contact) and outcome.
	EmailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Total number of outbound emails",
		},
		[]string{"kind", "outcome"},
	)

	AlertSignupsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alert_signups_total",
			Help: "Total number of alert signups accepted",
		},
	)
)

func RecordRendition(size, outcome string) {
	RenditionsTotal.WithLabelValues(size, outcome).Inc()
}

func RecordCatalogRequest(err error) {
	CatalogRequestsTotal.WithLabelValues(outcomeOf(err)).Inc()
}

func RecordEmail(kind string, err error) {
	EmailsTotal.WithLabelValues(kind, outcomeOf(err)).Inc()
}

func outcomeOf(err error) string {
	if err != nil {
		return OutcomeFailure
	}

	return OutcomeSuccess
}
