// Package metrics holds the prometheus collectors shared across the request
// pipeline. The status server exposes them on its metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	labelQuotaType = "quota_type"
	labelOutcome   = "outcome"
)

// Outcome labels for login token redemptions.
const (
	OutcomeRedeemed = "redeemed"
	OutcomeRejected = "rejected"
)

var (
	// QuotaDenials counts requests blocked by a plan ceiling, by quota type.
	QuotaDenials = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quota_denials_total",
			Help: "The number of requests denied by a plan quota",
		},
		[]string{
			labelQuotaType,
		},
	)

	// SSORedemptions counts login token redemptions on store domains.
	SSORedemptions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sso_redemptions_total",
			Help: "The number of login token redemptions by outcome",
		},
		[]string{
			labelOutcome,
		},
	)
)

func init() {
	prometheus.MustRegister(QuotaDenials, SSORedemptions)
}
