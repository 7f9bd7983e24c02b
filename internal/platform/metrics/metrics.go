package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the registry.
type Metrics struct {
	RolesGranted       prometheus.Counter
	RolesRevoked       prometheus.Counter
	AliasesBound       prometheus.Counter
	DocumentsUploaded  prometheus.Counter
	DocumentsDeleted   prometheus.Counter
	DocumentsVerified  prometheus.Counter
	CertificatesMinted prometheus.Counter
	AccessRequested    prometheus.Counter
	AccessGranted      prometheus.Counter
	AccessRejected     prometheus.Counter
	AccessRevoked      prometheus.Counter

	HTTPDuration *prometheus.HistogramVec
}

// New creates and registers all metrics against the given registerer. Tests
// pass a fresh prometheus.NewRegistry() to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{Name: name, Help: help})
	}
	return &Metrics{
		RolesGranted:       counter("verifi_roles_granted_total", "Total role grants committed"),
		RolesRevoked:       counter("verifi_roles_revoked_total", "Total role revocations committed"),
		AliasesBound:       counter("verifi_aliases_bound_total", "Total aliases bound"),
		DocumentsUploaded:  counter("verifi_documents_uploaded_total", "Total documents registered"),
		DocumentsDeleted:   counter("verifi_documents_deleted_total", "Total documents removed"),
		DocumentsVerified:  counter("verifi_documents_verified_total", "Total documents attested by an admin"),
		CertificatesMinted: counter("verifi_certificates_minted_total", "Total certificates minted"),
		AccessRequested:    counter("verifi_access_requested_total", "Total access requests opened"),
		AccessGranted:      counter("verifi_access_granted_total", "Total access requests approved"),
		AccessRejected:     counter("verifi_access_rejected_total", "Total access requests rejected"),
		AccessRevoked:      counter("verifi_access_revoked_total", "Total granted accesses revoked"),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "verifi_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
}
