// Package observability holds prometheus collectors and OpenTelemetry setup.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alley_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// CacheLookups counts cache-aside lookups by key family and result.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alley_cache_lookups_total",
		Help: "Cache-aside lookups by key family and result (hit, miss)",
	}, []string{"family", "result"})

	// ArtworkUploads counts finished uploads by outcome.
	ArtworkUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alley_artwork_uploads_total",
		Help: "Artwork uploads by outcome",
	}, []string{"outcome"})

	// ImageProcessingDuration records how long decoding and resizing takes per variant.
	ImageProcessingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "alley_image_processing_seconds",
		Help:    "Image processing time in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"variant"})

	// SocialActions counts like, unlike, follow and unfollow actions.
	SocialActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alley_social_actions_total",
		Help: "Social graph mutations by action",
	}, []string{"action"})

	// SignUps counts created accounts.
	SignUps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alley_signups_total",
		Help: "Total number of created accounts",
	})

	// AuthSoftFailures counts bearer tokens that failed verification and were
	// treated as anonymous.
	AuthSoftFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alley_auth_soft_failures_total",
		Help: "Bearer tokens ignored because they failed verification",
	}, []string{"reason"})
)

// ObserveImageProcessing returns a func that records the elapsed time for variant.
func ObserveImageProcessing(variant string) func() {
	start := time.Now()
	return func() {
		ImageProcessingDuration.WithLabelValues(variant).Observe(time.Since(start).Seconds())
	}
}
