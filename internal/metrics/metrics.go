// Package metrics holds the Prometheus collectors shared by the HTTP layer
// and the upload service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartstore_http_requests_total",
			Help: "Total HTTP requests by method, route and status.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smartstore_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

var (
	// UploadsTotal counts uploads by backend and result
	// (success, validation_error, storage_error, metadata_error).
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartstore_uploads_total",
			Help: "Upload attempts by storage backend and result.",
		},
		[]string{"backend", "result"},
	)

	UploadedBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartstore_uploaded_bytes_total",
			Help: "Bytes durably written by successful uploads.",
		},
		[]string{"backend"},
	)

	// OrphanedBlobs counts blobs written without a metadata record.
	OrphanedBlobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartstore_orphaned_blobs_total",
			Help: "Blobs persisted whose metadata record could not be created.",
		},
		[]string{"backend"},
	)
)

// Upload results.
const (
	ResultSuccess         = "success"
	ResultValidationError = "validation_error"
	ResultStorageError    = "storage_error"
	ResultMetadataError   = "metadata_error"
)
