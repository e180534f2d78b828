// Package metrics exposes Prometheus counters for the upload pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// UploadsTotal counts upload requests by terminal outcome: "success" or the
// pipeline step that failed.
var UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "profile_image_uploads_total",
	Help: "Upload requests by terminal outcome.",
}, []string{"outcome"})

// ObjectWritesTotal counts signed PUTs against the object store.
var ObjectWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "profile_image_object_writes_total",
	Help: "Signed object-store PUTs by destination and result.",
}, []string{"destination", "result"})
