// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
type Recorder interface {
	// Account metrics
	IncUserRegistered()
	IncLogin(success bool)

	// Resume metrics
	IncResumeCreated()
	IncPDFExported(success bool)
	ObservePDFRenderDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
