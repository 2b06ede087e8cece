package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(bool) {}

// IncResumeCreated is a no-op.
func (n *NoopRecorder) IncResumeCreated() {}

// IncPDFExported is a no-op.
func (n *NoopRecorder) IncPDFExported(bool) {}

// ObservePDFRenderDuration is a no-op.
func (n *NoopRecorder) ObservePDFRenderDuration(time.Duration) {}
