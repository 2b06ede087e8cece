package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered  uint64
	LoginsSucceeded  uint64
	LoginsFailed     uint64
	ResumesCreated   uint64
	PDFsExported     uint64
	PDFsFailed       uint64
	PDFRenderCount   uint64
	PDFRenderTotalNs int64
}

// InMemoryRecorder stores metrics in memory. It backs the /metrics endpoint
// and is used directly in tests.
type InMemoryRecorder struct {
	usersRegistered  atomic.Uint64
	loginsSucceeded  atomic.Uint64
	loginsFailed     atomic.Uint64
	resumesCreated   atomic.Uint64
	pdfsExported     atomic.Uint64
	pdfsFailed       atomic.Uint64
	pdfRenderCount   atomic.Uint64
	pdfRenderTotalNs atomic.Int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered:  m.usersRegistered.Load(),
		LoginsSucceeded:  m.loginsSucceeded.Load(),
		LoginsFailed:     m.loginsFailed.Load(),
		ResumesCreated:   m.resumesCreated.Load(),
		PDFsExported:     m.pdfsExported.Load(),
		PDFsFailed:       m.pdfsFailed.Load(),
		PDFRenderCount:   m.pdfRenderCount.Load(),
		PDFRenderTotalNs: m.pdfRenderTotalNs.Load(),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	m.usersRegistered.Add(1)
}

// IncLogin increments the login counter for the outcome.
func (m *InMemoryRecorder) IncLogin(success bool) {
	if success {
		m.loginsSucceeded.Add(1)
		return
	}
	m.loginsFailed.Add(1)
}

// IncResumeCreated increments the resume counter.
func (m *InMemoryRecorder) IncResumeCreated() {
	m.resumesCreated.Add(1)
}

// IncPDFExported increments the export counter for the outcome.
func (m *InMemoryRecorder) IncPDFExported(success bool) {
	if success {
		m.pdfsExported.Add(1)
		return
	}
	m.pdfsFailed.Add(1)
}

// ObservePDFRenderDuration records one render.
func (m *InMemoryRecorder) ObservePDFRenderDuration(duration time.Duration) {
	m.pdfRenderCount.Add(1)
	m.pdfRenderTotalNs.Add(duration.Nanoseconds())
}
