package handler

import (
	"fmt"
	"net/http"

	"github.com/resumeforge/resumeforge/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "resumeforge_users_registered_total %d\n", snap.UsersRegistered)
	writeMetric(w, "resumeforge_logins_total{status=\"success\"} %d\n", snap.LoginsSucceeded)
	writeMetric(w, "resumeforge_logins_total{status=\"failed\"} %d\n", snap.LoginsFailed)

	writeMetric(w, "resumeforge_resumes_created_total %d\n", snap.ResumesCreated)

	writeMetric(w, "resumeforge_pdf_exports_total{status=\"success\"} %d\n", snap.PDFsExported)
	writeMetric(w, "resumeforge_pdf_exports_total{status=\"failed\"} %d\n", snap.PDFsFailed)
	writeMetric(w, "resumeforge_pdf_render_duration_seconds_count %d\n", snap.PDFRenderCount)
	writeMetric(w, "resumeforge_pdf_render_duration_seconds_sum %.6f\n", float64(snap.PDFRenderTotalNs)/1e9)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
