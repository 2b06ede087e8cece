// Package handler provides the HTTP handlers and routes of the web app.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/resumeforge/resumeforge/internal/auth"
	"github.com/resumeforge/resumeforge/internal/middleware"
)

// Handler wraps dependencies shared by every page handler.
type Handler struct {
	views   *Views
	logger  *slog.Logger
	cookies CookieConfig
}

// New creates a new Handler instance.
func New(views *Views, logger *slog.Logger, cookies CookieConfig) *Handler {
	return &Handler{
		views:   views,
		logger:  logger,
		cookies: cookies,
	}
}

// render fills in the caller's session and any pending flash, then writes page.
// A pending flash is always consumed, even when the caller supplies its own.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data PageData) {
	data.User = auth.SessionFromContext(r.Context())
	if pending := h.cookies.popFlash(w, r); data.Flash == nil {
		data.Flash = pending
	}

	if err := h.views.Render(w, status, page, data); err != nil {
		h.logger.Error("view render failed",
			slog.String("page", page),
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, target, kind, message string) {
	h.cookies.setFlash(w, kind, message)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) errorPage(w http.ResponseWriter, r *http.Request, status int, title, message string) {
	h.render(w, r, status, pageError, PageData{Title: title, Message: message})
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.errorPage(w, r, http.StatusNotFound, "Page not found", "The page you asked for does not exist.")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.errorPage(w, r, http.StatusMethodNotAllowed, "Method not allowed", "This page does not accept that kind of request.")
}

// InternalError handles 500 responses.
func (h *Handler) InternalError(w http.ResponseWriter, r *http.Request) {
	h.errorPage(w, r, http.StatusInternalServerError, "Something went wrong", "We could not complete your request. Please try again.")
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	h.logger.Error(msg,
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
	)
}
