package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/resumeforge/resumeforge/internal/model"
	"github.com/resumeforge/resumeforge/internal/service"
)

const (
	loginPath     = "/login/"
	registerPath  = "/register/"
	dashboardPath = "/dashboard/"
)

// AccountService is the account logic the handlers need.
type AccountService interface {
	Register(ctx context.Context, input service.RegisterInput) (*model.User, error)
	Login(ctx context.Context, username, password string) (*service.LoginResult, error)
	Logout(ctx context.Context, token string) error
}

// AccountHandler serves registration, login and logout.
type AccountHandler struct {
	*Handler
	svc AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(h *Handler, svc AccountService) *AccountHandler {
	return &AccountHandler{Handler: h, svc: svc}
}

// RegisterForm handles GET / and GET /register/.
func (h *AccountHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pageRegister, PageData{Title: "Register"})
}

// Register handles POST /register/.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirectWithFlash(w, r, registerPath, FlashError, "Could not read the submitted form.")
		return
	}

	user, err := h.svc.Register(r.Context(), service.RegisterInput{
		Username: r.PostForm.Get("username"),
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
	})
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			h.redirectWithFlash(w, r, registerPath, FlashError, "Username already exists")
		case errors.As(err, &verr):
			h.redirectWithFlash(w, r, registerPath, FlashError, validationSummary(verr))
		default:
			h.logError(r, "register failed", err)
			h.InternalError(w, r)
		}
		return
	}

	h.logger.Info("user_registered", slog.String("user_id", user.ID))
	h.redirectWithFlash(w, r, loginPath, FlashSuccess, "Account created successfully!")
}

// LoginForm handles GET /login/.
func (h *AccountHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pageLogin, PageData{
		Title: "Log in",
		Next:  safeNext(r.URL.Query().Get("next")),
	})
}

// Login handles POST /login/.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirectWithFlash(w, r, loginPath, FlashError, "Could not read the submitted form.")
		return
	}
	next := safeNext(r.PostForm.Get("next"))

	result, err := h.svc.Login(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			target := loginPath
			if next != "" {
				target += "?" + url.Values{"next": {next}}.Encode()
			}
			h.redirectWithFlash(w, r, target, FlashError, "Invalid username or password")
			return
		}
		h.logError(r, "login failed", err)
		h.InternalError(w, r)
		return
	}

	h.cookies.setSession(w, result.Token, result.Session.ExpiresAt)
	h.logger.Info("user_logged_in", slog.String("user_id", result.Session.UserID))

	if next == "" {
		next = dashboardPath
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// Logout handles GET and POST /logout/. It always clears the cookie.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookies.SessionName); err == nil && cookie.Value != "" {
		if err := h.svc.Logout(r.Context(), cookie.Value); err != nil {
			h.logError(r, "logout failed", err)
		}
	}
	h.cookies.clearSession(w)
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

// safeNext returns next when it is a local absolute path, otherwise "".
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.ContainsRune(next, '\\') {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return ""
	}
	return next
}

func validationSummary(verr *service.ValidationError) string {
	msgs := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	if len(msgs) == 0 {
		return "Please check the form and try again."
	}
	return strings.Join(msgs, "; ")
}
