package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kafexApp/kafexapp/pkg/emailverification"
)

// Handle serves the browser-facing side of the verification flow: the
// emailed link lands here and the outcome is rendered as a static HTML
// page. The decision logic is the same VerifyToken call the JSON API uses;
// only the rendering differs.
type Handle struct {
	service *emailverification.EmailVerificationService
}

// NewHandle creates a new web handle
func NewHandle(service *emailverification.EmailVerificationService) *Handle {
	return &Handle{
		service: service,
	}
}

// Routes registers the browser endpoint
func (h *Handle) Routes(r chi.Router) {
	r.Get("/verify-email", h.VerifyEmail)
}

// VerifyEmail handles GET /verify-email?token=...
func (h *Handle) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		renderPage(w, http.StatusBadRequest, missingTokenPage)
		return
	}

	result, err := h.service.VerifyToken(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, emailverification.ErrTokenNotFound):
			renderPage(w, http.StatusNotFound, invalidTokenPage)
		case errors.Is(err, emailverification.ErrTokenExpired):
			renderPage(w, http.StatusBadRequest, expiredPage)
		default:
			slog.Error("Failed to verify email from link", "err", err)
			renderPage(w, http.StatusInternalServerError, genericErrorPage)
		}
		return
	}

	if result.AlreadyVerified {
		renderPage(w, http.StatusOK, alreadyVerifiedPage)
		return
	}

	renderPage(w, http.StatusOK, successPage)
}

func renderPage(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		slog.Error("Failed to write page", "err", err)
	}
}
