package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/kafexApp/kafexapp/pkg/emailverification"
)

const (
	// Email kinds accepted by the send endpoint
	EmailTypeVerification = "verification"
	EmailTypeWelcome      = "welcome"
)

// Handler exposes the JSON email-verification endpoints consumed by the
// mobile app. CORS (including preflight) is handled by app-level middleware.
type Handler struct {
	service *emailverification.EmailVerificationService
}

// NewHandler creates a new email verification API handler
func NewHandler(service *emailverification.EmailVerificationService) *Handler {
	return &Handler{
		service: service,
	}
}

// Routes registers the API endpoints
func (h *Handler) Routes(r chi.Router) {
	r.Post("/verify-email-token", h.VerifyToken)
	r.Post("/send-verification-email", h.SendEmail)
}

// VerifyToken handles POST /verify-email-token
func (h *Handler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	var req VerifyTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode request body", "err", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Message: "Corpo da requisição inválido"})
		return
	}

	if req.Token == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Message: "Token não fornecido"})
		return
	}

	result, err := h.service.VerifyToken(r.Context(), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, emailverification.ErrTokenNotFound):
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, ErrorResponse{Message: "Token inválido ou não encontrado"})
		case errors.Is(err, emailverification.ErrTokenExpired):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, VerifyTokenResponse{
				Success: false,
				Message: "Token expirado. Solicite um novo email de verificação.",
				Expired: true,
			})
		default:
			slog.Error("Failed to verify email", "err", err)
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, ErrorResponse{Error: "Erro ao verificar email"})
		}
		return
	}

	if result.AlreadyVerified {
		render.Status(r, http.StatusOK)
		render.JSON(w, r, VerifyTokenResponse{
			Success:         true,
			Message:         "Email já foi verificado anteriormente",
			AlreadyVerified: true,
		})
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, VerifyTokenResponse{
		Success: true,
		Message: "Email verificado com sucesso!",
		UserRef: result.UserRef,
		Email:   result.Email,
	})
}

// SendEmail handles POST /send-verification-email
func (h *Handler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req SendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode request body", "err", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Message: "Corpo da requisição inválido"})
		return
	}

	slog.Info("Processing email request", "type", req.Type, "user_ref", req.UserRef)

	switch req.Type {
	case EmailTypeVerification:
		if err := h.service.SendVerificationEmail(r.Context(), req.UserRef, req.Email, req.NomeExibicao); err != nil {
			slog.Error("Failed to send verification email", "user_ref", req.UserRef, "err", err)
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, ErrorResponse{Error: "Erro ao enviar email de verificação"})
			return
		}
		render.Status(r, http.StatusOK)
		render.JSON(w, r, SendEmailResponse{Success: true, Message: "Email de verificação enviado!"})

	case EmailTypeWelcome:
		if err := h.service.SendWelcomeEmail(r.Context(), req.Email, req.NomeExibicao); err != nil {
			slog.Error("Failed to send welcome email", "err", err)
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, ErrorResponse{Error: "Erro ao enviar email de boas-vindas"})
			return
		}
		render.Status(r, http.StatusOK)
		render.JSON(w, r, SendEmailResponse{Success: true, Message: "Email de boas-vindas enviado!"})

	default:
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Message: "Tipo de email inválido"})
	}
}
