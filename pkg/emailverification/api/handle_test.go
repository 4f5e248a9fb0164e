package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kafexApp/kafexapp/pkg/emailverification"
	"github.com/kafexApp/kafexapp/pkg/notification"
)

const testBaseURL = "https://link.kafex.com.br/verify-email"

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type testEnv struct {
	router   chi.Router
	service  *emailverification.EmailVerificationService
	repo     *emailverification.InMemRepository
	notifier *notification.MockNotifier
	clock    *fakeClock
}

func setupHandler(t *testing.T) *testEnv {
	repo := emailverification.NewInMemRepository()
	notifier := &notification.MockNotifier{}
	clock := newFakeClock()

	nm, err := notification.NewNotificationManagerWithOptions(testBaseURL, notification.WithDefaultTemplates())
	require.NoError(t, err)
	nm.RegisterNotifier(notification.EmailSystem, notifier)

	service := emailverification.NewEmailVerificationService(repo, nm, testBaseURL,
		emailverification.WithClock(clock.Now))

	r := chi.NewRouter()
	NewHandler(service).Routes(r)

	return &testEnv{router: r, service: service, repo: repo, notifier: notifier, clock: clock}
}

func postJSON(t *testing.T, router chi.Router, path string, body any) *httptest.ResponseRecorder {
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func TestVerifyTokenEndpoint(t *testing.T) {
	t.Run("MalformedBody", func(t *testing.T) {
		env := setupHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/verify-email-token", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp ErrorResponse
		decodeInto(t, rec, &resp)
		assert.Equal(t, "Corpo da requisição inválido", resp.Message)
	})

	t.Run("MissingToken", func(t *testing.T) {
		env := setupHandler(t)

		rec := postJSON(t, env.router, "/verify-email-token", VerifyTokenRequest{Token: ""})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp ErrorResponse
		decodeInto(t, rec, &resp)
		assert.False(t, resp.Success)
		assert.Equal(t, "Token não fornecido", resp.Message)
	})

	t.Run("NotFound", func(t *testing.T) {
		env := setupHandler(t)

		rec := postJSON(t, env.router, "/verify-email-token", VerifyTokenRequest{Token: "no-such-token"})

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var resp ErrorResponse
		decodeInto(t, rec, &resp)
		assert.Equal(t, "Token inválido ou não encontrado", resp.Message)
	})

	t.Run("Expired", func(t *testing.T) {
		env := setupHandler(t)
		env.repo.SeedProfile("u1")

		vt, err := env.service.IssueToken(context.Background(), "u1", "a@x.com")
		require.NoError(t, err)

		env.clock.Advance(25 * time.Hour)
		rec := postJSON(t, env.router, "/verify-email-token", VerifyTokenRequest{Token: vt.Token})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp VerifyTokenResponse
		decodeInto(t, rec, &resp)
		assert.False(t, resp.Success)
		assert.True(t, resp.Expired)
		assert.Equal(t, "Token expirado. Solicite um novo email de verificação.", resp.Message)
	})

	t.Run("Success", func(t *testing.T) {
		env := setupHandler(t)
		env.repo.SeedProfile("u1")

		vt, err := env.service.IssueToken(context.Background(), "u1", "a@x.com")
		require.NoError(t, err)

		rec := postJSON(t, env.router, "/verify-email-token", VerifyTokenRequest{Token: vt.Token})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
		var resp VerifyTokenResponse
		decodeInto(t, rec, &resp)
		assert.True(t, resp.Success)
		assert.Equal(t, "Email verificado com sucesso!", resp.Message)
		assert.Equal(t, "u1", resp.UserRef)
		assert.Equal(t, "a@x.com", resp.Email)
		assert.False(t, resp.AlreadyVerified)

		profile := env.repo.GetProfile("u1")
		require.NotNil(t, profile)
		assert.True(t, profile.EmailVerified)
	})

	t.Run("AlreadyVerified", func(t *testing.T) {
		env := setupHandler(t)
		env.repo.SeedProfile("u1")

		vt, err := env.service.IssueToken(context.Background(), "u1", "a@x.com")
		require.NoError(t, err)

		first := postJSON(t, env.router, "/verify-email-token", VerifyTokenRequest{Token: vt.Token})
		require.Equal(t, http.StatusOK, first.Code)

		rec := postJSON(t, env.router, "/verify-email-token", VerifyTokenRequest{Token: vt.Token})

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp VerifyTokenResponse
		decodeInto(t, rec, &resp)
		assert.True(t, resp.Success)
		assert.True(t, resp.AlreadyVerified)
		assert.Equal(t, "Email já foi verificado anteriormente", resp.Message)
	})
}

func TestSendEmailEndpoint(t *testing.T) {
	t.Run("Verification", func(t *testing.T) {
		env := setupHandler(t)

		rec := postJSON(t, env.router, "/send-verification-email", SendEmailRequest{
			UserRef:      "u1",
			Email:        "a@x.com",
			NomeExibicao: "Alice",
			Type:         EmailTypeVerification,
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp SendEmailResponse
		decodeInto(t, rec, &resp)
		assert.True(t, resp.Success)
		assert.Equal(t, "Email de verificação enviado!", resp.Message)

		require.Len(t, env.notifier.SentNotifications, 1)
		sent := env.notifier.SentNotifications[0]
		assert.Equal(t, "a@x.com", sent.To)
		assert.Contains(t, sent.Data["VerificationLink"], testBaseURL+"?token=")
	})

	t.Run("Welcome", func(t *testing.T) {
		env := setupHandler(t)

		rec := postJSON(t, env.router, "/send-verification-email", SendEmailRequest{
			Email:        "a@x.com",
			NomeExibicao: "Alice",
			Type:         EmailTypeWelcome,
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp SendEmailResponse
		decodeInto(t, rec, &resp)
		assert.True(t, resp.Success)
		assert.Equal(t, "Email de boas-vindas enviado!", resp.Message)
		assert.Len(t, env.notifier.SentNotifications, 1)
	})

	t.Run("UnknownType", func(t *testing.T) {
		env := setupHandler(t)

		rec := postJSON(t, env.router, "/send-verification-email", SendEmailRequest{
			UserRef: "u1",
			Email:   "a@x.com",
			Type:    "newsletter",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp ErrorResponse
		decodeInto(t, rec, &resp)
		assert.Equal(t, "Tipo de email inválido", resp.Message)
		assert.Empty(t, env.notifier.SentNotifications)
	})

	t.Run("ProviderFailure", func(t *testing.T) {
		env := setupHandler(t)
		env.notifier.Err = errors.New("brevo rejected message: status 401")

		rec := postJSON(t, env.router, "/send-verification-email", SendEmailRequest{
			UserRef:      "u1",
			Email:        "a@x.com",
			NomeExibicao: "Alice",
			Type:         EmailTypeVerification,
		})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var resp ErrorResponse
		decodeInto(t, rec, &resp)
		assert.Equal(t, "Erro ao enviar email de verificação", resp.Error)
	})
}
