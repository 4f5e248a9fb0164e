package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kafexApp/kafexapp/pkg/emailverification"
	"github.com/kafexApp/kafexapp/pkg/notification"
)

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

func setupWebHandle(t *testing.T) (chi.Router, *emailverification.EmailVerificationService, *emailverification.InMemRepository, *fakeClock) {
	repo := emailverification.NewInMemRepository()
	clock := newFakeClock()

	nm, err := notification.NewNotificationManagerWithOptions(
		"http://localhost:8080/verify-email",
		notification.WithDefaultTemplates(),
	)
	require.NoError(t, err)
	nm.RegisterNotifier(notification.EmailSystem, &notification.MockNotifier{})

	service := emailverification.NewEmailVerificationService(repo, nm, "http://localhost:8080/verify-email",
		emailverification.WithClock(clock.Now))

	r := chi.NewRouter()
	NewHandle(service).Routes(r)

	return r, service, repo, clock
}

func getVerifyEmail(router chi.Router, token string) *httptest.ResponseRecorder {
	target := "/verify-email"
	if token != "" {
		target += "?token=" + token
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestVerifyEmailPage(t *testing.T) {
	t.Run("MissingToken", func(t *testing.T) {
		router, _, _, _ := setupWebHandle(t)

		rec := getVerifyEmail(router, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "Token Inválido")
		assert.Contains(t, rec.Body.String(), "incompleto ou inválido")
	})

	t.Run("NotFound", func(t *testing.T) {
		router, _, _, _ := setupWebHandle(t)

		rec := getVerifyEmail(router, "no-such-token")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Token Inválido")
		assert.Contains(t, rec.Body.String(), "não é válido")
	})

	t.Run("Expired", func(t *testing.T) {
		router, service, repo, clock := setupWebHandle(t)
		repo.SeedProfile("u1")

		vt, err := service.IssueToken(context.Background(), "u1", "a@x.com")
		require.NoError(t, err)

		clock.Advance(25 * time.Hour)
		rec := getVerifyEmail(router, vt.Token)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Link Expirado")
	})

	t.Run("Success", func(t *testing.T) {
		router, service, repo, _ := setupWebHandle(t)
		repo.SeedProfile("u1")

		vt, err := service.IssueToken(context.Background(), "u1", "a@x.com")
		require.NoError(t, err)

		rec := getVerifyEmail(router, vt.Token)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Email Verificado!")
		assert.Contains(t, rec.Body.String(), "Parabéns")

		profile := repo.GetProfile("u1")
		require.NotNil(t, profile)
		assert.True(t, profile.EmailVerified)
	})

	t.Run("AlreadyVerified", func(t *testing.T) {
		router, service, repo, _ := setupWebHandle(t)
		repo.SeedProfile("u1")

		vt, err := service.IssueToken(context.Background(), "u1", "a@x.com")
		require.NoError(t, err)

		first := getVerifyEmail(router, vt.Token)
		require.Equal(t, http.StatusOK, first.Code)

		// Clicking the emailed link a second time is still a success page
		rec := getVerifyEmail(router, vt.Token)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Email Já Verificado!")
	})
}
