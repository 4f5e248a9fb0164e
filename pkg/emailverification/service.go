package emailverification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kafexApp/kafexapp/pkg/notification"
)

// EmailVerificationService owns the verification token lifecycle: issuance,
// validation, best-effort profile sync and the transactional emails that
// carry the token.
type EmailVerificationService struct {
	repo                EmailVerificationRepository
	notificationManager *notification.NotificationManager
	baseURL             string
	tokenExpiry         time.Duration
	invalidatePrior     bool
	now                 func() time.Time
}

// VerificationResult is the outcome of a successful validation, consumed by
// both the JSON and the HTML adapters.
type VerificationResult struct {
	UserRef         string
	Email           string
	AlreadyVerified bool
	VerifiedAt      time.Time
}

// EmailVerificationServiceOption defines configuration options
type EmailVerificationServiceOption func(*EmailVerificationService)

// WithTokenExpiry sets the token expiration duration
func WithTokenExpiry(expiry time.Duration) EmailVerificationServiceOption {
	return func(s *EmailVerificationService) {
		s.tokenExpiry = expiry
	}
}

// WithInvalidatePriorTokens makes issuance force-expire the user's
// outstanding unverified tokens, so at most one link is live at a time.
// Off by default: the app historically allowed multiple live tokens.
func WithInvalidatePriorTokens() EmailVerificationServiceOption {
	return func(s *EmailVerificationService) {
		s.invalidatePrior = true
	}
}

// WithClock overrides the time source, for tests
func WithClock(now func() time.Time) EmailVerificationServiceOption {
	return func(s *EmailVerificationService) {
		s.now = now
	}
}

// NewEmailVerificationService creates a new email verification service.
// baseURL is the verification-link prefix; the emailed link is
// baseURL?token=<token>.
func NewEmailVerificationService(
	repo EmailVerificationRepository,
	notificationManager *notification.NotificationManager,
	baseURL string,
	opts ...EmailVerificationServiceOption,
) *EmailVerificationService {
	service := &EmailVerificationService{
		repo:                repo,
		notificationManager: notificationManager,
		baseURL:             baseURL,
		tokenExpiry:         24 * time.Hour,
		now:                 time.Now,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

// IssueToken creates and persists a new verification token for a user.
// The token doubles as a capability secret, so it must be unguessable:
// a random (crypto/rand backed) UUID, as the app has always used.
func (s *EmailVerificationService) IssueToken(ctx context.Context, userRef, email string) (*VerificationToken, error) {
	token, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.tokenExpiry)

	if s.invalidatePrior {
		// The validity window is inclusive of expires_at, so clamping to now
		// would leave the old links live for this instant.
		cutoff := now.Add(-time.Microsecond)
		if err := s.repo.ExpireActiveTokens(ctx, userRef, cutoff); err != nil {
			slog.Error("Failed to expire prior tokens", "user_ref", userRef, "err", err)
			return nil, err
		}
	}

	vt, err := s.repo.CreateVerificationToken(ctx, userRef, email, token.String(), expiresAt)
	if err != nil {
		slog.Error("Failed to create verification token", "user_ref", userRef, "err", err)
		return nil, err
	}

	slog.Info("Verification token issued", "user_ref", userRef, "expires_at", expiresAt)
	return vt, nil
}

// VerifyToken evaluates a presented token against the store and the current
// time and, when it is live, marks it verified and syncs the user profile.
//
// Evaluation order matters: a verified token reports AlreadyVerified even
// past its expiry, and only a live token triggers any write. The token-row
// update is the authoritative success signal; the profile update afterwards
// is best effort and its failure only produces a warning.
func (s *EmailVerificationService) VerifyToken(ctx context.Context, token string) (*VerificationResult, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}

	vt, err := s.repo.GetVerificationTokenByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			slog.Warn("Verification token not found")
			return nil, ErrTokenNotFound
		}
		slog.Error("Failed to load verification token", "err", err)
		return nil, err
	}

	if vt.Verified {
		slog.Info("Email already verified", "user_ref", vt.UserRef)
		result := &VerificationResult{
			UserRef:         vt.UserRef,
			Email:           vt.Email,
			AlreadyVerified: true,
		}
		if vt.VerifiedAt != nil {
			result.VerifiedAt = *vt.VerifiedAt
		}
		return result, nil
	}

	now := s.now().UTC()
	if now.After(vt.ExpiresAt) {
		slog.Warn("Verification token expired", "user_ref", vt.UserRef, "expires_at", vt.ExpiresAt)
		return nil, ErrTokenExpired
	}

	updated, err := s.repo.MarkTokenVerified(ctx, token, now)
	if err != nil {
		slog.Error("Failed to mark token as verified", "user_ref", vt.UserRef, "err", err)
		return nil, err
	}
	if !updated {
		// Another request verified this token between our read and write.
		slog.Info("Token verified concurrently by another request", "user_ref", vt.UserRef)
		result := &VerificationResult{
			UserRef:         vt.UserRef,
			Email:           vt.Email,
			AlreadyVerified: true,
		}
		// Report the winner's verification time, not ours
		if fresh, err := s.repo.GetVerificationTokenByToken(ctx, token); err == nil && fresh.VerifiedAt != nil {
			result.VerifiedAt = *fresh.VerifiedAt
		}
		return result, nil
	}

	if err := s.repo.MarkProfileEmailVerified(ctx, vt.UserRef, now); err != nil {
		// Verification is defined by the token row; the profile flag is a
		// projection. Surface the inconsistency, keep the success.
		slog.Warn("Token verified but profile update failed", "user_ref", vt.UserRef, "err", err)
	}

	slog.Info("Email verified", "user_ref", vt.UserRef)
	return &VerificationResult{
		UserRef:    vt.UserRef,
		Email:      vt.Email,
		VerifiedAt: now,
	}, nil
}

// SendVerificationEmail issues a fresh token and emails the verification
// link. The token row must be written before anything reaches the provider;
// a provider failure after that is a hard error to the caller, no retry.
func (s *EmailVerificationService) SendVerificationEmail(ctx context.Context, userRef, email, displayName string) error {
	vt, err := s.IssueToken(ctx, userRef, email)
	if err != nil {
		return err
	}

	verificationLink := fmt.Sprintf("%s?token=%s", s.baseURL, vt.Token)

	err = s.notificationManager.Send(notification.EmailVerificationNotice, notification.NotificationData{
		To:     email,
		ToName: displayName,
		Data: map[string]string{
			"NomeExibicao":     displayName,
			"VerificationLink": verificationLink,
			"ExpiryHours":      fmt.Sprintf("%.0f", s.tokenExpiry.Hours()),
			"Year":             fmt.Sprintf("%d", s.now().UTC().Year()),
		},
	})
	if err != nil {
		slog.Error("Failed to send verification email", "user_ref", userRef, "err", err)
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	slog.Info("Verification email sent", "user_ref", userRef)
	return nil
}

// SendWelcomeEmail sends the static welcome email. No token interaction.
func (s *EmailVerificationService) SendWelcomeEmail(ctx context.Context, email, displayName string) error {
	err := s.notificationManager.Send(notification.WelcomeNotice, notification.NotificationData{
		To:     email,
		ToName: displayName,
		Data: map[string]string{
			"NomeExibicao": displayName,
			"Year":         fmt.Sprintf("%d", s.now().UTC().Year()),
		},
	})
	if err != nil {
		slog.Error("Failed to send welcome email", "err", err)
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	slog.Info("Welcome email sent")
	return nil
}
