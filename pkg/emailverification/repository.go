package emailverification

import (
	"context"
	"time"
)

// VerificationToken mirrors one row of the email_verification table.
// Attempts is persisted but never incremented by current logic; it is
// reserved for a future rate-limit policy.
type VerificationToken struct {
	UserRef    string     `json:"user_ref"`
	Email      string     `json:"email"`
	Token      string     `json:"token"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	Verified   bool       `json:"verified"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	Attempts   int32      `json:"attempts"`
}

// UserProfile is the slice of usuario_perfil this flow touches.
type UserProfile struct {
	Ref           string    `json:"ref"`
	EmailVerified bool      `json:"email_verificado"`
	UpdatedAt     time.Time `json:"atualizado_em"`
}

// EmailVerificationRepository defines the storage operations for the token
// lifecycle. Rows are never deleted; used and expired tokens persist as an
// audit trail.
type EmailVerificationRepository interface {
	// CreateVerificationToken inserts a new token row with verified=false
	// and attempts=0.
	CreateVerificationToken(ctx context.Context, userRef, email, token string, expiresAt time.Time) (*VerificationToken, error)

	// GetVerificationTokenByToken returns the row for a token regardless of
	// its verified or expired state, or ErrTokenNotFound.
	GetVerificationTokenByToken(ctx context.Context, token string) (*VerificationToken, error)

	// MarkTokenVerified flips verified/verified_at in a single conditional
	// write gated on verified=false. It reports false when the row was
	// already verified, which is how a lost validation race surfaces.
	MarkTokenVerified(ctx context.Context, token string, verifiedAt time.Time) (bool, error)

	// MarkProfileEmailVerified sets email_verificado and atualizado_em on
	// the user profile row.
	MarkProfileEmailVerified(ctx context.Context, userRef string, updatedAt time.Time) error

	// ExpireActiveTokens clamps expires_at to cutoff on the user's
	// outstanding unverified tokens. The caller picks a cutoff already in
	// the past, since a token is valid through its expires_at instant. Only
	// called when the invalidate-prior-tokens policy is on.
	ExpireActiveTokens(ctx context.Context, userRef string, cutoff time.Time) error
}
