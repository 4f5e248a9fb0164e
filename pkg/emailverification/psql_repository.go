package emailverification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements EmailVerificationRepository on top of the
// email_verification and usuario_perfil tables.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new Postgres-backed repository
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateVerificationToken inserts a new token row
func (r *PostgresRepository) CreateVerificationToken(ctx context.Context, userRef, email, token string, expiresAt time.Time) (*VerificationToken, error) {
	query := `
		INSERT INTO email_verification (user_ref, email, token, expires_at, verified, attempts)
		VALUES ($1, $2, $3, $4, FALSE, 0)
		RETURNING user_ref, email, token, created_at, expires_at, verified, verified_at, attempts
	`

	var vt VerificationToken
	err := r.db.QueryRow(ctx, query, userRef, email, token, expiresAt).Scan(
		&vt.UserRef,
		&vt.Email,
		&vt.Token,
		&vt.CreatedAt,
		&vt.ExpiresAt,
		&vt.Verified,
		&vt.VerifiedAt,
		&vt.Attempts,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert verification token: %w", err)
	}

	return &vt, nil
}

// GetVerificationTokenByToken retrieves a token row in any state
func (r *PostgresRepository) GetVerificationTokenByToken(ctx context.Context, token string) (*VerificationToken, error) {
	query := `
		SELECT user_ref, email, token, created_at, expires_at, verified, verified_at, attempts
		FROM email_verification
		WHERE token = $1
	`

	var vt VerificationToken
	err := r.db.QueryRow(ctx, query, token).Scan(
		&vt.UserRef,
		&vt.Email,
		&vt.Token,
		&vt.CreatedAt,
		&vt.ExpiresAt,
		&vt.Verified,
		&vt.VerifiedAt,
		&vt.Attempts,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to query verification token: %w", err)
	}

	return &vt, nil
}

// MarkTokenVerified flips the token to verified in a single conditional
// write. Zero rows affected means another request won the race.
func (r *PostgresRepository) MarkTokenVerified(ctx context.Context, token string, verifiedAt time.Time) (bool, error) {
	query := `
		UPDATE email_verification
		SET verified = TRUE, verified_at = $2
		WHERE token = $1
		AND verified = FALSE
	`

	ct, err := r.db.Exec(ctx, query, token, verifiedAt)
	if err != nil {
		return false, fmt.Errorf("failed to update verification token: %w", err)
	}

	return ct.RowsAffected() > 0, nil
}

// MarkProfileEmailVerified propagates the verification to usuario_perfil
func (r *PostgresRepository) MarkProfileEmailVerified(ctx context.Context, userRef string, updatedAt time.Time) error {
	query := `
		UPDATE usuario_perfil
		SET email_verificado = TRUE, atualizado_em = $2
		WHERE ref = $1
	`

	ct, err := r.db.Exec(ctx, query, userRef, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrProfileNotFound
	}

	return nil
}

// ExpireActiveTokens clamps expires_at on a user's outstanding unverified tokens
func (r *PostgresRepository) ExpireActiveTokens(ctx context.Context, userRef string, cutoff time.Time) error {
	query := `
		UPDATE email_verification
		SET expires_at = $2
		WHERE user_ref = $1
		AND verified = FALSE
		AND expires_at > $2
	`

	_, err := r.db.Exec(ctx, query, userRef, cutoff)
	if err != nil {
		return fmt.Errorf("failed to expire tokens: %w", err)
	}

	return nil
}
