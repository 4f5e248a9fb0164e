package emailverification

import (
	"context"
	"sync"
	"time"
)

// InMemRepository implements EmailVerificationRepository with in-memory
// maps. It backs service tests and the no-database development binary.
// All data is lost when the process stops.
type InMemRepository struct {
	mutex    sync.RWMutex
	tokens   map[string]*VerificationToken // key: token string
	profiles map[string]*UserProfile       // key: user ref
}

// NewInMemRepository creates an empty in-memory repository
func NewInMemRepository() *InMemRepository {
	return &InMemRepository{
		tokens:   make(map[string]*VerificationToken),
		profiles: make(map[string]*UserProfile),
	}
}

// SeedProfile registers a user profile, standing in for the registration
// flow that creates usuario_perfil rows outside this service.
func (r *InMemRepository) SeedProfile(ref string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.profiles[ref] = &UserProfile{Ref: ref}
}

// GetProfile returns a copy of a seeded profile, or nil
func (r *InMemRepository) GetProfile(ref string) *UserProfile {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	p, exists := r.profiles[ref]
	if !exists {
		return nil
	}
	pCopy := *p
	return &pCopy
}

// CreateVerificationToken inserts a new token row
func (r *InMemRepository) CreateVerificationToken(ctx context.Context, userRef, email, token string, expiresAt time.Time) (*VerificationToken, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	vt := &VerificationToken{
		UserRef:   userRef,
		Email:     email,
		Token:     token,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expiresAt,
		Verified:  false,
		Attempts:  0,
	}
	r.tokens[token] = vt

	vtCopy := *vt
	return &vtCopy, nil
}

// GetVerificationTokenByToken retrieves a token row in any state
func (r *InMemRepository) GetVerificationTokenByToken(ctx context.Context, token string) (*VerificationToken, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	vt, exists := r.tokens[token]
	if !exists {
		return nil, ErrTokenNotFound
	}

	vtCopy := *vt
	return &vtCopy, nil
}

// MarkTokenVerified flips the token to verified unless it already is
func (r *InMemRepository) MarkTokenVerified(ctx context.Context, token string, verifiedAt time.Time) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	vt, exists := r.tokens[token]
	if !exists {
		return false, ErrTokenNotFound
	}
	if vt.Verified {
		return false, nil
	}

	vt.Verified = true
	at := verifiedAt
	vt.VerifiedAt = &at
	return true, nil
}

// MarkProfileEmailVerified propagates the verification to the profile
func (r *InMemRepository) MarkProfileEmailVerified(ctx context.Context, userRef string, updatedAt time.Time) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	p, exists := r.profiles[userRef]
	if !exists {
		return ErrProfileNotFound
	}

	p.EmailVerified = true
	p.UpdatedAt = updatedAt
	return nil
}

// ExpireActiveTokens clamps expires_at on a user's outstanding unverified tokens
func (r *InMemRepository) ExpireActiveTokens(ctx context.Context, userRef string, cutoff time.Time) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, vt := range r.tokens {
		if vt.UserRef == userRef && !vt.Verified && vt.ExpiresAt.After(cutoff) {
			vt.ExpiresAt = cutoff
		}
	}
	return nil
}
