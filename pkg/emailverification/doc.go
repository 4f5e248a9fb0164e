// Package emailverification implements the Kafex email-verification flow.
//
// A verification token is an unguessable random UUID persisted in the
// email_verification table with a 24 hour lifetime. It moves through a
// one-way lifecycle: issued (verified=false) and then, at most once,
// verified (verified=true, verified_at set). Rows are never deleted; used
// and expired tokens remain as an audit trail.
//
// # Validation state machine
//
// Evaluated against the stored row and the current time:
//
//   - no row            -> ErrTokenNotFound
//   - verified already  -> success with AlreadyVerified (idempotent replay;
//     takes precedence over expiry)
//   - past expires_at   -> ErrTokenExpired
//   - otherwise         -> conditional update to verified=true, then a
//     best-effort usuario_perfil sync
//
// The token-row update gates overall success. The profile update may fail
// without failing the call; the inconsistency is logged for operators.
// The conditional update (WHERE verified = FALSE) guarantees at most one
// first-time success per token even under concurrent validation; the loser
// of the race observes AlreadyVerified.
//
// # Usage
//
//	repo := emailverification.NewPostgresRepository(pool)
//	svc := emailverification.NewEmailVerificationService(repo, notificationManager, baseURL)
//
//	// Issue a token and email the link
//	err := svc.SendVerificationEmail(ctx, userRef, email, displayName)
//
//	// Later, from the link click or the app
//	result, err := svc.VerifyToken(ctx, token)
//
// The api subpackage exposes the JSON endpoints consumed by the mobile app;
// the web subpackage renders the browser-facing confirmation pages. Both sit
// on VerifyToken and differ only in rendering.
package emailverification
