package api

// VerifyTokenRequest is the body of POST /verify-email-token
type VerifyTokenRequest struct {
	Token string `json:"token"`
}

// VerifyTokenResponse mirrors the wire format the mobile app consumes.
// AlreadyVerified and Expired are only present on their respective outcomes.
type VerifyTokenResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message,omitempty"`
	AlreadyVerified bool   `json:"alreadyVerified,omitempty"`
	Expired         bool   `json:"expired,omitempty"`
	UserRef         string `json:"userRef,omitempty"`
	Email           string `json:"email,omitempty"`
}

// SendEmailRequest is the body of POST /send-verification-email
type SendEmailRequest struct {
	UserRef      string `json:"userRef"`
	Email        string `json:"email"`
	NomeExibicao string `json:"nomeExibicao"`
	Type         string `json:"type"` // "verification" or "welcome"
}

// SendEmailResponse is the success body of POST /send-verification-email
type SendEmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the generic failure body
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
