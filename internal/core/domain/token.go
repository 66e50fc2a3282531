package domain

// TokenPayload is the identity carried by a session token.
type TokenPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
