package models

// TokenResponse is returned by the login and refresh endpoints.
// ExpiresIn is seconds from issue; it is an advisory hint, the client does
// not enforce expiry locally.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Message is the generic acknowledgment body of the verification and
// password-recovery endpoints.
type Message struct {
	Message string `json:"message"`
}
