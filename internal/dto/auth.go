package dto

// AuthResponse represents the response for a successful login.
type AuthResponse struct {
	AccessToken string         `json:"accessToken"`
	TokenType   string         `json:"tokenType"`
	ExpiresIn   int64          `json:"expiresIn"`
	Member      MemberResponse `json:"member"`
}
