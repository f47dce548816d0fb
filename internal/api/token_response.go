package api

// swagger:model api.TokenResponse
type TokenResponse struct {
	AccessToken  string        `json:"accessToken"`
	TokenType    string        `json:"tokenType" example:"Bearer"`
	ExpiresIn    int           `json:"expiresIn" example:"86400"`
	RefreshToken string        `json:"refreshToken,omitempty"`
	User         *UserResponse `json:"user,omitempty"`
}
