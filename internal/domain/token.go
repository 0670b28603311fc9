package domain

// TokenPair is the signed access/refresh credential pair minted on login and
// rotation. It is never persisted as a unit; only the refresh token is stored,
// on the user record.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
