package model

// AccessToken is the claim object embedded in access tokens.
type AccessToken struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ReferralToken is the claim object embedded in referral codes. The email
// identifies the owning user at redemption time.
type ReferralToken struct {
	Email string `json:"email"`
}

type RegisterRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	ReferralCode string `json:"referral_code"`
}

type RegisterResponse struct {
	User User `json:"user"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
