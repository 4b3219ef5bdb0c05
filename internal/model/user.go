package model

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Referral is one entry of a user's referral list.
type Referral struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type GetMeRequest struct{}

type GetMeResponse struct {
	User User `json:"user"`
}
