package model

type CreateReferralCodeRequest struct{}

type CreateReferralCodeResponse struct {
	ReferralCode string `json:"referral_code"`
}

type DeleteReferralCodeRequest struct{}

type DeleteReferralCodeResponse struct{}

type GetReferralCodeRequest struct {
	Email string `json:"email"`
}

type GetReferralCodeResponse struct {
	ReferralCode string `json:"referral_code"`
}

type GetReferralsRequest struct {
	UserID string `json:"user_id"`
}

type GetReferralsResponse struct {
	Referrals []Referral `json:"referrals"`
}
