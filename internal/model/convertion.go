package model

import "github.com/Surzhikov161/Refferal-App/internal/entity"

func ConvertUser(user *entity.User) User {
	if user == nil {
		return User{}
	}

	return User{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

func ConvertReferrals(users []entity.User) []Referral {
	referrals := []Referral{}
	for _, u := range users {
		referrals = append(referrals, Referral{ID: u.ID, Username: u.Username})
	}

	return referrals
}
