package entity

import (
	"errors"
	"regexp"

	"gorm.io/gorm"
)

var (
	ErrInvalidUsername = errors.New("username length must be 5 or above")
	ErrInvalidEmail    = errors.New("invalid email")
)

// emailRegex accepts local parts of alphanumeric segments separated by dots,
// dashes, or underscores, followed by a domain and a TLD of at least two
// letters.
var emailRegex = regexp.MustCompile(`^([A-Za-z0-9]+[._-])*[A-Za-z0-9]+@[A-Za-z0-9-]+(\.[A-Za-z]{2,})+$`)

type User struct {
	Base
	Username     string `gorm:"size:50;unique;not null"`
	Email        string `gorm:"size:64;unique;not null"`
	PasswordHash string `gorm:"unique;not null"`
}

// BeforeSave enforces the field-level invariants on every write, not only at
// the request boundary.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if err := CheckUsername(u.Username); err != nil {
		return err
	}

	return CheckEmail(u.Email)
}

func CheckUsername(username string) error {
	if len(username) < 5 {
		return ErrInvalidUsername
	}

	return nil
}

func CheckEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}
