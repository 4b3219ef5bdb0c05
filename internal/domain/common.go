package domain

import (
	"context"
	"errors"

	"github.com/Surzhikov161/Refferal-App/internal/entity"
	"github.com/Surzhikov161/Refferal-App/internal/repository"
	"github.com/Surzhikov161/Refferal-App/pkg/errorx"
	"github.com/Surzhikov161/Refferal-App/pkg/xcontext"
)

// createUser persists a new user and classifies the failure: entity
// validation and expected uniqueness conflicts are caller errors, anything
// else is an unexpected storage fault and is logged, never swallowed.
func createUser(ctx context.Context, userRepo repository.UserRepository, user *entity.User) error {
	err := userRepo.Create(ctx, user)
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, entity.ErrInvalidUsername):
		return errorx.New(errorx.BadRequest, "Username length must be 5 or above")
	case errors.Is(err, entity.ErrInvalidEmail):
		return errorx.New(errorx.BadRequest, "Invalid email")
	case repository.IsDuplicateError(err):
		if field := duplicateUserField(err); field != "" {
			return errorx.New(errorx.AlreadyExists, "This %s is already taken", field)
		}

		return errorx.New(errorx.AlreadyExists, "Username or email is already taken")
	default:
		xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
		return errorx.Unknown
	}
}

func duplicateUserField(err error) string {
	switch repository.DuplicateField(err) {
	case "username":
		return "username"
	case "email":
		return "email"
	case "password_hash":
		return "password"
	}

	return ""
}
