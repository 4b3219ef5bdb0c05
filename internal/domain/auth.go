package domain

import (
	"context"
	"errors"

	"github.com/Surzhikov161/Refferal-App/internal/entity"
	"github.com/Surzhikov161/Refferal-App/internal/model"
	"github.com/Surzhikov161/Refferal-App/internal/repository"
	"github.com/Surzhikov161/Refferal-App/pkg/crypto"
	"github.com/Surzhikov161/Refferal-App/pkg/errorx"
	"github.com/Surzhikov161/Refferal-App/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthDomain interface {
	Register(context.Context, *model.RegisterRequest) (*model.RegisterResponse, error)
	Login(context.Context, *model.LoginRequest) (*model.LoginResponse, error)
	GetMe(context.Context, *model.GetMeRequest) (*model.GetMeResponse, error)
}

type authDomain struct {
	userRepo       repository.UserRepository
	referralDomain ReferralDomain
}

func NewAuthDomain(userRepo repository.UserRepository, referralDomain ReferralDomain) *authDomain {
	return &authDomain{
		userRepo:       userRepo,
		referralDomain: referralDomain,
	}
}

func (d *authDomain) Register(
	ctx context.Context, req *model.RegisterRequest,
) (*model.RegisterResponse, error) {
	passwordHash, err := crypto.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, crypto.ErrEmptyPassword) {
			return nil, errorx.New(errorx.BadRequest, "Password cannot be empty")
		}

		xcontext.Logger(ctx).Errorf("Cannot hash password: %v", err)
		return nil, errorx.Unknown
	}

	if err := entity.CheckUsername(req.Username); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Username length must be 5 or above")
	}

	if err := entity.CheckEmail(req.Email); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid email")
	}

	newUser := &entity.User{
		Base:         entity.Base{ID: uuid.NewString()},
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
	}

	// An invalid referral code must stay distinguishable from a duplicate
	// user: the former is a not-found condition, the latter a conflict.
	if req.ReferralCode != "" {
		if err := d.referralDomain.RedeemAndRegister(ctx, req.ReferralCode, newUser); err != nil {
			return nil, err
		}
	} else {
		if err := createUser(ctx, d.userRepo, newUser); err != nil {
			return nil, err
		}
	}

	return &model.RegisterResponse{User: model.ConvertUser(newUser)}, nil
}

func (d *authDomain) Login(
	ctx context.Context, req *model.LoginRequest,
) (*model.LoginResponse, error) {
	// Unknown user and wrong password collapse into one answer to avoid
	// user enumeration.
	user, err := d.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unauthenticated, "Incorrect username or password")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if !crypto.ComparePassword(user.PasswordHash, req.Password) {
		return nil, errorx.New(errorx.Unauthenticated, "Incorrect username or password")
	}

	accessToken, err := xcontext.TokenEngine(ctx).Generate(
		xcontext.Configs(ctx).Auth.AccessToken.Expiration,
		model.AccessToken{ID: user.ID, Username: user.Username},
	)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.LoginResponse{AccessToken: accessToken, TokenType: "bearer"}, nil
}

func (d *authDomain) GetMe(
	ctx context.Context, req *model.GetMeRequest,
) (*model.GetMeResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetMeResponse{User: model.ConvertUser(user)}, nil
}
