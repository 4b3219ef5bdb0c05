package domain

import (
	"context"
	"errors"

	"github.com/Surzhikov161/Refferal-App/internal/entity"
	"github.com/Surzhikov161/Refferal-App/internal/model"
	"github.com/Surzhikov161/Refferal-App/internal/repository"
	"github.com/Surzhikov161/Refferal-App/pkg/errorx"
	"github.com/Surzhikov161/Refferal-App/pkg/xcontext"
	"github.com/Surzhikov161/Refferal-App/pkg/xredis"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReferralDomain interface {
	Create(context.Context, *model.CreateReferralCodeRequest) (*model.CreateReferralCodeResponse, error)
	Delete(context.Context, *model.DeleteReferralCodeRequest) (*model.DeleteReferralCodeResponse, error)
	GetByEmail(context.Context, *model.GetReferralCodeRequest) (*model.GetReferralCodeResponse, error)
	GetReferrals(context.Context, *model.GetReferralsRequest) (*model.GetReferralsResponse, error)

	// RedeemAndRegister validates the referral code, persists the new user,
	// and links it to the referrer in one transaction.
	RedeemAndRegister(ctx context.Context, codeToken string, newUser *entity.User) error
}

type referralDomain struct {
	userRepo         repository.UserRepository
	referralCodeRepo repository.ReferralCodeRepository
	referralRepo     repository.ReferralRepository
	redisClient      xredis.Client
}

func NewReferralDomain(
	userRepo repository.UserRepository,
	referralCodeRepo repository.ReferralCodeRepository,
	referralRepo repository.ReferralRepository,
	redisClient xredis.Client,
) *referralDomain {
	return &referralDomain{
		userRepo:         userRepo,
		referralCodeRepo: referralCodeRepo,
		referralRepo:     referralRepo,
		redisClient:      redisClient,
	}
}

func referralCodeCacheKey(email string) string {
	return "referral_code:" + email
}

func invalidReferralError() error {
	return errorx.New(errorx.NotFound, "Invalid referral code")
}

// validate resolves a presented referral code to its owning user. A token
// that decodes correctly is still rejected unless it matches the currently
// stored code verbatim, so a revoked-and-reissued code cannot be replayed.
func (d *referralDomain) validate(ctx context.Context, codeToken string) (*entity.User, error) {
	var token model.ReferralToken
	if err := xcontext.TokenEngine(ctx).Verify(codeToken, &token); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot verify referral token: %v", err)
		return nil, invalidReferralError()
	}

	user, err := d.userRepo.GetByEmail(ctx, token.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidReferralError()
		}

		xcontext.Logger(ctx).Errorf("Cannot get user by email: %v", err)
		return nil, errorx.Unknown
	}

	code, err := d.referralCodeRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidReferralError()
		}

		xcontext.Logger(ctx).Errorf("Cannot get referral code: %v", err)
		return nil, errorx.Unknown
	}

	if code.Code != codeToken {
		return nil, invalidReferralError()
	}

	return user, nil
}

func (d *referralDomain) Create(
	ctx context.Context, req *model.CreateReferralCodeRequest,
) (*model.CreateReferralCodeResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	codeToken, err := xcontext.TokenEngine(ctx).Generate(
		xcontext.Configs(ctx).Auth.ReferralToken.Expiration,
		model.ReferralToken{Email: user.Email},
	)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate referral token: %v", err)
		return nil, errorx.Unknown
	}

	// No pre-check for an existing code: the unique index over user_id is
	// what closes the race between two concurrent creates.
	err = d.referralCodeRepo.Create(ctx, &entity.ReferralCode{
		ID:     uuid.NewString(),
		UserID: user.ID,
		Code:   codeToken,
	})
	if err != nil {
		if repository.IsDuplicateError(err) {
			return nil, errorx.New(errorx.AlreadyExists, "Referral code already exists")
		}

		xcontext.Logger(ctx).Errorf("Cannot create referral code: %v", err)
		return nil, errorx.Unknown
	}

	d.invalidateCache(ctx, user.Email)

	return &model.CreateReferralCodeResponse{ReferralCode: codeToken}, nil
}

func (d *referralDomain) Delete(
	ctx context.Context, req *model.DeleteReferralCodeRequest,
) (*model.DeleteReferralCodeResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.referralCodeRepo.DeleteByUserID(ctx, user.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "User doesn't have a referral code")
		}

		xcontext.Logger(ctx).Errorf("Cannot delete referral code: %v", err)
		return nil, errorx.Unknown
	}

	// Legacy behavior: revoking a code also prunes the edges rooted at the
	// owner. Disabled by default to preserve referral history.
	if xcontext.Configs(ctx).Referral.PruneEdgesOnRevoke {
		if err := d.referralRepo.DeleteByReferrerID(ctx, user.ID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete referrals: %v", err)
			return nil, errorx.Unknown
		}
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	d.invalidateCache(ctx, user.Email)

	return &model.DeleteReferralCodeResponse{}, nil
}

func (d *referralDomain) GetByEmail(
	ctx context.Context, req *model.GetReferralCodeRequest,
) (*model.GetReferralCodeResponse, error) {
	key := referralCodeCacheKey(req.Email)
	if cached, err := d.redisClient.Get(ctx, key); err == nil {
		return &model.GetReferralCodeResponse{ReferralCode: cached}, nil
	} else if !xredis.IsCacheMiss(err) {
		xcontext.Logger(ctx).Warnf("Cannot read referral code cache: %v", err)
	}

	user, err := d.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "User not found or user doesn't have a referral code")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user by email: %v", err)
		return nil, errorx.Unknown
	}

	code, err := d.referralCodeRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "User not found or user doesn't have a referral code")
		}

		xcontext.Logger(ctx).Errorf("Cannot get referral code: %v", err)
		return nil, errorx.Unknown
	}

	ttl := xcontext.Configs(ctx).Cache.ReferralCodeTTL
	if err := d.redisClient.Set(ctx, key, code.Code, ttl); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot cache referral code: %v", err)
	}

	return &model.GetReferralCodeResponse{ReferralCode: code.Code}, nil
}

func (d *referralDomain) GetReferrals(
	ctx context.Context, req *model.GetReferralsRequest,
) (*model.GetReferralsResponse, error) {
	user, err := d.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "User not found or user doesn't have a referral code")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	// The listing is gated on the target user owning a referral code; a user
	// without a code has no referral list, not an empty one.
	if _, err := d.referralCodeRepo.GetByUserID(ctx, user.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "User not found or user doesn't have a referral code")
		}

		xcontext.Logger(ctx).Errorf("Cannot get referral code: %v", err)
		return nil, errorx.Unknown
	}

	referred, err := d.referralRepo.GetUsersReferredBy(ctx, user.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get referred users: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetReferralsResponse{Referrals: model.ConvertReferrals(referred)}, nil
}

func (d *referralDomain) RedeemAndRegister(
	ctx context.Context, codeToken string, newUser *entity.User,
) error {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	referrer, err := d.validate(ctx, codeToken)
	if err != nil {
		return err
	}

	if err := createUser(ctx, d.userRepo, newUser); err != nil {
		return err
	}

	err = d.referralRepo.Create(ctx, &entity.Referral{
		ReferrerID: referrer.ID,
		ReferredID: newUser.ID,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSelfReferral):
			return errorx.New(errorx.BadRequest, "Cannot refer yourself")
		case repository.IsDuplicateError(err):
			return errorx.New(errorx.AlreadyExists, "Referral already exists")
		default:
			xcontext.Logger(ctx).Errorf("Cannot create referral: %v", err)
			return errorx.Unknown
		}
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return errorx.Unknown
	}

	return nil
}

// invalidateCache drops the cached code for an email right after the commit
// that changed it, so a stale code cannot outlive a revoke or reissue.
func (d *referralDomain) invalidateCache(ctx context.Context, email string) {
	if err := d.redisClient.Del(ctx, referralCodeCacheKey(email)); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot invalidate referral code cache: %v", err)
	}
}
