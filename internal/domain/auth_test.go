package domain

import (
	"testing"

	"github.com/Surzhikov161/Refferal-App/internal/entity"
	"github.com/Surzhikov161/Refferal-App/internal/model"
	"github.com/Surzhikov161/Refferal-App/internal/repository"
	"github.com/Surzhikov161/Refferal-App/pkg/errorx"
	"github.com/Surzhikov161/Refferal-App/pkg/testutil"
	"github.com/Surzhikov161/Refferal-App/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDomains() (AuthDomain, ReferralDomain) {
	userRepo := repository.NewUserRepository()
	referralDomain := NewReferralDomain(
		userRepo,
		repository.NewReferralCodeRepository(),
		repository.NewReferralRepository(),
		&testutil.MockRedisClient{},
	)

	return NewAuthDomain(userRepo, referralDomain), referralDomain
}

func Test_authDomain_Register(t *testing.T) {
	ctx := testutil.MockContext()
	authDomain, _ := newTestDomains()

	resp, err := authDomain.Register(ctx, &model.RegisterRequest{
		Username: "newbie01",
		Email:    "newbie01@example.com",
		Password: "super-secret",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.User.ID)
	require.Equal(t, "newbie01", resp.User.Username)
	require.Equal(t, "newbie01@example.com", resp.User.Email)

	user, err := repository.NewUserRepository().GetByUsername(ctx, "newbie01")
	require.NoError(t, err)
	require.NotEqual(t, "super-secret", user.PasswordHash)
}

func Test_authDomain_Register_duplicate(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	authDomain, _ := newTestDomains()

	_, err := authDomain.Register(ctx, &model.RegisterRequest{
		Username: testutil.User1.Username,
		Email:    "fresh@example.com",
		Password: "super-secret",
	})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyExists, errx.Code)

	_, err = authDomain.Register(ctx, &model.RegisterRequest{
		Username: "fresh-name",
		Email:    testutil.User1.Email,
		Password: "super-secret",
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyExists, errx.Code)
}

func Test_authDomain_Register_invalidInput(t *testing.T) {
	ctx := testutil.MockContext()
	authDomain, _ := newTestDomains()

	var errx errorx.Error

	_, err := authDomain.Register(ctx, &model.RegisterRequest{
		Username: "abc",
		Email:    "valid@example.com",
		Password: "super-secret",
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	_, err = authDomain.Register(ctx, &model.RegisterRequest{
		Username: "validname",
		Email:    "not-an-email",
		Password: "super-secret",
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	_, err = authDomain.Register(ctx, &model.RegisterRequest{
		Username: "validname",
		Email:    "valid@example.com",
		Password: "",
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	// An empty password is reported before any other field is looked at.
	_, err = authDomain.Register(ctx, &model.RegisterRequest{
		Username: "abc",
		Email:    "not-an-email",
		Password: "",
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, "Password cannot be empty", errx.Message)
}

func Test_authDomain_Register_withReferralCode(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	authDomain, referralDomain := newTestDomains()

	stored, err := repository.NewReferralCodeRepository().GetByUserID(ctx, testutil.User1.ID)
	require.NoError(t, err)

	resp, err := authDomain.Register(ctx, &model.RegisterRequest{
		Username:     "invited1",
		Email:        "invited1@example.com",
		Password:     "super-secret",
		ReferralCode: stored.Code,
	})
	require.NoError(t, err)

	referrals, err := referralDomain.GetReferrals(ctx, &model.GetReferralsRequest{
		UserID: testutil.User1.ID,
	})
	require.NoError(t, err)
	require.Len(t, referrals.Referrals, 3)
	require.Equal(t, resp.User.ID, referrals.Referrals[2].ID)
	require.Equal(t, "invited1", referrals.Referrals[2].Username)
}

func Test_authDomain_Register_withInvalidReferralCode(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	authDomain, _ := newTestDomains()

	userRepo := repository.NewUserRepository()
	before, err := userRepo.Count(ctx)
	require.NoError(t, err)

	_, err = authDomain.Register(ctx, &model.RegisterRequest{
		Username:     "invited2",
		Email:        "invited2@example.com",
		Password:     "super-secret",
		ReferralCode: "garbage-token",
	})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)

	// The registration must not survive a failed redemption.
	after, err := userRepo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, before, after)

	_, err = userRepo.GetByUsername(ctx, "invited2")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func Test_authDomain_Register_withRevokedReferralCode(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	authDomain, referralDomain := newTestDomains()

	// The code still decodes fine after the revoke, but no longer matches
	// any stored code.
	stored, err := repository.NewReferralCodeRepository().GetByUserID(ctx, testutil.User1.ID)
	require.NoError(t, err)

	deleteCtx := xcontext.WithRequestUserID(ctx, testutil.User1.ID)
	_, err = referralDomain.Delete(deleteCtx, &model.DeleteReferralCodeRequest{})
	require.NoError(t, err)

	userRepo := repository.NewUserRepository()
	before, err := userRepo.Count(ctx)
	require.NoError(t, err)

	_, err = authDomain.Register(ctx, &model.RegisterRequest{
		Username:     "invited3",
		Email:        "invited3@example.com",
		Password:     "super-secret",
		ReferralCode: stored.Code,
	})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)

	after, err := userRepo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func Test_authDomain_Register_commitFailureIsNoSuccess(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	authDomain, _ := newTestDomains()

	stored, err := repository.NewReferralCodeRepository().GetByUserID(ctx, testutil.User1.ID)
	require.NoError(t, err)

	// Abort the transaction underneath right after the edge insert, as a
	// storage fault at commit time would. The registration must then fail
	// loudly instead of reporting a user that was never persisted.
	err = xcontext.DB(ctx).Callback().Create().After("gorm:create").
		Register("abort_after_referral", func(tx *gorm.DB) {
			if _, ok := tx.Statement.Dest.(*entity.Referral); ok {
				tx.Rollback()
			}
		})
	require.NoError(t, err)

	_, err = authDomain.Register(ctx, &model.RegisterRequest{
		Username:     "doomeduser",
		Email:        "doomeduser@example.com",
		Password:     "super-secret",
		ReferralCode: stored.Code,
	})
	require.ErrorIs(t, err, errorx.Unknown)

	_, err = repository.NewUserRepository().GetByUsername(ctx, "doomeduser")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func Test_authDomain_Login(t *testing.T) {
	ctx := testutil.MockContext()
	authDomain, _ := newTestDomains()

	_, err := authDomain.Register(ctx, &model.RegisterRequest{
		Username: "loginuser",
		Email:    "loginuser@example.com",
		Password: "super-secret",
	})
	require.NoError(t, err)

	resp, err := authDomain.Login(ctx, &model.LoginRequest{
		Username: "loginuser",
		Password: "super-secret",
	})
	require.NoError(t, err)
	require.Equal(t, "bearer", resp.TokenType)

	var accessToken model.AccessToken
	require.NoError(t, xcontext.TokenEngine(ctx).Verify(resp.AccessToken, &accessToken))
	require.Equal(t, "loginuser", accessToken.Username)
	require.NotEmpty(t, accessToken.ID)
}

func Test_authDomain_Login_incorrectCredentials(t *testing.T) {
	ctx := testutil.MockContext()
	authDomain, _ := newTestDomains()

	_, err := authDomain.Register(ctx, &model.RegisterRequest{
		Username: "loginuser",
		Email:    "loginuser@example.com",
		Password: "super-secret",
	})
	require.NoError(t, err)

	var errx errorx.Error

	_, err = authDomain.Login(ctx, &model.LoginRequest{
		Username: "loginuser",
		Password: "wrong-password",
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unauthenticated, errx.Code)

	_, err = authDomain.Login(ctx, &model.LoginRequest{
		Username: "nobody-here",
		Password: "super-secret",
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unauthenticated, errx.Code)
}

func Test_authDomain_GetMe(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	authDomain, _ := newTestDomains()

	ctx = xcontext.WithRequestUserID(ctx, testutil.User1.ID)
	resp, err := authDomain.GetMe(ctx, &model.GetMeRequest{})
	require.NoError(t, err)
	require.Equal(t, testutil.User1.ID, resp.User.ID)
	require.Equal(t, testutil.User1.Username, resp.User.Username)
	require.Equal(t, testutil.User1.Email, resp.User.Email)

	var errx errorx.Error
	_, err = authDomain.GetMe(xcontext.WithRequestUserID(ctx, "ghost"), &model.GetMeRequest{})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}
