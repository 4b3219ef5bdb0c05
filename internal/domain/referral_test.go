package domain

import (
	"sync"
	"testing"

	"github.com/Surzhikov161/Refferal-App/internal/model"
	"github.com/Surzhikov161/Refferal-App/internal/repository"
	"github.com/Surzhikov161/Refferal-App/pkg/errorx"
	"github.com/Surzhikov161/Refferal-App/pkg/testutil"
	"github.com/Surzhikov161/Refferal-App/pkg/xcontext"
	"github.com/Surzhikov161/Refferal-App/pkg/xredis"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReferralDomain(redisClient xredis.Client) ReferralDomain {
	return NewReferralDomain(
		repository.NewUserRepository(),
		repository.NewReferralCodeRepository(),
		repository.NewReferralRepository(),
		redisClient,
	)
}

func Test_referralDomain_Create(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	referralDomain := newReferralDomain(&testutil.MockRedisClient{})

	ctx = xcontext.WithRequestUserID(ctx, testutil.User2.ID)
	resp, err := referralDomain.Create(ctx, &model.CreateReferralCodeRequest{})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ReferralCode)

	// The issued code embeds the owner's email.
	var token model.ReferralToken
	require.NoError(t, xcontext.TokenEngine(ctx).Verify(resp.ReferralCode, &token))
	require.Equal(t, testutil.User2.Email, token.Email)

	// And is stored verbatim.
	stored, err := repository.NewReferralCodeRepository().GetByUserID(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, resp.ReferralCode, stored.Code)
}

func Test_referralDomain_Create_alreadyExists(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	referralDomain := newReferralDomain(&testutil.MockRedisClient{})

	// User1 already owns a code. The unique index over user_id rejects a
	// second one, and the stored code must stay untouched.
	before, err := repository.NewReferralCodeRepository().GetByUserID(ctx, testutil.User1.ID)
	require.NoError(t, err)

	ctx = xcontext.WithRequestUserID(ctx, testutil.User1.ID)
	_, err = referralDomain.Create(ctx, &model.CreateReferralCodeRequest{})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyExists, errx.Code)

	after, err := repository.NewReferralCodeRepository().GetByUserID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, before.Code, after.Code)
}

func Test_referralDomain_Create_concurrentIssue(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	referralDomain := newReferralDomain(&testutil.MockRedisClient{})

	// A single connection keeps both goroutines on the same in-memory
	// database; the unique index over user_id decides the winner.
	sqlDB, err := xcontext.DB(ctx).DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	ctx = xcontext.WithRequestUserID(ctx, testutil.User2.ID)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = referralDomain.Create(ctx, &model.CreateReferralCodeRequest{})
		}()
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		if err == nil {
			won++
			continue
		}

		var errx errorx.Error
		require.ErrorAs(t, err, &errx)
		require.Equal(t, errorx.AlreadyExists, errx.Code)
		lost++
	}
	require.Equal(t, 1, won)
	require.Equal(t, 1, lost)

	// Exactly one code was stored.
	_, err = repository.NewReferralCodeRepository().GetByUserID(ctx, testutil.User2.ID)
	require.NoError(t, err)
}

func Test_referralDomain_Create_unknownUser(t *testing.T) {
	ctx := testutil.MockContext()
	referralDomain := newReferralDomain(&testutil.MockRedisClient{})

	ctx = xcontext.WithRequestUserID(ctx, "ghost")
	_, err := referralDomain.Create(ctx, &model.CreateReferralCodeRequest{})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}

func Test_referralDomain_Delete(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	referralDomain := newReferralDomain(&testutil.MockRedisClient{})

	ctx = xcontext.WithRequestUserID(ctx, testutil.User1.ID)
	_, err := referralDomain.Delete(ctx, &model.DeleteReferralCodeRequest{})
	require.NoError(t, err)

	_, err = repository.NewReferralCodeRepository().GetByUserID(ctx, testutil.User1.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// A second revoke has nothing left to delete.
	var errx errorx.Error
	_, err = referralDomain.Delete(ctx, &model.DeleteReferralCodeRequest{})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)

	// Revoking frees the unique slot, so a new code can be issued.
	resp, err := referralDomain.Create(ctx, &model.CreateReferralCodeRequest{})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ReferralCode)
}

func Test_referralDomain_Delete_preservesEdgesByDefault(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	referralDomain := newReferralDomain(&testutil.MockRedisClient{})

	ctx = xcontext.WithRequestUserID(ctx, testutil.User1.ID)
	_, err := referralDomain.Delete(ctx, &model.DeleteReferralCodeRequest{})
	require.NoError(t, err)

	count, err := repository.NewReferralRepository().Count(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}

func Test_referralDomain_Delete_prunesEdgesWhenConfigured(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	referralDomain := newReferralDomain(&testutil.MockRedisClient{})

	cfg := xcontext.Configs(ctx)
	cfg.Referral.PruneEdgesOnRevoke = true
	ctx = xcontext.WithConfigs(ctx, cfg)

	ctx = xcontext.WithRequestUserID(ctx, testutil.User1.ID)
	_, err := referralDomain.Delete(ctx, &model.DeleteReferralCodeRequest{})
	require.NoError(t, err)

	count, err := repository.NewReferralRepository().Count(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), count)
}

func Test_referralDomain_GetByEmail(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	referralDomain := newReferralDomain(testutil.NewInMemoryRedisClient())

	stored, err := repository.NewReferralCodeRepository().GetByUserID(ctx, testutil.User1.ID)
	require.NoError(t, err)

	resp, err := referralDomain.GetByEmail(ctx, &model.GetReferralCodeRequest{
		Email: testutil.User1.Email,
	})
	require.NoError(t, err)
	require.Equal(t, stored.Code, resp.ReferralCode)

	// The second lookup is served from the cache: deleting the row behind
	// the domain's back does not change the answer.
	err = repository.NewReferralCodeRepository().DeleteByUserID(ctx, testutil.User1.ID)
	require.NoError(t, err)

	resp, err = referralDomain.GetByEmail(ctx, &model.GetReferralCodeRequest{
		Email: testutil.User1.Email,
	})
	require.NoError(t, err)
	require.Equal(t, stored.Code, resp.ReferralCode)
}

func Test_referralDomain_GetByEmail_invalidatedOnRevoke(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	referralDomain := newReferralDomain(testutil.NewInMemoryRedisClient())

	// Warm the cache.
	_, err := referralDomain.GetByEmail(ctx, &model.GetReferralCodeRequest{
		Email: testutil.User1.Email,
	})
	require.NoError(t, err)

	userCtx := xcontext.WithRequestUserID(ctx, testutil.User1.ID)
	_, err = referralDomain.Delete(userCtx, &model.DeleteReferralCodeRequest{})
	require.NoError(t, err)

	// A revoke through the domain drops the cached entry synchronously.
	var errx errorx.Error
	_, err = referralDomain.GetByEmail(ctx, &model.GetReferralCodeRequest{
		Email: testutil.User1.Email,
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}

func Test_referralDomain_GetByEmail_notFound(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	referralDomain := newReferralDomain(&testutil.MockRedisClient{})

	var errx errorx.Error

	_, err := referralDomain.GetByEmail(ctx, &model.GetReferralCodeRequest{
		Email: "nobody@example.com",
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)

	// User2 exists but owns no code. The answer is indistinguishable from an
	// unknown email.
	_, err = referralDomain.GetByEmail(ctx, &model.GetReferralCodeRequest{
		Email: testutil.User2.Email,
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}

func Test_referralDomain_GetReferrals(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	referralDomain := newReferralDomain(&testutil.MockRedisClient{})

	resp, err := referralDomain.GetReferrals(ctx, &model.GetReferralsRequest{
		UserID: testutil.User1.ID,
	})
	require.NoError(t, err)
	require.Len(t, resp.Referrals, 2)
	require.Equal(t, testutil.User2.ID, resp.Referrals[0].ID)
	require.Equal(t, testutil.User2.Username, resp.Referrals[0].Username)
	require.Equal(t, testutil.User3.ID, resp.Referrals[1].ID)
	require.Equal(t, testutil.User3.Username, resp.Referrals[1].Username)
}

func Test_referralDomain_GetReferrals_withoutCode(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	referralDomain := newReferralDomain(&testutil.MockRedisClient{})

	var errx errorx.Error

	// User2 has no referral code, so it has no referral list at all.
	_, err := referralDomain.GetReferrals(ctx, &model.GetReferralsRequest{
		UserID: testutil.User2.ID,
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)

	_, err = referralDomain.GetReferrals(ctx, &model.GetReferralsRequest{
		UserID: "ghost",
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}
