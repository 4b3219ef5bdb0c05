package testutil

import (
	"context"

	"github.com/Surzhikov161/Refferal-App/internal/entity"
	"github.com/Surzhikov161/Refferal-App/internal/model"
	"github.com/Surzhikov161/Refferal-App/internal/repository"
	"github.com/Surzhikov161/Refferal-App/pkg/xcontext"
)

var (
	User1 = entity.User{
		Base:         entity.Base{ID: "user1"},
		Username:     "username1",
		Email:        "user1@example.com",
		PasswordHash: "hash-of-user1",
	}

	User2 = entity.User{
		Base:         entity.Base{ID: "user2"},
		Username:     "username2",
		Email:        "user2@example.com",
		PasswordHash: "hash-of-user2",
	}

	User3 = entity.User{
		Base:         entity.Base{ID: "user3"},
		Username:     "username3",
		Email:        "user3@example.com",
		PasswordHash: "hash-of-user3",
	}
)

// CreateFixtureDb seeds the database behind ctx with three users. User1 owns
// an active referral code and has referred User2 and User3. User2 and User3
// own no code.
func CreateFixtureDb(ctx context.Context) {
	insertUsers(ctx)
	insertReferralCodes(ctx)
	insertReferrals(ctx)
}

func insertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()

	for _, user := range []entity.User{User1, User2, User3} {
		user := user
		if err := userRepo.Create(ctx, &user); err != nil {
			panic(err)
		}
	}
}

func insertReferralCodes(ctx context.Context) {
	code := ReferralCodeOf(ctx, User1.Email)

	referralCodeRepo := repository.NewReferralCodeRepository()
	err := referralCodeRepo.Create(ctx, &entity.ReferralCode{
		ID:     "user1_referral_code",
		UserID: User1.ID,
		Code:   code,
	})
	if err != nil {
		panic(err)
	}
}

func insertReferrals(ctx context.Context) {
	referralRepo := repository.NewReferralRepository()

	for _, referred := range []string{User2.ID, User3.ID} {
		err := referralRepo.Create(ctx, &entity.Referral{
			ReferrerID: User1.ID,
			ReferredID: referred,
		})
		if err != nil {
			panic(err)
		}
	}
}

// ReferralCodeOf generates a referral code token for the given email with the
// token engine inside ctx.
func ReferralCodeOf(ctx context.Context, email string) string {
	code, err := xcontext.TokenEngine(ctx).Generate(
		xcontext.Configs(ctx).Auth.ReferralToken.Expiration,
		model.ReferralToken{Email: email},
	)
	if err != nil {
		panic(err)
	}

	return code
}
