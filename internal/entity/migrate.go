package entity

import (
	"context"

	"github.com/Surzhikov161/Refferal-App/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&ReferralCode{},
		&Referral{},
		&Migration{},
	)
}
