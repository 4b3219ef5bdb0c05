package migration

import (
	"context"
	"errors"

	"github.com/Surzhikov161/Refferal-App/internal/entity"
	"github.com/Surzhikov161/Refferal-App/pkg/xcontext"
	"gorm.io/gorm"
)

// migrators must be append-only. The index of a migrator is its version.
var migrators = []func(context.Context) error{
	migrate0000,
}

// Migrate applies every migrator with a version greater than the last applied
// one, recording each successful application.
func Migrate(ctx context.Context) error {
	if err := ensureMigrationTable(ctx); err != nil {
		return err
	}

	current, err := currentVersion(ctx)
	if err != nil {
		return err
	}

	for version := current + 1; version < len(migrators); version++ {
		xcontext.Logger(ctx).Infof("Applying migration version %d", version)
		if err := migrators[version](ctx); err != nil {
			return err
		}

		record := entity.Migration{Version: version}
		if err := xcontext.DB(ctx).Create(&record).Error; err != nil {
			return err
		}
	}

	return nil
}

func ensureMigrationTable(ctx context.Context) error {
	migrator := xcontext.DB(ctx).Migrator()
	if migrator.HasTable(&entity.Migration{}) {
		return nil
	}

	if err := migrator.CreateTable(&entity.Migration{}); err != nil {
		return err
	}

	// A fresh database starts from the full schema.
	if err := migrators[0](ctx); err != nil {
		return err
	}

	return xcontext.DB(ctx).Create(&entity.Migration{Version: 0}).Error
}

func currentVersion(ctx context.Context) (int, error) {
	var record entity.Migration
	err := xcontext.DB(ctx).Order("version DESC").Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return -1, nil
		}

		return 0, err
	}

	return record.Version, nil
}
