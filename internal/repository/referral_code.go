package repository

import (
	"context"
	"errors"

	"github.com/Surzhikov161/Refferal-App/internal/entity"
	"github.com/Surzhikov161/Refferal-App/pkg/xcontext"
	"gorm.io/gorm"
)

type ReferralCodeRepository interface {
	Create(ctx context.Context, data *entity.ReferralCode) error
	GetByUserID(ctx context.Context, userID string) (*entity.ReferralCode, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

type referralCodeRepository struct{}

func NewReferralCodeRepository() *referralCodeRepository {
	return &referralCodeRepository{}
}

// Create relies on the unique index over user_id to reject a second code for
// the same user, including the case of two concurrent requests.
func (r *referralCodeRepository) Create(ctx context.Context, data *entity.ReferralCode) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *referralCodeRepository) GetByUserID(ctx context.Context, userID string) (*entity.ReferralCode, error) {
	var record entity.ReferralCode
	if err := xcontext.DB(ctx).Where("user_id=?", userID).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *referralCodeRepository) DeleteByUserID(ctx context.Context, userID string) error {
	tx := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Delete(&entity.ReferralCode{})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
