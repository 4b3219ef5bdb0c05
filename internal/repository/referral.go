package repository

import (
	"context"
	"errors"

	"github.com/Surzhikov161/Refferal-App/internal/entity"
	"github.com/Surzhikov161/Refferal-App/pkg/xcontext"
)

var ErrSelfReferral = errors.New("a user cannot refer itself")

type ReferralRepository interface {
	Create(ctx context.Context, data *entity.Referral) error
	GetUsersReferredBy(ctx context.Context, referrerID string) ([]entity.User, error)
	DeleteByReferrerID(ctx context.Context, referrerID string) error
	Count(ctx context.Context, referrerID string) (int64, error)
}

type referralRepository struct{}

func NewReferralRepository() *referralRepository {
	return &referralRepository{}
}

// Create relies on the composite primary key (referrer_id, referred_id) to
// reject duplicate edges at the storage layer. Self-loops are rejected before
// touching the database.
func (r *referralRepository) Create(ctx context.Context, data *entity.Referral) error {
	if data.ReferrerID == data.ReferredID {
		return ErrSelfReferral
	}

	return xcontext.DB(ctx).Create(data).Error
}

func (r *referralRepository) GetUsersReferredBy(ctx context.Context, referrerID string) ([]entity.User, error) {
	var result []entity.User
	err := xcontext.DB(ctx).
		Model(&entity.User{}).
		Joins("join referrals on referrals.referred_id=users.id").
		Where("referrals.referrer_id=?", referrerID).
		Order("referrals.created_at").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *referralRepository) DeleteByReferrerID(ctx context.Context, referrerID string) error {
	return xcontext.DB(ctx).
		Where("referrer_id=?", referrerID).
		Delete(&entity.Referral{}).Error
}

func (r *referralRepository) Count(ctx context.Context, referrerID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.Referral{}).
		Where("referrer_id=?", referrerID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
