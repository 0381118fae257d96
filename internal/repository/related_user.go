package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dlir2404/intel-money-backend-sub000/internal/model"
	"gorm.io/gorm"
)

var ErrRelatedUserNotFound = errors.New("RELATED_USER_NOT_FOUND")

type RelatedUserRepository interface {
	Create(ctx context.Context, relatedUser *model.RelatedUser) error
	GetByID(ctx context.Context, id int64) (*model.RelatedUser, error)
	FindOwned(ctx context.Context, userID, id int64) (*model.RelatedUser, error)
	UpdateProfile(ctx context.Context, relatedUser *model.RelatedUser) error
	Delete(ctx context.Context, relatedUser *model.RelatedUser) error
	FindChangedSince(ctx context.Context, userID int64, since time.Time) ([]model.RelatedUser, error)
}

type relatedUser struct {
	db *gorm.DB
}

func NewRelatedUserRepository(db *gorm.DB) RelatedUserRepository {
	return &relatedUser{db: db}
}

func (r *relatedUser) Create(ctx context.Context, relatedUser *model.RelatedUser) error {
	return GetTx(ctx, r.db).Create(relatedUser).Error
}

func (r *relatedUser) GetByID(ctx context.Context, id int64) (*model.RelatedUser, error) {
	var found model.RelatedUser

	err := GetTx(ctx, r.db).Where("id = ?", id).First(&found).Error
	if err == nil {
		return &found, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRelatedUserNotFound
	}

	return nil, err
}

func (r *relatedUser) FindOwned(ctx context.Context, userID, id int64) (*model.RelatedUser, error) {
	var found model.RelatedUser

	err := GetTx(ctx, r.db).Where("id = ? AND user_id = ?", id, userID).First(&found).Error
	if err == nil {
		return &found, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRelatedUserNotFound
	}

	return nil, err
}

func (r *relatedUser) UpdateProfile(ctx context.Context, relatedUser *model.RelatedUser) error {
	relatedUser.UpdatedAt = time.Now()
	return GetTx(ctx, r.db).Model(relatedUser).
		Select("name", "email", "phone", "updated_at").
		Updates(relatedUser).Error
}

func (r *relatedUser) Delete(ctx context.Context, relatedUser *model.RelatedUser) error {
	return GetTx(ctx, r.db).Delete(relatedUser).Error
}

func (r *relatedUser) FindChangedSince(ctx context.Context, userID int64, since time.Time) (
	[]model.RelatedUser, error) {
	var relatedUsers []model.RelatedUser

	err := GetTx(ctx, r.db).Unscoped().
		Where("user_id = ? AND (created_at >= ? OR updated_at >= ? OR deleted_at >= ?)", userID, since, since, since).
		Order("id").
		Find(&relatedUsers).Error
	if err != nil {
		return nil, err
	}

	return relatedUsers, nil
}
