package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dlir2404/intel-money-backend-sub000/internal/model"
	"gorm.io/gorm"
)

var ErrCategoryNotFound = errors.New("CATEGORY_NOT_FOUND")

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id int64) (*model.Category, error)
	FindOwned(ctx context.Context, userID, id int64) (*model.Category, error)
	// FindAllByUser includes deleted categories so that history keeps rolling up to its roots.
	FindAllByUser(ctx context.Context, userID int64) ([]model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, category *model.Category) error
	FindChangedSince(ctx context.Context, userID int64, since time.Time) ([]model.Category, error)
}

type category struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &category{db: db}
}

func (c *category) Create(ctx context.Context, category *model.Category) error {
	return GetTx(ctx, c.db).Create(category).Error
}

func (c *category) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	var found model.Category

	err := GetTx(ctx, c.db).Where("id = ?", id).First(&found).Error
	if err == nil {
		return &found, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}

	return nil, err
}

func (c *category) FindOwned(ctx context.Context, userID, id int64) (*model.Category, error) {
	var found model.Category

	err := GetTx(ctx, c.db).Where("id = ? AND user_id = ?", id, userID).First(&found).Error
	if err == nil {
		return &found, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}

	return nil, err
}

func (c *category) FindAllByUser(ctx context.Context, userID int64) ([]model.Category, error) {
	var categories []model.Category

	err := GetTx(ctx, c.db).Unscoped().Where("user_id = ?", userID).Find(&categories).Error
	if err != nil {
		return nil, err
	}

	return categories, nil
}

func (c *category) Update(ctx context.Context, category *model.Category) error {
	category.UpdatedAt = time.Now()
	return GetTx(ctx, c.db).Model(category).
		Select("name", "type", "parent_id", "icon", "updated_at").
		Updates(category).Error
}

func (c *category) Delete(ctx context.Context, category *model.Category) error {
	return GetTx(ctx, c.db).Delete(category).Error
}

func (c *category) FindChangedSince(ctx context.Context, userID int64, since time.Time) ([]model.Category, error) {
	var categories []model.Category

	err := GetTx(ctx, c.db).Unscoped().
		Where("user_id = ? AND (created_at >= ? OR updated_at >= ? OR deleted_at >= ?)", userID, since, since, since).
		Order("id").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}

	return categories, nil
}
