package repository

import (
	"context"
	"errors"

	"github.com/dlir2404/intel-money-backend-sub000/internal/model"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("USER_NOT_FOUND")

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type user struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &user{db: db}
}

func (u *user) Create(ctx context.Context, user *model.User) error {
	return GetTx(ctx, u.db).Create(user).Error
}

func (u *user) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var found model.User

	err := GetTx(ctx, u.db).Where("id = ?", id).First(&found).Error
	if err == nil {
		return &found, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	return nil, err
}
