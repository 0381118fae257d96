package mocks

import (
	"context"
	"time"

	"github.com/dlir2404/intel-money-backend-sub000/internal/model"
	"github.com/dlir2404/intel-money-backend-sub000/internal/repository"
	"github.com/stretchr/testify/mock"
)

type GeneralTransactionRepository struct {
	mock.Mock
}

func (g *GeneralTransactionRepository) Create(ctx context.Context, tx *model.GeneralTransaction) error {
	args := g.Called(ctx, tx)
	return args.Error(0)
}

func (g *GeneralTransactionRepository) GetByID(ctx context.Context, id int64) (*model.GeneralTransaction, error) {
	args := g.Called(ctx, id)
	tx, _ := args.Get(0).(*model.GeneralTransaction)
	return tx, args.Error(1)
}

func (g *GeneralTransactionRepository) Delete(ctx context.Context, tx *model.GeneralTransaction) error {
	args := g.Called(ctx, tx)
	return args.Error(0)
}

func (g *GeneralTransactionRepository) FindByUser(ctx context.Context, userID int64, from, to time.Time,
	filter repository.TransactionFilter) ([]model.GeneralTransaction, error) {
	args := g.Called(ctx, userID, from, to, filter)
	txs, _ := args.Get(0).([]model.GeneralTransaction)
	return txs, args.Error(1)
}

func (g *GeneralTransactionRepository) SumByCategory(ctx context.Context, userID int64, from, to time.Time,
	filter repository.TransactionFilter) ([]repository.CategorySum, error) {
	args := g.Called(ctx, userID, from, to, filter)
	sums, _ := args.Get(0).([]repository.CategorySum)
	return sums, args.Error(1)
}

func (g *GeneralTransactionRepository) FindChangedSince(ctx context.Context, userID int64, since time.Time) (
	[]model.GeneralTransaction, error) {
	args := g.Called(ctx, userID, since)
	txs, _ := args.Get(0).([]model.GeneralTransaction)
	return txs, args.Error(1)
}

type WalletRepository struct {
	mock.Mock
}

func (w *WalletRepository) Create(ctx context.Context, wallet *model.Wallet) error {
	args := w.Called(ctx, wallet)
	return args.Error(0)
}

func (w *WalletRepository) GetByID(ctx context.Context, id int64) (*model.Wallet, error) {
	args := w.Called(ctx, id)
	wallet, _ := args.Get(0).(*model.Wallet)
	return wallet, args.Error(1)
}

func (w *WalletRepository) FindOwned(ctx context.Context, userID, id int64) (*model.Wallet, error) {
	args := w.Called(ctx, userID, id)
	wallet, _ := args.Get(0).(*model.Wallet)
	return wallet, args.Error(1)
}

func (w *WalletRepository) GetForUpdate(ctx context.Context, id int64) (*model.Wallet, error) {
	args := w.Called(ctx, id)
	wallet, _ := args.Get(0).(*model.Wallet)
	return wallet, args.Error(1)
}

func (w *WalletRepository) UpdateProfile(ctx context.Context, wallet *model.Wallet) error {
	args := w.Called(ctx, wallet)
	return args.Error(0)
}

func (w *WalletRepository) Delete(ctx context.Context, wallet *model.Wallet) error {
	args := w.Called(ctx, wallet)
	return args.Error(0)
}

func (w *WalletRepository) FindChangedSince(ctx context.Context, userID int64, since time.Time) ([]model.Wallet, error) {
	args := w.Called(ctx, userID, since)
	wallets, _ := args.Get(0).([]model.Wallet)
	return wallets, args.Error(1)
}

func (w *WalletRepository) FindDeleted(ctx context.Context, ids []int64) ([]int64, error) {
	args := w.Called(ctx, ids)
	deleted, _ := args.Get(0).([]int64)
	return deleted, args.Error(1)
}

type CategoryRepository struct {
	mock.Mock
}

func (c *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	args := c.Called(ctx, category)
	return args.Error(0)
}

func (c *CategoryRepository) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	args := c.Called(ctx, id)
	category, _ := args.Get(0).(*model.Category)
	return category, args.Error(1)
}

func (c *CategoryRepository) FindOwned(ctx context.Context, userID, id int64) (*model.Category, error) {
	args := c.Called(ctx, userID, id)
	category, _ := args.Get(0).(*model.Category)
	return category, args.Error(1)
}

func (c *CategoryRepository) FindAllByUser(ctx context.Context, userID int64) ([]model.Category, error) {
	args := c.Called(ctx, userID)
	categories, _ := args.Get(0).([]model.Category)
	return categories, args.Error(1)
}

func (c *CategoryRepository) Update(ctx context.Context, category *model.Category) error {
	args := c.Called(ctx, category)
	return args.Error(0)
}

func (c *CategoryRepository) Delete(ctx context.Context, category *model.Category) error {
	args := c.Called(ctx, category)
	return args.Error(0)
}

func (c *CategoryRepository) FindChangedSince(ctx context.Context, userID int64, since time.Time) (
	[]model.Category, error) {
	args := c.Called(ctx, userID, since)
	categories, _ := args.Get(0).([]model.Category)
	return categories, args.Error(1)
}

type RelatedUserRepository struct {
	mock.Mock
}

func (r *RelatedUserRepository) Create(ctx context.Context, relatedUser *model.RelatedUser) error {
	args := r.Called(ctx, relatedUser)
	return args.Error(0)
}

func (r *RelatedUserRepository) GetByID(ctx context.Context, id int64) (*model.RelatedUser, error) {
	args := r.Called(ctx, id)
	relatedUser, _ := args.Get(0).(*model.RelatedUser)
	return relatedUser, args.Error(1)
}

func (r *RelatedUserRepository) FindOwned(ctx context.Context, userID, id int64) (*model.RelatedUser, error) {
	args := r.Called(ctx, userID, id)
	relatedUser, _ := args.Get(0).(*model.RelatedUser)
	return relatedUser, args.Error(1)
}

func (r *RelatedUserRepository) UpdateProfile(ctx context.Context, relatedUser *model.RelatedUser) error {
	args := r.Called(ctx, relatedUser)
	return args.Error(0)
}

func (r *RelatedUserRepository) Delete(ctx context.Context, relatedUser *model.RelatedUser) error {
	args := r.Called(ctx, relatedUser)
	return args.Error(0)
}

func (r *RelatedUserRepository) FindChangedSince(ctx context.Context, userID int64, since time.Time) (
	[]model.RelatedUser, error) {
	args := r.Called(ctx, userID, since)
	relatedUsers, _ := args.Get(0).([]model.RelatedUser)
	return relatedUsers, args.Error(1)
}
