package mocks

import (
	"context"

	"github.com/dlir2404/intel-money-backend-sub000/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type BalanceMutator struct {
	mock.Mock
}

func (b *BalanceMutator) Increment(ctx context.Context, field repository.Field, id int64, amount decimal.Decimal) error {
	args := b.Called(ctx, field, id, amount)
	return args.Error(0)
}

func (b *BalanceMutator) Decrement(ctx context.Context, field repository.Field, id int64, amount decimal.Decimal) error {
	args := b.Called(ctx, field, id, amount)
	return args.Error(0)
}
