package service

import (
	"testing"

	"github.com/dlir2404/intel-money-backend-sub000/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryTree(t *testing.T) {
	ref := func(id int64) *int64 { return &id }
	tree := newCategoryTree([]model.Category{
		{ID: 1},
		{ID: 2, ParentID: ref(1)},
		{ID: 3, ParentID: ref(2)},
		{ID: 4},
		{ID: 5, ParentID: ref(6)},
		{ID: 6, ParentID: ref(5)},
		{ID: 7, ParentID: ref(7)},
	})

	assert.Equal(t, int64(1), tree.root(3))
	assert.Equal(t, int64(1), tree.root(1))
	assert.Equal(t, int64(4), tree.root(4))
	assert.Equal(t, int64(7), tree.root(7))
	assert.Contains(t, []int64{5, 6}, tree.root(5))

	assert.ElementsMatch(t, []int64{1, 2, 3}, tree.expand([]int64{1}))
	assert.ElementsMatch(t, []int64{2, 3, 4}, tree.expand([]int64{2, 4, 3}))
	assert.ElementsMatch(t, []int64{5, 6}, tree.expand([]int64{5}))
}

func TestAccumulate(t *testing.T) {
	food := int64(3)
	rent := int64(8)

	t.Run("adds into totals and sorted buckets", func(t *testing.T) {
		data := model.NewStatisticData()

		assert.True(t, accumulate(&data, model.TransactionTypeExpense, &rent, decimal.NewFromInt(900)))
		assert.True(t, accumulate(&data, model.TransactionTypeExpense, &food, decimal.NewFromInt(50)))
		assert.True(t, accumulate(&data, model.TransactionTypeIncome, nil, decimal.NewFromInt(2000)))

		assert.True(t, data.TotalExpense.Equal(decimal.NewFromInt(950)))
		assert.True(t, data.TotalBalance.Equal(decimal.NewFromInt(1050)))
		require.Len(t, data.ByCategoryExpense, 2)
		assert.Equal(t, food, data.ByCategoryExpense[0].CategoryID)
		assert.Empty(t, data.ByCategoryIncome)
	})

	t.Run("removing a whole bucket drops it", func(t *testing.T) {
		data := model.NewStatisticData()
		accumulate(&data, model.TransactionTypeExpense, &food, decimal.NewFromInt(50))

		assert.True(t, accumulate(&data, model.TransactionTypeExpense, &food, decimal.NewFromInt(-50)))

		assert.True(t, data.TotalExpense.IsZero())
		assert.Empty(t, data.ByCategoryExpense)
	})

	t.Run("removing an unseen contribution fails", func(t *testing.T) {
		data := model.NewStatisticData()
		accumulate(&data, model.TransactionTypeIncome, &food, decimal.NewFromInt(10))

		assert.False(t, accumulate(&data, model.TransactionTypeIncome, &rent, decimal.NewFromInt(-5)))
		assert.False(t, accumulate(&data, model.TransactionTypeIncome, nil, decimal.NewFromInt(-20)))
	})

	t.Run("other types are ignored", func(t *testing.T) {
		data := model.NewStatisticData()

		assert.True(t, accumulate(&data, model.TransactionTypeTransfer, nil, decimal.NewFromInt(10)))
		assert.True(t, data.TotalIncome.IsZero())
	})
}
