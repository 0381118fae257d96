package model

import "github.com/shopspring/decimal"

type CategoryAmount struct {
	CategoryID int64           `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
}

// StatisticData is the aggregate of one period. TotalBalance is TotalIncome minus TotalExpense,
// and every ByCategory bucket is keyed by a root category.
type StatisticData struct {
	TotalIncome       decimal.Decimal  `json:"totalIncome"`
	TotalExpense      decimal.Decimal  `json:"totalExpense"`
	TotalBalance      decimal.Decimal  `json:"totalBalance"`
	ByCategoryIncome  []CategoryAmount `json:"byCategoryIncome"`
	ByCategoryExpense []CategoryAmount `json:"byCategoryExpense"`
}

func NewStatisticData() StatisticData {
	return StatisticData{
		TotalIncome:       decimal.Zero,
		TotalExpense:      decimal.Zero,
		TotalBalance:      decimal.Zero,
		ByCategoryIncome:  []CategoryAmount{},
		ByCategoryExpense: []CategoryAmount{},
	}
}
