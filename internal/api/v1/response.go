package v1

import (
	"github.com/dlir2404/intel-money-backend-sub000/internal/model"
	"github.com/dlir2404/intel-money-backend-sub000/internal/service"
)

type TransactionResponse struct {
	Transaction       *model.GeneralTransaction `json:"transaction"`
	SourceWallet      *model.Wallet             `json:"sourceWallet,omitempty"`
	DestinationWallet *model.Wallet             `json:"destinationWallet,omitempty"`
	Category          *model.Category           `json:"category,omitempty"`
	RelatedUser       *model.RelatedUser        `json:"relatedUser,omitempty"`
}

func newTransactionResponse(result service.TransactionResult) TransactionResponse {
	return TransactionResponse{
		Transaction:       result.Transaction,
		SourceWallet:      result.SourceWallet,
		DestinationWallet: result.DestinationWallet,
		Category:          result.Category,
		RelatedUser:       result.RelatedUser,
	}
}

type TransactionsResponse struct {
	Transactions []model.GeneralTransaction `json:"transactions"`
	Total        int                        `json:"total"`
}

type StatisticResponse struct {
	Period service.Period      `json:"period"`
	Data   model.StatisticData `json:"data"`
}

func newStatisticResponse(stat service.PeriodStatistic) StatisticResponse {
	return StatisticResponse{Period: stat.Period, Data: stat.Data}
}

type StatisticsResponse struct {
	Statistics []StatisticResponse `json:"statistics"`
}

func newStatisticsResponse(stats []service.PeriodStatistic) StatisticsResponse {
	resp := StatisticsResponse{Statistics: make([]StatisticResponse, 0, len(stats))}
	for _, stat := range stats {
		resp.Statistics = append(resp.Statistics, newStatisticResponse(stat))
	}
	return resp
}

type DeleteResponse struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}
