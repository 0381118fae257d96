package api

import (
	v1 "github.com/dlir2404/intel-money-backend-sub000/internal/api/v1"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const prefixV1 = "/api/v1"

func SetupRoutes(app *fiber.App, handler *v1.Handler, gatherer prometheus.Gatherer) {
	app.Get("/ping", handler.Pong)
	app.Get("/health", handler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := app.Group(prefixV1)

	transactions := api.Group("/transactions")
	transactions.Get("", handler.ListTransactions)
	transactions.Post("/income", handler.CreateIncome)
	transactions.Post("/expense", handler.CreateExpense)
	transactions.Post("/transfer", handler.CreateTransfer)
	transactions.Post("/lend", handler.CreateLend)
	transactions.Post("/borrow", handler.CreateBorrow)
	transactions.Post("/modify-balance", handler.CreateModifyBalance)
	transactions.Post("/collecting-debt", handler.CreateCollectingDebt)
	transactions.Post("/repayment", handler.CreateRepayment)
	transactions.Put("/income/:id", handler.UpdateIncome)
	transactions.Put("/expense/:id", handler.UpdateExpense)
	transactions.Put("/transfer/:id", handler.UpdateTransfer)
	transactions.Put("/lend/:id", handler.UpdateLend)
	transactions.Put("/borrow/:id", handler.UpdateBorrow)
	transactions.Delete("/:id", handler.RemoveTransaction)

	statistics := api.Group("/statistics")
	statistics.Get("/today", handler.Today)
	statistics.Get("/this-week", handler.ThisWeek)
	statistics.Get("/this-month", handler.ThisMonth)
	statistics.Get("/this-quarter", handler.ThisQuarter)
	statistics.Get("/this-year", handler.ThisYear)
	statistics.Get("/by-day", handler.ByDay)
	statistics.Get("/by-month", handler.ByMonth)
	statistics.Get("/by-year", handler.ByYear)
	statistics.Get("/custom", handler.CustomRange)

	api.Post("/sync", handler.SyncBatch)
	api.Get("/sync/changes", handler.ChangesSince)
}
