package database

import (
	"context"

	"github.com/dlir2404/intel-money-backend-sub000/internal/config"
	"github.com/dlir2404/intel-money-backend-sub000/internal/model"
	"github.com/dlir2404/intel-money-backend-sub000/pkg/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewConnection(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	return mysql.NewConnection(context.Background(), cfg.Database, logger)
}

// Models lists every persisted model. Extensions follow the canonical table they reference.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Wallet{},
		&model.RelatedUser{},
		&model.Category{},
		&model.GeneralTransaction{},
		&model.TransferTransaction{},
		&model.LendTransaction{},
		&model.BorrowTransaction{},
		&model.ModifyBalanceTransaction{},
		&model.CollectingDebtTransaction{},
		&model.RepaymentTransaction{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
