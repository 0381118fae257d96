package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Wallet struct {
	ID          int64           `gorm:"primaryKey;autoIncrement;column:id;<-:create" json:"id"`
	UserID      int64           `gorm:"column:user_id;not null;index" json:"userId"`
	Name        string          `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Icon        string          `gorm:"column:icon;type:varchar(255)" json:"icon"`
	Balance     decimal.Decimal `gorm:"column:balance;type:decimal(20,2);not null;default:0" json:"balance"`
	BaseBalance decimal.Decimal `gorm:"column:base_balance;type:decimal(20,2);not null;default:0" json:"baseBalance"`
	CreatedAt   time.Time       `gorm:"column:created_at;index" json:"createdAt"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;index" json:"updatedAt"`
	DeletedAt   gorm.DeletedAt  `gorm:"column:deleted_at;index" json:"deletedAt"`
}

func (Wallet) TableName() string {
	return "wallets"
}
