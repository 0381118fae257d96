package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           int64           `gorm:"primaryKey;autoIncrement;column:id;<-:create" json:"id"`
	Name         string          `gorm:"column:name;type:varchar(255)" json:"name"`
	Email        string          `gorm:"column:email;type:varchar(255);uniqueIndex" json:"email"`
	TotalBalance decimal.Decimal `gorm:"column:total_balance;type:decimal(20,2);not null;default:0" json:"totalBalance"`
	TotalLoan    decimal.Decimal `gorm:"column:total_loan;type:decimal(20,2);not null;default:0" json:"totalLoan"`
	TotalDebt    decimal.Decimal `gorm:"column:total_debt;type:decimal(20,2);not null;default:0" json:"totalDebt"`
	CreatedAt    time.Time       `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt    time.Time       `gorm:"column:updated_at" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
