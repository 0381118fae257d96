package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RelatedUser is a counterparty of lend, borrow, collecting-debt and repayment transactions.
type RelatedUser struct {
	ID             int64           `gorm:"primaryKey;autoIncrement;column:id;<-:create" json:"id"`
	UserID         int64           `gorm:"column:user_id;not null;index" json:"userId"`
	Name           string          `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Email          string          `gorm:"column:email;type:varchar(255)" json:"email"`
	Phone          string          `gorm:"column:phone;type:varchar(32)" json:"phone"`
	TotalLoan      decimal.Decimal `gorm:"column:total_loan;type:decimal(20,2);not null;default:0" json:"totalLoan"`
	TotalDebt      decimal.Decimal `gorm:"column:total_debt;type:decimal(20,2);not null;default:0" json:"totalDebt"`
	TotalPaid      decimal.Decimal `gorm:"column:total_paid;type:decimal(20,2);not null;default:0" json:"totalPaid"`
	TotalCollected decimal.Decimal `gorm:"column:total_collected;type:decimal(20,2);not null;default:0" json:"totalCollected"`
	CreatedAt      time.Time       `gorm:"column:created_at;index" json:"createdAt"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;index" json:"updatedAt"`
	DeletedAt      gorm.DeletedAt  `gorm:"column:deleted_at;index" json:"deletedAt"`
}

func (RelatedUser) TableName() string {
	return "related_users"
}
