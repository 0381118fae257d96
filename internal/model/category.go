package model

import (
	"time"

	"gorm.io/gorm"
)

type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "INCOME"
	CategoryTypeExpense CategoryType = "EXPENSE"
)

type Category struct {
	ID        int64          `gorm:"primaryKey;autoIncrement;column:id;<-:create" json:"id"`
	UserID    int64          `gorm:"column:user_id;not null;index" json:"userId"`
	Name      string         `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Type      CategoryType   `gorm:"column:type;type:varchar(20);not null" json:"type"`
	ParentID  *int64         `gorm:"column:parent_id;index" json:"parentId"`
	Icon      string         `gorm:"column:icon;type:varchar(255)" json:"icon"`
	CreatedAt time.Time      `gorm:"column:created_at;index" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"column:updated_at;index" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deletedAt"`
}

func (Category) TableName() string {
	return "categories"
}

// Matches reports whether a category of this type may be used by a transaction of txType.
func (c CategoryType) Matches(txType TransactionType) bool {
	switch txType {
	case TransactionTypeIncome:
		return c == CategoryTypeIncome
	case TransactionTypeExpense:
		return c == CategoryTypeExpense
	}
	return false
}
