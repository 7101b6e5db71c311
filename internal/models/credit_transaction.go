package models

import "gorm.io/gorm"

type TransactionType string

const (
	TransactionTypeEarned TransactionType = "earned"
	TransactionTypeSpent  TransactionType = "spent"
	TransactionTypeBonus  TransactionType = "bonus"
)

// CreditTransaction is one entry in a user's append-only credit ledger.
// The user's balance is kept in sync inside the same database transaction
// that creates the entry.
type CreditTransaction struct {
	gorm.Model
	UserID      uint            `gorm:"column:user_id;not null;index" json:"userId"`
	User        User            `json:"-"`
	Type        TransactionType `gorm:"column:type;not null" json:"type"`
	Amount      float64         `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Description string          `gorm:"column:description;size:255" json:"description"`
}

// TableName specifies the table name
func (CreditTransaction) TableName() string {
	return "credit_transactions"
}
