package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a financial transaction
type TransactionType string

const (
	TransactionExpense TransactionType = "expense"
	TransactionIncome  TransactionType = "income"
)

// FinancialTransaction is an independent ledger entry (rent, supplier
// invoices, cash income). Unrelated to order processing.
type FinancialTransaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Description string          `gorm:"not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Type        TransactionType `gorm:"not null" json:"type"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// TableName specifies the table name for FinancialTransaction
func (FinancialTransaction) TableName() string {
	return "financial_transactions"
}
