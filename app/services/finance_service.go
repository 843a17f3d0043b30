package services

import (
	"context"

	"PosServer/app/models"

	"gorm.io/gorm"
)

// FinanceService handles the financial transaction ledger
type FinanceService struct {
	db *gorm.DB
}

// NewFinanceService creates a new finance service
func NewFinanceService(db *gorm.DB) *FinanceService {
	return &FinanceService{db: db}
}

// GetTransactions returns all ledger entries, newest first
func (s *FinanceService) GetTransactions(ctx context.Context) ([]models.FinancialTransaction, error) {
	var transactions []models.FinancialTransaction
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&transactions).Error
	return transactions, err
}

// CreateTransaction records a new ledger entry
func (s *FinanceService) CreateTransaction(ctx context.Context, transaction *models.FinancialTransaction) error {
	return s.db.WithContext(ctx).Create(transaction).Error
}
