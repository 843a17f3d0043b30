package services

import (
	"context"

	"PosServer/app/models"

	"gorm.io/gorm"
)

// TableService handles table management
type TableService struct {
	db *gorm.DB
}

// NewTableService creates a new table service
func NewTableService(db *gorm.DB) *TableService {
	return &TableService{db: db}
}

// GetTables returns all tables ordered by name
func (s *TableService) GetTables(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	err := s.db.WithContext(ctx).Order("name ASC").Find(&tables).Error
	return tables, err
}

// GetTable returns a single table by id
func (s *TableService) GetTable(ctx context.Context, id uint) (*models.Table, error) {
	var table models.Table
	err := s.db.WithContext(ctx).First(&table, id).Error
	if err != nil {
		return nil, err
	}
	return &table, nil
}

// CreateTable creates a new table
func (s *TableService) CreateTable(ctx context.Context, table *models.Table) error {
	return s.db.WithContext(ctx).Create(table).Error
}
