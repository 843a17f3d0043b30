package services

import (
	"context"
	"sort"
	"time"

	"PosServer/app/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductSales aggregates how much of one product was sold
type ProductSales struct {
	ProductID   uint            `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// DashboardSummary is the read-only rollup served to the dashboard
type DashboardSummary struct {
	OrdersToday  int64           `json:"ordersToday"`
	RevenueToday decimal.Decimal `json:"revenueToday"`
	TopProducts  []ProductSales  `json:"topProducts"`
	Income       decimal.Decimal `json:"income"`
	Expenses     decimal.Decimal `json:"expenses"`
	Balance      decimal.Decimal `json:"balance"`
}

// DashboardService computes read-only rollups over historical orders and
// the financial ledger. It never mutates state.
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// GetSummary builds the dashboard rollup for the current day
func (s *DashboardService) GetSummary(ctx context.Context) (*DashboardSummary, error) {
	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items.Product").
		Where("created_at >= ?", startOfDay).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		OrdersToday:  int64(len(orders)),
		RevenueToday: decimal.Zero,
	}

	byProduct := make(map[uint]*ProductSales)
	for _, order := range orders {
		summary.RevenueToday = summary.RevenueToday.Add(order.Total)

		for _, item := range order.Items {
			if item.Product == nil {
				continue
			}
			sales, ok := byProduct[item.ProductID]
			if !ok {
				sales = &ProductSales{
					ProductID:   item.ProductID,
					ProductName: item.Product.Name,
					Revenue:     decimal.Zero,
				}
				byProduct[item.ProductID] = sales
			}
			sales.Quantity += item.Quantity
			sales.Revenue = sales.Revenue.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}

	summary.TopProducts = make([]ProductSales, 0, len(byProduct))
	for _, sales := range byProduct {
		summary.TopProducts = append(summary.TopProducts, *sales)
	}
	sort.Slice(summary.TopProducts, func(i, j int) bool {
		if summary.TopProducts[i].Quantity != summary.TopProducts[j].Quantity {
			return summary.TopProducts[i].Quantity > summary.TopProducts[j].Quantity
		}
		return summary.TopProducts[i].ProductID < summary.TopProducts[j].ProductID
	})

	income, expenses, err := s.ledgerTotals(ctx)
	if err != nil {
		return nil, err
	}
	summary.Income = income
	summary.Expenses = expenses
	summary.Balance = income.Sub(expenses)

	return summary, nil
}

func (s *DashboardService) ledgerTotals(ctx context.Context) (income, expenses decimal.Decimal, err error) {
	income = decimal.Zero
	expenses = decimal.Zero

	var transactions []models.FinancialTransaction
	if err = s.db.WithContext(ctx).Find(&transactions).Error; err != nil {
		return
	}

	for _, t := range transactions {
		switch t.Type {
		case models.TransactionIncome:
			income = income.Add(t.Amount)
		case models.TransactionExpense:
			expenses = expenses.Add(t.Amount)
		}
	}
	return
}
