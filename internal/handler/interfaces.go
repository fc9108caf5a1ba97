package handler

import (
	"context"

	"github.com/spendsight/backend/internal/model"
	"github.com/spendsight/backend/internal/service"
)

// AdviceServiceInterface defines the advice operations used by handlers.
type AdviceServiceInterface interface {
	GetAdvice(ctx context.Context, userID int64) (*service.AdviceResponse, error)
	GetLastAdvice(ctx context.Context, userID int64) (*service.AdviceResponse, error)
	GetAnomalyProduct(ctx context.Context, userID int64) (*service.ProductResponse, error)
	GetExpenseCategories(ctx context.Context, userID int64) (*service.ExpensesResponse, error)
}

// SavingsServiceInterface defines the discount reporting operations used by handlers.
type SavingsServiceInterface interface {
	DiscountedCategories(ctx context.Context, userID int64, year, month *int) (map[string]string, error)
}

// UserServiceInterface defines the user directory operations used by handlers.
type UserServiceInterface interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// StockServiceInterface defines the stock growth operations used by handlers.
type StockServiceInterface interface {
	Growth(ctx context.Context, symbols []string, year int) (map[string]float64, error)
}
