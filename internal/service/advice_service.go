package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spendsight/backend/internal/analysis"
	"github.com/spendsight/backend/internal/dataset"
	"github.com/spendsight/backend/internal/model"
	"github.com/spendsight/backend/internal/repository"
)

// NoAnomalyMessage is returned when a run completes without finding an
// anomaly. A valid outcome, not an error, and distinct from "user not
// found".
const NoAnomalyMessage = "No anomalies found in the specified period."

// AdviceRepositoryInterface defines the persistence contract for analysis
// artifacts.
type AdviceRepositoryInterface interface {
	SaveResult(ctx context.Context, userID int64, anomaly *model.BiggestAnomaly, expenses []model.ExpenseRow, products []model.ProductAggregate) error
	GetAnomaly(ctx context.Context, userID int64) (*model.BiggestAnomaly, error)
	GetExpenses(ctx context.Context, userID int64) ([]model.ExpenseRow, error)
	GetTopProduct(ctx context.Context, userID int64) (*model.ProductAggregate, error)
}

// SnapshotProvider hands out the current dataset snapshot.
type SnapshotProvider interface {
	Snapshot() (*dataset.Snapshot, error)
}

// AdviceResponse is the payload of the /advices endpoint.
type AdviceResponse struct {
	UserID        int64  `json:"user_id"`
	AdviceMessage string `json:"advice_message"`
}

// ProductResponse is the payload of the /get_anomaly_product endpoint.
type ProductResponse struct {
	UserID        int64  `json:"user_id"`
	AdviceMessage string `json:"advice_message"`
}

// ExpensesResponse is the payload of the /get_expense_categories endpoint.
type ExpensesResponse struct {
	UserID            int64              `json:"user_id"`
	ExpenseCategories []model.ExpenseRow `json:"expense_categories"`
}

// AdviceService runs the anomaly pipeline per request and materializes its
// artifacts for the read-only endpoints.
type AdviceService struct {
	store    SnapshotProvider
	pipeline *analysis.Pipeline
	repo     AdviceRepositoryInterface
	month    int // analysis month the statistics window runs up to
	logger   *slog.Logger
}

func NewAdviceService(
	store SnapshotProvider,
	pipeline *analysis.Pipeline,
	repo AdviceRepositoryInterface,
	month int,
	logger *slog.Logger,
) *AdviceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdviceService{
		store:    store,
		pipeline: pipeline,
		repo:     repo,
		month:    month,
		logger:   logger,
	}
}

// GetAdvice runs the full analysis for the user, persists the artifacts,
// and returns the advice message. Returns dataset.ErrUserNotFound when the
// user has no spending rows.
func (s *AdviceService) GetAdvice(ctx context.Context, userID int64) (*AdviceResponse, error) {
	snap, err := s.store.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("getting dataset snapshot: %w", err)
	}

	result, err := s.pipeline.Run(ctx, snap, userID, s.month)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveResult(ctx, userID, result.Biggest, result.Expenses, result.Products); err != nil {
		return nil, fmt.Errorf("persisting analysis result: %w", err)
	}

	resp := &AdviceResponse{UserID: userID, AdviceMessage: NoAnomalyMessage}
	if result.Biggest != nil {
		resp.AdviceMessage = result.Biggest.Message
	}
	return resp, nil
}

// GetLastAdvice reads the persisted advice message from the user's most
// recent run without re-running the pipeline.
func (s *AdviceService) GetLastAdvice(ctx context.Context, userID int64) (*AdviceResponse, error) {
	anomaly, err := s.repo.GetAnomaly(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNoResult) {
			return &AdviceResponse{UserID: userID, AdviceMessage: NoAnomalyMessage}, nil
		}
		return nil, fmt.Errorf("reading persisted anomaly: %w", err)
	}
	return &AdviceResponse{UserID: userID, AdviceMessage: anomaly.Message}, nil
}

// GetAnomalyProduct reads the persisted top anomalous product from the
// user's most recent run.
func (s *AdviceService) GetAnomalyProduct(ctx context.Context, userID int64) (*ProductResponse, error) {
	product, err := s.repo.GetTopProduct(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNoResult) {
			return &ProductResponse{UserID: userID, AdviceMessage: NoAnomalyMessage}, nil
		}
		return nil, fmt.Errorf("reading top product: %w", err)
	}
	return &ProductResponse{
		UserID:        userID,
		AdviceMessage: fmt.Sprintf("Top anomaly product: %s", product.ProductName),
	}, nil
}

// GetExpenseCategories reads the persisted expense report from the user's
// most recent run.
func (s *AdviceService) GetExpenseCategories(ctx context.Context, userID int64) (*ExpensesResponse, error) {
	rows, err := s.repo.GetExpenses(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNoResult) {
			return &ExpensesResponse{UserID: userID, ExpenseCategories: []model.ExpenseRow{}}, nil
		}
		return nil, fmt.Errorf("reading expense totals: %w", err)
	}
	return &ExpensesResponse{UserID: userID, ExpenseCategories: rows}, nil
}
