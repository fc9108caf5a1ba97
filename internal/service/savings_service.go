package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
)

// SaleAmountResolver sums the sale-item amounts across a set of receipts.
type SaleAmountResolver interface {
	SaleAmount(ctx context.Context, receiptIDs []string) (decimal.Decimal, error)
}

// SavingsService reports per-category discount ("sale item") totals for a
// user's receipts in a given month.
type SavingsService struct {
	store    SnapshotProvider
	resolver SaleAmountResolver
	logger   *slog.Logger
}

func NewSavingsService(store SnapshotProvider, resolver SaleAmountResolver, logger *slog.Logger) *SavingsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SavingsService{store: store, resolver: resolver, logger: logger}
}

// DiscountedCategories returns the sale amount per raw category for the
// user's receipts, restricted to the given year and month when set. The
// map value is the display string with two fractional digits.
func (s *SavingsService) DiscountedCategories(ctx context.Context, userID int64, year, month *int) (map[string]string, error) {
	snap, err := s.store.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("getting dataset snapshot: %w", err)
	}

	txs, err := snap.ForUser(userID, year, month)
	if err != nil {
		return nil, err
	}

	// Distinct receipts per category; a receipt never spans categories in
	// the dataset.
	receiptsByCategory := make(map[string][]string)
	seen := make(map[string]struct{})
	for _, tx := range txs {
		if tx.ReceiptID == "" {
			continue
		}
		dedupe := tx.RawCategory + "\x00" + tx.ReceiptID
		if _, ok := seen[dedupe]; ok {
			continue
		}
		seen[dedupe] = struct{}{}
		receiptsByCategory[tx.RawCategory] = append(receiptsByCategory[tx.RawCategory], tx.ReceiptID)
	}

	out := make(map[string]string, len(receiptsByCategory))
	for category, receiptIDs := range receiptsByCategory {
		amount, err := s.resolver.SaleAmount(ctx, receiptIDs)
		if err != nil {
			return nil, fmt.Errorf("resolving sale amount for %s: %w", category, err)
		}
		out[category] = amount.StringFixed(2)
	}
	return out, nil
}
