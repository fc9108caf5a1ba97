package receipt

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/spendsight/backend/internal/model"
)

// DefaultConcurrency bounds how many receipt lookups run in flight at once.
const DefaultConcurrency = 5

// Resolver fans receipt lookups out over the fetcher and aggregates the
// sale items into product-level totals. Lookups for individual receipts
// are independent, so they run concurrently; aggregation is commutative,
// so completion order does not matter.
type Resolver struct {
	fetcher     LineItemFetcher
	concurrency int
	logger      *slog.Logger
}

func NewResolver(fetcher LineItemFetcher, concurrency int, logger *slog.Logger) *Resolver {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{fetcher: fetcher, concurrency: concurrency, logger: logger}
}

// Resolve aggregates sale items across the given receipts by product name,
// ranked descending by total spent. A failed lookup contributes zero items
// and is logged; only context cancellation aborts the whole resolution.
func (r *Resolver) Resolve(ctx context.Context, receiptIDs []string) ([]model.ProductAggregate, error) {
	type bucket struct {
		total    decimal.Decimal
		quantity float64
	}

	var mu sync.Mutex
	buckets := make(map[string]*bucket)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for _, id := range receiptIDs {
		g.Go(func() error {
			items, err := r.fetcher.FetchItems(ctx, id)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				r.logger.Warn("receipt lookup failed, skipping",
					slog.String("receipt_id", id),
					slog.String("error", err.Error()),
				)
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			for _, item := range items {
				if item.ItemType != SaleItemType {
					continue
				}
				b := buckets[item.Name]
				if b == nil {
					b = &bucket{}
					buckets[item.Name] = b
				}
				lineTotal := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromFloat(item.Quantity))
				b.total = b.total.Add(lineTotal)
				b.quantity += item.Quantity
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]model.ProductAggregate, 0, len(buckets))
	for name, b := range buckets {
		out = append(out, model.ProductAggregate{
			ProductName: name,
			TotalSpent:  b.total,
			Quantity:    b.quantity,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalSpent.Equal(out[j].TotalSpent) {
			return out[i].TotalSpent.GreaterThan(out[j].TotalSpent)
		}
		return out[i].ProductName < out[j].ProductName
	})
	return out, nil
}

// SaleAmount sums the sale-item totals across the given receipts. Used by
// the discounted-categories report, where only the per-category total
// matters.
func (r *Resolver) SaleAmount(ctx context.Context, receiptIDs []string) (decimal.Decimal, error) {
	products, err := r.Resolve(ctx, receiptIDs)
	if err != nil {
		return decimal.Zero, err
	}
	var sum decimal.Decimal
	for _, p := range products {
		sum = sum.Add(p.TotalSpent)
	}
	return sum, nil
}
