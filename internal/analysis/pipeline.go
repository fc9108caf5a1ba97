package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spendsight/backend/internal/dataset"
	"github.com/spendsight/backend/internal/model"
)

// Stage names the steps of an analysis run, in order. A run either reaches
// one of the terminal stages (StageNoAnomaly, StageProductResolved) or
// fails at the stage named in the returned error.
type Stage string

const (
	StageInit            Stage = "init"
	StageLoaded          Stage = "loaded"
	StageAggregated      Stage = "aggregated"
	StageStatsComputed   Stage = "stats_computed"
	StageAnomalySelected Stage = "anomaly_selected"
	StageNoAnomaly       Stage = "no_anomaly"
	StageAnomalyFound    Stage = "anomaly_found"
	StageProductResolved Stage = "product_resolved"
)

// ProductResolver drills an anomalous category down to the products bought
// on its receipts. Implementations must isolate per-receipt lookup
// failures; the pipeline treats a resolver error as "no product data", not
// as a failed run.
type ProductResolver interface {
	Resolve(ctx context.Context, receiptIDs []string) ([]model.ProductAggregate, error)
}

// Result is the complete output of one analysis run for one user.
type Result struct {
	UserID   int64
	Stage    Stage
	Biggest  *model.BiggestAnomaly    // nil when the run ended at StageNoAnomaly
	Expenses []model.ExpenseRow       // always populated
	Products []model.ProductAggregate // ranked descending by total spent
}

// TopProduct returns the product contributing most to the anomaly, or nil.
func (r *Result) TopProduct() *model.ProductAggregate {
	if len(r.Products) == 0 {
		return nil
	}
	return &r.Products[0]
}

// Pipeline runs the spending-anomaly analysis. It holds no per-request
// state: every Run works off the snapshot it is handed and returns a fresh
// Result, so concurrent requests never interfere.
type Pipeline struct {
	resolver ProductResolver
	logger   *slog.Logger
}

func NewPipeline(resolver ProductResolver, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{resolver: resolver, logger: logger}
}

// Run executes the full analysis for one user against the given snapshot.
// The statistics population covers every user's transactions issued up to
// and including the analysis month; product resolution is restricted to
// the analysis month itself.
func (p *Pipeline) Run(ctx context.Context, snap *dataset.Snapshot, userID int64, month int) (*Result, error) {
	if !snap.HasUser(userID) {
		return nil, fmt.Errorf("stage %s: user %d: %w", StageInit, userID, dataset.ErrUserNotFound)
	}

	window := snap.ThroughMonth(month)
	if len(window) == 0 {
		return nil, fmt.Errorf("stage %s: no transactions in analysis window", StageLoaded)
	}

	totals := Aggregate(window)

	subStats := SubcategoryStats(totals)
	mainStats := MainCategoryStats(totals)

	records := BuildUserRecords(userID, totals, subStats, mainStats)

	result := &Result{
		UserID:   userID,
		Expenses: ExpenseReport(window, userID),
	}

	biggest := BiggestAnomaly(records)
	if biggest == nil {
		result.Stage = StageNoAnomaly
		p.logger.Info("analysis run finished without anomaly",
			slog.Int64("user_id", userID),
			slog.Int("month", month),
			slog.Int("categories", len(records)),
		)
		return result, nil
	}

	enriched := ComparePeers(*biggest, window)
	result.Biggest = &enriched
	result.Stage = StageAnomalyFound

	receiptIDs := p.anomalousReceipts(snap, &enriched, month)
	products, err := p.resolver.Resolve(ctx, receiptIDs)
	if err != nil {
		// Product resolution is best-effort: a failed lookup must not turn
		// a found anomaly into a failed run.
		p.logger.Warn("product resolution failed",
			slog.Int64("user_id", userID),
			slog.String("category", enriched.Key.String()),
			slog.String("error", err.Error()),
		)
	} else {
		result.Products = products
		result.Stage = StageProductResolved
	}

	p.logger.Info("analysis run finished",
		slog.Int64("user_id", userID),
		slog.Int("month", month),
		slog.String("stage", string(result.Stage)),
		slog.String("category", enriched.Key.String()),
		slog.Float64("final_z", enriched.FinalZ),
	)
	return result, nil
}

// anomalousReceipts collects the distinct receipt IDs behind the anomalous
// bucket, restricted to the user's transactions in the analysis month.
func (p *Pipeline) anomalousReceipts(snap *dataset.Snapshot, anomaly *model.BiggestAnomaly, month int) []string {
	txs, err := snap.ForUser(anomaly.UserID, nil, &month)
	if err != nil {
		return nil
	}

	atSubLevel := anomaly.Level == model.LevelSubcategory && anomaly.Key.HasSub()

	seen := make(map[string]struct{})
	var ids []string
	for _, tx := range txs {
		key := DecomposeCategory(tx.RawCategory)
		if key.Primary != anomaly.Key.Primary {
			continue
		}
		if atSubLevel && key.Sub != anomaly.Key.Sub {
			continue
		}
		if tx.ReceiptID == "" {
			continue
		}
		if _, ok := seen[tx.ReceiptID]; ok {
			continue
		}
		seen[tx.ReceiptID] = struct{}{}
		ids = append(ids, tx.ReceiptID)
	}
	return ids
}
