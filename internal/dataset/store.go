// Package dataset loads and indexes the merged spending dataset that feeds
// the anomaly analysis. The dataset is read once at startup and swapped
// atomically on refresh, so every request sees a consistent snapshot.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendsight/backend/internal/model"
)

var (
	// ErrUserNotFound means the user has no rows in the spending dataset.
	ErrUserNotFound = errors.New("user not found in spending dataset")
	// ErrNotLoaded means no snapshot has been loaded yet.
	ErrNotLoaded = errors.New("spending dataset not loaded")
)

// SchemaError reports required columns missing from the dataset header.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing columns in spending dataset: %s", strings.Join(e.Missing, ", "))
}

// Columns the loader requires. quantity and product_name are optional.
var requiredColumns = []string{"customer_id", "issue_date", "total_price", "category_item", "receipt_id"}

// Dataset timestamps come as "31.10.2024 14:05:11"; some exports use the
// ISO form instead.
var dateLayouts = []string{"02.01.2006 15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

// Store holds the current dataset snapshot and reloads it on demand.
type Store struct {
	path   string
	logger *slog.Logger

	mu   sync.RWMutex
	snap *Snapshot
}

// Snapshot is an immutable view of the dataset. All reads during a pipeline
// run go through a single snapshot, so a concurrent reload never exposes a
// partially loaded dataset.
type Snapshot struct {
	transactions []model.Transaction
	byUser       map[int64][]model.Transaction
	loadedAt     time.Time
}

func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

// Load parses the dataset file and swaps it in as the current snapshot.
// The previous snapshot stays valid for requests already holding it.
func (s *Store) Load(ctx context.Context) error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("opening spending dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	snap, skipped, err := parse(ctx, f)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	s.logger.Info("spending dataset loaded",
		slog.String("path", s.path),
		slog.Int("transactions", len(snap.transactions)),
		slog.Int("users", len(snap.byUser)),
		slog.Int("skipped_rows", skipped),
	)
	return nil
}

// Snapshot returns the current dataset snapshot.
func (s *Store) Snapshot() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, ErrNotLoaded
	}
	return s.snap, nil
}

func parse(ctx context.Context, r io.Reader) (*Snapshot, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("reading dataset header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, 0, &SchemaError{Missing: missing}
	}

	snap := &Snapshot{
		byUser:   make(map[int64][]model.Transaction),
		loadedAt: time.Now().UTC(),
	}

	skipped := 0
	for {
		select {
		case <-ctx.Done():
			return nil, skipped, ctx.Err()
		default:
		}

		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		tx, ok := parseRow(row, cols)
		if !ok {
			skipped++
			continue
		}
		snap.transactions = append(snap.transactions, tx)
		snap.byUser[tx.UserID] = append(snap.byUser[tx.UserID], tx)
	}

	return snap, skipped, nil
}

func parseRow(row []string, cols map[string]int) (model.Transaction, bool) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	// Uncategorized rows carry no analysis signal and are dropped at load.
	category := field("category_item")
	if category == "" {
		return model.Transaction{}, false
	}

	userID, err := strconv.ParseInt(field("customer_id"), 10, 64)
	if err != nil {
		return model.Transaction{}, false
	}

	issued, err := parseDate(field("issue_date"))
	if err != nil {
		return model.Transaction{}, false
	}

	total, err := decimal.NewFromString(field("total_price"))
	if err != nil {
		return model.Transaction{}, false
	}

	tx := model.Transaction{
		UserID:      userID,
		IssueDate:   issued,
		RawCategory: category,
		TotalPrice:  total,
		ReceiptID:   field("receipt_id"),
		ProductName: field("product_name"),
	}
	if q := field("quantity"); q != "" {
		if qty, err := strconv.ParseFloat(q, 64); err == nil {
			tx.Quantity = qty
		}
	}
	return tx, true
}

func parseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// LoadedAt reports when the snapshot was built.
func (sn *Snapshot) LoadedAt() time.Time {
	return sn.loadedAt
}

// All returns every transaction in the snapshot. Callers must not mutate
// the returned slice.
func (sn *Snapshot) All() []model.Transaction {
	return sn.transactions
}

// HasUser reports whether the user has any rows in the dataset.
func (sn *Snapshot) HasUser(userID int64) bool {
	_, ok := sn.byUser[userID]
	return ok
}

// ForUser returns the user's transactions, optionally restricted to a year
// and month. Filtering applies user first, then year, then month.
func (sn *Snapshot) ForUser(userID int64, year, month *int) ([]model.Transaction, error) {
	txs, ok := sn.byUser[userID]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
	}

	out := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		if year != nil && tx.IssueDate.Year() != *year {
			continue
		}
		if month != nil && int(tx.IssueDate.Month()) != *month {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

// ThroughMonth returns every user's transactions issued in or before the
// given month. The analysis window runs from the start of the dataset up to
// and including the analysis month, matching the statistics population.
func (sn *Snapshot) ThroughMonth(month int) []model.Transaction {
	out := make([]model.Transaction, 0, len(sn.transactions))
	for _, tx := range sn.transactions {
		if int(tx.IssueDate.Month()) <= month {
			out = append(out, tx)
		}
	}
	return out
}

// DistinctCategories returns the sorted set of raw category labels present
// in the given transactions.
func DistinctCategories(txs []model.Transaction) []string {
	seen := make(map[string]struct{})
	for _, tx := range txs {
		seen[tx.RawCategory] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
