package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/spendsight/backend/internal/model"
)

// ErrNoResult means no materialized analysis artifact exists for the user
// yet. Distinct from a run that found no anomaly: that run still writes
// its expense rows and clears stale anomaly artifacts.
var ErrNoResult = errors.New("no analysis result for user")

// AdviceRepository persists the artifacts of an analysis run: the biggest
// anomaly, the expense report, and the ranked anomalous products. Each run
// overwrites the user's previous artifacts in one transaction.
type AdviceRepository struct {
	db *sqlx.DB
}

func NewAdviceRepository(db *sqlx.DB) *AdviceRepository {
	return &AdviceRepository{db: db}
}

type anomalyRow struct {
	UserID          int64               `db:"user_id"`
	PrimaryCategory string              `db:"primary_category"`
	Subcategory     string              `db:"subcategory"`
	TotalSubSpent   decimal.Decimal     `db:"total_subcat_spent"`
	TotalMainSpent  decimal.Decimal     `db:"total_main_spent"`
	MeanSubSpent    sql.NullFloat64     `db:"mean_subcat_spent"`
	StdSubSpent     sql.NullFloat64     `db:"std_subcat_spent"`
	MeanMainSpent   sql.NullFloat64     `db:"mean_main_spent"`
	StdMainSpent    sql.NullFloat64     `db:"std_main_spent"`
	SubZScore       sql.NullFloat64     `db:"subcat_z_score"`
	MainZScore      sql.NullFloat64     `db:"main_z_score"`
	FinalZScore     float64             `db:"final_z_score"`
	AnomalyLevel    string              `db:"anomaly_level"`
	IsAnomaly       bool                `db:"is_anomaly"`
	AvgOtherSpend   decimal.NullDecimal `db:"avg_other_users_spend"`
	PercentDiff     sql.NullFloat64     `db:"percent_difference"`
	Message         string              `db:"message"`
}

// SaveResult replaces the user's materialized artifacts with the outcome
// of a fresh analysis run. A nil anomaly clears the anomaly and product
// artifacts while still writing the expense rows.
func (r *AdviceRepository) SaveResult(
	ctx context.Context,
	userID int64,
	anomaly *model.BiggestAnomaly,
	expenses []model.ExpenseRow,
	products []model.ProductAggregate,
) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning advice transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM anomaly_results WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clearing anomaly result: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM expense_totals WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clearing expense totals: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM top_products WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clearing top products: %w", err)
	}

	if anomaly != nil {
		row := toAnomalyRow(anomaly)
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO anomaly_results (
				user_id, primary_category, subcategory,
				total_subcat_spent, total_main_spent,
				mean_subcat_spent, std_subcat_spent, mean_main_spent, std_main_spent,
				subcat_z_score, main_z_score, final_z_score,
				anomaly_level, is_anomaly,
				avg_other_users_spend, percent_difference, message
			) VALUES (
				:user_id, :primary_category, :subcategory,
				:total_subcat_spent, :total_main_spent,
				:mean_subcat_spent, :std_subcat_spent, :mean_main_spent, :std_main_spent,
				:subcat_z_score, :main_z_score, :final_z_score,
				:anomaly_level, :is_anomaly,
				:avg_other_users_spend, :percent_difference, :message
			)`, row)
		if err != nil {
			return fmt.Errorf("inserting anomaly result: %w", err)
		}
	}

	for _, e := range expenses {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO expense_totals (user_id, primary_category, subcategory, total_price)
			VALUES ($1, $2, $3, $4)`,
			userID, e.Primary, e.Sub, e.Total,
		)
		if err != nil {
			return fmt.Errorf("inserting expense row: %w", err)
		}
	}

	for rank, p := range products {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO top_products (user_id, rank, product_name, total_spent, quantity)
			VALUES ($1, $2, $3, $4, $5)`,
			userID, rank+1, p.ProductName, p.TotalSpent, p.Quantity,
		)
		if err != nil {
			return fmt.Errorf("inserting top product: %w", err)
		}
	}

	return tx.Commit()
}

// GetAnomaly returns the user's persisted biggest anomaly.
func (r *AdviceRepository) GetAnomaly(ctx context.Context, userID int64) (*model.BiggestAnomaly, error) {
	var row anomalyRow
	query := `SELECT user_id, primary_category, subcategory,
		total_subcat_spent, total_main_spent,
		mean_subcat_spent, std_subcat_spent, mean_main_spent, std_main_spent,
		subcat_z_score, main_z_score, final_z_score,
		anomaly_level, is_anomaly,
		avg_other_users_spend, percent_difference, message
		FROM anomaly_results WHERE user_id = $1`
	err := r.db.GetContext(ctx, &row, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoResult
	}
	if err != nil {
		return nil, err
	}
	return fromAnomalyRow(&row), nil
}

// GetExpenses returns the user's persisted expense report rows.
func (r *AdviceRepository) GetExpenses(ctx context.Context, userID int64) ([]model.ExpenseRow, error) {
	var rows []struct {
		Primary string          `db:"primary_category"`
		Sub     string          `db:"subcategory"`
		Total   decimal.Decimal `db:"total_price"`
	}
	query := `SELECT primary_category, subcategory, total_price
		FROM expense_totals WHERE user_id = $1
		ORDER BY primary_category, subcategory`
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoResult
	}

	out := make([]model.ExpenseRow, len(rows))
	for i, row := range rows {
		out[i] = model.ExpenseRow{Primary: row.Primary, Sub: row.Sub, Total: row.Total}
	}
	return out, nil
}

// GetTopProduct returns the highest-ranked anomalous product for the user.
func (r *AdviceRepository) GetTopProduct(ctx context.Context, userID int64) (*model.ProductAggregate, error) {
	var row struct {
		ProductName string          `db:"product_name"`
		TotalSpent  decimal.Decimal `db:"total_spent"`
		Quantity    float64         `db:"quantity"`
	}
	query := `SELECT product_name, total_spent, quantity
		FROM top_products WHERE user_id = $1
		ORDER BY rank LIMIT 1`
	err := r.db.GetContext(ctx, &row, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoResult
	}
	if err != nil {
		return nil, err
	}
	return &model.ProductAggregate{
		ProductName: row.ProductName,
		TotalSpent:  row.TotalSpent,
		Quantity:    row.Quantity,
	}, nil
}

func toAnomalyRow(a *model.BiggestAnomaly) *anomalyRow {
	row := &anomalyRow{
		UserID:          a.UserID,
		PrimaryCategory: a.Key.Primary,
		Subcategory:     a.Key.Sub,
		TotalSubSpent:   a.SubSpent,
		TotalMainSpent:  a.MainSpent,
		MeanSubSpent:    toNullFloat(a.SubMean),
		StdSubSpent:     toNullFloat(a.SubStd),
		MeanMainSpent:   toNullFloat(a.MainMean),
		StdMainSpent:    toNullFloat(a.MainStd),
		SubZScore:       toNullFloat(a.SubZ),
		MainZScore:      toNullFloat(a.MainZ),
		FinalZScore:     a.FinalZ,
		AnomalyLevel:    string(a.Level),
		IsAnomaly:       a.IsAnomaly,
		PercentDiff:     toNullFloat(a.PercentDiff),
		Message:         a.Message,
	}
	if a.AvgOtherSpend != nil {
		row.AvgOtherSpend = decimal.NullDecimal{Decimal: *a.AvgOtherSpend, Valid: true}
	}
	return row
}

func fromAnomalyRow(row *anomalyRow) *model.BiggestAnomaly {
	a := &model.BiggestAnomaly{
		AnomalyRecord: model.AnomalyRecord{
			UserID:    row.UserID,
			Key:       model.CategoryKey{Primary: row.PrimaryCategory, Sub: row.Subcategory},
			SubSpent:  row.TotalSubSpent,
			MainSpent: row.TotalMainSpent,
			SubMean:   fromNullFloat(row.MeanSubSpent),
			SubStd:    fromNullFloat(row.StdSubSpent),
			MainMean:  fromNullFloat(row.MeanMainSpent),
			MainStd:   fromNullFloat(row.StdMainSpent),
			SubZ:      fromNullFloat(row.SubZScore),
			MainZ:     fromNullFloat(row.MainZScore),
			FinalZ:    row.FinalZScore,
			Level:     model.AnomalyLevel(row.AnomalyLevel),
			IsAnomaly: row.IsAnomaly,
		},
		PercentDiff: fromNullFloat(row.PercentDiff),
		Message:     row.Message,
	}
	if row.AvgOtherSpend.Valid {
		d := row.AvgOtherSpend.Decimal
		a.AvgOtherSpend = &d
	}
	return a
}

func toNullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func fromNullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
