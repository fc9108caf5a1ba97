package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendsight/backend/internal/model"
)

func anomalyFixture() *model.BiggestAnomaly {
	avg := decimal.NewFromInt(25)
	percent := 300.0
	mean := 50.0
	std := 43.58898943540674
	z := 1.1470786693528088

	return &model.BiggestAnomaly{
		AnomalyRecord: model.AnomalyRecord{
			UserID:    1,
			Key:       model.CategoryKey{Primary: "Food", Sub: "Bakery"},
			SubSpent:  decimal.NewFromInt(100),
			MainSpent: decimal.NewFromInt(100),
			SubMean:   &mean,
			SubStd:    &std,
			SubZ:      &z,
			FinalZ:    z,
			Level:     model.LevelSubcategory,
			IsAnomaly: true,
		},
		AvgOtherSpend: &avg,
		PercentDiff:   &percent,
		Message:       "Hi! In this month you spent 300.00% more than other users in the Bakery category.",
	}
}

func TestAdviceRepository_SaveResult(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewAdviceRepository(db)

	anomaly := anomalyFixture()
	expenses := []model.ExpenseRow{
		{Primary: "Food", Sub: "", Total: decimal.NewFromInt(100)},
		{Primary: "Food", Sub: "Bakery", Total: decimal.NewFromInt(100)},
	}
	products := []model.ProductAggregate{
		{ProductName: "Sourdough", TotalSpent: decimal.NewFromInt(60), Quantity: 12},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM anomaly_results WHERE user_id = \$1`).
		WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM expense_totals WHERE user_id = \$1`).
		WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM top_products WHERE user_id = \$1`).
		WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO anomaly_results`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO expense_totals`).
		WithArgs(int64(1), "Food", "", expenses[0].Total).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO expense_totals`).
		WithArgs(int64(1), "Food", "Bakery", expenses[1].Total).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec(`INSERT INTO top_products`).
		WithArgs(int64(1), 1, "Sourdough", products[0].TotalSpent, 12.0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.SaveResult(context.Background(), 1, anomaly, expenses, products)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdviceRepository_SaveResult_NoAnomalyClearsArtifacts(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewAdviceRepository(db)

	expenses := []model.ExpenseRow{
		{Primary: "Food", Sub: "", Total: decimal.NewFromInt(50)},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM anomaly_results WHERE user_id = \$1`).
		WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM expense_totals WHERE user_id = \$1`).
		WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM top_products WHERE user_id = \$1`).
		WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	// No anomaly insert: the stale anomaly stays cleared.
	mock.ExpectExec(`INSERT INTO expense_totals`).
		WithArgs(int64(1), "Food", "", expenses[0].Total).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.SaveResult(context.Background(), 1, nil, expenses, nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdviceRepository_SaveResult_RollsBackOnFailure(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewAdviceRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM anomaly_results WHERE user_id = \$1`).
		WithArgs(int64(1)).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.SaveResult(context.Background(), 1, nil, nil, nil)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdviceRepository_GetAnomaly(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewAdviceRepository(db)

	cols := []string{
		"user_id", "primary_category", "subcategory",
		"total_subcat_spent", "total_main_spent",
		"mean_subcat_spent", "std_subcat_spent", "mean_main_spent", "std_main_spent",
		"subcat_z_score", "main_z_score", "final_z_score",
		"anomaly_level", "is_anomaly",
		"avg_other_users_spend", "percent_difference", "message",
	}
	rows := sqlmock.NewRows(cols).AddRow(
		1, "Food", "Bakery",
		"100", "100",
		50.0, 43.58898943540674, nil, nil,
		1.1470786693528088, nil, 1.1470786693528088,
		"subcategory", true,
		"25", 300.0, "Hi! In this month you spent 300.00% more than other users in the Bakery category.",
	)
	mock.ExpectQuery(`SELECT .+ FROM anomaly_results WHERE user_id = \$1`).
		WithArgs(int64(1)).WillReturnRows(rows)

	got, err := repo.GetAnomaly(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, model.CategoryKey{Primary: "Food", Sub: "Bakery"}, got.Key)
	assert.Equal(t, model.LevelSubcategory, got.Level)
	assert.True(t, got.IsAnomaly)
	require.NotNil(t, got.SubMean)
	assert.InDelta(t, 50.0, *got.SubMean, 1e-9)
	assert.Nil(t, got.MainMean, "NULL statistics must come back as nil, not zero")
	assert.Nil(t, got.MainZ)
	require.NotNil(t, got.AvgOtherSpend)
	assert.True(t, decimal.NewFromInt(25).Equal(*got.AvgOtherSpend))
	require.NotNil(t, got.PercentDiff)
	assert.InDelta(t, 300.0, *got.PercentDiff, 1e-9)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdviceRepository_GetAnomaly_NoResult(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewAdviceRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM anomaly_results WHERE user_id = \$1`).
		WithArgs(int64(5)).WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, err := repo.GetAnomaly(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNoResult)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdviceRepository_GetExpenses(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewAdviceRepository(db)

	rows := sqlmock.NewRows([]string{"primary_category", "subcategory", "total_price"}).
		AddRow("Food", "", "100").
		AddRow("Food", "Bakery", "100")
	mock.ExpectQuery(`SELECT .+ FROM expense_totals WHERE user_id = \$1`).
		WithArgs(int64(1)).WillReturnRows(rows)

	got, err := repo.GetExpenses(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Food", got[0].Primary)
	assert.Equal(t, "", got[0].Sub)
	assert.Equal(t, "Bakery", got[1].Sub)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdviceRepository_GetExpenses_Empty(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewAdviceRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM expense_totals WHERE user_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"primary_category", "subcategory", "total_price"}))

	_, err := repo.GetExpenses(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoResult)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdviceRepository_GetTopProduct(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewAdviceRepository(db)

	rows := sqlmock.NewRows([]string{"product_name", "total_spent", "quantity"}).
		AddRow("Sourdough", "60", 12.0)
	mock.ExpectQuery(`SELECT .+ FROM top_products WHERE user_id = \$1`).
		WithArgs(int64(1)).WillReturnRows(rows)

	got, err := repo.GetTopProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Sourdough", got.ProductName)
	assert.True(t, decimal.NewFromInt(60).Equal(got.TotalSpent))
	assert.Equal(t, 12.0, got.Quantity)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdviceRepository_GetTopProduct_NoResult(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewAdviceRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM top_products WHERE user_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"product_name", "total_spent", "quantity"}))

	_, err := repo.GetTopProduct(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoResult)
	assert.NoError(t, mock.ExpectationsWereMet())
}
