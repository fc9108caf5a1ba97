package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStockService implements StockServiceInterface for testing
type MockStockService struct {
	mock.Mock
}

func (m *MockStockService) Growth(ctx context.Context, symbols []string, year int) (map[string]float64, error) {
	args := m.Called(ctx, symbols, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]float64), args.Error(1)
}

func TestStockHandler_Growth(t *testing.T) {
	t.Parallel()

	svc := new(MockStockService)
	svc.On("Growth", mock.Anything, []string{"AAPL", "MSFT"}, 2024).Return(map[string]float64{
		"AAPL": 25.0,
		"MSFT": 12.5,
	}, nil)

	h := NewStockHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/stocks/growth?symbols=aapl,%20msft&year=2024", nil)
	rec := httptest.NewRecorder()
	h.Growth(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp StockGrowthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2024, resp.Year)
	assert.InDelta(t, 25.0, resp.Growth["AAPL"], 1e-9)

	svc.AssertExpectations(t)
}

func TestStockHandler_Growth_MissingSymbols(t *testing.T) {
	t.Parallel()

	h := NewStockHandler(new(MockStockService))

	req := httptest.NewRequest(http.MethodGet, "/api/stocks/growth", nil)
	rec := httptest.NewRecorder()
	h.Growth(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStockHandler_Growth_BlankSymbols(t *testing.T) {
	t.Parallel()

	h := NewStockHandler(new(MockStockService))

	req := httptest.NewRequest(http.MethodGet, "/api/stocks/growth?symbols=,%20,", nil)
	rec := httptest.NewRecorder()
	h.Growth(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStockHandler_Growth_ServiceFailure(t *testing.T) {
	t.Parallel()

	svc := new(MockStockService)
	svc.On("Growth", mock.Anything, []string{"AAPL"}, mock.AnythingOfType("int")).Return(nil, assert.AnError)

	h := NewStockHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/stocks/growth?symbols=AAPL", nil)
	rec := httptest.NewRecorder()
	h.Growth(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
