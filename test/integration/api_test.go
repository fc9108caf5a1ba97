package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spendsight/backend/internal/dataset"
	"github.com/spendsight/backend/internal/handler"
	"github.com/spendsight/backend/internal/model"
	"github.com/spendsight/backend/internal/service"
)

// ============ Mock Services ============

type MockAdviceService struct {
	mock.Mock
}

func (m *MockAdviceService) GetAdvice(ctx context.Context, userID int64) (*service.AdviceResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AdviceResponse), args.Error(1)
}

func (m *MockAdviceService) GetLastAdvice(ctx context.Context, userID int64) (*service.AdviceResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AdviceResponse), args.Error(1)
}

func (m *MockAdviceService) GetAnomalyProduct(ctx context.Context, userID int64) (*service.ProductResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProductResponse), args.Error(1)
}

func (m *MockAdviceService) GetExpenseCategories(ctx context.Context, userID int64) (*service.ExpensesResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExpensesResponse), args.Error(1)
}

type MockSavingsService struct {
	mock.Mock
}

func (m *MockSavingsService) DiscountedCategories(ctx context.Context, userID int64, year, month *int) (map[string]string, error) {
	args := m.Called(ctx, userID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// ============ Router Setup ============

type testServices struct {
	advice  *MockAdviceService
	savings *MockSavingsService
	users   *MockUserService
}

func setupRouter() (*chi.Mux, *testServices) {
	svcs := &testServices{
		advice:  new(MockAdviceService),
		savings: new(MockSavingsService),
		users:   new(MockUserService),
	}

	adviceHandler := handler.NewAdviceHandler(svcs.advice, svcs.savings)
	userHandler := handler.NewUserHandler(svcs.users)
	receiptHandler := handler.NewReceiptHandler()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/api/advices", adviceHandler.GetAdvice)
	r.Get("/api/get_last_advice", adviceHandler.GetLastAdvice)
	r.Get("/api/get_anomaly_product", adviceHandler.GetAnomalyProduct)
	r.Get("/api/get_expense_categories", adviceHandler.GetExpenseCategories)
	r.Get("/api/get_discounted_categories", adviceHandler.GetDiscountedCategories)
	r.Get("/api/users/{id}", userHandler.Get)
	r.Post("/api/receipts", receiptHandler.Create)

	return r, svcs
}

// ============ Tests ============

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAdvicesEndpoint(t *testing.T) {
	t.Parallel()

	r, svcs := setupRouter()
	svcs.advice.On("GetAdvice", mock.Anything, int64(1)).Return(&service.AdviceResponse{
		UserID:        1,
		AdviceMessage: "Hi! In this month you spent 300.00% more than other users in the Bakery category.",
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/advices?user_id=1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp service.AdviceResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(1), resp.UserID)
	assert.Contains(t, resp.AdviceMessage, "Bakery")
}

func TestAdvicesEndpoint_UserNotFound(t *testing.T) {
	t.Parallel()

	r, svcs := setupRouter()
	svcs.advice.On("GetAdvice", mock.Anything, int64(77)).Return(nil, dataset.ErrUserNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/advices?user_id=77", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLastAdviceEndpoint(t *testing.T) {
	t.Parallel()

	r, svcs := setupRouter()
	svcs.advice.On("GetLastAdvice", mock.Anything, int64(1)).Return(&service.AdviceResponse{
		UserID:        1,
		AdviceMessage: "Hi! In this month you spent 300.00% more than other users in the Bakery category.",
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/get_last_advice?user_id=1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Bakery")
}

func TestAnomalyProductEndpoint(t *testing.T) {
	t.Parallel()

	r, svcs := setupRouter()
	svcs.advice.On("GetAnomalyProduct", mock.Anything, int64(1)).Return(&service.ProductResponse{
		UserID:        1,
		AdviceMessage: "Top anomaly product: Sourdough",
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/get_anomaly_product?user_id=1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp service.ProductResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Top anomaly product: Sourdough", resp.AdviceMessage)
}

func TestExpenseCategoriesEndpoint(t *testing.T) {
	t.Parallel()

	r, svcs := setupRouter()
	svcs.advice.On("GetExpenseCategories", mock.Anything, int64(1)).Return(&service.ExpensesResponse{
		UserID: 1,
		ExpenseCategories: []model.ExpenseRow{
			{Primary: "Food", Sub: "", Total: decimal.NewFromInt(100)},
			{Primary: "Food", Sub: "Bakery", Total: decimal.NewFromInt(100)},
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/get_expense_categories?user_id=1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp service.ExpensesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.ExpenseCategories, 2)
	assert.Equal(t, "Food", resp.ExpenseCategories[0].Primary)
}

func TestDiscountedCategoriesEndpoint(t *testing.T) {
	t.Parallel()

	r, svcs := setupRouter()
	svcs.savings.On("DiscountedCategories", mock.Anything, int64(1), (*int)(nil), (*int)(nil)).
		Return(map[string]string{"Food/Bakery": "2.25"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/get_discounted_categories?user_id=1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "2.25")
}

func TestUsersEndpoint(t *testing.T) {
	t.Parallel()

	r, svcs := setupRouter()
	svcs.users.On("GetByID", mock.Anything, int64(7)).Return(&model.User{
		ID:           7,
		Username:     "alice",
		MonthlySpend: decimal.NewFromInt(1200),
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/users/7", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var user model.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&user))
	assert.Equal(t, "alice", user.Username)
}

func TestValidationErrors(t *testing.T) {
	t.Parallel()

	r, _ := setupRouter()

	paths := []string{
		"/api/advices",
		"/api/get_anomaly_product?user_id=abc",
		"/api/get_expense_categories?user_id=-1",
		"/api/get_discounted_categories?user_id=1&month=0",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "path %s", path)
	}
}
