package handler

import (
	"net/http"
)

type AdviceHandler struct {
	advice  AdviceServiceInterface
	savings SavingsServiceInterface
}

func NewAdviceHandler(advice AdviceServiceInterface, savings SavingsServiceInterface) *AdviceHandler {
	return &AdviceHandler{advice: advice, savings: savings}
}

// GetAdvice godoc
// @Summary Run the spending-anomaly analysis for a user
// @Description Runs the full anomaly pipeline, materializes the results, and returns the advice message
// @Tags advice
// @Produce json
// @Param user_id query int true "User ID"
// @Success 200 {object} service.AdviceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /advices [get]
func (h *AdviceHandler) GetAdvice(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		respondAppError(w, err)
		return
	}

	resp, err := h.advice.GetAdvice(r.Context(), userID)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetLastAdvice godoc
// @Summary Get the advice message from the user's latest analysis
// @Description Reads the persisted result without re-running the pipeline
// @Tags advice
// @Produce json
// @Param user_id query int true "User ID"
// @Success 200 {object} service.AdviceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /get_last_advice [get]
func (h *AdviceHandler) GetLastAdvice(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		respondAppError(w, err)
		return
	}

	resp, err := h.advice.GetLastAdvice(r.Context(), userID)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetAnomalyProduct godoc
// @Summary Get the top anomalous product from the user's latest analysis
// @Tags advice
// @Produce json
// @Param user_id query int true "User ID"
// @Success 200 {object} service.ProductResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /get_anomaly_product [get]
func (h *AdviceHandler) GetAnomalyProduct(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		respondAppError(w, err)
		return
	}

	resp, err := h.advice.GetAnomalyProduct(r.Context(), userID)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetExpenseCategories godoc
// @Summary Get the expense report from the user's latest analysis
// @Tags advice
// @Produce json
// @Param user_id query int true "User ID"
// @Success 200 {object} service.ExpensesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /get_expense_categories [get]
func (h *AdviceHandler) GetExpenseCategories(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		respondAppError(w, err)
		return
	}

	resp, err := h.advice.GetExpenseCategories(r.Context(), userID)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// DiscountedCategoriesResponse is the payload of /get_discounted_categories.
type DiscountedCategoriesResponse struct {
	UserID               int64             `json:"user_id"`
	DiscountedCategories map[string]string `json:"discounted_categories"`
}

// GetDiscountedCategories godoc
// @Summary Get per-category sale amounts for a user's receipts
// @Tags advice
// @Produce json
// @Param user_id query int true "User ID"
// @Param year query int false "Restrict to year"
// @Param month query int false "Restrict to month (1-12)"
// @Success 200 {object} DiscountedCategoriesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /get_discounted_categories [get]
func (h *AdviceHandler) GetDiscountedCategories(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		respondAppError(w, err)
		return
	}

	year, err := queryOptionalInt(r, "year")
	if err != nil {
		respondAppError(w, err)
		return
	}
	month, err := queryOptionalInt(r, "month")
	if err != nil {
		respondAppError(w, err)
		return
	}
	if month != nil && (*month < 1 || *month > 12) {
		respondError(w, http.StatusBadRequest, "month must be between 1 and 12")
		return
	}

	savings, err := h.savings.DiscountedCategories(r.Context(), userID, year, month)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, DiscountedCategoriesResponse{
		UserID:               userID,
		DiscountedCategories: savings,
	})
}
