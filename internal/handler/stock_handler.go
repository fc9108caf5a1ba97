package handler

import (
	"net/http"
	"strings"
	"time"
)

type StockHandler struct {
	stockService StockServiceInterface
}

func NewStockHandler(stockService StockServiceInterface) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// StockGrowthResponse maps symbols to percent growth since the start of the year.
type StockGrowthResponse struct {
	Year   int                `json:"year"`
	Growth map[string]float64 `json:"growth"`
}

// Growth godoc
// @Summary Get year-to-date growth for stock symbols
// @Tags stocks
// @Produce json
// @Param symbols query string true "Comma-separated stock symbols"
// @Param year query int false "Calendar year (defaults to the current year)"
// @Success 200 {object} StockGrowthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /stocks/growth [get]
func (h *StockHandler) Growth(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("symbols")
	if raw == "" {
		respondError(w, http.StatusBadRequest, "symbols is required")
		return
	}

	var symbols []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			symbols = append(symbols, s)
		}
	}
	if len(symbols) == 0 {
		respondError(w, http.StatusBadRequest, "symbols is required")
		return
	}

	year := time.Now().Year()
	if y, err := queryOptionalInt(r, "year"); err != nil {
		respondAppError(w, err)
		return
	} else if y != nil {
		year = *y
	}

	growth, err := h.stockService.Growth(r.Context(), symbols, year)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, StockGrowthResponse{Year: year, Growth: growth})
}
