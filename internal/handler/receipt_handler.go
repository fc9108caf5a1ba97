package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type ReceiptHandler struct{}

func NewReceiptHandler() *ReceiptHandler {
	return &ReceiptHandler{}
}

// CreateReceiptRequest is the body of POST /receipts.
type CreateReceiptRequest struct {
	ReceiptID string `json:"receipt_id"`
}

// CreateReceiptResponse acknowledges a submitted receipt.
type CreateReceiptResponse struct {
	UID       string `json:"uid"`
	ReceiptID string `json:"receipt_id"`
	Status    string `json:"status"`
}

// Create godoc
// @Summary Register a receipt for later processing
// @Description Accepts a receipt identifier and acknowledges it with a tracking UID
// @Tags receipts
// @Accept json
// @Produce json
// @Param receipt body CreateReceiptRequest true "Receipt"
// @Success 201 {object} CreateReceiptResponse
// @Failure 400 {object} ErrorResponse
// @Router /receipts [post]
func (h *ReceiptHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.ReceiptID = strings.TrimSpace(req.ReceiptID)
	if req.ReceiptID == "" {
		respondError(w, http.StatusBadRequest, "receipt_id is required")
		return
	}

	respondJSON(w, http.StatusCreated, CreateReceiptResponse{
		UID:       uuid.New().String(),
		ReceiptID: req.ReceiptID,
		Status:    "accepted",
	})
}
