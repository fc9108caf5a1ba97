// Package receipt talks to the fiscal receipt registry to resolve a
// receipt ID into its line items, and aggregates those items into
// product-level spending.
package receipt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrLookup marks a failed line-item lookup. Lookups are best-effort:
// callers recover a failed receipt as "zero items" instead of propagating.
var ErrLookup = errors.New("receipt lookup failed")

// SaleItemType marks line items that are actual sales; other item types
// (deposits, refunds, rounding) never contribute to spending totals.
const SaleItemType = "Z"

// Item is one line of a receipt as returned by the registry.
type Item struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
	ItemType string  `json:"itemType"`
}

// UnmarshalJSON treats an absent quantity as a single unit. The registry
// omits the field for one-off items; an explicit zero stays zero.
func (it *Item) UnmarshalJSON(data []byte) error {
	type alias Item
	aux := struct {
		*alias
		Quantity *float64 `json:"quantity"`
	}{alias: (*alias)(it)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Quantity == nil {
		it.Quantity = 1
	} else {
		it.Quantity = *aux.Quantity
	}
	return nil
}

// LineItemFetcher resolves a receipt ID into its line items. The HTTP
// client below is the production implementation; tests substitute a
// deterministic fake.
type LineItemFetcher interface {
	FetchItems(ctx context.Context, receiptID string) ([]Item, error)
}

// Client fetches receipt line items over the registry's JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a Client against the given registry base URL. Every
// request is bounded by the given timeout so a slow registry cannot stall
// a whole advice request.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type findRequest struct {
	ReceiptID string `json:"receiptId"`
}

type findResponse struct {
	Receipt struct {
		Items []Item `json:"items"`
	} `json:"receipt"`
}

// FetchItems looks the receipt up in the registry. Transport, status, and
// parse failures all come back wrapped in ErrLookup.
func (c *Client) FetchItems(ctx context.Context, receiptID string) ([]Item, error) {
	body, err := json.Marshal(findRequest{ReceiptID: receiptID})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding request for %s: %v", ErrLookup, receiptID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/receipt/find", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: building request for %s: %v", ErrLookup, receiptID, err)
	}
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %v", ErrLookup, receiptID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetching %s: unexpected status %d", ErrLookup, receiptID, resp.StatusCode)
	}

	var out findResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrLookup, receiptID, err)
	}
	return out.Receipt.Items, nil
}
