package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// StockService answers "how much has this stock grown since the start of
// the calendar year", backed by an Alpha Vantage-style daily time series
// API. Symbols are independent, so multi-symbol requests fan out
// concurrently; a failed symbol is skipped, not fatal.
type StockService struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	concurrency int
	logger      *slog.Logger
}

func NewStockService(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *StockService {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StockService{
		baseURL:     baseURL,
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: timeout},
		concurrency: 5,
		logger:      logger,
	}
}

type dailySeriesResponse struct {
	Series map[string]struct {
		Close string `json:"4. close"`
	} `json:"Time Series (Daily)"`
}

// GrowthSinceYearStart returns the percent growth of the symbol between
// its first trading day of the given year and its latest close.
func (s *StockService) GrowthSinceYearStart(ctx context.Context, symbol string, year int) (float64, error) {
	q := url.Values{}
	q.Set("function", "TIME_SERIES_DAILY")
	q.Set("symbol", symbol)
	q.Set("outputsize", "full")
	q.Set("apikey", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/query?"+q.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("building request for %s: %w", symbol, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetching daily series for %s: %w", symbol, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetching daily series for %s: unexpected status %d", symbol, resp.StatusCode)
	}

	var series dailySeriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&series); err != nil {
		return 0, fmt.Errorf("decoding daily series for %s: %w", symbol, err)
	}
	if len(series.Series) == 0 {
		return 0, fmt.Errorf("no daily series data for %s", symbol)
	}

	dates := make([]string, 0, len(series.Series))
	for d := range series.Series {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	yearPrefix := strconv.Itoa(year) + "-"
	var startDate string
	for _, d := range dates {
		if len(d) > len(yearPrefix) && d[:len(yearPrefix)] == yearPrefix {
			startDate = d
			break
		}
	}
	if startDate == "" {
		return 0, fmt.Errorf("no trading data in %d for %s", year, symbol)
	}

	startPrice, err := strconv.ParseFloat(series.Series[startDate].Close, 64)
	if err != nil || startPrice == 0 {
		return 0, fmt.Errorf("invalid start price for %s on %s", symbol, startDate)
	}
	endPrice, err := strconv.ParseFloat(series.Series[dates[len(dates)-1]].Close, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid latest price for %s", symbol)
	}

	return (endPrice - startPrice) / startPrice * 100, nil
}

// Growth fetches year-to-date growth for several symbols concurrently.
// Symbols that fail are logged and left out of the result.
func (s *StockService) Growth(ctx context.Context, symbols []string, year int) (map[string]float64, error) {
	var mu sync.Mutex
	out := make(map[string]float64, len(symbols))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, symbol := range symbols {
		g.Go(func() error {
			growth, err := s.GrowthSinceYearStart(ctx, symbol, year)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.logger.Warn("stock growth fetch failed, skipping symbol",
					slog.String("symbol", symbol),
					slog.String("error", err.Error()),
				)
				return nil
			}
			mu.Lock()
			out[symbol] = growth
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
