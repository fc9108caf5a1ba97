package receipt

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves canned items per receipt ID; unknown IDs fail.
type fakeFetcher struct {
	mu      sync.Mutex
	items   map[string][]Item
	calls   int
	maxSeen int
	inFly   int
}

func (f *fakeFetcher) FetchItems(_ context.Context, receiptID string) ([]Item, error) {
	f.mu.Lock()
	f.calls++
	f.inFly++
	if f.inFly > f.maxSeen {
		f.maxSeen = f.inFly
	}
	items, ok := f.items[receiptID]
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFly--
		f.mu.Unlock()
	}()

	if !ok {
		return nil, ErrLookup
	}
	return items, nil
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{items: map[string][]Item{
		"R1": {
			{Name: "Rolls", Price: 0.15, Quantity: 10, ItemType: "Z"},
			{Name: "Milk", Price: 1.20, Quantity: 2, ItemType: "Z"},
			{Name: "Bottle deposit", Price: 0.15, Quantity: 1, ItemType: "V"},
		},
		"R2": {
			{Name: "Rolls", Price: 0.15, Quantity: 20, ItemType: "Z"},
		},
	}}

	resolver := NewResolver(fetcher, 2, nil)

	products, err := resolver.Resolve(context.Background(), []string{"R1", "R2"})
	require.NoError(t, err)
	require.Len(t, products, 2, "non-sale items must not appear")

	// Rolls: 0.15*10 + 0.15*20 = 4.50, Milk: 2.40. Ranked descending.
	assert.Equal(t, "Rolls", products[0].ProductName)
	assert.True(t, decimal.NewFromFloat(4.5).Equal(products[0].TotalSpent))
	assert.Equal(t, 30.0, products[0].Quantity)

	assert.Equal(t, "Milk", products[1].ProductName)
	assert.True(t, decimal.NewFromFloat(2.4).Equal(products[1].TotalSpent))
}

func TestResolver_Resolve_FailedReceiptIsSkipped(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{items: map[string][]Item{
		"R1": {{Name: "Rolls", Price: 1, Quantity: 1, ItemType: "Z"}},
	}}

	resolver := NewResolver(fetcher, 2, nil)

	products, err := resolver.Resolve(context.Background(), []string{"R1", "R-missing"})
	require.NoError(t, err, "a single failed receipt must not fail the resolution")
	require.Len(t, products, 1)
	assert.Equal(t, "Rolls", products[0].ProductName)
}

func TestResolver_Resolve_TieBreaksByName(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{items: map[string][]Item{
		"R1": {
			{Name: "Banana", Price: 1, Quantity: 1, ItemType: "Z"},
			{Name: "Apple", Price: 1, Quantity: 1, ItemType: "Z"},
		},
	}}

	resolver := NewResolver(fetcher, 1, nil)

	products, err := resolver.Resolve(context.Background(), []string{"R1"})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Apple", products[0].ProductName)
	assert.Equal(t, "Banana", products[1].ProductName)
}

func TestResolver_Resolve_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeFetcher{items: map[string][]Item{}}
	resolver := NewResolver(fetcher, 1, nil)

	_, err := resolver.Resolve(ctx, []string{"R1", "R2"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolver_Resolve_BoundsConcurrency(t *testing.T) {
	t.Parallel()

	items := map[string][]Item{}
	ids := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		id := string(rune('A' + i))
		items[id] = []Item{{Name: "P" + id, Price: 1, Quantity: 1, ItemType: "Z"}}
		ids = append(ids, id)
	}

	fetcher := &fakeFetcher{items: items}
	resolver := NewResolver(fetcher, 3, nil)

	_, err := resolver.Resolve(context.Background(), ids)
	require.NoError(t, err)
	assert.Equal(t, 20, fetcher.calls)
	assert.LessOrEqual(t, fetcher.maxSeen, 3)
}

func TestResolver_SaleAmount(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{items: map[string][]Item{
		"R1": {
			{Name: "Rolls", Price: 0.50, Quantity: 4, ItemType: "Z"},
			{Name: "Deposit", Price: 0.15, Quantity: 1, ItemType: "V"},
		},
		"R2": {
			{Name: "Milk", Price: 1.25, Quantity: 2, ItemType: "Z"},
		},
	}}

	resolver := NewResolver(fetcher, 2, nil)

	sum, err := resolver.SaleAmount(context.Background(), []string{"R1", "R2"})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(4.5).Equal(sum), "got %s", sum)
}
