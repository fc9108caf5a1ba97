package analysis

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/spendsight/backend/internal/model"
)

// SubKey identifies one user's spending in one subcategory bucket.
type SubKey struct {
	UserID int64
	Key    model.CategoryKey
}

// MainKey identifies one user's spending in one main category.
type MainKey struct {
	UserID  int64
	Primary string
}

// SpendingTotals holds the two rollup levels produced from one analysis
// window. The main level is summed from the subcategory level, never from
// the raw transactions, so the two levels always agree.
type SpendingTotals struct {
	Sub  map[SubKey]decimal.Decimal
	Main map[MainKey]decimal.Decimal
}

// Aggregate decomposes each transaction's category and rolls amounts up
// into per-(user, primary, subcategory) and per-(user, primary) totals.
func Aggregate(txs []model.Transaction) *SpendingTotals {
	t := &SpendingTotals{
		Sub:  make(map[SubKey]decimal.Decimal),
		Main: make(map[MainKey]decimal.Decimal),
	}

	for _, tx := range txs {
		key := SubKey{UserID: tx.UserID, Key: DecomposeCategory(tx.RawCategory)}
		t.Sub[key] = t.Sub[key].Add(tx.TotalPrice)
	}

	for key, total := range t.Sub {
		mk := MainKey{UserID: key.UserID, Primary: key.Key.Primary}
		t.Main[mk] = t.Main[mk].Add(total)
	}

	return t
}

// UserSubKeys returns the user's subcategory keys in deterministic order
// (primary, then subcategory). Downstream tie-breaks rely on this order
// being stable across runs.
func (t *SpendingTotals) UserSubKeys(userID int64) []model.CategoryKey {
	var keys []model.CategoryKey
	for k := range t.Sub {
		if k.UserID == userID {
			keys = append(keys, k.Key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Primary != keys[j].Primary {
			return keys[i].Primary < keys[j].Primary
		}
		return keys[i].Sub < keys[j].Sub
	})
	return keys
}

// ExpenseReport builds the per-user expense rows: one row per main category
// with a blank subcategory, followed by one row per subcategory, sorted by
// primary then subcategory.
func ExpenseReport(txs []model.Transaction, userID int64) []model.ExpenseRow {
	mains := make(map[string]decimal.Decimal)
	subs := make(map[model.CategoryKey]decimal.Decimal)

	for _, tx := range txs {
		if tx.UserID != userID {
			continue
		}
		key := DecomposeCategory(tx.RawCategory)
		mains[key.Primary] = mains[key.Primary].Add(tx.TotalPrice)
		subs[key] = subs[key].Add(tx.TotalPrice)
	}

	rows := make([]model.ExpenseRow, 0, len(mains)+len(subs))
	for primary, total := range mains {
		rows = append(rows, model.ExpenseRow{Primary: primary, Total: total})
	}
	for key, total := range subs {
		rows = append(rows, model.ExpenseRow{Primary: key.Primary, Sub: key.Sub, Total: total})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Primary != rows[j].Primary {
			return rows[i].Primary < rows[j].Primary
		}
		return rows[i].Sub < rows[j].Sub
	})
	return rows
}
