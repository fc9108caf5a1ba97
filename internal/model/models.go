package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID               int64           `db:"id" json:"id"`
	Username         string          `db:"username" json:"username"`
	MonthlySpend     decimal.Decimal `db:"monthly_spend" json:"monthlySpend"`
	YearInvestments  decimal.Decimal `db:"year_investments" json:"yearInvestments"`
	MonthInvestments decimal.Decimal `db:"month_investments" json:"monthInvestments"`
}

// Transaction is a single receipt-level spending record from the merged
// spending dataset. Records are immutable once loaded.
type Transaction struct {
	UserID      int64           `json:"userId"`
	IssueDate   time.Time       `json:"issueDate"`
	RawCategory string          `json:"category"` // "primary/subcategory" as it appears in the dataset
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	ReceiptID   string          `json:"receiptId"`
	Quantity    float64         `json:"quantity,omitempty"`
	ProductName string          `json:"productName,omitempty"`
}

// UnknownCategory is the sentinel for missing or unparseable category parts.
// The literal "Unknown" is reserved: a dataset category with that exact name
// is indistinguishable from an absent one.
const UnknownCategory = "Unknown"

// CategoryKey identifies a spending bucket at subcategory granularity.
type CategoryKey struct {
	Primary string `json:"primaryCategory"`
	Sub     string `json:"subcategory"`
}

func (k CategoryKey) String() string {
	return k.Primary + "/" + k.Sub
}

// HasSub reports whether the key carries a real subcategory rather than the
// Unknown sentinel.
func (k CategoryKey) HasSub() bool {
	return k.Sub != UnknownCategory
}

type AnomalyLevel string

const (
	LevelSubcategory  AnomalyLevel = "subcategory"
	LevelMainCategory AnomalyLevel = "main_category"
)

// AnomalyRecord is the per-category outcome of an analysis run for one user.
// Pointer fields are nil when the corresponding statistic carries no signal
// (single-sample population or zero standard deviation).
type AnomalyRecord struct {
	UserID    int64           `json:"userId"`
	Key       CategoryKey     `json:"category"`
	SubSpent  decimal.Decimal `json:"totalSubcatSpent"`
	MainSpent decimal.Decimal `json:"totalMainSpent"`
	SubMean   *float64        `json:"meanSubcatSpent,omitempty"`
	SubStd    *float64        `json:"stdSubcatSpent,omitempty"`
	MainMean  *float64        `json:"meanMainSpent,omitempty"`
	MainStd   *float64        `json:"stdMainSpent,omitempty"`
	SubZ      *float64        `json:"subcatZScore,omitempty"`
	MainZ     *float64        `json:"mainZScore,omitempty"`
	FinalZ    float64         `json:"finalZScore"`
	Level     AnomalyLevel    `json:"anomalyLevel"`
	IsAnomaly bool            `json:"isAnomaly"`
}

// BiggestAnomaly is the single most extreme anomalous record for a user,
// enriched with the peer comparison and the rendered advice message.
type BiggestAnomaly struct {
	AnomalyRecord
	AvgOtherSpend *decimal.Decimal `json:"avgOtherUsersSpend,omitempty"`
	PercentDiff   *float64         `json:"percentDifference,omitempty"`
	Message       string           `json:"message"`
}

// ProductAggregate is spending rolled up by product name across the
// receipts of an anomalous category, ranked descending by TotalSpent.
type ProductAggregate struct {
	ProductName string          `json:"productName"`
	TotalSpent  decimal.Decimal `json:"totalSpent"`
	Quantity    float64         `json:"quantity"`
}

// ExpenseRow is one row of the per-user expense report. Main-category rows
// carry an empty Sub to distinguish them from subcategory rows.
type ExpenseRow struct {
	Primary string          `json:"primaryCategory"`
	Sub     string          `json:"subcategory"`
	Total   decimal.Decimal `json:"totalPrice"`
}
