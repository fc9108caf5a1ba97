package analysis

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/spendsight/backend/internal/model"
)

// ComparePeers enriches the biggest anomaly with the average spend of all
// other users in the same bucket and the percentage difference of the
// target user's spend from that average. The comparison level follows the
// anomaly level: per-user subcategory totals when the anomaly was flagged
// at subcategory level, per-user main-category totals otherwise.
func ComparePeers(anomaly model.AnomalyRecord, window []model.Transaction) model.BiggestAnomaly {
	out := model.BiggestAnomaly{AnomalyRecord: anomaly}

	atSubLevel := anomaly.Level == model.LevelSubcategory && anomaly.Key.HasSub()

	perUser := make(map[int64]decimal.Decimal)
	for _, tx := range window {
		if tx.UserID == anomaly.UserID {
			continue
		}
		key := DecomposeCategory(tx.RawCategory)
		if key.Primary != anomaly.Key.Primary {
			continue
		}
		if atSubLevel && key.Sub != anomaly.Key.Sub {
			continue
		}
		perUser[tx.UserID] = perUser[tx.UserID].Add(tx.TotalPrice)
	}

	userSpend := anomaly.MainSpent
	if atSubLevel {
		userSpend = anomaly.SubSpent
	}

	if len(perUser) > 0 {
		var sum decimal.Decimal
		for _, total := range perUser {
			sum = sum.Add(total)
		}
		avg := sum.Div(decimal.NewFromInt(int64(len(perUser))))
		out.AvgOtherSpend = &avg

		if !avg.IsZero() {
			diff := userSpend.Sub(avg).Div(avg).Mul(decimal.NewFromInt(100)).InexactFloat64()
			out.PercentDiff = &diff
		}
	}

	out.Message = renderMessage(anomaly, out.PercentDiff)
	return out
}

// renderMessage builds the user-facing advice line. When the percentage
// difference is undefined the message omits it rather than failing.
func renderMessage(anomaly model.AnomalyRecord, percentDiff *float64) string {
	name := anomaly.Key.Primary
	if anomaly.Level == model.LevelSubcategory {
		name = anomaly.Key.Sub
	}

	if percentDiff == nil {
		return fmt.Sprintf("Hi! In this month you spent more than other users in the %s category.", name)
	}
	return fmt.Sprintf("Hi! In this month you spent %.2f%% more than other users in the %s category.", *percentDiff, name)
}
