package analysis

import (
	"math"

	"github.com/spendsight/backend/internal/model"
)

// AnomalyThreshold is the final z-score above which a category counts as an
// over-spending anomaly. The comparison is strict and one-sided: unusually
// low spending is never flagged.
const AnomalyThreshold = 0.7

// selectFinal picks the z-score that represents a category: the
// subcategory score when it exists and is at least as extreme as the main
// score, otherwise the main score. A category with no main-level signal
// cannot be flagged at all, even when the subcategory score is defined; ok
// is false and the category is excluded from anomaly consideration.
func selectFinal(subZ, mainZ *float64) (finalZ float64, level model.AnomalyLevel, ok bool) {
	if mainZ == nil {
		return 0, model.LevelMainCategory, false
	}
	if subZ != nil && math.Abs(*subZ) >= math.Abs(*mainZ) {
		return *subZ, model.LevelSubcategory, true
	}
	return *mainZ, model.LevelMainCategory, true
}

// BuildUserRecords derives one AnomalyRecord per subcategory bucket the
// user has spending in, against the population statistics of the whole
// window. Records come back in the stable (primary, subcategory) order that
// UserSubKeys guarantees.
func BuildUserRecords(
	userID int64,
	totals *SpendingTotals,
	subStats map[model.CategoryKey]Population,
	mainStats map[string]Population,
) []model.AnomalyRecord {
	keys := totals.UserSubKeys(userID)
	records := make([]model.AnomalyRecord, 0, len(keys))

	for _, key := range keys {
		subSpent := totals.Sub[SubKey{UserID: userID, Key: key}]
		mainSpent := totals.Main[MainKey{UserID: userID, Primary: key.Primary}]

		rec := model.AnomalyRecord{
			UserID:    userID,
			Key:       key,
			SubSpent:  subSpent,
			MainSpent: mainSpent,
		}

		var subZ *float64
		if sp, ok := subStats[key]; ok {
			rec.SubMean = f64ptr(sp.Mean)
			rec.SubStd = sp.Std
			subZ = sp.ZScore(subSpent.InexactFloat64())
			rec.SubZ = subZ
		}

		var mainZ *float64
		if mp, ok := mainStats[key.Primary]; ok {
			rec.MainMean = f64ptr(mp.Mean)
			rec.MainStd = mp.Std
			mainZ = mp.ZScore(mainSpent.InexactFloat64())
			rec.MainZ = mainZ
		}

		finalZ, level, ok := selectFinal(subZ, mainZ)
		if !ok {
			// No statistical signal at either level: the category stays in
			// the result set but can never be flagged.
			rec.Level = model.LevelMainCategory
			records = append(records, rec)
			continue
		}

		rec.FinalZ = finalZ
		rec.Level = level
		rec.IsAnomaly = finalZ > AnomalyThreshold
		records = append(records, rec)
	}

	return records
}

// BiggestAnomaly returns the anomalous record with the largest absolute
// final z-score, or nil when nothing is flagged. Ties keep the
// first-encountered record.
func BiggestAnomaly(records []model.AnomalyRecord) *model.AnomalyRecord {
	var biggest *model.AnomalyRecord
	for i := range records {
		rec := &records[i]
		if !rec.IsAnomaly {
			continue
		}
		if biggest == nil || math.Abs(rec.FinalZ) > math.Abs(biggest.FinalZ) {
			biggest = rec
		}
	}
	if biggest == nil {
		return nil
	}
	out := *biggest
	return &out
}

func f64ptr(v float64) *float64 {
	return &v
}
