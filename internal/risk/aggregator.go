package risk

import (
	"math"

	"github.com/accesslens/accesslens/internal/dataset"
)

// Summary is the population-level snapshot over a scored dataset.
// The four bucket counts always sum to TotalUsers, and HighRiskTotal is
// HighCount + CriticalCount. An empty dataset yields the zero Summary
// (AvgScore 0, never NaN).
type Summary struct {
	TotalUsers    int     `json:"total_users"`
	AvgScore      float64 `json:"avg_score"`
	LowCount      int     `json:"low_count"`
	MediumCount   int     `json:"medium_count"`
	HighCount     int     `json:"high_count"`
	CriticalCount int     `json:"critical_count"`
	HighRiskTotal int     `json:"high_risk_total"`
}

// Annotate returns a copy of the dataset with RiskScore and RiskCategory
// set on every record, each computed solely from that record's own
// fields. The input is not mutated, record order is preserved, and
// re-annotating an already-annotated dataset overwrites the two columns
// in place instead of accumulating duplicates.
func Annotate(ds dataset.Dataset) dataset.Dataset {
	out := ds.Clone()
	if !out.HasColumn(ScoreColumn) {
		out.Columns = append(out.Columns, ScoreColumn)
	}
	if !out.HasColumn(CategoryColumn) {
		out.Columns = append(out.Columns, CategoryColumn)
	}
	for _, rec := range out.Records {
		score := ScoreRecord(rec)
		rec[ScoreColumn] = score
		rec[CategoryColumn] = string(Categorize(score))
	}
	return out
}

// Summarize reduces a dataset to its Summary. Unannotated datasets are
// annotated first, so callers can hand either form straight in. Buckets
// are counted by running Categorize over the RiskScore column — the same
// thresholds that produced each record's RiskCategory.
func Summarize(ds dataset.Dataset) Summary {
	if !ds.HasColumn(ScoreColumn) {
		ds = Annotate(ds)
	}

	var s Summary
	s.TotalUsers = ds.Len()
	if s.TotalUsers == 0 {
		return s
	}

	total := 0
	for _, rec := range ds.Records {
		score := rec.Int(ScoreColumn)
		total += score
		switch Categorize(score) {
		case CategoryLow:
			s.LowCount++
		case CategoryMedium:
			s.MediumCount++
		case CategoryHigh:
			s.HighCount++
		case CategoryCritical:
			s.CriticalCount++
		}
	}

	s.AvgScore = math.Round(float64(total)/float64(s.TotalUsers)*10) / 10
	s.HighRiskTotal = s.HighCount + s.CriticalCount
	return s
}
