// Package risk scores directory export records for access review.
// Each record gets an additive score from three independent signals —
// login recency, access level, and role sensitivity — and a category
// label derived from the total. Scoring is a total function: malformed
// or missing input fields fall back to documented defaults and never
// produce an error.
package risk

import (
	"strings"

	"github.com/accesslens/accesslens/internal/dataset"
)

// Category classifies a record's total risk score.
type Category string

const (
	CategoryLow      Category = "Low"
	CategoryMedium   Category = "Medium"
	CategoryHigh     Category = "High"
	CategoryCritical Category = "Critical"
)

// Column names appended to annotated datasets.
const (
	ScoreColumn    = "RiskScore"
	CategoryColumn = "RiskCategory"
)

// accessScores maps canonical access levels to their score contribution.
// Matching is exact and case-sensitive; anything outside the table —
// including an empty or missing level — scores defaultAccessScore.
// Variant spellings ("owner", "OWNER") are intentionally not normalised.
var accessScores = map[string]int{
	"Viewer":    10,
	"Commenter": 20,
	"Editor":    40,
	"Owner":     60,
}

const defaultAccessScore = 20

// highRiskRoles are role substrings that mark an account as sensitive.
// Matched case-insensitively, so "Senior Contractor" triggers the bonus.
var highRiskRoles = []string{
	"Former Employee",
	"Contractor",
	"Intern",
	"Temporary",
}

const highRiskRoleBonus = 20

// Signals is the strict internal input the scorer operates on. The
// dataset boundary coerces raw record fields into this type, so every
// scoring function below is total over well-typed values.
type Signals struct {
	LoginDays   int
	AccessLevel string
	Role        string
}

// SignalsFrom extracts scoring signals from a raw record with the
// engine's defaulting rules: unparsable or absent LastLoginDays → 0,
// absent AccessLevel/Role → "".
func SignalsFrom(rec dataset.Record) Signals {
	return Signals{
		LoginDays:   rec.Int("LastLoginDays"),
		AccessLevel: rec.String("AccessLevel"),
		Role:        rec.String("Role"),
	}
}

// LoginScore scores days since last authentication. Brackets are
// inclusive on their upper bound: exactly 30 days scores 0, exactly 90
// scores 25.
func LoginScore(days int) int {
	switch {
	case days <= 30:
		return 0
	case days <= 90:
		return 25
	case days <= 180:
		return 50
	case days <= 365:
		return 75
	default:
		return 100
	}
}

// AccessScore scores the account's access level.
func AccessScore(level string) int {
	if s, ok := accessScores[level]; ok {
		return s
	}
	return defaultAccessScore
}

// RoleBonus returns the sensitive-role bonus when the role contains any
// high-risk substring, and 0 otherwise (including for an empty role).
func RoleBonus(role string) int {
	lower := strings.ToLower(role)
	for _, hr := range highRiskRoles {
		if strings.Contains(lower, strings.ToLower(hr)) {
			return highRiskRoleBonus
		}
	}
	return 0
}

// Score computes the total risk score for one record's signals.
func Score(sig Signals) int {
	return LoginScore(sig.LoginDays) + AccessScore(sig.AccessLevel) + RoleBonus(sig.Role)
}

// ScoreRecord scores a raw record end to end: coerce, then sum.
func ScoreRecord(rec dataset.Record) int {
	return Score(SignalsFrom(rec))
}

// Categorize maps a total score to its category. This is the single
// threshold table in the engine: per-record annotation and the summary
// buckets both go through it, so the two can never disagree.
func Categorize(score int) Category {
	switch {
	case score <= 30:
		return CategoryLow
	case score <= 60:
		return CategoryMedium
	case score <= 80:
		return CategoryHigh
	default:
		return CategoryCritical
	}
}
