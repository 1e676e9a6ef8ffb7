package risk_test

import (
	"fmt"
	"testing"

	"github.com/accesslens/accesslens/internal/dataset"
	"github.com/accesslens/accesslens/internal/risk"
)

func TestLoginScore_brackets(t *testing.T) {
	cases := []struct {
		days int
		want int
	}{
		{0, 0},
		{15, 0},
		{30, 0}, // upper bound inclusive
		{31, 25},
		{90, 25},
		{91, 50},
		{180, 50},
		{181, 75},
		{365, 75},
		{366, 100},
		{4000, 100},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(fmt.Sprintf("days_%d", tc.days), func(t *testing.T) {
			if got := risk.LoginScore(tc.days); got != tc.want {
				t.Errorf("LoginScore(%d): got %d, want %d", tc.days, got, tc.want)
			}
		})
	}
}

func TestLoginScore_monotonic(t *testing.T) {
	prev := risk.LoginScore(0)
	for days := 1; days <= 800; days++ {
		got := risk.LoginScore(days)
		if got < prev {
			t.Fatalf("LoginScore decreased at days=%d: %d < %d", days, got, prev)
		}
		prev = got
	}
}

func TestAccessScore(t *testing.T) {
	cases := []struct {
		level string
		want  int
	}{
		{"Viewer", 10},
		{"Commenter", 20},
		{"Editor", 40},
		{"Owner", 60},
		{"", 20},        // missing level → default
		{"Unknown", 20}, // unrecognised level → default
		{"owner", 20},   // matching is case-sensitive by contract
		{"Superuser", 20},
	}

	for _, tc := range cases {
		tc := tc
		name := tc.level
		if name == "" {
			name = "empty"
		}
		t.Run(name, func(t *testing.T) {
			if got := risk.AccessScore(tc.level); got != tc.want {
				t.Errorf("AccessScore(%q): got %d, want %d", tc.level, got, tc.want)
			}
		})
	}
}

func TestRoleBonus(t *testing.T) {
	cases := []struct {
		role string
		want int
	}{
		{"Contractor", 20},
		{"senior CONTRACTOR", 20}, // case-insensitive substring
		{"Former Employee", 20},
		{"Summer Intern", 20},
		{"Temporary Admin", 20},
		{"Manager", 0},
		{"Engineer", 0},
		{"", 0},
	}

	for _, tc := range cases {
		tc := tc
		name := tc.role
		if name == "" {
			name = "empty"
		}
		t.Run(name, func(t *testing.T) {
			if got := risk.RoleBonus(tc.role); got != tc.want {
				t.Errorf("RoleBonus(%q): got %d, want %d", tc.role, got, tc.want)
			}
		})
	}
}

func TestCategorize_thresholds(t *testing.T) {
	cases := []struct {
		score int
		want  risk.Category
	}{
		{0, risk.CategoryLow},
		{30, risk.CategoryLow},
		{31, risk.CategoryMedium},
		{60, risk.CategoryMedium},
		{61, risk.CategoryHigh},
		{80, risk.CategoryHigh},
		{81, risk.CategoryCritical},
		{200, risk.CategoryCritical},
		{100000, risk.CategoryCritical}, // unbounded above
	}

	for _, tc := range cases {
		tc := tc
		t.Run(fmt.Sprintf("score_%d", tc.score), func(t *testing.T) {
			if got := risk.Categorize(tc.score); got != tc.want {
				t.Errorf("Categorize(%d): got %q, want %q", tc.score, got, tc.want)
			}
		})
	}
}

// Every score maps to exactly one of the four categories — no gaps.
func TestCategorize_total(t *testing.T) {
	valid := map[risk.Category]bool{
		risk.CategoryLow:      true,
		risk.CategoryMedium:   true,
		risk.CategoryHigh:     true,
		risk.CategoryCritical: true,
	}
	for score := 0; score <= 500; score++ {
		if !valid[risk.Categorize(score)] {
			t.Fatalf("Categorize(%d) returned unknown category %q", score, risk.Categorize(score))
		}
	}
}

func TestScoreRecord_scenarios(t *testing.T) {
	cases := []struct {
		name     string
		rec      dataset.Record
		want     int
		category risk.Category
	}{
		{
			name:     "active editor",
			rec:      dataset.Record{"LastLoginDays": "45", "AccessLevel": "Editor", "Role": "Engineer"},
			want:     65, // 25 + 40 + 0
			category: risk.CategoryHigh,
		},
		{
			name:     "dormant owner contractor",
			rec:      dataset.Record{"LastLoginDays": "400", "AccessLevel": "Owner", "Role": "Contractor"},
			want:     180, // 100 + 60 + 20
			category: risk.CategoryCritical,
		},
		{
			name:     "defaulted everything",
			rec:      dataset.Record{"AccessLevel": "Unknown", "Role": ""},
			want:     20, // 0 + 20 + 0
			category: risk.CategoryLow,
		},
		{
			name:     "malformed login days",
			rec:      dataset.Record{"LastLoginDays": "not-a-number", "AccessLevel": "Viewer", "Role": "Manager"},
			want:     10, // 0 + 10 + 0
			category: risk.CategoryLow,
		},
		{
			name:     "json numeric login days",
			rec:      dataset.Record{"LastLoginDays": float64(95), "AccessLevel": "Commenter"},
			want:     70, // 50 + 20 + 0
			category: risk.CategoryHigh,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := risk.ScoreRecord(tc.rec)
			if got != tc.want {
				t.Errorf("ScoreRecord: got %d, want %d", got, tc.want)
			}
			if cat := risk.Categorize(got); cat != tc.category {
				t.Errorf("Categorize(%d): got %q, want %q", got, cat, tc.category)
			}
		})
	}
}

func TestSignalsFrom_defaults(t *testing.T) {
	sig := risk.SignalsFrom(dataset.Record{"Name": "Ada"})
	if sig.LoginDays != 0 {
		t.Errorf("LoginDays: got %d, want 0", sig.LoginDays)
	}
	if sig.AccessLevel != "" {
		t.Errorf("AccessLevel: got %q, want empty", sig.AccessLevel)
	}
	if sig.Role != "" {
		t.Errorf("Role: got %q, want empty", sig.Role)
	}
}
