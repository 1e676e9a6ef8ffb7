package dataset_test

import (
	"testing"

	"github.com/accesslens/accesslens/internal/dataset"
)

func TestRecordInt(t *testing.T) {
	rec := dataset.Record{
		"int":      42,
		"int64":    int64(7),
		"float":    float64(95.9),
		"numeric":  "45",
		"spaced":   "  30  ",
		"floatstr": "12.8",
		"garbage":  "not-a-number",
		"empty":    "",
		"nil":      nil,
		"bool":     true,
	}

	cases := []struct {
		key  string
		want int
	}{
		{"int", 42},
		{"int64", 7},
		{"float", 95}, // truncated
		{"numeric", 45},
		{"spaced", 30},
		{"floatstr", 12},
		{"garbage", 0},
		{"empty", 0},
		{"nil", 0},
		{"bool", 0},
		{"missing", 0},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.key, func(t *testing.T) {
			if got := rec.Int(tc.key); got != tc.want {
				t.Errorf("Int(%q): got %d, want %d", tc.key, got, tc.want)
			}
		})
	}
}

func TestRecordString(t *testing.T) {
	rec := dataset.Record{
		"str": "Owner",
		"num": float64(3),
		"nil": nil,
	}

	if got := rec.String("str"); got != "Owner" {
		t.Errorf("String(str): got %q", got)
	}
	if got := rec.String("num"); got != "3" {
		t.Errorf("String(num): got %q, want \"3\"", got)
	}
	if got := rec.String("nil"); got != "" {
		t.Errorf("String(nil): got %q, want empty", got)
	}
	if got := rec.String("missing"); got != "" {
		t.Errorf("String(missing): got %q, want empty", got)
	}
}

func TestFromRecords(t *testing.T) {
	ds := dataset.FromRecords([]dataset.Record{
		{"b": "1", "a": "2"},
		{"c": "3", "a": "4"},
	})

	if len(ds.Records) != 2 {
		t.Fatalf("records: got %d, want 2", len(ds.Records))
	}
	want := []string{"a", "b", "c"}
	if len(ds.Columns) != len(want) {
		t.Fatalf("columns: got %v, want %v", ds.Columns, want)
	}
	for i, col := range want {
		if ds.Columns[i] != col {
			t.Errorf("column %d: got %q, want %q", i, ds.Columns[i], col)
		}
	}
}

func TestFromRecords_nil(t *testing.T) {
	ds := dataset.FromRecords(nil)
	if ds.Records == nil || len(ds.Records) != 0 {
		t.Errorf("nil input should yield empty (non-nil) records, got %#v", ds.Records)
	}
}

func TestClone_isolation(t *testing.T) {
	orig := dataset.Dataset{
		Columns: []string{"Name"},
		Records: []dataset.Record{{"Name": "Ada"}},
	}

	cp := orig.Clone()
	cp.Columns = append(cp.Columns, "Extra")
	cp.Records[0]["Name"] = "Changed"
	cp.Records[0]["Extra"] = "x"

	if len(orig.Columns) != 1 {
		t.Errorf("clone mutated original columns: %v", orig.Columns)
	}
	if orig.Records[0].String("Name") != "Ada" {
		t.Errorf("clone mutated original record: %v", orig.Records[0])
	}
	if _, ok := orig.Records[0]["Extra"]; ok {
		t.Error("clone shares record maps with original")
	}
}

func TestHasColumn(t *testing.T) {
	ds := dataset.Dataset{Columns: []string{"Name", "Role"}}
	if !ds.HasColumn("Role") {
		t.Error("HasColumn(Role) = false")
	}
	if ds.HasColumn("RiskScore") {
		t.Error("HasColumn(RiskScore) = true for unannotated dataset")
	}
}
