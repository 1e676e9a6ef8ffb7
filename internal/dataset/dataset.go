// Package dataset models the tabular identity exports the scoring engine
// operates on. Records carry arbitrary columns supplied by the upstream
// export; the package only interprets the handful of fields the scorer
// reads, and everything else passes through untouched.
package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Record is one row of an export. Values are whatever the boundary
// produced: strings from CSV, string/float64/bool from JSON.
type Record map[string]any

// Dataset is an ordered collection of records plus the column order the
// rows arrived in. Column order matters only for tabular output; unknown
// columns are preserved verbatim.
type Dataset struct {
	Columns []string `json:"columns"`
	Records []Record `json:"records"`
}

// Len returns the number of records.
func (d Dataset) Len() int { return len(d.Records) }

// HasColumn reports whether the dataset declares the given column.
func (d Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the dataset. Callers that annotate or
// otherwise rewrite records go through Clone first so the input dataset
// is never mutated.
func (d Dataset) Clone() Dataset {
	out := Dataset{
		Columns: append([]string(nil), d.Columns...),
		Records: make([]Record, len(d.Records)),
	}
	for i, rec := range d.Records {
		cp := make(Record, len(rec)+2)
		for k, v := range rec {
			cp[k] = v
		}
		out.Records[i] = cp
	}
	return out
}

// FromRecords builds a Dataset from bare records, deriving the column set
// from the union of keys. Key order within a map is not observable, so the
// derived columns are sorted for a stable output order.
func FromRecords(records []Record) Dataset {
	seen := make(map[string]struct{})
	var cols []string
	for _, rec := range records {
		for k := range rec {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	if records == nil {
		records = []Record{}
	}
	return Dataset{Columns: cols, Records: records}
}

// Int reads a field as an integer with the engine's defaulting rules:
// missing, nil, or unparsable values coerce to 0. Numeric strings are
// trimmed before parsing; fractional JSON numbers are truncated.
func (r Record) Int(key string) int {
	v, ok := r[key]
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return int(n)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		if i, err := strconv.Atoi(s); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f)
		}
		return 0
	default:
		return 0
	}
}

// String reads a field as a string. Missing and nil values coerce to "";
// non-string scalars are formatted rather than rejected.
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
