package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// ReadCSV decodes a CSV export into a Dataset. The first row is the
// header. Short rows are padded with empty strings; the engine's scoring
// defaults take over from there. An empty input (no header) yields an
// empty dataset rather than an error.
func ReadCSV(r io.Reader) (Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return Dataset{Columns: []string{}, Records: []Record{}}, nil
	}
	if err != nil {
		return Dataset{}, fmt.Errorf("read csv header: %w", err)
	}

	ds := Dataset{Columns: header, Records: []Record{}}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Dataset{}, fmt.Errorf("read csv row: %w", err)
		}
		rec := make(Record, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds, nil
}

// WriteCSV encodes the dataset back to CSV in declared column order.
// Fields absent from a record are written as empty strings.
func WriteCSV(w io.Writer, ds Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	row := make([]string, len(ds.Columns))
	for _, rec := range ds.Records {
		for i, col := range ds.Columns {
			row[i] = cellString(rec[col])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// cellString formats a record value for tabular output without the
// float noise fmt.Sprint would add for whole numbers.
func cellString(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(n)
	default:
		return fmt.Sprint(n)
	}
}
