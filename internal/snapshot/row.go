package snapshot

import (
	"bytes"
	"encoding/json"
)

// Cell is one column/value pair of a row.
type Cell struct {
	Column string
	Value  any
}

// Row is an ordered mapping from column name to value. Cells keep the
// order in which fields appeared in the upstream document.
type Row []Cell

// Get returns the value for column, if present.
func (r Row) Get(column string) (any, bool) {
	for _, c := range r {
		if c.Column == column {
			return c.Value, true
		}
	}
	return nil, false
}

// Columns returns the row's column names in source order.
func (r Row) Columns() []string {
	cols := make([]string, len(r))
	for i, c := range r {
		cols[i] = c.Column
	}
	return cols
}

// MarshalJSON writes the row as a JSON object with keys in source order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Column)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(c.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// clone returns a copy of rows whose slices no longer alias the input.
// Cell values are decoded JSON and are treated as immutable.
func clone(rows []Row) []Row {
	if rows == nil {
		return nil
	}
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = append(Row(nil), r...)
	}
	return out
}

// unionColumns returns every column name across rows in first-seen order.
func unionColumns(rows []Row) []string {
	seen := make(map[string]struct{})
	var cols []string
	for _, r := range rows {
		for _, c := range r {
			if _, ok := seen[c.Column]; ok {
				continue
			}
			seen[c.Column] = struct{}{}
			cols = append(cols, c.Column)
		}
	}
	return cols
}
