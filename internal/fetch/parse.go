package fetch

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/rileyhilliard/pollboard/internal/snapshot"
)

// decoder keeps numbers as json.Number so large IDs survive untouched.
var decoder = jsoniter.Config{UseNumber: true}.Froze()

// ParseRows extracts rows from a JSON document.
//
// A top-level array must hold objects. A top-level object is searched for
// its row array: along rowsPath when set, otherwise the first field whose
// value is a non-empty array of objects (falling back to the first empty
// array). Object fields keep their document order.
func ParseRows(data []byte, rowsPath string) ([]snapshot.Row, error) {
	if !wellFormed(data) {
		return nil, fmt.Errorf("malformed JSON")
	}

	if rowsPath != "" {
		raw, err := lookup(data, strings.Split(rowsPath, "."))
		if err != nil {
			return nil, err
		}
		return parseRowArray(raw)
	}

	iter := jsoniter.ParseBytes(decoder, data)
	switch next := iter.WhatIsNext(); next {
	case jsoniter.ArrayValue:
		return parseRowArray(data)
	case jsoniter.ObjectValue:
		raw, err := findRowArray(iter)
		if err != nil {
			return nil, err
		}
		return parseRowArray(raw)
	default:
		return nil, fmt.Errorf("expected an array or object, got %s", typeName(next))
	}
}

// wellFormed reports whether data holds exactly one JSON value with
// nothing but whitespace after it.
func wellFormed(data []byte) bool {
	iter := jsoniter.ParseBytes(decoder, data)
	value := iter.SkipAndReturnBytes()
	if iter.Error != nil && iter.Error != io.EOF {
		return false
	}
	value = bytes.TrimLeft(value, jsonSpace)
	if len(value) == 0 {
		return false
	}
	rest := bytes.TrimLeft(data, jsonSpace)[len(value):]
	return len(bytes.Trim(rest, jsonSpace)) == 0
}

const jsonSpace = " \t\r\n"

// lookup follows path through nested objects and returns the raw value at the end.
func lookup(data []byte, path []string) ([]byte, error) {
	cur := data
	for i, key := range path {
		iter := jsoniter.ParseBytes(decoder, cur)
		if next := iter.WhatIsNext(); next != jsoniter.ObjectValue {
			where := "document"
			if i > 0 {
				where = strings.Join(path[:i], ".")
			}
			return nil, fmt.Errorf("rows path %q: %s is %s, not an object", strings.Join(path, "."), where, typeName(next))
		}

		var found []byte
		iter.ReadObjectCB(func(it *jsoniter.Iterator, field string) bool {
			if field == key && found == nil {
				found = it.SkipAndReturnBytes()
			} else {
				it.Skip()
			}
			return it.Error == nil
		})
		if iter.Error != nil {
			return nil, iter.Error
		}
		if found == nil {
			return nil, fmt.Errorf("rows path %q: field %q not found", strings.Join(path, "."), strings.Join(path[:i+1], "."))
		}
		cur = found
	}
	return cur, nil
}

// findRowArray scans the fields of the object under iter for the row array.
func findRowArray(iter *jsoniter.Iterator) ([]byte, error) {
	var rows, empty []byte
	iter.ReadObjectCB(func(it *jsoniter.Iterator, field string) bool {
		if rows != nil || it.WhatIsNext() != jsoniter.ArrayValue {
			it.Skip()
			return it.Error == nil
		}
		raw := it.SkipAndReturnBytes()
		switch firstElement(raw) {
		case jsoniter.ObjectValue:
			rows = raw
		case jsoniter.InvalidValue:
			if empty == nil {
				empty = raw
			}
		}
		return it.Error == nil
	})
	if iter.Error != nil {
		return nil, iter.Error
	}
	if rows != nil {
		return rows, nil
	}
	if empty != nil {
		return empty, nil
	}
	return nil, fmt.Errorf("object has no array of rows")
}

// firstElement reports the type of an array's first element, or
// InvalidValue when the array is empty.
func firstElement(raw []byte) jsoniter.ValueType {
	iter := jsoniter.ParseBytes(decoder, raw)
	first := jsoniter.InvalidValue
	iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
		first = it.WhatIsNext()
		return false
	})
	return first
}

func parseRowArray(raw []byte) ([]snapshot.Row, error) {
	iter := jsoniter.ParseBytes(decoder, raw)
	if next := iter.WhatIsNext(); next != jsoniter.ArrayValue {
		return nil, fmt.Errorf("expected an array of rows, got %s", typeName(next))
	}

	rows := []snapshot.Row{}
	var elemErr error
	iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
		if next := it.WhatIsNext(); next != jsoniter.ObjectValue {
			elemErr = fmt.Errorf("row %d is %s, not an object", len(rows), typeName(next))
			return false
		}
		rows = append(rows, readRow(it))
		return it.Error == nil
	})
	if elemErr != nil {
		return nil, elemErr
	}
	if iter.Error != nil {
		return nil, iter.Error
	}
	return rows, nil
}

// readRow reads one object. A repeated key keeps its first position and
// its last value.
func readRow(iter *jsoniter.Iterator) snapshot.Row {
	row := snapshot.Row{}
	iter.ReadObjectCB(func(it *jsoniter.Iterator, field string) bool {
		value := it.Read()
		for i := range row {
			if row[i].Column == field {
				row[i].Value = value
				return it.Error == nil
			}
		}
		row = append(row, snapshot.Cell{Column: field, Value: value})
		return it.Error == nil
	})
	return row
}

func typeName(t jsoniter.ValueType) string {
	switch t {
	case jsoniter.StringValue:
		return "a string"
	case jsoniter.NumberValue:
		return "a number"
	case jsoniter.NilValue:
		return "null"
	case jsoniter.BoolValue:
		return "a boolean"
	case jsoniter.ArrayValue:
		return "an array"
	case jsoniter.ObjectValue:
		return "an object"
	default:
		return "empty"
	}
}
