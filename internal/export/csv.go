package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// NotAvailable fills cells whose value is missing, null or empty.
const NotAvailable = "N/A"

// Row is one heterogeneous record keyed by field name. Reference fields must
// already hold display values.
type Row map[string]any

type Column struct {
	Field  string
	Header string
}

// ToCSV renders a header line and one line per row. Fields are quoted per
// RFC 4180 so embedded commas, quotes and newlines survive.
func ToCSV(rows []Row, columns []Column) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = c.Header
		if header[i] == "" {
			header[i] = c.Field
		}
	}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(columns))
	for n, row := range rows {
		for i, c := range columns {
			record[i] = Cell(c.Field, row[c.Field])
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("write csv row %d: %w", n, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return buf.String(), nil
}

// Cell renders a single value. The "sow" field gets pair rendering; string
// lists are joined with "; ".
func Cell(field string, v any) string {
	if field == "sow" {
		return sowCell(v)
	}
	return plainCell(v)
}

func plainCell(v any) string {
	switch t := v.(type) {
	case nil:
		return NotAvailable
	case string:
		return orNA(t)
	case []string:
		return joinOrNA(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, it := range t {
			if s := plainCell(it); s != NotAvailable {
				parts = append(parts, s)
			}
		}
		return joinOrNA(parts)
	case map[string]string:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if t[k] != "" {
				parts = append(parts, k+": "+t[k])
			}
		}
		return joinOrNA(parts)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return orNA(t.String())
	default:
		return orNA(fmt.Sprint(t))
	}
}

// sowCell renders {sow, content} pairs as "sow: content" joined by "; ", a
// plain string verbatim and anything else as N/A.
func sowCell(v any) string {
	switch t := v.(type) {
	case string:
		return orNA(t)
	case map[string]any:
		if pair, ok := sowPair(t); ok {
			return pair
		}
	case []map[string]any:
		parts := make([]string, 0, len(t))
		for _, m := range t {
			if pair, ok := sowPair(m); ok {
				parts = append(parts, pair)
			}
		}
		return joinOrNA(parts)
	case []any:
		parts := make([]string, 0, len(t))
		for _, it := range t {
			if m, ok := it.(map[string]any); ok {
				if pair, ok := sowPair(m); ok {
					parts = append(parts, pair)
				}
			}
		}
		return joinOrNA(parts)
	}
	return NotAvailable
}

func sowPair(m map[string]any) (string, bool) {
	name, _ := m["sow"].(string)
	content, _ := m["content"].(string)
	if name == "" && content == "" {
		return "", false
	}
	return name + ": " + content, true
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}

func joinOrNA(parts []string) string {
	if len(parts) == 0 {
		return NotAvailable
	}
	return strings.Join(parts, "; ")
}
