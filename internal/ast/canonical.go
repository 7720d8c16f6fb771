package ast

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// ToMap converts a statement to a generic tree of map[string]any, []any,
// string, int and bool values. Absent optional parts are omitted, and so are
// source offsets: the map describes structure, not position. The result is
// the input of MarshalCanonical and of any other generic encoder.
func ToMap(stmt Statement) (map[string]any, error) {
	switch s := stmt.(type) {
	case *SelectStatement:
		return selectToMap(s)
	case nil:
		return nil, fmt.Errorf("nil statement")
	default:
		return nil, fmt.Errorf("unsupported statement type: %T", stmt)
	}
}

// ToList converts every statement with ToMap.
func ToList(stmts []Statement) ([]any, error) {
	out := make([]any, len(stmts))
	for i, stmt := range stmts {
		m, err := ToMap(stmt)
		if err != nil {
			return nil, fmt.Errorf("statement[%d]: %w", i, err)
		}
		out[i] = m
	}
	return out, nil
}

func selectToMap(s *SelectStatement) (map[string]any, error) {
	fields := make([]any, len(s.Fields))
	for i, f := range s.Fields {
		m := map[string]any{"name": f.Name}
		if f.Qualifier != "" {
			m["qualifier"] = f.Qualifier
		}
		if f.Alias != "" {
			m["alias"] = f.Alias
		}
		fields[i] = m
	}

	tables := make([]any, len(s.Tables))
	for i, t := range s.Tables {
		m := map[string]any{"name": t.Name}
		if t.Alias != "" {
			m["alias"] = t.Alias
		}
		tables[i] = m
	}

	joins := make([]any, len(s.Joins))
	for i, j := range s.Joins {
		typ, err := j.Type.MarshalText()
		if err != nil {
			return nil, fmt.Errorf("joins[%d]: %w", i, err)
		}
		m := map[string]any{
			"left":  j.Left,
			"right": j.Right,
			"type":  string(typ),
		}
		if j.On != nil {
			m["on"] = predicateToMap(j.On)
		}
		joins[i] = m
	}

	out := map[string]any{
		"kind":   "select",
		"fields": fields,
		"tables": tables,
		"joins":  joins,
	}
	if s.Where != nil {
		out["where"] = predicateToMap(s.Where)
	}
	if s.GroupBy != nil {
		out["group_by"] = predicateToMap(s.GroupBy)
	}
	if s.OrderBy != nil {
		out["order_by"] = predicateToMap(s.OrderBy)
	}
	return out, nil
}

func predicateToMap(p *Predicate) map[string]any {
	return map[string]any{"text": p.Text}
}

// MarshalCanonical produces RFC 8785 style canonical JSON for a statement
// list: object keys sorted by UTF-16 code units, no insignificant
// whitespace, no HTML escaping, and strings NFC normalized at this boundary.
// The statements themselves are never normalized.
func MarshalCanonical(stmts []Statement) ([]byte, error) {
	list, err := ToList(stmts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := writeCanonical(&buf, list); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case string:
		writeCanonicalString(buf, val)
	case int:
		buf.WriteString(strconv.Itoa(val))
	case bool:
		buf.WriteString(strconv.FormatBool(val))
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.SortFunc(keys, compareUTF16)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanonicalString(buf, k)
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k]); err != nil {
				return fmt.Errorf("[%q]: %w", k, err)
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
	return nil
}

// writeCanonicalString escapes only '"', '\\' and control characters.
func writeCanonicalString(buf *bytes.Buffer, s string) {
	const hex = "0123456789abcdef"
	buf.WriteByte('"')
	for _, r := range norm.NFC.String(s) {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				buf.WriteString(`\u00`)
				buf.WriteByte(hex[r>>4])
				buf.WriteByte(hex[r&0xf])
				continue
			}
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
}

// compareUTF16 orders strings by UTF-16 code units as RFC 8785 requires.
// Go's native string comparison is by UTF-8 bytes, which differs for
// characters outside the BMP.
func compareUTF16(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}
