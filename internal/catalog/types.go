package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
)

// FieldType is the declared storage type of a field.
type FieldType string

const (
	TypeAlpha         FieldType = "alpha"
	TypeDate          FieldType = "date"
	TypeShort         FieldType = "short"
	TypeLong          FieldType = "long"
	TypeCurrency      FieldType = "currency"
	TypeNumber        FieldType = "number"
	TypeLogical       FieldType = "logical"
	TypeMemo          FieldType = "memo"
	TypeBlob          FieldType = "blob"
	TypeFormattedMemo FieldType = "formatted_memo"
	TypeOLE           FieldType = "ole"
	TypeGraphic       FieldType = "graphic"
	TypeTime          FieldType = "time"
	TypeTimestamp     FieldType = "timestamp"
	TypeAutoIncrement FieldType = "autoincrement"
	TypeBCD           FieldType = "bcd"
	TypeBytes         FieldType = "bytes"
)

var fieldTypes = map[FieldType]bool{
	TypeAlpha: true, TypeDate: true, TypeShort: true, TypeLong: true,
	TypeCurrency: true, TypeNumber: true, TypeLogical: true, TypeMemo: true,
	TypeBlob: true, TypeFormattedMemo: true, TypeOLE: true, TypeGraphic: true,
	TypeTime: true, TypeTimestamp: true, TypeAutoIncrement: true, TypeBCD: true,
	TypeBytes: true,
}

// Valid reports whether t is a known field type.
func (t FieldType) Valid() bool {
	return fieldTypes[t]
}

// Field describes one column.
type Field struct {
	Name string    `json:"name"`
	Type FieldType `json:"type"`
}

// Order is an index sort direction.
type Order string

const (
	Ascending  Order = "A"
	Descending Order = "D"
)

// Index describes a secondary or primary index over a table.
//
// Fields holds zero-based positions into the owning table's Fields, in sort
// key order. The leading PrimaryFieldCount entries form the index key.
type Index struct {
	Name                 string `json:"name"`
	Fields               []int  `json:"fields"`
	ReferentialIntegrity byte   `json:"referential_integrity"`
	PrimaryFieldCount    int    `json:"primary_fields"`
	Parent               string `json:"parent,omitempty"`
	SortOrderID          string `json:"sort_order,omitempty"`
	Charset              string `json:"charset,omitempty"`
}

// Order returns the sort direction selected by the referential-integrity
// code.
func (ix *Index) Order() Order {
	switch ix.ReferentialIntegrity {
	case 0x10, 0x11, 0x30:
		return Descending
	default:
		return Ascending
	}
}

// PrimaryKeys returns the fields of t forming the index key.
func (ix *Index) PrimaryKeys(t *Table) ([]Field, error) {
	if ix.PrimaryFieldCount > len(ix.Fields) {
		return nil, fmt.Errorf("index %s: %d primary fields but only %d index fields",
			ix.Name, ix.PrimaryFieldCount, len(ix.Fields))
	}
	keys := make([]Field, 0, ix.PrimaryFieldCount)
	for _, slot := range ix.Fields[:ix.PrimaryFieldCount] {
		if slot < 0 || slot >= len(t.Fields) {
			return nil, fmt.Errorf("index %s: field slot %d outside table %s", ix.Name, slot, t.Name)
		}
		keys = append(keys, t.Fields[slot])
	}
	return keys, nil
}

// Encoding resolves the index charset, falling back to DefaultCharset.
func (ix *Index) Encoding() (encoding.Encoding, error) {
	return Encoding(ix.Charset)
}

// Table describes one physical table. Name is uppercase.
type Table struct {
	Name              string  `json:"name"`
	Fields            []Field `json:"fields"`
	Indexes           []Index `json:"indexes,omitempty"`
	PrimaryFieldCount int     `json:"primary_fields"`
	Charset           string  `json:"charset,omitempty"`
}

// PrimaryKeys returns the leading PrimaryFieldCount fields.
func (t *Table) PrimaryKeys() []Field {
	n := min(max(t.PrimaryFieldCount, 0), len(t.Fields))
	return t.Fields[:n:n]
}

// FieldIndex returns the position of the field called name, compared
// case-insensitively.
func (t *Table) FieldIndex(name string) (int, bool) {
	for i, f := range t.Fields {
		if strings.EqualFold(f.Name, name) {
			return i, true
		}
	}
	return -1, false
}

// Field returns the field called name, compared case-insensitively.
func (t *Table) Field(name string) (Field, bool) {
	if i, ok := t.FieldIndex(name); ok {
		return t.Fields[i], true
	}
	return Field{}, false
}

// Index returns the index called name, compared case-insensitively.
func (t *Table) Index(name string) (*Index, bool) {
	for i := range t.Indexes {
		if strings.EqualFold(t.Indexes[i].Name, name) {
			return &t.Indexes[i], true
		}
	}
	return nil, false
}

// Encoding resolves the table charset, falling back to DefaultCharset.
func (t *Table) Encoding() (encoding.Encoding, error) {
	return Encoding(t.Charset)
}

// DecodeText decodes stored text in the table charset.
func (t *Table) DecodeText(raw []byte) (string, error) {
	enc, err := t.Encoding()
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode %s text: %w", t.Name, err)
	}
	return string(out), nil
}
