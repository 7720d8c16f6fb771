package catalog

import (
	"fmt"
	"strings"
)

// Catalog validation error codes (E100-E199).
const (
	ErrNoFields         = "E101" // table declares no fields
	ErrEmptyFieldName   = "E102" // field name is empty
	ErrDuplicateField   = "E103" // two fields share a name, ignoring case
	ErrInvalidFieldType = "E104" // field type outside FieldType
	ErrPrimaryFields    = "E105" // primary field count out of range
	ErrIndexSlot        = "E106" // index field slot outside the table
	ErrIndexPrimary     = "E107" // index primary count exceeds index fields
	ErrUnknownCharset   = "E108" // charset cannot be resolved
	ErrUnknownParent    = "E109" // index parent names no table
	ErrDuplicateIndex   = "E110" // two indexes share a name, ignoring case
)

// ValidationError is one violated catalog rule.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks every table of c and returns all problems found.
func Validate(c *Catalog) []ValidationError {
	var errs []ValidationError
	for _, t := range c.Tables() {
		errs = append(errs, validateTable(c, t)...)
	}
	return errs
}

func validateTable(c *Catalog, t *Table) []ValidationError {
	var errs []ValidationError
	add := func(field, code, format string, args ...any) {
		errs = append(errs, ValidationError{
			Field:   "table." + t.Name + "." + field,
			Message: fmt.Sprintf(format, args...),
			Code:    code,
		})
	}

	if len(t.Fields) == 0 {
		add("fields", ErrNoFields, "at least one field is required")
	}
	seen := make(map[string]bool, len(t.Fields))
	for i, f := range t.Fields {
		path := fmt.Sprintf("fields[%d]", i)
		if strings.TrimSpace(f.Name) == "" {
			add(path+".name", ErrEmptyFieldName, "field name is empty")
			continue
		}
		key := strings.ToUpper(f.Name)
		if seen[key] {
			add(path+".name", ErrDuplicateField, "duplicate field %q", f.Name)
		}
		seen[key] = true
		if !f.Type.Valid() {
			add(path+".type", ErrInvalidFieldType, "invalid field type %q", f.Type)
		}
	}

	if t.PrimaryFieldCount < 0 || t.PrimaryFieldCount > len(t.Fields) {
		add("primary_fields", ErrPrimaryFields, "primary field count %d outside 0..%d", t.PrimaryFieldCount, len(t.Fields))
	}
	if _, err := t.Encoding(); err != nil {
		add("charset", ErrUnknownCharset, "%v", err)
	}

	indexNames := make(map[string]bool, len(t.Indexes))
	for _, ix := range t.Indexes {
		path := "index." + ix.Name
		key := strings.ToUpper(ix.Name)
		if indexNames[key] {
			add(path, ErrDuplicateIndex, "duplicate index %q", ix.Name)
		}
		indexNames[key] = true

		for i, slot := range ix.Fields {
			if slot < 0 || slot >= len(t.Fields) {
				add(fmt.Sprintf("%s.fields[%d]", path, i), ErrIndexSlot, "field slot %d outside %d field(s)", slot, len(t.Fields))
			}
		}
		if ix.PrimaryFieldCount < 0 || ix.PrimaryFieldCount > len(ix.Fields) {
			add(path+".primary_fields", ErrIndexPrimary, "primary field count %d outside 0..%d", ix.PrimaryFieldCount, len(ix.Fields))
		}
		if ix.Charset != "" {
			if _, err := ix.Encoding(); err != nil {
				add(path+".charset", ErrUnknownCharset, "%v", err)
			}
		}
		if ix.Parent != "" {
			if _, ok := c.Lookup(ix.Parent); !ok {
				add(path+".parent", ErrUnknownParent, "parent table %q not in catalog", ix.Parent)
			}
		}
	}
	return errs
}
