package catalog

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// CompileTable converts one CUE table declaration into a Table. The table
// name is the value's label, e.g. the value at path table.CLIENTE.
func CompileTable(v cue.Value) (*Table, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	t := &Table{}
	sels := v.Path().Selectors()
	if len(sels) > 0 {
		t.Name = sels[len(sels)-1].Unquoted()
	}

	fieldsVal := v.LookupPath(cue.ParsePath("fields"))
	if !fieldsVal.Exists() {
		return nil, &CompileError{Field: "fields", Message: "fields are required", Pos: v.Pos()}
	}
	iter, err := fieldsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		f, err := compileField(iter.Value())
		if err != nil {
			return nil, err
		}
		t.Fields = append(t.Fields, f)
	}

	if t.PrimaryFieldCount, err = optionalInt(v, "primary_fields"); err != nil {
		return nil, err
	}
	if t.Charset, err = optionalString(v, "charset"); err != nil {
		return nil, err
	}

	indexVal := v.LookupPath(cue.ParsePath("index"))
	if indexVal.Exists() {
		ixIter, err := indexVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for ixIter.Next() {
			ix, err := compileIndex(ixIter.Selector().Unquoted(), ixIter.Value())
			if err != nil {
				return nil, err
			}
			t.Indexes = append(t.Indexes, *ix)
		}
	}

	return t, nil
}

func compileField(v cue.Value) (Field, error) {
	name, err := requiredString(v, "name")
	if err != nil {
		return Field{}, err
	}
	typ, err := requiredString(v, "type")
	if err != nil {
		return Field{}, err
	}
	return Field{Name: name, Type: FieldType(typ)}, nil
}

func compileIndex(name string, v cue.Value) (*Index, error) {
	ix := &Index{Name: name}

	fieldsVal := v.LookupPath(cue.ParsePath("fields"))
	if !fieldsVal.Exists() {
		return nil, &CompileError{Field: "index.fields", Message: fmt.Sprintf("index %s: fields are required", name), Pos: v.Pos()}
	}
	iter, err := fieldsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		slot, err := iter.Value().Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		ix.Fields = append(ix.Fields, int(slot))
	}

	ri, err := optionalInt(v, "referential_integrity")
	if err != nil {
		return nil, err
	}
	if ri < 0 || ri > 0xFF {
		return nil, &CompileError{
			Field:   "index.referential_integrity",
			Message: fmt.Sprintf("index %s: referential integrity code %d does not fit in a byte", name, ri),
			Pos:     v.LookupPath(cue.ParsePath("referential_integrity")).Pos(),
		}
	}
	ix.ReferentialIntegrity = byte(ri)

	if ix.PrimaryFieldCount, err = optionalInt(v, "primary_fields"); err != nil {
		return nil, err
	}
	if ix.Parent, err = optionalString(v, "parent"); err != nil {
		return nil, err
	}
	if ix.SortOrderID, err = optionalString(v, "sort_order"); err != nil {
		return nil, err
	}
	if ix.Charset, err = optionalString(v, "charset"); err != nil {
		return nil, err
	}
	return ix, nil
}

func requiredString(v cue.Value, path string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(path))
	if !fv.Exists() {
		return "", &CompileError{Field: path, Message: path + " is required", Pos: v.Pos()}
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalString(v cue.Value, path string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(path))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalInt(v cue.Value, path string) (int, error) {
	fv := v.LookupPath(cue.ParsePath(path))
	if !fv.Exists() {
		return 0, nil
	}
	n, err := fv.Int64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return int(n), nil
}

// CompileError is a catalog declaration error with its CUE source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError converts the first CUE error that carries a position into
// a CompileError.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{Field: "cue", Message: first.Error(), Pos: positions[0]}
	}
	return err
}
