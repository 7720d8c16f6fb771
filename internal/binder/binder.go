// Package binder resolves the names in a parsed SELECT against a catalog.
//
// Binding is case-insensitive throughout: table names, aliases, qualifiers
// and field names all compare with strings.EqualFold, while the Bound
// result keeps catalog spellings for tables and fields and source
// spellings for output names. Every problem is reported; binding does not
// stop at the first one.
package binder

import (
	"fmt"
	"strings"

	"github.com/fatwin/paradoxdriver/internal/ast"
	"github.com/fatwin/paradoxdriver/internal/catalog"
)

// Binding error codes (E400-E499).
const (
	ErrUnknownTable     = "E401" // table not in catalog
	ErrDuplicateSource  = "E402" // two sources share a reference name
	ErrUnknownQualifier = "E403" // qualifier names no source
	ErrUnknownField     = "E404" // field not in the qualified table
	ErrAmbiguousField   = "E405" // unqualified field in more than one table
	ErrUnresolvedField  = "E406" // unqualified field in no table
)

// Error is one binding problem. Field is the path of the offending
// projection item or source, e.g. "fields[1]" or "tables[0]".
type Error struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e Error) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Source is one FROM entry with its catalog table. Table is nil when the
// name did not resolve.
type Source struct {
	Ref   ast.TableReference
	Table *catalog.Table
}

// Name is the name qualifiers use for the source.
func (s Source) Name() string {
	return s.Ref.RefName()
}

// Column is one output column after wildcard expansion.
type Column struct {
	Source int // index into Bound.Sources
	Slot   int // index into the source table's Fields
	Field  catalog.Field
	Output string
}

// Bound is a SELECT with every name resolved.
type Bound struct {
	Statement *ast.SelectStatement
	Sources   []Source
	Columns   []Column
}

// Bind resolves stmt against cat. The Bound result is always returned, and
// is complete only when errs is empty.
func Bind(cat *catalog.Catalog, stmt *ast.SelectStatement) (*Bound, []Error) {
	b := &binder{cat: cat, bound: &Bound{Statement: stmt}}
	b.bindSources()
	for i, f := range stmt.Fields {
		b.bindField(i, f)
	}
	return b.bound, b.errs
}

type binder struct {
	cat   *catalog.Catalog
	bound *Bound
	errs  []Error
}

func (b *binder) errorf(code, field, format string, args ...any) {
	b.errs = append(b.errs, Error{Code: code, Field: field, Message: fmt.Sprintf(format, args...)})
}

func (b *binder) bindSources() {
	seen := make(map[string]int)
	for i, ref := range b.bound.Statement.Tables {
		path := fmt.Sprintf("tables[%d]", i)
		src := Source{Ref: ref}
		if t, ok := b.cat.Lookup(ref.Name); ok {
			src.Table = t
		} else {
			b.errorf(ErrUnknownTable, path, "table %s not found", ref.Name)
		}

		key := strings.ToUpper(src.Name())
		if prev, dup := seen[key]; dup {
			b.errorf(ErrDuplicateSource, path, "%s is already used by tables[%d]; add an alias", src.Name(), prev)
		} else {
			seen[key] = i
		}
		b.bound.Sources = append(b.bound.Sources, src)
	}
}

// matches reports whether qualifier names src. An aliased source answers
// only to its alias; otherwise the written name and the catalog name both
// match, so "cliente" qualifies a source written as "cliente.db".
func matches(src Source, qualifier string) bool {
	if src.Ref.Alias != "" {
		return strings.EqualFold(src.Ref.Alias, qualifier)
	}
	if strings.EqualFold(src.Ref.Name, qualifier) {
		return true
	}
	return src.Table != nil && strings.EqualFold(src.Table.Name, qualifier)
}

func (b *binder) bindField(i int, f ast.FieldReference) {
	path := fmt.Sprintf("fields[%d]", i)

	candidates := b.bound.Sources
	offset := 0
	if f.Qualifier != "" {
		idx := -1
		for j, src := range b.bound.Sources {
			if matches(src, f.Qualifier) {
				idx = j
				break
			}
		}
		if idx < 0 {
			b.errorf(ErrUnknownQualifier, path, "qualifier %s matches no table", f.Qualifier)
			return
		}
		candidates = b.bound.Sources[idx : idx+1]
		offset = idx
	}

	if f.IsWildcard() {
		for j, src := range candidates {
			if src.Table == nil {
				continue
			}
			for slot, field := range src.Table.Fields {
				b.bound.Columns = append(b.bound.Columns, Column{
					Source: offset + j, Slot: slot, Field: field, Output: field.Name,
				})
			}
		}
		return
	}

	var found []Column
	unresolved := false
	for j, src := range candidates {
		if src.Table == nil {
			unresolved = true
			continue
		}
		if slot, ok := src.Table.FieldIndex(f.Name); ok {
			found = append(found, Column{
				Source: offset + j, Slot: slot, Field: src.Table.Fields[slot], Output: f.OutputName(),
			})
		}
	}

	switch {
	case len(found) == 1:
		b.bound.Columns = append(b.bound.Columns, found[0])
	case len(found) > 1:
		names := make([]string, len(found))
		for k, c := range found {
			names[k] = b.bound.Sources[c.Source].Name()
		}
		b.errorf(ErrAmbiguousField, path, "field %s is in %s; qualify it", f.Name, strings.Join(names, " and "))
	case unresolved:
		// The table is already reported as unknown.
	case f.Qualifier != "":
		b.errorf(ErrUnknownField, path, "table %s has no field %s", candidates[0].Table.Name, f.Name)
	default:
		b.errorf(ErrUnresolvedField, path, "no table has field %s", f.Name)
	}
}
