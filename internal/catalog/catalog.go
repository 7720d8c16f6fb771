package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// Catalog is a set of tables keyed by uppercase name. A Catalog is not
// modified after construction and may be shared between goroutines.
type Catalog struct {
	tables map[string]*Table
	names  []string
}

// New builds a Catalog from tables. Table names are uppercased; two tables
// whose names differ only in case are an error.
func New(tables ...Table) (*Catalog, error) {
	c := &Catalog{tables: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		t.Name = strings.ToUpper(t.Name)
		if _, dup := c.tables[t.Name]; dup {
			return nil, fmt.Errorf("duplicate table %s", t.Name)
		}
		c.tables[t.Name] = &t
		c.names = append(c.names, t.Name)
	}
	slices.Sort(c.names)
	return c, nil
}

// Lookup finds a table by name, ignoring case. A name ending in ".DB" also
// matches the table declared without the extension, so "cliente.db" and
// CLIENTE name the same table.
func (c *Catalog) Lookup(name string) (*Table, bool) {
	key := strings.ToUpper(name)
	if t, ok := c.tables[key]; ok {
		return t, true
	}
	if base, ok := strings.CutSuffix(key, ".DB"); ok {
		t, ok := c.tables[base]
		return t, ok
	}
	return nil, false
}

// Tables returns every table sorted by name.
func (c *Catalog) Tables() []*Table {
	out := make([]*Table, len(c.names))
	for i, name := range c.names {
		out[i] = c.tables[name]
	}
	return out
}

// Len is the number of tables.
func (c *Catalog) Len() int {
	return len(c.names)
}
