// Package query builds parameterized PostgreSQL SELECT statements from a
// projection of view names onto table columns.
package query

import "strings"

// ProjectionMap maps view names (the names callers filter and sort by) to
// alias-qualified columns of one table.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	columns map[string]string
	ordered []string
}

// NewProjectionMap creates an empty projection over schema.table AS alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project maps viewName to column. Columns are selected in Project order.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.columns[viewName] = qualified
	p.ordered = append(p.ordered, qualified)
	return p
}

// Alias returns the table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Table returns schema.table, for INSERT, UPDATE, and DELETE statements.
func (p *ProjectionMap) Table() string {
	return p.schema + "." + p.table
}

// From returns "schema.table alias" for SELECT statements.
func (p *ProjectionMap) From() string {
	return p.Table() + " " + p.alias
}

// Lookup returns the qualified column for viewName and whether it is mapped.
func (p *ProjectionMap) Lookup(viewName string) (string, bool) {
	col, ok := p.columns[viewName]
	return col, ok
}

// Column returns the qualified column for viewName, or viewName itself
// when unmapped. Only code-supplied names should reach Column.
func (p *ProjectionMap) Column(viewName string) string {
	if col, ok := p.columns[viewName]; ok {
		return col
	}
	return viewName
}

// Columns returns every projected column, comma separated.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.ordered, ", ")
}

// ColumnList returns every projected column.
func (p *ProjectionMap) ColumnList() []string {
	return p.ordered
}
