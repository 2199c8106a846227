// Package query provides SQL query building utilities with projection mapping.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps view property names to qualified column references
// (alias.column). It defines the table, alias, joins, and column mappings
// used for SQL query construction.
type ProjectionMap struct {
	schema     string
	table      string
	alias      string
	joins      []string
	joinAlias  string
	columns    map[string]string
	columnList []string
}

// NewProjectionMap creates a ProjectionMap for the given schema, table, and alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:     schema,
		table:      table,
		alias:      alias,
		columns:    make(map[string]string),
		columnList: make([]string, 0),
	}
}

// Project adds a column mapping from database column to view property name.
// Columns added after a Join call are qualified with the joined table's alias.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	alias := p.alias
	if p.joinAlias != "" {
		alias = p.joinAlias
	}

	qualified := fmt.Sprintf("%s.%s", alias, column)
	p.columns[viewName] = qualified
	p.columnList = append(p.columnList, qualified)
	return p
}

// Join adds a join clause; subsequent Project calls map columns from the
// joined table.
func (p *ProjectionMap) Join(schema, table, alias, joinType, on string) *ProjectionMap {
	p.joins = append(
		p.joins,
		fmt.Sprintf("%s %s.%s %s ON %s", joinType, schema, table, alias, on),
	)
	p.joinAlias = alias
	return p
}

// Column returns the qualified column reference for a view property name.
// Panics on unmapped names to surface programming errors early; use Lookup
// for names that originate outside the codebase.
func (p *ProjectionMap) Column(viewName string) string {
	col, ok := p.Lookup(viewName)
	if !ok {
		panic(fmt.Sprintf("query: no projection for field %q", viewName))
	}
	return col
}

// Lookup returns the qualified column reference for a view property name
// and whether the name is mapped.
func (p *ProjectionMap) Lookup(viewName string) (string, bool) {
	col, ok := p.columns[viewName]
	return col, ok
}

// Columns returns the comma-separated projection list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columnList, ", ")
}

// From returns the FROM clause body: qualified table with alias plus joins.
func (p *ProjectionMap) From() string {
	from := fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
	if len(p.joins) > 0 {
		from += " " + strings.Join(p.joins, " ")
	}
	return from
}
