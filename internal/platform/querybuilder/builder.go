// Package querybuilder renders the small set of PostgreSQL statements the
// repositories need, with numbered placeholders.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// argList collects bind values and hands out their $n placeholders.
type argList struct {
	values []any
}

func (a *argList) bind(buf *strings.Builder, value any) {
	a.values = append(a.values, value)
	buf.WriteString("$")
	buf.WriteString(strconv.Itoa(len(a.values)))
}

type Condition interface {
	render(buf *strings.Builder, args *argList)
}

type eqCondition struct {
	column string
	value  any
}

func Eq(column string, value any) Condition {
	return eqCondition{column: column, value: value}
}

func (c eqCondition) render(buf *strings.Builder, args *argList) {
	buf.WriteString(c.column)
	buf.WriteString(" = ")
	args.bind(buf, c.value)
}

type whereClause []Condition

func (w whereClause) render(buf *strings.Builder, args *argList) {
	for i, c := range w {
		if i == 0 {
			buf.WriteString(" WHERE ")
		} else {
			buf.WriteString(" AND ")
		}
		c.render(buf, args)
	}
}

type SelectBuilder struct {
	columns []string
	table   string
	where   whereClause
	orderBy []string
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	var buf strings.Builder
	var args argList
	fmt.Fprintf(&buf, "SELECT %s FROM %s", strings.Join(b.columns, ", "), b.table)
	b.where.render(&buf, &args)
	if len(b.orderBy) > 0 {
		buf.WriteString(" ORDER BY ")
		buf.WriteString(strings.Join(b.orderBy, ", "))
	}
	return buf.String(), args.values, nil
}

// DeleteBuilder clears one race's rows before a replace.
type DeleteBuilder struct {
	table string
	where whereClause
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	b.where = append(b.where, conditions...)
	return b
}

// ToSQL refuses to build an unconditional delete.
func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("delete table is required")
	}
	if len(b.where) == 0 {
		return "", nil, fmt.Errorf("delete without where clause on %s", b.table)
	}

	var buf strings.Builder
	var args argList
	buf.WriteString("DELETE FROM ")
	buf.WriteString(b.table)
	b.where.render(&buf, &args)
	return buf.String(), args.values, nil
}
