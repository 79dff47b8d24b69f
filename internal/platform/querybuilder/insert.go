package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

type InsertBuilder struct {
	table         string
	columns       []string
	rows          [][]any
	conflictCols  []string
	updateColumns []string
	err           error
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// Model appends one row read from the struct's db tags. The first model fixes
// the column list; later models must share it.
func (b *InsertBuilder) Model(model any) *InsertBuilder {
	cols, vals, err := columnsAndValuesFromModel(model)
	if err != nil {
		b.err = err
		return b
	}
	if len(b.columns) == 0 {
		b.columns = cols
	}
	return b.Values(vals...)
}

// OnConflict turns the insert into an upsert on the given key columns. Every
// listed update column takes the incoming value; with none the row is skipped.
func (b *InsertBuilder) OnConflict(keyColumns []string, updateColumns ...string) *InsertBuilder {
	b.conflictCols = append([]string(nil), keyColumns...)
	b.updateColumns = append([]string(nil), updateColumns...)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(b.rows) == 0 {
		return "", nil, fmt.Errorf("insert values are required")
	}

	var buf strings.Builder
	buf.WriteString("INSERT INTO ")
	buf.WriteString(b.table)
	buf.WriteString(" (")
	buf.WriteString(strings.Join(b.columns, ", "))
	buf.WriteString(") VALUES ")

	args := argList{values: make([]any, 0, len(b.rows)*len(b.columns))}
	for rowIdx, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", rowIdx, len(row), len(b.columns))
		}
		if rowIdx > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString("(")
		for colIdx, value := range row {
			if colIdx > 0 {
				buf.WriteString(", ")
			}
			args.bind(&buf, value)
		}
		buf.WriteString(")")
	}

	if len(b.conflictCols) > 0 {
		buf.WriteString(" ON CONFLICT (")
		buf.WriteString(strings.Join(b.conflictCols, ", "))
		buf.WriteString(")")
		if len(b.updateColumns) == 0 {
			buf.WriteString(" DO NOTHING")
		} else {
			buf.WriteString(" DO UPDATE SET ")
			for i, col := range b.updateColumns {
				if i > 0 {
					buf.WriteString(", ")
				}
				buf.WriteString(col)
				buf.WriteString(" = EXCLUDED.")
				buf.WriteString(col)
			}
		}
	}

	return buf.String(), args.values, nil
}

func columnsAndValuesFromModel(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be struct")
	}

	typ := value.Type()
	cols := make([]string, 0, typ.NumField())
	vals := make([]any, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue
		}
		col := strings.TrimSpace(strings.Split(field.Tag.Get("db"), ",")[0])
		if col == "" || col == "-" {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	}

	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("model has no db columns")
	}
	return cols, vals, nil
}
