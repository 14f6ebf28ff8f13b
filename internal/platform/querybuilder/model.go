package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// column is one db-tagged field of a row struct.
type column struct {
	name  string
	index int
}

// columnCache maps reflect.Type to []column. Row structs are fixed at
// compile time, so entries never go stale.
var columnCache sync.Map

// UpsertModel builds an upsert from the db-tagged fields of model. Every
// column outside conflictKeys is overwritten on conflict.
func UpsertModel(table string, model any, conflictKeys ...string) (string, []any, error) {
	value, cols, err := modelColumns(model)
	if err != nil {
		return "", nil, err
	}

	names := make([]string, len(cols))
	vals := make([]any, len(cols))
	for i, col := range cols {
		names[i] = col.name
		vals[i] = value.Field(col.index).Interface()
	}
	return InsertInto(table).
		Columns(names...).
		Values(vals...).
		OnConflict(conflictKeys...).
		ToSQL()
}

// Columns lists the db-tagged columns of model, in field order.
func Columns(model any) ([]string, error) {
	_, cols, err := modelColumns(model)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = col.name
	}
	return names, nil
}

func modelColumns(model any) (reflect.Value, []column, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return reflect.Value{}, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return reflect.Value{}, nil, fmt.Errorf("model must be struct, got %s", value.Kind())
	}

	typ := value.Type()
	if cached, ok := columnCache.Load(typ); ok {
		return value, cached.([]column), nil
	}

	cols := make([]column, 0, typ.NumField())
	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		name = strings.TrimSpace(name)
		if name == "" || name == "-" {
			continue
		}
		cols = append(cols, column{name: name, index: i})
	}
	if len(cols) == 0 {
		return reflect.Value{}, nil, fmt.Errorf("model %s has no db columns", typ.Name())
	}

	columnCache.Store(typ, cols)
	return value, cols, nil
}
