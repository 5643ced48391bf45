package entity

import (
	"fmt"
	"reflect"
)

// Hydrate builds one T per row of tb. T is a struct or a pointer to struct.
//
// Each mapped property is read from the column matching its effective column
// name; properties without a column keep their zero value. Conversions follow
// Coerce: a failing identifier, numeric or Scanner conversion aborts the call
// with an error, every other failure leaves the zero value in place.
func Hydrate[T any](tb Table) ([]T, error) {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	isPtr := typ.Kind() == reflect.Ptr

	et, err := Describe(typ)
	if err != nil {
		return nil, err
	}

	if isPtr && typ.Elem() != et.Type {
		return nil, fmt.Errorf("%w. got %s", ErrNotStruct, typ)
	}

	props := et.Mapped()
	columns := Map(props, func(p Property) int {
		return tb.ColumnIndex(p.Column)
	})

	result := make([]T, 0, len(tb.Rows))
	for r, row := range tb.Rows {
		ptr := reflect.New(et.Type)
		if err := hydrateRow(ptr.Elem(), props, tb.Columns, columns, row); err != nil {
			return nil, fmt.Errorf("row %d: %w", r, err)
		}

		if isPtr {
			result = append(result, ptr.Interface().(T))
		} else {
			result = append(result, ptr.Elem().Interface().(T))
		}
	}

	return result, nil
}

// HydrateOne returns the first row of tb as a T, or ErrNoRow.
func HydrateOne[T any](tb Table) (T, error) {
	var zero T
	if len(tb.Rows) == 0 {
		return zero, ErrNoRow
	}

	values, err := Hydrate[T](Table{Columns: tb.Columns, Rows: tb.Rows[:1]})
	if err != nil {
		return zero, err
	}

	return values[0], nil
}

func hydrateRow(v reflect.Value, props []Property, names []string, columns []int, row []any) error {
	for i, p := range props {
		c := columns[i]
		if c < 0 || c >= len(row) {
			continue
		}

		val, err := p.coerce(row[c])
		if err != nil {
			return fmt.Errorf("column %s into field %s (%s): %w", names[c], p.Name, p.Kind, err)
		}

		v.FieldByIndex(p.Index).Set(val)
	}

	return nil
}
