package entity

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"strings"
)

// BuildInsert renders entity as a SQL Server insert statement with every
// value embedded as a literal:
//
//	SET IDENTITY_INSERT User ON ;insert into User ([ID],[Name]) VALUES (1,'Ann');SET IDENTITY_INSERT User OFF ;
//
// The table is the runtime type name and columns are field names unless
// WithAnnotatedNames is given. Ignored fields are left out.
//
// Text and type-reference values are wrapped in single quotes WITHOUT any
// escaping: a value containing a quote breaks the statement and untrusted
// input can inject SQL. Use BuildParameterizedInsert for untrusted data.
func BuildInsert(entity any, options ...InsertOption) (string, error) {
	opt := &insertOption{}
	for _, op := range options {
		op(opt)
	}

	v, et, err := entityValue(entity)
	if err != nil {
		return "", err
	}

	table := et.Name
	if opt.annotated {
		table = et.FullTableName()
	}

	props := et.Mapped()
	columns := make([]string, len(props))
	values := make([]string, len(props))
	for i, p := range props {
		col := p.Name
		if opt.annotated {
			col = p.Column
		}

		columns[i] = "[" + col + "]"
		values[i] = literal(p, v.FieldByIndex(p.Index))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SET IDENTITY_INSERT %s ON ;", table)
	fmt.Fprintf(&sb, "insert into %s (%s) VALUES (%s);", table, strings.Join(columns, ","), strings.Join(values, ","))
	fmt.Fprintf(&sb, "SET IDENTITY_INSERT %s OFF ;", table)

	return sb.String(), nil
}

// InsertParts returns the columns, "?" placeholders and arguments for a
// parameterized insert of entity. Ignored and auto fields are skipped and
// driver.Valuer fields are resolved to their driver value. Entities
// implementing SQLInsertGenerator supply their own parts.
func InsertParts(entity any) (columns []string, placeholders []string, args []any, err error) {
	if gen, ok := entity.(SQLInsertGenerator); ok {
		columns, placeholders, args = gen.GenerateInsertParts()
		return columns, placeholders, args, nil
	}

	v, et, err := entityValue(entity)
	if err != nil {
		return nil, nil, nil, err
	}

	for _, p := range et.Mapped() {
		if p.Auto {
			continue
		}

		arg, err := argValue(v.FieldByIndex(p.Index))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("field %s: %w", p.Name, err)
		}

		columns = append(columns, p.Column)
		placeholders = append(placeholders, "?")
		args = append(args, arg)
	}

	return columns, placeholders, args, nil
}

// BuildParameterizedInsert returns an INSERT statement with "?" placeholders
// for the annotated table and columns of entity, and its arguments.
func BuildParameterizedInsert(entity any) (string, []any, error) {
	et, err := DescribeOf(entity)
	if err != nil {
		return "", nil, err
	}

	columns, placeholders, args, err := InsertParts(entity)
	if err != nil {
		return "", nil, err
	}

	qry := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", et.FullTableName(), strings.Join(columns, ","), strings.Join(placeholders, ","))
	return qry, args, nil
}

func entityValue(entity any) (reflect.Value, *EntityType, error) {
	v := reflect.ValueOf(entity)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}, nil, fmt.Errorf("%w. got nil %s", ErrNotStruct, v.Type())
		}
		v = v.Elem()
	}

	if !v.IsValid() {
		return reflect.Value{}, nil, ErrNotStruct
	}

	et, err := Describe(v.Type())
	if err != nil {
		return reflect.Value{}, nil, err
	}

	return v, et, nil
}

// literal formats a field value by the property's declared kind.
func literal(p Property, fv reflect.Value) string {
	kind := p.Kind
	if fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			if kind == KindBoolean {
				return "0"
			}
			if kind.IsQuoted() {
				return "''"
			}
			return ""
		}
		fv = fv.Elem()
	}

	val := fv.Interface()
	if kind == KindScanner {
		if valuer, ok := val.(driver.Valuer); ok {
			dv, err := valuer.Value()
			if err == nil {
				val = dv
			}
		}

		// scanners are formatted by the driver value they carry
		switch val.(type) {
		case string:
			kind = KindText
		case bool:
			kind = KindBoolean
		}
	}

	switch {
	case kind.IsQuoted():
		return "'" + textOf(val) + "'"
	case kind == KindBoolean:
		if b := reflect.ValueOf(val); b.Kind() == reflect.Bool && b.Bool() {
			return "1"
		}
		return "0"
	case val == nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}

func argValue(fv reflect.Value) (any, error) {
	if fv.Kind() == reflect.Ptr && fv.IsNil() {
		return nil, nil
	}

	val := fv.Interface()
	if valuer, ok := val.(driver.Valuer); ok {
		return valuer.Value()
	}

	if fv.Kind() == reflect.Ptr {
		return fv.Elem().Interface(), nil
	}

	return val, nil
}
