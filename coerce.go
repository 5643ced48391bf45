package entity

import (
	"database/sql"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type coerceFunc func(cell any) (reflect.Value, error)

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05 -0700 MST",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	time.RFC1123Z,
	time.RFC1123,
}

// Coerce converts an untyped cell into a value of target.
//
// Text, integer (int, int32), boolean, date-time, type-reference and composite
// targets never fail: malformed input yields the zero value of target.
// Identifier (uuid.UUID), other numeric widths and sql.Scanner targets return
// an error wrapping ErrConversion or ErrNilValue.
func Coerce(cell any, target reflect.Type) (any, error) {
	v, err := coercerFor(target)(cell)
	if err != nil {
		return nil, err
	}

	return v.Interface(), nil
}

func coercerFor(t reflect.Type) coerceFunc {
	if t.Kind() == reflect.Ptr {
		return nullable(t, coercerFor(t.Elem()))
	}

	switch KindOf(t) {
	case KindText:
		return func(cell any) (reflect.Value, error) {
			v := reflect.New(t).Elem()
			v.SetString(textOf(cell))
			return v, nil
		}
	case KindInteger:
		return func(cell any) (reflect.Value, error) {
			v := reflect.New(t).Elem()
			if n, err := strconv.ParseInt(strings.TrimSpace(textOf(cell)), 10, t.Bits()); err == nil {
				v.SetInt(n)
			}
			return v, nil
		}
	case KindBoolean:
		return func(cell any) (reflect.Value, error) {
			v := reflect.New(t).Elem()
			v.SetBool(strings.EqualFold(strings.TrimSpace(textOf(cell)), "true"))
			return v, nil
		}
	case KindDateTime:
		return func(cell any) (reflect.Value, error) {
			return reflect.ValueOf(parseDateTime(cell)), nil
		}
	case KindIdentifier:
		return coerceIdentifier
	case KindTypeRef:
		return coerceTypeRef
	case KindScalar:
		return func(cell any) (reflect.Value, error) {
			return changeType(cell, t)
		}
	case KindScanner:
		return func(cell any) (reflect.Value, error) {
			ptr := reflect.New(t)
			if err := ptr.Interface().(sql.Scanner).Scan(cell); err != nil {
				return reflect.Value{}, fmt.Errorf("%w. scan %T into %s: %w", ErrConversion, cell, t, err)
			}
			return ptr.Elem(), nil
		}
	default:
		return func(cell any) (reflect.Value, error) {
			return assignComposite(cell, t), nil
		}
	}
}

func nullable(t reflect.Type, elem coerceFunc) coerceFunc {
	return func(cell any) (reflect.Value, error) {
		if isNull(cell) {
			return reflect.Zero(t), nil
		}

		v, err := elem(cell)
		if err != nil {
			return reflect.Value{}, err
		}

		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(v)
		return ptr, nil
	}
}

func isNull(cell any) bool {
	if cell == nil {
		return true
	}

	v := reflect.ValueOf(cell)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// textOf returns the external text representation of a cell.
func textOf(cell any) string {
	if isNull(cell) {
		return ""
	}

	switch c := cell.(type) {
	case string:
		return c
	case []byte:
		return string(c)
	case time.Time:
		return c.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return c.String()
	}

	if v := reflect.ValueOf(cell); v.Kind() == reflect.Ptr {
		return textOf(v.Elem().Interface())
	}

	return fmt.Sprint(cell)
}

func parseDateTime(cell any) time.Time {
	if tm, ok := cell.(time.Time); ok {
		return tm
	}

	text := strings.TrimSpace(textOf(cell))
	for _, layout := range dateTimeLayouts {
		if tm, err := time.Parse(layout, text); err == nil {
			return tm
		}
	}

	return time.Time{}
}

func coerceIdentifier(cell any) (reflect.Value, error) {
	switch c := cell.(type) {
	case uuid.UUID:
		return reflect.ValueOf(c), nil
	case [16]byte:
		return reflect.ValueOf(uuid.UUID(c)), nil
	case []byte:
		if len(c) == 16 {
			id, err := uuid.FromBytes(c)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%w. %w", ErrConversion, err)
			}
			return reflect.ValueOf(id), nil
		}
	}

	text := strings.TrimSpace(textOf(cell))
	id, err := uuid.Parse(text)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w. %q is not a valid identifier: %w", ErrConversion, text, err)
	}

	return reflect.ValueOf(id), nil
}

func coerceTypeRef(cell any) (reflect.Value, error) {
	v := reflect.New(typeRefType).Elem()
	t, ok := cell.(reflect.Type)
	if !ok {
		t = ResolveType(textOf(cell))
	}

	if t != nil {
		v.Set(reflect.ValueOf(t))
	}

	return v, nil
}

func assignComposite(cell any, t reflect.Type) reflect.Value {
	out := reflect.New(t).Elem()
	if isNull(cell) {
		return out
	}

	cv := reflect.ValueOf(cell)
	switch {
	case cv.Type().AssignableTo(t):
		out.Set(cv)
	case cv.Kind() == t.Kind() && cv.Type().ConvertibleTo(t):
		out.Set(cv.Convert(t))
	}

	return out
}

// changeType converts the native cell value into the numeric type t. Unlike
// the silent kinds, every failure here is returned.
func changeType(cell any, t reflect.Type) (reflect.Value, error) {
	if cell == nil {
		return reflect.Value{}, fmt.Errorf("%w. %s", ErrNilValue, t)
	}

	out := reflect.New(t).Elem()
	switch c := cell.(type) {
	case string:
		return out, parseScalar(c, out)
	case []byte:
		return out, parseScalar(string(c), out)
	case bool:
		var n int64
		if c {
			n = 1
		}
		return out, setInt(out, n)
	}

	src := reflect.ValueOf(cell)
	switch src.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return out, setInt(out, src.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return out, setUint(out, src.Uint())
	case reflect.Float32, reflect.Float64:
		return out, setFloat(out, src.Float())
	case reflect.Ptr:
		if src.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w. %s", ErrNilValue, t)
		}
		return changeType(src.Elem().Interface(), t)
	}

	return reflect.Value{}, fmt.Errorf("%w. %T into %s", ErrConversion, cell, t)
}

func parseScalar(s string, out reflect.Value) error {
	s = strings.TrimSpace(s)
	var err error
	switch out.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var n int64
		if n, err = strconv.ParseInt(s, 10, out.Type().Bits()); err == nil {
			out.SetInt(n)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		var n uint64
		if n, err = strconv.ParseUint(s, 10, out.Type().Bits()); err == nil {
			out.SetUint(n)
		}
	case reflect.Float32, reflect.Float64:
		var f float64
		if f, err = strconv.ParseFloat(s, out.Type().Bits()); err == nil {
			out.SetFloat(f)
		}
	default:
		err = fmt.Errorf("unsupported kind %s", out.Kind())
	}

	if err != nil {
		return fmt.Errorf("%w. %q into %s: %w", ErrConversion, s, out.Type(), err)
	}

	return nil
}

func setInt(out reflect.Value, n int64) error {
	switch out.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if out.OverflowInt(n) {
			return overflow(n, out)
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n < 0 || out.OverflowUint(uint64(n)) {
			return overflow(n, out)
		}
		out.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		out.SetFloat(float64(n))
	default:
		return fmt.Errorf("%w. %d into %s", ErrConversion, n, out.Type())
	}

	return nil
}

func setUint(out reflect.Value, n uint64) error {
	switch out.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n > math.MaxInt64 || out.OverflowInt(int64(n)) {
			return overflow(n, out)
		}
		out.SetInt(int64(n))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if out.OverflowUint(n) {
			return overflow(n, out)
		}
		out.SetUint(n)
	case reflect.Float32, reflect.Float64:
		out.SetFloat(float64(n))
	default:
		return fmt.Errorf("%w. %d into %s", ErrConversion, n, out.Type())
	}

	return nil
}

// setFloat rounds half to even when the target is an integer.
func setFloat(out reflect.Value, f float64) error {
	switch out.Kind() {
	case reflect.Float32, reflect.Float64:
		if out.OverflowFloat(f) {
			return overflow(f, out)
		}
		out.SetFloat(f)
		return nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return overflow(f, out)
	}

	r := math.RoundToEven(f)
	switch out.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if r < math.MinInt64 || r >= math.MaxInt64 || out.OverflowInt(int64(r)) {
			return overflow(f, out)
		}
		out.SetInt(int64(r))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if r < 0 || r >= math.MaxUint64 || out.OverflowUint(uint64(r)) {
			return overflow(f, out)
		}
		out.SetUint(uint64(r))
	default:
		return fmt.Errorf("%w. %v into %s", ErrConversion, f, out.Type())
	}

	return nil
}

func overflow(v any, out reflect.Value) error {
	return fmt.Errorf("%w. %v overflows %s", ErrConversion, v, out.Type())
}
