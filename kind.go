package entity

import (
	"database/sql"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// ValueKind is the coercion category of a field, derived from its declared type.
type ValueKind int

const (
	_ ValueKind = iota // zero value is an invalid kind

	KindText
	KindInteger
	KindBoolean
	KindDateTime
	KindIdentifier
	KindTypeRef
	KindScalar
	KindScanner
	KindComposite
)

var (
	timeType    = reflect.TypeOf((*time.Time)(nil)).Elem()
	uuidType    = reflect.TypeOf((*uuid.UUID)(nil)).Elem()
	typeRefType = reflect.TypeOf((*reflect.Type)(nil)).Elem()
	scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()
)

func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindInteger:
		return "Integer"
	case KindBoolean:
		return "Boolean"
	case KindDateTime:
		return "DateTime"
	case KindIdentifier:
		return "Identifier"
	case KindTypeRef:
		return "TypeRef"
	case KindScalar:
		return "Scalar"
	case KindScanner:
		return "Scanner"
	case KindComposite:
		return "Composite"
	default:
		return "Invalid"
	}
}

// IsLoud reports whether a failed conversion into this kind is returned as an
// error instead of degrading to the zero value.
func (k ValueKind) IsLoud() bool {
	switch k {
	case KindIdentifier, KindScalar, KindScanner:
		return true
	default:
		return false
	}
}

// IsQuoted reports whether BuildInsert wraps values of this kind in single quotes.
func (k ValueKind) IsQuoted() bool {
	return k == KindText || k == KindTypeRef
}

// KindOf returns the kind of t. Pointer types report the kind of their element.
func KindOf(t reflect.Type) ValueKind {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t {
	case timeType:
		return KindDateTime
	case uuidType:
		return KindIdentifier
	case typeRefType:
		return KindTypeRef
	}

	if reflect.PointerTo(t).Implements(scannerType) {
		return KindScanner
	}

	switch t.Kind() {
	case reflect.String:
		return KindText
	case reflect.Int, reflect.Int32:
		return KindInteger
	case reflect.Bool:
		return KindBoolean
	case reflect.Int8, reflect.Int16, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return KindScalar
	default:
		return KindComposite
	}
}
