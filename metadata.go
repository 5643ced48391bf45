package entity

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// EntityType describes how a struct type maps to a table.
// It is derived once per type and must not be modified.
type EntityType struct {
	Type       reflect.Type
	Name       string
	Table      string
	Schema     string

	// Properties is shared by every caller of Describe and must not be
	// written to. Mapped returns a copy that may be.
	Properties []Property
}

// Property describes one exported field of an entity.
type Property struct {
	Name     string
	Column   string
	Type     reflect.Type
	Index    []int
	Kind     ValueKind
	Nullable bool
	Primary  bool
	Unique   bool
	Ignore   bool
	Auto     bool
	WireType string

	coerce coerceFunc
}

var registry sync.Map

// Describe returns the descriptor of t, which must be a struct or a pointer to one.
func Describe(t reflect.Type) (*EntityType, error) {
	if t == nil {
		return nil, ErrNotStruct
	}

	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if et, ok := registry.Load(t); ok {
		return et.(*EntityType), nil
	}

	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w. got %s", ErrNotStruct, t)
	}

	et := &EntityType{
		Type: t,
		Name: t.Name(),
	}
	et.Properties = collectProperties(et, t, nil)

	actual, _ := registry.LoadOrStore(t, et)
	return actual.(*EntityType), nil
}

// DescribeOf returns the descriptor of the dynamic type of v.
func DescribeOf(v any) (*EntityType, error) {
	return Describe(reflect.TypeOf(v))
}

// MustDescribe is like Describe but panics on error.
func MustDescribe(t reflect.Type) *EntityType {
	et, err := Describe(t)
	if err != nil {
		panic(err)
	}

	return et
}

func collectProperties(et *EntityType, t reflect.Type, parent []int) []Property {
	var props []Property
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		index := append(append([]int(nil), parent...), i)

		if field.Type == dbTableType {
			et.Table = strings.TrimSpace(field.Tag.Get("name"))
			et.Schema = strings.TrimSpace(field.Tag.Get("schema"))
			continue
		}

		// embedded value structs contribute their fields in place
		tagValue, hasTag := field.Tag.Lookup("db")
		if field.Anonymous && !hasTag && field.Type.Kind() == reflect.Struct && KindOf(field.Type) == KindComposite {
			props = append(props, collectProperties(et, field.Type, index)...)
			continue
		}

		if !field.IsExported() {
			continue
		}

		tag := ParseDBTag(tagValue)
		col := tag.Name
		if col == "" {
			col = field.Name
		}

		p := Property{
			Name:     field.Name,
			Column:   col,
			Type:     field.Type,
			Index:    index,
			Kind:     KindOf(field.Type),
			Nullable: field.Type.Kind() == reflect.Ptr,
			Primary:  tag.IsKey,
			Unique:   tag.IsUnique,
			Ignore:   tag.Ignore,
			Auto:     tag.IsAuto,
			WireType: tag.WireType,
		}
		p.coerce = coercerFor(field.Type)

		props = append(props, p)
	}

	return props
}

// Mapped returns the properties that take part in hydration and statements.
func (et *EntityType) Mapped() []Property {
	return Filter(et.Properties, func(p Property) bool {
		return !p.Ignore
	})
}

// Property returns the property with the given field name.
func (et *EntityType) Property(name string) (Property, bool) {
	for _, p := range et.Properties {
		if p.Name == name {
			return p, true
		}
	}

	return Property{}, false
}

func (et *EntityType) PrimaryKeys() []string {
	keys := Filter(et.Mapped(), func(p Property) bool {
		return p.Primary
	})

	return Map(keys, func(p Property) string {
		return p.Column
	})
}

func (et *EntityType) UniqueColumns() []string {
	uniques := Filter(et.Mapped(), func(p Property) bool {
		return p.Unique
	})

	return Map(uniques, func(p Property) string {
		return p.Column
	})
}

// TableName returns the DBTable name, or the type name when none is set.
func (et *EntityType) TableName() string {
	if et.Table != "" {
		return et.Table
	}

	return et.Name
}

func (et *EntityType) FullTableName() string {
	name := et.TableName()
	if et.Schema != "" {
		name = fmt.Sprintf("%s.%s", et.Schema, name)
	}

	return name
}
