package entity

import (
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var typeRegistry sync.Map

func init() {
	RegisterType("", 0, int8(0), int16(0), int32(0), int64(0),
		uint(0), uint8(0), uint16(0), uint32(0), uint64(0),
		float32(0), float64(0), false, time.Time{}, uuid.UUID{})
}

// RegisterType makes the types of values resolvable by name for KindTypeRef
// fields. A value may itself be a reflect.Type. Each type is recorded under
// its qualified name ("entity.User") and its full import path
// ("github.com/likearthian/entity.User").
func RegisterType(values ...any) {
	for _, v := range values {
		t, ok := v.(reflect.Type)
		if !ok {
			t = reflect.TypeOf(v)
		}

		if t == nil {
			continue
		}

		typeRegistry.LoadOrStore(t.String(), t)
		if t.PkgPath() != "" && t.Name() != "" {
			typeRegistry.LoadOrStore(t.PkgPath()+"."+t.Name(), t)
		}
	}
}

// ResolveType returns the registered type with the given name, or nil.
func ResolveType(name string) reflect.Type {
	t, ok := typeRegistry.Load(strings.TrimSpace(name))
	if !ok {
		return nil
	}

	return t.(reflect.Type)
}
