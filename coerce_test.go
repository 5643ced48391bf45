package entity

import (
	"database/sql"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v4"
)

func coerceTo[T any](t *testing.T, cell any) T {
	t.Helper()

	v, err := Coerce(cell, reflect.TypeOf((*T)(nil)).Elem())
	require.NoError(t, err)

	out, _ := v.(T)
	return out
}

func TestCoerceText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", coerceTo[string](t, nil))
	assert.Equal(t, "abc", coerceTo[string](t, "abc"))
	assert.Equal(t, "raw", coerceTo[string](t, []byte("raw")))
	assert.Equal(t, "12", coerceTo[string](t, int64(12)))
	assert.Equal(t, status("open"), coerceTo[status](t, "open"))

	id := uuid.MustParse("0b7d6a1e-4f39-4f4e-9d0f-6a3f1b8d2c11")
	assert.Equal(t, id.String(), coerceTo[string](t, id))
}

func TestCoerceTypedNilCells(t *testing.T) {
	t.Parallel()

	cells := []any{(*time.Time)(nil), (*uuid.UUID)(nil), (*string)(nil)}
	for _, cell := range cells {
		assert.NotPanics(t, func() {
			assert.Equal(t, "", coerceTo[string](t, cell))
			assert.Equal(t, 0, coerceTo[int](t, cell))
			assert.False(t, coerceTo[bool](t, cell))
			assert.True(t, coerceTo[time.Time](t, cell).IsZero())
			assert.Nil(t, coerceTo[reflect.Type](t, cell))
		}, "%T", cell)
	}

	tb := Table{
		Columns: []string{"ID", "Name", "Active"},
		Rows:    [][]any{{(*time.Time)(nil), (*uuid.UUID)(nil), (*time.Time)(nil)}},
	}

	people, err := Hydrate[Person](tb)
	require.NoError(t, err)
	assert.Equal(t, []Person{{}}, people)

	stamp := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	assert.True(t, stamp.Equal(coerceTo[time.Time](t, &stamp)))
}

func TestCoerceIntegerFallsBackToZero(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, coerceTo[int](t, "abc"))
	assert.Equal(t, 0, coerceTo[int](t, "1.5"))
	assert.Equal(t, 0, coerceTo[int](t, nil))
	assert.Equal(t, 42, coerceTo[int](t, "42"))
	assert.Equal(t, 7, coerceTo[int](t, " 7 "))
	assert.Equal(t, 5, coerceTo[int](t, int64(5)))
	assert.Equal(t, int32(0), coerceTo[int32](t, "4294967296"))
	assert.Equal(t, level(3), coerceTo[level](t, "3"))
}

func TestCoerceBoolean(t *testing.T) {
	t.Parallel()

	assert.True(t, coerceTo[bool](t, "true"))
	assert.True(t, coerceTo[bool](t, " TRUE "))
	assert.True(t, coerceTo[bool](t, true))
	assert.False(t, coerceTo[bool](t, "false"))
	assert.False(t, coerceTo[bool](t, "1"))
	assert.False(t, coerceTo[bool](t, "yes"))
	assert.False(t, coerceTo[bool](t, nil))
}

func TestCoerceDateTime(t *testing.T) {
	t.Parallel()

	got := coerceTo[time.Time](t, "2024-01-15")
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), got)

	assert.True(t, coerceTo[time.Time](t, "not-a-date").IsZero())
	assert.True(t, coerceTo[time.Time](t, nil).IsZero())

	stamp := time.Date(2023, time.March, 2, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, stamp, coerceTo[time.Time](t, stamp))
	assert.True(t, stamp.Equal(coerceTo[time.Time](t, "2023-03-02 10:30:00")))
	assert.True(t, stamp.Equal(coerceTo[time.Time](t, "2023-03-02T10:30:00Z")))
	assert.True(t, stamp.Equal(coerceTo[time.Time](t, []byte("2023-03-02 10:30:00"))))
}

func TestCoerceIdentifierFailsLoudly(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("0b7d6a1e-4f39-4f4e-9d0f-6a3f1b8d2c11")
	assert.Equal(t, id, coerceTo[uuid.UUID](t, id.String()))
	assert.Equal(t, id, coerceTo[uuid.UUID](t, id[:]))
	assert.Equal(t, id, coerceTo[uuid.UUID](t, []byte(id.String())))

	_, err := Coerce("not-a-guid", reflect.TypeOf((*uuid.UUID)(nil)).Elem())
	assert.ErrorIs(t, err, ErrConversion)

	_, err = Coerce(nil, reflect.TypeOf((*uuid.UUID)(nil)).Elem())
	assert.ErrorIs(t, err, ErrConversion)
}

func TestCoerceTypeRef(t *testing.T) {
	t.Parallel()

	RegisterType(Customer{})

	got := coerceTo[reflect.Type](t, "entity.Customer")
	assert.Equal(t, reflect.TypeOf((*Customer)(nil)).Elem(), got)

	got = coerceTo[reflect.Type](t, "github.com/likearthian/entity.Customer")
	assert.Equal(t, reflect.TypeOf((*Customer)(nil)).Elem(), got)

	assert.Equal(t, reflect.TypeOf((*int64)(nil)).Elem(), coerceTo[reflect.Type](t, "int64"))
	assert.Nil(t, coerceTo[reflect.Type](t, "entity.Missing"))
	assert.Nil(t, ResolveType("entity.Missing"))
}

func TestCoerceScalarFailsLoudly(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(9), coerceTo[int64](t, int64(9)))
	assert.Equal(t, int64(9), coerceTo[int64](t, "9"))
	assert.Equal(t, int64(2), coerceTo[int64](t, 2.5))
	assert.Equal(t, int64(4), coerceTo[int64](t, 3.5))
	assert.Equal(t, int16(1), coerceTo[int16](t, true))
	assert.Equal(t, 3.25, coerceTo[float64](t, "3.25"))
	assert.Equal(t, float32(1.5), coerceTo[float32](t, 1.5))
	assert.Equal(t, uint8(200), coerceTo[uint8](t, int64(200)))

	cases := []struct {
		name   string
		cell   any
		target reflect.Type
		want   error
	}{
		{"text", "abc", reflect.TypeOf((*int64)(nil)).Elem(), ErrConversion},
		{"nil", nil, reflect.TypeOf((*int64)(nil)).Elem(), ErrNilValue},
		{"overflow", int64(300), reflect.TypeOf((*uint8)(nil)).Elem(), ErrConversion},
		{"negative into unsigned", int64(-1), reflect.TypeOf((*uint32)(nil)).Elem(), ErrConversion},
		{"time", time.Now(), reflect.TypeOf((*float64)(nil)).Elem(), ErrConversion},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Coerce(tc.cell, tc.target)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCoerceScanner(t *testing.T) {
	t.Parallel()

	title := coerceTo[null.String](t, "draft")
	assert.Equal(t, null.StringFrom("draft"), title)

	empty := coerceTo[null.String](t, nil)
	assert.False(t, empty.Valid)

	count := coerceTo[sql.NullInt64](t, int64(4))
	assert.Equal(t, sql.NullInt64{Int64: 4, Valid: true}, count)

	_, err := Coerce("abc", reflect.TypeOf((*sql.NullInt64)(nil)).Elem())
	assert.ErrorIs(t, err, ErrConversion)
}

func TestCoerceNullable(t *testing.T) {
	t.Parallel()

	assert.Nil(t, coerceTo[*int64](t, nil))

	size := coerceTo[*int64](t, int64(12))
	require.NotNil(t, size)
	assert.Equal(t, int64(12), *size)

	name := coerceTo[*string](t, "ann")
	require.NotNil(t, name)
	assert.Equal(t, "ann", *name)

	_, err := Coerce("abc", reflect.TypeOf((**int64)(nil)).Elem())
	assert.ErrorIs(t, err, ErrConversion)
}

func TestCoerceComposite(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []byte("raw"), coerceTo[[]byte](t, []byte("raw")))
	assert.Nil(t, coerceTo[[]byte](t, nil))
	assert.Nil(t, coerceTo[map[string]int](t, "not a map"))
	assert.Equal(t, Audit{CreatedBy: "x"}, coerceTo[Audit](t, Audit{CreatedBy: "x"}))
}
