package entity

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	mssql "github.com/microsoft/go-mssqldb"
)

// SQL Server error numbers for unique index and primary key violations.
const (
	mssqlDuplicateKeyRow        = 2601
	mssqlUniqueConstraintFailed = 2627
)

// wrapSQLError maps driver errors onto the package sentinels and keeps the
// original message.
func wrapSQLError(err error) error {
	if err == nil {
		return nil
	}

	if isDuplicateKey(err) {
		return fmt.Errorf("%w. %s", ErrKeyAlreadyExists, err.Error())
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w. %s", ErrKeyNotFound, err.Error())
	}

	return err
}

func isDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgerrcode.UniqueViolation
	}

	var msErr mssql.Error
	if errors.As(err, &msErr) {
		return msErr.Number == mssqlDuplicateKeyRow || msErr.Number == mssqlUniqueConstraintFailed
	}

	return false
}

// FormatQuery replaces the positional placeholders {0}, {1}, ... in format
// with params. Values are inserted verbatim, so params must never carry
// untrusted input. "{{" and "}}" produce literal braces. A placeholder past
// the end of params returns ErrQueryFormat.
//
// Items may carry an alignment and a format string, {index[,alignment][:format]}.
// A positive alignment pads the value on the left to that width, a negative
// one on the right. The format string is accepted and ignored since every
// parameter is already text.
func FormatQuery(format string, params ...string) (string, error) {
	var sb strings.Builder
	sb.Grow(len(format))

	for i := 0; i < len(format); i++ {
		ch := format[i]
		switch {
		case ch == '{' && i+1 < len(format) && format[i+1] == '{':
			sb.WriteByte('{')
			i++
		case ch == '}' && i+1 < len(format) && format[i+1] == '}':
			sb.WriteByte('}')
			i++
		case ch == '{':
			end := strings.IndexByte(format[i:], '}')
			if end < 0 {
				return "", fmt.Errorf("%w. unclosed placeholder at %d", ErrQueryFormat, i)
			}

			item := format[i : i+end+1]
			n, width, err := parseFormatItem(item[1 : len(item)-1])
			if err != nil {
				return "", fmt.Errorf("%w. invalid placeholder %q", ErrQueryFormat, item)
			}

			if n >= len(params) {
				return "", fmt.Errorf("%w. placeholder {%d} has no parameter", ErrQueryFormat, n)
			}

			sb.WriteString(pad(params[n], width))
			i += end
		case ch == '}':
			return "", fmt.Errorf("%w. unmatched '}' at %d", ErrQueryFormat, i)
		default:
			sb.WriteByte(ch)
		}
	}

	return sb.String(), nil
}

func parseFormatItem(item string) (index, width int, err error) {
	if i := strings.IndexByte(item, ':'); i >= 0 {
		item = item[:i]
	}

	idx, align, hasAlign := strings.Cut(item, ",")
	if index, err = strconv.Atoi(strings.TrimSpace(idx)); err != nil {
		return 0, 0, err
	}
	if index < 0 {
		return 0, 0, fmt.Errorf("negative index %d", index)
	}

	if hasAlign {
		if width, err = strconv.Atoi(strings.TrimSpace(align)); err != nil {
			return 0, 0, err
		}
	}

	return index, width, nil
}

func pad(value string, width int) string {
	n := utf8.RuneCountInString(value)
	switch {
	case width > n:
		return strings.Repeat(" ", width-n) + value
	case -width > n:
		return value + strings.Repeat(" ", -width-n)
	default:
		return value
	}
}
