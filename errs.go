package entity

import "errors"

var (
	ErrKeyAlreadyExists = errors.New("key already exists")
	ErrKeyNotFound      = errors.New("key not found")
	ErrNoRow            = errors.New("no row")
	ErrNotStruct        = errors.New("entity must be a struct or a pointer to struct")
	ErrConversion       = errors.New("cannot convert value")
	ErrNilValue         = errors.New("cannot convert nil into a value type")
	ErrQueryFormat      = errors.New("invalid query format")
	ErrNotConnected     = errors.New("connection is closed")
)
