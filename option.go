package entity

import "log/slog"

type RepositoryOption[T any] func(o *option[T])

type option[T any] struct {
	initValues []T
	logger     *slog.Logger
}

// InitWith returns a RepositoryOption that inserts values when the
// repository is created. Values whose key already exists are skipped.
func InitWith[T any](values ...T) RepositoryOption[T] {
	return func(o *option[T]) {
		o.initValues = values
	}
}

// WithLogger returns a RepositoryOption that sets the logger used to report
// swallowed query failures.
func WithLogger[T any](logger *slog.Logger) RepositoryOption[T] {
	return func(o *option[T]) {
		o.logger = logger
	}
}

type ConnectionOption func(c *Connection)

// WithConnectionLogger sets the logger a Connection writes executed
// statements to at debug level.
func WithConnectionLogger(logger *slog.Logger) ConnectionOption {
	return func(c *Connection) {
		c.logger = logger
	}
}

type InsertOption func(o *insertOption)

type insertOption struct {
	annotated bool
}

// WithAnnotatedNames makes BuildInsert use the DBTable name and the db tag
// column names instead of the type and field names.
func WithAnnotatedNames() InsertOption {
	return func(o *insertOption) {
		o.annotated = true
	}
}
