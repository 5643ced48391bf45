package entity

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
)

// Querier runs a query and returns its rows as a Table.
type Querier interface {
	QueryTable(ctx context.Context, query string) (Table, error)
}

// Executor executes a statement.
type Executor interface {
	ExecStatement(ctx context.Context, stmt string) (bool, error)
}

type Connector interface {
	Querier
	Executor
}

// GetDataByQuery formats queryFormat with params (see FormatQuery), runs it
// on q and hydrates the rows into T. Without params the query is used as is.
//
// Query failures never reach the caller: a bad format or a failing query
// yields an empty slice and is logged at warn level. Only conversion errors
// from Hydrate are returned.
func GetDataByQuery[T any](ctx context.Context, q Querier, queryFormat string, params ...string) ([]T, error) {
	return getDataByQuery[T](ctx, q, slog.Default(), queryFormat, params...)
}

func getDataByQuery[T any](ctx context.Context, q Querier, logger *slog.Logger, queryFormat string, params ...string) ([]T, error) {
	result := []T{}

	query := queryFormat
	if len(params) > 0 {
		var err error
		if query, err = FormatQuery(queryFormat, params...); err != nil {
			logger.Warn("query discarded", "query", queryFormat, "error", err)
			return result, nil
		}
	}

	tb, err := q.QueryTable(ctx, query)
	if err != nil {
		logger.Warn("query failed", "query", query, "error", err)
		return result, nil
	}

	values, err := Hydrate[T](tb)
	if err != nil {
		return result, err
	}

	return append(result, values...), nil
}

// AddEntry builds the literal insert statement of value (see BuildInsert)
// and executes it. Execution errors are returned unchanged in message;
// duplicate keys match ErrKeyAlreadyExists.
func AddEntry[T any](ctx context.Context, ex Executor, value T, options ...InsertOption) (bool, error) {
	stmt, err := BuildInsert(value, options...)
	if err != nil {
		return false, err
	}

	return ex.ExecStatement(ctx, stmt)
}

type Repository[T any] interface {
	GetDataByQuery(ctx context.Context, queryFormat string, params ...string) ([]T, error)
	AddEntry(ctx context.Context, value T) (bool, error)
	EntityType() *EntityType
}

type repository[T any] struct {
	conn       Connector
	entityType *EntityType
	logger     *slog.Logger
}

// CreateRepository binds T to conn. T must be a struct or a pointer to one.
func CreateRepository[T any](conn Connector, options ...RepositoryOption[T]) (Repository[T], error) {
	opt := &option[T]{
		logger: slog.Default(),
	}
	for _, op := range options {
		op(opt)
	}

	et, err := Describe(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, err
	}

	repo := &repository[T]{
		conn:       conn,
		entityType: et,
		logger:     opt.logger.With("entity", et.Name),
	}

	if opt.initValues != nil {
		if err := repo.init(opt.initValues); err != nil {
			return nil, err
		}
	}

	return repo, nil
}

func (r *repository[T]) init(values []T) error {
	for _, val := range values {
		if _, err := r.AddEntry(context.Background(), val); err != nil {
			if !errors.Is(err, ErrKeyAlreadyExists) {
				return err
			}
			r.logger.Info("init value already exists", "error", err)
		}
	}

	return nil
}

func (r *repository[T]) GetDataByQuery(ctx context.Context, queryFormat string, params ...string) ([]T, error) {
	return getDataByQuery[T](ctx, r.conn, r.logger, queryFormat, params...)
}

func (r *repository[T]) AddEntry(ctx context.Context, value T) (bool, error) {
	return AddEntry(ctx, r.conn, value)
}

func (r *repository[T]) EntityType() *EntityType {
	return r.entityType
}
