package entity

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	mssql "github.com/microsoft/go-mssqldb"
)

type PGConfig struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

type SQLServerConfig struct {
	Host     string
	Port     string
	Instance string
	Database string
	User     string
	Password string
}

func ConnectPostgresql(config PGConfig) (*sqlx.DB, error) {
	connStr := fmt.Sprintf("postgres://%s@%s/%s?sslmode=disable",
		url.UserPassword(config.User, config.Password), hostPort(config.Host, config.Port), config.Database)
	return sqlx.Open("pgx", connStr)
}

func ConnectSQLServer(config SQLServerConfig) (*sqlx.DB, error) {
	query := url.Values{}
	if config.Database != "" {
		query.Set("database", config.Database)
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(config.User, config.Password),
		Host:     hostPort(config.Host, config.Port),
		Path:     config.Instance,
		RawQuery: query.Encode(),
	}

	return sqlx.Open("sqlserver", u.String())
}

func hostPort(host, port string) string {
	if port == "" {
		return host
	}

	return net.JoinHostPort(host, port)
}

// Connection runs queries and statements on a sqlx database. It implements
// Querier and Executor.
type Connection struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewConnection(db *sqlx.DB, options ...ConnectionOption) *Connection {
	c := &Connection{
		db:     db,
		logger: slog.Default(),
	}

	for _, op := range options {
		op(c)
	}

	return c
}

// Open opens a database with sqlx and wraps it in a Connection.
func Open(driverName, dataSourceName string, options ...ConnectionOption) (*Connection, error) {
	db, err := sqlx.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}

	return NewConnection(db, options...), nil
}

func (c *Connection) DB() *sqlx.DB {
	return c.db
}

func (c *Connection) Close() error {
	if c.db == nil {
		return ErrNotConnected
	}

	err := c.db.Close()
	c.db = nil
	return err
}

// QueryTable runs query and loads every row into a Table.
func (c *Connection) QueryTable(ctx context.Context, query string) (Table, error) {
	if c.db == nil {
		return Table{}, ErrNotConnected
	}

	c.logger.Debug("query table", "query", query)

	rows, err := c.db.QueryxContext(ctx, query)
	if err != nil {
		return Table{}, wrapSQLError(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return Table{}, wrapSQLError(err)
	}

	var dbTypes []string
	if colTypes, err := rows.ColumnTypes(); err == nil {
		dbTypes = Map(colTypes, func(ct *sql.ColumnType) string {
			return ct.DatabaseTypeName()
		})
	}

	tb := Table{Columns: columns}
	for rows.Next() {
		cells, err := rows.SliceScan()
		if err != nil {
			return Table{}, wrapSQLError(err)
		}

		for i := range cells {
			if i < len(dbTypes) {
				cells[i] = normalizeCell(dbTypes[i], cells[i])
			}
		}

		tb.Rows = append(tb.Rows, cells)
	}

	if err := rows.Err(); err != nil {
		return Table{}, wrapSQLError(err)
	}

	return tb, nil
}

// ExecStatement executes stmt as is.
func (c *Connection) ExecStatement(ctx context.Context, stmt string) (bool, error) {
	if c.db == nil {
		return false, ErrNotConnected
	}

	c.logger.Debug("exec statement", "statement", stmt)

	if _, err := c.db.ExecContext(ctx, stmt); err != nil {
		return false, wrapSQLError(err)
	}

	return true, nil
}

// Insert writes entity with a parameterized statement bound for the
// connection's driver.
func (c *Connection) Insert(ctx context.Context, entity any) error {
	if c.db == nil {
		return ErrNotConnected
	}

	qry, args, err := BuildParameterizedInsert(entity)
	if err != nil {
		return err
	}

	qry = c.db.Rebind(qry)
	c.logger.Debug("insert", "statement", qry)

	if _, err := c.db.ExecContext(ctx, qry, args...); err != nil {
		return wrapSQLError(err)
	}

	return nil
}

// normalizeCell turns SQL Server uniqueidentifier bytes, which are stored
// with mixed endianness, into their canonical text form.
func normalizeCell(dbType string, cell any) any {
	if !strings.EqualFold(dbType, "UNIQUEIDENTIFIER") {
		return cell
	}

	var id mssql.UniqueIdentifier
	if err := id.Scan(cell); err != nil {
		return cell
	}

	return id.String()
}
