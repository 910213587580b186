// Package pool abstracts pgx connection pools behind interfaces.
//
// Repositories depend on these interfaces rather than on *pgxpool.Pool,
// so that they can run on a pool, an acquired connection or a transaction alike.
package pool

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Queryer sends SQL.
//
// This is the subset of methods shared by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type Queryer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Begin begins SQL transactions.
type Begin interface {
	Begin(ctx context.Context) (Tx, error)
}

// BeginTx begins SQL transactions with options.
type BeginTx interface {
	Begin
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (Tx, error)
}

// Tx is a transaction.
//
// pgx.Tx does not implement Tx because its Begin returns pgx.Tx.
// Get Tx by Begin of Pool, Conn or Tx of this package.
type Tx interface {
	Queryer
	Begin

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Conn is an acquired connection.
type Conn interface {
	Queryer
	BeginTx

	Ping(ctx context.Context) error
	Release()
}

// Pool is a connection pool.
type Pool interface {
	Queryer
	BeginTx

	Acquire(ctx context.Context) (Conn, error)
	Ping(ctx context.Context) error
	Close()
}

// Wrap makes *pgxpool.Pool a Pool.
func Wrap(p *pgxpool.Pool) Pool {
	return &pgxPool{base: p}
}

// ConnectOption modifies the pool configuration parsed from url.
type ConnectOption func(*pgxpool.Config)

// WithTimeZone sets the TimeZone parameter of every session.
//
// "" and "Local" keep the default of the server.
func WithTimeZone(name string) ConnectOption {
	return func(c *pgxpool.Config) {
		if name == "" || name == "Local" {
			return
		}
		c.ConnConfig.RuntimeParams["timezone"] = name
	}
}

// ParseConfig parses url and applies options.
func ParseConfig(url string, options ...ConnectOption) (*pgxpool.Config, error) {
	c, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, err
	}
	if c.ConnConfig.RuntimeParams == nil {
		c.ConnConfig.RuntimeParams = map[string]string{}
	}
	for _, o := range options {
		o(c)
	}
	return c, nil
}

// Connect opens a pool to url.
func Connect(ctx context.Context, url string, options ...ConnectOption) (Pool, error) {
	c, err := ParseConfig(url, options...)
	if err != nil {
		return nil, err
	}
	p, err := pgxpool.ConnectConfig(ctx, c)
	if err != nil {
		return nil, err
	}
	return Wrap(p), nil
}

// InTx runs f in a transaction begun on b.
//
// The transaction is committed when f returns nil, and rolled back otherwise.
func InTx(ctx context.Context, b Begin, f func(tx Tx) error) error {
	tx, err := b.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := f(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}

type pgxTx struct {
	base pgx.Tx
}

var _ Tx = &pgxTx{}

func (tx *pgxTx) Begin(ctx context.Context) (Tx, error) {
	nested, err := tx.base.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &pgxTx{base: nested}, nil
}

func (tx *pgxTx) Commit(ctx context.Context) error {
	return tx.base.Commit(ctx)
}

func (tx *pgxTx) Rollback(ctx context.Context) error {
	return tx.base.Rollback(ctx)
}

func (tx *pgxTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return tx.base.Exec(ctx, sql, arguments...)
}

func (tx *pgxTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return tx.base.Query(ctx, sql, args...)
}

func (tx *pgxTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return tx.base.QueryRow(ctx, sql, args...)
}

type pgxConn struct {
	base *pgxpool.Conn
}

var _ Conn = &pgxConn{}

func (c *pgxConn) Begin(ctx context.Context) (Tx, error) {
	tx, err := c.base.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &pgxTx{base: tx}, nil
}

func (c *pgxConn) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (Tx, error) {
	tx, err := c.base.BeginTx(ctx, txOptions)
	if err != nil {
		return nil, err
	}
	return &pgxTx{base: tx}, nil
}

func (c *pgxConn) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return c.base.Exec(ctx, sql, arguments...)
}

func (c *pgxConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return c.base.Query(ctx, sql, args...)
}

func (c *pgxConn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return c.base.QueryRow(ctx, sql, args...)
}

func (c *pgxConn) Ping(ctx context.Context) error {
	return c.base.Ping(ctx)
}

func (c *pgxConn) Release() {
	c.base.Release()
}

type pgxPool struct {
	base *pgxpool.Pool
}

var _ Pool = &pgxPool{}

func (p *pgxPool) Begin(ctx context.Context) (Tx, error) {
	tx, err := p.base.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &pgxTx{base: tx}, nil
}

func (p *pgxPool) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (Tx, error) {
	tx, err := p.base.BeginTx(ctx, txOptions)
	if err != nil {
		return nil, err
	}
	return &pgxTx{base: tx}, nil
}

func (p *pgxPool) Acquire(ctx context.Context) (Conn, error) {
	conn, err := p.base.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &pgxConn{base: conn}, nil
}

func (p *pgxPool) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return p.base.Exec(ctx, sql, arguments...)
}

func (p *pgxPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return p.base.Query(ctx, sql, args...)
}

func (p *pgxPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return p.base.QueryRow(ctx, sql, args...)
}

func (p *pgxPool) Ping(ctx context.Context) error {
	return p.base.Ping(ctx)
}

func (p *pgxPool) Close() {
	p.base.Close()
}
