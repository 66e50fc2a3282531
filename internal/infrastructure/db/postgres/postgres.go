// Package postgres is the relational store for users and races. It expects
// the users and races tables to exist.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultMaxConns = 10
)

// Config captures the settings for opening the connection pool.
type Config struct {
	DSN      string
	MaxConns int
	Timeout  time.Duration
}

// Connect opens a pool through the pgx stdlib driver and pings it.
func Connect(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}

	db, err := sqlx.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return db, nil
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// query accumulates a WHERE clause with positional placeholders.
type query struct {
	conds []string
	args  []any
}

func (q *query) where(cond string, arg any) {
	q.args = append(q.args, arg)
	q.conds = append(q.conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(q.args))))
}

// next returns the placeholder for an extra argument.
func (q *query) next(arg any) string {
	q.args = append(q.args, arg)
	return "$" + strconv.Itoa(len(q.args))
}

func (q *query) clause() string {
	if len(q.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}

// assignments builds a SET list with positional placeholders.
type assignments struct {
	cols []string
	args []any
}

func (a *assignments) set(col string, arg any) {
	a.args = append(a.args, arg)
	a.cols = append(a.cols, col+" = $"+strconv.Itoa(len(a.args)))
}

func (a *assignments) String() string { return strings.Join(a.cols, ", ") }

// idArg is the placeholder for the row id following the SET arguments.
func (a *assignments) idArg(id string) string {
	a.args = append(a.args, id)
	return "$" + strconv.Itoa(len(a.args))
}
