package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"tableadmin/internal/logger"
	"tableadmin/pkg/config"
)

// Pool is the process wide connection pool together with the dialect of the
// engine behind it. It is created once at startup and shared by all requests.
type Pool struct {
	DB      *sql.DB
	Dialect Dialect
	Driver  string
}

// Open opens a pool for driver and waits up to timeoutSec for the store to
// answer a ping. Only this startup check is retried; statements are not.
func Open(driver, dsn string, timeoutSec int) (*Pool, error) {
	driver = config.NormalizeDriver(driver)
	dialect, ok := Lookup(driver)
	if !ok {
		return nil, fmt.Errorf("dialect not registered: %q (available: %v)", driver, RegisteredDialects())
	}
	if a, ok := dialect.(DSNAdjuster); ok {
		adjusted, err := a.AdjustDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("invalid %s dsn: %w", driver, err)
		}
		dsn = adjusted
	}
	dbConn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
	defer cancel()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxElapsedTime = time.Duration(timeoutSec) * time.Second
	attempt := 0
	err = backoff.Retry(func() error {
		attempt++
		if err := dbConn.PingContext(ctx); err != nil {
			logger.Warn("ping %s (attempt %d): %v", driver, attempt, err)
			return err
		}
		return nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	return &Pool{DB: dbConn, Dialect: dialect, Driver: driver}, nil
}

// Query implements Executor.
func (p *Pool) Query(ctx context.Context, query string, args ...any) (*Result, error) {
	rs, err := p.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rs.Close()
	return scanRows(rs)
}

// Exec implements Executor.
func (p *Pool) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return p.DB.ExecContext(ctx, query, args...)
}

// Close closes the underlying pool.
func (p *Pool) Close() error {
	return p.DB.Close()
}
