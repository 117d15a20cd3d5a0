package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned by updates and deletes that matched no active row.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists is returned when an active row with the same key exists.
var ErrAlreadyExists = errors.New("record already exists")

type PortalDB struct {
	DB  *sql.DB
	Log *zerolog.Logger
	now func() time.Time
}

// NewPortalDB opens the database and checks the connection is usable
func NewPortalDB(driver, dsn string, log *zerolog.Logger) (*PortalDB, error) {
	if dsn == "" {
		log.Error().Msg("database connection string is not set")
		return nil, fmt.Errorf("database connection string is not set")
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open database connection")
		return nil, err
	}

	// Check we are actually connected
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("Database connection failed during ping")
		db.Close()
		return nil, err
	}

	return NewPortalDBFromConn(db, log), nil
}

// NewPortalDBFromConn wraps an already opened connection pool
func NewPortalDBFromConn(db *sql.DB, log *zerolog.Logger) *PortalDB {
	return &PortalDB{DB: db, Log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Ping checks the database is reachable
func (p *PortalDB) Ping(ctx context.Context) error {
	return p.DB.PingContext(ctx)
}

func (p *PortalDB) Close() error {
	if err := p.DB.Close(); err != nil {
		return err
	}
	p.Log.Info().Msg("database connection closed")
	return nil
}

// withTx runs fn inside a transaction, rolling back if fn fails
func (p *PortalDB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if p.DB == nil {
		return fmt.Errorf("database connection is not established")
	}

	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			p.Log.Error().Err(rbErr).Msg("error rolling back transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

func (p *PortalDB) execQuery(ctx context.Context, tx *sql.Tx, query string, args ...interface{}) (int64, error) {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute query: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}

// execOne runs a single statement that must touch exactly one active row
func (p *PortalDB) execOne(ctx context.Context, query string, args ...interface{}) error {
	res, err := p.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
