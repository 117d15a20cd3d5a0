package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/securegate/admin-portal/internal/sequence"
)

// nextCode issues the next code of gen's prefix for the current year. The
// transaction-scoped advisory lock serializes concurrent creators of the same
// prefix until the caller's insert commits.
func (p *PortalDB) nextCode(ctx context.Context, tx *sql.Tx, table string, gen *sequence.Generator) (string, error) {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, table+":"+gen.Prefix); err != nil {
		return "", fmt.Errorf("error locking %s sequence: %w", gen.Prefix, err)
	}

	year := sequence.YearTag(p.now())
	rows, err := tx.QueryContext(ctx, `SELECT code FROM `+table+` WHERE code LIKE $1`, gen.LikePattern(year))
	if err != nil {
		return "", fmt.Errorf("error retrieving existing codes: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return "", fmt.Errorf("error scanning code: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	return gen.Next(codes, year), nil
}
