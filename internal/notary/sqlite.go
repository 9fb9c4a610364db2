package notary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRegistry backs Lookup with a commission roster distributed as a
// SQLite file, the form jurisdictions publish their rosters in for offline
// verification. Query failures are reported as ErrUnavailable; an unknown
// commission number is a NOT_FOUND record, not an error.
type SQLiteRegistry struct {
	db     *sql.DB
	logger *slog.Logger
}

const registrySchema = `
CREATE TABLE IF NOT EXISTS commissions (
    number      TEXT PRIMARY KEY,
    notary_name TEXT NOT NULL DEFAULT '',
    county      TEXT NOT NULL DEFAULT '',
    expires_on  TEXT NOT NULL -- YYYY-MM-DD
);`

// OpenSQLiteRegistry opens (or creates) a roster database at path. Use
// ":memory:" for an ephemeral registry.
func OpenSQLiteRegistry(ctx context.Context, path string, logger *slog.Logger) (*SQLiteRegistry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open registry %q: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping registry %q: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, registrySchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init registry schema: %w", err)
	}
	return &SQLiteRegistry{db: db, logger: logger}, nil
}

func (r *SQLiteRegistry) Close() error { return r.db.Close() }

// Upsert loads or refreshes one roster row.
func (r *SQLiteRegistry) Upsert(ctx context.Context, number, notaryName, county string, expiresOn time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO commissions (number, notary_name, county, expires_on)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(number) DO UPDATE SET
		   notary_name = excluded.notary_name,
		   county      = excluded.county,
		   expires_on  = excluded.expires_on`,
		number, notaryName, county, expiresOn.Format("2006-01-02"))
	if err != nil {
		return fmt.Errorf("upsert commission %s: %w", number, err)
	}
	return nil
}

func (r *SQLiteRegistry) LookupCommission(ctx context.Context, commissionNumber string, asOf time.Time) (Commission, error) {
	var expStr string
	err := r.db.QueryRowContext(ctx,
		`SELECT expires_on FROM commissions WHERE number = ?`, commissionNumber).Scan(&expStr)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return Commission{Number: commissionNumber, Status: StatusNotFound}, nil
	case err != nil:
		r.logger.Warn("registry query failed", "commission", commissionNumber, "error", err)
		return Commission{}, fmt.Errorf("query commission %s: %v: %w", commissionNumber, err, ErrUnavailable)
	}

	exp, err := time.ParseInLocation("2006-01-02", expStr, time.UTC)
	if err != nil {
		return Commission{}, fmt.Errorf("malformed expires_on %q for %s: %v: %w", expStr, commissionNumber, err, ErrUnavailable)
	}

	status := StatusActive
	if exp.Before(asOf) {
		status = StatusExpired
	}
	return Commission{Number: commissionNumber, Status: status, ExpirationDate: exp}, nil
}
