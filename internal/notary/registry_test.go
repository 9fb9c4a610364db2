package notary

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStaticRegistry(t *testing.T) {
	r := NewStaticRegistry(map[string]time.Time{
		"20481733": day(2027, time.June, 1),
	})

	active, err := r.LookupCommission(context.Background(), "20481733", day(2024, time.March, 14))
	require.NoError(t, err)
	assert.Equal(t, StatusActive, active.Status)
	assert.Equal(t, day(2027, time.June, 1), active.ExpirationDate)

	expired, err := r.LookupCommission(context.Background(), "20481733", day(2028, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, expired.Status)

	missing, err := r.LookupCommission(context.Background(), "99999999", day(2024, time.March, 14))
	require.NoError(t, err)
	assert.Equal(t, StatusNotFound, missing.Status)
}

func TestStaticRegistryActiveOnExpirationDate(t *testing.T) {
	r := NewStaticRegistry(map[string]time.Time{"20481733": day(2027, time.June, 1)})

	rec, err := r.LookupCommission(context.Background(), "20481733", day(2027, time.June, 1))
	require.NoError(t, err)
	assert.Equal(t, StatusActive, rec.Status)
}

func TestUnavailableLookup(t *testing.T) {
	_, err := UnavailableLookup{}.LookupCommission(context.Background(), "20481733", day(2024, time.March, 14))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func openTestRegistry(t *testing.T) *SQLiteRegistry {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r, err := OpenSQLiteRegistry(context.Background(), filepath.Join(t.TempDir(), "roster.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestSQLiteRegistryLookup(t *testing.T) {
	ctx := context.Background()
	r := openTestRegistry(t)

	require.NoError(t, r.Upsert(ctx, "20481733", "Karen L. Vasquez", "FRANKLIN", day(2027, time.June, 1)))

	rec, err := r.LookupCommission(ctx, "20481733", day(2024, time.March, 14))
	require.NoError(t, err)
	assert.Equal(t, StatusActive, rec.Status)
	assert.Equal(t, day(2027, time.June, 1), rec.ExpirationDate)

	rec, err = r.LookupCommission(ctx, "20481733", day(2027, time.June, 2))
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, rec.Status)
}

func TestSQLiteRegistryNotFoundIsARecord(t *testing.T) {
	ctx := context.Background()
	r := openTestRegistry(t)

	rec, err := r.LookupCommission(ctx, "00000000", day(2024, time.March, 14))
	require.NoError(t, err)
	assert.Equal(t, StatusNotFound, rec.Status)
	assert.Equal(t, "00000000", rec.Number)
}

func TestSQLiteRegistryUpsertRefreshes(t *testing.T) {
	ctx := context.Background()
	r := openTestRegistry(t)

	require.NoError(t, r.Upsert(ctx, "20481733", "Karen L. Vasquez", "FRANKLIN", day(2025, time.January, 1)))
	require.NoError(t, r.Upsert(ctx, "20481733", "Karen L. Vasquez", "FRANKLIN", day(2029, time.January, 1)))

	rec, err := r.LookupCommission(ctx, "20481733", day(2026, time.August, 29))
	require.NoError(t, err)
	assert.Equal(t, StatusActive, rec.Status)
	assert.Equal(t, day(2029, time.January, 1), rec.ExpirationDate)
}

func TestSQLiteRegistryClosedIsUnavailable(t *testing.T) {
	ctx := context.Background()
	r := openTestRegistry(t)
	require.NoError(t, r.Close())

	_, err := r.LookupCommission(ctx, "20481733", day(2024, time.March, 14))
	assert.ErrorIs(t, err, ErrUnavailable)
}
