package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/AbdulWasayUl/go-weather-logger/internal/logger"
	"github.com/AbdulWasayUl/go-weather-logger/models"
	"github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jonboulle/clockwork"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

const legacyRawColumn = "api_response"

var recordColumns = []string{
	"id", "city_name", "temperature", "humidity", "weather_condition", "timestamp", "raw_response",
}

// SQLiteStore keeps the weather log in a single SQLite file. Every call opens
// and closes its own connection.
type SQLiteStore struct {
	path  string
	clock clockwork.Clock
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a store backed by the file at path. A nil clock
// means wall-clock time.
func NewSQLiteStore(path string, clock clockwork.Clock) *SQLiteStore {
	return &SQLiteStore{
		path:  path,
		clock: clockOrReal(clock),
	}
}

func (s *SQLiteStore) open(ctx context.Context) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, err
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// Initialize applies the embedded schema migration and checks that the
// resulting table has every column the store reads and writes. A table left by
// the older weather_data.db layout, which named the payload column
// api_response, is renamed in place first.
func (s *SQLiteStore) Initialize(ctx context.Context) error {
	conn, err := s.open(ctx)
	if err != nil {
		return initErr(err)
	}

	if err := prepareExistingTable(ctx, conn); err != nil {
		conn.Close()
		return initErr(err)
	}

	driver, err := sqlite.WithInstance(conn, &sqlite.Config{})
	if err != nil {
		conn.Close()
		return initErr(err)
	}
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		conn.Close()
		return initErr(err)
	}
	migrator, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		conn.Close()
		return initErr(err)
	}
	// Closing the migrator also closes conn.
	defer migrator.Close()

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return initErr(err)
	}

	if err := s.verifySchema(ctx); err != nil {
		return initErr(err)
	}
	logger.Debug("SQLite schema ready at %s", s.path)
	return nil
}

// prepareExistingTable brings a table created outside the migrations in line
// with the current layout, or reports why it cannot be used.
func prepareExistingTable(ctx context.Context, conn *sql.DB) error {
	cols, err := tableColumns(ctx, conn)
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		return nil
	}
	if cols[legacyRawColumn] && !cols["raw_response"] {
		logger.Info("Renaming %s.%s to raw_response", logsTable, legacyRawColumn)
		stmt := "ALTER TABLE " + logsTable + " RENAME COLUMN " + legacyRawColumn + " TO raw_response"
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return err
		}
		delete(cols, legacyRawColumn)
		cols["raw_response"] = true
	}
	return checkColumns(cols)
}

func (s *SQLiteStore) verifySchema(ctx context.Context) error {
	conn, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	cols, err := tableColumns(ctx, conn)
	if err != nil {
		return err
	}
	return checkColumns(cols)
}

func checkColumns(cols map[string]bool) error {
	var missing []string
	for _, c := range recordColumns {
		if !cols[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("table %s is missing columns: %s", logsTable, strings.Join(missing, ", "))
	}
	return nil
}

// tableColumns returns the column names of the log table; empty when the
// table does not exist yet.
func tableColumns(ctx context.Context, conn *sql.DB) (map[string]bool, error) {
	rows, err := conn.QueryContext(ctx, "PRAGMA table_info("+logsTable+")")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := map[string]bool{}
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, colType    string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

func (s *SQLiteStore) Append(ctx context.Context, rec models.WeatherRecord) (int64, error) {
	if rec.Timestamp == "" {
		rec.Timestamp = s.clock.Now().Local().Format(TimestampLayout)
	}

	query, args, err := squirrel.Insert(logsTable).
		Columns(recordColumns[1:]...).
		Values(rec.CityName, rec.Temperature, rec.Humidity, rec.WeatherCondition, rec.Timestamp, rec.RawResponse).
		ToSql()
	if err != nil {
		return 0, writeErr(err)
	}

	conn, err := s.open(ctx)
	if err != nil {
		return 0, writeErr(err)
	}
	defer conn.Close()

	res, err := conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, writeErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, writeErr(err)
	}
	return id, nil
}

func (s *SQLiteStore) History(ctx context.Context, city string, limit int) ([]models.WeatherRecord, error) {
	q := squirrel.Select(recordColumns...).
		From(logsTable).
		OrderBy("timestamp DESC", "id DESC").
		Limit(uint64(normalizeLimit(limit)))
	if city != "" {
		q = q.Where(squirrel.Eq{"city_name": city})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, readErr(err)
	}

	conn, err := s.open(ctx)
	if err != nil {
		return nil, readErr(err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, readErr(err)
	}
	defer rows.Close()

	records := []models.WeatherRecord{}
	for rows.Next() {
		var rec models.WeatherRecord
		if err := rows.Scan(&rec.ID, &rec.CityName, &rec.Temperature, &rec.Humidity,
			&rec.WeatherCondition, &rec.Timestamp, &rec.RawResponse); err != nil {
			return nil, readErr(err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, readErr(err)
	}
	return records, nil
}

func (s *SQLiteStore) Aggregate(ctx context.Context, city string) (*models.CityStats, error) {
	query, args, err := squirrel.Select(
		"COUNT(*)", "AVG(temperature)", "AVG(humidity)", "MIN(temperature)", "MAX(temperature)",
	).From(logsTable).Where(squirrel.Eq{"city_name": city}).ToSql()
	if err != nil {
		return nil, readErr(err)
	}

	conn, err := s.open(ctx)
	if err != nil {
		return nil, readErr(err)
	}
	defer conn.Close()

	var (
		count                             int64
		avgTemp, avgHum, minTemp, maxTemp sql.NullFloat64
	)
	if err := conn.QueryRowContext(ctx, query, args...).Scan(&count, &avgTemp, &avgHum, &minTemp, &maxTemp); err != nil {
		return nil, readErr(err)
	}
	if count == 0 {
		return nil, nil
	}

	return &models.CityStats{
		CityName:    city,
		Count:       count,
		AvgTemp:     avgTemp.Float64,
		AvgHumidity: avgHum.Float64,
		MinTemp:     minTemp.Float64,
		MaxTemp:     maxTemp.Float64,
	}, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	query, args, err := squirrel.Delete(logsTable).ToSql()
	if err != nil {
		return writeErr(err)
	}

	conn, err := s.open(ctx)
	if err != nil {
		return writeErr(err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, query, args...); err != nil {
		return writeErr(err)
	}
	return nil
}

// Close is a no-op; connections never outlive a single call.
func (s *SQLiteStore) Close(ctx context.Context) error {
	return nil
}
