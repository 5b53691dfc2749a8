package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/okian/readiness/internal/domain/model"
	_ "modernc.org/sqlite"
)

// SQLiteStore is a Store backed by a SQLite database file.
type SQLiteStore struct {
	db     *sql.DB
	closed atomic.Bool
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the database at path and runs
// migrations. Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection: SQLite serialises writers and ":memory:" is per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enabling WAL: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// migrate creates the schema.
func migrate(ctx context.Context, db *sql.DB) error {
	migrations := []string{
		// One report per athlete per day; sub-scores are NULL when absent.
		`CREATE TABLE IF NOT EXISTS wellness (
			athlete_id TEXT NOT NULL,
			day TEXT NOT NULL,
			sleep_quality REAL,
			fatigue REAL,
			muscle_soreness REAL,
			stress REAL,
			mood REAL,
			sleep_hours REAL,
			comment TEXT NOT NULL DEFAULT '',
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (athlete_id, day)
		)`,

		`CREATE TABLE IF NOT EXISTS load_entries (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			athlete_id TEXT NOT NULL,
			day TEXT NOT NULL,
			rpe REAL NOT NULL,
			duration_minutes REAL NOT NULL,
			explicit_load REAL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_wellness_day ON wellness(day)`,
		`CREATE INDEX IF NOT EXISTS idx_load_entries_athlete_day ON load_entries(athlete_id, day)`,
	}

	for _, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) UpsertWellness(ctx context.Context, r model.WellnessReport) (err error) {
	defer func(start time.Time) { observe("upsert_wellness", start, err) }(time.Now())
	if s.closed.Load() {
		return ErrClosed
	}
	if err := checkWellness(r); err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO wellness (athlete_id, day, sleep_quality, fatigue, muscle_soreness, stress, mood, sleep_hours, comment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (athlete_id, day) DO UPDATE SET
			sleep_quality = excluded.sleep_quality,
			fatigue = excluded.fatigue,
			muscle_soreness = excluded.muscle_soreness,
			stress = excluded.stress,
			mood = excluded.mood,
			sleep_hours = excluded.sleep_hours,
			comment = excluded.comment,
			updated_at = CURRENT_TIMESTAMP`,
		r.AthleteID, r.Date.String(),
		nullScore(r.SleepQuality), nullScore(r.Fatigue), nullScore(r.MuscleSoreness),
		nullScore(r.Stress), nullScore(r.Mood),
		nullHours(r.SleepHours), r.Comment,
	)
	if err != nil {
		return fmt.Errorf("upserting wellness: %w", err)
	}
	return nil
}

func (s *SQLiteStore) AddLoad(ctx context.Context, e model.LoadEntry) (out model.LoadEntry, err error) {
	defer func(start time.Time) { observe("add_load", start, err) }(time.Now())
	if s.closed.Load() {
		return e, ErrClosed
	}
	e, err = prepareLoad(e)
	if err != nil {
		return e, err
	}

	var explicit sql.NullFloat64
	if e.Load != nil {
		explicit = sql.NullFloat64{Float64: *e.Load, Valid: true}
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO load_entries (id, athlete_id, day, rpe, duration_minutes, explicit_load)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.AthleteID, e.Date.String(), e.RPE, e.DurationMinutes, explicit,
	)
	if err != nil {
		return e, fmt.Errorf("inserting load entry: %w", err)
	}
	return e, nil
}

func (s *SQLiteStore) Wellness(ctx context.Context, athleteID string, from, to model.Date) (out []model.WellnessReport, err error) {
	defer func(start time.Time) { observe("wellness", start, err) }(time.Now())
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if err := checkRange(from, to); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT athlete_id, day, sleep_quality, fatigue, muscle_soreness, stress, mood, sleep_hours, comment
		FROM wellness
		WHERE athlete_id = ? AND day >= ? AND day < ?
		ORDER BY day`,
		athleteID, from.String(), to.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("querying wellness: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			r                           model.WellnessReport
			day                         string
			sq, fat, sore, stress, mood sql.NullFloat64
			hours                       sql.NullFloat64
		)
		if err := rows.Scan(&r.AthleteID, &day, &sq, &fat, &sore, &stress, &mood, &hours, &r.Comment); err != nil {
			return nil, fmt.Errorf("scanning wellness: %w", err)
		}
		if r.Date, err = model.ParseDate(day); err != nil {
			return nil, fmt.Errorf("scanning wellness day %q: %w", day, err)
		}
		r.SleepQuality = scoreOf(sq)
		r.Fatigue = scoreOf(fat)
		r.MuscleSoreness = scoreOf(sore)
		r.Stress = scoreOf(stress)
		r.Mood = scoreOf(mood)
		if hours.Valid {
			r.SleepHours = model.HoursOf(hours.Float64)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Loads(ctx context.Context, athleteID string, from, to model.Date) (out []model.LoadEntry, err error) {
	defer func(start time.Time) { observe("loads", start, err) }(time.Now())
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if err := checkRange(from, to); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, athlete_id, day, rpe, duration_minutes, explicit_load
		FROM load_entries
		WHERE athlete_id = ? AND day >= ? AND day < ?
		ORDER BY day, seq`,
		athleteID, from.String(), to.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("querying loads: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			e        model.LoadEntry
			day      string
			explicit sql.NullFloat64
		)
		if err := rows.Scan(&e.ID, &e.AthleteID, &day, &e.RPE, &e.DurationMinutes, &explicit); err != nil {
			return nil, fmt.Errorf("scanning load entry: %w", err)
		}
		if e.Date, err = model.ParseDate(day); err != nil {
			return nil, fmt.Errorf("scanning load day %q: %w", day, err)
		}
		if explicit.Valid {
			v := explicit.Float64
			e.Load = &v
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Athletes(ctx context.Context, from, to model.Date) (ids []string, err error) {
	defer func(start time.Time) { observe("athletes", start, err) }(time.Now())
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if err := checkRange(from, to); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT athlete_id FROM wellness
		WHERE day >= ? AND day < ?
		ORDER BY athlete_id`,
		from.String(), to.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("querying athletes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning athlete: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) Count(ctx context.Context) (Counts, error) {
	if s.closed.Load() {
		return Counts{}, ErrClosed
	}
	var c Counts
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM (SELECT athlete_id FROM wellness UNION SELECT athlete_id FROM load_entries)),
			(SELECT COUNT(*) FROM wellness),
			(SELECT COUNT(*) FROM load_entries)`,
	).Scan(&c.Athletes, &c.Wellness, &c.Loads)
	if err != nil {
		return Counts{}, fmt.Errorf("counting records: %w", err)
	}
	return c, nil
}

// Close closes the database; later calls fail with ErrClosed.
func (s *SQLiteStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := s.db.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		return err
	}
	return nil
}

// nullScore keeps the tri-state: NULL for absent, 0 for a literal zero.
func nullScore(s model.SubScore) sql.NullFloat64 {
	switch s.Presence() {
	case model.Reported:
		v, _ := s.Value()
		return sql.NullFloat64{Float64: v, Valid: true}
	case model.ZeroAsAbsent:
		return sql.NullFloat64{Valid: true}
	default:
		return sql.NullFloat64{}
	}
}

func scoreOf(n sql.NullFloat64) model.SubScore {
	if !n.Valid {
		return model.SubScore{}
	}
	return model.Score(n.Float64)
}

func nullHours(h model.Hours) sql.NullFloat64 {
	v, ok := h.Value()
	return sql.NullFloat64{Float64: v, Valid: ok}
}
