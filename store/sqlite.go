package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, rec Record) (string, error) {
	db, err := s.getDB()
	if err != nil {
		return "", err
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	data, err := encodePayload(rec)
	if err != nil {
		return "", fmt.Errorf("encode run %s: %w", rec.ID, err)
	}

	// SQLite stores NaN as NULL
	var fitness sql.NullFloat64
	if !math.IsNaN(rec.Fitness) {
		fitness = sql.NullFloat64{Float64: rec.Fitness, Valid: true}
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, seed, run_index, generations, fitness, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			created_at = excluded.created_at,
			seed = excluded.seed,
			run_index = excluded.run_index,
			generations = excluded.generations,
			fitness = excluded.fitness,
			payload = excluded.payload
	`, rec.ID, rec.CreatedAt.UnixNano(), int64(rec.Seed), rec.Run, rec.Generations, fitness, data)
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

const selectRun = `SELECT id, created_at, seed, run_index, generations, fitness, payload FROM runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		rec     Record
		created int64
		seed    int64
		fitness sql.NullFloat64
		data    []byte
	)
	if err := row.Scan(&rec.ID, &created, &seed, &rec.Run, &rec.Generations, &fitness, &data); err != nil {
		return Record{}, err
	}
	rec.CreatedAt = time.Unix(0, created).UTC()
	rec.Seed = uint64(seed)
	rec.Fitness = math.NaN()
	if fitness.Valid {
		rec.Fitness = fitness.Float64
	}
	if err := decodePayload(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decode run %s: %w", rec.ID, err)
	}
	return rec, nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (Record, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return Record{}, false, err
	}

	rec, err := scanRecord(db.QueryRowContext(ctx, selectRun+` WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, false, nil
		}
		return Record{}, false, err
	}
	return rec, true, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Record, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = -1
	}
	rows, err := db.QueryContext(ctx, selectRun+`
		ORDER BY fitness IS NULL, fitness DESC, created_at ASC, id ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteRun(ctx context.Context, id string) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errNotInitialized
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			run_index INTEGER NOT NULL,
			generations INTEGER NOT NULL,
			fitness REAL,
			payload BLOB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS runs_fitness ON runs (fitness);
	`)
	return err
}
