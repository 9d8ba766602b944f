package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ironsheep/color-legend-util/internal/imaging"
	_ "modernc.org/sqlite" // Register the sqlite driver
)

// ErrNotFound is returned when no record has the requested name.
var ErrNotFound = errors.New("image record not found")

// Config holds database configuration.
type Config struct {
	Path string
}

// Record is one image and its optional legend bounding box.
type Record struct {
	ID   int64
	Name string
	X1   *float64
	Y1   *float64
	X2   *float64
	Y2   *float64
}

// LegendBoundingBox returns the legend box, or nil unless all four
// coordinates are set.
func (r *Record) LegendBoundingBox() *imaging.BoundingBox {
	if r.X1 == nil || r.Y1 == nil || r.X2 == nil || r.Y2 == nil {
		return nil
	}
	return &imaging.BoundingBox{X1: *r.X1, Y1: *r.Y1, X2: *r.X2, Y2: *r.Y2}
}

// SetLegendBoundingBox sets all four coordinates from box, or clears them
// when box is nil.
func (r *Record) SetLegendBoundingBox(box *imaging.BoundingBox) {
	if box == nil {
		r.X1, r.Y1, r.X2, r.Y2 = nil, nil, nil, nil
		return
	}
	x1, y1, x2, y2 := box.X1, box.Y1, box.X2, box.Y2
	r.X1, r.Y1, r.X2, r.Y2 = &x1, &y1, &x2, &y2
}

const schema = `
	CREATE TABLE IF NOT EXISTS image_records (
		id   INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		x1   REAL NULL,
		y1   REAL NULL,
		x2   REAL NULL,
		y2   REAL NULL
	)
`

// Store is the SQLite-backed record repository.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at cfg.Path and applies the schema.
func Open(cfg Config) (*Store, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create image_records table: %w", err)
	}

	log.Printf("Database initialized successfully: %s", cfg.Path)
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// List returns all records ordered by name.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, x1, y1, x2, y2 FROM image_records ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query image records: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate image records: %w", err)
	}
	return records, nil
}

// Get returns the record named name, or ErrNotFound.
func (s *Store) Get(ctx context.Context, name string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, name, x1, y1, x2, y2 FROM image_records WHERE name = ?", name)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// BoundingBox returns the legend box recorded for name. The box is nil when
// the record exists but has no complete box.
func (s *Store) BoundingBox(ctx context.Context, name string) (*imaging.BoundingBox, error) {
	rec, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return rec.LegendBoundingBox(), nil
}

// Upsert creates the record, or replaces the bounding box of the existing
// record with the same name.
func (s *Store) Upsert(ctx context.Context, rec Record) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return upsert(ctx, tx, rec)
	})
}

// Count returns the number of records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM image_records").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count image records: %w", err)
	}
	return n, nil
}

func upsert(ctx context.Context, tx *sql.Tx, rec Record) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO image_records (name, x1, y1, x2, y2) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			x1 = excluded.x1, y1 = excluded.y1, x2 = excluded.x2, y2 = excluded.y2`,
		rec.Name, rec.X1, rec.Y1, rec.X2, rec.Y2)
	if err != nil {
		return fmt.Errorf("failed to upsert image record %q: %w", rec.Name, err)
	}
	return nil
}

// withTx executes fn within a transaction.
func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		rec            Record
		x1, y1, x2, y2 sql.NullFloat64
	)
	if err := row.Scan(&rec.ID, &rec.Name, &x1, &y1, &x2, &y2); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan image record: %w", err)
	}
	rec.X1, rec.Y1, rec.X2, rec.Y2 = nullable(x1), nullable(y1), nullable(x2), nullable(y2)
	return &rec, nil
}

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
