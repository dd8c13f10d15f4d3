// Package record stores enumeration runs and their products in SQLite.
package record

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/cwbudde/algo-imd/imd"
)

var ErrUnknownRun = errors.New("record: unknown run")

var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id            TEXT PRIMARY KEY,
		ord           INTEGER NOT NULL,
		frequencies   TEXT NOT NULL,
		product_count INTEGER NOT NULL,
		created_at    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		run_id       TEXT NOT NULL REFERENCES runs(id),
		seq          INTEGER NOT NULL,
		coefficients TEXT NOT NULL,
		frequency    REAL NOT NULL,
		PRIMARY KEY (run_id, seq)
	)`,
}

// Run is the metadata of one recorded enumeration.
type Run struct {
	ID           string
	Order        int
	Frequencies  []float64
	ProductCount int
	CreatedAt    time.Time
}

// Recorder writes runs into a SQLite database.
type Recorder struct {
	db   *sql.DB
	path string

	closeOnce sync.Once
	closeErr  error
}

// New opens (or creates) the database at path. An empty path picks a unique
// name. The ".sqlite3" suffix is added when missing. The recorder is closed
// automatically when the program exits through atexit.
func New(path string) (*Recorder, error) {
	if path == "" {
		path = "imd_products_" + xid.New().String()
	}

	if !strings.HasSuffix(path, ".sqlite3") {
		path += ".sqlite3"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("record: opening %s: %w", path, err)
	}

	r, err := NewWithDB(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	r.path = path

	atexit.Register(func() { _ = r.Close() })

	return r, nil
}

// NewWithDB creates a Recorder on an already opened database.
func NewWithDB(db *sql.DB) (*Recorder, error) {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("record: creating schema: %w", err)
		}
	}

	return &Recorder{db: db}, nil
}

// Path returns the database file name, or "" for NewWithDB recorders.
func (r *Recorder) Path() string {
	return r.path
}

// Record stores one run and returns its ID.
func (r *Recorder) Record(order int, freqs []float64, products imd.Products) (string, error) {
	id := xid.New().String()

	tx, err := r.db.Begin()
	if err != nil {
		return "", fmt.Errorf("record: begin: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO runs (id, ord, frequencies, product_count, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, order, formatFloats(freqs), len(products), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("record: inserting run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO products (run_id, seq, coefficients, frequency) VALUES (?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("record: preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range products {
		if _, err := stmt.Exec(id, i, formatInts(p.Coefficients), p.Frequency); err != nil {
			_ = tx.Rollback()
			return "", fmt.Errorf("record: inserting product %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("record: commit: %w", err)
	}

	return id, nil
}

// Runs lists the recorded runs, oldest first.
func (r *Recorder) Runs() ([]Run, error) {
	rows, err := r.db.Query(`SELECT id, ord, frequencies, product_count, created_at FROM runs ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("record: listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run

	for rows.Next() {
		var (
			run       Run
			freqs     string
			createdAt string
		)

		if err := rows.Scan(&run.ID, &run.Order, &freqs, &run.ProductCount, &createdAt); err != nil {
			return nil, fmt.Errorf("record: scanning run: %w", err)
		}

		if run.Frequencies, err = parseFloats(freqs); err != nil {
			return nil, err
		}

		if run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("record: run %s: %w", run.ID, err)
		}

		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// Products reads back the products of a run in enumeration order.
func (r *Recorder) Products(runID string) (imd.Products, error) {
	var count int

	err := r.db.QueryRow(`SELECT product_count FROM runs WHERE id = ?`, runID).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRun, runID)
	}

	if err != nil {
		return nil, fmt.Errorf("record: reading run %s: %w", runID, err)
	}

	rows, err := r.db.Query(`SELECT coefficients, frequency FROM products WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("record: reading products: %w", err)
	}
	defer rows.Close()

	products := make(imd.Products, 0, count)

	for rows.Next() {
		var (
			coeffs string
			p      imd.Product
		)

		if err := rows.Scan(&coeffs, &p.Frequency); err != nil {
			return nil, fmt.Errorf("record: scanning product: %w", err)
		}

		if p.Coefficients, err = parseInts(coeffs); err != nil {
			return nil, err
		}

		products = append(products, p)
	}

	return products, rows.Err()
}

// Close closes the database. It is safe to call more than once.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		r.closeErr = r.db.Close()
	})

	return r.closeErr
}

func formatFloats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}

	return strings.Join(parts, ",")
}

func parseFloats(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))

	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("record: malformed frequency list %q: %w", s, err)
		}

		out[i] = v
	}

	return out, nil
}

func formatInts(vs imd.Coefficients) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(v)
	}

	return strings.Join(parts, ",")
}

func parseInts(s string) (imd.Coefficients, error) {
	parts := strings.Split(s, ",")
	out := make(imd.Coefficients, len(parts))

	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("record: malformed coefficients %q: %w", s, err)
		}

		out[i] = v
	}

	return out, nil
}
