// Package store persists assessments and saved input slots in a local
// sqlite database.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/readimeter/readimeter/internal/readiness"
)

// Store wraps the sqlite connection and its prepared statements.
type Store struct {
	*sql.DB
	prepared map[string]*sql.Stmt
	mutex    sync.RWMutex
}

// Open opens (creating if needed) the database under dataDir and runs
// migrations.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "readimeter.db")
	connStr := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{
		DB:       db,
		prepared: make(map[string]*sql.Stmt),
	}

	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := s.initPreparedStatements(); err != nil {
		return nil, fmt.Errorf("failed to initialize prepared statements: %w", err)
	}

	slog.Debug("Store initialized", "path", dbPath)

	return s, nil
}

// migrate creates the necessary tables
func (s *Store) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS assessments (
			id TEXT PRIMARY KEY,
			process_volume INTEGER NOT NULL,
			variance INTEGER NOT NULL,
			exception_rate INTEGER NOT NULL,
			data_quality INTEGER NOT NULL,
			system_access INTEGER NOT NULL,
			compliance_sensitivity INTEGER NOT NULL,
			score INTEGER NOT NULL,
			band TEXT NOT NULL,
			blockers TEXT NOT NULL, -- JSON blocker list
			created_at DATETIME NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS saved_inputs (
			slot TEXT PRIMARY KEY,
			process_volume INTEGER NOT NULL,
			variance INTEGER NOT NULL,
			exception_rate INTEGER NOT NULL,
			data_quality INTEGER NOT NULL,
			system_access INTEGER NOT NULL,
			compliance_sensitivity INTEGER NOT NULL,
			updated_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_assessments_created ON assessments(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_assessments_score ON assessments(score DESC)`,
	}

	for _, query := range queries {
		if _, err := s.Exec(query); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}

// initPreparedStatements initializes frequently used prepared statements
func (s *Store) initPreparedStatements() error {
	statements := map[string]string{
		"insert_assessment": `INSERT INTO assessments (
			id, process_volume, variance, exception_rate, data_quality,
			system_access, compliance_sensitivity, score, band, blockers, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,

		"get_assessment": `SELECT id, process_volume, variance, exception_rate,
			data_quality, system_access, compliance_sensitivity, score, band,
			blockers, created_at
			FROM assessments WHERE id = ?`,

		"list_assessments": `SELECT id, process_volume, variance, exception_rate,
			data_quality, system_access, compliance_sensitivity, score, band,
			blockers, created_at
			FROM assessments ORDER BY created_at DESC LIMIT ?`,

		"save_inputs": `INSERT INTO saved_inputs (
			slot, process_volume, variance, exception_rate, data_quality,
			system_access, compliance_sensitivity, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			process_volume = excluded.process_volume,
			variance = excluded.variance,
			exception_rate = excluded.exception_rate,
			data_quality = excluded.data_quality,
			system_access = excluded.system_access,
			compliance_sensitivity = excluded.compliance_sensitivity,
			updated_at = excluded.updated_at`,

		"load_inputs": `SELECT process_volume, variance, exception_rate,
			data_quality, system_access, compliance_sensitivity
			FROM saved_inputs WHERE slot = ?`,
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	for name, query := range statements {
		stmt, err := s.Prepare(query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement %s: %w", name, err)
		}
		s.prepared[name] = stmt
	}

	return nil
}

// stmt retrieves a prepared statement by name.
func (s *Store) stmt(name string) (*sql.Stmt, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	st, exists := s.prepared[name]
	if !exists {
		return nil, fmt.Errorf("prepared statement %s not found", name)
	}

	return st, nil
}

// SaveAssessment persists one assessment.
func (s *Store) SaveAssessment(a *Assessment) error {
	st, err := s.stmt("insert_assessment")
	if err != nil {
		return err
	}

	blockers, err := json.Marshal(a.Blockers)
	if err != nil {
		return fmt.Errorf("failed to marshal blockers: %w", err)
	}

	_, err = st.Exec(
		a.ID,
		a.Inputs.ProcessVolume,
		a.Inputs.Variance,
		a.Inputs.ExceptionRate,
		a.Inputs.DataQuality,
		a.Inputs.SystemAccess,
		a.Inputs.ComplianceSensitivity,
		a.Score,
		string(a.Band),
		string(blockers),
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert assessment: %w", err)
	}

	return nil
}

// GetAssessment loads one assessment by id. Returns (nil, nil) when no row
// matches.
func (s *Store) GetAssessment(id string) (*Assessment, error) {
	st, err := s.stmt("get_assessment")
	if err != nil {
		return nil, err
	}

	a, err := scanAssessment(st.QueryRow(id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

// ListAssessments returns the most recent assessments, newest first.
func (s *Store) ListAssessments(limit int) ([]*Assessment, error) {
	if limit <= 0 {
		limit = 10
	}

	st, err := s.stmt("list_assessments")
	if err != nil {
		return nil, err
	}

	rows, err := st.Query(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	defer rows.Close()

	var out []*Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SaveInputs upserts an input set under a slot key.
func (s *Store) SaveInputs(slot string, in readiness.Inputs) error {
	st, err := s.stmt("save_inputs")
	if err != nil {
		return err
	}

	_, err = st.Exec(
		slot,
		in.ProcessVolume,
		in.Variance,
		in.ExceptionRate,
		in.DataQuality,
		in.SystemAccess,
		in.ComplianceSensitivity,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save inputs: %w", err)
	}

	return nil
}

// LoadInputs loads the input set saved under a slot key. The second return
// value reports whether the slot existed.
func (s *Store) LoadInputs(slot string) (readiness.Inputs, bool, error) {
	st, err := s.stmt("load_inputs")
	if err != nil {
		return readiness.Inputs{}, false, err
	}

	var in readiness.Inputs
	err = st.QueryRow(slot).Scan(
		&in.ProcessVolume,
		&in.Variance,
		&in.ExceptionRate,
		&in.DataQuality,
		&in.SystemAccess,
		&in.ComplianceSensitivity,
	)
	if err == sql.ErrNoRows {
		return readiness.Inputs{}, false, nil
	}
	if err != nil {
		return readiness.Inputs{}, false, fmt.Errorf("failed to load inputs: %w", err)
	}

	return in, true, nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAssessment(row scanner) (*Assessment, error) {
	var a Assessment
	var band string
	var blockers string

	err := row.Scan(
		&a.ID,
		&a.Inputs.ProcessVolume,
		&a.Inputs.Variance,
		&a.Inputs.ExceptionRate,
		&a.Inputs.DataQuality,
		&a.Inputs.SystemAccess,
		&a.Inputs.ComplianceSensitivity,
		&a.Score,
		&band,
		&blockers,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Band = readiness.Band(band)
	if err := json.Unmarshal([]byte(blockers), &a.Blockers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal blockers: %w", err)
	}

	return &a, nil
}

// Close closes the database connection and prepared statements.
func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for name, stmt := range s.prepared {
		if err := stmt.Close(); err != nil {
			slog.Warn("Failed to close prepared statement", "name", name, "error", err)
		}
	}
	s.prepared = make(map[string]*sql.Stmt)

	return s.DB.Close()
}
