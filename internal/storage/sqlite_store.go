package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/mlakeland/timeblock/internal/models"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS runs (
	run_id       TEXT PRIMARY KEY,
	generated_at TEXT NOT NULL,
	summary      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_generated_at ON runs (generated_at);
`

func (s *SQLiteStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// Initialize default settings if not present
	if _, err := s.GetSettings(); err != nil {
		defaults := models.Settings{}
		models.ApplyDefaultSettings(&defaults)
		if err := s.SaveSettings(defaults); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'timeblock init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) GetSettings() (models.Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	data := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}
	if len(data) == 0 {
		return models.Settings{}, fmt.Errorf("settings not found")
	}

	settings, err := models.MapToSettings(data)
	if err != nil {
		return models.Settings{}, err
	}
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

func (s *SQLiteStore) SaveSettings(settings models.Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range models.SettingsToMap(settings) {
		if _, err := stmt.Exec(key, value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) SaveRun(summary models.RunSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode run summary: %w", err)
	}
	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO runs (run_id, generated_at, summary) VALUES (?, ?, ?)",
		summary.RunID, summary.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"), string(payload),
	)
	return err
}

func (s *SQLiteStore) GetRun(runID string) (models.RunSummary, error) {
	var payload string
	err := s.db.QueryRow("SELECT summary FROM runs WHERE run_id = ?", runID).Scan(&payload)
	if err == sql.ErrNoRows {
		return models.RunSummary{}, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return models.RunSummary{}, err
	}
	return decodeRun(payload)
}

func (s *SQLiteStore) LatestRunForDate(date string) (models.RunSummary, error) {
	var payload string
	err := s.db.QueryRow(
		"SELECT summary FROM runs WHERE generated_at LIKE ? || '%' ORDER BY generated_at DESC LIMIT 1",
		date,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return models.RunSummary{}, fmt.Errorf("no run found for %s", date)
	}
	if err != nil {
		return models.RunSummary{}, err
	}
	return decodeRun(payload)
}

func (s *SQLiteStore) ListRuns(limit int) ([]models.RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query("SELECT summary FROM runs ORDER BY generated_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.RunSummary
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		run, err := decodeRun(payload)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func decodeRun(payload string) (models.RunSummary, error) {
	var summary models.RunSummary
	if err := json.Unmarshal([]byte(payload), &summary); err != nil {
		return models.RunSummary{}, fmt.Errorf("failed to decode run summary: %w", err)
	}
	return summary, nil
}
