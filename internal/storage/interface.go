package storage

import "github.com/mlakeland/timeblock/internal/models"

// Provider is the persistence boundary: settings plus the run-summary history
// shown by `timeblock history` and `timeblock day`.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Run history
	SaveRun(models.RunSummary) error
	GetRun(runID string) (models.RunSummary, error)
	// LatestRunForDate returns the most recent run generated on the given
	// YYYY-MM-DD date.
	LatestRunForDate(date string) (models.RunSummary, error)
	ListRuns(limit int) ([]models.RunSummary, error)
}
