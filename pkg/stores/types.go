package stores

import (
	"context"
	"time"
)

// GenerationRun is one recorded generation: which document was
// compiled, how big it was, and the checksum of the manifest produced.
type GenerationRun struct {
	ID             string    `json:"id"`
	Kind           string    `json:"kind"`
	Name           string    `json:"name"`
	Packages       int       `json:"packages"`
	Files          int       `json:"files"`
	Services       int       `json:"services"`
	ManifestSHA256 string    `json:"manifest_sha256"`
	CreatedAt      time.Time `json:"created_at"`
}

// Store is the run-history persistence interface.
type Store interface {
	// Init opens the underlying database.
	Init(ctx context.Context) error

	// Migrate applies pending schema migrations.
	Migrate(ctx context.Context) error

	// Close releases the database.
	Close() error

	// RecordRun persists one generation run.
	RecordRun(ctx context.Context, run *GenerationRun) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]GenerationRun, error)
}
