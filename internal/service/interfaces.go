// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/basket/internal/model"
)

// RunFilter narrows run history queries.
type RunFilter struct {
	Input  string
	Limit  int
	Offset int
}

// RunStore defines the contract for the run history persistence layer.
type RunStore interface {
	SaveRun(ctx context.Context, run *model.RunRecord) error
	GetRun(ctx context.Context, id int64) (*model.RunRecord, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.RunRecord, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// DatasetLoader reads a transaction database from a file.
type DatasetLoader interface {
	Load(ctx context.Context, path string) ([]model.Transaction, error)
}
