// Package storage provides the run history persistence layer.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/basket/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidRun   = errors.New("invalid run record")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRun validates a run record before it is stored.
func validateRun(run *model.RunRecord) error {
	if run == nil {
		return fmt.Errorf("%w: run", ErrNilParameter)
	}
	if err := validateString(run.Input, "input"); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRun, err)
	}
	if run.MinSupport <= 0 {
		return fmt.Errorf("%w: min support %d", ErrInvalidRun, run.MinSupport)
	}
	if run.MinConfidence < 0 || run.MinConfidence > 1 {
		return fmt.Errorf("%w: min confidence %v", ErrInvalidRun, run.MinConfidence)
	}
	if run.CreatedAt.IsZero() {
		return fmt.Errorf("%w: missing created_at", ErrInvalidRun)
	}
	total := 0
	for _, c := range run.LevelCounts {
		total += c
	}
	if total != run.FrequentItemsets {
		return fmt.Errorf("%w: level counts sum to %d, expected %d", ErrInvalidRun, total, run.FrequentItemsets)
	}
	return nil
}
