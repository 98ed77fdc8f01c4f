// Package dataset reads transaction databases from files.
package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/basket/internal/common"
	"github.com/Veraticus/basket/internal/model"
	"github.com/Veraticus/basket/internal/ofx"
	"github.com/Veraticus/basket/internal/service"
)

// Format names an input layout.
type Format string

const (
	// FormatAuto picks a format from the file extension.
	FormatAuto Format = "auto"
	// FormatPairs is "transaction_id item_id" per line, grouped by contiguous id.
	FormatPairs Format = "pairs"
	// FormatBasket is one transaction per line, items split on whitespace or commas.
	FormatBasket Format = "basket"
	// FormatOFX is an OFX/QFX statement grouped into daily merchant baskets.
	FormatOFX Format = "ofx"
)

// ParseFormat converts a configured name into a Format.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatAuto, FormatPairs, FormatBasket, FormatOFX:
		return f, nil
	case "":
		return FormatAuto, nil
	default:
		return "", common.WrapInvalidParameterError("input.format", name,
			"must be auto, pairs, basket or ofx", common.ErrUnsupportedInput)
	}
}

// Detect picks a format from a file name.
func Detect(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ofx", ".qfx":
		return FormatOFX
	case ".csv", ".basket":
		return FormatBasket
	default:
		return FormatPairs
	}
}

// Loader reads transaction files in a fixed or detected format.
type Loader struct {
	format Format
}

var _ service.DatasetLoader = (*Loader)(nil)

// NewLoader creates a loader; FormatAuto detects per file.
func NewLoader(format Format) *Loader {
	if format == "" {
		format = FormatAuto
	}
	return &Loader{format: format}
}

// Load opens path and decodes its transactions.
func (l *Loader) Load(ctx context.Context, path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	format := l.format
	if format == FormatAuto {
		format = Detect(path)
		common.LogDebug("Detected input format", common.Fields{"file": path, "format": string(format)})
	}

	transactions, err := Read(ctx, f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return transactions, nil
}

// Read decodes transactions from r in the given format.
func Read(ctx context.Context, r io.Reader, format Format) ([]model.Transaction, error) {
	switch format {
	case FormatPairs:
		return ReadPairs(r)
	case FormatBasket:
		return ReadBaskets(r)
	case FormatOFX:
		entries, err := ofx.NewParser().ParseEntries(ctx, r)
		if err != nil {
			return nil, err
		}
		return ofx.Baskets(entries)
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedInput, format)
	}
}
