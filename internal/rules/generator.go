// Package rules derives association rules from a frequent itemset table.
package rules

import (
	"log/slog"
	"math"
	"strconv"

	"github.com/Veraticus/basket/internal/common"
	"github.com/Veraticus/basket/internal/model"
)

// ThresholdPolicy decides which confidence value is compared to the minimum.
type ThresholdPolicy string

const (
	// ThresholdRounded compares the rounded confidence.
	ThresholdRounded ThresholdPolicy = "rounded"
	// ThresholdRaw compares the exact ratio and rounds only the stored value.
	ThresholdRaw ThresholdPolicy = "raw"
)

// DefaultPrecision is the number of decimal digits kept for confidence.
const DefaultPrecision = 3

const maxPrecision = 6

// ParseThresholdPolicy converts a configured name into a ThresholdPolicy.
func ParseThresholdPolicy(name string) (ThresholdPolicy, error) {
	switch ThresholdPolicy(name) {
	case ThresholdRounded, "":
		return ThresholdRounded, nil
	case ThresholdRaw:
		return ThresholdRaw, nil
	default:
		return "", common.NewInvalidParameterError("threshold", name, "must be rounded or raw")
	}
}

// Options configures a Generator.
type Options struct {
	Logger        *slog.Logger
	Threshold     ThresholdPolicy
	MinConfidence float64
	// Precision is the number of decimal digits; zero means DefaultPrecision.
	Precision int
}

// Generator enumerates rules from frequent itemsets.
type Generator struct {
	logger        *slog.Logger
	threshold     ThresholdPolicy
	minConfidence float64
	precision     int
}

// NewGenerator validates opts and returns a Generator.
func NewGenerator(opts Options) (*Generator, error) {
	if math.IsNaN(opts.MinConfidence) || opts.MinConfidence < 0 || opts.MinConfidence > 1 {
		return nil, common.NewInvalidParameterError("min_confidence", opts.MinConfidence, "must be within [0, 1]")
	}

	precision := opts.Precision
	if precision == 0 {
		precision = DefaultPrecision
	}
	if precision < 1 || precision > maxPrecision {
		return nil, common.NewInvalidParameterError("precision", opts.Precision, "must be between 1 and 6 digits")
	}

	threshold, err := ParseThresholdPolicy(string(opts.Threshold))
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Generator{
		logger:        logger,
		threshold:     threshold,
		minConfidence: opts.MinConfidence,
		precision:     precision,
	}, nil
}

// Generate is the plain form of Generator.Generate with default options.
func Generate(table *model.FrequentItemsetTable, minConfidence float64) ([]model.AssociationRule, error) {
	g, err := NewGenerator(Options{MinConfidence: minConfidence})
	if err != nil {
		return nil, err
	}
	return g.Generate(table)
}

// Precision returns the number of decimal digits applied to confidence.
func (g *Generator) Precision() int {
	return g.precision
}

// Generate returns every rule whose confidence meets the minimum, ordered by
// itemset size, then discovery order, then antecedent size.
func (g *Generator) Generate(table *model.FrequentItemsetTable) ([]model.AssociationRule, error) {
	if table == nil {
		return nil, common.NewInvalidInputError("frequent itemset table is nil", nil)
	}

	var out []model.AssociationRule
	for _, k := range table.Sizes() {
		if k < 2 {
			continue
		}
		for _, fi := range table.Level(k) {
			for r := 1; r < k; r++ {
				for _, lhs := range fi.Itemset.Combinations(r) {
					rhs := fi.Itemset.Minus(lhs)
					if rhs.IsEmpty() {
						continue
					}

					lhsSupport, _ := table.Support(lhs)
					raw := ratio(fi.Support, lhsSupport)
					rounded := Round(raw, g.precision)

					compared := rounded
					if g.threshold == ThresholdRaw {
						compared = raw
					}
					if compared < g.minConfidence || lhsSupport == 0 {
						continue
					}

					out = append(out, model.AssociationRule{
						Antecedent: lhs,
						Consequent: rhs,
						Confidence: rounded,
					})
				}
			}
		}
	}

	g.logger.Debug("Generated rules",
		"rules", len(out),
		"min_confidence", g.minConfidence,
		"threshold", string(g.threshold))

	return out, nil
}

// Round rounds v to digits decimal places using the exact binary value of v,
// so 0.65 (stored just above 0.65) rounds up to 0.7. Exact ties go to even.
func Round(v float64, digits int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', digits, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// ratio divides and returns 0 for a zero denominator.
func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
