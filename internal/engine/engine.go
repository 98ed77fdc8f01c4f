// Package engine runs the mining and rule phases end to end and times them.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/basket/internal/mining"
	"github.com/Veraticus/basket/internal/model"
	"github.com/Veraticus/basket/internal/rules"
	"github.com/Veraticus/basket/internal/service"
)

// Config holds the thresholds and policies for one run.
type Config struct {
	Join          mining.JoinStrategy
	Threshold     rules.ThresholdPolicy
	MinSupport    int
	MinConfidence float64
	Precision     int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MinSupport:    2,
		MinConfidence: 0.7,
		Precision:     rules.DefaultPrecision,
		Join:          mining.JoinNaive,
		Threshold:     rules.ThresholdRounded,
	}
}

// Timings are wall-clock durations of each phase. They are observations
// only and never feed back into results.
type Timings struct {
	Itemsets time.Duration
	Rules    time.Duration
}

// Run is everything the reporting layer needs from one run.
type Run struct {
	Table     *model.FrequentItemsetTable
	Input     string
	Levels    []mining.LevelStats
	Rules     []model.AssociationRule
	Evaluated []rules.Evaluated
	Config    Config
	Stats     model.TransactionStats
	Timings   Timings
}

// Engine orchestrates mining, rule generation, and run recording.
type Engine struct {
	store     service.RunStore
	miner     *mining.Miner
	generator *rules.Generator
	now       func() time.Time
	config    Config
}

// New creates an engine with the default configuration.
func New(store service.RunStore) (*Engine, error) {
	return NewWithConfig(store, DefaultConfig())
}

// NewWithConfig creates an engine; store may be nil to skip run recording.
func NewWithConfig(store service.RunStore, config Config) (*Engine, error) {
	miner, err := mining.NewMiner(mining.Options{
		MinSupport: config.MinSupport,
		Join:       config.Join,
	})
	if err != nil {
		return nil, err
	}

	generator, err := rules.NewGenerator(rules.Options{
		MinConfidence: config.MinConfidence,
		Precision:     config.Precision,
		Threshold:     config.Threshold,
	})
	if err != nil {
		return nil, err
	}
	// normalize empty names to their defaults for run records
	config.Precision = generator.Precision()
	config.Join, _ = mining.ParseJoinStrategy(string(config.Join))
	config.Threshold, _ = rules.ParseThresholdPolicy(string(config.Threshold))

	return &Engine{
		store:     store,
		miner:     miner,
		generator: generator,
		now:       time.Now,
		config:    config,
	}, nil
}

// Run mines transactions, derives rules, and records the run when a store is set.
func (e *Engine) Run(ctx context.Context, input string, transactions []model.Transaction) (*Run, error) {
	slog.Info("Starting mining run",
		"input", input,
		"transactions", len(transactions),
		"min_support", e.config.MinSupport,
		"min_confidence", e.config.MinConfidence)

	start := e.now()
	mined, err := e.miner.Mine(ctx, transactions)
	if err != nil {
		return nil, fmt.Errorf("failed to mine frequent itemsets: %w", err)
	}
	itemsetsDone := e.now()

	found, err := e.generator.Generate(mined.Table)
	if err != nil {
		return nil, fmt.Errorf("failed to generate rules: %w", err)
	}
	rulesDone := e.now()

	run := &Run{
		Table:     mined.Table,
		Input:     input,
		Levels:    mined.Levels,
		Rules:     found,
		Evaluated: rules.Evaluate(mined.Table, found, len(transactions)),
		Config:    e.config,
		Stats:     model.Summarize(transactions),
		Timings: Timings{
			Itemsets: itemsetsDone.Sub(start),
			Rules:    rulesDone.Sub(itemsetsDone),
		},
	}

	slog.Info("Mining run complete",
		"frequent_itemsets", run.Table.Len(),
		"rules", len(run.Rules),
		"itemsets_time", run.Timings.Itemsets,
		"rules_time", run.Timings.Rules)

	if e.store != nil {
		record := run.Record(e.now())
		if err := e.store.SaveRun(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to record run: %w", err)
		}
		slog.Debug("Recorded run", "id", record.ID)
	}

	return run, nil
}

// Record converts the run into its history summary.
func (r *Run) Record(at time.Time) *model.RunRecord {
	return &model.RunRecord{
		CreatedAt:          at,
		Input:              r.Input,
		Join:               string(r.Config.Join),
		Threshold:          string(r.Config.Threshold),
		LevelCounts:        r.Table.Counts(),
		MinSupport:         r.Config.MinSupport,
		MinConfidence:      r.Config.MinConfidence,
		Precision:          r.Config.Precision,
		Transactions:       r.Stats.Transactions,
		DistinctItems:      r.Stats.DistinctItems,
		LongestTransaction: r.Stats.LongestTransaction,
		FrequentItemsets:   r.Table.Len(),
		Rules:              len(r.Rules),
		ItemsetsDuration:   r.Timings.Itemsets,
		RulesDuration:      r.Timings.Rules,
	}
}
