// Package mining finds frequent itemsets with a level-wise Apriori search.
package mining

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/basket/internal/common"
	"github.com/Veraticus/basket/internal/model"
)

// JoinStrategy selects how size-k candidates are built from size-(k-1) itemsets.
type JoinStrategy string

const (
	// JoinNaive unions every pair of frequent (k-1)-itemsets whose union has k items.
	JoinNaive JoinStrategy = "naive"
	// JoinAprioriGen additionally drops candidates with an infrequent (k-1)-subset.
	JoinAprioriGen JoinStrategy = "apriori-gen"
)

// ParseJoinStrategy converts a configured name into a JoinStrategy.
func ParseJoinStrategy(name string) (JoinStrategy, error) {
	switch JoinStrategy(name) {
	case JoinNaive, "":
		return JoinNaive, nil
	case JoinAprioriGen:
		return JoinAprioriGen, nil
	default:
		return "", common.NewInvalidParameterError("join", name, "must be naive or apriori-gen")
	}
}

// Options configures a Miner.
type Options struct {
	Logger     *slog.Logger
	Join       JoinStrategy
	MinSupport int
}

// LevelStats records the work done at one level of the search.
type LevelStats struct {
	Size       int `json:"size" yaml:"size"`
	Candidates int `json:"candidates" yaml:"candidates"`
	Frequent   int `json:"frequent" yaml:"frequent"`
}

// Result is the outcome of one mining run.
type Result struct {
	Table  *model.FrequentItemsetTable
	Levels []LevelStats
}

// Miner runs the level-wise frequent itemset search.
type Miner struct {
	logger     *slog.Logger
	join       JoinStrategy
	minSupport int
}

// NewMiner validates opts and returns a Miner.
func NewMiner(opts Options) (*Miner, error) {
	if opts.MinSupport <= 0 {
		return nil, common.NewInvalidParameterError("min_support", opts.MinSupport, "must be a positive count")
	}
	join, err := ParseJoinStrategy(string(opts.Join))
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Miner{
		logger:     logger,
		join:       join,
		minSupport: opts.MinSupport,
	}, nil
}

// Mine is the plain form of Miner.Mine with the naive join.
func Mine(transactions []model.Transaction, minSupport int) (*model.FrequentItemsetTable, error) {
	m, err := NewMiner(Options{MinSupport: minSupport})
	if err != nil {
		return nil, err
	}
	res, err := m.Mine(context.Background(), transactions)
	if err != nil {
		return nil, err
	}
	return res.Table, nil
}

// Mine builds the frequent itemset table for transactions.
// ctx is only consulted between levels.
func (m *Miner) Mine(ctx context.Context, transactions []model.Transaction) (*Result, error) {
	if len(transactions) == 0 {
		return nil, common.NewInvalidInputError("transaction database is empty", common.ErrNoTransactions)
	}

	res := &Result{Table: model.NewFrequentItemsetTable()}

	current, stats := m.frequentItems(transactions)
	res.Levels = append(res.Levels, stats)
	m.logger.Debug("Mined level", "size", 1, "candidates", stats.Candidates, "frequent", stats.Frequent)
	if len(current) == 0 {
		return res, nil
	}
	if err := res.Table.AppendLevel(current); err != nil {
		return nil, err
	}

	for k := 2; ; k++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("mining stopped before level %d: %w", k, err)
		}

		candidates := m.candidates(current, k)
		next := m.countSupport(transactions, candidates, k)

		stats := LevelStats{Size: k, Candidates: len(candidates), Frequent: len(next)}
		res.Levels = append(res.Levels, stats)
		m.logger.Debug("Mined level", "size", k, "candidates", stats.Candidates, "frequent", stats.Frequent)

		if len(next) == 0 {
			break
		}
		if err := res.Table.AppendLevel(next); err != nil {
			return nil, err
		}
		current = next
	}

	return res, nil
}

// frequentItems counts single items in first-appearance order.
func (m *Miner) frequentItems(transactions []model.Transaction) ([]model.FrequentItemset, LevelStats) {
	counts := make(map[model.Item]int)
	var order []model.Item
	for _, txn := range transactions {
		for _, item := range txn.Items() {
			if _, seen := counts[item]; !seen {
				order = append(order, item)
			}
			counts[item]++
		}
	}

	var frequent []model.FrequentItemset
	for _, item := range order {
		if counts[item] >= m.minSupport {
			frequent = append(frequent, model.FrequentItemset{
				Itemset: model.NewItemset(item),
				Support: counts[item],
			})
		}
	}

	return frequent, LevelStats{Size: 1, Candidates: len(order), Frequent: len(frequent)}
}

// candidates self-joins the previous level into size-k candidates.
func (m *Miner) candidates(prev []model.FrequentItemset, k int) []model.Itemset {
	var known map[string]struct{}
	if m.join == JoinAprioriGen {
		known = make(map[string]struct{}, len(prev))
		for _, p := range prev {
			known[p.Itemset.Key()] = struct{}{}
		}
	}

	seen := make(map[string]struct{})
	var out []model.Itemset
	for i := 0; i < len(prev); i++ {
		for j := i + 1; j < len(prev); j++ {
			c := prev[i].Itemset.Union(prev[j].Itemset)
			if c.Len() != k {
				continue
			}
			if _, dup := seen[c.Key()]; dup {
				continue
			}
			seen[c.Key()] = struct{}{}
			if known != nil && !allSubsetsFrequent(c, known) {
				continue
			}
			out = append(out, c)
		}
	}
	return out
}

func allSubsetsFrequent(c model.Itemset, known map[string]struct{}) bool {
	for i := 0; i < c.Len(); i++ {
		if _, ok := known[c.Without(i).Key()]; !ok {
			return false
		}
	}
	return true
}

// countSupport scans every transaction for every candidate.
func (m *Miner) countSupport(transactions []model.Transaction, candidates []model.Itemset, k int) []model.FrequentItemset {
	counts := make([]int, len(candidates))
	for _, txn := range transactions {
		if txn.Len() < k {
			continue
		}
		for i, c := range candidates {
			if txn.Contains(c) {
				counts[i]++
			}
		}
	}

	var frequent []model.FrequentItemset
	for i, c := range candidates {
		if counts[i] >= m.minSupport {
			frequent = append(frequent, model.FrequentItemset{Itemset: c, Support: counts[i]})
		}
	}
	return frequent
}
