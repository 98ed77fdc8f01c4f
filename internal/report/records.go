// Package report writes frequent itemsets, rules, and run summaries to files.
package report

import (
	"github.com/Veraticus/basket/internal/engine"
	"github.com/Veraticus/basket/internal/mining"
	"github.com/Veraticus/basket/internal/rules"
)

// ItemsetRecord is one frequent itemset as written to the items report.
type ItemsetRecord struct {
	Items        []string `json:"items" yaml:"items"`
	Size         int      `json:"size" yaml:"size"`
	SupportCount int      `json:"support_count" yaml:"support_count"`
	Support      float64  `json:"support" yaml:"support"`
}

// RuleRecord is one rule as written to the rules report.
type RuleRecord struct {
	Antecedent   []string `json:"antecedent" yaml:"antecedent"`
	Consequent   []string `json:"consequent" yaml:"consequent"`
	SupportCount int      `json:"support_count" yaml:"support_count"`
	Support      float64  `json:"support" yaml:"support"`
	Confidence   float64  `json:"confidence" yaml:"confidence"`
	Lift         float64  `json:"lift" yaml:"lift"`
}

// LevelCount is the number of frequent itemsets of one size.
type LevelCount struct {
	Size  int `json:"size" yaml:"size"`
	Count int `json:"count" yaml:"count"`
}

// Summary is the info report.
type Summary struct {
	Input                  string              `json:"input" yaml:"input"`
	LevelCounts            []LevelCount        `json:"level_counts" yaml:"level_counts"`
	Levels                 []mining.LevelStats `json:"levels" yaml:"levels"`
	HighestConfidenceRules []RuleRecord        `json:"highest_confidence_rules" yaml:"highest_confidence_rules"`
	HighestLiftRules       []RuleRecord        `json:"highest_lift_rules" yaml:"highest_lift_rules"`
	MinSupport             int                 `json:"min_support" yaml:"min_support"`
	MinConfidence          float64             `json:"min_confidence" yaml:"min_confidence"`
	Items                  int                 `json:"items" yaml:"items"`
	Transactions           int                 `json:"transactions" yaml:"transactions"`
	LongestTransaction     int                 `json:"longest_transaction" yaml:"longest_transaction"`
	FrequentItemsets       int                 `json:"frequent_itemsets" yaml:"frequent_itemsets"`
	Rules                  int                 `json:"rules" yaml:"rules"`
	HighestConfidence      float64             `json:"highest_confidence" yaml:"highest_confidence"`
	HighestLift            float64             `json:"highest_lift" yaml:"highest_lift"`
	ItemsetsSeconds        float64             `json:"itemsets_seconds" yaml:"itemsets_seconds"`
	RulesSeconds           float64             `json:"rules_seconds" yaml:"rules_seconds"`
}

// Itemsets converts the run's table into records, smallest size first.
// Support fractions are computed here, at the reporting boundary.
func Itemsets(run *engine.Run) []ItemsetRecord {
	all := run.Table.All()
	out := make([]ItemsetRecord, 0, len(all))
	for _, fi := range all {
		out = append(out, ItemsetRecord{
			Items:        fi.Itemset.Tokens(),
			Size:         fi.Itemset.Len(),
			SupportCount: fi.Support,
			Support:      fraction(fi.Support, run.Stats.Transactions),
		})
	}
	return out
}

// Rules converts the run's evaluated rules into records.
func Rules(run *engine.Run) []RuleRecord {
	return ruleRecords(run.Evaluated)
}

func ruleRecords(evaluated []rules.Evaluated) []RuleRecord {
	out := make([]RuleRecord, 0, len(evaluated))
	for _, e := range evaluated {
		out = append(out, RuleRecord{
			Antecedent:   e.Rule.Antecedent.Tokens(),
			Consequent:   e.Rule.Consequent.Tokens(),
			SupportCount: e.Metrics.SupportCount,
			Support:      e.Metrics.Support,
			Confidence:   e.Metrics.Confidence,
			Lift:         e.Metrics.Lift,
		})
	}
	return out
}

// Summarize builds the info report for a run.
func Summarize(run *engine.Run) Summary {
	byConf, maxConf, byLift, maxLift := rules.Strongest(run.Evaluated)

	counts := run.Table.Counts()
	levelCounts := make([]LevelCount, len(counts))
	for i, c := range counts {
		levelCounts[i] = LevelCount{Size: i + 1, Count: c}
	}

	return Summary{
		Input:                  run.Input,
		LevelCounts:            levelCounts,
		Levels:                 run.Levels,
		HighestConfidenceRules: ruleRecords(byConf),
		HighestLiftRules:       ruleRecords(byLift),
		MinSupport:             run.Config.MinSupport,
		MinConfidence:          run.Config.MinConfidence,
		Items:                  run.Stats.DistinctItems,
		Transactions:           run.Stats.Transactions,
		LongestTransaction:     run.Stats.LongestTransaction,
		FrequentItemsets:       run.Table.Len(),
		Rules:                  len(run.Rules),
		HighestConfidence:      maxConf,
		HighestLift:            maxLift,
		ItemsetsSeconds:        run.Timings.Itemsets.Seconds(),
		RulesSeconds:           run.Timings.Rules.Seconds(),
	}
}

func fraction(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}
