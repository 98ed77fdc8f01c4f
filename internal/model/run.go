package model

import "time"

// RunRecord summarizes one completed mining run for the run history.
type RunRecord struct {
	CreatedAt          time.Time     `json:"created_at"`
	Input              string        `json:"input"`
	Join               string        `json:"join"`
	Threshold          string        `json:"threshold"`
	LevelCounts        []int         `json:"level_counts"`
	ID                 int64         `json:"id"`
	MinSupport         int           `json:"min_support"`
	MinConfidence      float64       `json:"min_confidence"`
	Precision          int           `json:"precision"`
	Transactions       int           `json:"transactions"`
	DistinctItems      int           `json:"distinct_items"`
	LongestTransaction int           `json:"longest_transaction"`
	FrequentItemsets   int           `json:"frequent_itemsets"`
	Rules              int           `json:"rules"`
	ItemsetsDuration   time.Duration `json:"itemsets_duration"`
	RulesDuration      time.Duration `json:"rules_duration"`
}
