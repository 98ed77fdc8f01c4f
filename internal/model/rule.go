package model

import "fmt"

// AssociationRule is an implication Antecedent -> Consequent with its confidence.
type AssociationRule struct {
	Antecedent Itemset
	Consequent Itemset
	Confidence float64
}

// Union returns the frequent itemset the rule was derived from.
func (r AssociationRule) Union() Itemset {
	return r.Antecedent.Union(r.Consequent)
}

func (r AssociationRule) String() string {
	return fmt.Sprintf("%s -> %s (%g)", r.Antecedent, r.Consequent, r.Confidence)
}

// RuleMetrics carries the report-time quantities derived for a rule.
type RuleMetrics struct {
	SupportCount           int
	AntecedentSupportCount int
	ConsequentSupportCount int
	Support                float64
	Confidence             float64
	Lift                   float64
}
