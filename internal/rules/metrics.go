package rules

import (
	"github.com/Veraticus/basket/internal/model"
)

// Metrics looks up the supports of a rule's parts and derives support, lift,
// and confidence. Missing itemsets count as zero; any zero denominator yields 0.
func Metrics(table *model.FrequentItemsetTable, rule model.AssociationRule, transactions int) model.RuleMetrics {
	unionCount, _ := table.Support(rule.Union())
	lhsCount, _ := table.Support(rule.Antecedent)
	rhsCount, _ := table.Support(rule.Consequent)

	support := ratio(unionCount, transactions)
	lhsSupport := ratio(lhsCount, transactions)
	rhsSupport := ratio(rhsCount, transactions)

	return model.RuleMetrics{
		SupportCount:           unionCount,
		AntecedentSupportCount: lhsCount,
		ConsequentSupportCount: rhsCount,
		Support:                support,
		Confidence:             rule.Confidence,
		Lift:                   Lift(support, lhsSupport, rhsSupport),
	}
}

// Lift returns support / (lhs * rhs), or 0 when either factor is zero.
func Lift(support, lhs, rhs float64) float64 {
	if lhs <= 0 || rhs <= 0 {
		return 0
	}
	return support / (lhs * rhs)
}

// Evaluated pairs a rule with its report-time metrics.
type Evaluated struct {
	Rule    model.AssociationRule
	Metrics model.RuleMetrics
}

// Evaluate computes metrics for every rule, preserving order.
func Evaluate(table *model.FrequentItemsetTable, rules []model.AssociationRule, transactions int) []Evaluated {
	out := make([]Evaluated, len(rules))
	for i, r := range rules {
		out[i] = Evaluated{Rule: r, Metrics: Metrics(table, r, transactions)}
	}
	return out
}

// Strongest returns the rules with the highest confidence and the highest
// lift among evaluated. Ties are all returned, in input order.
func Strongest(evaluated []Evaluated) (byConfidence []Evaluated, maxConfidence float64, byLift []Evaluated, maxLift float64) {
	for _, e := range evaluated {
		if e.Rule.Confidence > maxConfidence {
			maxConfidence = e.Rule.Confidence
		}
		if e.Metrics.Lift > maxLift {
			maxLift = e.Metrics.Lift
		}
	}
	for _, e := range evaluated {
		if e.Rule.Confidence == maxConfidence {
			byConfidence = append(byConfidence, e)
		}
		if e.Metrics.Lift == maxLift {
			byLift = append(byLift, e)
		}
	}
	return byConfidence, maxConfidence, byLift, maxLift
}
