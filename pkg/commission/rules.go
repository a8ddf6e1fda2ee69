// Package commission defines salesperson commission rules and resolves which
// rule applies to a closed deal.
package commission

// RuleType identifies how a commission rule computes its amount.
type RuleType int

const (
	// FixedAmount pays a flat currency value per deal.
	FixedAmount RuleType = iota

	// PercentOfSale pays a percentage of the sale price.
	PercentOfSale

	// PercentOfProfit pays a percentage of the sale-minus-purchase spread.
	PercentOfProfit
)

func (t RuleType) String() string {
	switch t {
	case FixedAmount:
		return "fixedAmount"
	case PercentOfSale:
		return "percentOfSale"
	case PercentOfProfit:
		return "percentOfProfit"
	default:
		return "unknown"
	}
}

// ParseRuleType converts the config-file representation of a rule type.
func ParseRuleType(value string) (RuleType, bool) {
	switch value {
	case "fixedAmount":
		return FixedAmount, true
	case "percentOfSale":
		return PercentOfSale, true
	case "percentOfProfit":
		return PercentOfProfit, true
	default:
		return FixedAmount, false
	}
}

// Rule is one configured commission rule. Exactly one of FixedValue and
// PercentageValue is meaningful depending on Type. Rules are created and
// edited outside the engine; the engine only reads them.
type Rule struct {
	ID              string
	Name            string
	Type            RuleType
	FixedValue      float64
	PercentageValue float64
	Priority        int
	Active          bool
}

// RuleSelection says how the applicable rule should be chosen: either an
// explicit rule by ID or automatically by highest priority among active rules.
type RuleSelection struct {
	explicit bool
	ruleID   string
}

// AutoSelection selects the applicable rule by highest configured priority.
func AutoSelection() RuleSelection {
	return RuleSelection{}
}

// ExplicitSelection selects a specific rule by ID, even when a higher-priority
// rule exists.
func ExplicitSelection(ruleID string) RuleSelection {
	return RuleSelection{explicit: true, ruleID: ruleID}
}

// IsExplicit reports whether the selection names a concrete rule.
func (s RuleSelection) IsExplicit() bool {
	return s.explicit
}

// RuleID returns the explicitly selected rule ID, empty for auto selection.
func (s RuleSelection) RuleID() string {
	return s.ruleID
}
