package commission

import (
	"github.com/iwvelando/deal-settlement/pkg/currency"
	"go.uber.org/zap"
)

// Resolution is the outcome of resolving a commission against a deal. Applied
// is false when no active rule matched; callers must surface that state rather
// than treating the zero amount as a correct commission.
type Resolution struct {
	RuleID  string
	Amount  float64
	Applied bool
}

// Resolver selects the applicable commission rule for a deal and computes the
// commission amount.
type Resolver struct {
	logger *zap.Logger
}

// NewResolver creates a new resolver with the given logger. If logger is nil,
// it will use a no-op logger to prevent panics.
func NewResolver(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{logger: logger}
}

// Resolve picks the applicable rule among the supplied snapshot and computes
// the commission for the given sale and purchase prices. An explicit selection
// wins when it names an active rule; otherwise resolution falls back to the
// highest-priority active rule, with ties broken by first-encountered order.
// The rules slice is treated as an immutable snapshot.
func (r *Resolver) Resolve(rules []Rule, selection RuleSelection, salePrice, purchasePrice float64) Resolution {
	active := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		if rule.Active {
			active = append(active, rule)
		}
	}

	var selected *Rule
	if selection.IsExplicit() {
		for i := range active {
			if active[i].ID == selection.RuleID() {
				selected = &active[i]
				break
			}
		}
		if selected == nil {
			r.logger.Debug("explicit rule not found among active rules, falling back to priority selection",
				zap.String("op", "commission.Resolve"),
				zap.String("ruleId", selection.RuleID()),
			)
		}
	}

	if selected == nil {
		for i := range active {
			if selected == nil || active[i].Priority > selected.Priority {
				selected = &active[i]
			}
		}
	}

	if selected == nil {
		return Resolution{}
	}

	amount := ruleAmount(*selected, salePrice, purchasePrice)
	r.logger.Debug("commission rule resolved",
		zap.String("op", "commission.Resolve"),
		zap.String("ruleId", selected.ID),
		zap.String("ruleType", selected.Type.String()),
		zap.Float64("amount", amount),
	)

	return Resolution{RuleID: selected.ID, Amount: amount, Applied: true}
}

// ruleAmount computes the raw commission for a rule. Commissions are never
// negative even when the deal profit is negative.
func ruleAmount(rule Rule, salePrice, purchasePrice float64) float64 {
	var amount float64
	switch rule.Type {
	case FixedAmount:
		amount = rule.FixedValue
	case PercentOfSale:
		amount = currency.ApplyPercentage(salePrice, rule.PercentageValue)
	case PercentOfProfit:
		amount = currency.ApplyPercentage(salePrice-purchasePrice, rule.PercentageValue)
	}
	return currency.Max(0, amount)
}
