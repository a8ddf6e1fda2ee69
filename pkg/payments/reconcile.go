package payments

import (
	"math"

	"github.com/iwvelando/deal-settlement/pkg/amortization"
	"github.com/iwvelando/deal-settlement/pkg/constants"
	"go.uber.org/zap"
)

// EntryResult pairs a payment entry with its derived values. InstallmentValue
// is only set for financing entries with a valid schedule.
type EntryResult struct {
	Entry            Entry
	InstallmentValue *float64
}

// Result is the outcome of reconciling a deal's payment methods against its
// expected total. Imbalance is not an error here; blocking finalization on an
// unbalanced deal is the coordinator's responsibility.
type Result struct {
	Total     float64
	Remaining float64
	Balanced  bool
	Entries   []EntryResult
}

// Reconciler aggregates heterogeneous payment entries and checks them against
// the sale total within a configured tolerance.
type Reconciler struct {
	epsilon float64
	logger  *zap.Logger
}

// NewReconciler creates a reconciler with the given balancing tolerance. A
// non-positive epsilon falls back to the default one-cent tolerance. If logger
// is nil, it will use a no-op logger to prevent panics.
func NewReconciler(epsilon float64, logger *zap.Logger) *Reconciler {
	if epsilon <= 0 {
		epsilon = constants.CurrencyTolerance
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{epsilon: epsilon, logger: logger}
}

// Reconcile sums the entry amounts exactly and compares against the expected
// total: the deal balances when |expectedTotal - total| < epsilon. For each
// financing entry with a positive installment count the per-installment value
// is computed from its financed balance and attached to the entry's result.
func (r *Reconciler) Reconcile(entries []Entry, expectedTotal float64) Result {
	result := Result{Entries: make([]EntryResult, 0, len(entries))}

	for _, entry := range entries {
		result.Total += entry.Amount

		entryResult := EntryResult{Entry: entry}
		if entry.Method == MethodFinancing && entry.Installments > 0 {
			installment := amortization.InstallmentValue(entry.FinancedBalance(), entry.Installments, entry.InterestRate)
			entryResult.InstallmentValue = &installment
		}
		result.Entries = append(result.Entries, entryResult)
	}

	result.Remaining = expectedTotal - result.Total
	result.Balanced = math.Abs(result.Remaining) < r.epsilon

	if !result.Balanced {
		r.logger.Debug("payment methods do not cover the sale total",
			zap.String("op", "payments.Reconcile"),
			zap.Float64("expectedTotal", expectedTotal),
			zap.Float64("total", result.Total),
			zap.Float64("remaining", result.Remaining),
		)
	}

	return result
}
