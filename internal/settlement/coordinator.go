package settlement

import (
	"fmt"

	"github.com/iwvelando/deal-settlement/pkg/commission"
	"github.com/iwvelando/deal-settlement/pkg/constants"
	"github.com/iwvelando/deal-settlement/pkg/currency"
	"github.com/iwvelando/deal-settlement/pkg/payments"
	"github.com/iwvelando/deal-settlement/pkg/profitability"
	"go.uber.org/zap"
)

// Config holds the injected business policy for the coordinator. None of
// these values are hard-coded in the engine; they are supplied per tenant.
type Config struct {
	// HoldingCostDailyRate is the holding cost percentage of total investment
	// accrued per day in stock. Zero disables holding cost.
	HoldingCostDailyRate float64

	// PaymentEpsilon is the payment balancing tolerance. Non-positive values
	// fall back to the one-cent default.
	PaymentEpsilon float64

	// RoundingPrecision is the number of decimal places for currency rounding
	// on derived monetary outputs. Non-positive values fall back to two.
	RoundingPrecision int32
}

// Coordinator runs the settlement pass: reconcile payments, compute vehicle
// profitability, resolve commission, and assemble the settlement result. Each
// call is an independent synchronous computation with no shared mutable state,
// safe for concurrent use.
type Coordinator struct {
	config     Config
	dre        *profitability.Engine
	reconciler *payments.Reconciler
	resolver   *commission.Resolver
	logger     *zap.Logger
}

// NewCoordinator creates a coordinator with the given policy config. If logger
// is nil, it will use a no-op logger to prevent panics.
func NewCoordinator(config Config, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.RoundingPrecision <= 0 {
		config.RoundingPrecision = constants.DefaultRoundingPrecision
	}
	return &Coordinator{
		config:     config,
		dre:        profitability.NewEngine(profitability.Config{HoldingCostDailyRate: config.HoldingCostDailyRate}, logger),
		reconciler: payments.NewReconciler(config.PaymentEpsilon, logger),
		resolver:   commission.NewResolver(logger),
		logger:     logger,
	}
}

// Settle runs the full settlement pass for one deal. The sequencing is
// all-or-nothing: validation and reconciliation failures refuse settlement
// entirely and no partial result is produced. Re-running with identical
// inputs yields an identical result.
func (c *Coordinator) Settle(in DealInputs) (*SettlementResult, error) {
	if err := c.validateSchedules(in.PaymentMethods); err != nil {
		return nil, err
	}

	reconciliation := c.reconciler.Reconcile(in.PaymentMethods, in.CandidateSalePrice)
	if !reconciliation.Balanced {
		c.logger.Warn("settlement refused on unbalanced payments",
			zap.String("op", "settlement.Settle"),
			zap.Float64("remaining", reconciliation.Remaining),
		)
		return nil, &SettlementError{Kind: ErrUnbalancedPayments, Remaining: reconciliation.Remaining}
	}

	candidatePrice := in.CandidateSalePrice
	report := c.dre.Compute(profitability.Inputs{
		PurchasePrice:      in.PurchasePrice,
		RealCosts:          in.RealCosts,
		EstimatedCosts:     in.EstimatedCosts,
		PurchaseDate:       in.PurchaseDate,
		CandidateSalePrice: &candidatePrice,
		ExpectedSaleDays:   in.ExpectedSaleDays,
		EvaluationDate:     in.EvaluationDate,
	})

	resolution := c.resolver.Resolve(in.Rules, in.RuleSelection, in.CandidateSalePrice, in.PurchasePrice)

	result := c.assemble(in, report, resolution, reconciliation)

	c.logger.Info("deal settled",
		zap.String("op", "settlement.Settle"),
		zap.Float64("salePrice", in.CandidateSalePrice),
		zap.Float64("finalCommission", result.FinalCommission),
		zap.Float64("totalCost", result.TotalCost),
	)

	return result, nil
}

// validateSchedules rejects financing entries whose installment count is not
// positive. The amortization calculator would defensively return 0 for these,
// but a zero installment on a real deal is a data error, not a price.
func (c *Coordinator) validateSchedules(entries []payments.Entry) error {
	for _, entry := range entries {
		if entry.Method == payments.MethodFinancing && entry.Installments <= 0 {
			return &SettlementError{
				Kind:   ErrInvalidAmortizationSchedule,
				Detail: fmt.Sprintf("financing entry %s has invalid installment count %d", entry.ID, entry.Installments),
			}
		}
	}
	return nil
}

// assemble builds the settlement result, applying currency rounding to the
// derived monetary outputs. Exact sums (payments total) are passed through
// unrounded so the balance invariant holds bit-for-bit.
func (c *Coordinator) assemble(in DealInputs, report profitability.Report,
	resolution commission.Resolution, reconciliation payments.Result) *SettlementResult {

	round := func(v float64) float64 { return currency.RoundTo(v, c.config.RoundingPrecision) }

	result := &SettlementResult{
		TotalInvestment:      round(report.TotalInvestment),
		HoldingCost:          round(report.HoldingCost),
		TotalCost:            round(report.TotalCost),
		DaysInStock:          report.DaysInStock,
		IsOverdue:            report.IsOverdue,
		CostVariance:         round(report.CostVariance),
		ResolvedRuleID:       resolution.RuleID,
		RuleApplied:          resolution.Applied,
		CalculatedCommission: round(resolution.Amount),
		PaymentsTotal:        reconciliation.Total,
		IsPaymentBalanced:    reconciliation.Balanced,
	}

	result.FinalCommission = round(resolution.Amount + in.ManualCommissionAdjustment)

	if report.ProjectedMargin != nil {
		margin := round(*report.ProjectedMargin)
		result.ProjectedMargin = &margin
	}
	if report.MarginPercent != nil {
		percent := *report.MarginPercent
		result.MarginPercent = &percent
	}

	for _, entryResult := range reconciliation.Entries {
		paymentResult := PaymentResult{
			ID:     entryResult.Entry.ID,
			Method: entryResult.Entry.Method,
			Amount: entryResult.Entry.Amount,
		}
		if entryResult.InstallmentValue != nil {
			installment := round(*entryResult.InstallmentValue)
			paymentResult.InstallmentValue = &installment
		}
		result.Payments = append(result.Payments, paymentResult)
	}

	if !resolution.Applied {
		result.Warnings = append(result.Warnings, "no applicable commission rule; commission is zero")
	}

	return result
}
