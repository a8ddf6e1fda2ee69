// Package settlement orchestrates the deal settlement computation: payment
// reconciliation, vehicle profitability, and commission resolution combined
// into a single all-or-nothing settlement pass.
package settlement

import (
	"fmt"
	"time"

	"github.com/iwvelando/deal-settlement/pkg/commission"
	"github.com/iwvelando/deal-settlement/pkg/payments"
	"github.com/iwvelando/deal-settlement/pkg/profitability"
)

// DealInputs carries the raw deal parameters for one settlement computation.
// Inputs are ephemeral: the coordinator never mutates or retains them.
type DealInputs struct {
	PurchasePrice      float64
	RealCosts          []profitability.CostItem
	EstimatedCosts     profitability.EstimatedCosts
	PurchaseDate       time.Time
	CandidateSalePrice float64
	ExpectedSaleDays   *int

	PaymentMethods []payments.Entry

	// Rules is the snapshot of active commission rules supplied by the caller
	// and RuleSelection says how to pick among them.
	Rules         []commission.Rule
	RuleSelection commission.RuleSelection

	ManualCommissionAdjustment float64

	// EvaluationDate anchors days-in-stock; the zero value means "now".
	EvaluationDate time.Time
}

// SettlementResult is the assembled output of a successful settlement pass,
// consumed (and typically persisted) by the caller. It is a pure function of
// the inputs: identical inputs produce an identical result.
type SettlementResult struct {
	TotalInvestment float64  `json:"totalInvestment"`
	HoldingCost     float64  `json:"holdingCost"`
	TotalCost       float64  `json:"totalCost"`
	ProjectedMargin *float64 `json:"projectedMargin"`
	MarginPercent   *float64 `json:"marginPercent"`
	DaysInStock     int      `json:"daysInStock"`
	IsOverdue       bool     `json:"isOverdue"`
	CostVariance    float64  `json:"costVariance"`

	ResolvedRuleID       string  `json:"resolvedRuleId,omitempty"`
	RuleApplied          bool    `json:"ruleApplied"`
	CalculatedCommission float64 `json:"calculatedCommission"`
	FinalCommission      float64 `json:"finalCommission"`

	PaymentsTotal     float64         `json:"paymentsTotal"`
	IsPaymentBalanced bool            `json:"isPaymentBalanced"`
	Payments          []PaymentResult `json:"payments"`

	// Warnings surface advisory states such as "no commission rule applied"
	// that are not failures but must not pass silently.
	Warnings []string `json:"warnings,omitempty"`
}

// PaymentResult echoes one payment entry with its derived installment value.
type PaymentResult struct {
	ID               string          `json:"id,omitempty"`
	Method           payments.Method `json:"method"`
	Amount           float64         `json:"amount"`
	InstallmentValue *float64        `json:"installmentValue,omitempty"`
}

// ErrorKind classifies why a settlement was refused.
type ErrorKind string

const (
	// ErrUnbalancedPayments means the payment methods do not cover the sale
	// total within the configured tolerance.
	ErrUnbalancedPayments ErrorKind = "UnbalancedPayments"

	// ErrInvalidAmortizationSchedule means a financing entry carries a zero or
	// negative installment count.
	ErrInvalidAmortizationSchedule ErrorKind = "InvalidAmortizationSchedule"
)

// SettlementError is the typed refusal returned when a deal cannot settle.
// No partial result accompanies it.
type SettlementError struct {
	Kind      ErrorKind `json:"kind"`
	Remaining float64   `json:"remaining,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

func (e *SettlementError) Error() string {
	switch e.Kind {
	case ErrUnbalancedPayments:
		return fmt.Sprintf("settlement refused: payments unbalanced, remaining %.2f", e.Remaining)
	case ErrInvalidAmortizationSchedule:
		return fmt.Sprintf("settlement refused: %s", e.Detail)
	default:
		return fmt.Sprintf("settlement refused: %s", string(e.Kind))
	}
}
