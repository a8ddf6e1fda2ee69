// Package amortization provides fixed-installment (Price table) financing math.
package amortization

import (
	"fmt"
	"math"

	"github.com/iwvelando/deal-settlement/pkg/constants"
	"github.com/iwvelando/deal-settlement/pkg/currency"
	"go.uber.org/zap"
)

// Installment holds the values for a single installment of a financing schedule.
type Installment struct {
	Number           int
	Payment          float64
	Principal        float64
	Interest         float64
	RemainingBalance float64
}

// InstallmentValue calculates the fixed installment for a financed balance
// using the standard Price table amortization formula. The rate is a percentage
// per period; the period granularity is the caller's contract.
//
// A non-positive installment count returns 0; callers are expected to reject
// invalid schedules before relying on this value. A negative financed value is
// passed through as-is so upstream sign errors stay visible.
func InstallmentValue(financedValue float64, installments int, periodicRate float64) float64 {
	if installments <= 0 {
		return 0
	}

	if periodicRate == 0 {
		// For zero interest, simply divide the balance by the installment count
		return financedValue / float64(installments)
	}

	rate := periodicRate / constants.PercentageMultiplier
	power := math.Pow(1.00+rate, float64(installments))
	discountFactor := (power - 1.00) / power
	return financedValue * rate / discountFactor
}

// InterestPortion calculates the interest component of an installment given
// the balance remaining before the payment.
func InterestPortion(remainingBalance, periodicRate float64) float64 {
	return remainingBalance * periodicRate / constants.PercentageMultiplier
}

// ScheduleGenerator produces full per-installment financing schedules.
type ScheduleGenerator struct {
	logger *zap.Logger
}

// NewScheduleGenerator creates a new generator instance. If logger is nil it
// will use a no-op logger to prevent panics.
func NewScheduleGenerator(logger *zap.Logger) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGenerator{logger: logger}
}

// GenerateSchedule creates the complete amortization schedule for a financed
// balance. The final installment absorbs any rounding residue so the balance
// lands on exactly zero.
func (g *ScheduleGenerator) GenerateSchedule(financedValue float64, installments int, periodicRate float64) ([]Installment, error) {
	if installments <= 0 {
		return nil, fmt.Errorf("invalid installment count %d, must be positive", installments)
	}
	if financedValue < 0 {
		g.logger.Warn("negative financed value supplied to schedule generation",
			zap.String("op", "amortization.GenerateSchedule"),
			zap.Float64("financedValue", financedValue),
		)
	}

	payment := InstallmentValue(financedValue, installments, periodicRate)
	schedule := make([]Installment, 0, installments)
	balance := financedValue

	for number := 1; number <= installments; number++ {
		interest := InterestPortion(balance, periodicRate)
		principal := payment - interest

		if number == installments || currency.Round(balance-principal) == 0 {
			// Settle the remaining balance exactly on the last installment to
			// avoid machine error carrying past maturity.
			principal = balance
			schedule = append(schedule, Installment{
				Number:           number,
				Payment:          principal + interest,
				Principal:        principal,
				Interest:         interest,
				RemainingBalance: 0.00,
			})
			break
		}

		balance -= principal
		schedule = append(schedule, Installment{
			Number:           number,
			Payment:          payment,
			Principal:        principal,
			Interest:         interest,
			RemainingBalance: balance,
		})
	}

	return schedule, nil
}
