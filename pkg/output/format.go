// Package output provides utilities for formatting and displaying settlement results.
package output

import (
	"fmt"
	"strings"

	"github.com/iwvelando/deal-settlement/internal/settlement"
	"github.com/iwvelando/deal-settlement/pkg/amortization"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable summary
// of a settlement result.
func PrettyFormat(result *settlement.SettlementResult) {
	p := message.NewPrinter(language.English)

	fmt.Printf("--- Settlement result ---\n")
	_, _ = p.Printf("Total investment      | $%.2f\n", result.TotalInvestment)
	_, _ = p.Printf("Holding cost          | $%.2f (%d days in stock)\n", result.HoldingCost, result.DaysInStock)
	_, _ = p.Printf("Total cost            | $%.2f\n", result.TotalCost)
	if result.ProjectedMargin != nil {
		_, _ = p.Printf("Projected margin      | $%.2f\n", *result.ProjectedMargin)
	}
	if result.MarginPercent != nil {
		_, _ = p.Printf("Margin percent        | %.2f%%\n", *result.MarginPercent)
	}
	_, _ = p.Printf("Cost variance         | $%.2f\n", result.CostVariance)
	if result.RuleApplied {
		_, _ = p.Printf("Commission rule       | %s\n", result.ResolvedRuleID)
	} else {
		fmt.Printf("Commission rule       | (none applied)\n")
	}
	_, _ = p.Printf("Calculated commission | $%.2f\n", result.CalculatedCommission)
	_, _ = p.Printf("Final commission      | $%.2f\n", result.FinalCommission)
	if result.IsOverdue {
		fmt.Printf("Inventory status      | OVERDUE\n")
	}

	fmt.Printf("\nMethod      | Amount        | Installment\n")
	fmt.Printf("______      | ______        | ___________\n")
	for _, payment := range result.Payments {
		if payment.InstallmentValue != nil {
			_, _ = p.Printf("%-11s | $%.2f | $%.2f\n", payment.Method, payment.Amount, *payment.InstallmentValue)
		} else {
			_, _ = p.Printf("%-11s | $%.2f | -\n", payment.Method, payment.Amount)
		}
	}
	_, _ = p.Printf("Payments total: $%.2f (balanced: %v)\n", result.PaymentsTotal, result.IsPaymentBalanced)

	for _, warning := range result.Warnings {
		fmt.Printf("Warning: %s\n", warning)
	}
}

// PrettySchedule outputs the per-installment breakdown of one financing entry.
func PrettySchedule(label string, schedule []amortization.Installment) {
	p := message.NewPrinter(language.English)

	fmt.Printf("\n--- Amortization schedule for %s ---\n", label)
	fmt.Printf("#    | Payment     | Principal   | Interest    | Balance\n")
	fmt.Printf("_    | _______     | _________   | ________    | _______\n")
	for _, installment := range schedule {
		_, _ = p.Printf("%-4d | $%.2f | $%.2f | $%.2f | $%.2f\n",
			installment.Number, installment.Payment, installment.Principal,
			installment.Interest, installment.RemainingBalance)
	}
}

// CsvString renders the settlement result in comma-separated value format.
func CsvString(result *settlement.SettlementResult) string {
	var builder strings.Builder
	builder.WriteString("\"metric\",\"value\"\n")
	fmt.Fprintf(&builder, "\"totalInvestment\",\"%.2f\"\n", result.TotalInvestment)
	fmt.Fprintf(&builder, "\"holdingCost\",\"%.2f\"\n", result.HoldingCost)
	fmt.Fprintf(&builder, "\"daysInStock\",\"%d\"\n", result.DaysInStock)
	fmt.Fprintf(&builder, "\"totalCost\",\"%.2f\"\n", result.TotalCost)
	if result.ProjectedMargin != nil {
		fmt.Fprintf(&builder, "\"projectedMargin\",\"%.2f\"\n", *result.ProjectedMargin)
	}
	if result.MarginPercent != nil {
		fmt.Fprintf(&builder, "\"marginPercent\",\"%.4f\"\n", *result.MarginPercent)
	}
	fmt.Fprintf(&builder, "\"costVariance\",\"%.2f\"\n", result.CostVariance)
	fmt.Fprintf(&builder, "\"resolvedRuleId\",\"%s\"\n", result.ResolvedRuleID)
	fmt.Fprintf(&builder, "\"calculatedCommission\",\"%.2f\"\n", result.CalculatedCommission)
	fmt.Fprintf(&builder, "\"finalCommission\",\"%.2f\"\n", result.FinalCommission)
	fmt.Fprintf(&builder, "\"paymentsTotal\",\"%.2f\"\n", result.PaymentsTotal)
	fmt.Fprintf(&builder, "\"isPaymentBalanced\",\"%v\"\n", result.IsPaymentBalanced)
	for _, payment := range result.Payments {
		if payment.InstallmentValue != nil {
			fmt.Fprintf(&builder, "\"payment:%s\",\"%.2f (installment %.2f)\"\n", payment.Method, payment.Amount, *payment.InstallmentValue)
		} else {
			fmt.Fprintf(&builder, "\"payment:%s\",\"%.2f\"\n", payment.Method, payment.Amount)
		}
	}
	return builder.String()
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(result *settlement.SettlementResult) {
	fmt.Print(CsvString(result))
}
