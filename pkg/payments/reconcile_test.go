package payments

import (
	"math"
	"testing"

	"go.uber.org/zap"
)

func floatPtr(v float64) *float64 { return &v }

func TestReconcileBalanced(t *testing.T) {
	reconciler := NewReconciler(0.01, zap.NewNop())

	entries := []Entry{
		{ID: "p-1", Method: MethodPix, Amount: 20000},
		{ID: "p-2", Method: MethodFinancing, Amount: 30000, EntryValue: 0,
			FinancedValue: floatPtr(30000), Installments: 24, InterestRate: 1.5},
	}

	result := reconciler.Reconcile(entries, 50000)

	if !result.Balanced {
		t.Errorf("Reconcile() balanced = false, remaining = %.2f", result.Remaining)
	}
	if math.Abs(result.Total-50000) > 0 {
		t.Errorf("Total = %v, expected exactly 50000", result.Total)
	}

	financing := result.Entries[1]
	if financing.InstallmentValue == nil {
		t.Fatal("financing entry carries no installment value")
	}
	// Price table value for 30000 financed over 24 installments at 1.5%/period.
	if math.Abs(*financing.InstallmentValue-1497.72) > 0.01 {
		t.Errorf("InstallmentValue = %.2f, expected 1497.72", *financing.InstallmentValue)
	}
}

func TestReconcileUnbalanced(t *testing.T) {
	reconciler := NewReconciler(0.01, zap.NewNop())

	entries := []Entry{
		{ID: "p-1", Method: MethodPix, Amount: 20000},
		{ID: "p-2", Method: MethodFinancing, Amount: 29000, FinancedValue: floatPtr(29000), Installments: 24, InterestRate: 1.5},
	}

	result := reconciler.Reconcile(entries, 50000)

	if result.Balanced {
		t.Error("Reconcile() balanced = true, expected false")
	}
	if math.Abs(result.Remaining-1000) > 0.001 {
		t.Errorf("Remaining = %.2f, expected 1000.00", result.Remaining)
	}
}

func TestReconcileTotalIsExactSum(t *testing.T) {
	reconciler := NewReconciler(0.01, zap.NewNop())

	entries := []Entry{
		{Method: MethodCash, Amount: 0.1},
		{Method: MethodPix, Amount: 0.2},
		{Method: MethodDebitCard, Amount: 0.3},
	}

	forward := reconciler.Reconcile(entries, 0.6).Total
	reversed := reconciler.Reconcile([]Entry{entries[2], entries[1], entries[0]}, 0.6).Total

	expected := 0.1 + 0.2 + 0.3
	if forward != expected {
		t.Errorf("Total = %v, expected the exact float sum %v", forward, expected)
	}
	if forward != reversed {
		t.Errorf("Total depends on entry order: %v vs %v", forward, reversed)
	}
}

func TestReconcileWithinEpsilon(t *testing.T) {
	reconciler := NewReconciler(0.01, zap.NewNop())

	entries := []Entry{{Method: MethodCash, Amount: 49999.995}}

	result := reconciler.Reconcile(entries, 50000)

	if !result.Balanced {
		t.Errorf("Reconcile() balanced = false for half-cent difference, remaining = %v", result.Remaining)
	}
}

func TestReconcileEmptyEntries(t *testing.T) {
	reconciler := NewReconciler(0, nil)

	result := reconciler.Reconcile(nil, 50000)

	if result.Balanced {
		t.Error("Reconcile() balanced = true for no payments against a positive total")
	}
	if result.Remaining != 50000 {
		t.Errorf("Remaining = %v, expected 50000", result.Remaining)
	}
}

func TestReconcileDerivesFinancedBalance(t *testing.T) {
	reconciler := NewReconciler(0.01, zap.NewNop())

	// No explicit financed value: balance derives from amount minus entry value.
	entries := []Entry{
		{Method: MethodFinancing, Amount: 30000, EntryValue: 6000, Installments: 24, InterestRate: 0},
	}

	result := reconciler.Reconcile(entries, 30000)

	if result.Entries[0].InstallmentValue == nil {
		t.Fatal("financing entry carries no installment value")
	}
	if math.Abs(*result.Entries[0].InstallmentValue-1000) > 0.01 {
		t.Errorf("InstallmentValue = %.2f, expected 1000.00", *result.Entries[0].InstallmentValue)
	}
}

func TestReconcileFinancedValueAuthoritative(t *testing.T) {
	reconciler := NewReconciler(0.01, zap.NewNop())

	// Explicit financed value disagrees with amount minus entry value; the
	// explicit value wins.
	entries := []Entry{
		{Method: MethodFinancing, Amount: 30000, EntryValue: 6000,
			FinancedValue: floatPtr(12000), Installments: 12, InterestRate: 0},
	}

	result := reconciler.Reconcile(entries, 30000)

	if math.Abs(*result.Entries[0].InstallmentValue-1000) > 0.01 {
		t.Errorf("InstallmentValue = %.2f, expected 1000.00 from the explicit financed value", *result.Entries[0].InstallmentValue)
	}
}

func TestReconcileSkipsInvalidSchedules(t *testing.T) {
	reconciler := NewReconciler(0.01, zap.NewNop())

	entries := []Entry{
		{Method: MethodFinancing, Amount: 30000, FinancedValue: floatPtr(30000), Installments: 0, InterestRate: 1.5},
	}

	result := reconciler.Reconcile(entries, 30000)

	if result.Entries[0].InstallmentValue != nil {
		t.Errorf("InstallmentValue = %v, expected nil for a zero-installment schedule", *result.Entries[0].InstallmentValue)
	}
}

func TestMethodValid(t *testing.T) {
	for _, m := range []Method{MethodCash, MethodPix, MethodCreditCard, MethodDebitCard,
		MethodFinancing, MethodConsortium, MethodTradeIn, MethodMixed} {
		if !m.Valid() {
			t.Errorf("Method %q reported invalid", m)
		}
	}
	if Method("check").Valid() {
		t.Error(`Method "check" reported valid`)
	}
}
