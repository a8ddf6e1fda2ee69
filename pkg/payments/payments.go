// Package payments models the payment methods attached to a sale and checks
// their aggregate against the sale total.
package payments

// Method identifies a payment method attached to a sale.
type Method string

const (
	MethodCash       Method = "cash"
	MethodPix        Method = "pix"
	MethodCreditCard Method = "creditCard"
	MethodDebitCard  Method = "debitCard"
	MethodFinancing  Method = "financing"
	MethodConsortium Method = "consortium"
	MethodTradeIn    Method = "tradeIn"
	MethodMixed      Method = "mixed"
)

// Valid reports whether the method is one of the supported payment methods.
func (m Method) Valid() bool {
	switch m {
	case MethodCash, MethodPix, MethodCreditCard, MethodDebitCard,
		MethodFinancing, MethodConsortium, MethodTradeIn, MethodMixed:
		return true
	default:
		return false
	}
}

// Entry is one payment method entry on a deal. The financing fields are only
// meaningful when Method is MethodFinancing.
type Entry struct {
	ID     string
	Method Method
	Amount float64

	// EntryValue is the down payment on a financing entry. FinancedValue is
	// authoritative when supplied; when nil the financed balance is derived as
	// Amount - EntryValue. The engine does not assume the caller has enforced
	// consistency between the two.
	EntryValue    float64
	FinancedValue *float64
	Installments  int
	InterestRate  float64
}

// FinancedBalance returns the balance subject to amortization for a financing
// entry, preferring an explicitly supplied financed value.
func (e Entry) FinancedBalance() float64 {
	if e.FinancedValue != nil {
		return *e.FinancedValue
	}
	return e.Amount - e.EntryValue
}
