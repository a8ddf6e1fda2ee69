package config

import (
	"fmt"
	"io"
	"time"

	"github.com/iwvelando/deal-settlement/internal/settlement"
	"github.com/iwvelando/deal-settlement/pkg/commission"
	"github.com/iwvelando/deal-settlement/pkg/currency"
	"github.com/iwvelando/deal-settlement/pkg/payments"
	"github.com/iwvelando/deal-settlement/pkg/profitability"
	"github.com/spf13/viper"
)

// RuleSelectionAuto is the deal-file value requesting priority-based rule
// selection. It only exists at the file boundary; inside the engine the
// selection is a tagged variant.
const RuleSelectionAuto = "auto"

// Deal is the file representation of one deal's settlement inputs, including
// the active commission rule snapshot.
type Deal struct {
	PurchasePrice              float64          `yaml:"purchasePrice"`
	PurchaseDate               string           `yaml:"purchaseDate"`
	CandidateSalePrice         float64          `yaml:"candidateSalePrice"`
	ExpectedSaleDays           *int             `yaml:"expectedSaleDays,omitempty"`
	EvaluationDate             string           `yaml:"evaluationDate,omitempty"`
	RealCosts                  []CostItem       `yaml:"realCosts,omitempty"`
	EstimatedCosts             EstimatedCosts   `yaml:"estimatedCosts,omitempty"`
	PaymentMethods             []PaymentMethod  `yaml:"paymentMethods"`
	CommissionRule             string           `yaml:"commissionRule,omitempty"`
	ManualCommissionAdjustment float64          `yaml:"manualCommissionAdjustment,omitempty"`
	Rules                      []CommissionRule `yaml:"rules,omitempty"`
}

// CostItem is one recorded real cost against the vehicle.
type CostItem struct {
	ID       string  `yaml:"id,omitempty"`
	CostType string  `yaml:"costType"`
	Amount   float64 `yaml:"amount"`
	CostDate string  `yaml:"costDate,omitempty"`
}

// EstimatedCosts holds up-front preparation cost estimates.
type EstimatedCosts struct {
	Maintenance   float64 `yaml:"maintenance,omitempty"`
	Cleaning      float64 `yaml:"cleaning,omitempty"`
	Documentation float64 `yaml:"documentation,omitempty"`
	Other         float64 `yaml:"other,omitempty"`
}

// PaymentMethod is one payment entry on the deal.
type PaymentMethod struct {
	ID            string   `yaml:"id,omitempty"`
	Method        string   `yaml:"method"`
	Amount        float64  `yaml:"amount"`
	EntryValue    float64  `yaml:"entryValue,omitempty"`
	FinancedValue *float64 `yaml:"financedValue,omitempty"`
	Installments  int      `yaml:"installments,omitempty"`
	InterestRate  float64  `yaml:"interestRate,omitempty"`
}

// CommissionRule is the file representation of one configured rule.
type CommissionRule struct {
	ID              string  `yaml:"id"`
	Name            string  `yaml:"name,omitempty"`
	Type            string  `yaml:"type"`
	FixedValue      float64 `yaml:"fixedValue,omitempty"`
	PercentageValue float64 `yaml:"percentageValue,omitempty"`
	Priority        int     `yaml:"priority"`
	Active          bool    `yaml:"active"`
}

// LoadDeal takes a file path as input and loads the YAML-formatted deal there.
func LoadDeal(dealPath string) (*Deal, error) {
	v := viper.New()
	v.SetConfigFile(dealPath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading deal file, %s", err)
	}

	var deal Deal
	if err := v.Unmarshal(&deal); err != nil {
		return nil, fmt.Errorf("unable to decode deal into struct, %s", err)
	}

	return &deal, nil
}

// LoadDealFromReader loads a YAML-formatted deal from an arbitrary reader,
// e.g. an HTTP request body.
func LoadDealFromReader(r io.Reader) (*Deal, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading deal data, %s", err)
	}

	var deal Deal
	if err := v.Unmarshal(&deal); err != nil {
		return nil, fmt.Errorf("unable to decode deal into struct, %s", err)
	}

	return &deal, nil
}

// Validate checks the deal for structural errors and returns advisory
// warnings for conditions that settle but deserve attention.
func (d *Deal) Validate() ([]string, error) {
	var warnings []string

	if d.PurchasePrice < 0 {
		return warnings, fmt.Errorf("purchasePrice %.2f is negative", d.PurchasePrice)
	}
	if d.CandidateSalePrice <= 0 {
		return warnings, fmt.Errorf("candidateSalePrice %.2f must be positive", d.CandidateSalePrice)
	}
	if len(d.PaymentMethods) == 0 {
		return warnings, fmt.Errorf("deal has no payment methods")
	}

	for i, pm := range d.PaymentMethods {
		if !payments.Method(pm.Method).Valid() {
			return warnings, fmt.Errorf("paymentMethods[%d] has unknown method %q", i, pm.Method)
		}
		if pm.Amount < 0 {
			return warnings, fmt.Errorf("paymentMethods[%d] has negative amount %.2f", i, pm.Amount)
		}
		if payments.Method(pm.Method) == payments.MethodFinancing {
			if pm.Installments <= 0 {
				return warnings, fmt.Errorf("paymentMethods[%d] financing has invalid installment count %d", i, pm.Installments)
			}
			if pm.InterestRate < 0 {
				return warnings, fmt.Errorf("paymentMethods[%d] financing has negative interest rate %.4f", i, pm.InterestRate)
			}
			if pm.FinancedValue != nil {
				if *pm.FinancedValue < 0 {
					warnings = append(warnings, fmt.Sprintf(
						"paymentMethods[%d] carries a negative financed value %.2f", i, *pm.FinancedValue))
				}
				if !currency.WithinTolerance(*pm.FinancedValue, pm.Amount-pm.EntryValue, 0.01) {
					warnings = append(warnings, fmt.Sprintf(
						"paymentMethods[%d] financed value %.2f disagrees with amount minus entry value %.2f; the financed value is used",
						i, *pm.FinancedValue, pm.Amount-pm.EntryValue))
				}
			}
		}
	}

	for i, rule := range d.Rules {
		if rule.ID == "" {
			return warnings, fmt.Errorf("rules[%d] has no id", i)
		}
		if _, ok := commission.ParseRuleType(rule.Type); !ok {
			return warnings, fmt.Errorf("rules[%d] has unknown type %q", i, rule.Type)
		}
		if rule.PercentageValue < 0 || rule.PercentageValue > 100 {
			return warnings, fmt.Errorf("rules[%d] percentageValue %.2f must be between 0 and 100", i, rule.PercentageValue)
		}
	}

	if d.CommissionRule != "" && d.CommissionRule != RuleSelectionAuto {
		found := false
		for _, rule := range d.Rules {
			if rule.ID == d.CommissionRule && rule.Active {
				found = true
				break
			}
		}
		if !found {
			warnings = append(warnings, fmt.Sprintf(
				"commissionRule %q does not name an active rule; resolution will fall back to priority selection", d.CommissionRule))
		}
	}

	if _, err := time.Parse(DateTimeLayout, d.PurchaseDate); err != nil {
		return warnings, fmt.Errorf("purchaseDate %q is not in %s format", d.PurchaseDate, DateTimeLayout)
	}
	if d.EvaluationDate != "" {
		if _, err := time.Parse(DateTimeLayout, d.EvaluationDate); err != nil {
			return warnings, fmt.Errorf("evaluationDate %q is not in %s format", d.EvaluationDate, DateTimeLayout)
		}
	}

	return warnings, nil
}

// Inputs converts the validated deal file into engine inputs.
func (d *Deal) Inputs() (settlement.DealInputs, error) {
	purchaseDate, err := time.Parse(DateTimeLayout, d.PurchaseDate)
	if err != nil {
		return settlement.DealInputs{}, fmt.Errorf("failed to parse purchaseDate: %w", err)
	}

	var evaluationDate time.Time
	if d.EvaluationDate != "" {
		evaluationDate, err = time.Parse(DateTimeLayout, d.EvaluationDate)
		if err != nil {
			return settlement.DealInputs{}, fmt.Errorf("failed to parse evaluationDate: %w", err)
		}
	}

	inputs := settlement.DealInputs{
		PurchasePrice: d.PurchasePrice,
		PurchaseDate:  purchaseDate,
		EstimatedCosts: profitability.EstimatedCosts{
			Maintenance:   d.EstimatedCosts.Maintenance,
			Cleaning:      d.EstimatedCosts.Cleaning,
			Documentation: d.EstimatedCosts.Documentation,
			Other:         d.EstimatedCosts.Other,
		},
		CandidateSalePrice:         d.CandidateSalePrice,
		ExpectedSaleDays:           d.ExpectedSaleDays,
		ManualCommissionAdjustment: d.ManualCommissionAdjustment,
		EvaluationDate:             evaluationDate,
	}

	for _, item := range d.RealCosts {
		costItem := profitability.CostItem{
			ID:     item.ID,
			Type:   item.CostType,
			Amount: item.Amount,
		}
		if item.CostDate != "" {
			costDate, err := time.Parse(DateTimeLayout, item.CostDate)
			if err != nil {
				return settlement.DealInputs{}, fmt.Errorf("failed to parse costDate %q: %w", item.CostDate, err)
			}
			costItem.CostDate = costDate
		}
		inputs.RealCosts = append(inputs.RealCosts, costItem)
	}

	for _, pm := range d.PaymentMethods {
		inputs.PaymentMethods = append(inputs.PaymentMethods, payments.Entry{
			ID:            pm.ID,
			Method:        payments.Method(pm.Method),
			Amount:        pm.Amount,
			EntryValue:    pm.EntryValue,
			FinancedValue: pm.FinancedValue,
			Installments:  pm.Installments,
			InterestRate:  pm.InterestRate,
		})
	}

	for _, rule := range d.Rules {
		ruleType, _ := commission.ParseRuleType(rule.Type)
		inputs.Rules = append(inputs.Rules, commission.Rule{
			ID:              rule.ID,
			Name:            rule.Name,
			Type:            ruleType,
			FixedValue:      rule.FixedValue,
			PercentageValue: rule.PercentageValue,
			Priority:        rule.Priority,
			Active:          rule.Active,
		})
	}

	if d.CommissionRule == "" || d.CommissionRule == RuleSelectionAuto {
		inputs.RuleSelection = commission.AutoSelection()
	} else {
		inputs.RuleSelection = commission.ExplicitSelection(d.CommissionRule)
	}

	return inputs, nil
}
