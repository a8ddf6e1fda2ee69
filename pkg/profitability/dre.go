// Package profitability computes per-vehicle profitability (DRE): total
// investment, time-decayed holding cost, and projected margin for a candidate
// sale price.
package profitability

import (
	"time"

	"github.com/iwvelando/deal-settlement/pkg/currency"
	"github.com/iwvelando/deal-settlement/pkg/datetime"
	"go.uber.org/zap"
)

// CostItem is one itemized real cost recorded against a vehicle while it sits
// in inventory.
type CostItem struct {
	ID       string
	Type     string
	Amount   float64
	CostDate time.Time
}

// EstimatedCosts holds the up-front cost estimates for preparing a vehicle.
type EstimatedCosts struct {
	Maintenance   float64
	Cleaning      float64
	Documentation float64
	Other         float64
}

// Total sums all estimated cost categories.
func (e EstimatedCosts) Total() float64 {
	return e.Maintenance + e.Cleaning + e.Documentation + e.Other
}

// Inputs carries everything needed for one profitability computation. The
// engine never mutates inputs; it only derives outputs.
type Inputs struct {
	PurchasePrice      float64
	RealCosts          []CostItem
	EstimatedCosts     EstimatedCosts
	PurchaseDate       time.Time
	CandidateSalePrice *float64
	ExpectedSaleDays   *int

	// EvaluationDate anchors the days-in-stock computation. The zero value
	// means "now"; tests supply a fixed date for reproducibility.
	EvaluationDate time.Time
}

// Report is the computed profitability statement for a vehicle.
type Report struct {
	TotalInvestment float64
	DaysInStock     int
	HoldingCost     float64
	TotalCost       float64

	// ProjectedMargin and MarginPercent are nil when no candidate sale price
	// exists, and MarginPercent is also nil when TotalInvestment is zero so a
	// division by zero never surfaces as NaN or Inf.
	ProjectedMargin *float64
	MarginPercent   *float64

	IsOverdue    bool
	CostVariance float64
}

// Config holds the business policy the engine needs injected. The holding
// cost daily rate is a percentage of total investment accrued per day in
// stock; zero disables holding cost entirely.
type Config struct {
	HoldingCostDailyRate float64
}

// Engine computes vehicle profitability reports.
type Engine struct {
	config Config
	logger *zap.Logger
}

// NewEngine creates a new profitability engine with the given policy config.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewEngine(config Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{config: config, logger: logger}
}

// Compute derives the profitability report for one vehicle.
func (e *Engine) Compute(in Inputs) Report {
	var report Report

	totalRealCosts := 0.0
	for _, item := range in.RealCosts {
		totalRealCosts += item.Amount
	}

	report.TotalInvestment = in.PurchasePrice + totalRealCosts

	evaluationDate := in.EvaluationDate
	if evaluationDate.IsZero() {
		evaluationDate = time.Now()
	}
	days := datetime.DaysBetween(in.PurchaseDate, evaluationDate)
	if days < 0 {
		days = 0
	}
	report.DaysInStock = days

	if e.config.HoldingCostDailyRate > 0 {
		dailyCost := currency.ApplyPercentage(report.TotalInvestment, e.config.HoldingCostDailyRate)
		report.HoldingCost = dailyCost * float64(report.DaysInStock)
	}
	report.TotalCost = report.TotalInvestment + report.HoldingCost

	if in.CandidateSalePrice != nil {
		margin := *in.CandidateSalePrice - report.TotalCost
		report.ProjectedMargin = &margin
		if report.TotalInvestment > 0 {
			percent := currency.PercentageOf(margin, report.TotalInvestment)
			report.MarginPercent = &percent
		}
	}

	if in.ExpectedSaleDays != nil && report.DaysInStock > *in.ExpectedSaleDays {
		report.IsOverdue = true
	}

	report.CostVariance = totalRealCosts - in.EstimatedCosts.Total()

	e.logger.Debug("profitability computed",
		zap.String("op", "profitability.Compute"),
		zap.Float64("totalInvestment", report.TotalInvestment),
		zap.Int("daysInStock", report.DaysInStock),
		zap.Float64("holdingCost", report.HoldingCost),
	)

	return report
}
