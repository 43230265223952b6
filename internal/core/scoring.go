package core

import "math"

// fallbackTaxScore is used when the source carried no GST column at all,
// so GST punctuality cannot be computed.
const fallbackTaxScore = 3

type (
	// ScoreBreakdown holds the six weighted components of the health
	// score. Component weights: cash flow 25, profitability 20,
	// expenses 15, liquidity 15, debt 15, tax 10.
	ScoreBreakdown struct {
		CashFlow      float64 `json:"cash_flow"`
		Profitability float64 `json:"profitability"`
		Expenses      float64 `json:"expenses"`
		Liquidity     float64 `json:"liquidity"`
		Debt          float64 `json:"debt"`
		Tax           float64 `json:"tax"`
	}

	// HealthScore is the composite 0-100 financial health score.
	HealthScore struct {
		TotalScore int            `json:"total_score"`
		Breakdown  ScoreBreakdown `json:"breakdown"`
	}
)

// CalculateHealthScore computes the weighted health rubric over the
// normalized table. Every ratio uses a floor-of-1 denominator, so zero
// revenue, zero expense, or an empty table never panics.
func CalculateHealthScore(t Table) HealthScore {
	tt := totalsOf(t)
	months := maxInt(tt.Months, 1)

	positive := 0
	for _, m := range t.Months {
		if m.NetCash() > 0 {
			positive++
		}
	}
	cashFlow := float64(positive) / float64(months) * 25

	var profitability float64
	switch margin := tt.ProfitMargin(); {
	case margin >= 0.2:
		profitability = 20
	case margin >= 0.1:
		profitability = 15
	case margin > 0:
		profitability = 8
	}

	var expenses float64
	switch ratio := tt.ExpenseRatio(); {
	case ratio <= 0.6:
		expenses = 15
	case ratio <= 0.75:
		expenses = 10
	case ratio <= 0.9:
		expenses = 5
	}

	var liquidity float64
	switch ratio := tt.LiquidityRatio(); {
	case ratio >= 1.5:
		liquidity = 15
	case ratio >= 1.0:
		liquidity = 10
	case ratio >= 0.7:
		liquidity = 5
	}

	var debt float64
	switch ratio := tt.DebtRatio(); {
	case ratio <= 0.1:
		debt = 15
	case ratio <= 0.2:
		debt = 10
	case ratio <= 0.3:
		debt = 5
	}

	tax := float64(fallbackTaxScore)
	if t.HasGSTData {
		settled := 0
		for _, m := range t.Months {
			if m.GSTDue == 0 {
				settled++
			}
		}
		tax = float64(settled) / float64(months) * 10
	}

	total := int(math.Round(cashFlow + profitability + expenses + liquidity + debt + tax))

	return HealthScore{
		TotalScore: total,
		Breakdown: ScoreBreakdown{
			CashFlow:      round1(cashFlow),
			Profitability: profitability,
			Expenses:      expenses,
			Liquidity:     liquidity,
			Debt:          debt,
			Tax:           round1(tax),
		},
	}
}

// HealthStatus maps a total score onto the three health bands.
func HealthStatus(score int) string {
	switch {
	case score >= 75:
		return StatusHealthy
	case score >= 50:
		return StatusWatch
	default:
		return StatusAtRisk
	}
}
