package core

import "math"

// tableTotals holds sums and means shared by the analytic functions. Every
// ratio derived from these uses a floor-of-1 denominator so an all-zero table
// still yields defined values.
type tableTotals struct {
	Revenue    float64
	Expenses   float64
	EMI        float64
	GSTPaid    float64
	GSTDue     float64
	Months     int
	AvgRevenue float64
	AvgExpense float64
	AvgRecv    float64
	AvgPayable float64
}

func totalsOf(t Table) tableTotals {
	tt := tableTotals{Months: len(t.Months)}
	for _, m := range t.Months {
		tt.Revenue += m.Revenue
		tt.Expenses += m.ExpenseAmount
		tt.EMI += m.LoanEMI
		tt.GSTPaid += m.GSTPaid
		tt.GSTDue += m.GSTDue
		tt.AvgRevenue += m.Revenue
		tt.AvgExpense += m.ExpenseAmount
		tt.AvgRecv += m.AccountsReceivable
		tt.AvgPayable += m.AccountsPayable
	}
	n := float64(maxInt(tt.Months, 1))
	tt.AvgRevenue /= n
	tt.AvgExpense /= n
	tt.AvgRecv /= n
	tt.AvgPayable /= n
	return tt
}

// ProfitMargin is (Σrevenue − Σexpense) / max(Σrevenue, 1).
func (t tableTotals) ProfitMargin() float64 {
	return (t.Revenue - t.Expenses) / math.Max(t.Revenue, 1)
}

// ExpenseRatio is Σexpense / max(Σrevenue, 1).
func (t tableTotals) ExpenseRatio() float64 {
	return t.Expenses / math.Max(t.Revenue, 1)
}

// DebtRatio is Σemi / max(Σrevenue, 1).
func (t tableTotals) DebtRatio() float64 {
	return t.EMI / math.Max(t.Revenue, 1)
}

// LiquidityRatio is mean(receivable) / max(mean(payable), 1).
func (t tableTotals) LiquidityRatio() float64 {
	return t.AvgRecv / math.Max(t.AvgPayable, 1)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
