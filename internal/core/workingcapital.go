package core

// WorkingCapital holds days-sales-outstanding, days-payable-outstanding,
// the cash conversion cycle, and conditional advisory actions.
type WorkingCapital struct {
	DSO                 float64  `json:"dso"`
	DPO                 float64  `json:"dpo"`
	CashConversionCycle float64  `json:"cash_conversion_cycle"`
	RiskLevel           string   `json:"risk_level"`
	Actions             []string `json:"actions"`
}

// ComputeWorkingCapital derives DSO, DPO and CCC from monthly averages.
// DSO and DPO fall back to 0 when the respective denominator is zero.
func ComputeWorkingCapital(t Table) WorkingCapital {
	tt := totalsOf(t)

	dso := 0.0
	if tt.AvgRevenue > 0 {
		dso = tt.AvgRecv / tt.AvgRevenue * 30
	}
	dpo := 0.0
	if tt.AvgExpense > 0 {
		dpo = tt.AvgPayable / tt.AvgExpense * 30
	}
	ccc := dso - dpo

	risk := SeverityLow
	switch {
	case ccc > 45:
		risk = SeverityHigh
	case ccc > 30:
		risk = SeverityMedium
	}

	actions := []string{}
	if dso > 30 {
		actions = append(actions, "Speed up receivables collection by tightening credit terms.")
	}
	if dpo < 30 {
		actions = append(actions, "Negotiate longer payment terms with suppliers.")
	}
	if ccc > 45 {
		actions = append(actions, "Consider short-term working capital financing to bridge cash gaps.")
	}

	return WorkingCapital{
		DSO:                 round2(dso),
		DPO:                 round2(dpo),
		CashConversionCycle: round2(ccc),
		RiskLevel:           risk,
		Actions:             actions,
	}
}
