package core

// IdentifyRisks evaluates the fixed risk rules over the table. Each rule is
// independent; the returned order is detection order, not severity order.
// No risks means an empty slice, never nil.
func IdentifyRisks(t Table) []Risk {
	risks := []Risk{}
	tt := totalsOf(t)

	negative := 0
	for _, m := range t.Months {
		if m.NetCash() < 0 {
			negative++
		}
	}
	if negative >= 3 {
		risks = append(risks, Risk{
			Type:     "Cash Flow Risk",
			Severity: SeverityHigh,
			Reason:   "Negative cash flow in 3 or more months",
		})
	}

	if tt.ExpenseRatio() > 0.75 {
		risks = append(risks, Risk{
			Type:     "Expense Risk",
			Severity: SeverityMedium,
			Reason:   "Expenses exceed 75% of revenue",
		})
	}

	if tt.DebtRatio() > 0.2 {
		risks = append(risks, Risk{
			Type:     "Debt Risk",
			Severity: SeverityHigh,
			Reason:   "Loan EMIs consume more than 20% of revenue",
		})
	}

	delayed := 0
	for _, m := range t.Months {
		if m.GSTDue > 0 {
			delayed++
		}
	}
	if delayed >= 2 {
		risks = append(risks, Risk{
			Type:     "Tax Compliance Risk",
			Severity: SeverityMedium,
			Reason:   "GST dues pending in multiple months",
		})
	}

	return risks
}
