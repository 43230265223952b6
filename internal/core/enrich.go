package core

// EnrichWithBankData merges bank transactions into the monthly table as
// per-month inflow/outflow totals. Months without transactions keep zero
// values; an empty transaction list returns the table unchanged.
func EnrichWithBankData(t Table, txns []BankTransaction) Table {
	if len(txns) == 0 {
		return t
	}

	credits := make(map[MonthKey]float64)
	debits := make(map[MonthKey]float64)
	for _, txn := range txns {
		key := MonthKeyOf(txn.Date)
		switch txn.Type {
		case TransactionCredit:
			credits[key] += txn.Amount
		case TransactionDebit:
			debits[key] += txn.Amount
		}
	}

	months := make([]MonthlyRecord, len(t.Months))
	copy(months, t.Months)
	for i := range months {
		months[i].BankInflows = credits[months[i].Period]
		months[i].BankOutflows = debits[months[i].Period]
	}
	t.Months = months
	return t
}

// SummarizeBank totals the transaction list for the report's bank section.
func SummarizeBank(txns []BankTransaction) BankSummary {
	s := BankSummary{TransactionCount: len(txns)}
	for _, txn := range txns {
		switch txn.Type {
		case TransactionCredit:
			s.Inflows += txn.Amount
		case TransactionDebit:
			s.Outflows += txn.Amount
		}
	}
	return s
}
