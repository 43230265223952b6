package core

import (
	"testing"
	"time"
)

func TestIdentifyRisks(t *testing.T) {
	tests := []struct {
		name      string
		table     Table
		wantTypes []string
	}{
		{
			name:      "healthy table has no risks",
			table:     healthyThreeMonthTable(),
			wantTypes: []string{},
		},
		{
			name: "three negative months trigger cash flow risk",
			table: monthsTable([]MonthlyRecord{
				{Period: MonthKey{2024, time.January}, Revenue: 10, ExpenseAmount: 20},
				{Period: MonthKey{2024, time.February}, Revenue: 10, ExpenseAmount: 20},
				{Period: MonthKey{2024, time.March}, Revenue: 100, ExpenseAmount: 20},
				{Period: MonthKey{2024, time.April}, Revenue: 10, ExpenseAmount: 20},
			}, false),
			wantTypes: []string{"Cash Flow Risk"},
		},
		{
			name: "expense ratio above three quarters",
			table: monthsTable([]MonthlyRecord{
				{Period: MonthKey{2024, time.January}, Revenue: 100, ExpenseAmount: 80},
			}, false),
			wantTypes: []string{"Expense Risk"},
		},
		{
			name: "emi above a fifth of revenue",
			table: monthsTable([]MonthlyRecord{
				{Period: MonthKey{2024, time.January}, Revenue: 100, ExpenseAmount: 10, LoanEMI: 25},
			}, false),
			wantTypes: []string{"Debt Risk"},
		},
		{
			name: "gst dues in two months",
			table: monthsTable([]MonthlyRecord{
				{Period: MonthKey{2024, time.January}, Revenue: 100, GSTDue: 5},
				{Period: MonthKey{2024, time.February}, Revenue: 100, GSTDue: 5},
			}, true),
			wantTypes: []string{"Tax Compliance Risk"},
		},
		{
			name: "multiple risks keep detection order",
			table: monthsTable([]MonthlyRecord{
				{Period: MonthKey{2024, time.January}, Revenue: 10, ExpenseAmount: 30, LoanEMI: 10, GSTDue: 1},
				{Period: MonthKey{2024, time.February}, Revenue: 10, ExpenseAmount: 30, LoanEMI: 10, GSTDue: 1},
				{Period: MonthKey{2024, time.March}, Revenue: 10, ExpenseAmount: 30, LoanEMI: 10, GSTDue: 1},
			}, true),
			wantTypes: []string{"Cash Flow Risk", "Expense Risk", "Debt Risk", "Tax Compliance Risk"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			risks := IdentifyRisks(tt.table)
			if risks == nil {
				t.Fatal("IdentifyRisks returned nil, want empty slice")
			}
			if len(risks) != len(tt.wantTypes) {
				t.Fatalf("got %d risks %v, want %d", len(risks), risks, len(tt.wantTypes))
			}
			for i, want := range tt.wantTypes {
				if risks[i].Type != want {
					t.Errorf("risk[%d].Type = %q, want %q", i, risks[i].Type, want)
				}
			}
		})
	}
}

func TestRiskSeverities(t *testing.T) {
	table := monthsTable([]MonthlyRecord{
		{Period: MonthKey{2024, time.January}, Revenue: 10, ExpenseAmount: 30, LoanEMI: 10, GSTDue: 1},
		{Period: MonthKey{2024, time.February}, Revenue: 10, ExpenseAmount: 30, LoanEMI: 10, GSTDue: 1},
		{Period: MonthKey{2024, time.March}, Revenue: 10, ExpenseAmount: 30, LoanEMI: 10, GSTDue: 1},
	}, true)

	want := map[string]string{
		"Cash Flow Risk":      SeverityHigh,
		"Expense Risk":        SeverityMedium,
		"Debt Risk":           SeverityHigh,
		"Tax Compliance Risk": SeverityMedium,
	}
	for _, r := range IdentifyRisks(table) {
		if want[r.Type] != r.Severity {
			t.Errorf("%s severity = %q, want %q", r.Type, r.Severity, want[r.Type])
		}
	}
}
