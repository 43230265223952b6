package core

import (
	"testing"
	"time"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		description    string
		wantAccount    string
		wantConfidence float64
	}{
		{"Office rent for March", "Rent & Lease", 0.9},
		{"SALARY payout", "Salaries & Wages", 0.9},
		{"electricity bill", "Utilities", 0.9},
		{"Facebook ads campaign", "Marketing & Advertising", 0.9},
		{"shipping charges", "Logistics & Transport", 0.9},
		{"stationery purchase", "Office Expenses", 0.9},
		{"legal retainer", "Professional Fees", 0.9},
		{"loan interest", "Interest & Finance Charges", 0.9},
		{"mystery payment xyz", UncategorizedAccount, 0.5},
		{"", UncategorizedAccount, 0.4},
		{"   ", UncategorizedAccount, 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			account, confidence := Categorize(tt.description)
			if account != tt.wantAccount {
				t.Errorf("account = %q, want %q", account, tt.wantAccount)
			}
			if confidence != tt.wantConfidence {
				t.Errorf("confidence = %v, want %v", confidence, tt.wantConfidence)
			}
		})
	}
}

func TestCategorizeDeclarationOrderWins(t *testing.T) {
	// "office rent" matches both Rent & Lease ("rent") and Office Expenses
	// ("office"); the earlier chart entry must win.
	account, _ := Categorize("office rent")
	if account != "Rent & Lease" {
		t.Errorf("account = %q, want Rent & Lease by declaration order", account)
	}
}

func TestAutomatedBookkeeping(t *testing.T) {
	period := MonthKey{2024, time.January}
	table := Table{
		Months: []MonthlyRecord{{Period: period, ExpenseAmount: 1000}},
		Entries: []ExpenseEntry{
			{Period: period, Description: "office rent", Amount: 500},
			{Period: period, Description: "salary", Amount: 300},
			{Period: period, Description: "unknown vendor", Amount: 200},
		},
	}

	bk := AutomatedBookkeeping(table)

	if bk.Summary.TotalExpenses != 1000 {
		t.Errorf("total expenses = %v, want 1000", bk.Summary.TotalExpenses)
	}
	if bk.Summary.UncategorizedRatio != 0.2 {
		t.Errorf("uncategorized ratio = %v, want 0.2", bk.Summary.UncategorizedRatio)
	}
	if len(bk.Issues) != 0 {
		t.Errorf("issues = %v, want none at 20%% uncategorized", bk.Issues)
	}

	if len(bk.Ledger) != 3 {
		t.Fatalf("ledger = %v, want 3 lines", bk.Ledger)
	}
	// Descending by amount.
	for i := 1; i < len(bk.Ledger); i++ {
		if bk.Ledger[i].Amount > bk.Ledger[i-1].Amount {
			t.Errorf("ledger not sorted descending: %v", bk.Ledger)
		}
	}
	if bk.Ledger[0].Account != "Rent & Lease" || bk.Ledger[0].Amount != 500 {
		t.Errorf("top ledger line = %+v, want Rent & Lease 500", bk.Ledger[0])
	}
}

func TestAutomatedBookkeepingUncategorizedIssue(t *testing.T) {
	period := MonthKey{2024, time.January}
	table := Table{
		Entries: []ExpenseEntry{
			{Period: period, Description: "rent", Amount: 100},
			{Period: period, Description: "who knows", Amount: 900},
		},
	}

	bk := AutomatedBookkeeping(table)
	if bk.Summary.UncategorizedRatio != 0.9 {
		t.Errorf("ratio = %v, want 0.9", bk.Summary.UncategorizedRatio)
	}
	if len(bk.Issues) != 1 {
		t.Fatalf("issues = %v, want the high-uncategorized issue", bk.Issues)
	}
}

func TestAutomatedBookkeepingFallsBackToMonths(t *testing.T) {
	table := monthsTable([]MonthlyRecord{
		{Period: MonthKey{2024, time.January}, ExpenseAmount: 400},
		{Period: MonthKey{2024, time.February}, ExpenseAmount: 600},
	}, false)

	bk := AutomatedBookkeeping(table)
	if bk.Summary.TotalExpenses != 1000 {
		t.Errorf("total = %v, want 1000 from monthly rows", bk.Summary.TotalExpenses)
	}
	if len(bk.Ledger) != 1 || bk.Ledger[0].Account != UncategorizedAccount {
		t.Errorf("ledger = %v, want single Uncategorized line", bk.Ledger)
	}
}

func TestAutomatedBookkeepingEmptyTable(t *testing.T) {
	bk := AutomatedBookkeeping(Table{})
	if bk.Summary.TotalExpenses != 0 || bk.Summary.UncategorizedRatio != 0 {
		t.Errorf("summary = %+v, want zeros", bk.Summary)
	}
	if len(bk.Issues) != 1 || bk.Issues[0] != "Expense data missing" {
		t.Errorf("issues = %v, want the missing-data issue", bk.Issues)
	}
	if bk.Ledger == nil {
		t.Error("ledger should be an empty slice, not nil")
	}
}
