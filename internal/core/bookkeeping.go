package core

import (
	"math"
	"sort"
	"strings"
)

// chartOfAccounts is a minimal SME expense taxonomy. Order matters: the
// first category whose keyword appears in the lower-cased description wins.
var chartOfAccounts = []struct {
	account  string
	keywords []string
}{
	{"Rent & Lease", []string{"rent", "lease"}},
	{"Salaries & Wages", []string{"salary", "wages", "payroll"}},
	{"Utilities", []string{"electricity", "water", "internet", "phone"}},
	{"Marketing & Advertising", []string{"ads", "advertising", "promotion"}},
	{"Logistics & Transport", []string{"transport", "shipping", "delivery"}},
	{"Office Expenses", []string{"stationery", "office"}},
	{"Professional Fees", []string{"consulting", "legal", "audit"}},
	{"Interest & Finance Charges", []string{"interest", "bank charge"}},
}

// UncategorizedAccount collects expenses no keyword rule matched.
const UncategorizedAccount = "Uncategorized"

// uncategorizedIssueThreshold is the uncategorized share of total expense
// above which a bookkeeping quality issue is raised.
const uncategorizedIssueThreshold = 0.25

type (
	// LedgerLine is one expense account with its total.
	LedgerLine struct {
		Account string  `json:"account"`
		Amount  float64 `json:"expense_amount"`
	}

	BookkeepingSummary struct {
		TotalExpenses      float64 `json:"total_expenses"`
		UncategorizedRatio float64 `json:"uncategorized_ratio"`
	}

	// Bookkeeping is the automated expense ledger with quality signals.
	Bookkeeping struct {
		Ledger  []LedgerLine       `json:"ledger"`
		Summary BookkeepingSummary `json:"summary"`
		Issues  []string           `json:"issues"`
	}
)

// Categorize assigns an expense description to a chart-of-accounts entry.
// The confidence value is informational metadata only: 0.9 for a keyword
// match, 0.5 for an unmatched description, 0.4 for a missing one.
func Categorize(description string) (account string, confidence float64) {
	text := strings.ToLower(strings.TrimSpace(description))
	if text == "" {
		return UncategorizedAccount, 0.4
	}
	for _, entry := range chartOfAccounts {
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				return entry.account, 0.9
			}
		}
	}
	return UncategorizedAccount, 0.5
}

// AutomatedBookkeeping builds an expense ledger from the table's raw-row
// expense entries. Categorization runs at entry granularity because the
// monthly aggregation discards description text; when no entries survived
// normalization it falls back to the aggregated monthly rows.
func AutomatedBookkeeping(t Table) Bookkeeping {
	entries := t.Entries
	if len(entries) == 0 {
		for _, m := range t.Months {
			entries = append(entries, ExpenseEntry{Period: m.Period, Amount: m.ExpenseAmount})
		}
	}

	totals := make(map[string]float64)
	var totalExpenses, uncategorized float64
	for _, e := range entries {
		account, _ := Categorize(e.Description)
		totals[account] += e.Amount
		totalExpenses += e.Amount
		if account == UncategorizedAccount {
			uncategorized += e.Amount
		}
	}

	ledger := make([]LedgerLine, 0, len(totals))
	for account, amount := range totals {
		ledger = append(ledger, LedgerLine{Account: account, Amount: amount})
	}
	sort.Slice(ledger, func(i, j int) bool {
		if ledger[i].Amount != ledger[j].Amount {
			return ledger[i].Amount > ledger[j].Amount
		}
		return ledger[i].Account < ledger[j].Account
	})

	ratio := 0.0
	if totalExpenses != 0 {
		ratio = math.Round(uncategorized/totalExpenses*100) / 100
	}

	issues := []string{}
	if len(entries) == 0 {
		issues = append(issues, "Expense data missing")
	}
	if ratio > uncategorizedIssueThreshold {
		issues = append(issues, "High proportion of uncategorized expenses")
	}

	return Bookkeeping{
		Ledger: ledger,
		Summary: BookkeepingSummary{
			TotalExpenses:      totalExpenses,
			UncategorizedRatio: ratio,
		},
		Issues: issues,
	}
}
