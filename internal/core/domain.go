package core

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

const (
	StatusHealthy = "Healthy"
	StatusWatch   = "Watch"
	StatusAtRisk  = "At Risk"

	SeverityHigh   = "High"
	SeverityMedium = "Medium"
	SeverityLow    = "Low"

	TransactionCredit = "credit"
	TransactionDebit  = "debit"
)

var (
	// ErrNoData is returned when an analysis is requested over zero rows.
	ErrNoData = errors.New("no financial data provided")

	// ErrUnknownIndustry is returned when the requested industry has no
	// benchmark entry.
	ErrUnknownIndustry = errors.New("unknown industry")
)

type (
	// RawRow is one input record with arbitrary column names, as produced
	// by the spreadsheet/CSV reader or a sheets range. It is consumed
	// entirely during normalization and never retained.
	RawRow = map[string]any

	// MonthKey identifies a calendar month. Day precision is deliberately
	// dropped during normalization.
	MonthKey struct {
		Year  int
		Month time.Month
	}

	// MonthlyRecord is one normalized row per calendar month. All numeric
	// fields default to 0 when absent from the input; absence surfaces as
	// a warning, never a failure.
	MonthlyRecord struct {
		Period             MonthKey `json:"date"`
		Revenue            float64  `json:"revenue"`
		ExpenseAmount      float64  `json:"expense_amount"`
		AccountsReceivable float64  `json:"accounts_receivable"`
		AccountsPayable    float64  `json:"accounts_payable"`
		InventoryValue     float64  `json:"inventory_value"`
		LoanEMI            float64  `json:"loan_emi"`
		GSTPaid            float64  `json:"gst_paid"`
		GSTDue             float64  `json:"gst_due"`
		BankInflows        float64  `json:"bank_inflows"`
		BankOutflows       float64  `json:"bank_outflows"`
	}

	// ExpenseEntry keeps raw-row expense granularity that monthly
	// aggregation would otherwise discard. Bookkeeping categorization
	// runs on these, since category keywords live in the description.
	ExpenseEntry struct {
		Period      MonthKey `json:"date"`
		Description string   `json:"description"`
		Amount      float64  `json:"expense_amount"`
	}

	// Table is the normalized monthly table every analytic function
	// consumes. Months holds exactly one record per distinct period,
	// sorted chronologically.
	Table struct {
		Months  []MonthlyRecord
		Entries []ExpenseEntry
		// HasGSTData records whether any GST column matched during
		// normalization. The tax score falls back to a flat value
		// when the source carried no GST data at all.
		HasGSTData bool
	}

	// BankTransaction is a read-only record from the bank adapter.
	BankTransaction struct {
		Date        time.Time `json:"date"`
		Amount      float64   `json:"amount"`
		Type        string    `json:"type"`
		Description string    `json:"description"`
	}

	// Risk is an identified financial risk. Immutable once produced.
	Risk struct {
		Type     string `json:"type"`
		Severity string `json:"severity"`
		Reason   string `json:"reason"`
	}

	// BankSummary aggregates the raw transaction list for the report.
	BankSummary struct {
		Inflows          float64 `json:"inflows"`
		Outflows         float64 `json:"outflows"`
		TransactionCount int     `json:"transaction_count"`
	}

	// Analysis is the assembled result of one analysis request. Its
	// field names and nesting are a stable contract consumed by report
	// rendering and narration; do not rename.
	Analysis struct {
		Score          int                            `json:"score"`
		Status         string                         `json:"status"`
		Breakdown      ScoreBreakdown                 `json:"breakdown"`
		Risks          []Risk                         `json:"risks"`
		Benchmarks     map[string]BenchmarkComparison `json:"benchmarks"`
		Forecast       Forecast                       `json:"forecast"`
		WorkingCapital WorkingCapital                 `json:"working_capital"`
		Bookkeeping    Bookkeeping                    `json:"bookkeeping"`
		GST            *GSTReport                     `json:"gst"`
		BankSummary    BankSummary                    `json:"bank_summary"`
		Warnings       []string                       `json:"warnings"`
	}
)

// MonthKeyOf truncates a timestamp to its calendar month.
func MonthKeyOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// String renders the key as "YYYY-MM".
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Before reports whether k is chronologically before other.
func (k MonthKey) Before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// IsZero reports whether the key is unset.
func (k MonthKey) IsZero() bool {
	return k.Year == 0 && k.Month == 0
}

// MarshalJSON renders the key as a "YYYY-MM" string.
func (k MonthKey) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// UnmarshalJSON parses a "YYYY-MM" string.
func (k *MonthKey) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("month key must be a string, got %s", s)
	}
	parsed, err := ParseMonthKey(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseMonthKey parses a "YYYY-MM" period string.
func ParseMonthKey(s string) (MonthKey, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return MonthKey{}, fmt.Errorf("parse month key %q: %w", s, err)
	}
	return MonthKeyOf(t), nil
}

// Sorted returns the table's months in chronological order. Normalization
// already sorts; this is for tables assembled elsewhere (e.g. storage).
func (t Table) Sorted() Table {
	months := make([]MonthlyRecord, len(t.Months))
	copy(months, t.Months)
	sort.Slice(months, func(i, j int) bool {
		return months[i].Period.Before(months[j].Period)
	})
	t.Months = months
	return t
}

// NetCash is the month's revenue minus expenses and loan payments.
func (r MonthlyRecord) NetCash() float64 {
	return r.Revenue - r.ExpenseAmount - r.LoanEMI
}
