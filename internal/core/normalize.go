package core

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// columnAliases maps each canonical field to its accepted input column
// names, in precedence order. Resolution is two-pass: an exact-match pass
// over the folded column names, then a substring fallback over the columns
// no field has claimed yet. The substring pass can mis-map columns (e.g.
// "cost" inside "total_cost_center"); that precision/recall tradeoff is
// accepted to keep heterogeneous statements flowing without templates.
var columnAliases = []struct {
	field   string
	aliases []string
}{
	{"date", []string{"date", "month"}},
	{"revenue", []string{"revenue", "sales", "income"}},
	{"expense_amount", []string{"expense_amount", "expense", "cost"}},
	{"accounts_receivable", []string{"receivable", "accounts_receivable"}},
	{"accounts_payable", []string{"payable", "accounts_payable"}},
	{"inventory_value", []string{"inventory", "stock"}},
	{"loan_emi", []string{"loan_emi", "emi"}},
	{"gst_paid", []string{"gst_paid"}},
	{"gst_due", []string{"gst_due"}},
	{"description", []string{"description", "narration", "particulars"}},
}

// optionalFields get no "Missing column" warning when absent.
var optionalFields = map[string]bool{"description": true}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01",
	"02-01-2006",
	"01/02/2006",
	"2006/01/02",
	"Jan 2006",
	"January 2006",
}

// Normalize maps raw rows with arbitrary column names onto the canonical
// monthly schema, summing all numeric fields per calendar month. Malformed
// or missing data degrades to zero values plus warnings; the only error is
// structurally empty input. Expense descriptions are captured per raw row
// before aggregation, since grouping discards them.
func Normalize(rows []RawRow) (Table, []string, error) {
	if len(rows) == 0 {
		return Table{}, nil, ErrNoData
	}

	warnings := []string{}
	folded := make([]map[string]any, len(rows))
	columnSet := make(map[string]bool)
	for i, row := range rows {
		folded[i] = make(map[string]any, len(row))
		for k, v := range row {
			name := strings.ToLower(strings.TrimSpace(k))
			if _, dup := folded[i][name]; !dup {
				folded[i][name] = v
			}
			columnSet[name] = true
		}
	}
	columns := make([]string, 0, len(columnSet))
	for c := range columnSet {
		columns = append(columns, c)
	}
	sort.Strings(columns)

	resolved := resolveColumns(columns)
	for _, fa := range columnAliases {
		if _, ok := resolved[fa.field]; ok || optionalFields[fa.field] {
			continue
		}
		if fa.field == "date" {
			warnings = append(warnings, "Missing column: date; falling back to the current month")
		} else {
			warnings = append(warnings, "Missing column: "+fa.field)
		}
	}

	fallback := MonthKeyOf(time.Now())
	dateCol, hasDate := resolved["date"]
	descCol, hasDesc := resolved["description"]

	grouped := make(map[MonthKey]*MonthlyRecord)
	var entries []ExpenseEntry
	warnedDates := make(map[string]bool)

	for _, row := range folded {
		period := fallback
		if hasDate {
			key, ok := parseDate(row[dateCol])
			if ok {
				period = key
			} else {
				repr := fmt.Sprintf("%v", row[dateCol])
				if !warnedDates[repr] {
					warnedDates[repr] = true
					warnings = append(warnings, fmt.Sprintf("Unparseable date %q; falling back to the current month", repr))
				}
			}
		}

		rec := grouped[period]
		if rec == nil {
			rec = &MonthlyRecord{Period: period}
			grouped[period] = rec
		}

		expense := numericField(row, resolved, "expense_amount")
		rec.Revenue += numericField(row, resolved, "revenue")
		rec.ExpenseAmount += expense
		rec.AccountsReceivable += numericField(row, resolved, "accounts_receivable")
		rec.AccountsPayable += numericField(row, resolved, "accounts_payable")
		rec.InventoryValue += numericField(row, resolved, "inventory_value")
		rec.LoanEMI += numericField(row, resolved, "loan_emi")
		rec.GSTPaid += numericField(row, resolved, "gst_paid")
		rec.GSTDue += numericField(row, resolved, "gst_due")

		desc := ""
		if hasDesc {
			desc = strings.TrimSpace(fmt.Sprintf("%v", valueOr(row[descCol], "")))
		}
		if desc != "" || expense != 0 {
			entries = append(entries, ExpenseEntry{Period: period, Description: desc, Amount: expense})
		}
	}

	keys := make([]MonthKey, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	months := make([]MonthlyRecord, 0, len(keys))
	for _, k := range keys {
		months = append(months, *grouped[k])
	}

	_, hasGST := resolved["gst_due"]
	return Table{Months: months, Entries: entries, HasGSTData: hasGST}, warnings, nil
}

// resolveColumns assigns one source column to each canonical field. Exact
// alias matches win; a substring fallback only runs for a field when none
// of its aliases matched exactly, and only over still-unclaimed columns.
func resolveColumns(columns []string) map[string]string {
	resolved := make(map[string]string, len(columnAliases))
	claimed := make(map[string]bool, len(columns))

	for _, fa := range columnAliases {
		for _, alias := range fa.aliases {
			for _, col := range columns {
				if col == alias && !claimed[col] {
					resolved[fa.field] = col
					claimed[col] = true
					break
				}
			}
			if _, ok := resolved[fa.field]; ok {
				break
			}
		}
	}

	for _, fa := range columnAliases {
		if _, ok := resolved[fa.field]; ok {
			continue
		}
		for _, alias := range fa.aliases {
			for _, col := range columns {
				if !claimed[col] && strings.Contains(col, alias) {
					resolved[fa.field] = col
					claimed[col] = true
					break
				}
			}
			if _, ok := resolved[fa.field]; ok {
				break
			}
		}
	}

	return resolved
}

func numericField(row map[string]any, resolved map[string]string, field string) float64 {
	col, ok := resolved[field]
	if !ok {
		return 0
	}
	v, _ := parseAmount(row[col])
	return v
}

func valueOr(v, def any) any {
	if v == nil {
		return def
	}
	return v
}

// parseAmount coerces spreadsheet cell values to float64. Strings may carry
// currency symbols and thousands separators. Anything unparseable counts
// as zero.
func parseAmount(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(x)
		s = strings.NewReplacer(",", "", "₹", "", "$", "", "€", "", "£", "", " ", "").Replace(s)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// parseDate coerces a cell value to a calendar month.
func parseDate(v any) (MonthKey, bool) {
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return MonthKey{}, false
		}
		return MonthKeyOf(x), true
	case MonthKey:
		return x, true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return MonthKey{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return MonthKeyOf(t), true
			}
		}
		return MonthKey{}, false
	default:
		return MonthKey{}, false
	}
}
