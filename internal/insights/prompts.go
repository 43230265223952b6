package insights

import (
	"encoding/json"
	"fmt"
	"strings"

	"finhealth/internal/core"
)

// BuildInsightsPrompt assembles the narration prompt from a complete
// analysis. Section structure and wording form the narration contract with
// the model; keep them stable.
func BuildInsightsPrompt(a *core.Analysis) string {
	var b strings.Builder

	b.WriteString("You are a financial advisor for small and medium businesses in India.\n\n")
	b.WriteString("GIVEN THIS COMPLETE FINANCIAL ANALYSIS:\n\n")

	fmt.Fprintf(&b, "OVERALL HEALTH:\n- Score: %d/100\n- Status: %s\n\n", a.Score, a.Status)
	fmt.Fprintf(&b, "SCORE BREAKDOWN:\n%s\n\n", compactJSON(a.Breakdown))
	fmt.Fprintf(&b, "IDENTIFIED RISKS:\n%s\n\n", compactJSON(a.Risks))
	fmt.Fprintf(&b, "INDUSTRY BENCHMARKS:\n%s\n\n", compactJSON(a.Benchmarks))

	b.WriteString("FORECAST:\n")
	fmt.Fprintf(&b, "- Cash Runway: %s\n", formatRunway(a.Forecast.CashRunway))
	fmt.Fprintf(&b, "- 6-Month Revenue Forecast: %s\n\n", compactJSON(a.Forecast.Revenue))

	b.WriteString("ADDITIONAL FINANCIAL METRICS:\n\n")
	fmt.Fprintf(&b, "1. WORKING CAPITAL:\n%s\n", formatWorkingCapital(a.WorkingCapital))
	fmt.Fprintf(&b, "2. BOOKKEEPING SUMMARY:\n%s\n", formatBookkeeping(a.Bookkeeping))
	fmt.Fprintf(&b, "3. GST COMPLIANCE:\n%s\n", formatGST(a.GST))
	fmt.Fprintf(&b, "4. BANK ACTIVITY:\n%s\n", formatBankSummary(a.BankSummary))

	b.WriteString(`TASKS:
1. Explain overall financial health in simple language for a non-finance business owner.
2. Highlight 2-3 positive aspects going well.
3. Identify 2-3 critical areas needing attention.
4. Provide 3-5 actionable recommendations specific to this business.
5. Mention any compliance risks (GST, etc.) if present.
6. Keep tone professional, friendly, and concise (max 400 words).
`)

	return b.String()
}

func formatRunway(r core.CashRunway) string {
	if r.Stable {
		return "Stable"
	}
	return fmt.Sprintf("%.1f months", r.Months)
}

func formatWorkingCapital(wc core.WorkingCapital) string {
	actions := "None"
	if len(wc.Actions) > 0 {
		actions = strings.Join(wc.Actions, ", ")
	}
	return fmt.Sprintf(`   - DSO (Days Sales Outstanding): %.2f days
   - DPO (Days Payable Outstanding): %.2f days
   - Cash Conversion Cycle: %.2f days
   - Risk Level: %s
   - Suggested Actions: %s
`, wc.DSO, wc.DPO, wc.CashConversionCycle, wc.RiskLevel, actions)
}

func formatBookkeeping(bk core.Bookkeeping) string {
	ledger := "None"
	if len(bk.Ledger) > 0 {
		top := bk.Ledger
		if len(top) > 3 {
			top = top[:3]
		}
		parts := make([]string, 0, len(top))
		for _, line := range top {
			parts = append(parts, fmt.Sprintf("%s (₹%.0f)", line.Account, line.Amount))
		}
		ledger = strings.Join(parts, ", ")
	}

	issues := "None detected"
	if len(bk.Issues) > 0 {
		issues = strings.Join(bk.Issues, ", ")
	}

	return fmt.Sprintf(`   - Total Expenses: ₹%.0f
   - Major Expense Categories: %s
   - Bookkeeping Issues: %s
`, bk.Summary.TotalExpenses, ledger, issues)
}

func formatGST(gst *core.GSTReport) string {
	if gst == nil {
		return "   No GST data available.\n"
	}
	return fmt.Sprintf(`   - Status: %s
   - GST Paid: ₹%.0f
   - GST Due: ₹%.0f
`, gst.Status, gst.GSTPaid, gst.GSTDue)
}

func formatBankSummary(bank core.BankSummary) string {
	if bank.TransactionCount == 0 {
		return "   No bank data available.\n"
	}
	return fmt.Sprintf(`   - Total Inflows: ₹%.0f
   - Total Outflows: ₹%.0f
   - Net Cash Flow: ₹%.0f
   - Transaction Count: %d
`, bank.Inflows, bank.Outflows, bank.Inflows-bank.Outflows, bank.TransactionCount)
}

func compactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}
