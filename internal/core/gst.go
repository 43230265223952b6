package core

import "fmt"

const (
	GSTCompliant = "Compliant"
	GSTAtRisk    = "At Risk"
)

// GSTReport is the GST compliance section of the analysis.
type GSTReport struct {
	GSTPaid float64 `json:"gst_paid"`
	GSTDue  float64 `json:"gst_due"`
	Status  string  `json:"status"`
	Risks   []Risk  `json:"risks"`
}

// AnalyzeGST checks paid versus due GST. Dues exceeding payments make the
// status "At Risk" with a single medium-severity risk carrying the
// shortfall; otherwise the report is compliant with an empty risk list.
func AnalyzeGST(paid, due float64) GSTReport {
	report := GSTReport{
		GSTPaid: paid,
		GSTDue:  due,
		Status:  GSTCompliant,
		Risks:   []Risk{},
	}
	if due > paid {
		report.Status = GSTAtRisk
		report.Risks = append(report.Risks, Risk{
			Type:     "GST Compliance Risk",
			Severity: SeverityMedium,
			Reason:   fmt.Sprintf("GST due ₹%.0f pending", due-paid),
		})
	}
	return report
}

// AnalyzeGSTFromTable derives the GST report from the table's summed GST
// columns, used when the caller supplies no explicit GST figures.
func AnalyzeGSTFromTable(t Table) GSTReport {
	tt := totalsOf(t)
	return AnalyzeGST(tt.GSTPaid, tt.GSTDue)
}
