package core

import (
	"fmt"
	"sort"
)

// industryBenchmarks holds reference metrics per supported industry. The
// values are illustrative constants, not sourced from live data.
var industryBenchmarks = map[string]map[string]float64{
	"Retail": {
		"profit_margin":   0.22,
		"expense_ratio":   0.58,
		"debt_ratio":      0.15,
		"liquidity_ratio": 1.2,
	},
	"Manufacturing": {
		"profit_margin":   0.30,
		"expense_ratio":   0.50,
		"debt_ratio":      0.20,
		"liquidity_ratio": 1.4,
	},
	"Services": {
		"profit_margin":   0.35,
		"expense_ratio":   0.45,
		"debt_ratio":      0.10,
		"liquidity_ratio": 1.6,
	},
}

var benchmarkMetrics = []string{"profit_margin", "expense_ratio", "debt_ratio", "liquidity_ratio"}

// BenchmarkComparison compares one business metric against its industry
// reference. Difference is business minus industry average; Status follows
// the sign of the difference.
type BenchmarkComparison struct {
	Business    float64 `json:"business"`
	IndustryAvg float64 `json:"industry_avg"`
	Difference  float64 `json:"difference"`
	Status      string  `json:"status"`
}

// Industries returns the supported industry names, sorted.
func Industries() []string {
	names := make([]string, 0, len(industryBenchmarks))
	for name := range industryBenchmarks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KnownIndustry reports whether benchmarks exist for the industry.
func KnownIndustry(industry string) bool {
	_, ok := industryBenchmarks[industry]
	return ok
}

// BusinessMetrics computes the four benchmark metrics over the table,
// rounded to 2 decimals.
func BusinessMetrics(t Table) map[string]float64 {
	tt := totalsOf(t)
	return map[string]float64{
		"profit_margin":   round2(tt.ProfitMargin()),
		"expense_ratio":   round2(tt.ExpenseRatio()),
		"debt_ratio":      round2(tt.DebtRatio()),
		"liquidity_ratio": round2(tt.LiquidityRatio()),
	}
}

// CompareWithBenchmark diffs the business metrics against the industry
// reference table. An unknown industry is a caller-visible error rather
// than a silent nil, so misspelled industries do not vanish from reports.
func CompareWithBenchmark(t Table, industry string) (map[string]BenchmarkComparison, error) {
	reference, ok := industryBenchmarks[industry]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIndustry, industry)
	}

	business := BusinessMetrics(t)
	comparison := make(map[string]BenchmarkComparison, len(benchmarkMetrics))
	for _, metric := range benchmarkMetrics {
		diff := round2(business[metric] - reference[metric])
		status := "Same"
		switch {
		case diff > 0:
			status = "Better"
		case diff < 0:
			status = "Worse"
		}
		comparison[metric] = BenchmarkComparison{
			Business:    business[metric],
			IndustryAvg: reference[metric],
			Difference:  diff,
			Status:      status,
		}
	}
	return comparison, nil
}
