package core

import (
	"encoding/json"
	"fmt"
)

const forecastMonths = 6

// CashRunway is either a number of months or the sentinel "Stable" when the
// business is not burning cash on average. It marshals as a JSON number or
// the literal string "Stable" to keep the report contract.
type CashRunway struct {
	Stable bool
	Months float64
}

func (r CashRunway) MarshalJSON() ([]byte, error) {
	if r.Stable {
		return []byte(`"Stable"`), nil
	}
	return json.Marshal(r.Months)
}

func (r *CashRunway) UnmarshalJSON(data []byte) error {
	if string(data) == `"Stable"` {
		*r = CashRunway{Stable: true}
		return nil
	}
	var months float64
	if err := json.Unmarshal(data, &months); err != nil {
		return fmt.Errorf("cash runway must be a number or \"Stable\": %w", err)
	}
	*r = CashRunway{Months: months}
	return nil
}

// Forecast is the naive revenue projection plus cash-runway estimate.
type Forecast struct {
	Revenue    []float64  `json:"revenue_forecast_6_months"`
	CashRunway CashRunway `json:"cash_runway_months"`
}

// ForecastRevenue projects revenue flat at the mean of the trailing three
// months (or however many exist), repeated six times. Requires the table's
// chronological ordering, which normalization guarantees.
func ForecastRevenue(t Table) []float64 {
	window := t.Months
	if len(window) > 3 {
		window = window[len(window)-3:]
	}
	var sum float64
	for _, m := range window {
		sum += m.Revenue
	}
	avg := 0.0
	if len(window) > 0 {
		avg = round2(sum / float64(len(window)))
	}
	forecast := make([]float64, forecastMonths)
	for i := range forecast {
		forecast[i] = avg
	}
	return forecast
}

// CalculateCashRunway estimates how many months the business can cover its
// average burn, modeling half of average monthly revenue as the cash
// buffer — a simplifying assumption, not a balance-sheet figure.
func CalculateCashRunway(t Table) CashRunway {
	if len(t.Months) == 0 {
		return CashRunway{Stable: true}
	}
	var burn, revenue float64
	for _, m := range t.Months {
		burn += m.ExpenseAmount + m.LoanEMI - m.Revenue
		revenue += m.Revenue
	}
	n := float64(len(t.Months))
	burn /= n
	if burn <= 0 {
		return CashRunway{Stable: true}
	}
	buffer := revenue / n * 0.5
	return CashRunway{Months: round1(buffer / burn)}
}

// GenerateForecast combines the revenue projection and cash runway.
func GenerateForecast(t Table) Forecast {
	return Forecast{
		Revenue:    ForecastRevenue(t),
		CashRunway: CalculateCashRunway(t),
	}
}
