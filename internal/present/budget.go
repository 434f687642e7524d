package present

import (
	"fmt"
	"math"
	"roadtrip-planner-web/internal/domain"

	"github.com/dustin/go-humanize"
)

const (
	colorFuel          = "#2D5A27"
	colorAccommodation = "#3A7A35"
	colorMeals         = "#4A9A45"
	colorActivities    = "#5BAF60"
	colorBuffer        = "#004A7C"
)

// Currency formats v as dollars with thousands separators and two decimals.
func Currency(v float64) string {
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}

func wholeDollars(v float64) string {
	return "$" + humanize.FormatFloat("#,###.", v)
}

// buildBudget lays out the eight-row table and the five-slice chart. Figures
// are shown as reported; nothing checks that the categories add up.
func buildBudget(b domain.Budget) BudgetPanel {
	panel := BudgetPanel{
		Rows: []BudgetRow{
			{Label: "Fuel", Value: b.FuelCost},
			{Label: "Tolls", Value: b.TollFees},
			{Label: "Accommodation", Value: b.Accommodation},
			{Label: "Meals", Value: b.Meals},
			{Label: "Activities", Value: b.Activities},
			{Label: "Subtotal", Value: b.Subtotal, Emphasis: "subtotal"},
			{Label: "10% Buffer Fund (Risk Reserve)", Value: b.BufferFund, Emphasis: "buffer"},
			{Label: "Total", Value: b.Total, Emphasis: "total"},
		},
		Chart: []ChartSlice{
			{Name: "Fuel", Value: b.FuelCost, Color: colorFuel},
			{Name: "Accommodation", Value: b.Accommodation, Color: colorAccommodation},
			{Name: "Meals", Value: b.Meals, Color: colorMeals},
			{Name: "Activities", Value: b.Activities, Color: colorActivities},
			{Name: "Buffer (10%)", Value: b.BufferFund, Color: colorBuffer},
		},
	}

	for i := range panel.Rows {
		panel.Rows[i].Display = Currency(panel.Rows[i].Value)
	}

	var sum float64
	for _, s := range panel.Chart {
		sum += s.Value
	}
	for i := range panel.Chart {
		s := &panel.Chart[i]
		s.Tooltip = Currency(s.Value)
		if sum > 0 {
			s.Percent = math.Round(s.Value/sum*1000) / 10
		}
	}

	if b.NumberOfPersons > 0 {
		plural := ""
		if b.NumberOfPersons > 1 {
			plural = "s"
		}
		panel.Caption = fmt.Sprintf("For %d traveler%s", b.NumberOfPersons, plural)
	}

	return panel
}
