package present

import (
	"fmt"
	"io"
	"strings"
)

// WriteText renders v as plain text for terminals and logs.
func WriteText(w io.Writer, v View) error {
	var b strings.Builder

	title := v.Summary.Title
	if title == "" {
		title = "Road trip"
	}
	fmt.Fprintf(&b, "%s\n%s\n", title, strings.Repeat("=", len([]rune(title))))
	fmt.Fprintf(&b, "%.0f km, %.1f hrs driving, %s total", v.Summary.DistanceKm, v.Summary.DrivingHours, v.Summary.TotalCost)
	if v.Summary.RoundTrip {
		b.WriteString(", round trip")
	}
	b.WriteString("\n")
	if v.Summary.SeasonInfo != "" {
		fmt.Fprintf(&b, "%s\n", v.Summary.SeasonInfo)
	}

	if vp := v.Vehicle; vp != nil {
		b.WriteString("\nGear & Safety\n")
		fmt.Fprintf(&b, "  Drivetrain: %s\n  Clearance: %s\n", vp.Drivetrain, vp.Clearance)
		if len(vp.SafetyGear) > 0 {
			fmt.Fprintf(&b, "  Safety gear: %s\n", strings.Join(vp.SafetyGear, ", "))
		}
		if vp.Notes != "" {
			fmt.Fprintf(&b, "  %s\n", vp.Notes)
		}
	}

	for _, d := range v.Days {
		fmt.Fprintf(&b, "\nDay %d: %s\n", d.DayNumber, d.Location)
		if d.DrivingTime != "" || d.BudgetBadge != "" {
			fmt.Fprintf(&b, "  [%s]\n", strings.Join(nonEmpty(d.DrivingTime, d.BudgetBadge), "] ["))
		}
		for _, tb := range d.Blocks {
			fmt.Fprintf(&b, "  %s", tb.Period)
			if tb.Start != "" {
				fmt.Fprintf(&b, " %s", tb.Start)
			}
			if tb.Duration != "" {
				fmt.Fprintf(&b, " (%s)", tb.Duration)
			}
			fmt.Fprintf(&b, ": %s\n", tb.Activity)
			if tb.Tip != "" {
				fmt.Fprintf(&b, "    %s tip: %s\n", tb.TipKind, tb.Tip)
			}
		}
		if d.VehicleSafety != "" {
			fmt.Fprintf(&b, "  Vehicle & Safety: %s\n", d.VehicleSafety)
		}
		for _, l := range d.Links {
			fmt.Fprintf(&b, "  %s: %s\n", l.Label, l.URL)
		}
	}

	if v.FallbackBody != "" {
		fmt.Fprintf(&b, "\n%s\n", v.FallbackBody)
	}

	if len(v.InterestHighlights) > 0 {
		b.WriteString("\nInterest Highlights\n")
		for _, h := range v.InterestHighlights {
			fmt.Fprintf(&b, "  %s: %s\n", h.Label, h.Advice)
		}
	}

	b.WriteString("\nBudget\n")
	if v.Budget.Caption != "" {
		fmt.Fprintf(&b, "  %s\n", v.Budget.Caption)
	}
	for _, r := range v.Budget.Rows {
		fmt.Fprintf(&b, "  %-32s %12s\n", r.Label, r.Display)
	}

	b.WriteString("\nScience Points\n")
	for _, c := range v.Science.Cards {
		fmt.Fprintf(&b, "  %s: %s\n", c.Name, c.Explanation)
	}
	if v.Science.Placeholder != "" {
		fmt.Fprintf(&b, "  %s\n", v.Science.Placeholder)
	}

	writeList(&b, "Risk Warnings", v.RiskWarnings)
	writeList(&b, "Packing List", v.PackingList)

	fmt.Fprintf(&b, "\nLogistics\n  Fuel stops: %d\n  Accommodation: %d nights\n  Activities: %d\n",
		v.Logistics.FuelStops, v.Logistics.AccommodationNights, v.Logistics.Activities)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeList(b *strings.Builder, title string, p ListPanel) {
	fmt.Fprintf(b, "\n%s\n", title)
	for _, item := range p.Items {
		fmt.Fprintf(b, "  - %s\n", item)
	}
	if p.Placeholder != "" {
		fmt.Fprintf(b, "  %s\n", p.Placeholder)
	}
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
