package present

import (
	"fmt"
	"roadtrip-planner-web/internal/domain"
)

const (
	bookingSearchURL = "https://www.booking.com/searchresults.html?ss="
	viatorSearchURL  = "https://www.viator.com/searchResults/all?text="

	maxSciencePoints = 3

	noContent        = "No content available"
	noSciencePoints  = "No science points available"
	noDescription    = "No description available"
	defaultPointName = "Observation Point"
	noRiskWarnings   = "No risk warnings"
	noPackingList    = "No packing list available"
)

var interestLabels = map[string]string{
	"photography":      "Photography",
	"geology":          "Geology",
	"hiking":           "Hiking",
	"local_food":       "Local Food",
	"history":          "History",
	"architecture":     "Architecture",
	"adventure_sports": "Adventure Sports",
	"wellness":         "Wellness",
	"general":          "General",
}

// InterestLabel is the display label for a highlight category. Unknown
// categories are shown as-is.
func InterestLabel(category string) string {
	if l, ok := interestLabels[category]; ok {
		return l
	}
	return category
}

// Build maps an itinerary onto the result page. It never fails: every
// missing field renders its panel in a defaulted or empty state. failed may
// be nil.
func Build(it domain.Itinerary, failed FailedImages) View {
	if failed == nil {
		failed = noFailures{}
	}

	v := View{
		ItineraryID:        it.ID,
		Summary:            buildSummary(it, failed),
		Days:               []DayCard{},
		InterestHighlights: []HighlightCard{},
		Map:                buildMap(it),
		Budget:             buildBudget(it.Budget),
		Science:            buildScience(it.SciencePoints, failed),
		RiskWarnings:       listPanel(it.RiskWarnings, noRiskWarnings),
		PackingList:        listPanel(it.PackingList, noPackingList),
		Logistics: LogisticsCounts{
			FuelStops:           len(it.Logistics.FuelStops),
			AccommodationNights: len(it.Logistics.AccommodationPoints),
			Activities:          len(it.Activities),
		},
	}

	if vr := it.Vehicle; vr != nil {
		gear := vr.SafetyGear
		if gear == nil {
			gear = []string{}
		}
		v.Vehicle = &VehiclePanel{
			Drivetrain: vr.Drivetrain,
			Clearance:  vr.Clearance,
			SafetyGear: gear,
			Notes:      vr.Notes,
		}
	}

	if it.Daily == nil {
		v.FallbackBody = it.Markdown
		if v.FallbackBody == "" {
			v.FallbackBody = noContent
		}
	}
	for i, d := range it.Daily {
		v.Days = append(v.Days, buildDay(i, d, failed))
	}

	for _, h := range it.InterestHighlights {
		v.InterestHighlights = append(v.InterestHighlights, HighlightCard{
			Category: h.Category,
			Label:    InterestLabel(h.Category),
			Advice:   h.Advice,
		})
	}

	return v
}

func buildSummary(it domain.Itinerary, failed FailedImages) Summary {
	return Summary{
		Title:          it.TripSummary,
		SeasonInfo:     it.SeasonInfo,
		DistanceKm:     it.Logistics.TotalDistanceKm,
		DrivingHours:   it.Logistics.EstimatedDrivingHours,
		TotalCost:      Currency(it.Budget.Total),
		RoundTrip:      it.IsRoundTrip,
		Hero:           image(failed, HeroImageKey, heroImageURL, "Trip banner", heroGradient),
		PaymentPending: it.PaymentStatus == "pending",
	}
}

// buildDay renders one card. index is the card's position, which picks the
// badge gradient; the image slot is keyed by day number.
func buildDay(index int, d domain.DailyItinerary, failed FailedImages) DayCard {
	gradient := dayGradients[index%len(dayGradients)]

	card := DayCard{
		DayNumber:     d.DayNumber,
		Location:      d.Location,
		Badge:         gradient,
		Image:         image(failed, DayImageKey(d.DayNumber), dayImageURL(d.ImageKeyword), fmt.Sprintf("Day %d: %s", d.DayNumber, d.Location), gradient),
		DrivingTime:   d.DailyDrivingTime,
		Blocks:        []TimeBlock{},
		VehicleSafety: d.VehicleSafety,
		Links:         []Link{},
	}

	if p := d.DailyBudgetPerPerson; p != nil && *p > 0 {
		card.BudgetBadge = wholeDollars(*p) + "/person"
	}

	if b := d.Morning; b != nil {
		card.Blocks = append(card.Blocks, timeBlock("Morning", b, "photo", b.PhotoTip))
	}
	if b := d.Afternoon; b != nil {
		card.Blocks = append(card.Blocks, timeBlock("Afternoon", b, "logistics", b.Logistics))
	}
	if b := d.Evening; b != nil {
		card.Blocks = append(card.Blocks, timeBlock("Evening", b, "dining", b.DiningTip))
	}

	if q := d.AccommodationSearchQuery; q != "" {
		card.Links = append(card.Links, Link{Label: "Find Accommodation", Query: q, URL: bookingSearchURL + encodeComponent(q)})
	}
	if q := d.ActivitySearchQuery; q != "" {
		card.Links = append(card.Links, Link{Label: "Find Tours", Query: q, URL: viatorSearchURL + encodeComponent(q)})
	}

	return card
}

func timeBlock(period string, b *domain.TimeBlock, tipKind, tip string) TimeBlock {
	tb := TimeBlock{
		Period:   period,
		Start:    b.StartTime,
		Activity: b.Activity,
	}
	if b.DurationMinutes > 0 {
		tb.Duration = fmt.Sprintf("%d min", b.DurationMinutes)
	}
	if tip != "" {
		tb.TipKind = tipKind
		tb.Tip = tip
	}
	return tb
}

func buildScience(points []domain.SciencePoint, failed FailedImages) SciencePanel {
	panel := SciencePanel{Cards: []ScienceCard{}}
	if len(points) == 0 {
		panel.Placeholder = noSciencePoints
		return panel
	}

	if len(points) > maxSciencePoints {
		points = points[:maxSciencePoints]
	}
	for i, p := range points {
		name := p.Name
		if name == "" {
			name = defaultPointName
		}
		explanation := p.ScientificExplanation
		if explanation == "" {
			explanation = noDescription
		}

		card := ScienceCard{
			Name:        name,
			Category:    p.Category,
			Explanation: explanation,
			Image:       image(failed, ScienceImageKey(i), scienceImageURL(p.Name), name, ""),
		}
		panel.Cards = append(panel.Cards, card)
	}
	return panel
}

func listPanel(items []string, placeholder string) ListPanel {
	if len(items) == 0 {
		return ListPanel{Items: []string{}, Placeholder: placeholder}
	}
	out := make([]string, len(items))
	copy(out, items)
	return ListPanel{Items: out}
}
