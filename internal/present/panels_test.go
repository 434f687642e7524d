package present

import (
	"math"
	"roadtrip-planner-web/internal/domain"
	"strings"
	"testing"
	"time"
)

func TestImageFailureIsPerDayAndPermanent(t *testing.T) {
	it := mustParse(t, `{"itinerary_daily":[{"day_number":1},{"day_number":2}]}`)
	tracker := NewImageTracker(0)

	if !tracker.Mark("sid", DayImageKey(1)) {
		t.Fatalf("first mark should be new")
	}
	v := Build(it, tracker.For("sid"))
	if !v.Days[0].Image.Fallback || v.Days[0].Image.URL != "" {
		t.Fatalf("day 1 should fall back, got %+v", v.Days[0].Image)
	}
	if v.Days[1].Image.Fallback {
		t.Fatalf("day 2 should still load its image")
	}
	if v.Days[0].Image.Gradient != dayGradients[0] {
		t.Fatalf("fallback gradient = %q", v.Days[0].Image.Gradient)
	}

	tracker.Mark("sid", DayImageKey(2))
	if tracker.Mark("sid", DayImageKey(1)) {
		t.Fatalf("repeat mark should not be new")
	}

	v = Build(it, tracker.For("sid"))
	if !v.Days[0].Image.Fallback || !v.Days[1].Image.Fallback {
		t.Fatalf("both days should now fall back")
	}

	other := Build(it, tracker.For("other-session"))
	if other.Days[0].Image.Fallback {
		t.Fatalf("failures must not leak across sessions")
	}

	tracker.Reset("sid")
	if tracker.For("sid").Has(DayImageKey(1)) {
		t.Fatalf("reset should clear the session's failures")
	}
}

func TestHeroImageFallback(t *testing.T) {
	v := Build(mustParse(t, `{"trip_summary":"Loop"}`), ImageSet{HeroImageKey: {}})
	if !v.Summary.Hero.Fallback || v.Summary.Hero.Gradient == "" {
		t.Fatalf("hero = %+v", v.Summary.Hero)
	}

	v = Build(mustParse(t, `{"trip_summary":"Loop"}`), nil)
	if v.Summary.Hero.URL != "https://loremflickr.com/1200/400/roadtrip,mountains,landscape" {
		t.Fatalf("hero url = %s", v.Summary.Hero.URL)
	}
}

func TestImageTrackerExpiresIdleSessions(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tracker := NewImageTracker(time.Hour)
	tracker.now = func() time.Time { return now }

	tracker.Mark("old", DayImageKey(1))
	now = now.Add(40 * time.Minute)
	tracker.Mark("fresh", DayImageKey(1))
	now = now.Add(30 * time.Minute)

	if tracker.For("old").Has(DayImageKey(1)) {
		t.Fatalf("expired failures should no longer apply")
	}
	if !tracker.For("fresh").Has(DayImageKey(1)) {
		t.Fatalf("fresh failures should still apply")
	}
	if n := tracker.Sweep(); n != 1 {
		t.Fatalf("Sweep() = %d, want 1", n)
	}
	if n := tracker.Sessions(); n != 1 {
		t.Fatalf("Sessions() = %d, want 1", n)
	}

	if !tracker.Mark("old", DayImageKey(1)) {
		t.Fatalf("a mark after expiry should be new")
	}
}

func TestValidImageKey(t *testing.T) {
	for _, k := range []string{"hero-banner", "day-1", "day-30", "science-0"} {
		if !ValidImageKey(k) {
			t.Fatalf("%q should be valid", k)
		}
	}
	for _, k := range []string{"", "day-", "day-x", "science--1", "banner", "day-1/../x", "day-1234", "science-" + strings.Repeat("7", 40)} {
		if ValidImageKey(k) {
			t.Fatalf("%q should be rejected", k)
		}
	}
}

func TestBudgetPanel(t *testing.T) {
	p := buildBudget(domain.Budget{
		NumberOfPersons: 1,
		FuelCost:        100,
		Accommodation:   200,
		Meals:           50,
		Activities:      50,
		Subtotal:        9999,
		BufferFund:      100,
		Total:           1234.5,
	})

	if p.Caption != "For 1 traveler" {
		t.Fatalf("caption = %q", p.Caption)
	}
	if len(p.Rows) != 8 || len(p.Chart) != 5 {
		t.Fatalf("rows = %d, chart = %d", len(p.Rows), len(p.Chart))
	}
	if p.Rows[7].Display != "$1,234.50" {
		t.Fatalf("total display = %q", p.Rows[7].Display)
	}
	if p.Rows[5].Display != "$9,999.00" {
		t.Fatalf("subtotal should be shown as reported, got %q", p.Rows[5].Display)
	}

	wantPct := []float64{20, 40, 10, 10, 20}
	for i, s := range p.Chart {
		if math.Abs(s.Percent-wantPct[i]) > 0.001 {
			t.Fatalf("%s percent = %v, want %v", s.Name, s.Percent, wantPct[i])
		}
	}
	if p.Chart[4].Color != "#004A7C" || p.Chart[4].Name != "Buffer (10%)" {
		t.Fatalf("buffer slice = %+v", p.Chart[4])
	}
	if p.Chart[1].Tooltip != "$200.00" {
		t.Fatalf("tooltip = %q", p.Chart[1].Tooltip)
	}

	two := buildBudget(domain.Budget{NumberOfPersons: 3})
	if two.Caption != "For 3 travelers" {
		t.Fatalf("caption = %q", two.Caption)
	}
	for _, s := range two.Chart {
		if s.Percent != 0 {
			t.Fatalf("all-zero budget should have zero percentages")
		}
	}
}

func TestCurrency(t *testing.T) {
	cases := map[float64]string{
		0:         "$0.00",
		12.3:      "$12.30",
		1500:      "$1,500.00",
		1234567.8: "$1,234,567.80",
		-42:       "-$42.00",
	}
	for in, want := range cases {
		if got := Currency(in); got != want {
			t.Fatalf("Currency(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestMapRoundTripRoute(t *testing.T) {
	it := mustParse(t, `{
		"is_round_trip": true,
		"route_coordinates": [{"lat": 45.0, "lon": -122.0}, {"lat": 47.0, "lon": -118.0}, {"lat": 45.0, "lon": -122.0}],
		"markers": [{"sequence": 1, "name": "Far", "type": "fuel", "coordinates": {"lat": 49.0, "lon": -125.0}}]
	}`)

	m := buildMap(it)
	if m.Route == nil {
		t.Fatalf("route should be drawn")
	}
	if m.Route.Color != "#0066CC" || m.Route.DashArray != "10, 10" {
		t.Fatalf("round trip route = %+v", m.Route)
	}
	if len(m.Route.Points) != 3 {
		t.Fatalf("route points = %d, want route coordinates", len(m.Route.Points))
	}
	if m.Pins[0].Icon != "⛽" || m.Pins[0].Color != "#FF6B6B" {
		t.Fatalf("fuel pin = %+v", m.Pins[0])
	}

	if m.Bounds == nil {
		t.Fatalf("bounds missing")
	}
	if !near(m.Bounds.SouthWest.Lat, 45) || !near(m.Bounds.SouthWest.Lon, -125) ||
		!near(m.Bounds.NorthEast.Lat, 49) || !near(m.Bounds.NorthEast.Lon, -118) {
		t.Fatalf("bounds = %+v, want union of route and pins", *m.Bounds)
	}
	if m.PaddingPx != 50 || m.Zoom != 7 {
		t.Fatalf("padding/zoom = %d/%d", m.PaddingPx, m.Zoom)
	}
}

func TestMapOneWayFallsBackToMarkerPath(t *testing.T) {
	it := mustParse(t, `{
		"markers": [
			{"sequence": 2, "name": "B", "type": "trailhead", "coordinates": {"lat": 46.0, "lon": -121.0}},
			{"sequence": 1, "name": "A", "type": "accommodation", "coordinates": {"lat": 44.0, "lon": -123.0}},
			{"sequence": 3, "name": "Nowhere", "type": "viewpoint"}
		]
	}`)

	m := buildMap(it)
	if m.Route == nil || m.Route.Color != "#2D5A27" || m.Route.DashArray != "" {
		t.Fatalf("one-way route = %+v", m.Route)
	}
	if m.Route.Points[0] != (LatLng{Lat: 44, Lon: -123}) {
		t.Fatalf("marker path should follow sequence order, got %+v", m.Route.Points)
	}
	if len(m.Pins) != 2 {
		t.Fatalf("markers without coordinates are not plotted, pins = %d", len(m.Pins))
	}
	if !near(m.Center.Lat, 45) || !near(m.Center.Lon, -122) {
		t.Fatalf("center = %+v", m.Center)
	}
}

func TestMapSinglePointHasNoRoute(t *testing.T) {
	it := mustParse(t, `{"route_coordinates": [{"lat": 44.5, "lon": -121.5}]}`)

	m := buildMap(it)
	if m.Route != nil {
		t.Fatalf("a single point should not draw a line")
	}
	if !near(m.Center.Lat, 44.5) || !near(m.Center.Lon, -121.5) {
		t.Fatalf("center = %+v", m.Center)
	}
}

func TestMapCenterAcrossAntimeridian(t *testing.T) {
	it := mustParse(t, `{"route_coordinates": [{"lat": 60, "lon": 179}, {"lat": 61, "lon": -179}]}`)

	m := buildMap(it)
	if !near(m.Center.Lat, 60.5) || !near(math.Abs(m.Center.Lon), 180) {
		t.Fatalf("center = %+v, want 60.5 by 180", m.Center)
	}
	if !near(m.Bounds.SouthWest.Lon, 179) || !near(m.Bounds.NorthEast.Lon, -179) {
		t.Fatalf("bounds = %+v, want a rectangle wrapping through 180", *m.Bounds)
	}
}

func TestWriteText(t *testing.T) {
	var b strings.Builder
	if err := WriteText(&b, Build(mustParse(t, fixture), nil)); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	out := b.String()

	for _, want := range []string{
		"Cascades to Yellowstone",
		"Day 2: Missoula",
		"Day 1: Spokane",
		"For 2 travelers",
		"$1,234.50",
		"Wildlife on roads at dusk",
		"No packing list available",
		"Accommodation: 2 nights",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("text output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Day 2: Missoula") > strings.Index(out, "Day 1: Spokane") {
		t.Fatalf("days should print in array order")
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
