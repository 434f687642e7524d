package export

import (
	"bytes"
	"roadtrip-planner-web/internal/domain"
	"roadtrip-planner-web/internal/present"
	"strings"
	"testing"
)

const sample = `{
  "itinerary_id": "it_7",
  "trip_summary": "Oregon Coast – Crater Lake loop",
  "is_round_trip": true,
  "vehicle_recommendation": {"drivetrain": "AWD", "clearance": "8 in", "safety_gear": ["chains"]},
  "itinerary_daily": [
    {"day_number": 1, "location": "Bend", "morning": {"start_time": "08:00", "activity": "Smith Rock", "photo_tip": "Golden hour"},
     "accommodation_search_query": "Bend OR cabins"}
  ],
  "route_coordinates": [{"lat": 44.05, "lon": -121.31}, {"lat": 42.94, "lon": -122.10}],
  "budget": {"number_of_persons": 2, "fuel_cost": 120, "buffer_fund": 40, "total": 440}
}`

func TestWritePDF(t *testing.T) {
	it, err := domain.ParseItinerary([]byte(sample))
	if err != nil {
		t.Fatalf("ParseItinerary: %v", err)
	}

	var buf bytes.Buffer
	if err := WritePDF(&buf, present.Build(it, nil)); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}

	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", buf.Bytes()[:min(16, buf.Len())])
	}
	if buf.Len() < 1000 {
		t.Fatalf("pdf suspiciously small: %d bytes", buf.Len())
	}
}

func TestWritePDFEmptyItinerary(t *testing.T) {
	it, err := domain.ParseItinerary([]byte(`{}`))
	if err != nil {
		t.Fatalf("ParseItinerary: %v", err)
	}

	var buf bytes.Buffer
	if err := WritePDF(&buf, present.Build(it, nil)); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestMapLink(t *testing.T) {
	m := present.MapPanel{Center: present.LatLng{Lat: 44, Lon: -120.5}, Zoom: 7}
	got := MapLink(m)
	want := "https://www.openstreetmap.org/?mlat=44.00000&mlon=-120.50000#map=7/44.00000/-120.50000"
	if got != want {
		t.Fatalf("MapLink = %s, want %s", got, want)
	}
}

func TestFilename(t *testing.T) {
	cases := map[string]string{
		"it_42":       "roadtrip_it_42.pdf",
		"../etc/pass": "roadtrip_etcpass.pdf",
		"":            "roadtrip_itinerary.pdf",
		"a b\"c":      "roadtrip_abc.pdf",
	}
	for in, want := range cases {
		if got := Filename(in); got != want {
			t.Fatalf("Filename(%q) = %q, want %q", in, got, want)
		}
	}
	if strings.Contains(Filename("x/y"), "/") {
		t.Fatalf("filename must not contain path separators")
	}
}
