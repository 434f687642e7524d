package export

import (
	"bytes"
	"fmt"
	"io"
	"roadtrip-planner-web/internal/present"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

const (
	pageMargin = 20.0
	qrSize     = 36.0
	qrPixels   = 256
)

type rgb struct{ r, g, b int }

var (
	colorTitle   = rgb{0x2c, 0x55, 0x30}
	colorHeading = rgb{0x3a, 0x70, 0x45}
	colorBody    = rgb{0x33, 0x33, 0x33}
	colorMuted   = rgb{0x77, 0x77, 0x77}
)

// Filename is the download name for an itinerary's roadbook.
func Filename(itineraryID string) string {
	id := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return -1
	}, itineraryID)
	if id == "" {
		id = "itinerary"
	}
	return "roadtrip_" + id + ".pdf"
}

// MapLink points at the route's center on openstreetmap.org. It is what the
// roadbook's QR code encodes.
func MapLink(m present.MapPanel) string {
	return fmt.Sprintf(
		"https://www.openstreetmap.org/?mlat=%.5f&mlon=%.5f#map=%d/%.5f/%.5f",
		m.Center.Lat, m.Center.Lon, m.Zoom, m.Center.Lat, m.Center.Lon,
	)
}

// WritePDF renders the view as an A4 roadbook.
func WritePDF(w io.Writer, v present.View) error {
	qr, err := qrcode.Encode(MapLink(v.Map), qrcode.Medium, qrPixels)
	if err != nil {
		return fmt.Errorf("export pdf: encode map qr: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle("AI Roadtrip Genie - Itinerary", true)
	pdf.SetCreator("roadtrip-planner-web", true)

	rb := &roadbook{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		rb.font("I", 8, colorMuted)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	rb.cover(v, qr)
	rb.vehicle(v.Vehicle)
	rb.days(v)
	rb.budget(v.Budget)
	rb.list("Science Points", scienceLines(v.Science), v.Science.Placeholder)
	rb.list("Risk Warnings", v.RiskWarnings.Items, v.RiskWarnings.Placeholder)
	rb.list("Packing List", v.PackingList.Items, v.PackingList.Placeholder)
	rb.list("Logistics", []string{
		fmt.Sprintf("Fuel stops: %d", v.Logistics.FuelStops),
		fmt.Sprintf("Accommodation: %d nights", v.Logistics.AccommodationNights),
		fmt.Sprintf("Activities: %d", v.Logistics.Activities),
	}, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("export pdf: render: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("export pdf: write: %w", err)
	}
	return nil
}

type roadbook struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func (rb *roadbook) font(style string, size float64, c rgb) {
	rb.pdf.SetFont("Helvetica", style, size)
	rb.pdf.SetTextColor(c.r, c.g, c.b)
}

func (rb *roadbook) heading(text string) {
	rb.pdf.Ln(4)
	rb.font("B", 16, colorHeading)
	rb.pdf.CellFormat(0, 9, rb.tr(text), "B", 1, "L", false, 0, "")
	rb.pdf.Ln(2)
}

func (rb *roadbook) para(text string) {
	rb.font("", 11, colorBody)
	rb.pdf.MultiCell(0, 5.5, rb.tr(text), "", "L", false)
}

func (rb *roadbook) cover(v present.View, qr []byte) {
	title := v.Summary.Title
	if title == "" {
		title = "Your Roadtrip Itinerary"
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	rb.pdf.RegisterImageOptionsReader("map-qr", opts, bytes.NewReader(qr))
	pageW, _ := rb.pdf.GetPageSize()
	rb.pdf.ImageOptions("map-qr", pageW-pageMargin-qrSize, pageMargin, qrSize, qrSize, false, opts, 0, MapLink(v.Map))

	rb.font("B", 24, colorTitle)
	rb.pdf.MultiCell(pageW-2*pageMargin-qrSize-4, 10, rb.tr(title), "", "L", false)

	rb.font("", 11, colorMuted)
	line := fmt.Sprintf("%.0f km  |  %.1f hrs driving  |  %s total", v.Summary.DistanceKm, v.Summary.DrivingHours, v.Summary.TotalCost)
	if v.Summary.RoundTrip {
		line += "  |  Round trip"
	}
	rb.pdf.CellFormat(0, 7, rb.tr(line), "", 1, "L", false, 0, "")
	if v.Summary.SeasonInfo != "" {
		rb.para(v.Summary.SeasonInfo)
	}

	if y := pageMargin + qrSize + 2; rb.pdf.GetY() < y {
		rb.pdf.SetY(y)
	}
	if v.FallbackBody != "" {
		rb.heading("Itinerary")
		rb.para(v.FallbackBody)
	}
}

func (rb *roadbook) vehicle(vp *present.VehiclePanel) {
	if vp == nil {
		return
	}
	rb.heading("Gear & Safety")
	rb.para(fmt.Sprintf("Drivetrain: %s\nGround clearance: %s", vp.Drivetrain, vp.Clearance))
	if len(vp.SafetyGear) > 0 {
		rb.para("Safety gear: " + strings.Join(vp.SafetyGear, ", "))
	}
	if vp.Notes != "" {
		rb.para(vp.Notes)
	}
}

func (rb *roadbook) days(v present.View) {
	if len(v.Days) == 0 {
		return
	}
	rb.heading("Daily Itinerary")
	for _, d := range v.Days {
		rb.font("B", 13, colorHeading)
		rb.pdf.CellFormat(0, 8, rb.tr(fmt.Sprintf("Day %d: %s", d.DayNumber, d.Location)), "", 1, "L", false, 0, "")

		var badges []string
		if d.DrivingTime != "" {
			badges = append(badges, d.DrivingTime)
		}
		if d.BudgetBadge != "" {
			badges = append(badges, d.BudgetBadge)
		}
		if len(badges) > 0 {
			rb.font("I", 9, colorMuted)
			rb.pdf.CellFormat(0, 5, rb.tr(strings.Join(badges, "  |  ")), "", 1, "L", false, 0, "")
		}

		for _, b := range d.Blocks {
			head := b.Period
			if b.Start != "" {
				head += " " + b.Start
			}
			if b.Duration != "" {
				head += " (" + b.Duration + ")"
			}
			rb.font("B", 10, colorBody)
			rb.pdf.CellFormat(0, 5.5, rb.tr(head), "", 1, "L", false, 0, "")
			rb.para(b.Activity)
			if b.Tip != "" {
				rb.font("I", 9, colorMuted)
				rb.pdf.MultiCell(0, 5, rb.tr(b.Tip), "", "L", false)
			}
		}
		if d.VehicleSafety != "" {
			rb.para("Vehicle & Safety: " + d.VehicleSafety)
		}
		for _, l := range d.Links {
			rb.font("U", 9, colorHeading)
			rb.pdf.CellFormat(0, 5, rb.tr(l.Label+": "+l.Query), "", 1, "L", false, 0, l.URL)
		}
		rb.pdf.Ln(3)
	}
}

func (rb *roadbook) budget(b present.BudgetPanel) {
	rb.heading("Financial Summary")
	if b.Caption != "" {
		rb.font("I", 9, colorMuted)
		rb.pdf.CellFormat(0, 5, rb.tr(b.Caption), "", 1, "L", false, 0, "")
	}

	pageW, _ := rb.pdf.GetPageSize()
	valueW := 40.0
	labelW := pageW - 2*pageMargin - valueW

	for _, row := range b.Rows {
		style := ""
		if row.Emphasis != "" {
			style = "B"
		}
		rb.font(style, 11, colorBody)
		rb.pdf.SetDrawColor(0xdd, 0xdd, 0xdd)
		rb.pdf.CellFormat(labelW, 7, rb.tr(row.Label), "1", 0, "L", false, 0, "")
		rb.pdf.CellFormat(valueW, 7, rb.tr(row.Display), "1", 1, "R", false, 0, "")
	}

	rb.pdf.Ln(2)
	rb.font("", 9, colorMuted)
	for _, s := range b.Chart {
		rb.pdf.CellFormat(0, 5, rb.tr(fmt.Sprintf("%s: %s (%.1f%%)", s.Name, s.Tooltip, s.Percent)), "", 1, "L", false, 0, "")
	}
}

func (rb *roadbook) list(title string, items []string, placeholder string) {
	rb.heading(title)
	for _, item := range items {
		rb.para("- " + item)
	}
	if len(items) == 0 && placeholder != "" {
		rb.font("I", 10, colorMuted)
		rb.pdf.CellFormat(0, 6, rb.tr(placeholder), "", 1, "L", false, 0, "")
	}
}

func scienceLines(p present.SciencePanel) []string {
	out := make([]string, 0, len(p.Cards))
	for _, c := range p.Cards {
		out = append(out, c.Name+": "+c.Explanation)
	}
	return out
}
