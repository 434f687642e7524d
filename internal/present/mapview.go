package present

import (
	"roadtrip-planner-web/internal/domain"

	"github.com/golang/geo/s2"
)

const (
	TileURL         = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	TileAttribution = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a>`

	mapZoom      = 7
	mapPaddingPx = 50

	routeColorRoundTrip = "#0066CC"
	routeColorOneWay    = "#2D5A27"
	routeDashRoundTrip  = "10, 10"
	routeWeight         = 4
	routeOpacity        = 0.8

	defaultPinColor = "#3A7A35"
	defaultPinIcon  = "📍"
)

// DefaultCenter is where the map opens when there is nothing to plot.
var DefaultCenter = LatLng{Lat: 44.0, Lon: -120.5}

type pinStyle struct {
	color string
	icon  string
}

var pinStyles = map[string]pinStyle{
	"fuel":          {"#FF6B6B", "⛽"},
	"accommodation": {"#4ECDC4", "🏨"},
	"science_point": {"#45B7D1", "🔬"},
	"viewpoint":     {"#FFA07A", "📷"},
	"scenic_spot":   {"#98D8C8", "🏔️"},
	"trailhead":     {"#9B59B6", "🥾"},
}

func styleFor(markerType string) pinStyle {
	if st, ok := pinStyles[markerType]; ok {
		return st
	}
	return pinStyle{color: defaultPinColor, icon: defaultPinIcon}
}

func toLatLng(c domain.Coordinates) LatLng { return LatLng{Lat: c.Lat, Lon: c.Lon} }

// buildMap plots the route and pins. Markers are ordered by sequence; the
// route falls back to the marker path when the itinerary carries none.
func buildMap(it domain.Itinerary) MapPanel {
	panel := MapPanel{
		Center:      DefaultCenter,
		Zoom:        mapZoom,
		PaddingPx:   mapPaddingPx,
		Pins:        []MapPin{},
		TileURL:     TileURL,
		Attribution: TileAttribution,
		RoundTrip:   it.IsRoundTrip,
	}

	markers := it.SortedMarkers()

	var path []LatLng
	if len(it.RouteCoordinates) > 0 {
		path = make([]LatLng, 0, len(it.RouteCoordinates))
		for _, c := range it.RouteCoordinates {
			path = append(path, toLatLng(c))
		}
	} else {
		for _, m := range markers {
			if m.HasCoordinates {
				path = append(path, toLatLng(m.Coordinates))
			}
		}
	}

	for _, m := range markers {
		if !m.HasCoordinates {
			continue
		}
		st := styleFor(m.Type)
		panel.Pins = append(panel.Pins, MapPin{
			Number:      m.Sequence,
			Name:        m.Name,
			Type:        m.Type,
			Position:    toLatLng(m.Coordinates),
			Color:       st.color,
			Icon:        st.icon,
			Explanation: m.ScientificExplanation,
			Tips:        m.ObservationTips,
		})
	}

	fuel := styleFor("fuel")
	n := 0
	for _, stop := range it.Logistics.FuelStops {
		if stop.Coordinates == nil {
			continue
		}
		n++
		panel.Pins = append(panel.Pins, MapPin{
			Number:   n,
			Name:     stop.Name,
			Type:     "fuel",
			Position: toLatLng(*stop.Coordinates),
			Color:    fuel.color,
			Icon:     fuel.icon,
			Legacy:   true,
		})
	}

	if len(path) > 1 {
		line := &Polyline{
			Points:  path,
			Color:   routeColorOneWay,
			Weight:  routeWeight,
			Opacity: routeOpacity,
		}
		if it.IsRoundTrip {
			line.Color = routeColorRoundTrip
			line.DashArray = routeDashRoundTrip
		}
		panel.Route = line
	}

	points := make([]LatLng, 0, len(path)+len(panel.Pins))
	points = append(points, path...)
	for _, p := range panel.Pins {
		points = append(points, p.Position)
	}
	if len(points) == 0 {
		return panel
	}

	rect := boundingRect(points)
	c := rect.Center()
	panel.Center = LatLng{Lat: c.Lat.Degrees(), Lon: c.Lng.Degrees()}
	lo, hi := rect.Lo(), rect.Hi()
	panel.Bounds = &Bounds{
		SouthWest: LatLng{Lat: lo.Lat.Degrees(), Lon: lo.Lng.Degrees()},
		NorthEast: LatLng{Lat: hi.Lat.Degrees(), Lon: hi.Lng.Degrees()},
	}
	return panel
}

// boundingRect returns the smallest lat/lng rectangle holding every point.
// A route crossing the antimeridian yields a rectangle that wraps through 180.
func boundingRect(points []LatLng) s2.Rect {
	rect := s2.EmptyRect()
	for _, p := range points {
		rect = rect.AddPoint(s2.LatLngFromDegrees(p.Lat, p.Lon))
	}
	return rect
}
