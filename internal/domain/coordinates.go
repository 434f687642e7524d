package domain

// Geographic coordinates (latitude, longitude) in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Return coordinates as [lat, lon], the order map clients expect.
func (c Coordinates) Pair() [2]float64 { return [2]float64{c.Lat, c.Lon} }
