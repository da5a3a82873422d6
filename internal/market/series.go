package market

import "time"

// Point is one (timestamp, price) observation.
type Point struct {
	Time  time.Time
	Price float64
}

// Series is the closing-price series of one instrument, keyed by alias.
// Points are ordered the way the exchange returned them; NormalizeAscending
// puts them in strictly increasing time order with duplicates collapsed.
type Series struct {
	Alias  string
	Points []Point
}

// NormalizeAscending returns a copy of the series sorted ascending by time
// with duplicate timestamps collapsed to the last occurrence.
func (s Series) NormalizeAscending() Series {
	if len(s.Points) == 0 {
		return Series{Alias: s.Alias}
	}
	points := make([]Point, len(s.Points))
	copy(points, s.Points)
	// Candle responses are already sorted one way or the other; reversing a
	// descending batch is cheaper than a full sort and keeps ties stable.
	if points[0].Time.After(points[len(points)-1].Time) {
		for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
			points[i], points[j] = points[j], points[i]
		}
	}
	out := points[:0]
	for _, p := range points {
		if len(out) > 0 && !p.Time.After(out[len(out)-1].Time) {
			if p.Time.Equal(out[len(out)-1].Time) {
				out[len(out)-1] = p
			}
			continue
		}
		out = append(out, p)
	}
	return Series{Alias: s.Alias, Points: out}
}
