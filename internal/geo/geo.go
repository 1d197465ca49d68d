// Package geo provides pure great-circle distance computation and
// proximity-based ordering over point-located items. It holds no state.
package geo

import (
	"iter"
	"math"
	"slices"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371

type Point struct {
	Lat float64
	Lng float64
}

// DistanceKm returns the great-circle distance between two points in
// kilometers. It is symmetric and returns exactly zero for equal points.
func DistanceKm(a, b Point) float64 {
	if a == b {
		return 0
	}

	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// RankByProximity returns a restartable sequence of items ordered by ascending
// distance from origin. Ties keep their input order. The at func maps an item
// to its location.
func RankByProximity[T any](origin Point, items []T, at func(T) Point) iter.Seq[T] {
	type ranked struct {
		item T
		dist float64
	}

	ordered := make([]ranked, len(items))
	for i, it := range items {
		ordered[i] = ranked{item: it, dist: DistanceKm(origin, at(it))}
	}
	slices.SortStableFunc(ordered, func(a, b ranked) int {
		switch {
		case a.dist < b.dist:
			return -1
		case a.dist > b.dist:
			return 1
		default:
			return 0
		}
	})

	return func(yield func(T) bool) {
		for _, r := range ordered {
			if !yield(r.item) {
				return
			}
		}
	}
}

// WithinRadius filters items to those at most radiusKm from origin.
func WithinRadius[T any](origin Point, items []T, at func(T) Point, radiusKm float64) []T {
	var nearby []T
	for _, it := range items {
		if DistanceKm(origin, at(it)) <= radiusKm {
			nearby = append(nearby, it)
		}
	}
	return nearby
}
