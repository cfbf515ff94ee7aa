// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package sampler draws points uniformly distributed over the solid angle of an
// ra/dec box on the celestial sphere.
package sampler

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Coord is a sky position in degrees.
type Coord struct {
	RA  float64
	Dec float64
}

// LatLng returns the position as an s2.LatLng with Lat=dec and Lng=ra.
func (c Coord) LatLng() s2.LatLng {
	return s2.LatLng{
		Lat: s1.Angle(c.Dec) * s1.Degree,
		Lng: s1.Angle(c.RA) * s1.Degree,
	}
}

// Point returns the position on the unit sphere.
func (c Coord) Point() s2.Point {
	return s2.PointFromLatLng(c.LatLng())
}

// Sample draws n points uniformly over the solid angle of r using src.
// It returns an empty slice for n <= 0.
func Sample(n int, r Region, src Source) []Coord {
	if n <= 0 {
		return []Coord{}
	}
	coords := make([]Coord, n)
	Fill(coords, r, src)
	return coords
}

// Fill overwrites every element of dst with a point drawn uniformly over the
// solid angle of r.
//
// Declination is drawn by inverse CDF on z = sin(dec), so its density is
// proportional to cos(dec). Each point consumes two variates from src, first
// for z and then for ra. Results lie in the closed box of r.
func Fill(dst []Coord, r Region, src Source) {
	raLo, raHi := radians(r.RA[0]), radians(r.RA[1])
	zLo, zHi := math.Sin(radians(r.Dec[0])), math.Sin(radians(r.Dec[1]))
	raSpan, zSpan := raHi-raLo, zHi-zLo

	for i := range dst {
		z := zLo + zSpan*src.Float64()
		ra := raLo + raSpan*src.Float64()
		dst[i] = Coord{
			RA:  clamp(degrees(ra), r.RA[0], r.RA[1]),
			Dec: clamp(degrees(math.Asin(z)), r.Dec[0], r.Dec[1]),
		}
	}
}

// The degree/radian and sin/asin round trips can land an ulp outside the box.
func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
