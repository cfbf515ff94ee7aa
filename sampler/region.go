// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package sampler

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/s1"
)

// ErrValidation reports malformed input: bounds outside the legal ranges,
// inverted bounds or an unusable random seed.
var ErrValidation = errors.New("validation error")

// SquareDegreesPerSteradian converts steradians to square degrees.
const SquareDegreesPerSteradian = (180 / math.Pi) * (180 / math.Pi)

var (
	// FullRA spans every right ascension.
	FullRA = [2]float64{0, 360}
	// FullDec spans every declination.
	FullDec = [2]float64{-90, 90}
)

// Region is an axis-aligned ra/dec box in degrees.
// Use NewRegion to obtain a validated value.
type Region struct {
	RA  [2]float64
	Dec [2]float64
}

// NewRegion returns the region bounded by ra and dec.
// It returns an error wrapping ErrValidation if the bounds are out of range or inverted.
func NewRegion(ra, dec [2]float64) (Region, error) {
	r := Region{RA: ra, Dec: dec}
	if err := r.Validate(); err != nil {
		return Region{}, err
	}
	return r, nil
}

// FullSky returns the region covering the whole sphere.
func FullSky() Region {
	return Region{RA: FullRA, Dec: FullDec}
}

// Validate checks ra ⊂ [0, 360], dec ⊂ [-90, 90] and min <= max on both axes.
func (r Region) Validate() error {
	for _, v := range [...]float64{r.RA[0], r.RA[1], r.Dec[0], r.Dec[1]} {
		if math.IsNaN(v) {
			return fmt.Errorf("%w: NaN bound in ra %v, dec %v", ErrValidation, r.RA, r.Dec)
		}
	}
	if r.RA[0] < 0 || r.RA[1] > 360 {
		return fmt.Errorf("%w: ra %v must be in [0, 360]", ErrValidation, r.RA)
	}
	if r.Dec[0] < -90 || r.Dec[1] > 90 {
		return fmt.Errorf("%w: dec %v must be in [-90, 90]", ErrValidation, r.Dec)
	}
	if r.RA[0] > r.RA[1] {
		return fmt.Errorf("%w: ra min %v exceeds max %v", ErrValidation, r.RA[0], r.RA[1])
	}
	if r.Dec[0] > r.Dec[1] {
		return fmt.Errorf("%w: dec min %v exceeds max %v", ErrValidation, r.Dec[0], r.Dec[1])
	}
	return nil
}

// Area returns the solid angle of the region in square degrees.
func (r Region) Area() float64 {
	return SolidAngle(r.RA, r.Dec)
}

// String implements fmt.Stringer.
func (r Region) String() string {
	return fmt.Sprintf("ra=[%g, %g] dec=[%g, %g]", r.RA[0], r.RA[1], r.Dec[0], r.Dec[1])
}

// SolidAngle returns the area in square degrees of the box bounded by ra and dec,
// all angles in degrees.
func SolidAngle(ra, dec [2]float64) float64 {
	raLo, raHi := radians(ra[0]), radians(ra[1])
	dz := math.Sin(radians(dec[1])) - math.Sin(radians(dec[0]))
	return (raHi - raLo) * dz * SquareDegreesPerSteradian
}

func radians(deg float64) float64 {
	return (s1.Angle(deg) * s1.Degree).Radians()
}

func degrees(rad float64) float64 {
	return s1.Angle(rad).Degrees()
}
