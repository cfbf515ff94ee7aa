// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package skyrandoms

import (
	"fmt"
	"slices"
	"strings"

	"github.com/2dChan/skyrandoms/sampler"
)

// Footprint is a named ra/dec box of survey coverage.
type Footprint struct {
	Name   string
	Region int
	RA     [2]float64
	Dec    [2]float64
}

// Validate checks the footprint bounds.
func (f Footprint) Validate() error {
	if _, err := sampler.NewRegion(f.RA, f.Dec); err != nil {
		return fmt.Errorf("footprint %s: %w", f.Name, err)
	}
	return nil
}

// Area returns the solid angle of the footprint in square degrees.
func (f Footprint) Area() float64 {
	return sampler.SolidAngle(f.RA, f.Dec)
}

// HSC holds the Hyper Suprime-Cam wide-layer regions in survey order.
var HSC = []Footprint{
	{Name: "r1", Region: 1, RA: [2]float64{28, 42}, Dec: [2]float64{-8, -1}},
	{Name: "r2", Region: 2, RA: [2]float64{126, 143}, Dec: [2]float64{-3, 6}},
	{Name: "r3", Region: 3, RA: [2]float64{175, 184}, Dec: [2]float64{-3, 2}},
	{Name: "r4", Region: 4, RA: [2]float64{208, 228}, Dec: [2]float64{-3, 2.5}},
	{Name: "r5", Region: 5, RA: [2]float64{234, 250}, Dec: [2]float64{-3, 2.5}},
	{Name: "r6", Region: 6, RA: [2]float64{328, 346}, Dec: [2]float64{-2, 4}},
}

var footprintSets = map[string][]Footprint{
	"hsc": HSC,
}

// FootprintSets returns the names of the known footprint sets, sorted.
func FootprintSets() []string {
	names := make([]string, 0, len(footprintSets))
	for name := range footprintSets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Footprints returns a copy of the named footprint set in order.
// An unknown name yields an error wrapping ErrConfiguration.
func Footprints(set string) ([]Footprint, error) {
	fps, ok := footprintSets[strings.ToLower(set)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown footprint set %q (known: %s)",
			ErrConfiguration, set, strings.Join(FootprintSets(), ", "))
	}
	return slices.Clone(fps), nil
}
