// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package skyrandoms

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFootprints(t *testing.T) {
	tests := []struct {
		name    string
		set     string
		want    []string
		wantErr error
	}{
		{"hsc", "hsc", []string{"r1", "r2", "r3", "r4", "r5", "r6"}, nil},
		{"case insensitive", "HSC", []string{"r1", "r2", "r3", "r4", "r5", "r6"}, nil},
		{"unknown", "sdss", nil, ErrConfiguration},
		{"empty", "", nil, ErrConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fps, err := Footprints(tt.set)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Footprints(%q) error = %v, want %v", tt.set, err, tt.wantErr)
			}
			var got []string
			for _, fp := range fps {
				got = append(got, fp.Name)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Footprints(%q) names mismatch (-want +got):\n%v", tt.set, diff)
			}
		})
	}
}

func TestFootprints_ReturnsCopy(t *testing.T) {
	fps, err := Footprints("hsc")
	if err != nil {
		t.Fatalf("Footprints(\"hsc\") error = %v, want nil", err)
	}
	fps[0].RA = [2]float64{0, 360}
	if HSC[0].RA != [2]float64{28, 42} {
		t.Errorf("HSC[0].RA = %v after mutating a copy, want [28 42]", HSC[0].RA)
	}
}

func TestHSC_Valid(t *testing.T) {
	for i, fp := range HSC {
		if err := fp.Validate(); err != nil {
			t.Errorf("HSC[%d].Validate() error = %v, want nil", i, err)
		}
		if fp.Region != i+1 {
			t.Errorf("HSC[%d].Region = %v, want %v", i, fp.Region, i+1)
		}
		if fp.Area() <= 0 {
			t.Errorf("HSC[%d].Area() = %v, want > 0", i, fp.Area())
		}
	}
}

func TestFootprint_ValidateInvalid(t *testing.T) {
	fp := Footprint{Name: "bad", RA: [2]float64{10, 5}, Dec: [2]float64{0, 1}}
	if err := fp.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("Validate() error = %v, want ErrValidation", err)
	}
}
