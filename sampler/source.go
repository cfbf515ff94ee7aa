// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package sampler

import (
	"fmt"
	"math/rand"
)

// Source is a stream of uniform variates in [0, 1).
// *rand.Rand from math/rand and math/rand/v2 both satisfy it.
type Source interface {
	Float64() float64
}

type ambientSource struct{}

func (ambientSource) Float64() float64 {
	return rand.Float64()
}

// NewSource turns seed into a Source.
//
// A nil seed returns the process-wide math/rand stream. An integer seed returns
// a new deterministic stream, so equal seeds reproduce equal draws. A Source is
// returned as-is. Any other value yields an error wrapping ErrValidation.
func NewSource(seed any) (Source, error) {
	switch s := seed.(type) {
	case nil:
		return ambientSource{}, nil
	case int:
		return newSeeded(int64(s)), nil
	case int8:
		return newSeeded(int64(s)), nil
	case int16:
		return newSeeded(int64(s)), nil
	case int32:
		return newSeeded(int64(s)), nil
	case int64:
		return newSeeded(s), nil
	case uint:
		return newSeeded(int64(s)), nil
	case uint8:
		return newSeeded(int64(s)), nil
	case uint16:
		return newSeeded(int64(s)), nil
	case uint32:
		return newSeeded(int64(s)), nil
	case uint64:
		return newSeeded(int64(s)), nil
	case Source:
		if isNilSource(s) {
			return nil, fmt.Errorf("%w: nil %T cannot be used as a random stream", ErrValidation, seed)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %#v cannot be used to seed a random stream", ErrValidation, seed)
	}
}

func newSeeded(seed int64) *rand.Rand {
	//nolint:gosec
	return rand.New(rand.NewSource(seed))
}

func isNilSource(s Source) bool {
	r, ok := s.(*rand.Rand)
	return ok && r == nil
}
