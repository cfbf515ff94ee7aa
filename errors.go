// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package skyrandoms

import (
	"errors"

	"github.com/2dChan/skyrandoms/sampler"
)

var (
	// ErrValidation reports malformed bounds, seeds, chunk sizes or densities.
	ErrValidation = sampler.ErrValidation

	// ErrConfiguration reports an unknown footprint set or a refused overwrite
	// of a protected store file.
	ErrConfiguration = errors.New("configuration error")
)
