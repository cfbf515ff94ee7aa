// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package skyrandoms

import (
	"fmt"

	"github.com/2dChan/skyrandoms/sampler"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	// DefaultChunkSize bounds the number of points generated and committed at once.
	DefaultChunkSize = 1_000_000
)

type Options struct {
	Region     sampler.Region
	Source     sampler.Source
	ChunkSize  int
	Overwrite  bool
	Logger     *zap.Logger
	Registerer prometheus.Registerer
}

type Option func(*Options) error

func defaultOptions() Options {
	src, _ := sampler.NewSource(nil)
	return Options{
		Region:    sampler.FullSky(),
		Source:    src,
		ChunkSize: DefaultChunkSize,
		Logger:    zap.NewNop(),
	}
}

// WithRegion sets the initial sampling region.
func WithRegion(ra, dec [2]float64) Option {
	return func(o *Options) error {
		r, err := sampler.NewRegion(ra, dec)
		if err != nil {
			return fmt.Errorf("WithRegion: %w", err)
		}
		o.Region = r
		return nil
	}
}

// WithRandomState sets the random stream, see sampler.NewSource for the
// accepted seed values.
func WithRandomState(seed any) Option {
	return func(o *Options) error {
		src, err := sampler.NewSource(seed)
		if err != nil {
			return fmt.Errorf("WithRandomState: %w", err)
		}
		o.Source = src
		return nil
	}
}

func WithChunkSize(n int) Option {
	return func(o *Options) error {
		if n <= 0 {
			return fmt.Errorf("WithChunkSize: %w: chunk size %d must be positive", ErrValidation, n)
		}
		o.ChunkSize = n
		return nil
	}
}

// WithOverwrite removes an existing store file before opening it.
// Protected files are never removed, see Open.
func WithOverwrite(overwrite bool) Option {
	return func(o *Options) error {
		o.Overwrite = overwrite
		return nil
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *Options) error {
		if l == nil {
			l = zap.NewNop()
		}
		o.Logger = l
		return nil
	}
}

// WithRegisterer registers the store's collectors with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *Options) error {
		o.Registerer = reg
		return nil
	}
}
