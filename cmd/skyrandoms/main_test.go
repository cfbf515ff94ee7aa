// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package main

import (
	"context"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/2dChan/skyrandoms"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"
)

func TestParseConfig(t *testing.T) {
	env := map[string]string{envDBDir: "/scratch/randoms", envLogMode: "prod"}
	getenv := func(k string) string { return env[k] }

	tests := []struct {
		name    string
		args    []string
		want    config
		wantErr error
	}{
		{
			name: "defaults",
			args: []string{"100"},
			want: config{
				Density:   100,
				Prefix:    defaultPrefix,
				Dir:       "/scratch/randoms",
				Footprint: defaultFootprint,
				ChunkSize: skyrandoms.DefaultChunkSize,
				LogMode:   "prod",
			},
		},
		{
			name: "all flags",
			args: []string{"-prefix", "test", "-dir", "out", "-footprint", "HSC", "-seed", "7",
				"-chunk", "1000", "-overwrite", "-metrics-file", "m.prom", "25"},
			want: config{
				Density:     25,
				Prefix:      "test",
				Dir:         "out",
				Footprint:   "HSC",
				Seed:        int64(7),
				ChunkSize:   1000,
				Overwrite:   true,
				MetricsFile: "m.prom",
				LogMode:     "prod",
			},
		},
		{name: "missing density", args: nil, wantErr: errAny},
		{name: "zero density", args: []string{"0"}, wantErr: skyrandoms.ErrValidation},
		{name: "float density", args: []string{"1.5"}, wantErr: skyrandoms.ErrValidation},
		{name: "bad seed", args: []string{"-seed", "x", "10"}, wantErr: skyrandoms.ErrValidation},
		{name: "bad chunk", args: []string{"-chunk", "0", "10"}, wantErr: skyrandoms.ErrValidation},
		{name: "unknown flag", args: []string{"-nope", "10"}, wantErr: errAny},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseConfig(tt.args, getenv, io.Discard)
			if tt.wantErr != nil {
				if err == nil || (tt.wantErr != errAny && !errors.Is(err, tt.wantErr)) {
					t.Fatalf("parseConfig(%q) error = %v, want %v", tt.args, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseConfig(%q) error = %v, want nil", tt.args, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseConfig(%q) mismatch (-want +got):\n%v", tt.args, diff)
			}
		})
	}
}

func TestConfig_DBPath(t *testing.T) {
	cfg := config{Dir: "/scratch", Prefix: "randoms-safe", Density: 100}
	if got, want := cfg.DBPath(), filepath.Join("/scratch", "randoms-safe-100.db"); got != want {
		t.Errorf("DBPath() = %q, want %q", got, want)
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := config{
		Density:     2,
		Prefix:      "randoms",
		Dir:         dir,
		Footprint:   "hsc",
		Seed:        int64(1),
		ChunkSize:   100,
		MetricsFile: filepath.Join(dir, "skyrandoms.prom"),
	}
	if err := run(ctx, cfg, zaptest.NewLogger(t)); err != nil {
		t.Fatalf("run(...) error = %v, want nil", err)
	}

	want := 0
	for _, fp := range skyrandoms.HSC {
		want += skyrandoms.PointCount(float64(cfg.Density), fp.Area())
	}
	store, err := skyrandoms.Open(ctx, cfg.DBPath())
	if err != nil {
		t.Fatalf("Open(%s) error = %v, want nil", cfg.DBPath(), err)
	}
	t.Cleanup(func() { _ = store.Close() })
	got, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v, want nil", err)
	}
	if got != int64(want) {
		t.Errorf("Count() = %v, want %v", got, want)
	}

	// Each region's points lie inside its footprint.
	inside := 0
	for _, fp := range skyrandoms.HSC {
		ra := [2]float64{math.Nextafter(fp.RA[0], -1), math.Nextafter(fp.RA[1], 361)}
		dec := [2]float64{math.Nextafter(fp.Dec[0], -91), math.Nextafter(fp.Dec[1], 91)}
		points, err := store.QueryRegion(ctx, ra, dec)
		if err != nil {
			t.Fatalf("QueryRegion(%s) error = %v, want nil", fp.Name, err)
		}
		inside += len(points)
	}
	if inside != want {
		t.Errorf("points inside footprints = %v, want %v", inside, want)
	}

	metrics, err := os.ReadFile(cfg.MetricsFile)
	if err != nil {
		t.Fatalf("read metrics file: %v", err)
	}
	if !strings.Contains(string(metrics), "skyrandoms_points_inserted_total") {
		t.Errorf("metrics file lacks skyrandoms_points_inserted_total:\n%s", metrics)
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     func(dir string) config
		setup   func(t *testing.T, path string)
		wantErr error
	}{
		{
			name: "unknown footprint set",
			cfg: func(dir string) config {
				return config{Density: 1, Prefix: "randoms", Dir: dir, Footprint: "sdss", ChunkSize: 10}
			},
			wantErr: skyrandoms.ErrConfiguration,
		},
		{
			name: "protected overwrite",
			cfg: func(dir string) config {
				return config{Density: 1, Prefix: "randoms-safe", Dir: dir, Footprint: "hsc", ChunkSize: 10, Overwrite: true}
			},
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, nil, 0o600); err != nil {
					t.Fatalf("write %s: %v", path, err)
				}
			},
			wantErr: skyrandoms.ErrConfiguration,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg(t.TempDir())
			if tt.setup != nil {
				tt.setup(t, cfg.DBPath())
			}
			err := run(context.Background(), cfg, zaptest.NewLogger(t))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("run(...) error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// Helpers

var errAny = errors.New("any error")
