// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Command skyrandoms fills a randoms database for every region of a named
// footprint set at a given density.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/2dChan/skyrandoms"
	"github.com/2dChan/skyrandoms/internal/logger"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load(".env")

	cfg, err := parseConfig(os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		_, _ = fmt.Fprintln(os.Stderr, "skyrandoms:", err)
		os.Exit(2)
	}

	log, err := logger.New(cfg.LogMode, cfg.LogLevel)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "skyrandoms:", err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("randoms generation failed", zap.Error(err))
		_ = log.Sync()
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config, log *zap.Logger) (retErr error) {
	fps, err := skyrandoms.Footprints(cfg.Footprint)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	opts := []skyrandoms.Option{
		skyrandoms.WithRandomState(cfg.Seed),
		skyrandoms.WithChunkSize(cfg.ChunkSize),
		skyrandoms.WithOverwrite(cfg.Overwrite),
		skyrandoms.WithLogger(log),
		skyrandoms.WithRegisterer(reg),
	}
	path := cfg.DBPath()
	store, err := skyrandoms.Open(ctx, path, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil && retErr == nil {
			retErr = err
		}
	}()
	if cfg.MetricsFile != "" {
		defer func() {
			if err := prometheus.WriteToTextfile(cfg.MetricsFile, reg); err != nil && retErr == nil {
				retErr = fmt.Errorf("write metrics: %w", err)
			}
		}()
	}

	log.Info("generating randoms",
		zap.String("db", path),
		zap.Int("density", cfg.Density),
		zap.String("footprint", cfg.Footprint),
	)
	for _, fp := range fps {
		if err := store.SetRegion(fp.RA, fp.Dec); err != nil {
			return fmt.Errorf("footprint %s: %w", fp.Name, err)
		}
		area := store.Area()
		log.Info("generating randoms for region",
			zap.Int("region", fp.Region),
			zap.Stringer("bounds", store.Region()),
			zap.Float64("solid_angle_deg2", area),
			zap.Int("n_randoms", skyrandoms.PointCount(float64(cfg.Density), area)),
		)
		if _, err := store.AddDensity(ctx, float64(cfg.Density), cfg.ChunkSize); err != nil {
			return err
		}
		store.UpdateTotalArea()
	}
	log.Info("total area covered by randoms", zap.Float64("total_area_deg2", store.TotalArea()))
	return nil
}
