// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package skyrandoms builds and queries catalogs of random points on the
// celestial sphere, used as a density baseline for survey completeness.
//
// A Store owns one SQLite table of points. Points are generated region by
// region with the sampler package, get sequential ids and carry a detected
// flag that downstream analyses set.
package skyrandoms

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/2dChan/skyrandoms/sampler"
	"go.uber.org/zap"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

const (
	// TableName is the name of the points table.
	TableName = "randoms"

	// maxIDsPerStatement keeps IN lists well below SQLite's variable limit.
	maxIDsPerStatement = 500

	protectedMarker = "safe"
)

// Point is a stored random point.
type Point struct {
	ID       int64
	RA       float64
	Dec      float64
	Detected bool
}

// Coord returns the sky position of the point.
func (p Point) Coord() sampler.Coord {
	return sampler.Coord{RA: p.RA, Dec: p.Dec}
}

// Store manages a growing table of random points with a detected flag.
//
// A Store is meant to be driven by one goroutine; its random stream is not
// safe for concurrent batches.
type Store struct {
	db   *sql.DB
	path string

	region    sampler.Region
	src       sampler.Source
	area      float64
	areaValid bool
	totalArea float64

	chunkSize int
	log       *zap.Logger
	metrics   *storeMetrics
}

// Open opens the store at path, creating the file and the points table if absent.
//
// With WithOverwrite(true) an existing file is removed first, unless its base
// name marks it protected (see IsProtected), in which case Open fails with
// ErrConfiguration and leaves the file untouched.
func Open(ctx context.Context, path string, setters ...Option) (*Store, error) {
	opts := defaultOptions()
	for _, set := range setters {
		if err := set(&opts); err != nil {
			return nil, err
		}
	}
	if path == "" {
		return nil, fmt.Errorf("%w: store path is required", ErrConfiguration)
	}

	if opts.Overwrite {
		if err := removeExisting(path); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Single writer: one connection also keeps transactions on one handle.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create %s table: %w", TableName, err)
	}

	metrics, err := newStoreMetrics(opts.Registerer)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{
		db:        db,
		path:      path,
		region:    opts.Region,
		src:       opts.Source,
		chunkSize: opts.ChunkSize,
		log:       opts.Logger.With(zap.String("store", path)),
		metrics:   metrics,
	}
	s.log.Debug("opened randoms store", zap.Stringer("region", s.region), zap.Bool("overwrite", opts.Overwrite))
	return s, nil
}

// IsProtected reports whether the store file at path is marked as hard to
// regenerate, which is the case when its base name contains "safe".
func IsProtected(path string) bool {
	return strings.Contains(strings.ToLower(filepath.Base(path)), protectedMarker)
}

func removeExisting(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if IsProtected(path) {
		return fmt.Errorf("%w: refusing to overwrite protected store %s", ErrConfiguration, path)
	}
	for _, p := range []string{path, path + "-journal", path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS randoms (
			id INTEGER PRIMARY KEY,
			ra REAL NOT NULL,
			dec REAL NOT NULL,
			detected INTEGER NOT NULL DEFAULT 0 CHECK (detected IN (0, 1))
		)
	`)
	return err
}

// SetRegion replaces the sampling region. Stored points are not touched.
// On error the previous region stays in place.
func (s *Store) SetRegion(ra, dec [2]float64) error {
	r, err := sampler.NewRegion(ra, dec)
	if err != nil {
		return err
	}
	s.region = r
	s.areaValid = false
	return nil
}

// Region returns the active sampling region.
func (s *Store) Region() sampler.Region {
	return s.region
}

// Area returns the solid angle of the active region in square degrees.
func (s *Store) Area() float64 {
	if !s.areaValid {
		s.area = s.region.Area()
		s.areaValid = true
	}
	return s.area
}

// UpdateTotalArea adds the active region's area to the cumulative area and
// returns the new total. It is called once per region after its batch.
func (s *Store) UpdateTotalArea() float64 {
	s.totalArea += s.Area()
	s.metrics.totalArea.Set(s.totalArea)
	return s.totalArea
}

// TotalArea returns the cumulative area of batch-filled regions.
func (s *Store) TotalArea() float64 {
	return s.totalArea
}

// PointCount returns the number of points for density points per square
// degree over area, rounded half away from zero.
func PointCount(density, area float64) int {
	return int(math.Round(density * area))
}

// NextID returns the id the next stored point gets: one past the largest
// stored id, or 1 for an empty store.
func (s *Store) NextID(ctx context.Context) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM randoms`).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// AddDensity adds density points per square degree over the active region.
// See AddBatch for chunkSize and the returned count.
func (s *Store) AddDensity(ctx context.Context, density float64, chunkSize int) (int, error) {
	if math.IsNaN(density) || math.IsInf(density, 0) || density < 0 {
		return 0, fmt.Errorf("AddDensity: %w: density %v must be finite and non-negative", ErrValidation, density)
	}
	return s.AddBatch(ctx, PointCount(density, s.Area()), chunkSize)
}

// AddBatch draws n points over the active region and appends them with
// contiguous ids starting at NextID.
//
// Points are generated and committed in chunks of at most chunkSize points,
// each in its own transaction; chunkSize <= 0 selects the store default.
// It returns the number of points committed. If a chunk fails, the chunks
// committed before it stay in the store and the storage error is returned
// as is.
func (s *Store) AddBatch(ctx context.Context, n, chunkSize int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("AddBatch: %w: point count %d must be non-negative", ErrValidation, n)
	}
	if chunkSize <= 0 {
		chunkSize = s.chunkSize
	}
	if n == 0 {
		return 0, nil
	}

	first, err := s.NextID(ctx)
	if err != nil {
		return 0, err
	}

	began := time.Now()
	buf := make([]sampler.Coord, min(n, chunkSize))
	added := 0
	for added < n {
		chunk := buf[:min(chunkSize, n-added)]
		sampler.Fill(chunk, s.region, s.src)
		if err := s.insertChunk(ctx, first+int64(added), chunk); err != nil {
			s.log.Error("chunk insert failed", zap.Int64("first_id", first+int64(added)), zap.Int("committed", added), zap.Error(err))
			return added, err
		}
		added += len(chunk)
		s.metrics.pointsInserted.Add(float64(len(chunk)))
		s.metrics.chunksCommitted.Inc()
		s.log.Debug("chunk committed", zap.Int("size", len(chunk)), zap.Int("committed", added), zap.Int("total", n))
	}

	s.log.Info("batch added",
		zap.Stringer("region", s.region),
		zap.Int("points", added),
		zap.Int64("first_id", first),
		zap.Int64("last_id", first+int64(added)-1),
		zap.Duration("elapsed", time.Since(began)),
	)
	return added, nil
}

func (s *Store) insertChunk(ctx context.Context, firstID int64, coords []sampler.Coord) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO randoms (id, ra, dec, detected) VALUES (?, ?, ?, 0)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, c := range coords {
		if _, err := stmt.ExecContext(ctx, firstID+int64(i), c.RA, c.Dec); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// QueryRegion returns the points strictly inside the ra/dec box, ordered by id.
// Points on a bound are excluded.
func (s *Store) QueryRegion(ctx context.Context, ra, dec [2]float64) ([]Point, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ra, dec, detected FROM randoms
		WHERE ra > ? AND ra < ? AND dec > ? AND dec < ?
		ORDER BY id
	`, ra[0], ra[1], dec[0], dec[1])
	if err != nil {
		return nil, err
	}
	return scanPoints(rows, nil)
}

// GetByIDs returns the points with the given ids, ordered by id.
// Ids that are not stored produce no point.
func (s *Store) GetByIDs(ctx context.Context, ids ...int64) ([]Point, error) {
	points := make([]Point, 0, len(ids))
	for part := range slices.Chunk(ids, maxIDsPerStatement) {
		rows, err := s.db.QueryContext(ctx,
			`SELECT id, ra, dec, detected FROM randoms WHERE id IN (`+placeholders(len(part))+`)`,
			idArgs(part)...)
		if err != nil {
			return nil, err
		}
		if points, err = scanPoints(rows, points); err != nil {
			return nil, err
		}
	}
	slices.SortFunc(points, func(a, b Point) int { return cmp.Compare(a.ID, b.ID) })
	return points, nil
}

// SetDetected flags the points with the given ids as detected in a single
// transaction. Ids that are not stored are ignored.
func (s *Store) SetDetected(ctx context.Context, ids ...int64) (retErr error) {
	if len(ids) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	var matched int64
	for part := range slices.Chunk(ids, maxIDsPerStatement) {
		res, err := tx.ExecContext(ctx,
			`UPDATE randoms SET detected = 1 WHERE id IN (`+placeholders(len(part))+`)`,
			idArgs(part)...)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil {
			matched += n
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.metrics.detectedUpdates.Add(float64(matched))
	s.log.Debug("flagged detected", zap.Int("requested", len(ids)), zap.Int64("matched", matched))
	return nil
}

// SetAllUndetected clears the detected flag of every point.
func (s *Store) SetAllUndetected(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `UPDATE randoms SET detected = 0 WHERE detected <> 0`)
	return err
}

// Count returns the number of stored points.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM randoms`)
}

// DetectedCount returns the number of points flagged as detected.
func (s *Store) DetectedCount(ctx context.Context) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM randoms WHERE detected = 1`)
}

func (s *Store) count(ctx context.Context, query string) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// DB exposes the underlying sql.DB.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the store file path.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func scanPoints(rows *sql.Rows, dst []Point) ([]Point, error) {
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var (
			p        Point
			detected int64
		)
		if err := rows.Scan(&p.ID, &p.RA, &p.Dec, &detected); err != nil {
			return nil, err
		}
		p.Detected = detected != 0
		dst = append(dst, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if dst == nil {
		dst = []Point{}
	}
	return dst, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func idArgs(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
