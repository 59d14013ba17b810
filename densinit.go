// Package densinit computes the initial density field that seeds a
// FEM-based nonparametric density estimator. Observed point locations are
// binned into mesh elements, spread over the mesh by a discretized heat
// diffusion, and, when requested, the amount of smoothing is chosen by
// cross-validation.
package densinit

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"gonum.org/v1/gonum/mat"

	"github.com/statfem/densinit/cv"
	"github.com/statfem/densinit/diffuse"
	"github.com/statfem/densinit/locate"
	"github.com/statfem/densinit/mesh"
)

// ErrInvalidInitMode reports an unrecognized initialization mode.
var ErrInvalidInitMode = errors.New("invalid initialization mode")

// Re-exported component errors, so callers can discriminate every failure
// kind against this package alone.
var (
	ErrUnsupportedMeshKind   = mesh.ErrUnsupportedMeshKind
	ErrInvalidSearchStrategy = locate.ErrInvalidSearchStrategy
	ErrUnsupportedSearch     = locate.ErrUnsupportedSearch
	ErrPointOutsideMesh      = locate.ErrPointOutsideMesh
	ErrNoPointsLocated       = diffuse.ErrNoPointsLocated
	ErrNumericalDivergence   = diffuse.ErrNumericalDivergence
	ErrCVFailed              = cv.ErrCVFailed
)

type Mode uint8

const (
	Heat Mode = iota
	CV
)

func ParseMode(s string) (mode Mode, err error) {
	switch s {
	case "Heat", "heat":
		mode = Heat
	case "CV", "cv":
		mode = CV
	default:
		err = fmt.Errorf("%w: %q", ErrInvalidInitMode, s)
	}
	return
}

func (mode Mode) String() string {
	switch mode {
	case Heat:
		return "Heat"
	case CV:
		return "CV"
	}
	return fmt.Sprintf("Mode(%d)", uint8(mode))
}

// Config carries the run parameters for one initialization call. The zero
// value of a field selects its default.
type Config struct {
	// Lambda holds the smoothing parameter candidates, all non-negative.
	// Heat mode produces one field per entry; CV mode selects one.
	Lambda []float64
	// HeatStep is the explicit diffusion time increment. Default 0.1.
	HeatStep float64
	// HeatIter is the diffusion iteration count, strictly positive at
	// this level: zero selects the default of 500. An unsmoothed field
	// is requested with a zero smoothing parameter, not a zero
	// iteration count.
	HeatIter int
	// Mode is Heat or CV. Default Heat.
	Mode Mode
	// NFolds is the CV fold count, at least 2. Default 5.
	NFolds int
	// Search selects the point-location strategy. Default Tree.
	Search locate.Strategy
	// Workers bounds the goroutines running independent diffusions.
	// Default GOMAXPROCS.
	Workers int
}

func (cfg *Config) applyDefaults() {
	if cfg.HeatStep == 0 {
		cfg.HeatStep = 0.1
	}
	if cfg.HeatIter == 0 {
		cfg.HeatIter = 500
	}
	if cfg.NFolds == 0 {
		cfg.NFolds = 5
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
}

// Initialize routes one initialization request: it validates the
// configuration against the mesh, builds the requested locator, and runs
// the diffusion once per lambda (Heat mode) or the cross-validated
// selection (CV mode, single winning field).
//
// A zero Config.HeatIter selects the default iteration count; to obtain
// the raw injected field pass a zero smoothing parameter instead.
//
// The mesh and points are never mutated and may be shared; fields are
// fresh per call.
func Initialize(ctx context.Context, m *mesh.Mesh, points *mat.Dense,
	cfg Config) (fields []diffuse.Field, err error) {
	if !m.Kind.Valid() {
		err = fmt.Errorf("%w: kind tag %d", ErrUnsupportedMeshKind, m.Kind)
		return
	}
	cfg.applyDefaults()
	if len(cfg.Lambda) == 0 {
		err = fmt.Errorf("%s mode requires at least one smoothing parameter", cfg.Mode)
		return
	}
	for _, l := range cfg.Lambda {
		if l < 0 {
			err = fmt.Errorf("smoothing parameter must be non-negative, have %g", l)
			return
		}
	}
	loc, err := locate.New(cfg.Search, m)
	if err != nil {
		return
	}
	switch cfg.Mode {
	case Heat:
		return diffuse.RunMany(ctx, m, loc, points, cfg.Lambda,
			cfg.HeatStep, cfg.HeatIter, cfg.Workers)
	case CV:
		if cfg.NFolds < 2 {
			err = fmt.Errorf("CV mode requires at least 2 folds, have %d", cfg.NFolds)
			return
		}
		var f diffuse.Field
		if f, err = cv.Select(ctx, m, loc, points, cfg.Lambda,
			cfg.HeatStep, cfg.HeatIter, cfg.NFolds, cfg.Workers); err != nil {
			return
		}
		fields = []diffuse.Field{f}
		return
	}
	err = fmt.Errorf("%w: %d", ErrInvalidInitMode, cfg.Mode)
	return
}
