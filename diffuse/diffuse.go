package diffuse

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/statfem/densinit/locate"
	"github.com/statfem/densinit/mesh"
)

// divergenceLimit bounds the max-norm growth of the field relative to the
// injected one. The explicit step conserves the discrete integral, so a
// stable iteration stays well inside this factor while an unstable mode
// blows past it within a few steps.
const divergenceLimit = 1e3

// Run produces one density seed field for a single smoothing parameter.
//
// Unit mass per data point is distributed over its enclosing element's
// nodes by barycentric weight, the injected field is normalized to unit
// discrete integral, then smoothed by heatIter explicit steps of
//
//	v <- v + heatStep * lambda * (-M^-1 K v)
//
// with lumped mass M and stiffness K from the mesh. Negative coefficients
// left by the discretization are clamped and the field is renormalized.
// heatStep stability relative to the operator's spectral radius is the
// caller's responsibility; divergence fails with ErrNumericalDivergence.
// ctx is only checked between iterations, mid-step state is not resumable.
func Run(ctx context.Context, m *mesh.Mesh, loc locate.Locator,
	points *mat.Dense, lambda, heatStep float64, heatIter int) (f Field, err error) {
	if f.Values, f.Skipped, err = inject(m, loc, points); err != nil {
		return
	}
	f.Lambda = lambda
	var (
		mass, stiff = m.Operators()
		nNodes      = m.NumNodes()
		kv          = make([]float64, nNodes)
		v           = f.Values.RawVector().Data
		vMax        = floats.Norm(v, math.Inf(1))
	)
	for iter := 0; iter < heatIter; iter++ {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		default:
		}
		stiff.MulVecTo(kv, f.Values)
		for i := 0; i < nNodes; i++ {
			v[i] -= heatStep * lambda * kv[i] / mass[i]
		}
		// A stable step cannot grow the field beyond a modest multiple of
		// the injected one; the negated comparison also catches NaN.
		if n := floats.Norm(v, math.Inf(1)); !(n <= divergenceLimit*vMax) {
			err = fmt.Errorf("%w: lambda %g, heatStep %g, iteration %d",
				ErrNumericalDivergence, lambda, heatStep, iter)
			return
		}
	}
	for i := range v {
		if v[i] < 0 {
			v[i] = 0
		}
	}
	normalize(m, f.Values)
	return
}

// RunMany runs one diffusion per candidate lambda on up to workers
// goroutines. Fields come back in input order. Runs are independent: each
// reads the shared mesh and points and writes only its own field.
func RunMany(ctx context.Context, m *mesh.Mesh, loc locate.Locator,
	points *mat.Dense, lambdas []float64, heatStep float64, heatIter int,
	workers int) (fields []Field, err error) {
	if workers < 1 {
		workers = 1
	}
	var (
		wg   sync.WaitGroup
		sem  = make(chan struct{}, workers)
		errs = make([]error, len(lambdas))
	)
	fields = make([]Field, len(lambdas))
	for i, lambda := range lambdas {
		wg.Add(1)
		go func(i int, lambda float64) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			fields[i], errs[i] = Run(ctx, m, loc, points, lambda, heatStep, heatIter)
		}(i, lambda)
	}
	wg.Wait()
	if err = errors.Join(errs...); err != nil {
		fields = nil
	}
	return
}

// inject accumulates barycentric point masses into a fresh nodal vector and
// normalizes it to unit discrete integral. Outside-mesh points are counted
// and skipped; all points outside is ErrNoPointsLocated.
func inject(m *mesh.Mesh, loc locate.Locator, points *mat.Dense) (v0 *mat.VecDense, skipped int, err error) {
	var (
		nPoints, _ = points.Dims()
		v          = make([]float64, m.NumNodes())
		located    int
	)
	for ip := 0; ip < nPoints; ip++ {
		elem, w, lerr := loc.Locate(points.RawRowView(ip))
		if lerr != nil {
			if errors.Is(lerr, locate.ErrPointOutsideMesh) {
				skipped++
				continue
			}
			err = lerr
			return
		}
		located++
		for i, n := range m.ElemNodes(elem) {
			v[n] += w[i]
		}
	}
	if located == 0 {
		err = fmt.Errorf("%w: %d points checked", ErrNoPointsLocated, nPoints)
		return
	}
	v0 = mat.NewVecDense(len(v), v)
	normalize(m, v0)
	return
}

// normalize rescales v in place to unit discrete integral over the mesh.
func normalize(m *mesh.Mesh, v *mat.VecDense) {
	if s := m.Integral(v); s != 0 {
		v.ScaleVec(1/s, v)
	}
}
