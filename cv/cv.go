// Package cv selects the smoothing parameter for the heat-diffusion seed by
// k-fold cross-validation on held-out log-likelihood.
package cv

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/statfem/densinit/diffuse"
	"github.com/statfem/densinit/locate"
	"github.com/statfem/densinit/mesh"
	"github.com/statfem/densinit/utils"
)

// ErrCVFailed reports that no (lambda, fold) combination produced a scored
// held-out point, so no candidate can be ranked.
var ErrCVFailed = errors.New("cross-validation produced no scored candidate")

// Partition splits indices 0..n-1 into nFolds disjoint round-robin groups.
// Deterministic; fold sizes differ by at most one.
func Partition(n, nFolds int) (folds []utils.Index) {
	folds = make([]utils.Index, nFolds)
	for _, i := range utils.NewRange(0, n-1) {
		f := i % nFolds
		folds[f] = append(folds[f], i)
	}
	return
}

// Select scores every candidate lambda by summed held-out log-likelihood
// across nFolds folds, picks the best (ties to the smallest lambda), and
// returns the diffusion of the full point set under the winner.
//
// Per-fold failures (a training fold with no located points, or held-out
// points that are outside the mesh or land on a zero-density region) only
// shrink the score's sample; Select fails with ErrCVFailed when nothing at
// all could be scored.
func Select(ctx context.Context, m *mesh.Mesh, loc locate.Locator,
	points *mat.Dense, lambdas []float64, heatStep float64, heatIter int,
	nFolds, workers int) (f diffuse.Field, err error) {
	var (
		nPoints, _ = points.Dims()
		folds      = Partition(nPoints, nFolds)
		scores     = make([]float64, len(lambdas))
		scored     = make([]int, len(lambdas)) // held-out points contributing per lambda
		mu         sync.Mutex
		wg         sync.WaitGroup
		sem        = make(chan struct{}, max(workers, 1))
		taskErrs   []error
	)
	for li, lambda := range lambdas {
		for fi := range folds {
			wg.Add(1)
			go func(li, fi int, lambda float64) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				s, n, serr := scoreFold(ctx, m, loc, points, folds[fi], lambda, heatStep, heatIter)
				mu.Lock()
				scores[li] += s
				scored[li] += n
				if serr != nil {
					taskErrs = append(taskErrs, serr)
				}
				mu.Unlock()
			}(li, fi, lambda)
		}
	}
	wg.Wait()
	if err = errors.Join(taskErrs...); err != nil {
		return
	}
	if err = ctx.Err(); err != nil {
		return
	}
	best := -1
	for li := range lambdas {
		if scored[li] == 0 {
			continue
		}
		if best < 0 || scores[li] > scores[best] ||
			(scores[li] == scores[best] && lambdas[li] < lambdas[best]) {
			best = li
		}
	}
	if best < 0 {
		err = fmt.Errorf("%w: %d candidates, %d folds", ErrCVFailed, len(lambdas), nFolds)
		return
	}
	return diffuse.Run(ctx, m, loc, points, lambdas[best], heatStep, heatIter)
}

// scoreFold trains on the complement of fold and sums the log of the
// resulting field at the fold's held-out points. n is the number of points
// that actually contributed. Folds whose training sets have no points on
// the mesh reduce the sample; divergence and cancellation are fatal.
func scoreFold(ctx context.Context, m *mesh.Mesh, loc locate.Locator,
	points *mat.Dense, fold utils.Index, lambda, heatStep float64,
	heatIter int) (s float64, n int, err error) {
	var (
		nPoints, dim = points.Dims()
		train        = fold.Complement(nPoints)
	)
	if len(train) == 0 || len(fold) == 0 {
		return
	}
	sub := mat.NewDense(len(train), dim, nil)
	for i, ip := range train {
		sub.SetRow(i, points.RawRowView(ip))
	}
	f, err := diffuse.Run(ctx, m, loc, sub, lambda, heatStep, heatIter)
	if errors.Is(err, diffuse.ErrNoPointsLocated) {
		err = nil
		return
	}
	if err != nil {
		return
	}
	for _, ip := range fold {
		v, verr := f.At(m, loc, points.RawRowView(ip))
		if verr != nil || v <= 0 || math.IsNaN(v) {
			continue
		}
		s += math.Log(v)
		n++
	}
	return
}
