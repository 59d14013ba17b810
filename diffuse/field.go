// Package diffuse seeds a density field on a mesh by injecting unit point
// masses and spreading them with an explicit discretized heat iteration.
package diffuse

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/statfem/densinit/locate"
	"github.com/statfem/densinit/mesh"
)

var (
	// ErrNoPointsLocated reports that every data point fell outside the
	// mesh, leaving nothing to diffuse.
	ErrNoPointsLocated = errors.New("no data points located inside the mesh")

	// ErrNumericalDivergence reports runaway field growth during the heat
	// iteration, i.e. an unstable heatStep/lambda combination.
	ErrNumericalDivergence = errors.New("numerical divergence in heat iteration")
)

// Field is a nodal density seed: one coefficient per mesh node, normalized
// to unit discrete integral. Immutable once returned.
type Field struct {
	Values *mat.VecDense
	Lambda float64
	// Skipped counts data points that fell outside the mesh and were
	// excluded from injection.
	Skipped int
}

// At evaluates the field at an arbitrary location using the same
// locate-and-interpolate path as injection. Returns ErrPointOutsideMesh
// (wrapped) for locations no element contains.
func (f Field) At(m *mesh.Mesh, loc locate.Locator, p []float64) (v float64, err error) {
	var (
		elem int
		w    []float64
	)
	if elem, w, err = loc.Locate(p); err != nil {
		return
	}
	v = f.interpolate(m, elem, w)
	return
}

func (f Field) interpolate(m *mesh.Mesh, elem int, w []float64) (v float64) {
	var (
		verts = m.ElemNodes(elem)
		vals  = f.Values.RawVector().Data
	)
	for i, n := range verts {
		v += w[i] * vals[n]
	}
	return
}
