package mesh

import (
	"gonum.org/v1/gonum/mat"

	"github.com/statfem/densinit/utils"
)

// UnitSquare builds the 4-node, 2-triangle unit square [0,1]^2, split along
// the diagonal from (0,0) to (1,1).
func UnitSquare() *Mesh {
	var (
		nodes = mat.NewDense(4, 2, []float64{
			0, 0,
			1, 0,
			1, 1,
			0, 1,
		})
		elements = utils.Index{0, 1, 2, 0, 2, 3}
	)
	m, err := New(Planar2D, nodes, elements)
	if err != nil {
		panic(err)
	}
	return m
}

// UnitSquareGrid builds an n x n vertex grid over [0,1]^2 triangulated into
// 2*(n-1)^2 elements.
func UnitSquareGrid(n int) *Mesh {
	var (
		nodes    = mat.NewDense(n*n, 2, nil)
		elements utils.Index
		h        = 1 / float64(n-1)
	)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			nodes.Set(j*n+i, 0, float64(i)*h)
			nodes.Set(j*n+i, 1, float64(j)*h)
		}
	}
	for j := 0; j < n-1; j++ {
		for i := 0; i < n-1; i++ {
			ll := j*n + i
			elements = append(elements,
				ll, ll+1, ll+n+1,
				ll, ll+n+1, ll+n)
		}
	}
	m, err := New(Planar2D, nodes, elements)
	if err != nil {
		panic(err)
	}
	return m
}

// UnitCube builds a single-cell unit cube split into 6 tetrahedra around
// the main diagonal.
func UnitCube() *Mesh {
	var (
		nodes = mat.NewDense(8, 3, []float64{
			0, 0, 0,
			1, 0, 0,
			1, 1, 0,
			0, 1, 0,
			0, 0, 1,
			1, 0, 1,
			1, 1, 1,
			0, 1, 1,
		})
		// Kuhn decomposition: every tet shares the 0-6 diagonal
		elements = utils.Index{
			0, 1, 2, 6,
			0, 2, 3, 6,
			0, 3, 7, 6,
			0, 7, 4, 6,
			0, 4, 5, 6,
			0, 5, 1, 6,
		}
	)
	m, err := New(Volume3D, nodes, elements)
	if err != nil {
		panic(err)
	}
	return m
}

// UnitIntervalNetwork builds an n-segment polyline along the x axis from 0
// to 1, embedded in the plane.
func UnitIntervalNetwork(n int) *Mesh {
	var (
		nodes    = mat.NewDense(n+1, 2, nil)
		elements utils.Index
		h        = 1 / float64(n)
	)
	for i := 0; i <= n; i++ {
		nodes.Set(i, 0, float64(i)*h)
	}
	for i := 0; i < n; i++ {
		elements = append(elements, i, i+1)
	}
	m, err := New(Network1D5, nodes, elements)
	if err != nil {
		panic(err)
	}
	return m
}

// TentSurface builds a 4-triangle pyramid surface (no base) over the unit
// square, embedded in 3-space.
func TentSurface() *Mesh {
	var (
		nodes = mat.NewDense(5, 3, []float64{
			0, 0, 0,
			1, 0, 0,
			1, 1, 0,
			0, 1, 0,
			0.5, 0.5, 0.5,
		})
		elements = utils.Index{
			0, 1, 4,
			1, 2, 4,
			2, 3, 4,
			3, 0, 4,
		}
	)
	m, err := New(Surface2D5, nodes, elements)
	if err != nil {
		panic(err)
	}
	return m
}
