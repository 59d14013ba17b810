package mesh

import (
	"fmt"

	"github.com/pradeep-pyro/triangle"
	"gonum.org/v1/gonum/mat"

	"github.com/statfem/densinit/utils"
)

// DelaunayPlanar triangulates a scattered planar point set into a Planar2D
// mesh. Useful when only observation locations are available and no mesh
// has been constructed externally.
func DelaunayPlanar(x, y []float64) (m *Mesh, err error) {
	if len(x) != len(y) {
		err = fmt.Errorf("coordinate lengths differ: %d vs %d", len(x), len(y))
		return
	}
	if len(x) < 3 {
		err = fmt.Errorf("need at least 3 points to triangulate, have %d", len(x))
		return
	}
	var (
		pts   = make([][2]float64, len(x))
		nodes = mat.NewDense(len(x), 2, nil)
	)
	for i := range x {
		pts[i] = [2]float64{x[i], y[i]}
		nodes.Set(i, 0, x[i])
		nodes.Set(i, 1, y[i])
	}
	faces := triangle.Delaunay(pts)
	if len(faces) == 0 {
		err = fmt.Errorf("degenerate point set: triangulation produced no elements")
		return
	}
	elements := make(utils.Index, 0, 3*len(faces))
	for _, f := range faces {
		elements = append(elements, int(f[0]), int(f[1]), int(f[2]))
	}
	return New(Planar2D, nodes, elements)
}
