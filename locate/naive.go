package locate

import (
	"fmt"

	"github.com/statfem/densinit/mesh"
)

// NaiveLocator scans all elements in order; first containment wins. No
// preprocessing, O(nElements) per query.
type NaiveLocator struct {
	m *mesh.Mesh
}

func NewNaive(m *mesh.Mesh) *NaiveLocator {
	return &NaiveLocator{m: m}
}

func (l *NaiveLocator) Locate(p []float64) (elem int, w []float64, err error) {
	var (
		nElem = l.m.NumElements()
	)
	for e := 0; e < nElem; e++ {
		if w, inside := l.m.BaryWeights(e, p); inside {
			return e, w, nil
		}
	}
	return -1, nil, fmt.Errorf("%w: %v", ErrPointOutsideMesh, p)
}
