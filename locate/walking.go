package locate

import (
	"fmt"
	"sync"

	"github.com/statfem/densinit/mesh"
)

// WalkingLocator steps between adjacent elements toward the query point:
// when the point is not contained, the walk crosses the facet of the most
// negative barycentric coordinate. The previous hit seeds the next query,
// which makes coherent query sequences (nearby points in order) cheap.
// Available on Planar2D and Volume3D only. The seed is mutex-guarded so the
// locator can be shared by concurrent diffusion runs.
type WalkingLocator struct {
	m    *mesh.Mesh
	mu   sync.Mutex
	seed int
}

func NewWalking(m *mesh.Mesh) *WalkingLocator {
	if !m.Kind.SupportsWalking() {
		panic(fmt.Errorf("%w: walking on %s", ErrUnsupportedSearch, m.Kind))
	}
	m.Adjacency() // build eagerly, the walk needs it on the first query
	return &WalkingLocator{m: m}
}

func (l *WalkingLocator) Locate(p []float64) (elem int, w []float64, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var (
		nElem   = l.m.NumElements()
		e       = l.seed
		visited = make(map[int]bool)
	)
	for !visited[e] {
		visited[e] = true
		ww, inside := l.m.BaryWeights(e, p)
		if inside {
			l.seed = e
			return e, ww, nil
		}
		next := -1
		worst := 0.0
		for i, wi := range ww {
			if wi < worst {
				if n := l.m.Neighbor(e, i); n >= 0 {
					worst = wi
					next = n
				}
			}
		}
		if next < 0 {
			// most negative direction exits the boundary
			break
		}
		e = next
	}
	// The greedy walk can stall on non-convex meshes without the point
	// being outside; a full scan settles it either way.
	for e = 0; e < nElem; e++ {
		if ww, inside := l.m.BaryWeights(e, p); inside {
			l.seed = e
			return e, ww, nil
		}
	}
	return -1, nil, fmt.Errorf("%w: %v", ErrPointOutsideMesh, p)
}
