package locate

import (
	"container/heap"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/statfem/densinit/mesh"
)

// TreeLocator indexes element centroids in a k-d tree, then containment-tests
// candidates in order of centroid distance, widening the candidate set until
// a hit or until every element has been examined. Agrees with NaiveLocator
// on any contained point. Safe for concurrent queries once built.
type TreeLocator struct {
	m    *mesh.Mesh
	tree *kdtree.Tree
}

// centroid is an element centroid in the k-d tree, carrying its element
// index along.
type centroid struct {
	x    [3]float64
	dims int
	elem int
}

func (c centroid) Compare(o kdtree.Comparable, d kdtree.Dim) float64 {
	q := o.(centroid)
	return c.x[d] - q.x[d]
}

func (c centroid) Dims() int { return c.dims }

func (c centroid) Distance(o kdtree.Comparable) float64 {
	q := o.(centroid)
	var s float64
	for d := 0; d < c.dims; d++ {
		dd := c.x[d] - q.x[d]
		s += dd * dd
	}
	return s
}

// centroids satisfies kdtree.Interface.
type centroids []centroid

func (cs centroids) Index(i int) kdtree.Comparable { return cs[i] }
func (cs centroids) Len() int                      { return len(cs) }
func (cs centroids) Slice(start, end int) kdtree.Interface {
	return cs[start:end]
}
func (cs centroids) Pivot(d kdtree.Dim) int {
	p := centroidPlane{centroids: cs, Dim: d}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

// centroidPlane satisfies sort.Interface and kdtree.SortSlicer along one
// dimension.
type centroidPlane struct {
	centroids
	kdtree.Dim
}

func (p centroidPlane) Less(i, j int) bool {
	return p.centroids[i].x[p.Dim] < p.centroids[j].x[p.Dim]
}
func (p centroidPlane) Slice(start, end int) kdtree.SortSlicer {
	return centroidPlane{centroids: p.centroids[start:end], Dim: p.Dim}
}
func (p centroidPlane) Swap(i, j int) {
	p.centroids[i], p.centroids[j] = p.centroids[j], p.centroids[i]
}

var _ sort.Interface = centroidPlane{}

func NewTree(m *mesh.Mesh) *TreeLocator {
	var (
		nElem = m.NumElements()
		dims  = m.Kind.AmbientDim()
		cs    = make(centroids, nElem)
	)
	for e := 0; e < nElem; e++ {
		c := centroid{dims: dims, elem: e}
		copy(c.x[:], m.Centroid(e))
		cs[e] = c
	}
	return &TreeLocator{
		m:    m,
		tree: kdtree.New(cs, true),
	}
}

func (l *TreeLocator) Locate(p []float64) (elem int, w []float64, err error) {
	var (
		nElem = l.m.NumElements()
		q     = centroid{dims: l.m.Kind.AmbientDim()}
		seen  = make(map[int]bool)
	)
	copy(q.x[:], p)
	for k := 8; ; k *= 2 {
		if k > nElem {
			k = nElem
		}
		keeper := kdtree.NewNKeeper(k)
		l.tree.NearestSet(keeper, q)
		for keeper.Len() > 0 {
			item := heap.Pop(keeper).(kdtree.ComparableDist)
			c, ok := item.Comparable.(centroid)
			if !ok || seen[c.elem] {
				continue
			}
			seen[c.elem] = true
			if w, inside := l.m.BaryWeights(c.elem, p); inside {
				return c.elem, w, nil
			}
		}
		if k == nElem {
			break
		}
	}
	return -1, nil, fmt.Errorf("%w: %v", ErrPointOutsideMesh, p)
}
