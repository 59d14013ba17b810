package mesh

import (
	"fmt"
	"sort"

	"github.com/statfem/densinit/utils"
)

// Adjacency returns the element-to-element connectivity across shared
// facets. Entry e*nv+i is the element sharing the facet opposite local
// node i of element e, or -1 on the boundary. Built once, shared read-only.
func (m *Mesh) Adjacency() utils.Index {
	m.onceAdj.Do(m.buildAdjacency)
	return m.adj
}

// Neighbor returns the element across the facet opposite local node i of
// element e, or -1 at the boundary.
func (m *Mesh) Neighbor(e, i int) int {
	return m.Adjacency()[e*m.Kind.NodesPerElement()+i]
}

type facetKey [3]int // padded with -1 for segments/triangles

func (m *Mesh) buildAdjacency() {
	var (
		nv    = m.Kind.NodesPerElement()
		nElem = m.NumElements()
		owner = make(map[facetKey][2]int) // facet -> (element, local opposite node)
	)
	m.adj = utils.NewIndex(nElem * nv)
	for i := range m.adj {
		m.adj[i] = -1
	}
	for e := 0; e < nElem; e++ {
		verts := m.ElemNodes(e)
		for i := 0; i < nv; i++ {
			key := oppositeFacet(verts, i)
			if prev, found := owner[key]; found {
				m.adj[e*nv+i] = prev[0]
				m.adj[prev[0]*nv+prev[1]] = e
				delete(owner, key)
				continue
			}
			owner[key] = [2]int{e, i}
		}
	}
}

// oppositeFacet builds a canonical key for the facet of verts that excludes
// local node i: the remaining node indices, sorted, padded with -1.
func oppositeFacet(verts []int, i int) (key facetKey) {
	var (
		facet = make([]int, 0, 3)
	)
	for j, n := range verts {
		if j != i {
			facet = append(facet, n)
		}
	}
	sort.Ints(facet)
	key = facetKey{-1, -1, -1}
	if len(facet) > 3 {
		panic(fmt.Errorf("facet of %d nodes exceeds key capacity", len(facet)))
	}
	copy(key[:], facet)
	return
}
