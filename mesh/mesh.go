package mesh

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/statfem/densinit/utils"
)

// Mesh is an immutable node/element collection for one of the four
// supported topologies. Elements is a flat index list with a fixed stride
// of Kind.NodesPerElement(). Derived structures (adjacency, operators) are
// built once on demand and shared read-only afterwards.
type Mesh struct {
	Kind     Kind
	Nodes    *mat.Dense  // nNodes x ambientDim
	Elements utils.Index // flattened, stride = NodesPerElement

	onceAdj sync.Once
	adj     utils.Index // nElements x NodesPerElement, -1 at boundary

	onceOps sync.Once
	mass    []float64 // lumped mass, one entry per node
	stiff   utils.CSR
}

func New(kind Kind, nodes *mat.Dense, elements utils.Index) (m *Mesh, err error) {
	if !kind.Valid() {
		err = fmt.Errorf("%w: kind tag %d", ErrUnsupportedMeshKind, kind)
		return
	}
	var (
		nNodes, dim = nodes.Dims()
		nv          = kind.NodesPerElement()
	)
	if dim != kind.AmbientDim() {
		err = fmt.Errorf("%s mesh requires %d coordinates per node, have %d",
			kind, kind.AmbientDim(), dim)
		return
	}
	if len(elements) == 0 || len(elements)%nv != 0 {
		err = fmt.Errorf("element list length %d is not a positive multiple of %d",
			len(elements), nv)
		return
	}
	for _, n := range elements {
		if n < 0 || n > nNodes-1 {
			err = fmt.Errorf("element node index %d out of range [0,%d)", n, nNodes)
			return
		}
	}
	m = &Mesh{
		Kind:  kind,
		Nodes: nodes,
		// private copy, the lazily built adjacency and operators must not
		// see later caller mutation
		Elements: elements.Copy(),
	}
	return
}

func (m *Mesh) NumNodes() int {
	n, _ := m.Nodes.Dims()
	return n
}

func (m *Mesh) NumElements() int {
	return len(m.Elements) / m.Kind.NodesPerElement()
}

// ElemNodes returns the node indices of element e as a view into Elements.
func (m *Mesh) ElemNodes(e int) utils.Index {
	var (
		nv = m.Kind.NodesPerElement()
	)
	return m.Elements[e*nv : (e+1)*nv]
}

// NodeCoords returns the coordinates of node n as a view into Nodes.
func (m *Mesh) NodeCoords(n int) []float64 {
	return m.Nodes.RawRowView(n)
}

// Centroid computes the arithmetic mean of element e's node coordinates.
func (m *Mesh) Centroid(e int) (c []float64) {
	var (
		verts = m.ElemNodes(e)
		dim   = m.Kind.AmbientDim()
	)
	c = make([]float64, dim)
	for _, n := range verts {
		x := m.NodeCoords(n)
		for d := 0; d < dim; d++ {
			c[d] += x[d]
		}
	}
	for d := 0; d < dim; d++ {
		c[d] /= float64(len(verts))
	}
	return
}
