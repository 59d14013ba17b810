package mesh

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/statfem/densinit/utils"
)

// Operators returns the lumped mass vector M (one weight per node) and the
// stiffness matrix K for piecewise-linear basis functions on the mesh.
// K_ij = integral of grad(phi_i) . grad(phi_j) over the elements; M_i is the
// row-sum-lumped basis mass. Assembled once, shared read-only afterwards.
func (m *Mesh) Operators() (mass []float64, stiff utils.CSR) {
	m.onceOps.Do(m.assembleOperators)
	return m.mass, m.stiff
}

// Integral computes the discrete integral of a nodal field v against the
// lumped mass, i.e. sum_i M_i v_i.
func (m *Mesh) Integral(v *mat.VecDense) (s float64) {
	mass, _ := m.Operators()
	vd := v.RawVector().Data
	for i, mi := range mass {
		s += mi * vd[i]
	}
	return
}

func (m *Mesh) assembleOperators() {
	var (
		nNodes = m.NumNodes()
		nElem  = m.NumElements()
		K      = utils.NewDOK(nNodes, nNodes)
	)
	m.mass = make([]float64, nNodes)
	for e := 0; e < nElem; e++ {
		verts := m.ElemNodes(e)
		measure, kLocal := m.localStiffness(e)
		lump := measure / float64(len(verts))
		for i, ni := range verts {
			m.mass[ni] += lump
			for j, nj := range verts {
				K.Accumulate(ni, nj, kLocal[i][j])
			}
		}
	}
	m.stiff = K.ToCSR()
}

// localStiffness returns the element measure (length/area/volume) and the
// local stiffness block for element e.
func (m *Mesh) localStiffness(e int) (measure float64, k [][]float64) {
	switch m.Kind {
	case Network1D5:
		return m.segmentStiffness(e)
	case Planar2D, Surface2D5:
		return m.triangleStiffness(e)
	case Volume3D:
		return m.tetStiffness(e)
	}
	panic("invalid mesh kind")
}

func (m *Mesh) segmentStiffness(e int) (length float64, k [][]float64) {
	var (
		verts = m.ElemNodes(e)
		a     = m.NodeCoords(verts[0])
		b     = m.NodeCoords(verts[1])
	)
	length = math.Hypot(b[0]-a[0], b[1]-a[1])
	c := 1 / length
	k = [][]float64{
		{c, -c},
		{-c, c},
	}
	return
}

// triangleStiffness uses the cotangent formula, valid for triangles both in
// the plane and embedded in 3-space: K_ij = -cot(angle opposite edge ij)/2.
func (m *Mesh) triangleStiffness(e int) (area float64, k [][]float64) {
	var (
		verts = m.ElemNodes(e)
		x     [3][]float64
		cot   [3]float64
	)
	for i := 0; i < 3; i++ {
		x[i] = m.NodeCoords(verts[i])
	}
	e0 := sub3(x[2], x[1])
	e1 := sub3(x[0], x[2])
	e2 := sub3(x[1], x[0])
	var twoA float64
	if m.Kind == Planar2D {
		twoA = math.Abs(e1[0]*e2[1] - e1[1]*e2[0])
	} else {
		cr := cross3(e1, e2)
		twoA = math.Sqrt(dot3(cr[:], cr[:]))
	}
	area = twoA / 2
	cot[0] = -dot3(e1, e2) / twoA
	cot[1] = -dot3(e2, e0) / twoA
	cot[2] = -dot3(e0, e1) / twoA
	k = [][]float64{
		{(cot[1] + cot[2]) / 2, -cot[2] / 2, -cot[1] / 2},
		{-cot[2] / 2, (cot[2] + cot[0]) / 2, -cot[0] / 2},
		{-cot[1] / 2, -cot[0] / 2, (cot[0] + cot[1]) / 2},
	}
	return
}

func (m *Mesh) tetStiffness(e int) (volume float64, k [][]float64) {
	var (
		verts = m.ElemNodes(e)
		a     = m.NodeCoords(verts[0])
		J     = mat.NewDense(3, 3, nil)
	)
	for col, vi := range verts[1:] {
		x := m.NodeCoords(vi)
		for row := 0; row < 3; row++ {
			J.Set(row, col, x[row]-a[row])
		}
	}
	volume = math.Abs(mat.Det(J)) / 6
	var Jinv mat.Dense
	if err := Jinv.Inverse(J); err != nil {
		panic(err)
	}
	// gradients of the barycentric coordinates: rows of J^-1 for nodes
	// 1..3, and minus their sum for node 0
	var grads [4][3]float64
	for i := 1; i < 4; i++ {
		for d := 0; d < 3; d++ {
			grads[i][d] = Jinv.At(i-1, d)
			grads[0][d] -= Jinv.At(i-1, d)
		}
	}
	k = make([][]float64, 4)
	for i := 0; i < 4; i++ {
		k[i] = make([]float64, 4)
		for j := 0; j < 4; j++ {
			k[i][j] = volume * dot3(grads[i][:], grads[j][:])
		}
	}
	return
}
