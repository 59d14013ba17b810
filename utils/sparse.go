package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

type DOK struct {
	M *sparse.DOK
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{sparse.NewDOK(nr, nc)}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)              { return m.M.Dims() }
func (m DOK) At(i, j int) float64           { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix                 { return m.M.T() }
func (m DOK) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }

func (m DOK) Set(i, j, val float64) {
	var (
		nr, nc = m.Dims()
		iI, jI = int(i), int(j)
	)
	if iI < 0 || iI > nr-1 || jI < 0 || jI > nc-1 {
		panic(fmt.Errorf("index out of bounds: i, j = %d, %d, bounds = %d, %d", iI, jI, nr, nc))
	}
	m.M.Set(iI, jI, val)
}

// Accumulate adds val into entry (i,j). DOK stores explicit zeros, so this
// is safe for repeated element-assembly contributions.
func (m DOK) Accumulate(i, j int, val float64) {
	m.M.Set(i, j, m.M.At(i, j)+val)
}

func (m DOK) ToCSR() CSR {
	return CSR{m.M.ToCSR()}
}

type CSR struct {
	M *sparse.CSR
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)              { return m.M.Dims() }
func (m CSR) At(i, j int) float64           { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix                 { return m.M.T() }
func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }

// MulVecTo computes out = M*v without allocating. len(out) and v.Len()
// must match the receiver's dimensions.
func (m CSR) MulVecTo(out []float64, v *mat.VecDense) {
	var (
		nr, nc = m.Dims()
	)
	if v.Len() != nc || len(out) != nr {
		panic(fmt.Errorf("dimension mismatch: matrix %dx%d, vec %d, out %d", nr, nc, v.Len(), len(out)))
	}
	for i := range out {
		out[i] = 0
	}
	vd := v.RawVector().Data
	m.M.DoNonZero(func(i, j int, val float64) {
		out[i] += val * vd[j]
	})
}
