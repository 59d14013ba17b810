package locate

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statfem/densinit/mesh"
)

func TestParseStrategy(t *testing.T) {
	for s, want := range map[string]Strategy{
		"naive":   Naive,
		"tree":    Tree,
		"walking": Walking,
	} {
		st, err := ParseStrategy(s)
		assert.NoError(t, err)
		assert.Equal(t, want, st)
	}
	_, err := ParseStrategy("quadtree")
	assert.ErrorIs(t, err, ErrInvalidSearchStrategy)
}

func TestWalkingUnavailable(t *testing.T) {
	{
		_, err := New(Walking, mesh.UnitIntervalNetwork(4))
		assert.ErrorIs(t, err, ErrUnsupportedSearch)
	}
	{
		_, err := New(Walking, mesh.TentSurface())
		assert.ErrorIs(t, err, ErrUnsupportedSearch)
	}
	{
		_, err := New(Walking, mesh.UnitSquareGrid(4))
		assert.NoError(t, err)
	}
}

func TestOutsideMesh(t *testing.T) {
	m := mesh.UnitSquare()
	for _, st := range []Strategy{Naive, Tree, Walking} {
		l, err := New(st, m)
		require.NoError(t, err)
		_, _, err = l.Locate([]float64{2, 2})
		assert.ErrorIs(t, err, ErrPointOutsideMesh, st.String())
	}
}

// randomInterior draws a point strictly inside a random element of m, by
// sampling interior barycentric weights.
func randomInterior(rnd *rand.Rand, m *mesh.Mesh) (e int, p []float64) {
	var (
		nv  = m.Kind.NodesPerElement()
		dim = m.Kind.AmbientDim()
		w   = make([]float64, nv)
		sum float64
	)
	e = rnd.Intn(m.NumElements())
	for i := range w {
		w[i] = 0.1 + rnd.Float64()
		sum += w[i]
	}
	p = make([]float64, dim)
	for i, n := range m.ElemNodes(e) {
		x := m.NodeCoords(n)
		for d := 0; d < dim; d++ {
			p[d] += w[i] / sum * x[d]
		}
	}
	return
}

func TestStrategyEquivalence(t *testing.T) {
	var (
		rnd    = rand.New(rand.NewSource(42))
		meshes = []*mesh.Mesh{
			mesh.UnitSquareGrid(6),
			mesh.UnitCube(),
			mesh.TentSurface(),
			mesh.UnitIntervalNetwork(8),
		}
	)
	for _, m := range meshes {
		var locators []Locator
		locators = append(locators, NewNaive(m), NewTree(m))
		if m.Kind.SupportsWalking() {
			locators = append(locators, NewWalking(m))
		}
		for trial := 0; trial < 200; trial++ {
			want, p := randomInterior(rnd, m)
			for _, l := range locators {
				e, w, err := l.Locate(p)
				require.NoError(t, err, "%s kind %s", p, m.Kind)
				assert.Equal(t, want, e)
				var sum float64
				for _, wi := range w {
					sum += wi
				}
				assert.InDelta(t, 1, sum, 1.e-10)
			}
		}
	}
}

func TestStrategiesAgreeOutside(t *testing.T) {
	var (
		rnd = rand.New(rand.NewSource(7))
		m   = mesh.UnitSquareGrid(5)
	)
	locators := []Locator{NewNaive(m), NewTree(m), NewWalking(m)}
	for trial := 0; trial < 200; trial++ {
		p := []float64{rnd.Float64()*3 - 1, rnd.Float64()*3 - 1}
		_, _, err0 := locators[0].Locate(p)
		for _, l := range locators[1:] {
			_, _, err := l.Locate(p)
			assert.Equal(t, err0 == nil, err == nil)
			if err != nil {
				assert.True(t, errors.Is(err, ErrPointOutsideMesh))
			}
		}
	}
}

func TestWalkingSeedReuse(t *testing.T) {
	var (
		m = mesh.UnitSquareGrid(8)
		l = NewWalking(m)
	)
	// a coherent sweep across the mesh keeps hitting via short walks
	for i := 0; i < 50; i++ {
		x := 0.01 + 0.98*float64(i)/49
		e, _, err := l.Locate([]float64{x, 0.5})
		assert.NoError(t, err)
		w, inside := m.BaryWeights(e, []float64{x, 0.5})
		assert.True(t, inside)
		_ = w
	}
}
