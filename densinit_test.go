package densinit

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/statfem/densinit/locate"
	"github.com/statfem/densinit/mesh"
)

func near(a, b float64) (l bool) {
	if math.Abs(a-b) < 1.e-08*(math.Abs(a)+1) {
		l = true
	}
	return
}

func TestParseMode(t *testing.T) {
	for s, want := range map[string]Mode{
		"Heat": Heat, "heat": Heat, "CV": CV, "cv": CV,
	} {
		mode, err := ParseMode(s)
		assert.NoError(t, err)
		assert.Equal(t, want, mode)
	}
	_, err := ParseMode("bootstrap")
	assert.ErrorIs(t, err, ErrInvalidInitMode)
}

func TestInitializeHeatPerKind(t *testing.T) {
	var (
		ctx    = context.Background()
		points = map[mesh.Kind]*mat.Dense{
			mesh.Planar2D:   mat.NewDense(2, 2, []float64{0.3, 0.3, 0.6, 0.5}),
			mesh.Volume3D:   mat.NewDense(2, 3, []float64{0.3, 0.3, 0.3, 0.6, 0.5, 0.4}),
			mesh.Surface2D5: mat.NewDense(1, 3, []float64{0.5, 0.25, 0.25}),
			mesh.Network1D5: mat.NewDense(2, 2, []float64{0.3, 0, 0.7, 0}),
		}
		meshes = []*mesh.Mesh{
			mesh.UnitSquareGrid(5),
			mesh.UnitCube(),
			mesh.TentSurface(),
			mesh.UnitIntervalNetwork(8),
		}
	)
	for _, m := range meshes {
		fields, err := Initialize(ctx, m, points[m.Kind], Config{
			Lambda:   []float64{0.1},
			HeatStep: 0.001,
			HeatIter: 50,
		})
		require.NoError(t, err, m.Kind.String())
		require.Len(t, fields, 1)
		assert.Equal(t, m.NumNodes(), fields[0].Values.Len())
		assert.True(t, near(m.Integral(fields[0].Values), 1), m.Kind.String())
		for i := 0; i < fields[0].Values.Len(); i++ {
			assert.True(t, fields[0].Values.AtVec(i) >= 0)
		}
	}
}

func TestInitializeLambdaOrder(t *testing.T) {
	var (
		m       = mesh.UnitSquareGrid(5)
		points  = mat.NewDense(1, 2, []float64{0.5, 0.5})
		lambdas = []float64{0.4, 0.1, 0.9}
	)
	fields, err := Initialize(context.Background(), m, points, Config{
		Lambda:   lambdas,
		HeatStep: 0.001,
		HeatIter: 20,
	})
	require.NoError(t, err)
	require.Len(t, fields, 3)
	for i, f := range fields {
		assert.Equal(t, lambdas[i], f.Lambda)
	}
}

func TestInitializeCV(t *testing.T) {
	var (
		m      = mesh.UnitSquareGrid(5)
		points = mat.NewDense(12, 2, nil)
	)
	for i := 0; i < 12; i++ {
		points.Set(i, 0, 0.5+0.01*float64(i%3))
		points.Set(i, 1, 0.5-0.01*float64(i%4))
	}
	fields, err := Initialize(context.Background(), m, points, Config{
		Lambda:   []float64{0.01, 5},
		HeatStep: 0.001,
		HeatIter: 100,
		Mode:     CV,
		NFolds:   3,
	})
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, 0.01, fields[0].Lambda)
}

func TestInitializeConfigErrors(t *testing.T) {
	var (
		ctx    = context.Background()
		m      = mesh.UnitSquareGrid(4)
		points = mat.NewDense(1, 2, []float64{0.5, 0.5})
	)
	{ // no lambda
		_, err := Initialize(ctx, m, points, Config{})
		assert.Error(t, err)
	}
	{ // negative lambda
		_, err := Initialize(ctx, m, points, Config{Lambda: []float64{-1}})
		assert.Error(t, err)
	}
	{ // CV needs at least 2 folds
		_, err := Initialize(ctx, m, points, Config{
			Lambda: []float64{0.1},
			Mode:   CV,
			NFolds: 1,
		})
		assert.Error(t, err)
	}
	{ // unknown mode
		_, err := Initialize(ctx, m, points, Config{
			Lambda: []float64{0.1},
			Mode:   Mode(9),
		})
		assert.ErrorIs(t, err, ErrInvalidInitMode)
	}
}

// A zero iteration count selects the default; the raw injected field is
// reached with a zero smoothing parameter instead.
func TestInitializeHeatIterDefault(t *testing.T) {
	var (
		ctx    = context.Background()
		m      = mesh.UnitSquareGrid(5)
		points = mat.NewDense(1, 2, []float64{0.5, 0.5})
	)
	def, err := Initialize(ctx, m, points, Config{Lambda: []float64{0}})
	require.NoError(t, err)
	one, err := Initialize(ctx, m, points, Config{
		Lambda:   []float64{0},
		HeatIter: 1,
	})
	require.NoError(t, err)
	assert.True(t, mat.Equal(def[0].Values, one[0].Values))
	assert.True(t, near(m.Integral(def[0].Values), 1))
}

func TestWalkingRejectedBeforeComputation(t *testing.T) {
	var (
		m      = mesh.UnitIntervalNetwork(4)
		points = mat.NewDense(1, 2, []float64{0.5, 0})
	)
	_, err := Initialize(context.Background(), m, points, Config{
		Lambda: []float64{0.1},
		Search: locate.Walking,
	})
	assert.ErrorIs(t, err, ErrUnsupportedSearch)
}
