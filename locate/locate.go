// Package locate maps query points to the mesh element containing them.
// Three interchangeable strategies are provided; all return the same
// element (or the same outside-mesh failure) for the same input.
package locate

import (
	"errors"
	"fmt"

	"github.com/statfem/densinit/mesh"
)

var (
	// ErrPointOutsideMesh reports a query point contained by no element.
	// Per-point and non-fatal: callers count and skip.
	ErrPointOutsideMesh = errors.New("point outside mesh")

	// ErrInvalidSearchStrategy reports an unrecognized strategy name.
	ErrInvalidSearchStrategy = errors.New("invalid search strategy")

	// ErrUnsupportedSearch reports a strategy unavailable on the mesh kind.
	ErrUnsupportedSearch = errors.New("search strategy unsupported for mesh kind")
)

type Strategy uint8

// Tree is the zero value on purpose: it is the default strategy, so an
// unset configuration field selects it.
const (
	Tree Strategy = iota
	Naive
	Walking
)

func ParseStrategy(s string) (st Strategy, err error) {
	switch s {
	case "naive":
		st = Naive
	case "tree":
		st = Tree
	case "walking":
		st = Walking
	default:
		err = fmt.Errorf("%w: %q", ErrInvalidSearchStrategy, s)
	}
	return
}

func (st Strategy) String() string {
	switch st {
	case Naive:
		return "naive"
	case Tree:
		return "tree"
	case Walking:
		return "walking"
	}
	return fmt.Sprintf("Strategy(%d)", uint8(st))
}

// SupportedOn reports whether the strategy is available on the mesh kind.
// Only the walking strategy is restricted.
func (st Strategy) SupportedOn(k mesh.Kind) bool {
	return st != Walking || k.SupportsWalking()
}

// Locator finds the element containing a point and the point's barycentric
// weights within it. Locate returns ErrPointOutsideMesh when no element
// contains p. Implementations are safe for concurrent use except Walking,
// which keeps a seed element between queries.
type Locator interface {
	Locate(p []float64) (elem int, w []float64, err error)
}

// New builds a locator of the given strategy over m.
func New(st Strategy, m *mesh.Mesh) (l Locator, err error) {
	if !st.SupportedOn(m.Kind) {
		err = fmt.Errorf("%w: %s on %s", ErrUnsupportedSearch, st, m.Kind)
		return
	}
	switch st {
	case Naive:
		l = NewNaive(m)
	case Tree:
		l = NewTree(m)
	case Walking:
		l = NewWalking(m)
	default:
		err = fmt.Errorf("%w: %d", ErrInvalidSearchStrategy, st)
	}
	return
}
