package mesh

import (
	"errors"
	"fmt"
)

// ErrUnsupportedMeshKind reports a mesh outside the closed set of four
// supported topologies.
var ErrUnsupportedMeshKind = errors.New("unsupported mesh kind")

// Kind tags one of the four supported mesh topologies. The set is closed:
// every geometric routine downstream switches exhaustively on it.
type Kind uint8

const (
	Planar2D  Kind = iota // triangles in the plane
	Surface2D5             // triangles embedded in 3-space
	Volume3D               // tetrahedra in 3-space
	Network1D5             // segments in the plane (linear network)
)

var kindDims = [...][2]int{
	Planar2D:   {2, 2},
	Surface2D5: {3, 2},
	Volume3D:   {3, 3},
	Network1D5: {2, 1},
}

// KindFromDims resolves the (ambient, intrinsic) pair against the fixed
// topology table.
func KindFromDims(ambient, intrinsic int) (k Kind, err error) {
	for kk, d := range kindDims {
		if d[0] == ambient && d[1] == intrinsic {
			return Kind(kk), nil
		}
	}
	err = fmt.Errorf("%w: ambient dim %d, intrinsic dim %d", ErrUnsupportedMeshKind, ambient, intrinsic)
	return
}

func (k Kind) Valid() bool { return int(k) < len(kindDims) }

func (k Kind) AmbientDim() int   { return kindDims[k][0] }
func (k Kind) IntrinsicDim() int { return kindDims[k][1] }

// NodesPerElement is fixed by the intrinsic dimension: 2 for segments,
// 3 for triangles, 4 for tetrahedra.
func (k Kind) NodesPerElement() int { return kindDims[k][1] + 1 }

// SupportsWalking reports whether the greedy walking locate strategy is
// well defined on this topology. Adjacency along an embedded surface or a
// network branch does not orient the greedy step, so those two are out.
func (k Kind) SupportsWalking() bool {
	return k == Planar2D || k == Volume3D
}

func (k Kind) String() string {
	switch k {
	case Planar2D:
		return "Planar2D"
	case Surface2D5:
		return "Surface2.5D"
	case Volume3D:
		return "Volume3D"
	case Network1D5:
		return "Network1.5D"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}
