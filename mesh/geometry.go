package mesh

import (
	"math"
)

// Containment tolerance on barycentric coordinates, and on the off-manifold
// distance relative to element size for embedded elements.
const geomTol = 1.e-10

// BaryWeights computes the barycentric (linear basis) weights of point p
// with respect to element e's nodes, and whether p lies inside the element.
// For embedded elements (Surface2.5D triangles, Network1.5D segments) p is
// first projected onto the element's supporting plane/line; containment
// additionally requires the projection distance to be negligible relative
// to the element diameter.
//
// The weights are always returned, inside or not: the walking locator steps
// across the face of the most negative weight.
func (m *Mesh) BaryWeights(e int, p []float64) (w []float64, inside bool) {
	switch m.Kind {
	case Planar2D:
		return m.baryTri2D(e, p)
	case Surface2D5:
		return m.baryTri3D(e, p)
	case Volume3D:
		return m.baryTet(e, p)
	case Network1D5:
		return m.barySegment(e, p)
	}
	panic("invalid mesh kind")
}

func (m *Mesh) baryTri2D(e int, p []float64) (w []float64, inside bool) {
	var (
		verts    = m.ElemNodes(e)
		a        = m.NodeCoords(verts[0])
		b        = m.NodeCoords(verts[1])
		c        = m.NodeCoords(verts[2])
		d1x, d1y = b[0] - a[0], b[1] - a[1]
		d2x, d2y = c[0] - a[0], c[1] - a[1]
		px, py   = p[0] - a[0], p[1] - a[1]
		det      = d1x*d2y - d2x*d1y
	)
	u := (px*d2y - py*d2x) / det
	v := (py*d1x - px*d1y) / det
	w = []float64{1 - u - v, u, v}
	inside = u >= -geomTol && v >= -geomTol && u+v <= 1+geomTol
	return
}

func (m *Mesh) baryTri3D(e int, p []float64) (w []float64, inside bool) {
	var (
		verts = m.ElemNodes(e)
		a     = m.NodeCoords(verts[0])
		b     = m.NodeCoords(verts[1])
		c     = m.NodeCoords(verts[2])
		e1    = sub3(b, a)
		e2    = sub3(c, a)
		d     = sub3(p, a)
	)
	// Gram system for the in-plane components of d
	var (
		g11 = dot3(e1, e1)
		g12 = dot3(e1, e2)
		g22 = dot3(e2, e2)
		r1  = dot3(e1, d)
		r2  = dot3(e2, d)
		det = g11*g22 - g12*g12
	)
	u := (g22*r1 - g12*r2) / det
	v := (g11*r2 - g12*r1) / det
	w = []float64{1 - u - v, u, v}
	// off-plane residual scaled by element size
	var res [3]float64
	for i := 0; i < 3; i++ {
		res[i] = d[i] - u*e1[i] - v*e2[i]
	}
	diam2 := math.Max(g11, g22)
	offPlane := dot3(res[:], res[:]) > geomTol*diam2
	inside = !offPlane && u >= -geomTol && v >= -geomTol && u+v <= 1+geomTol
	return
}

func (m *Mesh) baryTet(e int, p []float64) (w []float64, inside bool) {
	var (
		verts = m.ElemNodes(e)
		a     = m.NodeCoords(verts[0])
		b     = m.NodeCoords(verts[1])
		c     = m.NodeCoords(verts[2])
		d     = m.NodeCoords(verts[3])
		e1    = sub3(b, a)
		e2    = sub3(c, a)
		e3    = sub3(d, a)
		r     = sub3(p, a)
	)
	// Cramer solve of [e1 e2 e3] [u v t]' = r
	det := triple(e1, e2, e3)
	u := triple(r, e2, e3) / det
	v := triple(e1, r, e3) / det
	t := triple(e1, e2, r) / det
	w = []float64{1 - u - v - t, u, v, t}
	inside = true
	for _, wi := range w {
		if wi < -geomTol {
			inside = false
			break
		}
	}
	return
}

func (m *Mesh) barySegment(e int, p []float64) (w []float64, inside bool) {
	var (
		verts  = m.ElemNodes(e)
		a      = m.NodeCoords(verts[0])
		b      = m.NodeCoords(verts[1])
		dx, dy = b[0] - a[0], b[1] - a[1]
		px, py = p[0] - a[0], p[1] - a[1]
		len2   = dx*dx + dy*dy
	)
	t := (px*dx + py*dy) / len2
	w = []float64{1 - t, t}
	// perpendicular residual scaled by segment length
	rx, ry := px-t*dx, py-t*dy
	offLine := rx*rx+ry*ry > geomTol*len2
	inside = !offLine && t >= -geomTol && t <= 1+geomTol
	return
}

func sub3(a, b []float64) (c []float64) {
	c = make([]float64, len(a))
	for i := range a {
		c[i] = a[i] - b[i]
	}
	return
}

func dot3(a, b []float64) (s float64) {
	for i := range a {
		s += a[i] * b[i]
	}
	return
}

func cross3(a, b []float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func triple(a, b, c []float64) float64 {
	x := cross3(b, c)
	return dot3(a, x[:])
}
