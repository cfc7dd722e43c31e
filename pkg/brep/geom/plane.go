package geom

import (
	"gonum.org/v1/gonum/mat"

	"github.com/sawbench/lignin/pkg/brep"
)

// Plane implements brep.Surface for a finite-normal planar patch: the
// point at (u,v) is Origin + u*U + v*V. U and V need not be orthonormal,
// only linearly independent.
type Plane struct {
	Origin   brep.Vec3
	U, V     brep.Vec3
	reversed bool
}

var _ brep.Surface = Plane{}
var _ brep.ReversibleSurface = Plane{}

// PointAt evaluates the plane at (u,v).
func (p Plane) PointAt(u, v float64) brep.Vec3 {
	return p.Origin.Add(p.U.Scale(u)).Add(p.V.Scale(v))
}

// NormalAt returns U cross V, normalized, negated if the plane has been
// reversed.
func (p Plane) NormalAt(u, v float64) brep.Vec3 {
	n := p.U.Cross(p.V).Normalize()
	if p.reversed {
		return n.Scale(-1)
	}
	return n
}

// TangentsAt returns the plane's fixed basis vectors.
func (p Plane) TangentsAt(u, v float64) (tu, tv brep.Vec3) {
	return p.U, p.V
}

// ClosestPointTo solves the 2x2 normal-equations system for the (u,v)
// minimizing |PointAt(u,v) - pt|, via gonum.
func (p Plane) ClosestPointTo(pt brep.Vec3, hint *brep.UV) (brep.UV, bool) {
	d := pt.Sub(p.Origin)
	a := mat.NewDense(2, 2, []float64{
		p.U.Dot(p.U), p.U.Dot(p.V),
		p.U.Dot(p.V), p.V.Dot(p.V),
	})
	b := mat.NewVecDense(2, []float64{p.U.Dot(d), p.V.Dot(d)})

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		if hint != nil {
			return *hint, false
		}
		return brep.UV{}, false
	}
	return brep.UV{U: x.AtVec(0), V: x.AtVec(1)}, true
}

// PointOnSurfaces refines uv so PointAt(uv) lies simultaneously on p,
// other1, and other2, via three-surface Newton iteration.
func (p Plane) PointOnSurfaces(other1, other2 brep.Surface, uv *brep.UV) bool {
	x := p.PointAt(uv.U, uv.V)
	uv1, _ := other1.ClosestPointTo(x, nil)
	uv2, _ := other2.ClosestPointTo(x, nil)

	refined, ok := newtonRefine(x, [3]brep.Surface{p, other1, other2}, [3]brep.UV{*uv, uv1, uv2})
	if !ok {
		return false
	}
	newUV, converged := p.ClosestPointTo(refined, uv)
	if !converged {
		return false
	}
	*uv = newUV
	return true
}

// Reversed returns a copy of p with its outward normal flipped, used by
// the face trimmer to turn DIFFERENCE's subtracted solid inside out.
func (p Plane) Reversed() brep.Surface {
	r := p
	r.reversed = !r.reversed
	return r
}
