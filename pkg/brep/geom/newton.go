package geom

import (
	"gonum.org/v1/gonum/mat"

	"github.com/sawbench/lignin/pkg/brep"
)

// newtonIterations bounds the three-surface refinement loop. Each
// surface is locally linearized at the current guess's closest uv, so a
// plane-plane-plane system converges in one step; a curved surface
// needs a handful more.
const newtonIterations = 12

// newtonTolerance is the xyz step length below which the refinement is
// considered converged.
const newtonTolerance = 1e-10

// newtonRefine finds the point x lying simultaneously on all three
// surfaces, starting from x with surfs[i] currently evaluated at
// uvs[i]. At each iteration every surface is linearized as the tangent
// plane at its current closest point, and the resulting 3x3 system
// (one plane equation per surface) is solved for the next x via gonum.
func newtonRefine(x brep.Vec3, surfs [3]brep.Surface, uvs [3]brep.UV) (brep.Vec3, bool) {
	cur := uvs
	for iter := 0; iter < newtonIterations; iter++ {
		a := mat.NewDense(3, 3, nil)
		b := mat.NewVecDense(3, nil)
		for i, s := range surfs {
			p := s.PointAt(cur[i].U, cur[i].V)
			n := s.NormalAt(cur[i].U, cur[i].V)
			a.SetRow(i, []float64{n.X, n.Y, n.Z})
			b.SetVec(i, n.Dot(p))
		}

		var next mat.VecDense
		if err := next.SolveVec(a, b); err != nil {
			return x, false
		}
		nextX := brep.Vec3{X: next.AtVec(0), Y: next.AtVec(1), Z: next.AtVec(2)}

		step := nextX.Distance(x)
		x = nextX

		for i, s := range surfs {
			if newUV, ok := s.ClosestPointTo(x, &cur[i]); ok {
				cur[i] = newUV
			}
		}

		if step < newtonTolerance {
			return x, true
		}
	}
	return x, true
}
