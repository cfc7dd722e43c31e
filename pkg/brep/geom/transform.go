package geom

import (
	"math"

	"github.com/sawbench/lignin/pkg/brep"
)

// Transform is a rigid rotation-then-translation applied to a shell's
// geometry, mirroring the Euler-angle convention of pkg/kernel/sdfx's
// Rotate (X, then Y, then Z, in degrees).
type Transform struct {
	R [3][3]float64
	T brep.Vec3
}

// Identity returns the no-op transform.
func Identity() Transform {
	return Transform{R: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// Translation returns a pure translation.
func Translation(x, y, z float64) Transform {
	t := Identity()
	t.T = brep.Vec3{X: x, Y: y, Z: z}
	return t
}

// EulerRotation returns the rotation Rz*Ry*Rx for angles in degrees.
func EulerRotation(xDeg, yDeg, zDeg float64) Transform {
	rx := rotX(xDeg * math.Pi / 180)
	ry := rotY(yDeg * math.Pi / 180)
	rz := rotZ(zDeg * math.Pi / 180)
	return Transform{R: mulMat(rz, mulMat(ry, rx))}
}

func rotX(a float64) [3][3]float64 {
	c, s := math.Cos(a), math.Sin(a)
	return [3][3]float64{{1, 0, 0}, {0, c, -s}, {0, s, c}}
}

func rotY(a float64) [3][3]float64 {
	c, s := math.Cos(a), math.Sin(a)
	return [3][3]float64{{c, 0, s}, {0, 1, 0}, {-s, 0, c}}
}

func rotZ(a float64) [3][3]float64 {
	c, s := math.Cos(a), math.Sin(a)
	return [3][3]float64{{c, -s, 0}, {s, c, 0}, {0, 0, 1}}
}

func mulMat(a, b [3][3]float64) [3][3]float64 {
	var r [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				r[i][j] += a[i][k] * b[k][j]
			}
		}
	}
	return r
}

func (t Transform) point(p brep.Vec3) brep.Vec3 {
	return brep.Vec3{
		X: t.R[0][0]*p.X + t.R[0][1]*p.Y + t.R[0][2]*p.Z + t.T.X,
		Y: t.R[1][0]*p.X + t.R[1][1]*p.Y + t.R[1][2]*p.Z + t.T.Y,
		Z: t.R[2][0]*p.X + t.R[2][1]*p.Y + t.R[2][2]*p.Z + t.T.Z,
	}
}

func (t Transform) vector(v brep.Vec3) brep.Vec3 {
	return brep.Vec3{
		X: t.R[0][0]*v.X + t.R[0][1]*v.Y + t.R[0][2]*v.Z,
		Y: t.R[1][0]*v.X + t.R[1][1]*v.Y + t.R[1][2]*v.Z,
		Z: t.R[2][0]*v.X + t.R[2][1]*v.Y + t.R[2][2]*v.Z,
	}
}

// Apply returns a fresh shell with t applied to every face's plane and
// every curve's PWL vertices, preserving topology.
func Apply(shell *brep.Shell, t Transform) *brep.Shell {
	out := brep.NewShell()

	curveMap := make(map[brep.Handle]brep.Handle, len(shell.Curves))
	for _, c := range shell.OrderedCurves() {
		pwl := make([]brep.PWLVertex, len(c.PWL))
		for i, v := range c.PWL {
			pwl[i] = brep.PWLVertex{P: t.point(v.P), Topological: v.Topological}
		}
		nc := &brep.Curve{PWL: pwl, Source: c.Source}
		out.AddCurve(nc)
		curveMap[c.Handle] = nc.Handle
	}

	faceMap := make(map[brep.Handle]brep.Handle, len(shell.Faces))
	for _, f := range shell.OrderedFaces() {
		pl, ok := f.Surface.(Plane)
		if !ok {
			continue
		}
		nf := &brep.Face{Surface: Plane{Origin: t.point(pl.Origin), U: t.vector(pl.U), V: t.vector(pl.V), reversed: pl.reversed}}
		out.AddFace(nf)
		faceMap[f.Handle] = nf.Handle
	}

	for _, f := range shell.OrderedFaces() {
		nf := out.Face(faceMap[f.Handle])
		if nf == nil {
			continue
		}
		trims := make([]brep.TrimBy, len(f.TrimLoops))
		for i, tb := range f.TrimLoops {
			trims[i] = brep.TrimBy{Curve: curveMap[tb.Curve], Start: t.point(tb.Start), Finish: t.point(tb.Finish), Backwards: tb.Backwards}
		}
		nf.TrimLoops = trims
	}

	for _, c := range shell.OrderedCurves() {
		nc := out.Curve(curveMap[c.Handle])
		if nc == nil {
			continue
		}
		if nh, ok := faceMap[c.SurfA]; ok {
			nc.SurfA = nh
		}
		if nh, ok := faceMap[c.SurfB]; ok {
			nc.SurfB = nh
		}
	}

	return out
}
