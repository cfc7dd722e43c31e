package geom

import (
	"fmt"
	"math"

	"github.com/sawbench/lignin/pkg/brep"
)

// faceDef is one planar face of a builder's output, before its trim
// loop is known.
type faceDef struct {
	origin, u, v brep.Vec3
}

// edgeRecord tracks the curve created for one physical edge shared by
// up to two faces, plus the canonical endpoint order its PWL was built
// in, so a second face referencing the same edge can tell whether it
// traverses it backwards.
type edgeRecord struct {
	curve        *brep.Curve
	canonA, canonB brep.Vec3
}

// Box builds a rectangular shell with its minimum corner at the origin
// and its maximum corner at (x,y,z), matching the min-corner-origin
// convention of pkg/kernel/sdfx's Box.
func Box(x, y, z float64) *brep.Shell {
	defs := []faceDef{
		{origin: brep.Vec3{}, u: brep.Vec3{Y: y}, v: brep.Vec3{X: x}},             // z=0, normal -Z
		{origin: brep.Vec3{Z: z}, u: brep.Vec3{X: x}, v: brep.Vec3{Y: y}},          // z=z, normal +Z
		{origin: brep.Vec3{}, u: brep.Vec3{X: x}, v: brep.Vec3{Z: z}},             // y=0, normal -Y
		{origin: brep.Vec3{Y: y}, u: brep.Vec3{Z: z}, v: brep.Vec3{X: x}},          // y=y, normal +Y
		{origin: brep.Vec3{}, u: brep.Vec3{Z: z}, v: brep.Vec3{Y: y}},             // x=0, normal -X
		{origin: brep.Vec3{X: x}, u: brep.Vec3{Y: y}, v: brep.Vec3{Z: z}},          // x=x, normal +X
	}
	return buildFromQuads(defs)
}

// Prism builds an n-sided (segments >= 3) right prism of the given
// height and circumradius, standing on z=0, approximating a cylinder
// the way pkg/kernel/manifold's Cylinder takes a segment count.
func Prism(height, radius float64, segments int) *brep.Shell {
	if segments < 3 {
		segments = 3
	}
	ring := make([]brep.Vec3, segments)
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		ring[i] = brep.Vec3{X: radius * math.Cos(a), Y: radius * math.Sin(a)}
	}

	shell := brep.NewShell()
	edges := map[string]*edgeRecord{}

	bottom := &brep.Face{Surface: Plane{Origin: brep.Vec3{}, U: brep.Vec3{X: 1}, V: brep.Vec3{Y: -1}}}
	top := &brep.Face{Surface: Plane{Origin: brep.Vec3{Z: height}, U: brep.Vec3{X: 1}, V: brep.Vec3{Y: 1}}}
	shell.AddFace(bottom)
	shell.AddFace(top)

	var bottomLoop, topLoop []brep.TrimBy
	for i := 0; i < segments; i++ {
		j := (i + 1) % segments
		// Bottom face traverses the ring clockwise as seen from below
		// (outward normal -Z): ring[i] -> ring[j] reversed.
		c, back := getOrCreateEdge(shell, edges, ring[j], ring[i], bottom.Handle)
		bottomLoop = append(bottomLoop, brep.TrimBy{Curve: c.Handle, Start: ring[j], Finish: ring[i], Backwards: back})

		topA, topB := ring[i].Add(brep.Vec3{Z: height}), ring[j].Add(brep.Vec3{Z: height})
		c, back = getOrCreateEdge(shell, edges, topA, topB, top.Handle)
		topLoop = append(topLoop, brep.TrimBy{Curve: c.Handle, Start: topA, Finish: topB, Backwards: back})
	}
	bottom.TrimLoops = bottomLoop
	top.TrimLoops = topLoop

	for i := 0; i < segments; i++ {
		j := (i + 1) % segments
		a, b := ring[i], ring[j]
		out := b.Sub(a).Cross(brep.Vec3{Z: 1})
		side := &brep.Face{Surface: Plane{Origin: a, U: brep.Vec3{Z: height}, V: b.Sub(a)}}
		if side.Surface.(Plane).NormalAt(0, 0).Dot(out) < 0 {
			side.Surface = side.Surface.(Plane).Reversed()
		}
		shell.AddFace(side)

		c00, c10, c11, c01 := a, a.Add(brep.Vec3{Z: height}), b.Add(brep.Vec3{Z: height}), b
		corners := [4]brep.Vec3{c00, c10, c11, c01}
		var loop []brep.TrimBy
		for k := 0; k < 4; k++ {
			p, q := corners[k], corners[(k+1)%4]
			c, back := getOrCreateEdge(shell, edges, p, q, side.Handle)
			loop = append(loop, brep.TrimBy{Curve: c.Handle, Start: p, Finish: q, Backwards: back})
		}
		side.TrimLoops = loop
	}

	return shell
}

// buildFromQuads builds a shell from a set of planar face definitions
// whose trim loop is the unit quad (0,0)-(1,0)-(1,1)-(0,1) in the
// face's own u,v, sharing edges between faces that meet at the same
// physical segment.
func buildFromQuads(defs []faceDef) *brep.Shell {
	shell := brep.NewShell()
	edges := map[string]*edgeRecord{}
	faces := make([]*brep.Face, len(defs))
	for i, d := range defs {
		f := &brep.Face{Surface: Plane{Origin: d.origin, U: d.u, V: d.v}}
		shell.AddFace(f)
		faces[i] = f
	}
	for i, f := range faces {
		d := defs[i]
		c00 := d.origin
		c10 := d.origin.Add(d.u)
		c11 := d.origin.Add(d.u).Add(d.v)
		c01 := d.origin.Add(d.v)
		corners := [4]brep.Vec3{c00, c10, c11, c01}
		var loop []brep.TrimBy
		for k := 0; k < 4; k++ {
			a, b := corners[k], corners[(k+1)%4]
			c, back := getOrCreateEdge(shell, edges, a, b, f.Handle)
			loop = append(loop, brep.TrimBy{Curve: c.Handle, Start: a, Finish: b, Backwards: back})
		}
		f.TrimLoops = loop
	}
	return shell
}

// getOrCreateEdge returns the curve for the physical edge a-b, creating
// it (with SurfA set to faceHandle) the first time it is seen and
// recording SurfB the second time. The returned bool reports whether
// faceHandle traverses the edge backwards relative to the curve's own
// PWL order.
func getOrCreateEdge(shell *brep.Shell, edges map[string]*edgeRecord, a, b brep.Vec3, faceHandle brep.Handle) (*brep.Curve, bool) {
	canonA, canonB, swapped := canonicalOrder(a, b)
	key := edgeKey(canonA, canonB)
	if rec, ok := edges[key]; ok {
		rec.curve.SurfB = faceHandle
		return rec.curve, swapped
	}
	curve := &brep.Curve{
		PWL:   []brep.PWLVertex{{P: canonA, Topological: true}, {P: canonB, Topological: true}},
		SurfA: faceHandle,
	}
	shell.AddCurve(curve)
	edges[key] = &edgeRecord{curve: curve, canonA: canonA, canonB: canonB}
	return curve, swapped
}

// canonicalOrder returns a, b in a fixed lexicographic order so both
// faces sharing a physical edge agree on one curve's direction.
func canonicalOrder(a, b brep.Vec3) (first, second brep.Vec3, swapped bool) {
	if vecLess(b, a) {
		return b, a, true
	}
	return a, b, false
}

func vecLess(a, b brep.Vec3) bool {
	const eps = 1e-9
	if math.Abs(a.X-b.X) > eps {
		return a.X < b.X
	}
	if math.Abs(a.Y-b.Y) > eps {
		return a.Y < b.Y
	}
	return a.Z < b.Z
}

func edgeKey(a, b brep.Vec3) string {
	round := func(v float64) float64 { return math.Round(v*1e6) / 1e6 }
	return fmt.Sprintf("%g,%g,%g|%g,%g,%g", round(a.X), round(a.Y), round(a.Z), round(b.X), round(b.Y), round(b.Z))
}
