package geom

import (
	"fmt"

	"github.com/sawbench/lignin/pkg/kernel"
	"github.com/sawbench/lignin/pkg/brep"
)

// Triangulate converts shell's Plane faces into a triangle mesh by
// ear-clipping each face's trim loops in its own (u,v) parameter space,
// the way pkg/kernel/sdfx's ToMesh flattens triangles into the
// kernel.Mesh layout. Each face's trim-by records are assumed to form
// loops with no holes, which holds for the box and prism builders and
// for Booleans between them.
func Triangulate(shell *brep.Shell) (*kernel.Mesh, error) {
	mesh := &kernel.Mesh{}
	for _, f := range shell.OrderedFaces() {
		pl, ok := f.Surface.(Plane)
		if !ok {
			continue
		}
		n := pl.NormalAt(0, 0)
		for _, loop := range assembleLoops(f.TrimLoops) {
			if len(loop) < 3 {
				continue
			}
			uv := make([]brep.UV, len(loop))
			for i, p := range loop {
				q, _ := pl.ClosestPointTo(p, nil)
				uv[i] = q
			}
			tris, err := earClip(uv)
			if err != nil {
				return nil, fmt.Errorf("brep/geom: triangulating face %v: %w", f.Handle, err)
			}
			base := uint32(len(mesh.Vertices) / 3)
			for _, p := range loop {
				mesh.Vertices = append(mesh.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
				mesh.Normals = append(mesh.Normals, float32(n.X), float32(n.Y), float32(n.Z))
			}
			for _, t := range tris {
				mesh.Indices = append(mesh.Indices, base+uint32(t[0]), base+uint32(t[1]), base+uint32(t[2]))
			}
		}
	}
	return mesh, nil
}

// assembleLoops groups face's trim-by records into closed vertex
// chains, each ending with its own starting point.
func assembleLoops(trims []brep.TrimBy) [][]brep.Vec3 {
	remaining := append([]brep.TrimBy(nil), trims...)
	var loops [][]brep.Vec3
	for len(remaining) > 0 {
		loop := []brep.Vec3{remaining[0].Start}
		cur := remaining[0].Finish
		remaining = remaining[1:]
		for {
			if cur.Distance(loop[0]) < brep.LengthEps {
				break
			}
			loop = append(loop, cur)
			idx := -1
			for i, tb := range remaining {
				if tb.Start.Distance(cur) < brep.LengthEps {
					idx = i
					break
				}
			}
			if idx < 0 {
				break
			}
			cur = remaining[idx].Finish
			remaining = append(remaining[:idx], remaining[idx+1:]...)
		}
		loops = append(loops, loop)
	}
	return loops
}

// earClip triangulates a simple polygon given in (u,v), returning
// vertex-index triples into poly. Winding is normalized to
// counter-clockwise before clipping.
func earClip(poly []brep.UV) ([][3]int, error) {
	idx := make([]int, len(poly))
	for i := range idx {
		idx[i] = i
	}
	if signedArea2(poly, idx) < 0 {
		for i, j := 0, len(idx)-1; i < j; i, j = i+1, j-1 {
			idx[i], idx[j] = idx[j], idx[i]
		}
	}

	var tris [][3]int
	guard := 0
	for len(idx) > 2 && guard < len(poly)*len(poly)+16 {
		guard++
		clipped := false
		for i := range idx {
			p0 := idx[(i-1+len(idx))%len(idx)]
			p1 := idx[i]
			p2 := idx[(i+1)%len(idx)]
			if !isConvex(poly[p0], poly[p1], poly[p2]) {
				continue
			}
			ear := true
			for _, k := range idx {
				if k == p0 || k == p1 || k == p2 {
					continue
				}
				if pointInTriangle(poly[k], poly[p0], poly[p1], poly[p2]) {
					ear = false
					break
				}
			}
			if !ear {
				continue
			}
			tris = append(tris, [3]int{p0, p1, p2})
			idx = append(append([]int{}, idx[:i]...), idx[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			break
		}
	}
	if len(idx) > 2 {
		return tris, fmt.Errorf("ear clipping stalled with %d vertices remaining", len(idx))
	}
	return tris, nil
}

func signedArea2(poly []brep.UV, idx []int) float64 {
	var area float64
	for i := range idx {
		a := poly[idx[i]]
		b := poly[idx[(i+1)%len(idx)]]
		area += a.U*b.V - b.U*a.V
	}
	return area
}

func isConvex(a, b, c brep.UV) bool {
	return (b.U-a.U)*(c.V-a.V)-(b.V-a.V)*(c.U-a.U) > 0
}

func pointInTriangle(p, a, b, c brep.UV) bool {
	d1 := cross2(p, a, b)
	d2 := cross2(p, b, c)
	d3 := cross2(p, c, a)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func cross2(p, a, b brep.UV) float64 {
	return (a.U-p.U)*(b.V-p.V) - (a.V-p.V)*(b.U-p.U)
}
