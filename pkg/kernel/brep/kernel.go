// Package brep adapts the boundary-representation Boolean engine in
// pkg/brep to the abstract kernel.Kernel interface, the way pkg/kernel/sdfx
// adapts the SDF backend. Solids are true trimmed-surface shells; Booleans
// run the engine's trim-and-classify passes instead of sampling a field or
// delegating to a mesh library.
package brep

import (
	"github.com/sawbench/lignin/pkg/brep"
	"github.com/sawbench/lignin/pkg/brep/geom"
	"github.com/sawbench/lignin/pkg/kernel"
)

// Compile-time interface checks.
var _ kernel.Kernel = (*Kernel)(nil)
var _ kernel.Solid = (*solid)(nil)

// solid wraps a *brep.Shell to implement kernel.Solid.
type solid struct {
	shell *brep.Shell
}

// BoundingBox returns the axis-aligned bounding box spanning every face
// of the shell.
func (s *solid) BoundingBox() (min, max [3]float64) {
	first := true
	for _, f := range s.shell.OrderedFaces() {
		fmin, fmax := f.BoundingBox()
		if first {
			min = [3]float64{fmin.X, fmin.Y, fmin.Z}
			max = [3]float64{fmax.X, fmax.Y, fmax.Z}
			first = false
			continue
		}
		min = [3]float64{minf(min[0], fmin.X), minf(min[1], fmin.Y), minf(min[2], fmin.Z)}
		max = [3]float64{maxf(max[0], fmax.X), maxf(max[1], fmax.Y), maxf(max[2], fmax.Z)}
	}
	return min, max
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Kernel implements kernel.Kernel on top of the Boolean engine, wired to
// geom's planar surfaces, box/prism builders, and triangulation.
type Kernel struct{}

// New returns a new Kernel.
func New() *Kernel {
	return &Kernel{}
}

// wire attaches the host collaborators a shell needs before it can go
// through a Boolean: the face-index-backed segment intersector, the
// ray-casting edge classifier, and the plane-pair curve generator.
func wire(shell *brep.Shell) *brep.Shell {
	shell.Intersect = geom.SegmentAllFaces(shell)
	shell.ClassifyEdgeFn = geom.ClassifyEdge(shell)
	shell.Intersector = geom.PlaneIntersector{}
	return shell
}

func unwrap(s kernel.Solid) *brep.Shell { return s.(*solid).shell }
func wrap(s *brep.Shell) kernel.Solid   { return &solid{shell: wire(s)} }

// Box creates a box with its minimum corner at the origin, matching
// pkg/kernel/sdfx's Box placement convention.
func (k *Kernel) Box(x, y, z float64) kernel.Solid {
	return wrap(geom.Box(x, y, z))
}

// Cylinder approximates a cylinder with a segments-sided right prism,
// the way pkg/kernel/manifold's Cylinder takes an explicit segment count
// rather than representing a true round surface.
func (k *Kernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	return wrap(geom.Prism(height, radius, segments))
}

// Union returns the union of two solids.
func (k *Kernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(brep.MakeFromUnionOf(unwrap(a), unwrap(b), brep.BooleanOptions{}))
}

// Difference returns the difference a - b.
func (k *Kernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(brep.MakeFromDifferenceOf(unwrap(a), unwrap(b), brep.BooleanOptions{}))
}

// Intersection returns the intersection of two solids, computed as
// a - (a - b) since the engine implements union and difference directly.
func (k *Kernel) Intersection(a, b kernel.Solid) kernel.Solid {
	aMinusB := wire(brep.MakeFromDifferenceOf(unwrap(a), unwrap(b), brep.BooleanOptions{}))
	return wrap(brep.MakeFromDifferenceOf(unwrap(a), aMinusB, brep.BooleanOptions{}))
}

// Translate moves a solid by (x, y, z).
func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return wrap(geom.Apply(unwrap(s), geom.Translation(x, y, z)))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *Kernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return wrap(geom.Apply(unwrap(s), geom.EulerRotation(x, y, z)))
}

// ToMesh triangulates a solid's faces into a renderable mesh.
func (k *Kernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	return geom.Triangulate(unwrap(s))
}
