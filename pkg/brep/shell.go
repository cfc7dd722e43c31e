package brep

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// globalHandleCounter allocates Handles uniquely across every Shell in
// the process, not merely within one shell. A Boolean's output curves
// can then carry a cross-shell SurfA/SurfB reference (an input-shell
// Handle) without ambiguity about which input shell it names; per-shell
// counters starting at 1 would make two different shells' faces share
// the same Handle value and require threading shell identity through
// every handle lookup.
var globalHandleCounter uint64

func nextGlobalHandle() Handle {
	return Handle(atomic.AddUint64(&globalHandleCounter, 1))
}

// Handle is a stable identifier for a Face or Curve, unique within the
// Shell that owns it.
type Handle uint64

// Source tags where a Curve originated.
type Source int

const (
	SourceA Source = iota
	SourceB
	SourceIntersection
)

// PWLVertex is one vertex of a Curve's piecewise-linear approximation.
type PWLVertex struct {
	P Vec3
	// Topological reports whether this vertex is a topological vertex
	// (an endpoint, or a point introduced by splitting against the
	// other shell) as opposed to an interior point kept only for
	// chord-tolerance fidelity.
	Topological bool
}

// Curve owns an ordered PWL vertex list and identifies the two faces it
// trims.
type Curve struct {
	Handle Handle
	PWL     []PWLVertex
	Exact   ExactCurve // optional; nil if the curve has no exact representation
	SurfA   Handle
	SurfB   Handle
	Source  Source

	// NewHandle redirects this curve (in the shell that owns it, one of
	// the Boolean's two inputs) to its clone in the output shell. Zero
	// means unset.
	NewHandle Handle
}

// Clone returns a deep copy of the curve's PWL vertex list, suitable for
// inserting as a new curve in another shell.
func (c *Curve) Clone() *Curve {
	pwl := make([]PWLVertex, len(c.PWL))
	copy(pwl, c.PWL)
	return &Curve{PWL: pwl, Exact: c.Exact, SurfA: c.SurfA, SurfB: c.SurfB, Source: c.Source}
}

// Length returns the total xyz length of the curve's PWL approximation.
func (c *Curve) Length() float64 {
	var total float64
	for i := 1; i < len(c.PWL); i++ {
		total += c.PWL[i-1].P.Distance(c.PWL[i].P)
	}
	return total
}

// TrimBy is one directed curve segment along a face's trim boundary.
type TrimBy struct {
	Curve     Handle
	Start     Vec3
	Finish    Vec3
	Backwards bool
}

// UVEdge is one segment of a face's trim boundary in parameter space,
// carrying enough of the originating curve's identity to reassemble
// trim-by records after trimming.
type UVEdge struct {
	A, B      UV
	Curve     Handle
	Backwards bool
}

// Reversed returns the edge traversed in the opposite direction.
func (e UVEdge) Reversed() UVEdge {
	return UVEdge{A: e.B, B: e.A, Curve: e.Curve, Backwards: !e.Backwards}
}

// XYZEdge is the xyz counterpart of UVEdge, used by the face trimmer's
// intersection-edge lists and by chain extraction.
type XYZEdge struct {
	A, B      Vec3
	Curve     Handle
	Backwards bool
}

func (e XYZEdge) Reversed() XYZEdge {
	return XYZEdge{A: e.B, B: e.A, Curve: e.Curve, Backwards: !e.Backwards}
}

// Face is a rational parametric surface bounded by trim loops.
type Face struct {
	Handle    Handle
	Surface   Surface
	TrimLoops []TrimBy

	// Transient scratch populated during a Boolean; nil otherwise.
	bsp      *ClassifyingBsp
	uvEdges  []UVEdge
	xyzEdges []XYZEdge

	newHandle Handle
}

// ClearScratch releases the face's transient Boolean-invocation state.
func (f *Face) ClearScratch() {
	f.bsp = nil
	f.uvEdges = nil
	f.xyzEdges = nil
}

// BoundingBox returns the face's xyz bounding box. While a Boolean is
// running the face carries the full xyz edge list of its trim curves,
// which bounds interior PWL vertices too; otherwise the trim loop
// endpoints are used. Used by Shell's face index (index.go).
func (f *Face) BoundingBox() (min, max Vec3) {
	first := true
	grow := func(p Vec3) {
		if first {
			min, max = p, p
			first = false
			return
		}
		min = Vec3{minf(min.X, p.X), minf(min.Y, p.Y), minf(min.Z, p.Z)}
		max = Vec3{maxf(max.X, p.X), maxf(max.Y, p.Y), maxf(max.Z, p.Z)}
	}
	if len(f.xyzEdges) > 0 {
		for _, e := range f.xyzEdges {
			grow(e.A)
			grow(e.B)
		}
		return min, max
	}
	for _, t := range f.TrimLoops {
		grow(t.Start)
		grow(t.Finish)
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

// SInter is a transient intersection record used while splitting a
// curve: an xyz point plus the handle of a third face the intersection
// also lies on. Tag marks records the splitter culls before emitting
// split vertices.
type SInter struct {
	P    Vec3
	Face Handle
	Tag  int
}

// PointList records how many edge endpoints have touched each distinct
// xyz point, used to find "choosing" points: junctions of more than two
// edges.
type PointList struct {
	points []Vec3
	counts []int
}

// Add registers one more edge endpoint touching p, merging with any
// previously added point within LengthEps.
func (pl *PointList) Add(p Vec3) {
	for i, q := range pl.points {
		if p.Distance(q) < LengthEps {
			pl.counts[i]++
			return
		}
	}
	pl.points = append(pl.points, p)
	pl.counts = append(pl.counts, 1)
}

// CountAt returns how many edge endpoints touch p (0 if none).
func (pl *PointList) CountAt(p Vec3) int {
	for i, q := range pl.points {
		if p.Distance(q) < LengthEps {
			return pl.counts[i]
		}
	}
	return 0
}

// IsChoosing reports whether p is a junction of more than two edges.
func (pl *PointList) IsChoosing(p Vec3) bool { return pl.CountAt(p) > 2 }

// Shell owns a collection of faces and curves forming the boundary of a
// candidate solid.
type Shell struct {
	// ID is a per-invocation diagnostic tag, not consumed by any
	// algorithm; useful when several Booleans' log output interleaves.
	ID uuid.UUID

	Faces  map[Handle]*Face
	Curves map[Handle]*Curve

	BooleanFailed bool

	// NakedEdges collects the edge lists of trim polygons that failed to
	// close, recorded when BooleanFailed is set so the host can display
	// where the topology broke.
	NakedEdges []XYZEdge

	// Sentinel is set to VeryPositive by the driver when an input shell
	// has no faces. It is read only by trim diagnostics, never by
	// control flow.
	Sentinel float64

	// Intersect, ClassifyEdgeFn, and Intersector are the host-provided
	// collaborators this shell was built with: the
	// segment-vs-all-faces intersector, the 3D edge classifier, and the
	// face-pair curve generator. A shell constructed purely for
	// assembly (no Boolean) may leave all three nil.
	Intersect      AllPointsIntersecting
	ClassifyEdgeFn ClassifyEdgeFunc
	Intersector    Intersector

	// faceOrder and curveOrder record AddFace/AddCurve call order so the
	// driver can iterate a shell's faces/curves deterministically
	// despite Go's randomized map iteration.
	faceOrder  []Handle
	curveOrder []Handle
	index      *faceIndex
}

// NewShell creates an empty shell.
func NewShell() *Shell {
	return &Shell{
		ID:     uuid.New(),
		Faces:  make(map[Handle]*Face),
		Curves: make(map[Handle]*Curve),
	}
}

// AddFace assigns f a fresh handle, stores it, and returns the handle.
// Faces are added in the order the caller calls AddFace, which is the
// order Boolean output handle assignment is allowed to depend on.
func (s *Shell) AddFace(f *Face) Handle {
	h := nextGlobalHandle()
	f.Handle = h
	s.Faces[h] = f
	s.faceOrder = append(s.faceOrder, h)
	s.index = nil
	return h
}

// AddCurve assigns c a fresh handle, stores it, and returns the handle.
func (s *Shell) AddCurve(c *Curve) Handle {
	h := nextGlobalHandle()
	c.Handle = h
	s.Curves[h] = c
	s.curveOrder = append(s.curveOrder, h)
	return h
}

// OrderedFaces returns the shell's faces in the order they were added.
func (s *Shell) OrderedFaces() []*Face {
	faces := make([]*Face, 0, len(s.faceOrder))
	for _, h := range s.faceOrder {
		if f, ok := s.Faces[h]; ok {
			faces = append(faces, f)
		}
	}
	return faces
}

// OrderedCurves returns the shell's curves in the order they were added.
func (s *Shell) OrderedCurves() []*Curve {
	curves := make([]*Curve, 0, len(s.curveOrder))
	for _, h := range s.curveOrder {
		if c, ok := s.Curves[h]; ok {
			curves = append(curves, c)
		}
	}
	return curves
}

// Face returns the face with the given handle, or nil.
func (s *Shell) Face(h Handle) *Face { return s.Faces[h] }

// Curve returns the curve with the given handle, or nil.
func (s *Shell) Curve(h Handle) *Curve { return s.Curves[h] }

// ClearScratch drops every face's transient Boolean state and the face
// index built over it. Called by the driver once a Boolean completes.
func (s *Shell) ClearScratch() {
	for _, f := range s.Faces {
		f.ClearScratch()
	}
	s.index = nil
}

// String implements fmt.Stringer for log output.
func (s *Shell) String() string {
	return fmt.Sprintf("Shell{id=%s faces=%d curves=%d failed=%v}", s.ID, len(s.Faces), len(s.Curves), s.BooleanFailed)
}
