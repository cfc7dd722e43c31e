package brep

import (
	"github.com/dhconnelly/rtreego"
)

// faceIndex accelerates AllPointsIntersecting's segment-against-every-
// face search with an R-tree over face bounding boxes.
type faceIndex struct {
	tree *rtreego.Rtree
}

// indexedFace adapts a *Face to rtreego.Spatial by wrapping its xyz
// bounding box.
type indexedFace struct {
	face *Face
	rect rtreego.Rect
}

func (e *indexedFace) Bounds() rtreego.Rect { return e.rect }

const (
	indexMinBranch = 25
	indexMaxBranch = 50
)

// buildFaceIndex indexes every face of shell by bounding box, padding
// degenerate (zero-volume) boxes so rtreego accepts them.
func buildFaceIndex(shell *Shell) *faceIndex {
	tree := rtreego.NewTree(3, indexMinBranch, indexMaxBranch)
	for _, f := range shell.Faces {
		min, max := f.BoundingBox()
		lengths := [3]float64{max.X - min.X, max.Y - min.Y, max.Z - min.Z}
		for i, l := range lengths {
			if l < LengthEps {
				lengths[i] = LengthEps
			}
		}
		rect, err := rtreego.NewRect(rtreego.Point{min.X, min.Y, min.Z}, lengths[:])
		if err != nil {
			continue
		}
		tree.Insert(&indexedFace{face: f, rect: rect})
	}
	return &faceIndex{tree: tree}
}

// facesNear returns the faces of the shell the index was built over
// whose bounding box intersects the box spanned by min and max, padded
// by pad on every side.
func (fi *faceIndex) facesNear(min, max Vec3, pad float64) []*Face {
	if fi == nil {
		return nil
	}
	lengths := [3]float64{
		max.X - min.X + 2*pad,
		max.Y - min.Y + 2*pad,
		max.Z - min.Z + 2*pad,
	}
	for i, l := range lengths {
		if l < LengthEps {
			lengths[i] = LengthEps
		}
	}
	rect, err := rtreego.NewRect(rtreego.Point{min.X - pad, min.Y - pad, min.Z - pad}, lengths[:])
	if err != nil {
		return nil
	}
	hits := fi.tree.SearchIntersect(rect)
	faces := make([]*Face, 0, len(hits))
	for _, h := range hits {
		faces = append(faces, h.(*indexedFace).face)
	}
	return faces
}

// ensureIndex lazily (re)builds shell's face index, invalidated by
// AddFace and ClearScratch.
func (s *Shell) ensureIndex() *faceIndex {
	if s.index == nil {
		s.index = buildFaceIndex(s)
	}
	return s.index
}

// FacesNear exposes the shell's face index to hosts implementing
// AllPointsIntersecting, so a segment-vs-all-faces search can be
// narrowed to nearby faces before falling back to exact tests.
func (s *Shell) FacesNear(min, max Vec3, pad float64) []*Face {
	return s.ensureIndex().facesNear(min, max, pad)
}
