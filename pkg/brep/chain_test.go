package brep

import "testing"

func squareEdges() []XYZEdge {
	return []XYZEdge{
		{A: Vec3{0, 0, 0}, B: Vec3{1, 0, 0}},
		{A: Vec3{1, 0, 0}, B: Vec3{1, 1, 0}},
		{A: Vec3{1, 1, 0}, B: Vec3{0, 1, 0}},
		{A: Vec3{0, 1, 0}, B: Vec3{0, 0, 0}},
	}
}

func TestExtractChainFullLoop(t *testing.T) {
	edges := squareEdges()
	chain := ExtractChain(&edges, &PointList{})

	if len(chain) != 4 {
		t.Fatalf("chain length = %d, want 4", len(chain))
	}
	if len(edges) != 0 {
		t.Errorf("source list should be drained, %d edges left", len(edges))
	}
	for i := 1; i < len(chain); i++ {
		if chain[i].A.Distance(chain[i-1].B) >= LengthEps {
			t.Errorf("chain not contiguous at edge %d: %v -> %v", i, chain[i-1].B, chain[i].A)
		}
	}
}

func TestExtractChainStopsAtChoosingPoints(t *testing.T) {
	edges := squareEdges()

	choosing := &PointList{}
	for i := 0; i < 3; i++ {
		choosing.Add(Vec3{1, 0, 0})
		choosing.Add(Vec3{0, 1, 0})
	}

	chain := ExtractChain(&edges, choosing)

	// Starting from the bottom edge, forward extension is blocked at
	// (1,0,0) and backward extension at (0,1,0), so the chain is the
	// bottom edge plus the left edge.
	if len(chain) != 2 {
		t.Fatalf("chain length = %d, want 2", len(chain))
	}
	if len(edges) != 2 {
		t.Errorf("remaining edges = %d, want 2", len(edges))
	}
	if chain[0].A != (Vec3{0, 1, 0}) || chain[len(chain)-1].B != (Vec3{1, 0, 0}) {
		t.Errorf("chain spans %v -> %v, want (0,1,0) -> (1,0,0)", chain[0].A, chain[len(chain)-1].B)
	}
}

func TestExtractChainReversesMismatchedEdges(t *testing.T) {
	edges := []XYZEdge{
		{A: Vec3{0, 0, 0}, B: Vec3{1, 0, 0}},
		// Stored in the opposite direction to the chain's travel.
		{A: Vec3{2, 0, 0}, B: Vec3{1, 0, 0}, Backwards: true},
	}
	chain := ExtractChain(&edges, &PointList{})

	if len(chain) != 2 {
		t.Fatalf("chain length = %d, want 2", len(chain))
	}
	if chain[1].A != (Vec3{1, 0, 0}) || chain[1].B != (Vec3{2, 0, 0}) {
		t.Errorf("second edge = %v -> %v, want reversed to (1,0,0) -> (2,0,0)", chain[1].A, chain[1].B)
	}
	if chain[1].Backwards {
		t.Error("reversing an edge must toggle its Backwards flag")
	}
}

func TestExtractChainPanicsOnEmptySource(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for empty source edge list")
		}
	}()
	var edges []XYZEdge
	ExtractChain(&edges, &PointList{})
}

func TestChoosingPoints(t *testing.T) {
	orig := []XYZEdge{
		{A: Vec3{0, 0, 0}, B: Vec3{1, 0, 0}},
		{A: Vec3{1, 0, 0}, B: Vec3{1, 1, 0}},
	}
	inter := []XYZEdge{
		{A: Vec3{1, 0, 0}, B: Vec3{1, 0, 1}},
	}
	pl := ChoosingPoints(orig, inter)

	if !pl.IsChoosing(Vec3{1, 0, 0}) {
		t.Error("(1,0,0) touches three edges, want choosing")
	}
	if pl.IsChoosing(Vec3{0, 0, 0}) {
		t.Error("(0,0,0) touches one edge, want not choosing")
	}
	if got := pl.CountAt(Vec3{1, 0, 0}); got != 3 {
		t.Errorf("CountAt((1,0,0)) = %d, want 3", got)
	}
}
