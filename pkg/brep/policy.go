package brep

// KeepRegion is the pure region-keep predicate: given the
// Boolean type, which operand the region's face belongs to, the
// region's classification against the opposite shell, and the region's
// classification against the face's own original trim, it decides
// whether the region survives in the output.
//
//	T           opA    keep iff (orig=INSIDE AND ...)
//	UNION       true   shell=OUTSIDE
//	UNION       false  shell=OUTSIDE OR shell=COINC_SAME
//	DIFFERENCE  true   shell=OUTSIDE
//	DIFFERENCE  false  shell=INSIDE OR shell=COINC_SAME
//
// COINC_OPP is always dropped; orig=OUTSIDE is always dropped. This
// predicate carries no state and never changes behavior based on
// anything but its four arguments.
func KeepRegion(t BooleanType, opA bool, shell, orig RegionClass) bool {
	if orig != RegionInside {
		return false
	}
	switch t {
	case Union:
		if opA {
			return shell == RegionOutside
		}
		return shell == RegionOutside || shell == RegionCoincSame
	case Difference:
		if opA {
			return shell == RegionOutside
		}
		return shell == RegionInside || shell == RegionCoincSame
	default:
		return false
	}
}

// KeepEdge decides whether an edge survives in the output: it is kept
// iff its inside-region is kept and its outside-region is not. For a
// well-formed edge exactly one of the two sides is kept.
func KeepEdge(t BooleanType, opA bool, indirOrig, outdirOrig, indirShell, outdirShell RegionClass) bool {
	keepIn := KeepRegion(t, opA, indirShell, indirOrig)
	keepOut := KeepRegion(t, opA, outdirShell, outdirOrig)
	return keepIn && !keepOut
}
