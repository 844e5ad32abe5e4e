package animation

// dirtyState records the most expensive proxy refresh an Animation needs on its next update.
// States are totally ordered; a higher state subsumes every lower one.
type dirtyState uint8

const (
	// dirtyClean: only elapsed time changed.
	dirtyClean dirtyState = iota
	// dirtyValue: weights, wrap modes or seek positions changed.
	dirtyValue
	// dirtyLayout: the set of playing clips, their layers, scene mappings or curve data changed.
	dirtyLayout
	// dirtySkeleton: the skeleton changed.
	dirtySkeleton
)

// raise moves the state up to to. Lower requests are absorbed.
func (d *dirtyState) raise(to dirtyState) {
	if to > *d {
		*d = to
	}
}

func (d dirtyState) String() string {
	switch d {
	case dirtyClean:
		return "clean"
	case dirtyValue:
		return "value"
	case dirtyLayout:
		return "layout"
	case dirtySkeleton:
		return "skeleton"
	default:
		return "unknown"
	}
}
