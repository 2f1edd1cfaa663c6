package cadmus

import (
	"fmt"
	"os"
)

// globalDebug enables structural assertions on tree operations. Structural
// errors (duplicate IDs, runaway depth, children escaping their parent's
// bounds) are programming defects: they are detected here when debugging and
// never recovered at runtime.
var globalDebug bool

// SetDebugMode enables or disables debug assertions and layout warnings.
func SetDebugMode(enabled bool) {
	globalDebug = enabled
}

// debugCheckUniqueIDs panics when two views in the list share an instance ID.
func debugCheckUniqueIDs(children []View) {
	seen := make(map[uint32]ViewID, len(children))
	for _, c := range children {
		if prev, ok := seen[c.ID()]; ok {
			panic(fmt.Sprintf("cadmus debug: duplicate view ID %d (%v and %v)",
				c.ID(), prev, c.ViewID()))
		}
		seen[c.ID()] = c.ViewID()
	}
}

// debugMaxTreeDepth is the depth beyond which a cycle is assumed.
const debugMaxTreeDepth = 32

// debugCheckTree walks the tree, panicking on excessive depth and warning on
// stderr when a child rectangle escapes its parent's bounds. Call it after
// layout in tests or debug builds.
func debugCheckTree(root View) {
	debugCheckSubtree(root, 0)
}

func debugCheckSubtree(v View, depth int) {
	if depth > debugMaxTreeDepth {
		panic(fmt.Sprintf("cadmus debug: tree depth exceeds %d at view %d; cyclic children?",
			debugMaxTreeDepth, v.ID()))
	}
	bounds := v.Rect()
	for _, child := range v.Children() {
		if !child.Rect().In(bounds) {
			_, _ = fmt.Fprintf(os.Stderr,
				"[cadmus] warning: child %d rect %v escapes parent %d rect %v\n",
				child.ID(), child.Rect(), v.ID(), bounds)
		}
		debugCheckSubtree(child, depth+1)
	}
}
