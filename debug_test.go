package cadmus

import "testing"

func TestDebugDuplicateIDPanics(t *testing.T) {
	SetDebugMode(true)
	t.Cleanup(func() { SetDebugMode(false) })

	parent := &Filler{baseView: newBaseView(ViewID{}, Rect{Width: 100, Height: 100})}
	child := NewFiller(Rect{Width: 10, Height: 10}, White)
	parent.appendChild(child)

	defer func() {
		if recover() == nil {
			t.Errorf("appendChild with duplicate ID did not panic")
		}
	}()
	parent.appendChild(child)
}

func TestDebugTreeDepthPanics(t *testing.T) {
	root := NewFiller(Rect{Width: 100, Height: 100}, White)
	v := root
	for i := 0; i < debugMaxTreeDepth+2; i++ {
		child := NewFiller(Rect{Width: 100, Height: 100}, White)
		v.appendChild(child)
		v = child
	}

	defer func() {
		if recover() == nil {
			t.Errorf("debugCheckTree on runaway depth did not panic")
		}
	}()
	debugCheckTree(root)
}
