package cadmus

// idCounter is a plain counter; the view tree is single-threaded.
var idCounter uint32

// NextID returns a fresh view ID. IDs are unique within the running tree and
// never reused while it is alive.
func NextID() uint32 {
	idCounter++
	return idCounter
}

// ViewKind names the well-known view roles used for cross-view addressing.
type ViewKind uint8

const (
	KindNone ViewKind = iota
	KindFrame
	KindDialog
	KindNotification
	KindToggle
	KindPage
	KindLabel
	KindButton
	KindLibrary
	KindSettings
)

// ViewID is the optional named identity of a view. Kind selects the role;
// Seq distinguishes instances of the same kind (zero for singletons). Events
// such as Close address views by ViewID, which makes cross-subtree
// references lookups instead of stored pointers.
type ViewID struct {
	Kind ViewKind
	Seq  uint32
}

// IsZero reports whether the view has no named identity.
func (v ViewID) IsZero() bool {
	return v == ViewID{}
}

// View is a node in the retained view tree. Containers own their children
// exclusively; destroying a view destroys its subtree. A view may only
// mutate its own state and its own children, and only from inside its
// HandleEvent call. Structural changes to other subtrees are requested via
// events handled by the common ancestor.
type View interface {
	// ID returns the stable per-instance identifier.
	ID() uint32

	// ViewID returns the named identity, or the zero ViewID for anonymous
	// views.
	ViewID() ViewID

	// Rect returns the current layout rectangle.
	Rect() Rect

	// SetRect moves the view. Called by the parent during layout; it does
	// not queue a repaint by itself.
	SetRect(Rect)

	// Children returns the owned child list in z-order: later children draw
	// on top of earlier ones. The returned slice MUST NOT be mutated by the
	// caller.
	Children() []View

	// IsBackground reports whether this view's Render still runs even
	// though it has children. Background views draw before their children
	// and can therefore only serve as backdrops; overlays are trailing
	// children.
	IsBackground() bool

	// HandleEvent processes one event. It may mutate the view's own state,
	// push follow-up events on bus or hub, and queue paint requests on rq.
	// Returning true stops propagation.
	HandleEvent(evt Event, hub Hub, bus *Bus, rq *RenderQueue, ctx *Context) bool

	// Render paints the view's content clipped to rect, which is always the
	// intersection of the view's bounds with a merged damage region; never
	// assume the full bounds need redrawing.
	Render(fb Framebuffer, rect Rect, ctx *Context)

	// Resize lays the view out into rect and recursively resizes children.
	Resize(rect Rect, hub Hub, rq *RenderQueue, ctx *Context)
}

// baseView carries the state every view shares. Concrete views embed it and
// override the behavior methods they need; the defaults are an inert
// anonymous leaf.
type baseView struct {
	id       uint32
	viewID   ViewID
	rect     Rect
	children []View
}

func newBaseView(viewID ViewID, rect Rect) baseView {
	return baseView{id: NextID(), viewID: viewID, rect: rect}
}

func (b *baseView) ID() uint32         { return b.id }
func (b *baseView) ViewID() ViewID     { return b.viewID }
func (b *baseView) Rect() Rect         { return b.rect }
func (b *baseView) SetRect(rect Rect)  { b.rect = rect }
func (b *baseView) Children() []View   { return b.children }
func (b *baseView) IsBackground() bool { return false }

func (b *baseView) HandleEvent(Event, Hub, *Bus, *RenderQueue, *Context) bool {
	return false
}

func (b *baseView) Render(Framebuffer, Rect, *Context) {}

func (b *baseView) Resize(rect Rect, _ Hub, _ *RenderQueue, _ *Context) {
	b.rect = rect
}

// appendChild adds child at the end of the child list (topmost z-position).
// Panics if child is nil. In debug mode, duplicate IDs in the subtree are
// reported.
func (b *baseView) appendChild(child View) {
	if child == nil {
		panic("cadmus: cannot add nil child")
	}
	b.children = append(b.children, child)
	if globalDebug {
		debugCheckUniqueIDs(b.children)
	}
}

// removeChildID removes and returns the first child with the given named
// identity, or nil when no child matches. The removed subtree is simply
// dropped; the garbage collector reclaims it.
func (b *baseView) removeChildID(id ViewID) View {
	for i, c := range b.children {
		if c.ViewID() == id {
			copy(b.children[i:], b.children[i+1:])
			b.children[len(b.children)-1] = nil
			b.children = b.children[:len(b.children)-1]
			return c
		}
	}
	return nil
}

// --- Tree lookups ---

// LocateViewID finds the first view in preorder with the given named
// identity. This is the sanctioned way for cross-cutting logic to reach a
// named descendant: a lookup over the owned structure, never a stored
// back-reference.
func LocateViewID(root View, id ViewID) View {
	if root.ViewID() == id {
		return root
	}
	for _, child := range root.Children() {
		if found := LocateViewID(child, id); found != nil {
			return found
		}
	}
	return nil
}

// LocateID finds the view with the given instance ID, or nil.
func LocateID(root View, id uint32) View {
	if root.ID() == id {
		return root
	}
	for _, child := range root.Children() {
		if found := LocateID(child, id); found != nil {
			return found
		}
	}
	return nil
}
