package cadmus

// Frame is the root container: a full-screen backdrop, an optional content
// view, and overlays (dialogs, notifications) stacked on top in mount
// order. It owns no behavior of its own; the host loop mutates it in
// response to commands.
type Frame struct {
	baseView
	content View
}

// NewFrame creates the root frame over rect with a white backdrop.
func NewFrame(rect Rect) *Frame {
	f := &Frame{baseView: newBaseView(ViewID{Kind: KindFrame}, rect)}
	f.appendChild(NewFiller(rect, White))
	return f
}

// Content returns the current content view, or nil.
func (f *Frame) Content() View { return f.content }

// SetContent replaces the content view, keeping it below any mounted
// overlays, and queues a full-screen repaint.
func (f *Frame) SetContent(v View, rq *RenderQueue) {
	if f.content != nil {
		for i, c := range f.children {
			if c == f.content {
				f.children = append(f.children[:i], f.children[i+1:]...)
				break
			}
		}
	}
	f.content = v
	if v != nil {
		// Backdrop stays at index 0, content right above it.
		f.children = append(f.children[:1], append([]View{v}, f.children[1:]...)...)
		if globalDebug {
			debugCheckUniqueIDs(f.children)
		}
	}
	rq.Add(NewRenderData(f.id, f.rect, RefreshFull))
}

// Mount adds an overlay on top of everything currently shown.
func (f *Frame) Mount(v View) {
	f.appendChild(v)
}

// CloseViewID removes the first descendant-of-frame child with the given
// identity and queues a repaint of the region it covered. Reports whether
// anything was removed.
func (f *Frame) CloseViewID(id ViewID, rq *RenderQueue) bool {
	removed := f.removeChildID(id)
	if removed == nil {
		return false
	}
	if removed == f.content {
		f.content = nil
	}
	rq.Add(NewRenderData(f.id, removed.Rect(), RefreshPartial))
	return true
}

// Resize lays the backdrop and content out to the new rectangle and lets
// overlays reposition themselves.
func (f *Frame) Resize(rect Rect, hub Hub, rq *RenderQueue, ctx *Context) {
	f.rect = rect
	for i, child := range f.children {
		if i == 0 || child == f.content {
			child.Resize(rect, hub, rq, ctx)
		} else {
			child.Resize(child.Rect(), hub, rq, ctx)
		}
	}
	if globalDebug {
		debugCheckTree(f)
	}
	rq.Add(NewRenderData(f.id, rect, RefreshFull))
}
