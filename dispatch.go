package cadmus

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/OGKevin/cadmus")

// Dispatch routes one event through the tree rooted at root and reports
// whether any view consumed it.
//
// Located events (taps, swipes, holds) are delivered to the deepest view
// whose bounds contain the position, then bubble up through the descent
// path: each ancestor only sees the event if every view below it declined.
// All other events are broadcast in preorder to every view regardless of
// return values: device signals and commands are state-sync, not
// pointer-ownership.
//
// Everything views emit during the pass lands on bus and rq in emission
// order; nothing is redispatched within the pass. A panicking handler is a
// programming defect and is not recovered here.
func Dispatch(root View, evt Event, hub Hub, bus *Bus, rq *RenderQueue, ctx *Context) bool {
	_, span := tracer.Start(context.Background(), "dispatch",
		trace.WithAttributes(attribute.String("event.type", fmt.Sprintf("%T", evt))))
	defer span.End()

	var consumed bool
	if located, ok := evt.(Located); ok {
		consumed = dispatchLocated(root, located, hub, bus, rq, ctx)
	} else {
		broadcast(root, evt, hub, bus, rq, ctx)
	}
	span.SetAttributes(
		attribute.Bool("event.consumed", consumed),
		attribute.Int("followups", bus.Len()),
		attribute.Int("paint.requests", rq.Len()),
	)
	return consumed
}

// dispatchLocated walks down to the target and bubbles back up the explicit
// ancestor path.
func dispatchLocated(root View, evt Located, hub Hub, bus *Bus, rq *RenderQueue, ctx *Context) bool {
	path := targetPath(root, evt.Position())
	for i := len(path) - 1; i >= 0; i-- {
		if path[i].HandleEvent(evt, hub, bus, rq, ctx) {
			return true
		}
	}
	return false
}

// targetPath returns the descent path from root to the deepest view whose
// bounds contain p. At each level children are probed in reverse order:
// later children are visually on top and therefore win overlaps. The root
// is always on the path, so an event outside every child still has a
// handler of last resort.
func targetPath(root View, p Pt) []View {
	path := []View{root}
	node := root
	for {
		children := node.Children()
		var next View
		for i := len(children) - 1; i >= 0; i-- {
			if children[i].Rect().Contains(p) {
				next = children[i]
				break
			}
		}
		if next == nil {
			return path
		}
		path = append(path, next)
		node = next
	}
}

// broadcast delivers evt to every view in preorder. Consumption never
// suppresses delivery to the rest of the tree.
func broadcast(v View, evt Event, hub Hub, bus *Bus, rq *RenderQueue, ctx *Context) {
	v.HandleEvent(evt, hub, bus, rq, ctx)
	for _, child := range v.Children() {
		broadcast(child, evt, hub, bus, rq, ctx)
	}
}
