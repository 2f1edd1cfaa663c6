package cadmus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
)

// damage is one merged screen region and the effective refresh mode for it:
// the most expensive mode among the requests it covers.
type damage struct {
	rect Rect
	mode RefreshMode
}

// Paint converts the paint requests queued during the last dispatch pass
// into surface writes and flushes. An empty queue is a no-op: zero draws,
// zero flushes.
//
// The pass merges overlapping or adjacent regions into a covering set,
// walks the tree in z-order (preorder, later children on top) drawing every
// leaf-or-background view that intersects a merged region, clipped to the
// intersection, and then issues one Flush per distinct refresh mode, each
// covering the union of that mode's regions. Batching by mode keeps the
// number of full-panel flashes per cycle at one, the dominant perceived-
// latency cost on e-ink.
//
// A panic inside a single view's Render is isolated: it is logged, turned
// into a RenderFailed follow-up on bus, and the remaining views still draw.
func Paint(root View, fb Framebuffer, rq *RenderQueue, bus *Bus, ctx *Context) error {
	requests := rq.drain()
	if len(requests) == 0 {
		return nil
	}

	_, span := tracer.Start(context.Background(), "paint")
	defer span.End()

	merged := mergeDamage(requests)
	for _, d := range merged {
		paintRegion(root, fb, d.rect, bus, ctx)
	}

	var flushed int
	var errs []error
	for _, mode := range []RefreshMode{RefreshFastMono, RefreshPartial, RefreshFull} {
		var region Rect
		for _, d := range merged {
			if d.mode == mode {
				region = region.Union(d.rect)
			}
		}
		if region.IsEmpty() {
			continue
		}
		flushed++
		if err := fb.Flush(region, mode); err != nil {
			errs = append(errs, fmt.Errorf("flush %v %s: %w", region, mode, err))
		}
	}

	span.SetAttributes(
		attribute.Int("paint.requests", len(requests)),
		attribute.Int("paint.regions", len(merged)),
		attribute.Int("paint.flushes", flushed),
	)
	return errors.Join(errs...)
}

// mergeDamage coalesces requests into a covering set of rectangles. The
// merge is union-by-overlap: exact minimality is not required, but every
// requested region ends up fully covered, and each merged region's mode is
// the maximum of the requests it absorbed.
func mergeDamage(requests []RenderData) []damage {
	merged := make([]damage, 0, len(requests))
	for _, rd := range requests {
		merged = append(merged, damage{rect: rd.Rect, mode: rd.Mode})
	}
	for changed := true; changed; {
		changed = false
		for i := 0; i < len(merged) && !changed; i++ {
			for j := i + 1; j < len(merged); j++ {
				if merged[i].rect.Intersects(merged[j].rect) {
					merged[i] = damage{
						rect: merged[i].rect.Union(merged[j].rect),
						mode: merged[i].mode.Max(merged[j].mode),
					}
					merged = append(merged[:j], merged[j+1:]...)
					changed = true
					break
				}
			}
		}
	}
	return merged
}

// paintRegion draws the subtree rooted at v into the damaged region.
// A view's own Render runs only when it has no children or is a background;
// container visuals otherwise belong to a dedicated child so they take part
// in z-order. Backgrounds draw before their children and can never overlay
// them.
func paintRegion(v View, fb Framebuffer, region Rect, bus *Bus, ctx *Context) {
	clip := v.Rect().Intersect(region)
	children := v.Children()
	if !clip.IsEmpty() && (len(children) == 0 || v.IsBackground()) {
		renderIsolated(v, fb, clip, bus, ctx)
	}
	for _, child := range children {
		paintRegion(child, fb, region, bus, ctx)
	}
}

// renderIsolated runs one view's Render, converting a panic into a logged
// RenderFailed follow-up so sibling views in the same pass still draw.
func renderIsolated(v View, fb Framebuffer, clip Rect, bus *Bus, ctx *Context) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("render failed", "view", v.ID(), "rect", fmt.Sprint(clip), "panic", fmt.Sprint(r))
			bus.Push(RenderFailed{ViewID: v.ViewID(), Err: fmt.Sprint(r)})
		}
	}()
	v.Render(fb, clip, ctx)
}
