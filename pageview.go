package cadmus

import (
	"image"
	"image/draw"
)

// PageView is a leaf that shows one page of the open document and turns
// pages on horizontal swipes. Every FullRefreshInterval-th turn is flushed
// with a full refresh to clear accumulated ghosting.
type PageView struct {
	baseView
	page       int
	turns      int
	cachedPage int
	cached     *image.Gray
}

// NewPageView creates a page view over rect starting at page (0-based).
func NewPageView(rect Rect, page int) *PageView {
	return &PageView{
		baseView:   newBaseView(ViewID{Kind: KindPage, Seq: NextID()}, rect),
		page:       page,
		cachedPage: -1,
	}
}

// Page returns the current 0-based page number.
func (p *PageView) Page() int { return p.page }

// HandleEvent turns the page on west/east swipes. West (right to left)
// advances, matching the reading direction. Holding the page returns to
// the library browser.
func (p *PageView) HandleEvent(evt Event, _ Hub, bus *Bus, rq *RenderQueue, ctx *Context) bool {
	if _, ok := evt.(Hold); ok {
		bus.Push(Browse{})
		return true
	}
	swipe, ok := evt.(Swipe)
	if !ok || ctx.Document == nil {
		return false
	}
	next := p.page
	switch swipe.Dir {
	case DirWest:
		next++
	case DirEast:
		next--
	default:
		return false
	}
	if next < 0 || next >= ctx.Document.PageCount() {
		return true
	}
	p.page = next
	p.turns++

	mode := RefreshPartial
	interval := ctx.Settings.FullRefreshInterval
	if interval > 0 && p.turns%interval == 0 {
		mode = RefreshFull
	}
	rq.Add(NewRenderData(p.id, p.rect, mode))
	return true
}

// Render rasterizes the current page, centered in the view. Decode failures
// draw an inline error state; they do not take down the paint pass.
func (p *PageView) Render(fb Framebuffer, rect Rect, ctx *Context) {
	FillRect(fb, rect, White)
	if ctx.Document == nil {
		return
	}
	if p.cached == nil || p.cachedPage != p.page {
		img, err := ctx.Document.RenderPage(p.page, p.rect.Width, p.rect.Height)
		if err != nil {
			p.renderError(fb, rect, ctx, err)
			return
		}
		p.cached = img
		p.cachedPage = p.page
	}
	size := p.cached.Bounds().Size()
	offset := image.Pt(
		p.rect.X+(p.rect.Width-size.X)/2,
		p.rect.Y+(p.rect.Height-size.Y)/2,
	)
	target := image.Rectangle{Min: offset, Max: offset.Add(size)}.Intersect(rect.Image())
	draw.Draw(Clipped(fb, rect), target, p.cached, p.cached.Bounds().Min.Add(target.Min.Sub(offset)), draw.Src)
}

func (p *PageView) renderError(fb Framebuffer, rect Rect, ctx *Context, err error) {
	face := ctx.Fonts.Normal
	text := TruncateToWidth(face, "Cannot render page: "+err.Error(), p.rect.Width-2*Em(face))
	width := TextWidth(face, text)
	center := p.rect.Center()
	DrawText(fb, face, Pt{X: center.X - width/2, Y: center.Y}, Black, rect, text)
}

// Resize drops the cached raster so the page re-renders at the new size.
func (p *PageView) Resize(rect Rect, _ Hub, _ *RenderQueue, _ *Context) {
	p.rect = rect
	p.cached = nil
	p.cachedPage = -1
}
