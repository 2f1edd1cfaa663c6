package cadmus

import (
	"fmt"
	"path/filepath"
	"sort"
)

// LibraryView is the book browser: one row per indexed document, most
// recently opened first, with vertical swipes paging through long lists.
// Tapping a row opens that document.
type LibraryView struct {
	baseView
	books  []BookInfo
	offset int // index of the first visible row
}

// NewLibraryView builds a browser over rect from the library index.
func NewLibraryView(rect Rect, library *Library) (*LibraryView, error) {
	books, err := library.All()
	if err != nil {
		return nil, err
	}
	// Most recently opened first; All returns path order.
	sort.SliceStable(books, func(i, j int) bool {
		return books[i].Opened.After(books[j].Opened)
	})
	return &LibraryView{
		baseView: newBaseView(ViewID{Kind: KindLibrary}, rect),
		books:    books,
	}, nil
}

func (l *LibraryView) rowHeight(ctx *Context) int {
	face := ctx.Fonts.Normal
	xHeight := face.Metrics().XHeight.Ceil()
	if xHeight <= 0 {
		xHeight = LineHeight(face) / 2
	}
	return 4 * xHeight
}

func (l *LibraryView) headerHeight(ctx *Context) int {
	return l.rowHeight(ctx) + Em(ctx.Fonts.Normal)/2
}

func (l *LibraryView) visibleRows(ctx *Context) int {
	rows := (l.rect.Height - l.headerHeight(ctx)) / l.rowHeight(ctx)
	if rows < 1 {
		rows = 1
	}
	return rows
}

// rowAt returns the book index under p, or -1.
func (l *LibraryView) rowAt(p Pt, ctx *Context) int {
	top := l.rect.Y + l.headerHeight(ctx)
	if p.Y < top {
		return -1
	}
	index := l.offset + (p.Y-top)/l.rowHeight(ctx)
	if index >= l.offset+l.visibleRows(ctx) || index >= len(l.books) {
		return -1
	}
	return index
}

// HandleEvent opens the tapped book and pages the list on vertical swipes.
// Every pointer event inside the browser is consumed; there is nothing
// meaningful underneath it.
func (l *LibraryView) HandleEvent(evt Event, _ Hub, bus *Bus, rq *RenderQueue, ctx *Context) bool {
	switch e := evt.(type) {
	case Tap:
		if index := l.rowAt(e.Center, ctx); index >= 0 {
			bus.Push(Open{Path: l.books[index].Path})
		}
		return true
	case Swipe:
		switch e.Dir {
		case DirNorth:
			l.scrollBy(l.visibleRows(ctx), rq, ctx)
		case DirSouth:
			l.scrollBy(-l.visibleRows(ctx), rq, ctx)
		}
		return true
	case Hold:
		return true
	}
	return false
}

// scrollBy moves the window over the book list and repaints when it moved.
func (l *LibraryView) scrollBy(rows int, rq *RenderQueue, ctx *Context) {
	max := len(l.books) - l.visibleRows(ctx)
	if max < 0 {
		max = 0
	}
	offset := l.offset + rows
	if offset > max {
		offset = max
	}
	if offset < 0 {
		offset = 0
	}
	if offset == l.offset {
		return
	}
	l.offset = offset
	rq.Add(NewRenderData(l.id, l.rect, RefreshPartial))
}

// Render draws the header and the visible rows, each with the book title on
// the left and the reading position on the right.
func (l *LibraryView) Render(fb Framebuffer, rect Rect, ctx *Context) {
	FillRect(fb, rect, White)
	face := ctx.Fonts.Normal
	padding := Em(face)
	rowHeight := l.rowHeight(ctx)
	separator := BorderSpec{
		Thickness: ScaleByDPI(ThicknessSmall, ctx.Display.DPI),
		Color:     Gray12,
	}

	header := fmt.Sprintf("Library (%d)", len(l.books))
	baseline := l.rect.Y + (l.headerHeight(ctx)+face.Metrics().Ascent.Ceil())/2
	DrawText(fb, ctx.Fonts.Bold, Pt{X: l.rect.X + padding, Y: baseline}, Black, rect, header)

	if len(l.books) == 0 {
		y := l.rect.Y + l.headerHeight(ctx) + rowHeight
		DrawText(fb, face, Pt{X: l.rect.X + padding, Y: y}, TextLight, rect, "No books indexed yet.")
		return
	}

	top := l.rect.Y + l.headerHeight(ctx)
	for i := 0; i < l.visibleRows(ctx); i++ {
		index := l.offset + i
		if index >= len(l.books) {
			break
		}
		book := l.books[index]
		rowRect := Rect{X: l.rect.X, Y: top + i*rowHeight, Width: l.rect.Width, Height: rowHeight}
		if rowRect.Intersect(rect).IsEmpty() {
			continue
		}

		title := book.Title
		if title == "" || title == book.Path {
			title = filepath.Base(book.Path)
		}
		position := fmt.Sprintf("%d/%d", book.CurrentPage+1, book.Pages)
		if book.Pages == 0 {
			position = "new"
		}
		positionWidth := TextWidth(face, position)

		rowBaseline := rowRect.Y + (rowHeight+face.Metrics().Ascent.Ceil()-face.Metrics().Descent.Ceil())/2
		maxTitleWidth := rowRect.Width - positionWidth - 3*padding
		title = TruncateToWidth(face, title, maxTitleWidth)
		DrawText(fb, face, Pt{X: rowRect.X + padding, Y: rowBaseline}, Black, rect, title)
		DrawText(fb, face, Pt{X: rowRect.X + rowRect.Width - padding - positionWidth, Y: rowBaseline},
			TextLight, rect, position)

		rule := Rect{
			X:      rowRect.X + padding,
			Y:      rowRect.Y + rowHeight - separator.Thickness,
			Width:  rowRect.Width - 2*padding,
			Height: separator.Thickness,
		}
		FillRect(fb, rule.Intersect(rect), separator.Color)
	}
}
