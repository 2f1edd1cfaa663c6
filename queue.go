package cadmus

// RefreshMode selects the e-ink update strategy for a flush, ordered by
// visual cost. A cheap mode is fast but leaves ghosting; RefreshFull flashes
// the whole waveform and clears it.
type RefreshMode uint8

const (
	RefreshFastMono RefreshMode = iota // monochrome toggle, fastest, ghosts
	RefreshPartial                     // standard partial refresh
	RefreshFull                        // full-panel flash, slowest
)

// String returns the mode name used in logs and flush records.
func (m RefreshMode) String() string {
	switch m {
	case RefreshFastMono:
		return "fastmono"
	case RefreshPartial:
		return "partial"
	case RefreshFull:
		return "full"
	default:
		return "unknown"
	}
}

// Max returns the more expensive of two modes.
func (m RefreshMode) Max(other RefreshMode) RefreshMode {
	if other > m {
		return other
	}
	return m
}

// Hub is the channel asynchronous producers post events on: notification
// timers, download workers, the input source. The host loop is the sole
// receiver.
type Hub chan<- Event

// Send posts an event without ever blocking the caller. Events for a
// closed loop, or for a loop so far behind that its buffer is full, are
// dropped; producers like notification timers must not hang on a stalled
// receiver.
func (h Hub) Send(e Event) {
	defer func() { _ = recover() }()
	select {
	case h <- e:
	default:
	}
}

// Bus collects follow-up events emitted by views during a dispatch pass.
// Its contents are never redispatched within the emitting pass; the host
// loop drains it after dispatch and appends to the back of its own queue,
// preserving single-event-in-flight semantics.
type Bus struct {
	events []Event
}

// Push appends a follow-up event in emission order.
func (b *Bus) Push(e Event) {
	b.events = append(b.events, e)
}

// Drain returns the queued events and resets the bus.
func (b *Bus) Drain() []Event {
	events := b.events
	b.events = nil
	return events
}

// Len returns the number of queued events.
func (b *Bus) Len() int {
	return len(b.events)
}

// RenderData is one paint request: redraw Rect and flush it with at least
// Mode. ID records the requesting view for logs and tracing only.
type RenderData struct {
	ID   uint32
	Rect Rect
	Mode RefreshMode
}

// NewRenderData builds a paint request.
func NewRenderData(id uint32, rect Rect, mode RefreshMode) RenderData {
	return RenderData{ID: id, Rect: rect, Mode: mode}
}

// RenderQueue accumulates paint requests during a dispatch pass. It is
// drained and reset by every paint pass; requests never survive a cycle.
type RenderQueue struct {
	queue []RenderData
}

// Add appends a paint request. Empty regions are ignored.
func (rq *RenderQueue) Add(rd RenderData) {
	if rd.Rect.IsEmpty() {
		return
	}
	rq.queue = append(rq.queue, rd)
}

// Len returns the number of pending requests.
func (rq *RenderQueue) Len() int {
	return len(rq.queue)
}

// drain returns the pending requests and resets the queue.
func (rq *RenderQueue) drain() []RenderData {
	queue := rq.queue
	rq.queue = nil
	return queue
}
