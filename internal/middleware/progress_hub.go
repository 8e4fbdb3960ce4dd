package middleware

import (
	"sync"

	"FundCorr/internal/domain/models"
)

// ProgressHub fans collection progress events out to per-run subscribers.
// Publishing never blocks: a subscriber that cannot keep up loses events,
// never the run itself.
type ProgressHub struct {
	mu      sync.RWMutex
	subs    map[string]map[chan models.ProgressEvent]struct{}
	bufSize int
}

// HubOption configures ProgressHub.
type HubOption func(*ProgressHub)

// WithBufferSize sets the per-subscriber event buffer.
func WithBufferSize(n int) HubOption {
	return func(h *ProgressHub) {
		if n > 0 {
			h.bufSize = n
		}
	}
}

// NewProgressHub creates a new hub.
func NewProgressHub(opts ...HubOption) *ProgressHub {
	h := &ProgressHub{
		subs:    make(map[string]map[chan models.ProgressEvent]struct{}),
		bufSize: 64,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Publish delivers an event to every subscriber of its run.
func (h *ProgressHub) Publish(ev models.ProgressEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[ev.RunID] {
		select {
		case ch <- ev:
		default:
			// drop on backpressure
		}
	}
}

// Subscribe registers a listener for one run. The returned cancel func
// must be called to release the subscription; it closes the channel.
func (h *ProgressHub) Subscribe(runID string) (<-chan models.ProgressEvent, func()) {
	ch := make(chan models.ProgressEvent, h.bufSize)

	h.mu.Lock()
	if h.subs[runID] == nil {
		h.subs[runID] = make(map[chan models.ProgressEvent]struct{})
	}
	h.subs[runID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[runID]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(h.subs, runID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}
