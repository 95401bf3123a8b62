package app

import "sync"

// ProgressEvent summarizes one scored submission for live feedback.
type ProgressEvent struct {
	ScreenID         string `json:"screenId"`
	CorrectCount     int    `json:"correct"`
	Percentage       int    `json:"percentage"`
	Badge            string `json:"badge,omitempty"`
	Score            int    `json:"score"`
	CompletedScreens int    `json:"completedScreens"`
	TotalScreens     int    `json:"totalScreens"`
	Complete         bool   `json:"complete"`
}

// progressHub fans out progress events to per-session subscribers.
type progressHub struct {
	mu          sync.Mutex
	subscribers map[string]map[chan ProgressEvent]struct{}
}

func newProgressHub() *progressHub {
	return &progressHub{
		subscribers: make(map[string]map[chan ProgressEvent]struct{}),
	}
}

func (h *progressHub) subscribe(sessionID string) (<-chan ProgressEvent, func()) {
	ch := make(chan ProgressEvent, 8)

	h.mu.Lock()
	subs, ok := h.subscribers[sessionID]
	if !ok {
		subs = make(map[chan ProgressEvent]struct{})
		h.subscribers[sessionID] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if subs, ok := h.subscribers[sessionID]; ok {
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}
			if len(subs) == 0 {
				delete(h.subscribers, sessionID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *progressHub) publish(sessionID string, event ProgressEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers[sessionID] {
		select {
		case ch <- event:
		default:
			// Drop the stale event so a slow reader never blocks submission handling.
			select {
			case <-ch:
			default:
			}
			ch <- event
		}
	}
}
