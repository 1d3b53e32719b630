package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	startedAt time.Time
	count     int
}

// FixedWindow counts requests per key inside the process. Counters reset on
// restart and are not shared between instances.
type FixedWindow struct {
	Config
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

func NewFixedWindow(cfg Config) *FixedWindow {
	return &FixedWindow{
		Config:  cfg,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

func (w *FixedWindow) Allow(_ context.Context, key string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	current := w.now()
	win, ok := w.windows[key]
	if !ok || current.Sub(win.startedAt) >= w.Window {
		w.sweep(current)
		win = &window{startedAt: current}
		w.windows[key] = win
	}

	if win.count >= w.Limit {
		return false, nil
	}
	win.count++
	return true, nil
}

// sweep drops finished windows once the map grows. Caller holds mu.
func (w *FixedWindow) sweep(current time.Time) {
	if len(w.windows) < 4096 {
		return
	}
	for k, win := range w.windows {
		if current.Sub(win.startedAt) >= w.Window {
			delete(w.windows, k)
		}
	}
}
