package dataset

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	variation "github.com/goliatone/go-variation"
)

type hotel struct {
	ID   string
	Name string
	City string
	Tier string
}

func (h hotel) RecordID() string       { return h.ID }
func (h hotel) RecordName() string     { return h.Name }
func (h hotel) SearchFields() []string { return []string{h.Name, h.City} }

func (h hotel) FilterValue(field string) (string, bool) {
	switch field {
	case "city":
		return h.City, true
	case "tier":
		return h.Tier, true
	}
	return "", false
}

var errUpstream = errors.New("upstream unavailable")

// fakeLoader returns three hotels per seed and fails for seeds in failing.
type fakeLoader struct {
	calls   atomic.Int32
	mu      sync.Mutex
	failing map[int]bool
	gate    chan struct{}
}

func (l *fakeLoader) Load(_ context.Context, domain string, seed int) ([]hotel, error) {
	l.calls.Add(1)
	if l.gate != nil {
		<-l.gate
	}
	l.mu.Lock()
	fail := l.failing[seed]
	l.mu.Unlock()
	if fail {
		return nil, errUpstream
	}
	out := make([]hotel, 3)
	for i := range out {
		out[i] = hotel{
			ID:   fmt.Sprintf("%d", seed*10+i),
			Name: fmt.Sprintf("%s %d-%d", domain, seed, i),
			City: []string{"Lisbon", "Oslo", "Lima"}[i],
			Tier: "standard",
		}
	}
	return out, nil
}

func (l *fakeLoader) fail(seed int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failing == nil {
		l.failing = map[int]bool{}
	}
	l.failing[seed] = true
}

// recorder captures subscriber notifications.
type recorder struct {
	mu    sync.Mutex
	lists [][]hotel
}

func (r *recorder) record(records []hotel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists = append(r.lists, records)
}

func (r *recorder) sizes() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.lists))
	for i, list := range r.lists {
		out[i] = len(list)
	}
	return out
}

func (r *recorder) last() []hotel {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.lists) == 0 {
		return nil
	}
	return r.lists[len(r.lists)-1]
}

const (
	waitTimeout  = time.Second
	pollInterval = 5 * time.Millisecond
)

func loggerCounting(warnings *int) variation.Logger {
	return variation.LoggerFunc(func(event variation.LogEvent) {
		if event.Level == variation.LogLevelWarn {
			*warnings++
		}
	})
}
