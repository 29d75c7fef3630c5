package iconcontainer

import (
	"sort"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
)

// FyneScheduler runs callbacks on the fyne UI goroutine.
type FyneScheduler struct{}

func (s FyneScheduler) Idle(fn func()) func() {
	return s.AfterFunc(0, fn)
}

func (FyneScheduler) AfterFunc(d time.Duration, fn func()) func() {
	var cancelled atomic.Bool
	t := time.AfterFunc(d, func() {
		fyne.Do(func() {
			if cancelled.Load() {
				return
			}
			fn()
		})
	})
	return func() {
		cancelled.Store(true)
		t.Stop()
	}
}

type scheduledFunc struct {
	at        time.Duration
	seq       int
	fn        func()
	cancelled bool
}

// ManualScheduler queues callbacks until the caller runs them with Flush or
// Advance. It drives a Container without an event loop.
type ManualScheduler struct {
	now    time.Duration
	seq    int
	idle   []*scheduledFunc
	timers []*scheduledFunc
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) Idle(fn func()) func() {
	f := &scheduledFunc{at: s.now, seq: s.next(), fn: fn}
	s.idle = append(s.idle, f)
	return func() { f.cancelled = true }
}

func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) func() {
	f := &scheduledFunc{at: s.now + d, seq: s.next(), fn: fn}
	s.timers = append(s.timers, f)
	return func() { f.cancelled = true }
}

func (s *ManualScheduler) next() int {
	s.seq++
	return s.seq
}

// Flush runs idle callbacks until none are queued, including any queued by
// the callbacks themselves. It returns how many ran.
func (s *ManualScheduler) Flush() int {
	ran := 0
	for len(s.idle) > 0 {
		f := s.idle[0]
		s.idle = s.idle[1:]
		if f.cancelled {
			continue
		}
		f.cancelled = true
		f.fn()
		ran++
	}
	return ran
}

// Advance moves the clock forward by d, firing due timers in deadline order
// and flushing idle work after each one.
func (s *ManualScheduler) Advance(d time.Duration) {
	target := s.now + d
	s.Flush()
	for {
		s.pruneTimers()
		if len(s.timers) == 0 || s.timers[0].at > target {
			break
		}
		f := s.timers[0]
		s.timers = s.timers[1:]
		s.now = f.at
		f.cancelled = true
		f.fn()
		s.Flush()
	}
	s.now = target
}

// Pending reports how many callbacks are still queued.
func (s *ManualScheduler) Pending() int {
	n := 0
	for _, f := range s.idle {
		if !f.cancelled {
			n++
		}
	}
	for _, f := range s.timers {
		if !f.cancelled {
			n++
		}
	}
	return n
}

func (s *ManualScheduler) pruneTimers() {
	live := s.timers[:0]
	for _, f := range s.timers {
		if !f.cancelled {
			live = append(live, f)
		}
	}
	s.timers = live
	sort.Slice(s.timers, func(i, j int) bool {
		if s.timers[i].at != s.timers[j].at {
			return s.timers[i].at < s.timers[j].at
		}
		return s.timers[i].seq < s.timers[j].seq
	})
}
