package game

import "time"

// Owner tags scheduled events so they can be cancelled together.
// Boss generations start at 1; zero is the level director.
type Owner uint64

const ownerLevel Owner = 0

type event struct {
	at    time.Duration
	seq   uint64
	owner Owner
	fn    func()
}

// Scheduler runs deferred actions against the game clock. It lives inside
// the game, so nothing fires unless the game ticks.
type Scheduler struct {
	events []event
	seq    uint64
}

// Schedule queues fn to run on the first tick at or after at.
func (s *Scheduler) Schedule(at time.Duration, owner Owner, fn func()) {
	s.seq++
	s.events = append(s.events, event{at: at, seq: s.seq, owner: owner, fn: fn})
}

// RunDue runs every event due at now in time order, ties in scheduling
// order. Events scheduled by a running event run too if already due.
func (s *Scheduler) RunDue(now time.Duration) int {
	ran := 0
	for {
		next := -1
		for i, e := range s.events {
			if e.at > now {
				continue
			}
			if next < 0 || e.at < s.events[next].at ||
				(e.at == s.events[next].at && e.seq < s.events[next].seq) {
				next = i
			}
		}
		if next < 0 {
			return ran
		}
		e := s.events[next]
		s.events = append(s.events[:next], s.events[next+1:]...)
		e.fn()
		ran++
	}
}

// Cancel drops every pending event of owner and returns how many.
func (s *Scheduler) Cancel(owner Owner) int {
	kept := s.events[:0]
	for _, e := range s.events {
		if e.owner != owner {
			kept = append(kept, e)
		}
	}
	n := len(s.events) - len(kept)
	clear(s.events[len(kept):])
	s.events = kept
	return n
}

// CancelAll drops every pending event.
func (s *Scheduler) CancelAll() {
	clear(s.events)
	s.events = s.events[:0]
}

// Pending returns how many events of owner are queued.
func (s *Scheduler) Pending(owner Owner) int {
	n := 0
	for _, e := range s.events {
		if e.owner == owner {
			n++
		}
	}
	return n
}

// Len returns the number of queued events.
func (s *Scheduler) Len() int {
	return len(s.events)
}
