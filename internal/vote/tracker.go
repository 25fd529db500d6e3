package vote

import "sync"

// Key identifies a votable item. Post and comment ids share one id space on the
// server, but they are kept apart here so a bad id never blocks the wrong item.
type Key struct {
	ID        int64
	IsComment bool
}

// Tracker serializes votes per item by rejecting a second vote while one is in flight.
type Tracker struct {
	inFlight map[Key]struct{}
	mu       sync.Mutex
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{inFlight: make(map[Key]struct{})}
}

// Acquire marks the item busy. It returns a release func, or ErrInFlight if
// the item already has a vote in flight.
func (t *Tracker) Acquire(key Key) (func(), error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, busy := t.inFlight[key]; busy {
		return nil, ErrInFlight
	}
	t.inFlight[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.inFlight, key)
			t.mu.Unlock()
		})
	}, nil
}

// Busy reports whether the item has a vote in flight.
func (t *Tracker) Busy(key Key) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, busy := t.inFlight[key]
	return busy
}
