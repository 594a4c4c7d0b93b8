package monitor

import (
	"context"
	"sync"
)

// Store keeps the latest reading and forwards new ones to subscribers.
type Store struct {
	mx      sync.RWMutex
	latest  Reading
	has     bool
	nextID  int
	subs    map[int]chan Reading
	bufSize int
}

func NewStore() *Store {
	return &Store{subs: make(map[int]chan Reading), bufSize: 8}
}

func (s *Store) Publish(ctx context.Context, r Reading) {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.latest = r
	s.has = true
	for _, ch := range s.subs {
		// slow subscribers miss readings rather than stall the poller
		select {
		case ch <- r:
		default:
		}
	}
}

func (s *Store) Latest() (Reading, bool) {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.latest, s.has
}

// Subscribe returns a channel of future readings and a cancel func that
// closes it.
func (s *Store) Subscribe() (<-chan Reading, func()) {
	s.mx.Lock()
	defer s.mx.Unlock()
	id := s.nextID
	s.nextID++
	ch := make(chan Reading, s.bufSize)
	s.subs[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mx.Lock()
			delete(s.subs, id)
			close(ch)
			s.mx.Unlock()
		})
	}
}
