package room

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Room codes avoid 0/O/1/I so they survive being read out loud.
const codeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const codeLen = 4

var ErrRoomNotFound = errors.New("room not found")

// Store owns every live room and sweeps the ones nobody is using.
type Store struct {
	log       *zap.Logger
	idleAfter time.Duration

	mu    sync.Mutex
	rooms map[string]*Room
	rng   *rand.Rand

	stop    chan struct{}
	stopped sync.Once
}

// OnSweep is invoked for each room the sweeper removes, outside the store
// lock. The scheduler uses it to disarm the room's timer.
type OnSweep func(roomID string)

// NewStore creates a store that drops rooms idle longer than idleAfter.
// Call Close to stop the sweeper.
func NewStore(log *zap.Logger, idleAfter time.Duration, sweepEvery time.Duration, onSweep OnSweep) *Store {
	s := &Store{
		log:       log,
		idleAfter: idleAfter,
		rooms:     make(map[string]*Room),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		stop:      make(chan struct{}),
	}
	if sweepEvery > 0 {
		go s.sweepLoop(sweepEvery, onSweep)
	}
	return s
}

// Create makes a room under a fresh code.
func (s *Store) Create() *Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	var code string
	for {
		code = s.genCodeLocked()
		if _, taken := s.rooms[code]; !taken {
			break
		}
	}
	r := newRoom(code, s.log)
	s.rooms[code] = r
	s.log.Info("room created", zap.String("room", code))
	return r
}

// Get looks a room up by code, case-insensitively.
func (s *Store) Get(code string) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[strings.ToUpper(code)]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// Remove drops a room immediately.
func (s *Store) Remove(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[code]; ok {
		delete(s.rooms, code)
		s.log.Info("room removed", zap.String("room", code))
	}
}

// Len returns the number of live rooms.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// Close stops the sweeper.
func (s *Store) Close() {
	s.stopped.Do(func() { close(s.stop) })
}

func (s *Store) genCodeLocked() string {
	var b strings.Builder
	for i := 0; i < codeLen; i++ {
		b.WriteByte(codeChars[s.rng.Intn(len(codeChars))])
	}
	return b.String()
}

func (s *Store) sweepLoop(every time.Duration, onSweep OnSweep) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep(onSweep)
		}
	}
}

// sweep removes rooms that are both empty of humans and idle past the
// deadline. Bot-only rooms fall out this way once their audience leaves.
func (s *Store) sweep(onSweep OnSweep) {
	deadline := time.Now().Add(-s.idleAfter)

	s.mu.Lock()
	var victims []*Room
	for code, r := range s.rooms {
		if r.Empty() && r.IdleSince(deadline) {
			delete(s.rooms, code)
			victims = append(victims, r)
		}
	}
	s.mu.Unlock()

	for _, r := range victims {
		s.log.Info("room swept", zap.String("room", r.ID()))
		if onSweep != nil {
			onSweep(r.ID())
		}
	}
}
