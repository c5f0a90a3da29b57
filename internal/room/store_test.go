package room

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestStore(t *testing.T, idleAfter time.Duration) *Store {
	t.Helper()
	// sweepEvery 0 keeps the background sweeper off; tests call sweep
	// directly.
	s := NewStore(zaptest.NewLogger(t), idleAfter, 0, nil)
	t.Cleanup(s.Close)
	return s
}

func TestCreateAssignsReadableCode(t *testing.T) {
	s := newTestStore(t, time.Hour)
	r := s.Create()

	assert.Len(t, r.ID(), codeLen)
	for _, ch := range r.ID() {
		assert.Contains(t, codeChars, string(ch))
	}
	assert.Equal(t, 1, s.Len())
}

func TestGetIsCaseInsensitive(t *testing.T) {
	s := newTestStore(t, time.Hour)
	r := s.Create()

	got, err := s.Get(strings.ToLower(r.ID()))
	require.NoError(t, err)
	assert.Same(t, r, got)

	_, err = s.Get("ZZZZZZ")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRemove(t *testing.T) {
	s := newTestStore(t, time.Hour)
	r := s.Create()
	s.Remove(r.ID())

	assert.Equal(t, 0, s.Len())
	_, err := s.Get(r.ID())
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestSweepDropsIdleEmptyRooms(t *testing.T) {
	s := newTestStore(t, time.Millisecond)

	idle := s.Create()
	busy := s.Create()
	_, err := busy.AddHuman("host", &fakeClient{})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	var swept []string
	s.sweep(func(roomID string) { swept = append(swept, roomID) })

	assert.Equal(t, []string{idle.ID()}, swept)
	assert.Equal(t, 1, s.Len())
	_, err = s.Get(busy.ID())
	assert.NoError(t, err)
}

func TestSweepSparesRecentlyActiveRooms(t *testing.T) {
	s := newTestStore(t, time.Hour)
	s.Create()

	s.sweep(nil)
	assert.Equal(t, 1, s.Len(), "empty but not idle long enough")
}
