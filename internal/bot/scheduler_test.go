package bot

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/chudopoly/server-go/internal/game"
)

// fakeTable serializes game access with a plain mutex, the way the room
// layer does, and counts broadcasts.
type fakeTable struct {
	id       string
	policies map[string]Policy

	mu         sync.Mutex
	g          *game.Game
	broadcasts int
}

func (t *fakeTable) ID() string { return t.id }

func (t *fakeTable) Do(fn func(g *game.Game)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.g)
}

// Policies takes the same lock as Do, like the real room does, so calling
// it from inside Do would deadlock here exactly as it would in production.
func (t *fakeTable) Policies() map[string]Policy {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]Policy, len(t.policies))
	for id, p := range t.policies {
		out[id] = p
	}
	return out
}

func (t *fakeTable) Broadcast() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.broadcasts++
}

// fastDelays keeps every window at a millisecond or two so the tests run
// in real time without stalling.
func fastDelays() DelayTable {
	return DefaultDelays().Scale(0.001)
}

func newBotTable(t *testing.T, policies map[string]Policy, seats ...game.Seat) *fakeTable {
	t.Helper()
	return &fakeTable{
		id:       "tbl-" + t.Name(),
		policies: policies,
		g:        game.NewGame(seats, game.WithSeed(11)),
	}
}

func TestSchedulerDrivesBotOnlyGame(t *testing.T) {
	tbl := newBotTable(t,
		map[string]Policy{"b1": PolicyNeutral, "b2": PolicyAggressive},
		game.Seat{ID: "b1", Name: "b1"}, game.Seat{ID: "b2", Name: "b2"})
	s := NewScheduler(zaptest.NewLogger(t), fastDelays())
	defer s.Shutdown()

	s.Kick(tbl)

	// The match self-drives: every fire re-kicks, so the log keeps growing
	// without anyone touching the table.
	require.Eventually(t, func() bool {
		done := false
		tbl.Do(func(g *game.Game) {
			done = g.Phase == game.PhaseFinished || len(g.Log) > 60
		})
		return done
	}, 30*time.Second, 5*time.Millisecond, "two bots should play unattended")

	tbl.Do(func(g *game.Game) {
		if g.Phase == game.PhaseFinished {
			assert.NotEmpty(t, g.Winner)
		}
	})
	tbl.mu.Lock()
	assert.Greater(t, tbl.broadcasts, 0)
	tbl.mu.Unlock()
}

func TestSchedulerIgnoresHumanTurn(t *testing.T) {
	tbl := newBotTable(t,
		map[string]Policy{"bot": PolicyNeutral},
		game.Seat{ID: "human", Name: "human"}, game.Seat{ID: "bot", Name: "bot"})
	s := NewScheduler(zaptest.NewLogger(t), fastDelays())
	defer s.Shutdown()

	s.Kick(tbl)
	time.Sleep(50 * time.Millisecond)

	tbl.Do(func(g *game.Game) {
		assert.Equal(t, game.TurnDraw, g.TurnPhase, "nothing moves while a human is up")
	})
	tbl.mu.Lock()
	assert.Zero(t, tbl.broadcasts)
	tbl.mu.Unlock()
}

func TestSchedulerCancelDisarmsTimer(t *testing.T) {
	tbl := newBotTable(t,
		map[string]Policy{"b1": PolicyNeutral, "b2": PolicyNeutral},
		game.Seat{ID: "b1", Name: "b1"}, game.Seat{ID: "b2", Name: "b2"})
	// Generous real delays so Cancel lands before the timer fires.
	s := NewScheduler(zaptest.NewLogger(t), DefaultDelays())
	defer s.Shutdown()

	s.Kick(tbl)
	s.Cancel(tbl.ID())
	time.Sleep(20 * time.Millisecond)

	tbl.Do(func(g *game.Game) {
		assert.Equal(t, game.TurnDraw, g.TurnPhase)
	})
}

func TestSchedulerShutdownStopsNewTimers(t *testing.T) {
	tbl := newBotTable(t,
		map[string]Policy{"b1": PolicyNeutral, "b2": PolicyNeutral},
		game.Seat{ID: "b1", Name: "b1"}, game.Seat{ID: "b2", Name: "b2"})
	s := NewScheduler(zaptest.NewLogger(t), fastDelays())

	s.Shutdown()
	s.Kick(tbl)
	time.Sleep(20 * time.Millisecond)

	tbl.Do(func(g *game.Game) {
		assert.Equal(t, game.TurnDraw, g.TurnPhase)
	})
}

func TestSchedulerKickIsIdempotentWhileArmed(t *testing.T) {
	tbl := newBotTable(t,
		map[string]Policy{"b1": PolicyNeutral, "b2": PolicyNeutral},
		game.Seat{ID: "b1", Name: "b1"}, game.Seat{ID: "b2", Name: "b2"})
	s := NewScheduler(zaptest.NewLogger(t), DefaultDelays())
	defer s.Shutdown()

	s.Kick(tbl)
	s.Kick(tbl)
	s.Kick(tbl)

	s.mu.Lock()
	assert.Len(t, s.timers, 1)
	s.mu.Unlock()
}
