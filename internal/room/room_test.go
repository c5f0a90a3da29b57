package room

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/chudopoly/server-go/internal/bot"
	"github.com/chudopoly/server-go/internal/game"
)

// fakeClient collects outbound frames for inspection.
type fakeClient struct {
	frames [][]byte
}

func (c *fakeClient) Send(msg []byte) { c.frames = append(c.frames, msg) }

func (c *fakeClient) lastState(t *testing.T) RoomState {
	t.Helper()
	require.NotEmpty(t, c.frames)
	var st RoomState
	require.NoError(t, json.Unmarshal(c.frames[len(c.frames)-1], &st))
	return st
}

func newTestRoom(t *testing.T) *Room {
	t.Helper()
	return newRoom("TEST", zaptest.NewLogger(t))
}

func TestAddHumanSeatsAndHost(t *testing.T) {
	r := newTestRoom(t)

	first, err := r.AddHuman("", &fakeClient{})
	require.NoError(t, err)
	assert.Equal(t, "Player 1", first.Name)
	assert.Equal(t, first.ID, r.hostID, "first joiner hosts")

	second, err := r.AddHuman("Maize", &fakeClient{})
	require.NoError(t, err)
	assert.Equal(t, "Maize", second.Name)
	assert.Equal(t, first.ID, r.hostID, "host does not move")
}

func TestAddHumanRoomFull(t *testing.T) {
	r := newTestRoom(t)
	for i := 0; i < 5; i++ {
		_, err := r.AddHuman("", &fakeClient{})
		require.NoError(t, err)
	}
	_, err := r.AddHuman("late", &fakeClient{})
	assert.ErrorIs(t, err, ErrRoomFull)
}

func TestAddBotHostOnlyAndNaming(t *testing.T) {
	r := newTestRoom(t)
	host, err := r.AddHuman("host", &fakeClient{})
	require.NoError(t, err)
	guest, err := r.AddHuman("guest", &fakeClient{})
	require.NoError(t, err)

	_, err = r.AddBot(guest.ID, bot.PolicyNeutral)
	assert.ErrorIs(t, err, ErrNotHost)

	b1, err := r.AddBot(host.ID, bot.PolicyNeutral)
	require.NoError(t, err)
	assert.Equal(t, "Neutral Bot 1", b1.Name)
	assert.True(t, b1.IsBot)

	b2, err := r.AddBot(host.ID, bot.PolicyChud)
	require.NoError(t, err)
	assert.Equal(t, "Chud Bot 2", b2.Name)
}

func TestStartChecksHostAndHeadcount(t *testing.T) {
	r := newTestRoom(t)
	host, _ := r.AddHuman("host", &fakeClient{})

	assert.ErrorIs(t, r.Start(host.ID), ErrTooFewPlayers)

	guest, _ := r.AddHuman("guest", &fakeClient{})
	assert.ErrorIs(t, r.Start(guest.ID), ErrNotHost)

	require.NoError(t, r.Start(host.ID))
	assert.ErrorIs(t, r.Start(host.ID), ErrGameInProgress)

	_, err := r.AddHuman("late", &fakeClient{})
	assert.ErrorIs(t, err, ErrGameInProgress)

	r.Do(func(g *game.Game) {
		require.NotNil(t, g)
		require.Len(t, g.Players, 2)
		assert.Equal(t, host.ID, g.Players[0].ID, "seat order is join order")
		assert.Equal(t, guest.ID, g.Players[1].ID)
	})
}

func TestPolicyFor(t *testing.T) {
	r := newTestRoom(t)
	host, _ := r.AddHuman("host", &fakeClient{})
	b, _ := r.AddBot(host.ID, bot.PolicyAggressive)

	policy, ok := r.PolicyFor(b.ID)
	assert.True(t, ok)
	assert.Equal(t, bot.PolicyAggressive, policy)

	_, ok = r.PolicyFor(host.ID)
	assert.False(t, ok, "connected humans drive themselves")
	_, ok = r.PolicyFor("nobody")
	assert.False(t, ok)

	r.Detach(host.ID)
	policy, ok = r.PolicyFor(host.ID)
	assert.True(t, ok, "a disconnected human gets a stand-in")
	assert.Equal(t, bot.PolicyNeutral, policy)

	require.NoError(t, r.Attach(host.ID, &fakeClient{}))
	_, ok = r.PolicyFor(host.ID)
	assert.False(t, ok)
}

func TestDetachKeepsSeatForRejoin(t *testing.T) {
	r := newTestRoom(t)
	host, _ := r.AddHuman("host", &fakeClient{})
	guest, _ := r.AddHuman("guest", &fakeClient{})

	assert.False(t, r.Detach(guest.ID), "host is still connected")
	assert.False(t, r.Empty())
	assert.True(t, r.Detach(host.ID), "last human gone")
	assert.True(t, r.Empty())

	require.NoError(t, r.Attach(guest.ID, &fakeClient{}))
	assert.False(t, r.Empty())

	assert.ErrorIs(t, r.Attach("nobody", &fakeClient{}), ErrUnknownSeat)
}

func TestBroadcastSendsOwnViewToEachHuman(t *testing.T) {
	r := newTestRoom(t)
	hc, gc := &fakeClient{}, &fakeClient{}
	host, _ := r.AddHuman("host", hc)
	guest, _ := r.AddHuman("guest", gc)
	require.NoError(t, r.Start(host.ID))

	r.Broadcast()

	hs := hc.lastState(t)
	gs := gc.lastState(t)
	assert.Equal(t, "state", hs.Type)
	assert.Equal(t, "TEST", hs.Code)
	assert.Equal(t, PhasePlaying, hs.Phase)
	require.Len(t, hs.Players, 2)
	require.NotNil(t, hs.Game)
	require.NotNil(t, gs.Game)

	// Each view exposes only the viewer's own hand.
	for _, pb := range hs.Game.Players {
		if pb.ID == host.ID {
			assert.Len(t, pb.Hand, 5)
		} else {
			assert.Empty(t, pb.Hand)
			assert.Equal(t, 5, pb.HandCount)
		}
	}
	for _, pb := range gs.Game.Players {
		if pb.ID == guest.ID {
			assert.Len(t, pb.Hand, 5)
		}
	}
}

func TestBroadcastSkipsDisconnectedSeats(t *testing.T) {
	r := newTestRoom(t)
	hc := &fakeClient{}
	host, _ := r.AddHuman("host", hc)
	gc := &fakeClient{}
	guest, _ := r.AddHuman("guest", gc)
	r.Detach(guest.ID)

	r.Broadcast()
	assert.NotEmpty(t, hc.frames)
	assert.Empty(t, gc.frames)

	st := hc.lastState(t)
	for _, entry := range st.Players {
		if entry.ID == guest.ID {
			assert.False(t, entry.Connected)
		}
		if entry.ID == host.ID {
			assert.True(t, entry.Connected)
		}
	}
}

func TestSchedulerDrivesRoomDirectly(t *testing.T) {
	r := newTestRoom(t)
	host, err := r.AddHuman("host", &fakeClient{})
	require.NoError(t, err)
	_, err = r.AddBot(host.ID, bot.PolicyNeutral)
	require.NoError(t, err)
	_, err = r.AddBot(host.ID, bot.PolicyAggressive)
	require.NoError(t, err)
	require.NoError(t, r.Start(host.ID))

	// With the host gone every seat is scheduler-driven.
	r.Detach(host.ID)

	sched := bot.NewScheduler(zaptest.NewLogger(t), bot.DefaultDelays().Scale(0.001))
	defer sched.Shutdown()
	sched.Kick(r)

	// Kick and every fire take the room's own lock through Do, Policies,
	// and Broadcast; the game only progresses if that never deadlocks.
	require.Eventually(t, func() bool {
		n := 0
		r.Do(func(g *game.Game) { n = len(g.Log) })
		return n > 20
	}, 15*time.Second, 5*time.Millisecond)
}

func TestPoliciesSnapshot(t *testing.T) {
	r := newTestRoom(t)
	host, _ := r.AddHuman("host", &fakeClient{})
	b, _ := r.AddBot(host.ID, bot.PolicyChud)

	got := r.Policies()
	assert.Equal(t, map[string]bot.Policy{b.ID: bot.PolicyChud}, got)

	r.Detach(host.ID)
	got = r.Policies()
	assert.Equal(t, bot.PolicyNeutral, got[host.ID], "disconnected human gets the stand-in")

	// The snapshot is a copy; later changes to it do not touch the room.
	got[b.ID] = bot.PolicyRandom
	policy, ok := r.PolicyFor(b.ID)
	require.True(t, ok)
	assert.Equal(t, bot.PolicyChud, policy)
}
