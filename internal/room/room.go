package room

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chudopoly/server-go/internal/bot"
	"github.com/chudopoly/server-go/internal/game"
)

// Phase is the room lifecycle phase. A room starts in the lobby, moves to
// playing when the host starts the game, and stays there until swept.
type Phase string

const (
	PhaseLobby   Phase = "lobby"
	PhasePlaying Phase = "playing"
)

const (
	maxPlayers = 5
	minPlayers = 2
)

var (
	ErrRoomFull       = errors.New("room is full")
	ErrGameInProgress = errors.New("game already in progress")
	ErrGameNotStarted = errors.New("game not started")
	ErrNotHost        = errors.New("only the host can do that")
	ErrTooFewPlayers  = errors.New("need at least 2 players")
	ErrUnknownSeat    = errors.New("player not in room")
)

// Client delivers outbound frames to one connected player. Send must not
// block; implementations buffer or drop.
type Client interface {
	Send(msg []byte)
}

// Participant is one seat in a room. A bot seat has IsBot set and a nil
// Client; a human seat loses its Client on disconnect but keeps the seat,
// so a reconnect can resume it.
type Participant struct {
	ID     string
	Name   string
	IsBot  bool
	Policy bot.Policy

	client Client
}

// Connected reports whether the seat currently has a live connection. Bot
// seats are always considered connected.
func (p *Participant) Connected() bool {
	return p.IsBot || p.client != nil
}

// Room is one lobby-or-game with its seats. All access to the seats and
// the game state goes through the room's lock; the game engine itself is
// single-threaded.
type Room struct {
	code string
	log  *zap.Logger

	mu         sync.Mutex
	phase      Phase
	hostID     string
	seats      []*Participant
	game       *game.Game
	lastActive time.Time
}

// The scheduler drives rooms directly.
var _ bot.Table = (*Room)(nil)

func newRoom(code string, log *zap.Logger) *Room {
	return &Room{
		code:       code,
		log:        log.With(zap.String("room", code)),
		phase:      PhaseLobby,
		lastActive: time.Now(),
	}
}

// ID returns the room code.
func (r *Room) ID() string { return r.code }

// AddHuman seats a new human player. The first player to join becomes the
// host.
func (r *Room) AddHuman(name string, c Client) (*Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseLobby {
		return nil, ErrGameInProgress
	}
	if len(r.seats) >= maxPlayers {
		return nil, ErrRoomFull
	}
	if name == "" {
		name = fmt.Sprintf("Player %d", len(r.seats)+1)
	}
	p := &Participant{ID: uuid.NewString(), Name: name, client: c}
	r.seats = append(r.seats, p)
	if r.hostID == "" {
		r.hostID = p.ID
	}
	r.touch()
	r.log.Info("player joined", zap.String("player", p.Name), zap.Int("seats", len(r.seats)))
	return p, nil
}

// AddBot seats a bot with the given policy. Only the host may add bots.
func (r *Room) AddBot(byID string, policy bot.Policy) (*Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseLobby {
		return nil, ErrGameInProgress
	}
	if byID != r.hostID {
		return nil, ErrNotHost
	}
	if len(r.seats) >= maxPlayers {
		return nil, ErrRoomFull
	}
	name := fmt.Sprintf("%s Bot %d", policyLabel(policy), r.botCountLocked()+1)
	p := &Participant{ID: uuid.NewString(), Name: name, IsBot: true, Policy: policy}
	r.seats = append(r.seats, p)
	r.touch()
	r.log.Info("bot added", zap.String("policy", string(policy)), zap.String("name", name))
	return p, nil
}

func policyLabel(p bot.Policy) string {
	switch p {
	case bot.PolicyRandom:
		return "Random"
	case bot.PolicyConservative:
		return "Conservative"
	case bot.PolicyAggressive:
		return "Aggressive"
	case bot.PolicyChud:
		return "Chud"
	default:
		return "Neutral"
	}
}

func (r *Room) botCountLocked() int {
	n := 0
	for _, p := range r.seats {
		if p.IsBot {
			n++
		}
	}
	return n
}

// Start creates the game from the current seats, in join order. Only the
// host may start, and only with at least two seats.
func (r *Room) Start(byID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseLobby {
		return ErrGameInProgress
	}
	if byID != r.hostID {
		return ErrNotHost
	}
	if len(r.seats) < minPlayers {
		return ErrTooFewPlayers
	}

	seats := make([]game.Seat, len(r.seats))
	for i, p := range r.seats {
		seats[i] = game.Seat{ID: p.ID, Name: p.Name}
	}
	r.game = game.NewGame(seats)
	r.phase = PhasePlaying
	r.touch()
	r.log.Info("game started", zap.Int("players", len(seats)))
	return nil
}

// Do runs fn with exclusive access to the game state. fn receives nil when
// no game has started.
func (r *Room) Do(fn func(g *game.Game)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	fn(r.game)
}

// Policies snapshots the seats the scheduler may drive: every bot, plus a
// neutral stand-in for any disconnected human so the game never stalls.
// The scheduler revalidates at fire time, so a reconnect reclaims the seat
// before the stand-in moves. Snapshotting keeps the scheduler off r.mu
// while it holds the game via Do.
func (r *Room) Policies() map[string]bot.Policy {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]bot.Policy, len(r.seats))
	for _, p := range r.seats {
		switch {
		case p.IsBot:
			out[p.ID] = p.Policy
		case p.client == nil:
			out[p.ID] = bot.PolicyNeutral
		}
	}
	return out
}

// PolicyFor reports the policy driving one seat, ok=false for a connected
// human or an unknown id.
func (r *Room) PolicyFor(playerID string) (bot.Policy, bool) {
	p, ok := r.Policies()[playerID]
	return p, ok
}

// Attach points a seat at a new connection, resuming it after a
// disconnect.
func (r *Room) Attach(playerID string, c Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.seats {
		if p.ID == playerID && !p.IsBot {
			p.client = c
			r.touch()
			return nil
		}
	}
	return ErrUnknownSeat
}

// Detach drops a seat's connection. The seat stays so the game can go on
// and the player can reconnect. Returns true when no human connection is
// left in the room.
func (r *Room) Detach(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.seats {
		if p.ID == playerID {
			p.client = nil
			r.log.Info("player disconnected", zap.String("player", p.Name))
		}
	}
	for _, p := range r.seats {
		if !p.IsBot && p.client != nil {
			return false
		}
	}
	return true
}

// RoomState is the per-player outbound snapshot: the lobby roster plus the
// viewer's projection of the game, when one is running.
type RoomState struct {
	Type    string           `json:"type"`
	Code    string           `json:"code"`
	Phase   Phase            `json:"phase"`
	HostID  string           `json:"hostId"`
	Players []RosterEntry    `json:"players"`
	Game    *game.PlayerView `json:"game,omitempty"`
}

// RosterEntry is one seat as shown to everyone.
type RosterEntry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsBot     bool   `json:"isBot,omitempty"`
	Connected bool   `json:"connected"`
}

// Broadcast sends every connected human its own view of the room.
func (r *Room) Broadcast() {
	r.mu.Lock()
	defer r.mu.Unlock()

	roster := make([]RosterEntry, len(r.seats))
	for i, p := range r.seats {
		roster[i] = RosterEntry{ID: p.ID, Name: p.Name, IsBot: p.IsBot, Connected: p.Connected()}
	}

	for _, p := range r.seats {
		if p.client == nil {
			continue
		}
		st := RoomState{
			Type:    "state",
			Code:    r.code,
			Phase:   r.phase,
			HostID:  r.hostID,
			Players: roster,
		}
		if r.game != nil {
			st.Game = r.game.View(p.ID)
		}
		buf, err := json.Marshal(&st)
		if err != nil {
			r.log.Error("state marshal failed", zap.Error(err))
			return
		}
		p.client.Send(buf)
	}
}

// IdleSince reports whether the room has seen no activity since the
// deadline.
func (r *Room) IdleSince(deadline time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastActive.Before(deadline)
}

// Empty reports whether no human connection remains.
func (r *Room) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.seats {
		if !p.IsBot && p.client != nil {
			return false
		}
	}
	return true
}

func (r *Room) touch() {
	r.lastActive = time.Now()
}
