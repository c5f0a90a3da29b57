package bot

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chudopoly/server-go/internal/game"
)

// Table is the scheduler's view of a room with a running game. Do runs fn
// with exclusive access to the game state; Broadcast pushes fresh views to
// every participant. Do and Policies typically share one lock, so the
// scheduler only ever calls Policies outside Do.
type Table interface {
	ID() string
	Do(fn func(g *game.Game))
	// Policies snapshots the seats the scheduler may drive, as seat id to
	// policy. Seats held by connected humans are absent.
	Policies() map[string]Policy
	Broadcast()
}

// Scheduler arms at most one timer per table and, when it fires, performs
// exactly one bot step (a draw, a single play, an end-turn, or a response
// to a pending action), then re-arms. State is revalidated at fire time
// since humans may have acted while the timer was pending.
type Scheduler struct {
	log    *zap.Logger
	delays DelayTable

	mu     sync.Mutex
	rng    *rand.Rand
	timers map[string]*time.Timer
	closed bool
}

// NewScheduler creates a scheduler using the given delay table. A nil
// table gets DefaultDelays.
func NewScheduler(log *zap.Logger, delays DelayTable) *Scheduler {
	if delays == nil {
		delays = DefaultDelays()
	}
	return &Scheduler{
		log:    log,
		delays: delays,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		timers: make(map[string]*time.Timer),
	}
}

// Kick examines the table and arms a timer if a bot has the next move.
// Call it after every state change. It is a no-op when a timer is already
// armed for the table, when the game is over, or when a human is to move.
func (s *Scheduler) Kick(t Table) {
	policies := t.Policies()
	if len(policies) == 0 {
		return
	}

	var botID string
	var kind DelayKind
	var policy Policy

	t.Do(func(g *game.Game) {
		botID, kind, policy = s.nextBotMove(g, policies)
	})
	if botID == "" {
		return
	}

	delay := s.sample(policy, kind)

	s.mu.Lock()
	if s.closed || s.timers[t.ID()] != nil {
		s.mu.Unlock()
		return
	}
	s.timers[t.ID()] = time.AfterFunc(delay, func() {
		s.fire(t, botID, kind, policy)
	})
	s.mu.Unlock()

	s.log.Debug("bot move scheduled",
		zap.String("room", t.ID()),
		zap.String("bot", botID),
		zap.String("kind", string(kind)),
		zap.String("policy", string(policy)),
		zap.Duration("delay", delay))
}

// Cancel disarms the table's pending timer, if any.
func (s *Scheduler) Cancel(tableID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer := s.timers[tableID]; timer != nil {
		timer.Stop()
		delete(s.timers, tableID)
	}
}

// Shutdown stops every pending timer and refuses new ones.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

func (s *Scheduler) sample(policy Policy, kind DelayKind) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delays.Sample(policy, kind, s.rng)
}

func (s *Scheduler) randFloat() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// nextBotMove finds the bot whose move the game is waiting on. Pending
// responses take priority over the current player's turn.
func (s *Scheduler) nextBotMove(g *game.Game, policies map[string]Policy) (string, DelayKind, Policy) {
	if g == nil || g.Phase != game.PhasePlaying {
		return "", "", ""
	}

	if pa := g.Pending; pa != nil {
		// Unanswered payment_all members first, in seat order.
		for _, p := range g.Players {
			if !containsID(pa.Pending, p.ID) {
				continue
			}
			if policy, ok := policies[p.ID]; ok {
				return p.ID, DelayRespond, policy
			}
		}
		for _, p := range g.Players {
			for _, chain := range pa.Chains {
				if chain.ResponderID == p.ID {
					if policy, ok := policies[p.ID]; ok {
						return p.ID, DelayRespond, policy
					}
				}
			}
		}
		if id := pa.ResponderID(); id != "" {
			if policy, ok := policies[id]; ok {
				return id, DelayRespond, policy
			}
		}
		// Waiting on a human.
		return "", "", ""
	}

	cp := g.CurrentPlayer()
	if cp == nil || cp.Eliminated {
		return "", "", ""
	}
	policy, ok := policies[cp.ID]
	if !ok {
		return "", "", ""
	}
	if g.TurnPhase == game.TurnDraw {
		return cp.ID, DelayDraw, policy
	}
	return cp.ID, DelayPlay, policy
}

// fire runs one bot step. The move is revalidated under the table lock:
// when the state moved on while the timer was pending, the step is skipped
// and the scheduler simply re-kicks.
func (s *Scheduler) fire(t Table, botID string, kind DelayKind, policy Policy) {
	s.mu.Lock()
	delete(s.timers, t.ID())
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}

	policies := t.Policies()
	changed := false
	t.Do(func(g *game.Game) {
		stillID, stillKind, _ := s.nextBotMove(g, policies)
		if stillID != botID || stillKind != kind {
			return
		}
		switch kind {
		case DelayRespond:
			changed = s.respond(g, botID, policy)
		default:
			changed = s.turnStep(g, botID, policy)
		}
	})

	if changed {
		t.Broadcast()
	}
	s.Kick(t)
}

// turnStep performs the draw, one play, or the end of turn.
func (s *Scheduler) turnStep(g *game.Game, botID string, policy Policy) bool {
	if g.TurnPhase == game.TurnDraw {
		if _, err := g.Draw(botID); err != nil {
			s.log.Warn("bot draw failed", zap.String("bot", botID), zap.Error(err))
			return false
		}
		return true
	}

	// Chud sometimes walks away with plays on the table.
	endEarly := policy == PolicyChud && g.PlaysRemaining > 0 && s.randFloat() < 0.4

	if !endEarly {
		rng := s.lockedRand()
		play := Decide(g, botID, policy, rng)
		if play != nil {
			if s.execute(g, botID, play) {
				return true
			}
		}
	}
	return s.endTurn(g, botID, policy)
}

func (s *Scheduler) execute(g *game.Game, botID string, play *Play) bool {
	var err error
	switch play.Type {
	case PlayProperty:
		err = g.PlayProperty(botID, play.CardIndex, play.Target.TargetColor)
	case PlayMoney:
		err = g.PlayAsMoney(botID, play.CardIndex)
	case PlayAction:
		err = g.PlayAction(botID, play.CardIndex, play.Target)
	}
	if err != nil {
		s.log.Warn("bot play rejected",
			zap.String("bot", botID),
			zap.String("type", string(play.Type)),
			zap.Error(err))
		return false
	}
	return true
}

func (s *Scheduler) endTurn(g *game.Game, botID string, policy Policy) bool {
	bot := g.Player(botID)
	if bot == nil {
		return false
	}
	var discards []string
	if excess := len(bot.Hand) - 7; excess > 0 {
		discards = ChooseDiscards(bot, excess, policy, s.lockedRand())
	}
	if err := g.EndTurn(botID, discards); err != nil {
		// Should not happen; keep the game moving rather than stall it.
		s.log.Warn("bot end turn failed, forcing advance",
			zap.String("bot", botID), zap.Error(err))
		g.ForceAdvanceTurn()
	}
	return true
}

// respond answers the pending action for the bot, blocking with OPSEC when
// the policy calls for it and paying otherwise.
func (s *Scheduler) respond(g *game.Game, botID string, policy Policy) bool {
	pa := g.Pending
	bot := g.Player(botID)
	if pa == nil || bot == nil {
		return false
	}
	rng := s.lockedRand()

	if HasOpsec(bot) && ShouldBlock(pa, policy, botID, rng) {
		if _, err := g.Respond(botID, game.ResponseOpsec, nil); err == nil {
			return true
		}
		// Fall through to accept.
	}

	var payIDs []string
	if pa.Amount > 0 {
		payIDs = SelectPayment(bot, pa.Amount, policy, rng)
	}
	_, err := g.Respond(botID, game.ResponseAccept, payIDs)
	if err != nil {
		var due *game.PaymentDueError
		if errors.As(err, &due) {
			// Short selection; hand over everything payable.
			_, err = g.Respond(botID, game.ResponseAccept, AllPayableCardIDs(bot))
		}
	}
	if err != nil {
		s.log.Warn("bot response failed", zap.String("bot", botID), zap.Error(err))
		return false
	}
	return true
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// lockedRand returns a rand.Rand safe for this call. Timer callbacks run
// concurrently across tables, so each caller gets its own source seeded
// from the shared one.
func (s *Scheduler) lockedRand() *rand.Rand {
	s.mu.Lock()
	seed := s.rng.Int63()
	s.mu.Unlock()
	return rand.New(rand.NewSource(seed))
}
