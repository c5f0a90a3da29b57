package game

// DrawResult reports the outcome of the draw phase.
type DrawResult struct {
	Cards []*Card `json:"cards"`
	// AutoWin is set when the player already held 3 completed sets at the
	// start of the draw (gained on an opponent's turn) and won before
	// drawing anything.
	AutoWin bool `json:"autoWin,omitempty"`
}

// Draw executes the draw phase for the current player: 2 cards, or 5 when
// the hand is empty, reshuffling the discard pile into the deck if needed.
func (g *Game) Draw(playerID string) (*DrawResult, error) {
	if g.Phase != PhasePlaying {
		return nil, ErrGameFinished
	}
	p := g.CurrentPlayer()
	if p.ID != playerID {
		return nil, ErrNotYourTurn
	}
	if g.TurnPhase != TurnDraw {
		return nil, ErrWrongPhase
	}

	// Sets gained from a payment or swap on a previous player's turn are
	// honored before any card moves.
	if g.checkWin(p.ID) {
		return &DrawResult{AutoWin: true}, nil
	}

	count := 2
	if len(p.Hand) == 0 {
		count = 5
	}
	g.reshuffleIfNeeded(count)

	drawn := make([]*Card, 0, count)
	for i := 0; i < count && len(g.Deck) > 0; i++ {
		c := g.popDeck()
		p.Hand = append(p.Hand, c)
		drawn = append(drawn, c)
	}

	g.TurnPhase = TurnPlay
	g.PlaysRemaining = playsPerTurn
	g.logf("%s drew %d cards.", p.Name, len(drawn))
	return &DrawResult{Cards: drawn}, nil
}

// EndTurn hands the turn to the next non-eliminated player. If the hand
// exceeds the limit the player must name the discards first; the call fails
// closed with DiscardRequiredError and the turn pointer does not move.
func (g *Game) EndTurn(playerID string, discardIDs []string) error {
	if g.Phase != PhasePlaying {
		return ErrGameFinished
	}
	p := g.CurrentPlayer()
	if p.ID != playerID {
		return ErrNotYourTurn
	}
	if g.TurnPhase == TurnActionResponse {
		return ErrPendingAction
	}

	if excess := len(p.Hand) - handLimit; excess > 0 {
		if len(discardIDs) == 0 {
			return &DiscardRequiredError{Excess: excess}
		}
		if len(discardIDs) != excess {
			return &DiscardRequiredError{Excess: excess}
		}
		for _, id := range discardIDs {
			i := p.handIndexByID(id)
			if i < 0 {
				continue
			}
			g.discard(removeHandCard(p, i))
		}
	}

	g.SurgeOps = false
	g.advanceToNextActive()
	g.TurnPhase = TurnDraw
	g.PlaysRemaining = playsPerTurn
	g.logf("%s's turn", g.CurrentPlayer().Name)
	return nil
}

// ForceAdvanceTurn moves the turn pointer unconditionally. It exists as the
// never-block-forward-progress escape hatch for timeout and absence
// handling; callers log its use as an anomaly.
func (g *Game) ForceAdvanceTurn() {
	g.SurgeOps = false
	g.Pending = nil
	g.advanceToNextActive()
	g.TurnPhase = TurnDraw
	g.PlaysRemaining = playsPerTurn
	g.logf("%s's turn", g.CurrentPlayer().Name)
}

// advanceToNextActive rotates the turn pointer past eliminated players.
// Bounded by the seat count so cascading eliminations terminate.
func (g *Game) advanceToNextActive() {
	n := len(g.Players)
	for i := 0; i < n; i++ {
		g.CurrentPlayerIndex = (g.CurrentPlayerIndex + 1) % n
		if !g.Players[g.CurrentPlayerIndex].Eliminated {
			return
		}
	}
}

// Scoop eliminates a player by voluntary forfeit or forced removal: every
// card they own goes to the discard pile, any pending action naming them is
// force-resolved, and the turn pointer advances if it was theirs.
func (g *Game) Scoop(playerID string) error {
	p := g.Player(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if p.Eliminated {
		return ErrEliminated
	}

	for len(p.Hand) > 0 {
		g.discard(removeHandCard(p, len(p.Hand)-1))
	}
	for len(p.Bank) > 0 {
		g.discard(p.Bank[len(p.Bank)-1])
		p.Bank = p.Bank[:len(p.Bank)-1]
	}
	for _, color := range ColorOrder {
		for len(p.Properties[color]) > 0 {
			g.discard(removeProperty(p, color, len(p.Properties[color])-1))
		}
	}
	p.Properties = make(map[Color][]*Card)
	p.Upgrades = make(map[Color][]Upgrade)
	p.Eliminated = true
	g.logf("%s scooped! All cards discarded.", p.Name)

	g.resolvePendingForScoop(playerID)

	wasMyTurn := g.CurrentPlayer().ID == playerID
	if wasMyTurn {
		g.SurgeOps = false
		g.Pending = nil
		g.TurnPhase = TurnDraw
		g.PlaysRemaining = playsPerTurn
	}

	active := make([]*Player, 0, len(g.Players))
	for _, x := range g.Players {
		if !x.Eliminated {
			active = append(active, x)
		}
	}
	if len(active) <= 1 {
		if len(active) == 1 {
			g.Phase = PhaseFinished
			g.Winner = active[0].ID
			g.logf("%s wins with all other players scooped!", active[0].Name)
		}
		return nil
	}

	if wasMyTurn {
		g.advanceToNextActive()
		g.logf("%s's turn", g.CurrentPlayer().Name)
	}
	return nil
}

// resolvePendingForScoop drains a scooping player out of the pending action:
// as source the action is cancelled, as sole responder it is auto-resolved,
// and in a payment_all batch they are removed from pending and every duel
// that names them, without payment.
func (g *Game) resolvePendingForScoop(playerID string) {
	pa := g.Pending
	if pa == nil {
		return
	}

	if pa.SourceID == playerID {
		g.Pending = nil
		g.TurnPhase = TurnPlay
		return
	}

	if pa.Kind == PendingPaymentAll {
		pa.removePending(playerID)
		delete(pa.Chains, playerID)
		for pid, duel := range pa.Chains {
			if duel.ResponderID == playerID {
				delete(pa.Chains, pid)
			}
		}
		g.finishPaymentAllIfDone(pa)
		return
	}

	if pa.Duel != nil && pa.Duel.TargetID == playerID {
		g.Pending = nil
		g.TurnPhase = TurnPlay
	}
}
