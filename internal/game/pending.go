package game

import "sort"

// PendingKind discriminates the pending-action negotiation shapes.
type PendingKind string

const (
	PendingPayment       PendingKind = "payment"
	PendingPaymentAll    PendingKind = "payment_all"
	PendingStealSet      PendingKind = "steal_set"
	PendingStealProperty PendingKind = "steal_property"
	PendingSwap          PendingKind = "swap"
	PendingChud          PendingKind = "chud"
)

// Duel is one alternating OPSEC exchange between an action's source and one
// responder. Every duel alternates strictly between its two participants
// until someone accepts: each counter flips ResponderID and bumps Blocks.
// Odd parity means the target is currently blocking, so an accept resolves
// the action as blocked; even parity means the target is being asked again,
// so an accept executes (or, in a payment_all chain, re-enters payment).
//
// The single-responder protocol and each payment_all chain share this one
// bookkeeping struct.
type Duel struct {
	SourceID    string `json:"sourceId"`
	TargetID    string `json:"targetId"`
	ResponderID string `json:"responderId"`
	Blocks      int    `json:"blocks"`
}

func newDuel(sourceID, targetID string) *Duel {
	return &Duel{SourceID: sourceID, TargetID: targetID, ResponderID: targetID}
}

// counter records one OPSEC play by the current responder and hands the
// duel to the other participant.
func (d *Duel) counter() {
	d.Blocks++
	if d.ResponderID == d.SourceID {
		d.ResponderID = d.TargetID
	} else {
		d.ResponderID = d.SourceID
	}
}

// blocked reports whether an accept right now resolves the action as
// blocked (no effect). Parity invariant: odd iff the source is responding.
func (d *Duel) blocked() bool {
	return d.Blocks%2 == 1
}

// PendingAction is the in-flight negotiation created when a card's effect
// targets one or more other players. While it is non-nil the turn phase is
// action_response and nobody may play a new card. It is cleared exactly when
// every responder has been resolved.
type PendingAction struct {
	Kind   PendingKind `json:"type"`
	Action ActionKind  `json:"action"`

	SourceID string `json:"sourceId"`
	TargetID string `json:"targetId,omitempty"`
	Amount   int    `json:"amount,omitempty"`
	Color    Color  `json:"color,omitempty"`

	// TargetCardID names the property to steal or swap away; SourceCardID
	// the source's side of a swap.
	TargetCardID string `json:"targetCardId,omitempty"`
	SourceCardID string `json:"myCardId,omitempty"`

	// Duel carries the single-responder negotiation. Nil for payment_all.
	Duel *Duel `json:"duel,omitempty"`

	// Pending and Chains carry the payment_all negotiation: ids that have
	// not responded yet, and one independent duel per original responder
	// who countered. The action clears only when both are empty.
	Pending []string         `json:"pending,omitempty"`
	Chains  map[string]*Duel `json:"opsecChains,omitempty"`
}

// ResponderID returns the single responder currently asked to move, or ""
// for payment_all (where several may be eligible at once).
func (pa *PendingAction) ResponderID() string {
	if pa.Duel != nil {
		return pa.Duel.ResponderID
	}
	return ""
}

func (pa *PendingAction) inPending(id string) bool {
	for _, pid := range pa.Pending {
		if pid == id {
			return true
		}
	}
	return false
}

func (pa *PendingAction) removePending(id string) {
	out := pa.Pending[:0]
	for _, pid := range pa.Pending {
		if pid != id {
			out = append(out, pid)
		}
	}
	pa.Pending = out
}

// Response is a responder's choice for a pending action.
type Response string

const (
	ResponseAccept Response = "accept"
	ResponseOpsec  Response = "opsec"
)

// RespondResult reports how a response advanced the negotiation.
type RespondResult struct {
	// Opsec is set when the response was a counter and the duel continues.
	Opsec bool `json:"opsec,omitempty"`
	// MorePending is set while the pending action still awaits others.
	MorePending bool `json:"morePending,omitempty"`
}

// Respond applies one participant's response to the pending action.
// paymentCardIDs names bank and property cards (by id) used to settle a
// payment; it is ignored for non-payment resolutions.
func (g *Game) Respond(playerID string, response Response, paymentCardIDs []string) (*RespondResult, error) {
	if g.Phase != PhasePlaying {
		return nil, ErrGameFinished
	}
	pa := g.Pending
	if pa == nil {
		return nil, ErrNoPendingAction
	}

	if pa.Kind == PendingPaymentAll {
		return g.respondPaymentAll(pa, playerID, response, paymentCardIDs)
	}

	if pa.Duel == nil || pa.Duel.ResponderID != playerID {
		return nil, ErrNotYourResponse
	}
	responder := g.Player(playerID)

	switch response {
	case ResponseOpsec:
		if err := g.spendOpsecCard(responder); err != nil {
			return nil, err
		}
		pa.Duel.counter()
		g.logf("%s plays OPSEC! %s can counter...", responder.Name, g.Player(pa.Duel.ResponderID).Name)
		return &RespondResult{Opsec: true}, nil

	case ResponseAccept:
		if pa.Duel.blocked() {
			g.logf("Action blocked by OPSEC!")
			g.clearPending()
			return &RespondResult{}, nil
		}
		return g.executeAction(pa, paymentCardIDs)

	default:
		return nil, ErrInvalidResponse
	}
}

// respondPaymentAll handles the simultaneous multi-responder protocol.
// Every player still in Pending may accept (pay) or counter (opening a
// chain); each chain is an independent duel with the source; completion
// requires Pending and Chains both empty. Arrival order does not matter and
// responses never block each other.
func (g *Game) respondPaymentAll(pa *PendingAction, playerID string, response Response, paymentCardIDs []string) (*RespondResult, error) {
	responder := g.Player(playerID)
	if responder == nil {
		return nil, ErrPlayerNotFound
	}
	source := g.Player(pa.SourceID)

	// The source answers one chain at a time, whichever awaits them first.
	if playerID == pa.SourceID {
		// Seat order keeps the choice deterministic when several chains
		// await the source at once.
		chainID := ""
		for _, p := range g.Players {
			if duel, ok := pa.Chains[p.ID]; ok && duel.ResponderID == pa.SourceID {
				chainID = p.ID
				break
			}
		}
		if chainID == "" {
			return nil, ErrNotYourResponse
		}
		duel := pa.Chains[chainID]

		switch response {
		case ResponseAccept:
			// The block stands; that player's obligation is waived.
			g.logf("Action blocked by OPSEC for %s!", g.Player(chainID).Name)
			delete(pa.Chains, chainID)
			return g.finishPaymentAllIfDone(pa), nil
		case ResponseOpsec:
			if err := g.spendOpsecCard(source); err != nil {
				return nil, err
			}
			duel.counter()
			g.logf("%s counters OPSEC! %s can respond...", source.Name, g.Player(chainID).Name)
			return &RespondResult{Opsec: true, MorePending: true}, nil
		default:
			return nil, ErrInvalidResponse
		}
	}

	// A responder whose own chain has come back to them.
	if duel, ok := pa.Chains[playerID]; ok && duel.ResponderID == playerID {
		switch response {
		case ResponseAccept:
			// Concede the duel: back into pending, payment follows.
			delete(pa.Chains, playerID)
			pa.Pending = append(pa.Pending, playerID)
			g.logf("%s accepts and must pay.", responder.Name)
			return &RespondResult{MorePending: true}, nil
		case ResponseOpsec:
			if err := g.spendOpsecCard(responder); err != nil {
				return nil, err
			}
			duel.counter()
			g.logf("%s plays OPSEC again! %s can counter...", responder.Name, source.Name)
			return &RespondResult{Opsec: true, MorePending: true}, nil
		default:
			return nil, ErrInvalidResponse
		}
	}

	if !pa.inPending(playerID) {
		return nil, ErrNotYourResponse
	}

	switch response {
	case ResponseOpsec:
		if err := g.spendOpsecCard(responder); err != nil {
			return nil, err
		}
		pa.removePending(playerID)
		pa.Chains[playerID] = &Duel{
			SourceID:    pa.SourceID,
			TargetID:    playerID,
			ResponderID: pa.SourceID,
			Blocks:      1,
		}
		g.logf("%s plays OPSEC! %s can counter...", responder.Name, source.Name)
		return &RespondResult{Opsec: true, MorePending: true}, nil

	case ResponseAccept:
		if err := g.processPayment(pa, responder, source, paymentCardIDs); err != nil {
			return nil, err
		}
		pa.removePending(playerID)
		return g.finishPaymentAllIfDone(pa), nil

	default:
		return nil, ErrInvalidResponse
	}
}

// finishPaymentAllIfDone clears the pending action once nobody is left in
// Pending and every duel is settled. Partial resolution never clears early.
func (g *Game) finishPaymentAllIfDone(pa *PendingAction) *RespondResult {
	if len(pa.Pending) == 0 && len(pa.Chains) == 0 {
		g.clearPending()
		return &RespondResult{}
	}
	return &RespondResult{MorePending: true}
}

func (g *Game) clearPending() {
	g.Pending = nil
	if g.Phase == PhasePlaying {
		g.TurnPhase = TurnPlay
	}
}

// spendOpsecCard discards one OPSEC card from the player's hand.
func (g *Game) spendOpsecCard(p *Player) error {
	for i, c := range p.Hand {
		if c.Type == CardAction && c.Action == ActionOpsec {
			g.discard(removeHandCard(p, i))
			return nil
		}
	}
	return ErrNoOpsecCard
}

// executeAction applies a single-responder pending action's effect after the
// responder accepted with even parity.
func (g *Game) executeAction(pa *PendingAction, paymentCardIDs []string) (*RespondResult, error) {
	source := g.Player(pa.SourceID)

	switch pa.Kind {
	case PendingPayment:
		payer := g.Player(pa.TargetID)
		if err := g.processPayment(pa, payer, source, paymentCardIDs); err != nil {
			return nil, err
		}
		g.clearPending()
		return &RespondResult{}, nil

	case PendingStealSet:
		target := g.Player(pa.TargetID)
		stolen := target.Properties[pa.Color]
		for _, c := range stolen {
			placeProperty(source, pa.Color, c)
		}
		delete(target.Properties, pa.Color)
		if ups := target.Upgrades[pa.Color]; len(ups) > 0 {
			source.Upgrades[pa.Color] = ups
			delete(target.Upgrades, pa.Color)
		}
		g.logf("%s seized %s's %s set!", source.Name, target.Name, Colors[pa.Color].Name)
		g.checkWin(source.ID)
		g.clearPending()
		return &RespondResult{}, nil

	case PendingStealProperty:
		g.transferProperty(pa, false)
		g.clearPending()
		return &RespondResult{}, nil

	case PendingSwap:
		target := g.Player(pa.TargetID)
		myColor, myIdx := source.findProperty(pa.SourceCardID)
		theirColor, theirIdx := target.findProperty(pa.TargetCardID)
		if myIdx >= 0 && theirIdx >= 0 {
			mine := removeProperty(source, myColor, myIdx)
			theirs := removeProperty(target, theirColor, theirIdx)
			placeProperty(source, theirColor, theirs)
			placeProperty(target, myColor, mine)
			g.dropStaleUpgrades(source, myColor)
			g.dropStaleUpgrades(target, theirColor)
			g.logf("%s swapped properties with %s", source.Name, target.Name)
			g.checkWin(source.ID)
			g.checkWin(target.ID)
		}
		g.clearPending()
		return &RespondResult{}, nil

	case PendingChud:
		g.transferProperty(pa, true)
		if g.Phase == PhaseFinished {
			// The steal won the game; no tax follows.
			return &RespondResult{}, nil
		}
		// The steal half has resolved; the 2M tax is a second, independent
		// negotiation with its own OPSEC opportunity.
		target := g.Player(pa.TargetID)
		g.Pending = &PendingAction{
			Kind:     PendingPayment,
			Action:   ActionChudPayment,
			SourceID: pa.SourceID,
			TargetID: pa.TargetID,
			Amount:   2,
			Duel:     newDuel(pa.SourceID, pa.TargetID),
		}
		g.logf("%s must also pay %s 2M (CHUD tax)", target.Name, source.Name)
		return &RespondResult{MorePending: true}, nil
	}

	g.clearPending()
	return &RespondResult{}, nil
}

// transferProperty moves the stolen card named by the pending action from
// the target to the source, keeping a wild's chosen placement color.
func (g *Game) transferProperty(pa *PendingAction, commandeered bool) {
	source := g.Player(pa.SourceID)
	target := g.Player(pa.TargetID)
	color, idx := target.findProperty(pa.TargetCardID)
	if idx < 0 {
		return
	}
	c := removeProperty(target, color, idx)
	dest := c.PlacedColor
	if dest == "" {
		dest = c.Color
	}
	if dest == "" {
		dest = color
	}
	placeProperty(source, dest, c)
	if commandeered {
		g.logf("%s commandeered %s from %s!", source.Name, c.Name, target.Name)
	} else {
		g.logf("%s requisitioned %s from %s", source.Name, c.Name, target.Name)
	}
	g.dropStaleUpgrades(target, color)
	g.checkWin(source.ID)
}

// processPayment settles one payer's obligation. The selected cards must
// cover the amount unless the payer's entire net worth falls short, in which
// case handing over everything they own settles in full; a payer with zero
// net worth settles with no transfer and no error.
func (g *Game) processPayment(pa *PendingAction, payer, payee *Player, selectedIDs []string) error {
	if len(selectedIDs) == 0 {
		if PlayerTotalValue(payer) == 0 {
			g.logf("%s has nothing to pay!", payer.Name)
			return nil
		}
		return &PaymentDueError{Amount: pa.Amount}
	}

	type propPick struct {
		color Color
		id    string
	}
	var bankIdxs []int
	var propPicks []propPick
	total := 0

	// A duplicated id counts once. Letting it through would double-count
	// the amount and make the index-based bank removal take out a
	// neighboring card.
	seen := make(map[string]struct{}, len(selectedIDs))
	for _, id := range selectedIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		found := false
		for i, c := range payer.Bank {
			if c.ID == id {
				bankIdxs = append(bankIdxs, i)
				total += c.Value
				found = true
				break
			}
		}
		if found {
			continue
		}
		if color, i := payer.findProperty(id); i >= 0 {
			propPicks = append(propPicks, propPick{color: color, id: id})
			total += payer.Properties[color][i].Value
		}
	}

	if total < pa.Amount && total < PlayerTotalValue(payer) {
		return &PaymentDueError{Amount: pa.Amount}
	}

	// Remove bank picks back to front so earlier indices stay valid.
	sort.Sort(sort.Reverse(sort.IntSlice(bankIdxs)))
	for _, idx := range bankIdxs {
		c := payer.Bank[idx]
		payer.Bank = append(payer.Bank[:idx], payer.Bank[idx+1:]...)
		payee.Bank = append(payee.Bank, c)
	}

	for _, pick := range propPicks {
		color, idx := payer.findProperty(pick.id)
		if idx < 0 {
			continue
		}
		c := removeProperty(payer, color, idx)
		dest := c.PlacedColor
		if dest == "" {
			dest = c.Color
		}
		if dest == "" {
			dest = color
		}
		placeProperty(payee, dest, c)
		g.dropStaleUpgrades(payer, pick.color)
	}

	g.logf("%s paid %dM to %s", payer.Name, total, payee.Name)
	g.checkWin(payee.ID)
	return nil
}
