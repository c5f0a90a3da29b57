package game

// ActionTarget carries the optional targeting parameters of an action play.
type ActionTarget struct {
	TargetID     string `json:"targetId,omitempty"`
	TargetColor  Color  `json:"targetColor,omitempty"`
	TargetCardID string `json:"targetCardId,omitempty"`
	MyCardID     string `json:"myCardId,omitempty"`
}

// checkPlay validates the common preconditions of any card play and returns
// the acting player.
func (g *Game) checkPlay(playerID string, cardIndex int) (*Player, error) {
	if g.Phase != PhasePlaying {
		return nil, ErrGameFinished
	}
	p := g.Player(playerID)
	if p == nil || p.ID != g.CurrentPlayer().ID {
		return nil, ErrNotYourTurn
	}
	if g.TurnPhase != TurnPlay {
		return nil, ErrWrongPhase
	}
	if g.PlaysRemaining <= 0 {
		return nil, ErrNoPlaysRemaining
	}
	if cardIndex < 0 || cardIndex >= len(p.Hand) {
		return nil, ErrInvalidCard
	}
	return p, nil
}

// PlayAsMoney banks a non-property card for its face value.
func (g *Game) PlayAsMoney(playerID string, cardIndex int) error {
	p, err := g.checkPlay(playerID, cardIndex)
	if err != nil {
		return err
	}
	card := p.Hand[cardIndex]
	if card.IsProperty() {
		return ErrInvalidCard
	}

	removeHandCard(p, cardIndex)
	p.Bank = append(p.Bank, card)
	g.PlaysRemaining--
	g.logf("%s banked %s (%dM)", p.Name, card.Name, card.Value)
	return nil
}

// PlayProperty places a property card. Wilds require a target color the
// card is eligible for.
func (g *Game) PlayProperty(playerID string, cardIndex int, targetColor Color) error {
	p, err := g.checkPlay(playerID, cardIndex)
	if err != nil {
		return err
	}
	card := p.Hand[cardIndex]
	if !card.IsProperty() {
		return ErrInvalidCard
	}

	color := card.Color
	if card.Type == CardWildProperty {
		if targetColor == "" {
			return ErrInvalidTarget
		}
		if !card.CanPlaceOn(targetColor) {
			return ErrInvalidTarget
		}
		color = targetColor
	}

	removeHandCard(p, cardIndex)
	placeProperty(p, color, card)
	g.PlaysRemaining--
	g.logf("%s played %s on %s", p.Name, card.Name, Colors[color].Name)
	g.checkWin(p.ID)
	return nil
}

// PlayAction plays an action or rent card. Actions that target another
// player open a pending negotiation and move the game to action_response;
// self-contained actions resolve immediately.
func (g *Game) PlayAction(playerID string, cardIndex int, tgt ActionTarget) error {
	p, err := g.checkPlay(playerID, cardIndex)
	if err != nil {
		return err
	}
	card := p.Hand[cardIndex]

	if card.Type == CardRent {
		return g.playRent(p, cardIndex, card, tgt)
	}
	if card.Type != CardAction {
		return ErrInvalidCard
	}

	switch card.Action {
	case ActionPCSOrders:
		g.spendAction(p, cardIndex, card)
		g.reshuffleIfNeeded(2)
		drawn := 0
		for i := 0; i < 2 && len(g.Deck) > 0; i++ {
			p.Hand = append(p.Hand, g.popDeck())
			drawn++
		}
		g.logf("%s played PCS Orders and drew %d cards", p.Name, drawn)
		return nil

	case ActionFinanceOffice:
		target, err := g.actionTarget(p, tgt.TargetID)
		if err != nil {
			return err
		}
		g.spendAction(p, cardIndex, card)
		g.openPending(&PendingAction{
			Kind:     PendingPayment,
			Action:   ActionFinanceOffice,
			SourceID: p.ID,
			TargetID: target.ID,
			Amount:   5,
			Duel:     newDuel(p.ID, target.ID),
		})
		g.logf("%s demands 5M from %s (Finance Office)", p.Name, target.Name)
		return nil

	case ActionRollCall:
		g.spendAction(p, cardIndex, card)
		g.openPending(&PendingAction{
			Kind:     PendingPaymentAll,
			Action:   ActionRollCall,
			SourceID: p.ID,
			Amount:   2,
			Pending:  g.opponentIDs(p.ID),
			Chains:   make(map[string]*Duel),
		})
		g.logf("%s calls Roll Call and everyone pays 2M!", p.Name)
		return nil

	case ActionInspectorGeneral:
		target, err := g.actionTarget(p, tgt.TargetID)
		if err != nil {
			return err
		}
		if tgt.TargetColor == "" || !IsSetComplete(target, tgt.TargetColor) {
			return ErrInvalidTarget
		}
		g.spendAction(p, cardIndex, card)
		g.openPending(&PendingAction{
			Kind:     PendingStealSet,
			Action:   ActionInspectorGeneral,
			SourceID: p.ID,
			TargetID: target.ID,
			Color:    tgt.TargetColor,
			Duel:     newDuel(p.ID, target.ID),
		})
		g.logf("%s plays Inspector General on %s's %s set!", p.Name, target.Name, Colors[tgt.TargetColor].Name)
		return nil

	case ActionMidnightRequisition:
		target, err := g.actionTarget(p, tgt.TargetID)
		if err != nil {
			return err
		}
		color, idx := target.findProperty(tgt.TargetCardID)
		if idx < 0 || IsSetComplete(target, color) {
			return ErrInvalidTarget
		}
		stolen := target.Properties[color][idx]
		g.spendAction(p, cardIndex, card)
		g.openPending(&PendingAction{
			Kind:         PendingStealProperty,
			Action:       ActionMidnightRequisition,
			SourceID:     p.ID,
			TargetID:     target.ID,
			TargetCardID: tgt.TargetCardID,
			Color:        color,
			Duel:         newDuel(p.ID, target.ID),
		})
		g.logf("%s plays Midnight Requisition on %s's %s", p.Name, target.Name, stolen.Name)
		return nil

	case ActionTDYOrders:
		target, err := g.actionTarget(p, tgt.TargetID)
		if err != nil {
			return err
		}
		if tgt.MyCardID == "" || tgt.TargetCardID == "" {
			return ErrInvalidTarget
		}
		if _, idx := p.findProperty(tgt.MyCardID); idx < 0 {
			return ErrInvalidTarget
		}
		if _, idx := target.findProperty(tgt.TargetCardID); idx < 0 {
			return ErrInvalidTarget
		}
		g.spendAction(p, cardIndex, card)
		g.openPending(&PendingAction{
			Kind:         PendingSwap,
			Action:       ActionTDYOrders,
			SourceID:     p.ID,
			TargetID:     target.ID,
			TargetCardID: tgt.TargetCardID,
			SourceCardID: tgt.MyCardID,
			Duel:         newDuel(p.ID, target.ID),
		})
		g.logf("%s plays TDY Orders on %s: property swap!", p.Name, target.Name)
		return nil

	case ActionUpgrade:
		if tgt.TargetColor == "" || !IsSetComplete(p, tgt.TargetColor) {
			return ErrInvalidTarget
		}
		if p.HasUpgrade(tgt.TargetColor, UpgradeHouse) {
			return ErrInvalidTarget
		}
		g.spendAction(p, cardIndex, card)
		p.Upgrades[tgt.TargetColor] = append(p.Upgrades[tgt.TargetColor], UpgradeHouse)
		g.logf("%s upgraded %s (+3M rent)", p.Name, Colors[tgt.TargetColor].Name)
		return nil

	case ActionFOC:
		if tgt.TargetColor == "" || !IsSetComplete(p, tgt.TargetColor) {
			return ErrInvalidTarget
		}
		if !p.HasUpgrade(tgt.TargetColor, UpgradeHouse) || p.HasUpgrade(tgt.TargetColor, UpgradeHotel) {
			return ErrInvalidTarget
		}
		g.spendAction(p, cardIndex, card)
		p.Upgrades[tgt.TargetColor] = append(p.Upgrades[tgt.TargetColor], UpgradeHotel)
		g.logf("%s achieves FOC on %s (+4M rent)", p.Name, Colors[tgt.TargetColor].Name)
		return nil

	case ActionSurgeOps:
		g.spendAction(p, cardIndex, card)
		g.SurgeOps = true
		g.logf("%s activates Surge Operations: next rent is doubled!", p.Name)
		return nil

	case ActionChud:
		target, err := g.actionTarget(p, tgt.TargetID)
		if err != nil {
			return err
		}
		color, idx := target.findProperty(tgt.TargetCardID)
		if idx < 0 {
			return ErrInvalidTarget
		}
		stolen := target.Properties[color][idx]
		g.spendAction(p, cardIndex, card)
		g.openPending(&PendingAction{
			Kind:         PendingChud,
			Action:       ActionChud,
			SourceID:     p.ID,
			TargetID:     target.ID,
			TargetCardID: tgt.TargetCardID,
			Color:        color,
			Amount:       2,
			Duel:         newDuel(p.ID, target.ID),
		})
		g.logf("%s plays THE CHUD CARD on %s's %s!", p.Name, target.Name, stolen.Name)
		return nil

	case ActionOpsec:
		// Purely reactive; playable only through Respond.
		return ErrInvalidCard
	}

	return ErrInvalidCard
}

// playRent charges every living opponent rent for one of the player's
// colors, doubled once if surge is active.
func (g *Game) playRent(p *Player, cardIndex int, card *Card, tgt ActionTarget) error {
	if tgt.TargetColor == "" {
		return ErrInvalidTarget
	}
	eligible := false
	for _, col := range card.RentColors() {
		if col == tgt.TargetColor {
			eligible = true
			break
		}
	}
	if !eligible {
		return ErrInvalidTarget
	}
	if len(p.Properties[tgt.TargetColor]) == 0 {
		return ErrInvalidTarget
	}

	rent := CalcRent(p, tgt.TargetColor)
	if g.SurgeOps {
		rent *= 2
		g.SurgeOps = false
	}

	g.spendAction(p, cardIndex, card)
	g.openPending(&PendingAction{
		Kind:     PendingPaymentAll,
		Action:   ActionRentCharge,
		SourceID: p.ID,
		Amount:   rent,
		Color:    tgt.TargetColor,
		Pending:  g.opponentIDs(p.ID),
		Chains:   make(map[string]*Duel),
	})
	g.logf("%s charges %dM rent on %s", p.Name, rent, Colors[tgt.TargetColor].Name)
	return nil
}

// MoveProperty relocates a placed wild card to another eligible color during
// the owner's own play phase. Rent on the vacated color retiers immediately
// and upgrades that lost their completed set are discarded.
func (g *Game) MoveProperty(playerID, cardID string, toColor Color) error {
	if g.Phase != PhasePlaying {
		return ErrGameFinished
	}
	p := g.Player(playerID)
	if p == nil || p.ID != g.CurrentPlayer().ID {
		return ErrNotYourTurn
	}
	if g.TurnPhase != TurnPlay {
		return ErrWrongPhase
	}
	if _, ok := Colors[toColor]; !ok {
		return ErrInvalidTarget
	}

	fromColor, idx := p.findProperty(cardID)
	if idx < 0 {
		return ErrInvalidCard
	}
	card := p.Properties[fromColor][idx]
	if fromColor == toColor {
		return ErrInvalidTarget
	}
	if card.Type != CardWildProperty {
		return ErrInvalidCard
	}
	if !card.CanPlaceOn(toColor) {
		return ErrInvalidTarget
	}

	removeProperty(p, fromColor, idx)
	placeProperty(p, toColor, card)
	g.dropStaleUpgrades(p, fromColor)
	g.logf("%s moved %s to %s", p.Name, card.Name, Colors[toColor].Name)
	g.checkWin(p.ID)
	return nil
}

// spendAction removes the card from hand, discards it, and consumes a play.
// Upgrade and FOC markers are recorded on the set while the card itself
// still goes to the discard pile, so no card is ever destroyed.
func (g *Game) spendAction(p *Player, cardIndex int, card *Card) {
	removeHandCard(p, cardIndex)
	g.discard(card)
	g.PlaysRemaining--
}

// openPending installs the negotiation and freezes further plays.
func (g *Game) openPending(pa *PendingAction) {
	g.Pending = pa
	g.TurnPhase = TurnActionResponse
}

// actionTarget validates an opposing target id.
func (g *Game) actionTarget(p *Player, targetID string) (*Player, error) {
	if targetID == "" {
		return nil, ErrInvalidTarget
	}
	target := g.Player(targetID)
	if target == nil || target.ID == p.ID || target.Eliminated {
		return nil, ErrInvalidTarget
	}
	return target, nil
}

// opponentIDs lists living opponents in seat order.
func (g *Game) opponentIDs(id string) []string {
	ids := make([]string, 0, len(g.Players))
	for _, p := range g.Players {
		if p.ID != id && !p.Eliminated {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
