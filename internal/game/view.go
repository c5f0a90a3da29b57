package game

// logTail caps the log slice included in player views.
const logTail = 20

// PlayerView is the per-player projection of the game state: the viewer's
// own hand in full, opponents' hands as counts only, and the visible board.
type PlayerView struct {
	Phase           GamePhase      `json:"phase"`
	TurnPhase       TurnPhase      `json:"turnPhase"`
	CurrentPlayerID string         `json:"currentPlayerId"`
	PlaysRemaining  int            `json:"playsRemaining"`
	DeckCount       int            `json:"deckCount"`
	DiscardTop      *Card          `json:"discardTop,omitempty"`
	DiscardPile     []*Card        `json:"discardPile"`
	Pending         *PendingAction `json:"pendingAction,omitempty"`
	Winner          string         `json:"winner,omitempty"`
	SurgeOps        bool           `json:"surgeOps"`
	Log             []string       `json:"log"`
	Players         []PlayerBoard  `json:"players"`
}

// PlayerBoard is one player's visible holdings within a view.
type PlayerBoard struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	HandCount     int                 `json:"handCount"`
	Hand          []*Card             `json:"hand,omitempty"`
	Bank          []*Card             `json:"bank"`
	Properties    map[Color][]*Card   `json:"properties"`
	Upgrades      map[Color][]Upgrade `json:"upgrades"`
	CompletedSets int                 `json:"completedSets"`
	Eliminated    bool                `json:"eliminated"`
}

// View produces the projection for one viewer. The returned slices alias
// game state; callers marshal it before the next mutation.
func (g *Game) View(viewerID string) *PlayerView {
	v := &PlayerView{
		Phase:           g.Phase,
		TurnPhase:       g.TurnPhase,
		CurrentPlayerID: g.CurrentPlayer().ID,
		PlaysRemaining:  g.PlaysRemaining,
		DeckCount:       len(g.Deck),
		Pending:         g.Pending,
		Winner:          g.Winner,
		SurgeOps:        g.SurgeOps,
	}

	// Discard pile newest first, top card called out for UI convenience.
	if n := len(g.DiscardPile); n > 0 {
		v.DiscardTop = g.DiscardPile[n-1]
		v.DiscardPile = make([]*Card, 0, n)
		for i := n - 1; i >= 0; i-- {
			v.DiscardPile = append(v.DiscardPile, g.DiscardPile[i])
		}
	} else {
		v.DiscardPile = []*Card{}
	}

	if n := len(g.Log); n > logTail {
		v.Log = g.Log[n-logTail:]
	} else {
		v.Log = g.Log
	}

	for _, p := range g.Players {
		board := PlayerBoard{
			ID:            p.ID,
			Name:          p.Name,
			HandCount:     len(p.Hand),
			Bank:          p.Bank,
			Properties:    p.Properties,
			Upgrades:      p.Upgrades,
			CompletedSets: CompletedSets(p),
			Eliminated:    p.Eliminated,
		}
		if p.ID == viewerID {
			board.Hand = p.Hand
		}
		v.Players = append(v.Players, board)
	}
	return v
}
