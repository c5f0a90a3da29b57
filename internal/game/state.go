package game

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// GamePhase is the coarse lifecycle of a game.
type GamePhase string

const (
	PhasePlaying  GamePhase = "playing"
	PhaseFinished GamePhase = "finished"
)

// TurnPhase is the fine-grained state within one player's turn.
type TurnPhase string

const (
	TurnDraw           TurnPhase = "draw"
	TurnPlay           TurnPhase = "play"
	TurnActionResponse TurnPhase = "action_response"
)

// playsPerTurn and handLimit are fixed by the rules.
const (
	playsPerTurn = 3
	handLimit    = 7
)

// Upgrade is a marker placed on a completed set.
type Upgrade string

const (
	UpgradeHouse Upgrade = "house"
	UpgradeHotel Upgrade = "hotel"
)

// Player holds one participant's cards. The hand is owned exclusively by the
// player until played; bank and properties are public. Keys in Properties and
// Upgrades that resolve to an empty slice are equivalent to absent keys.
type Player struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Hand       []*Card             `json:"hand,omitempty"`
	Bank       []*Card             `json:"bank"`
	Properties map[Color][]*Card   `json:"properties"`
	Upgrades   map[Color][]Upgrade `json:"upgrades"`
	Eliminated bool                `json:"eliminated"`
}

// HasUpgrade reports whether the marker is present on the color group.
func (p *Player) HasUpgrade(color Color, u Upgrade) bool {
	for _, have := range p.Upgrades[color] {
		if have == u {
			return true
		}
	}
	return false
}

// handIndexByID returns the hand position of a card id, or -1.
func (p *Player) handIndexByID(id string) int {
	for i, c := range p.Hand {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// findProperty locates a placed property by id, returning its color group
// and index, or ("", -1) if absent.
func (p *Player) findProperty(cardID string) (Color, int) {
	for _, color := range ColorOrder {
		for i, c := range p.Properties[color] {
			if c.ID == cardID {
				return color, i
			}
		}
	}
	return "", -1
}

// Seat names one participant when creating a game.
type Seat struct {
	ID   string
	Name string
}

// Game is the authoritative state of one match. All mutators run to
// completion before the next message is processed; the caller (the room
// layer) serializes access, so Game itself carries no lock.
type Game struct {
	Phase              GamePhase      `json:"phase"`
	TurnPhase          TurnPhase      `json:"turnPhase"`
	CurrentPlayerIndex int            `json:"currentPlayerIndex"`
	PlaysRemaining     int            `json:"playsRemaining"`
	Players            []*Player      `json:"players"`
	Deck               []*Card        `json:"-"`
	DiscardPile        []*Card        `json:"discardPile"`
	Pending            *PendingAction `json:"pendingAction,omitempty"`
	Winner             string         `json:"winner,omitempty"`
	SurgeOps           bool           `json:"surgeOps"`
	Log                []string       `json:"log"`

	rng *rand.Rand
}

// Option configures game creation.
type Option func(*Game)

// WithSeed makes the deck shuffle and every later reshuffle deterministic.
func WithSeed(seed int64) Option {
	return func(g *Game) { g.rng = rand.New(rand.NewSource(seed)) }
}

// NewGame shuffles a fresh deck and deals 5 cards to every seat.
func NewGame(seats []Seat, opts ...Option) *Game {
	g := &Game{
		Phase:          PhasePlaying,
		TurnPhase:      TurnDraw,
		PlaysRemaining: playsPerTurn,
		DiscardPile:    make([]*Card, 0),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	g.Deck = BuildDeck()
	shuffleCards(g.Deck, g.rng)

	names := make([]string, 0, len(seats))
	for _, s := range seats {
		g.Players = append(g.Players, &Player{
			ID:         s.ID,
			Name:       s.Name,
			Hand:       make([]*Card, 0, 8),
			Bank:       make([]*Card, 0),
			Properties: make(map[Color][]*Card),
			Upgrades:   make(map[Color][]Upgrade),
		})
		names = append(names, s.Name)
	}

	for _, p := range g.Players {
		for i := 0; i < 5 && len(g.Deck) > 0; i++ {
			p.Hand = append(p.Hand, g.popDeck())
		}
	}

	g.logf("Game started! %s are playing.", strings.Join(names, ", "))
	return g
}

// CurrentPlayer returns the player whose turn it is.
func (g *Game) CurrentPlayer() *Player {
	return g.Players[g.CurrentPlayerIndex]
}

// Player returns the player with the given id, or nil.
func (g *Game) Player(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Opponents returns the living players other than id, in seating order.
func (g *Game) Opponents(id string) []*Player {
	out := make([]*Player, 0, len(g.Players))
	for _, p := range g.Players {
		if p.ID != id && !p.Eliminated {
			out = append(out, p)
		}
	}
	return out
}

// IsSetComplete reports whether the player's color group has reached the
// category's required size.
func IsSetComplete(p *Player, color Color) bool {
	info, ok := Colors[color]
	if !ok {
		return false
	}
	return len(p.Properties[color]) >= info.SetSize
}

// CompletedSets counts the player's completed color groups.
func CompletedSets(p *Player) int {
	count := 0
	for _, color := range ColorOrder {
		if IsSetComplete(p, color) {
			count++
		}
	}
	return count
}

// CalcRent returns the rent the player can charge for a color: the rent
// table tier for the held count, plus 3 for a house and 4 for a hotel.
func CalcRent(p *Player, color Color) int {
	info, ok := Colors[color]
	if !ok {
		return 0
	}
	count := len(p.Properties[color])
	if count == 0 {
		return 0
	}
	if count > len(info.Rent) {
		count = len(info.Rent)
	}
	rent := info.Rent[count-1]
	if p.HasUpgrade(color, UpgradeHouse) {
		rent += 3
	}
	if p.HasUpgrade(color, UpgradeHotel) {
		rent += 4
	}
	return rent
}

// PlayerTotalValue is the player's net worth: bank plus placed properties.
// Upgrade markers carry no liquidable value.
func PlayerTotalValue(p *Player) int {
	total := 0
	for _, c := range p.Bank {
		total += c.Value
	}
	for _, cards := range p.Properties {
		for _, c := range cards {
			total += c.Value
		}
	}
	return total
}

// totalProperties counts all placed property cards.
func totalProperties(p *Player) int {
	count := 0
	for _, cards := range p.Properties {
		count += len(cards)
	}
	return count
}

// checkWin finishes the game if the player holds 3 completed sets. It is
// called after every mutation that can add properties, and again at the
// start of the draw phase so sets gained on an opponent's turn are honored.
func (g *Game) checkWin(playerID string) bool {
	if g.Phase == PhaseFinished {
		return g.Winner == playerID
	}
	p := g.Player(playerID)
	if p == nil || CompletedSets(p) < 3 {
		return false
	}
	g.Phase = PhaseFinished
	g.Winner = playerID
	// A pending action never survives the finish, even with responders
	// still owing in a payment_all.
	g.Pending = nil
	g.logf("%s wins with 3 complete sets!", p.Name)
	return true
}

// popDeck removes and returns the top (end) card of the deck.
func (g *Game) popDeck() *Card {
	c := g.Deck[len(g.Deck)-1]
	g.Deck = g.Deck[:len(g.Deck)-1]
	return c
}

// reshuffleIfNeeded folds the discard pile back into the deck when fewer
// than want cards remain. Idempotent; never loses cards.
func (g *Game) reshuffleIfNeeded(want int) {
	if len(g.Deck) >= want || len(g.DiscardPile) == 0 {
		return
	}
	g.Deck = append(g.Deck, g.DiscardPile...)
	g.DiscardPile = g.DiscardPile[:0]
	shuffleCards(g.Deck, g.rng)
	g.logf("Deck reshuffled from discard pile.")
}

// discard pushes a card onto the discard pile.
func (g *Game) discard(c *Card) {
	g.DiscardPile = append(g.DiscardPile, c)
}

// removeHandCard removes and returns the card at index i.
func removeHandCard(p *Player, i int) *Card {
	c := p.Hand[i]
	p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
	return c
}

// removeProperty removes the card at index i of the color group, dropping
// the key when the group empties.
func removeProperty(p *Player, color Color, i int) *Card {
	cards := p.Properties[color]
	c := cards[i]
	cards = append(cards[:i], cards[i+1:]...)
	if len(cards) == 0 {
		delete(p.Properties, color)
	} else {
		p.Properties[color] = cards
	}
	return c
}

// placeProperty appends a card to the color group and records its placement.
func placeProperty(p *Player, color Color, c *Card) {
	c.PlacedColor = color
	p.Properties[color] = append(p.Properties[color], c)
}

// dropStaleUpgrades discards upgrade markers on a set that is no longer
// complete. Upgrades cannot survive on an incomplete set.
func (g *Game) dropStaleUpgrades(p *Player, color Color) {
	if len(p.Upgrades[color]) == 0 || IsSetComplete(p, color) {
		return
	}
	delete(p.Upgrades, color)
	g.logf("%s's %s upgrades are discarded.", p.Name, Colors[color].Name)
}

func (g *Game) logf(format string, args ...interface{}) {
	g.Log = append(g.Log, fmt.Sprintf(format, args...))
}
