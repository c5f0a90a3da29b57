package game

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// Color identifies one of the ten property categories.
type Color string

const (
	ColorBrown     Color = "brown"
	ColorLightBlue Color = "lightblue"
	ColorPink      Color = "pink"
	ColorOrange    Color = "orange"
	ColorRed       Color = "red"
	ColorYellow    Color = "yellow"
	ColorGreen     Color = "green"
	ColorDarkBlue  Color = "darkblue"
	ColorBase      Color = "base"
	ColorIntel     Color = "intel"

	// ColorAny is the wildcard sentinel used by wild properties and the
	// any-color rent card. It is never a key in a player's property map.
	ColorAny Color = "any"
)

// ColorInfo describes a property category: display name, required set size,
// and the rent table indexed by card count (length == SetSize).
type ColorInfo struct {
	Name    string `json:"name"`
	SetSize int    `json:"setSize"`
	Rent    []int  `json:"rent"`
}

// Colors is the fixed category catalog.
var Colors = map[Color]ColorInfo{
	ColorBrown:     {Name: "Drone Ops", SetSize: 2, Rent: []int{1, 2}},
	ColorLightBlue: {Name: "Training", SetSize: 3, Rent: []int{1, 2, 3}},
	ColorPink:      {Name: "Space Force", SetSize: 3, Rent: []int{1, 2, 4}},
	ColorOrange:    {Name: "Test & Eval", SetSize: 3, Rent: []int{1, 3, 5}},
	ColorRed:       {Name: "Fighters", SetSize: 3, Rent: []int{2, 3, 6}},
	ColorYellow:    {Name: "Mobility", SetSize: 3, Rent: []int{2, 4, 6}},
	ColorGreen:     {Name: "Elite Programs", SetSize: 3, Rent: []int{2, 4, 7}},
	ColorDarkBlue:  {Name: "Command", SetSize: 2, Rent: []int{3, 8}},
	ColorBase:      {Name: "Overseas Bases", SetSize: 4, Rent: []int{1, 2, 3, 4}},
	ColorIntel:     {Name: "Intelligence", SetSize: 2, Rent: []int{1, 2}},
}

// ColorOrder lists the categories in catalog order. Iterating the Colors map
// directly is non-deterministic; use this wherever ordering is visible.
var ColorOrder = []Color{
	ColorBrown, ColorLightBlue, ColorPink, ColorOrange, ColorRed,
	ColorYellow, ColorGreen, ColorDarkBlue, ColorBase, ColorIntel,
}

// CardType discriminates the card tagged union.
type CardType string

const (
	CardProperty     CardType = "property"
	CardWildProperty CardType = "wild_property"
	CardMoney        CardType = "money"
	CardRent         CardType = "rent"
	CardAction       CardType = "action"
)

// ActionKind discriminates action cards.
type ActionKind string

const (
	ActionPCSOrders            ActionKind = "pcs_orders"
	ActionFinanceOffice        ActionKind = "finance_office"
	ActionRollCall             ActionKind = "roll_call"
	ActionInspectorGeneral     ActionKind = "inspector_general"
	ActionMidnightRequisition  ActionKind = "midnight_requisition"
	ActionTDYOrders            ActionKind = "tdy_orders"
	ActionUpgrade              ActionKind = "upgrade"
	ActionFOC                  ActionKind = "foc"
	ActionSurgeOps             ActionKind = "surge_ops"
	ActionOpsec                ActionKind = "opsec"
	ActionChud                 ActionKind = "chud"

	// ActionRentCharge tags the pending action opened by a rent card, and
	// ActionChudPayment the follow-on payment after a CHUD steal resolves.
	// Neither appears on a card.
	ActionRentCharge  ActionKind = "rent"
	ActionChudPayment ActionKind = "chud_payment"
)

// Card is one physical card. ID is globally unique and immutable for the
// card's lifetime; all later references (payment selection, steal targets)
// use it instead of positional indices.
type Card struct {
	ID    string   `json:"id"`
	Type  CardType `json:"type"`
	Name  string   `json:"name"`
	Value int      `json:"value"`

	// Color is set for fixed properties; Colors for wilds and rent cards
	// (ColorAny as the sole entry means unrestricted).
	Color  Color   `json:"color,omitempty"`
	Colors []Color `json:"colors,omitempty"`

	// Action is set for CardAction.
	Action ActionKind `json:"action,omitempty"`

	// PlacedColor records the set a wild property currently sits in.
	// For fixed properties it equals Color once placed.
	PlacedColor Color `json:"placedColor,omitempty"`
}

// IsProperty reports whether the card can be placed as a property.
func (c *Card) IsProperty() bool {
	return c.Type == CardProperty || c.Type == CardWildProperty
}

// CanPlaceOn reports whether the card may occupy the given color group.
func (c *Card) CanPlaceOn(color Color) bool {
	switch c.Type {
	case CardProperty:
		return c.Color == color
	case CardWildProperty:
		if len(c.Colors) > 0 && c.Colors[0] == ColorAny {
			return color != ColorAny
		}
		for _, col := range c.Colors {
			if col == color {
				return true
			}
		}
	}
	return false
}

// RentColors returns the colors a rent card may charge (nil-safe, resolves
// the ColorAny sentinel to the full catalog).
func (c *Card) RentColors() []Color {
	if len(c.Colors) > 0 && c.Colors[0] == ColorAny {
		return ColorOrder
	}
	return c.Colors
}

func (c *Card) String() string {
	return fmt.Sprintf("%s(%s)", c.Name, c.ID)
}

func newCard(c Card) *Card {
	c.ID = uuid.NewString()
	return &c
}

// BuildDeck assembles the fixed card catalog for one game: 28 named
// properties across the ten categories, 9 wilds, 20 money cards in six
// denominations, the ten action kinds in fixed quantities, 13 rent cards,
// and 2 CHUD cards.
func BuildDeck() []*Card {
	cards := make([]*Card, 0, 110)
	add := func(c Card) { cards = append(cards, newCard(c)) }

	properties := []struct {
		color Color
		name  string
		value int
	}{
		{ColorBrown, "Creech AFB", 1}, {ColorBrown, "Cannon AFB", 1},
		{ColorLightBlue, "Lackland AFB (BMT)", 1}, {ColorLightBlue, "Keesler AFB", 1}, {ColorLightBlue, "Goodfellow AFB", 1},
		{ColorPink, "Peterson SFB", 2}, {ColorPink, "Schriever SFB", 2}, {ColorPink, "Buckley SFB", 2},
		{ColorOrange, "Nellis AFB", 2}, {ColorOrange, "Eglin AFB", 2}, {ColorOrange, "Edwards AFB", 2},
		{ColorRed, "F-22 Raptor", 3}, {ColorRed, "F-35 Lightning II", 3}, {ColorRed, "F-15 Eagle", 3},
		{ColorYellow, "KC-135 Stratotanker", 3}, {ColorYellow, "C-17 Globemaster III", 3}, {ColorYellow, "C-130 Hercules", 3},
		{ColorGreen, "Thunderbirds", 4}, {ColorGreen, "Weapons School", 4}, {ColorGreen, "Red Flag", 4},
		{ColorDarkBlue, "The Pentagon", 4}, {ColorDarkBlue, "Air Force One", 4},
		{ColorBase, "Ramstein AB", 2}, {ColorBase, "Kadena AB", 2}, {ColorBase, "Osan AB", 2}, {ColorBase, "Thule AB", 2},
		{ColorIntel, "PAVE PAWS Radar", 1}, {ColorIntel, "GPS Constellation", 1},
	}
	for _, p := range properties {
		add(Card{Type: CardProperty, Color: p.color, Name: p.name, Value: p.value})
	}

	wilds := []struct {
		colors []Color
		name   string
		value  int
	}{
		{[]Color{ColorAny}, "Wild Property", 0},
		{[]Color{ColorAny}, "Wild Property", 0},
		{[]Color{ColorBrown, ColorLightBlue}, "Wild: Drone/Training", 1},
		{[]Color{ColorPink, ColorOrange}, "Wild: Space/Test", 2},
		{[]Color{ColorRed, ColorYellow}, "Wild: Fighter/Mobility", 3},
		{[]Color{ColorGreen, ColorDarkBlue}, "Wild: Elite/Command", 4},
		{[]Color{ColorBase, ColorIntel}, "Wild: Bases/Intel", 2},
		{[]Color{ColorBase, ColorGreen}, "Wild: Bases/Elite", 4},
		{[]Color{ColorLightBlue, ColorBrown}, "Wild: Training/Drone", 1},
	}
	for _, w := range wilds {
		add(Card{Type: CardWildProperty, Colors: w.colors, Name: w.name, Value: w.value})
	}

	money := []struct {
		value int
		qty   int
	}{{1, 6}, {2, 5}, {3, 3}, {4, 3}, {5, 2}, {10, 1}}
	for _, m := range money {
		for i := 0; i < m.qty; i++ {
			add(Card{Type: CardMoney, Name: fmt.Sprintf("%dM", m.value), Value: m.value})
		}
	}

	actions := []struct {
		kind  ActionKind
		name  string
		value int
		qty   int
	}{
		{ActionInspectorGeneral, "Inspector General", 5, 2},
		{ActionOpsec, "OPSEC", 4, 3},
		{ActionMidnightRequisition, "Midnight Requisition", 3, 3},
		{ActionTDYOrders, "TDY Orders", 3, 3},
		{ActionFinanceOffice, "Finance Office", 3, 3},
		{ActionRollCall, "Roll Call", 2, 3},
		{ActionPCSOrders, "PCS Orders", 1, 10},
		{ActionUpgrade, "Upgrade (House)", 3, 3},
		{ActionFOC, "Full Operational Capability (Hotel)", 4, 2},
		{ActionSurgeOps, "Surge Operations", 1, 2},
	}
	for _, a := range actions {
		for i := 0; i < a.qty; i++ {
			add(Card{Type: CardAction, Action: a.kind, Name: a.name, Value: a.value})
		}
	}

	rents := []struct {
		colors []Color
		value  int
		qty    int
	}{
		{[]Color{ColorBrown, ColorLightBlue}, 1, 2},
		{[]Color{ColorPink, ColorOrange}, 1, 2},
		{[]Color{ColorRed, ColorYellow}, 1, 2},
		{[]Color{ColorGreen, ColorDarkBlue}, 1, 2},
		{[]Color{ColorBase, ColorIntel}, 1, 2},
		{[]Color{ColorAny}, 3, 3},
	}
	for _, r := range rents {
		name := "Rent:"
		for i, col := range r.colors {
			if i > 0 {
				name += "/"
			} else {
				name += " "
			}
			name += string(col)
		}
		for i := 0; i < r.qty; i++ {
			add(Card{Type: CardRent, Colors: r.colors, Name: name, Value: r.value})
		}
	}

	for i := 0; i < 2; i++ {
		add(Card{Type: CardAction, Action: ActionChud, Name: "THE CHUD CARD", Value: 4})
	}

	return cards
}

// shuffleCards performs an in-place Fisher-Yates shuffle.
func shuffleCards(cards []*Card, rng *rand.Rand) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}
