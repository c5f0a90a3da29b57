package game

// Shared builders for game tests. Cards built here get fresh ids just like
// deck cards, so id-based operations behave identically.

func newTestGame(names ...string) *Game {
	seats := make([]Seat, len(names))
	for i, n := range names {
		seats[i] = Seat{ID: "id-" + n, Name: n}
	}
	return NewGame(seats, WithSeed(7))
}

func testProp(color Color, name string, value int) *Card {
	return newCard(Card{Type: CardProperty, Color: color, Name: name, Value: value})
}

func testWild(value int, colors ...Color) *Card {
	return newCard(Card{Type: CardWildProperty, Colors: colors, Name: "Wild", Value: value})
}

func testMoney(value int) *Card {
	return newCard(Card{Type: CardMoney, Name: "money", Value: value})
}

func testAction(kind ActionKind, value int) *Card {
	return newCard(Card{Type: CardAction, Action: kind, Name: string(kind), Value: value})
}

func testRent(value int, colors ...Color) *Card {
	return newCard(Card{Type: CardRent, Colors: colors, Name: "rent", Value: value})
}

// giveSet places a complete set of the color on the player's board.
func giveSet(p *Player, color Color) {
	for i := 0; i < Colors[color].SetSize; i++ {
		placeProperty(p, color, testProp(color, "set card", 2))
	}
}

// startTurn puts the game in the player's play phase with full plays.
func startTurn(g *Game, playerID string) {
	for i, p := range g.Players {
		if p.ID == playerID {
			g.CurrentPlayerIndex = i
		}
	}
	g.TurnPhase = TurnPlay
	g.PlaysRemaining = playsPerTurn
}

// handCard puts the card in the player's hand and returns its index.
func handCard(p *Player, c *Card) int {
	p.Hand = append(p.Hand, c)
	return len(p.Hand) - 1
}
