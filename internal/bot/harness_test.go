package bot

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/chudopoly/server-go/internal/game"
)

// Builders shared by the bot tests. Everything goes through the game
// package's exported surface.

func testRng() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func newPlayer(id string) *game.Player {
	return &game.Player{
		ID:         id,
		Name:       id,
		Properties: make(map[game.Color][]*game.Card),
		Upgrades:   make(map[game.Color][]game.Upgrade),
	}
}

func testGame(players ...*game.Player) *game.Game {
	return &game.Game{
		Phase:          game.PhasePlaying,
		TurnPhase:      game.TurnPlay,
		PlaysRemaining: 3,
		Players:        players,
	}
}

func cardOf(t game.CardType, value int) *game.Card {
	return &game.Card{ID: uuid.NewString(), Type: t, Name: fmt.Sprintf("%s-%d", t, value), Value: value}
}

func propCard(color game.Color, value int) *game.Card {
	c := cardOf(game.CardProperty, value)
	c.Color = color
	return c
}

func wildCard(value int, colors ...game.Color) *game.Card {
	c := cardOf(game.CardWildProperty, value)
	c.Colors = colors
	return c
}

func actionCard(kind game.ActionKind, value int) *game.Card {
	c := cardOf(game.CardAction, value)
	c.Action = kind
	return c
}

func rentCardOf(value int, colors ...game.Color) *game.Card {
	c := cardOf(game.CardRent, value)
	c.Colors = colors
	return c
}

// fillSet completes the color group on the player's board.
func fillSet(p *game.Player, color game.Color) {
	for len(p.Properties[color]) < game.Colors[color].SetSize {
		p.Properties[color] = append(p.Properties[color], propCard(color, 2))
	}
}
