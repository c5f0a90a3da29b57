package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameDealsFiveEach(t *testing.T) {
	g := newTestGame("A", "B", "C")
	require.Len(t, g.Players, 3)
	for _, p := range g.Players {
		assert.Len(t, p.Hand, 5)
	}
	assert.Len(t, g.Deck, 106-15)
	assert.Equal(t, PhasePlaying, g.Phase)
	assert.Equal(t, TurnDraw, g.TurnPhase)
}

func TestIsSetCompleteAndCount(t *testing.T) {
	g := newTestGame("A", "B")
	p := g.Players[0]

	placeProperty(p, ColorBrown, testProp(ColorBrown, "Creech AFB", 1))
	assert.False(t, IsSetComplete(p, ColorBrown))
	placeProperty(p, ColorBrown, testProp(ColorBrown, "Cannon AFB", 1))
	assert.True(t, IsSetComplete(p, ColorBrown))
	assert.Equal(t, 1, CompletedSets(p))

	giveSet(p, ColorRed)
	assert.Equal(t, 2, CompletedSets(p))
}

func TestCalcRentTiersAndUpgrades(t *testing.T) {
	g := newTestGame("A", "B")
	p := g.Players[0]

	assert.Equal(t, 0, CalcRent(p, ColorRed))

	placeProperty(p, ColorRed, testProp(ColorRed, "F-22", 3))
	assert.Equal(t, 2, CalcRent(p, ColorRed))
	placeProperty(p, ColorRed, testProp(ColorRed, "F-35", 3))
	assert.Equal(t, 3, CalcRent(p, ColorRed))
	placeProperty(p, ColorRed, testProp(ColorRed, "F-15", 3))
	assert.Equal(t, 6, CalcRent(p, ColorRed))

	p.Upgrades[ColorRed] = []Upgrade{UpgradeHouse}
	assert.Equal(t, 9, CalcRent(p, ColorRed))
	p.Upgrades[ColorRed] = append(p.Upgrades[ColorRed], UpgradeHotel)
	assert.Equal(t, 13, CalcRent(p, ColorRed))
}

func TestPlayerTotalValue(t *testing.T) {
	g := newTestGame("A", "B")
	p := g.Players[0]
	p.Hand = nil

	assert.Equal(t, 0, PlayerTotalValue(p))
	p.Bank = append(p.Bank, testMoney(5), testMoney(1))
	placeProperty(p, ColorGreen, testProp(ColorGreen, "Red Flag", 4))
	// Hand cards never count toward net worth.
	p.Hand = append(p.Hand, testMoney(10))
	assert.Equal(t, 10, PlayerTotalValue(p))
}

func TestReshuffleConservesCards(t *testing.T) {
	g := newTestGame("A", "B")
	for len(g.Deck) > 1 {
		g.discard(g.popDeck())
	}
	deckBefore := len(g.Deck) + len(g.DiscardPile)

	g.reshuffleIfNeeded(2)
	assert.Equal(t, deckBefore, len(g.Deck))
	assert.Empty(t, g.DiscardPile)
}

func TestDropStaleUpgrades(t *testing.T) {
	g := newTestGame("A", "B")
	p := g.Players[0]
	giveSet(p, ColorBrown)
	p.Upgrades[ColorBrown] = []Upgrade{UpgradeHouse}

	// Still complete: markers stay.
	g.dropStaleUpgrades(p, ColorBrown)
	assert.True(t, p.HasUpgrade(ColorBrown, UpgradeHouse))

	removeProperty(p, ColorBrown, 0)
	g.dropStaleUpgrades(p, ColorBrown)
	assert.False(t, p.HasUpgrade(ColorBrown, UpgradeHouse))
}
