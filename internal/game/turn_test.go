package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawTwo(t *testing.T) {
	g := newTestGame("A", "B")
	p := g.CurrentPlayer()

	res, err := g.Draw(p.ID)
	require.NoError(t, err)
	assert.Len(t, res.Cards, 2)
	assert.Len(t, p.Hand, 7)
	assert.Equal(t, TurnPlay, g.TurnPhase)
	assert.Equal(t, 3, g.PlaysRemaining)
}

func TestDrawFiveOnEmptyHand(t *testing.T) {
	g := newTestGame("A", "B")
	p := g.CurrentPlayer()
	p.Hand = nil

	res, err := g.Draw(p.ID)
	require.NoError(t, err)
	assert.Len(t, res.Cards, 5)
	assert.Len(t, p.Hand, 5)
}

func TestDrawOutOfTurn(t *testing.T) {
	g := newTestGame("A", "B")
	other := g.Players[1]

	_, err := g.Draw(other.ID)
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = g.Draw(g.CurrentPlayer().ID)
	require.NoError(t, err)
	_, err = g.Draw(g.CurrentPlayer().ID)
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestDrawAutoWinBeforeCards(t *testing.T) {
	g := newTestGame("A", "B")
	p := g.CurrentPlayer()
	giveSet(p, ColorBrown)
	giveSet(p, ColorRed)
	giveSet(p, ColorIntel)
	handBefore := len(p.Hand)

	res, err := g.Draw(p.ID)
	require.NoError(t, err)
	assert.True(t, res.AutoWin)
	assert.Equal(t, PhaseFinished, g.Phase)
	assert.Equal(t, p.ID, g.Winner)
	assert.Len(t, p.Hand, handBefore, "no cards drawn on auto win")
}

func TestEndTurnRequiresDiscardsOverLimit(t *testing.T) {
	g := newTestGame("A", "B")
	p := g.CurrentPlayer()
	startTurn(g, p.ID)
	for len(p.Hand) < 9 {
		handCard(p, testMoney(1))
	}

	err := g.EndTurn(p.ID, nil)
	var dr *DiscardRequiredError
	require.ErrorAs(t, err, &dr)
	assert.Equal(t, 2, dr.Excess)
	assert.Equal(t, p.ID, g.CurrentPlayer().ID, "turn pointer unchanged")

	// Wrong count also fails closed.
	err = g.EndTurn(p.ID, []string{p.Hand[0].ID})
	require.ErrorAs(t, err, &dr)

	discards := []string{p.Hand[0].ID, p.Hand[1].ID}
	require.NoError(t, g.EndTurn(p.ID, discards))
	assert.Len(t, p.Hand, 7)
	assert.Len(t, g.DiscardPile, 2)
	assert.Equal(t, "B", g.CurrentPlayer().Name)
	assert.Equal(t, TurnDraw, g.TurnPhase)
}

func TestEndTurnClearsSurge(t *testing.T) {
	g := newTestGame("A", "B")
	p := g.CurrentPlayer()
	startTurn(g, p.ID)
	g.SurgeOps = true

	require.NoError(t, g.EndTurn(p.ID, nil))
	assert.False(t, g.SurgeOps)
}

func TestEndTurnBlockedByPendingAction(t *testing.T) {
	g := newTestGame("A", "B")
	p := g.CurrentPlayer()
	startTurn(g, p.ID)
	g.openPending(&PendingAction{Kind: PendingPayment, SourceID: p.ID})

	err := g.EndTurn(p.ID, nil)
	assert.ErrorIs(t, err, ErrPendingAction)
}

func TestAdvanceSkipsEliminated(t *testing.T) {
	g := newTestGame("A", "B", "C")
	g.Players[1].Eliminated = true
	startTurn(g, g.Players[0].ID)

	require.NoError(t, g.EndTurn(g.Players[0].ID, nil))
	assert.Equal(t, "C", g.CurrentPlayer().Name)
}

func TestForceAdvanceTurn(t *testing.T) {
	g := newTestGame("A", "B")
	startTurn(g, g.Players[0].ID)
	g.SurgeOps = true
	g.openPending(&PendingAction{Kind: PendingPayment, SourceID: g.Players[0].ID})

	g.ForceAdvanceTurn()
	assert.Equal(t, "B", g.CurrentPlayer().Name)
	assert.Nil(t, g.Pending)
	assert.False(t, g.SurgeOps)
	assert.Equal(t, TurnDraw, g.TurnPhase)
	assert.Equal(t, 3, g.PlaysRemaining)
}

func TestScoopDiscardsEverything(t *testing.T) {
	g := newTestGame("A", "B", "C")
	p := g.Players[1]
	p.Bank = append(p.Bank, testMoney(5))
	giveSet(p, ColorRed)
	p.Upgrades[ColorRed] = []Upgrade{UpgradeHouse}
	owned := len(p.Hand) + len(p.Bank) + totalProperties(p)
	discardBefore := len(g.DiscardPile)

	require.NoError(t, g.Scoop(p.ID))
	assert.True(t, p.Eliminated)
	assert.Empty(t, p.Hand)
	assert.Empty(t, p.Bank)
	assert.Empty(t, p.Properties)
	assert.Empty(t, p.Upgrades)
	assert.Equal(t, discardBefore+owned, len(g.DiscardPile))

	err := g.Scoop(p.ID)
	assert.ErrorIs(t, err, ErrEliminated)
}

func TestScoopLastPlayerStandingWins(t *testing.T) {
	g := newTestGame("A", "B", "C")
	require.NoError(t, g.Scoop(g.Players[1].ID))
	assert.Equal(t, PhasePlaying, g.Phase)

	require.NoError(t, g.Scoop(g.Players[2].ID))
	assert.Equal(t, PhaseFinished, g.Phase)
	assert.Equal(t, g.Players[0].ID, g.Winner)
}

func TestScoopCancelsOwnPendingAction(t *testing.T) {
	g := newTestGame("A", "B")
	a, b := g.Players[0], g.Players[1]
	startTurn(g, a.ID)
	idx := handCard(a, testAction(ActionFinanceOffice, 3))
	require.NoError(t, g.PlayAction(a.ID, idx, ActionTarget{TargetID: b.ID}))
	require.NotNil(t, g.Pending)

	require.NoError(t, g.Scoop(a.ID))
	assert.Nil(t, g.Pending)
	assert.Equal(t, b.ID, g.CurrentPlayer().ID)
}

func TestScoopDrainsPaymentAll(t *testing.T) {
	g := newTestGame("A", "B", "C")
	a := g.Players[0]
	startTurn(g, a.ID)
	idx := handCard(a, testAction(ActionRollCall, 2))
	require.NoError(t, g.PlayAction(a.ID, idx, ActionTarget{}))

	// B counters, opening a chain; then B scoops and the whole obligation
	// evaporates for them while C still owes.
	handCard(g.Players[1], testAction(ActionOpsec, 4))
	_, err := g.Respond(g.Players[1].ID, ResponseOpsec, nil)
	require.NoError(t, err)

	require.NoError(t, g.Scoop(g.Players[1].ID))
	require.NotNil(t, g.Pending)
	assert.Empty(t, g.Pending.Chains)
	assert.Equal(t, []string{g.Players[2].ID}, g.Pending.Pending)

	// C scooping as well clears the action entirely.
	require.NoError(t, g.Scoop(g.Players[2].ID))
	assert.Equal(t, PhaseFinished, g.Phase)
	assert.Equal(t, a.ID, g.Winner)
}

func TestTurnErrorsLeaveStateUnchanged(t *testing.T) {
	g := newTestGame("A", "B")
	p := g.CurrentPlayer()
	startTurn(g, p.ID)
	snapshotPlays := g.PlaysRemaining
	snapshotHand := len(p.Hand)

	err := g.PlayAsMoney(p.ID, 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCard))
	assert.Equal(t, snapshotPlays, g.PlaysRemaining)
	assert.Len(t, p.Hand, snapshotHand)
}
