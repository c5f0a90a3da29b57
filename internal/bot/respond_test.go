package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chudopoly/server-go/internal/game"
)

func TestHasOpsec(t *testing.T) {
	p := newPlayer("bot")
	assert.False(t, HasOpsec(p))
	p.Hand = append(p.Hand, cardOf(game.CardMoney, 1))
	assert.False(t, HasOpsec(p))
	p.Hand = append(p.Hand, actionCard(game.ActionOpsec, 4))
	assert.True(t, HasOpsec(p))
}

func TestShouldBlockTable(t *testing.T) {
	pa := func(kind game.ActionKind, amount int) *game.PendingAction {
		return &game.PendingAction{Action: kind, Amount: amount}
	}

	cases := []struct {
		name   string
		pa     *game.PendingAction
		policy Policy
		want   bool
	}{
		{"conservative blocks anything", pa(game.ActionRentCharge, 1), PolicyConservative, true},
		{"neutral blocks seizure", pa(game.ActionInspectorGeneral, 0), PolicyNeutral, true},
		{"neutral blocks chud", pa(game.ActionChud, 0), PolicyNeutral, true},
		{"neutral blocks shakedown", pa(game.ActionFinanceOffice, 5), PolicyNeutral, true},
		{"neutral blocks big rent", pa(game.ActionRentCharge, 5), PolicyNeutral, true},
		{"neutral eats small rent", pa(game.ActionRentCharge, 4), PolicyNeutral, false},
		{"neutral eats chud tax", pa(game.ActionChudPayment, 2), PolicyNeutral, false},
		{"neutral eats roll call", pa(game.ActionRollCall, 1), PolicyNeutral, false},
		{"aggressive blocks seizure", pa(game.ActionInspectorGeneral, 0), PolicyAggressive, true},
		{"aggressive blocks chud", pa(game.ActionChud, 0), PolicyAggressive, true},
		{"aggressive eats rent", pa(game.ActionRentCharge, 8), PolicyAggressive, false},
		{"chud blocks roll call", pa(game.ActionRollCall, 1), PolicyChud, true},
		{"chud blocks tiny rent", pa(game.ActionRentCharge, 2), PolicyChud, true},
		{"chud eats seizure", pa(game.ActionInspectorGeneral, 0), PolicyChud, false},
		{"chud eats chud", pa(game.ActionChud, 0), PolicyChud, false},
		{"chud eats shakedown", pa(game.ActionFinanceOffice, 5), PolicyChud, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ShouldBlock(tc.pa, tc.policy, "bot", testRng()))
		})
	}
}

func TestShouldBlockChainReentry(t *testing.T) {
	// An already-contested duel pulls neutral and aggressive back in even
	// for actions they would otherwise accept.
	pa := &game.PendingAction{
		Action: game.ActionRentCharge,
		Amount: 3,
		Duel:   &game.Duel{Blocks: 1, ResponderID: "bot"},
	}
	assert.True(t, ShouldBlock(pa, PolicyNeutral, "bot", testRng()))
	assert.True(t, ShouldBlock(pa, PolicyAggressive, "bot", testRng()))

	multi := &game.PendingAction{
		Action: game.ActionRollCall,
		Amount: 1,
		Chains: map[string]*game.Duel{"bot": {ResponderID: "bot", Blocks: 1}},
	}
	assert.True(t, ShouldBlock(multi, PolicyNeutral, "bot", testRng()))
}
