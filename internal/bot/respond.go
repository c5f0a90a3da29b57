package bot

import (
	"math/rand"

	"github.com/chudopoly/server-go/internal/game"
)

// HasOpsec reports whether the player holds an OPSEC card.
func HasOpsec(p *game.Player) bool {
	for _, c := range p.Hand {
		if c.Action == game.ActionOpsec {
			return true
		}
	}
	return false
}

// ShouldBlock decides whether the bot plays OPSEC against the pending
// action. It assumes the bot holds one; callers check HasOpsec first.
func ShouldBlock(pa *game.PendingAction, policy Policy, botID string, rng *rand.Rand) bool {
	inChain := false
	if pa.Duel != nil && pa.Duel.Blocks > 0 {
		inChain = true
	}
	for _, chain := range pa.Chains {
		if chain.ResponderID == botID {
			inChain = true
		}
	}

	switch policy {
	case PolicyRandom:
		return rng.Float64() > 0.5

	case PolicyConservative:
		// Hoard defense: always counter.
		return true

	case PolicyNeutral:
		if pa.Action == game.ActionInspectorGeneral {
			return true
		}
		if pa.Action == game.ActionChud {
			return true
		}
		if pa.Action == game.ActionFinanceOffice {
			return true
		}
		if pa.Action == game.ActionRentCharge && pa.Amount >= 5 {
			return true
		}
		if pa.Action == game.ActionChudPayment {
			// Only 2M, save the card.
			return false
		}
		return inChain

	case PolicyAggressive:
		// Only protect against the biggest threats.
		if pa.Action == game.ActionInspectorGeneral {
			return true
		}
		if pa.Action == game.ActionChud {
			return true
		}
		return inChain

	case PolicyChud:
		// Blocks trivial stuff, accepts devastating stuff.
		if pa.Action == game.ActionRollCall {
			return true
		}
		if pa.Action == game.ActionRentCharge && pa.Amount <= 2 {
			return true
		}
		switch pa.Action {
		case game.ActionInspectorGeneral, game.ActionChud, game.ActionFinanceOffice:
			return false
		}
		return rng.Float64() > 0.7

	default:
		return false
	}
}
