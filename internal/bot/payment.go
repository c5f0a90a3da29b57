package bot

import (
	"math/rand"
	"sort"

	"github.com/chudopoly/server-go/internal/game"
)

// payCard is one card eligible to pay with, scored for ordering.
type payCard struct {
	id          string
	value       int
	fromBank    bool
	setProgress float64
}

func payableCards(p *game.Player) []payCard {
	var cards []payCard
	for _, c := range p.Bank {
		cards = append(cards, payCard{id: c.ID, value: c.Value, fromBank: true})
	}
	for color, props := range p.Properties {
		progress := 1.0
		if info, ok := game.Colors[color]; ok && info.SetSize > 0 {
			progress = float64(len(props)) / float64(info.SetSize)
		}
		for _, c := range props {
			cards = append(cards, payCard{id: c.ID, value: c.Value, setProgress: progress})
		}
	}
	return cards
}

// SelectPayment picks card ids from the bank and properties totalling at
// least amount, ordered by the policy's idea of what to part with first.
// The result may fall short when the player cannot cover the amount.
func SelectPayment(p *game.Player, amount int, policy Policy, rng *rand.Rand) []string {
	cards := payableCards(p)
	if len(cards) == 0 {
		return nil
	}

	switch policy {
	case PolicyChud:
		// Most valuable first, near-complete sets first. Maximum self-damage.
		sort.SliceStable(cards, func(i, j int) bool {
			a, b := cards[i], cards[j]
			if a.fromBank != b.fromBank {
				return !a.fromBank
			}
			if !a.fromBank {
				return a.setProgress > b.setProgress
			}
			return a.value > b.value
		})
	case PolicyRandom:
		rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	case PolicyAggressive, PolicyConservative, PolicyNeutral:
		fallthrough
	default:
		// Bank first smallest, then the least-progressed properties.
		sort.SliceStable(cards, func(i, j int) bool {
			a, b := cards[i], cards[j]
			if a.fromBank != b.fromBank {
				return a.fromBank
			}
			if !a.fromBank && a.setProgress != b.setProgress {
				return a.setProgress < b.setProgress
			}
			return a.value < b.value
		})
	}

	var selected []string
	total := 0
	for _, c := range cards {
		if total >= amount {
			break
		}
		selected = append(selected, c.id)
		total += c.value
	}
	return selected
}

// AllPayableCardIDs returns every bank and property card id, the fallback
// when a partial selection was rejected as short.
func AllPayableCardIDs(p *game.Player) []string {
	var ids []string
	for _, c := range p.Bank {
		ids = append(ids, c.ID)
	}
	for _, props := range p.Properties {
		for _, c := range props {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func isOffensive(a game.ActionKind) bool {
	switch a {
	case game.ActionInspectorGeneral, game.ActionChud, game.ActionMidnightRequisition,
		game.ActionTDYOrders, game.ActionFinanceOffice, game.ActionRollCall:
		return true
	}
	return false
}

// ChooseDiscards picks excess card ids to shed at end of turn, ordered by
// what the policy values least.
func ChooseDiscards(p *game.Player, excess int, policy Policy, rng *rand.Rand) []string {
	hand := make([]*game.Card, len(p.Hand))
	copy(hand, p.Hand)

	switch policy {
	case PolicyChud:
		// Sheds OPSEC and high-value action cards first, keeps junk.
		sort.SliceStable(hand, func(i, j int) bool {
			a, b := hand[i], hand[j]
			aOp, bOp := a.Action == game.ActionOpsec, b.Action == game.ActionOpsec
			if aOp != bOp {
				return aOp
			}
			aAct, bAct := a.Type == game.CardAction, b.Type == game.CardAction
			if aAct != bAct {
				return aAct
			}
			return a.Value > b.Value
		})
	case PolicyConservative:
		// Sheds offensive actions, keeps OPSEC and properties.
		sort.SliceStable(hand, func(i, j int) bool {
			a, b := hand[i], hand[j]
			aOp, bOp := a.Action == game.ActionOpsec, b.Action == game.ActionOpsec
			if aOp != bOp {
				return bOp
			}
			aProp, bProp := a.IsProperty(), b.IsProperty()
			if aProp != bProp {
				return bProp
			}
			aOff, bOff := isOffensive(a.Action), isOffensive(b.Action)
			if aOff != bOff {
				return aOff
			}
			return a.Value < b.Value
		})
	case PolicyAggressive:
		// Sheds money and loose properties, keeps action cards.
		sort.SliceStable(hand, func(i, j int) bool {
			a, b := hand[i], hand[j]
			aMoney, bMoney := a.Type == game.CardMoney, b.Type == game.CardMoney
			if aMoney != bMoney {
				return aMoney
			}
			aAct, bAct := a.Type == game.CardAction, b.Type == game.CardAction
			if aAct != bAct {
				return bAct
			}
			return a.Value < b.Value
		})
	case PolicyRandom:
		rng.Shuffle(len(hand), func(i, j int) { hand[i], hand[j] = hand[j], hand[i] })
	default:
		// Lowest value first, OPSEC last.
		sort.SliceStable(hand, func(i, j int) bool {
			a, b := hand[i], hand[j]
			aOp, bOp := a.Action == game.ActionOpsec, b.Action == game.ActionOpsec
			if aOp != bOp {
				return bOp
			}
			return a.Value < b.Value
		})
	}

	if excess > len(hand) {
		excess = len(hand)
	}
	ids := make([]string, 0, excess)
	for _, c := range hand[:excess] {
		ids = append(ids, c.ID)
	}
	return ids
}
