package bot

import (
	"math/rand"

	"github.com/chudopoly/server-go/internal/game"
)

// PlayType discriminates a chosen play.
type PlayType string

const (
	PlayProperty PlayType = "play_property"
	PlayMoney    PlayType = "play_money"
	PlayAction   PlayType = "play_action"
)

// Play is one legal play chosen by a policy. A nil *Play means "pass":
// the bot ends its turn.
type Play struct {
	Type      PlayType
	CardIndex int
	Target    game.ActionTarget
}

// Decide produces one legal play for the bot under the policy, or nil to
// end the turn. It reads state only through the public accessors and never
// mutates anything.
func Decide(g *game.Game, botID string, policy Policy, rng *rand.Rand) *Play {
	p := g.Player(botID)
	if p == nil || g.PlaysRemaining <= 0 || len(p.Hand) == 0 {
		return nil
	}

	switch policy {
	case PolicyRandom:
		return decideRandom(g, p, rng)
	case PolicyConservative:
		return decideConservative(g, p, rng)
	case PolicyAggressive:
		return decideAggressive(g, p, rng)
	case PolicyChud:
		return decideChud(g, p, rng)
	default:
		return decideNeutral(g, p, rng)
	}
}

// decideRandom walks the hand in shuffled order and plays the first thing
// that is legal, with a 30% chance of passing outright.
func decideRandom(g *game.Game, bot *game.Player, rng *rand.Rand) *Play {
	if rng.Float64() < 0.3 {
		return nil
	}
	opponents := g.Opponents(bot.ID)

	order := rng.Perm(len(bot.Hand))
	for _, i := range order {
		c := bot.Hand[i]
		switch c.Type {
		case game.CardProperty:
			return &Play{Type: PlayProperty, CardIndex: i}
		case game.CardWildProperty:
			valid := wildColors(c)
			return &Play{Type: PlayProperty, CardIndex: i, Target: game.ActionTarget{TargetColor: valid[rng.Intn(len(valid))]}}
		case game.CardMoney:
			return &Play{Type: PlayMoney, CardIndex: i}
		case game.CardRent:
			if color := chooseRandomRentColor(bot, c, rng); color != "" {
				return &Play{Type: PlayAction, CardIndex: i, Target: game.ActionTarget{TargetColor: color}}
			}
		case game.CardAction:
			if play := tryRandomAction(bot, c, i, opponents, rng); play != nil {
				return play
			}
		}
	}
	return nil
}

func tryRandomAction(bot *game.Player, c *game.Card, idx int, opponents []*game.Player, rng *rand.Rand) *Play {
	switch c.Action {
	case game.ActionPCSOrders, game.ActionRollCall, game.ActionSurgeOps:
		return &Play{Type: PlayAction, CardIndex: idx}
	case game.ActionFinanceOffice:
		if len(opponents) == 0 {
			return nil
		}
		t := opponents[rng.Intn(len(opponents))]
		return &Play{Type: PlayAction, CardIndex: idx, Target: game.ActionTarget{TargetID: t.ID}}
	case game.ActionMidnightRequisition:
		if t := findRandomSteal(opponents, rng); t != nil {
			return &Play{Type: PlayAction, CardIndex: idx, Target: game.ActionTarget{TargetID: t.PlayerID, TargetCardID: t.CardID}}
		}
	case game.ActionChud:
		if t := findRandomChud(opponents, rng); t != nil {
			return &Play{Type: PlayAction, CardIndex: idx, Target: game.ActionTarget{TargetID: t.PlayerID, TargetCardID: t.CardID}}
		}
	case game.ActionInspectorGeneral:
		if t := findRandomSetTarget(opponents, rng); t != nil {
			return &Play{Type: PlayAction, CardIndex: idx, Target: game.ActionTarget{TargetID: t.PlayerID, TargetColor: t.Color}}
		}
	case game.ActionTDYOrders:
		if t := findRandomSwap(bot, opponents, rng); t != nil {
			return &Play{Type: PlayAction, CardIndex: idx, Target: game.ActionTarget{TargetID: t.TargetPlayerID, TargetCardID: t.TargetCardID, MyCardID: t.MyCardID}}
		}
	case game.ActionUpgrade:
		if color := findUpgradeableSet(bot, game.UpgradeHouse); color != "" {
			return &Play{Type: PlayAction, CardIndex: idx, Target: game.ActionTarget{TargetColor: color}}
		}
	case game.ActionFOC:
		if color := findUpgradeableSet(bot, game.UpgradeHotel); color != "" {
			return &Play{Type: PlayAction, CardIndex: idx, Target: game.ActionTarget{TargetColor: color}}
		}
	case game.ActionOpsec:
		// Reactive only.
		return nil
	default:
		return &Play{Type: PlayMoney, CardIndex: idx}
	}
	return nil
}

// decideConservative builds board first, charges rent only on completed
// sets, and turns offensive only when one set away from winning.
func decideConservative(g *game.Game, bot *game.Player, rng *rand.Rand) *Play {
	opponents := g.Opponents(bot.ID)
	closeToWinning := game.CompletedSets(bot) >= 2

	if play := playAnyProperty(bot); play != nil {
		return play
	}
	if i := findAction(bot, game.ActionPCSOrders); i >= 0 {
		return &Play{Type: PlayAction, CardIndex: i}
	}
	if play := playUpgrades(bot); play != nil {
		return play
	}

	rentOnComplete := findRentOnCompleteSet(bot)
	if i := findAction(bot, game.ActionSurgeOps); i >= 0 && rentOnComplete != nil && !g.SurgeOps && g.PlaysRemaining >= 2 {
		return &Play{Type: PlayAction, CardIndex: i}
	}
	if rentOnComplete != nil {
		return rentOnComplete
	}

	if closeToWinning {
		if play := tryOffensiveActions(bot, opponents); play != nil {
			return play
		}
	}

	// Bank everything else, holding OPSEC.
	for i, c := range bot.Hand {
		if c.Action == game.ActionOpsec || c.IsProperty() {
			continue
		}
		return &Play{Type: PlayMoney, CardIndex: i}
	}
	return nil
}

// decideNeutral balances building, rent, and offense.
func decideNeutral(g *game.Game, bot *game.Player, rng *rand.Rand) *Play {
	opponents := g.Opponents(bot.ID)

	if play := playAnyProperty(bot); play != nil {
		return play
	}
	if i := findAction(bot, game.ActionPCSOrders); i >= 0 {
		return &Play{Type: PlayAction, CardIndex: i}
	}
	if i := findAction(bot, game.ActionSurgeOps); i >= 0 && hasRentCard(bot) && !g.SurgeOps && g.PlaysRemaining >= 2 {
		return &Play{Type: PlayAction, CardIndex: i}
	}
	if play := findBestRent(bot, 3); play != nil {
		return play
	}
	if play := tryOffensiveActions(bot, opponents); play != nil {
		return play
	}
	if play := playUpgrades(bot); play != nil {
		return play
	}

	for i, c := range bot.Hand {
		if c.Action == game.ActionOpsec {
			continue
		}
		switch {
		case c.Type == game.CardMoney,
			c.Type == game.CardRent,
			c.Type == game.CardAction && c.Value > 0:
			return &Play{Type: PlayMoney, CardIndex: i}
		}
	}
	return nil
}

// decideAggressive extracts value and attacks before building.
func decideAggressive(g *game.Game, bot *game.Player, rng *rand.Rand) *Play {
	opponents := g.Opponents(bot.ID)

	if i := findAction(bot, game.ActionSurgeOps); i >= 0 && hasRentCard(bot) && !g.SurgeOps && g.PlaysRemaining >= 2 {
		return &Play{Type: PlayAction, CardIndex: i}
	}
	if play := findBestRent(bot, 0); play != nil {
		return play
	}
	for i, c := range bot.Hand {
		if c.Action != game.ActionChud {
			continue
		}
		if t := findLeaderBestChud(opponents); t != nil {
			return &Play{Type: PlayAction, CardIndex: i, Target: game.ActionTarget{TargetID: t.PlayerID, TargetCardID: t.CardID}}
		}
	}
	for i, c := range bot.Hand {
		if c.Action != game.ActionInspectorGeneral {
			continue
		}
		if t := findBestSetTarget(opponents); t != nil {
			return &Play{Type: PlayAction, CardIndex: i, Target: game.ActionTarget{TargetID: t.PlayerID, TargetColor: t.Color}}
		}
	}
	for i, c := range bot.Hand {
		if c.Action != game.ActionFinanceOffice {
			continue
		}
		if t := findMostProperties(opponents); t != nil {
			return &Play{Type: PlayAction, CardIndex: i, Target: game.ActionTarget{TargetID: t.ID}}
		}
	}
	if i := findAction(bot, game.ActionRollCall); i >= 0 {
		return &Play{Type: PlayAction, CardIndex: i}
	}
	for i, c := range bot.Hand {
		if c.Action != game.ActionMidnightRequisition {
			continue
		}
		if t := findSetCompletingSteal(bot, opponents); t != nil {
			return &Play{Type: PlayAction, CardIndex: i, Target: game.ActionTarget{TargetID: t.PlayerID, TargetCardID: t.CardID}}
		}
	}
	for i, c := range bot.Hand {
		if c.Action != game.ActionTDYOrders {
			continue
		}
		if t := findTradeUpSwap(bot, opponents); t != nil {
			return &Play{Type: PlayAction, CardIndex: i, Target: game.ActionTarget{TargetID: t.TargetPlayerID, TargetCardID: t.TargetCardID, MyCardID: t.MyCardID}}
		}
	}
	if play := playAnyProperty(bot); play != nil {
		return play
	}
	if i := findAction(bot, game.ActionPCSOrders); i >= 0 {
		return &Play{Type: PlayAction, CardIndex: i}
	}
	if play := playUpgrades(bot); play != nil {
		return play
	}
	for i, c := range bot.Hand {
		if c.Action == game.ActionOpsec || c.IsProperty() {
			continue
		}
		return &Play{Type: PlayMoney, CardIndex: i}
	}
	return nil
}

// decideChud plays deliberately badly: banks its best cards, trades down,
// attacks the weakest player, and places wilds at random.
func decideChud(g *game.Game, bot *game.Player, rng *rand.Rand) *Play {
	opponents := g.Opponents(bot.ID)

	for i, c := range bot.Hand {
		if c.Type == game.CardMoney {
			return &Play{Type: PlayMoney, CardIndex: i}
		}
	}
	for i, c := range bot.Hand {
		if c.Type == game.CardRent {
			return &Play{Type: PlayMoney, CardIndex: i}
		}
	}
	// Surge with no intention of charging rent afterwards.
	if i := findAction(bot, game.ActionSurgeOps); i >= 0 && !g.SurgeOps {
		return &Play{Type: PlayAction, CardIndex: i}
	}
	for i, c := range bot.Hand {
		if c.Action != game.ActionTDYOrders {
			continue
		}
		if t := findTradeDownSwap(bot, opponents); t != nil {
			return &Play{Type: PlayAction, CardIndex: i, Target: game.ActionTarget{TargetID: t.TargetPlayerID, TargetCardID: t.TargetCardID, MyCardID: t.MyCardID}}
		}
	}
	for i, c := range bot.Hand {
		if c.Action != game.ActionFinanceOffice {
			continue
		}
		if t := findPoorest(opponents); t != nil {
			return &Play{Type: PlayAction, CardIndex: i, Target: game.ActionTarget{TargetID: t.ID}}
		}
	}
	if i := findAction(bot, game.ActionRollCall); i >= 0 {
		return &Play{Type: PlayAction, CardIndex: i}
	}
	for i, c := range bot.Hand {
		if c.Action != game.ActionMidnightRequisition {
			continue
		}
		if t := findCheapestSteal(opponents); t != nil {
			return &Play{Type: PlayAction, CardIndex: i, Target: game.ActionTarget{TargetID: t.PlayerID, TargetCardID: t.CardID}}
		}
	}
	for i, c := range bot.Hand {
		if c.Action != game.ActionChud {
			continue
		}
		if t := findWeakestCheapestChud(opponents); t != nil {
			return &Play{Type: PlayAction, CardIndex: i, Target: game.ActionTarget{TargetID: t.PlayerID, TargetCardID: t.CardID}}
		}
	}
	for i, c := range bot.Hand {
		if c.Action != game.ActionInspectorGeneral {
			continue
		}
		if t := findCheapestSetTarget(opponents); t != nil {
			return &Play{Type: PlayAction, CardIndex: i, Target: game.ActionTarget{TargetID: t.PlayerID, TargetColor: t.Color}}
		}
	}
	for i, c := range bot.Hand {
		if c.Type == game.CardAction && c.Action != game.ActionOpsec {
			return &Play{Type: PlayMoney, CardIndex: i}
		}
	}
	for i, c := range bot.Hand {
		if c.Type == game.CardProperty {
			return &Play{Type: PlayProperty, CardIndex: i}
		}
		if c.Type == game.CardWildProperty {
			valid := wildColors(c)
			return &Play{Type: PlayProperty, CardIndex: i, Target: game.ActionTarget{TargetColor: valid[rng.Intn(len(valid))]}}
		}
	}
	if i := findAction(bot, game.ActionPCSOrders); i >= 0 {
		return &Play{Type: PlayAction, CardIndex: i}
	}
	return nil
}

// tryOffensiveActions is the shared attack ordering used by conservative
// (when closing) and neutral.
func tryOffensiveActions(bot *game.Player, opponents []*game.Player) *Play {
	for i, c := range bot.Hand {
		if c.Action != game.ActionInspectorGeneral {
			continue
		}
		if t := findBestSetTarget(opponents); t != nil {
			return &Play{Type: PlayAction, CardIndex: i, Target: game.ActionTarget{TargetID: t.PlayerID, TargetColor: t.Color}}
		}
	}
	for i, c := range bot.Hand {
		if c.Action != game.ActionChud {
			continue
		}
		if t := findSetCompletingChud(bot, opponents); t != nil {
			return &Play{Type: PlayAction, CardIndex: i, Target: game.ActionTarget{TargetID: t.PlayerID, TargetCardID: t.CardID}}
		}
	}
	for i, c := range bot.Hand {
		if c.Action != game.ActionMidnightRequisition {
			continue
		}
		if t := findSetCompletingSteal(bot, opponents); t != nil {
			return &Play{Type: PlayAction, CardIndex: i, Target: game.ActionTarget{TargetID: t.PlayerID, TargetCardID: t.CardID}}
		}
	}
	for i, c := range bot.Hand {
		if c.Action != game.ActionFinanceOffice {
			continue
		}
		if t := findRichest(opponents); t != nil {
			return &Play{Type: PlayAction, CardIndex: i, Target: game.ActionTarget{TargetID: t.ID}}
		}
	}
	if i := findAction(bot, game.ActionRollCall); i >= 0 {
		return &Play{Type: PlayAction, CardIndex: i}
	}
	for i, c := range bot.Hand {
		if c.Action != game.ActionTDYOrders {
			continue
		}
		if t := findSetCompletingSwap(bot, opponents); t != nil {
			return &Play{Type: PlayAction, CardIndex: i, Target: game.ActionTarget{TargetID: t.TargetPlayerID, TargetCardID: t.TargetCardID, MyCardID: t.MyCardID}}
		}
	}
	return nil
}

/* Hand scanning helpers. */

func findAction(p *game.Player, kind game.ActionKind) int {
	for i, c := range p.Hand {
		if c.Type == game.CardAction && c.Action == kind {
			return i
		}
	}
	return -1
}

func hasRentCard(p *game.Player) bool {
	for _, c := range p.Hand {
		if c.Type == game.CardRent {
			return true
		}
	}
	return false
}

// playAnyProperty places the first property in hand, wilds on their best
// color.
func playAnyProperty(bot *game.Player) *Play {
	for i, c := range bot.Hand {
		if c.Type == game.CardProperty {
			return &Play{Type: PlayProperty, CardIndex: i}
		}
		if c.Type == game.CardWildProperty {
			return &Play{Type: PlayProperty, CardIndex: i, Target: game.ActionTarget{TargetColor: chooseBestWildColor(bot, c)}}
		}
	}
	return nil
}

// playUpgrades places a house or hotel when a set can take one.
func playUpgrades(bot *game.Player) *Play {
	for i, c := range bot.Hand {
		if c.Action == game.ActionUpgrade {
			if color := findUpgradeableSet(bot, game.UpgradeHouse); color != "" {
				return &Play{Type: PlayAction, CardIndex: i, Target: game.ActionTarget{TargetColor: color}}
			}
		}
		if c.Action == game.ActionFOC {
			if color := findUpgradeableSet(bot, game.UpgradeHotel); color != "" {
				return &Play{Type: PlayAction, CardIndex: i, Target: game.ActionTarget{TargetColor: color}}
			}
		}
	}
	return nil
}

// findRentOnCompleteSet plays a rent card only if it can charge a completed
// set.
func findRentOnCompleteSet(bot *game.Player) *Play {
	for i, c := range bot.Hand {
		if c.Type != game.CardRent {
			continue
		}
		for _, color := range c.RentColors() {
			if game.IsSetComplete(bot, color) {
				return &Play{Type: PlayAction, CardIndex: i, Target: game.ActionTarget{TargetColor: color}}
			}
		}
	}
	return nil
}

// findBestRent plays the rent card and color with the highest yield at or
// above minRent.
func findBestRent(bot *game.Player, minRent int) *Play {
	bestIdx, bestRent := -1, -1
	var bestColor game.Color
	for i, c := range bot.Hand {
		if c.Type != game.CardRent {
			continue
		}
		color := chooseBestRentColor(bot, c)
		if color == "" {
			continue
		}
		rent := game.CalcRent(bot, color)
		if rent < minRent {
			continue
		}
		if rent > bestRent {
			bestIdx, bestRent, bestColor = i, rent, color
		}
	}
	if bestIdx < 0 {
		return nil
	}
	return &Play{Type: PlayAction, CardIndex: bestIdx, Target: game.ActionTarget{TargetColor: bestColor}}
}
