package bot

import (
	"math/rand"

	"github.com/chudopoly/server-go/internal/game"
)

// Target-selection helpers are pure functions over the opponents' visible
// board state. Every helper treats an empty opponent list or an empty
// candidate set as "no legal target" by returning nil, so callers fall
// through to their next-priority action.

// stealPick names one opposing property card.
type stealPick struct {
	PlayerID string
	CardID   string
	Value    int
}

// swapPick pairs one of the bot's properties with an opposing one.
type swapPick struct {
	TargetPlayerID string
	TargetCardID   string
	MyCardID       string
}

// setPick names an opposing completed set.
type setPick struct {
	PlayerID string
	Color    game.Color
}

// findLeader picks the opponent with the most completed sets, tie-broken by
// total property count.
func findLeader(opponents []*game.Player) *game.Player {
	var best *game.Player
	for _, p := range opponents {
		if best == nil {
			best = p
			continue
		}
		bSets, pSets := game.CompletedSets(best), game.CompletedSets(p)
		if pSets > bSets {
			best = p
		} else if pSets == bSets && propertyCount(p) > propertyCount(best) {
			best = p
		}
	}
	return best
}

// findPoorest picks the opponent with the lowest net worth.
func findPoorest(opponents []*game.Player) *game.Player {
	var worst *game.Player
	for _, p := range opponents {
		if worst == nil || game.PlayerTotalValue(p) < game.PlayerTotalValue(worst) {
			worst = p
		}
	}
	return worst
}

// findRichest picks the opponent with the fattest bank.
func findRichest(opponents []*game.Player) *game.Player {
	var best *game.Player
	for _, p := range opponents {
		if best == nil || bankTotal(p) > bankTotal(best) {
			best = p
		}
	}
	return best
}

// findMostProperties picks the opponent with the most placed cards.
func findMostProperties(opponents []*game.Player) *game.Player {
	var best *game.Player
	for _, p := range opponents {
		if best == nil || propertyCount(p) > propertyCount(best) {
			best = p
		}
	}
	return best
}

func propertyCount(p *game.Player) int {
	n := 0
	for _, cards := range p.Properties {
		n += len(cards)
	}
	return n
}

func bankTotal(p *game.Player) int {
	n := 0
	for _, c := range p.Bank {
		n += c.Value
	}
	return n
}

/* Inspector General: completed sets. */

func findBestSetTarget(opponents []*game.Player) *setPick {
	var best *setPick
	bestValue := -1
	for _, opp := range opponents {
		for _, color := range game.ColorOrder {
			if !game.IsSetComplete(opp, color) {
				continue
			}
			value := 0
			for _, c := range opp.Properties[color] {
				value += c.Value
			}
			if value > bestValue {
				bestValue = value
				best = &setPick{PlayerID: opp.ID, Color: color}
			}
		}
	}
	return best
}

func findCheapestSetTarget(opponents []*game.Player) *setPick {
	var worst *setPick
	worstValue := int(^uint(0) >> 1)
	for _, opp := range opponents {
		for _, color := range game.ColorOrder {
			if !game.IsSetComplete(opp, color) {
				continue
			}
			value := 0
			for _, c := range opp.Properties[color] {
				value += c.Value
			}
			if value < worstValue {
				worstValue = value
				worst = &setPick{PlayerID: opp.ID, Color: color}
			}
		}
	}
	return worst
}

func findRandomSetTarget(opponents []*game.Player, rng *rand.Rand) *setPick {
	var targets []setPick
	for _, opp := range opponents {
		for _, color := range game.ColorOrder {
			if game.IsSetComplete(opp, color) {
				targets = append(targets, setPick{PlayerID: opp.ID, Color: color})
			}
		}
	}
	if len(targets) == 0 {
		return nil
	}
	return &targets[rng.Intn(len(targets))]
}

/* Midnight Requisition: properties outside completed sets. */

// findSetCompletingSteal prefers a card that completes one of the bot's own
// sets; otherwise the most valuable stealable property.
func findSetCompletingSteal(bot *game.Player, opponents []*game.Player) *stealPick {
	for _, color := range game.ColorOrder {
		info := game.Colors[color]
		have := len(bot.Properties[color])
		if have == 0 || have >= info.SetSize {
			continue
		}
		for _, opp := range opponents {
			if game.IsSetComplete(opp, color) {
				continue
			}
			for _, c := range opp.Properties[color] {
				return &stealPick{PlayerID: opp.ID, CardID: c.ID, Value: c.Value}
			}
		}
	}
	var best *stealPick
	for _, opp := range opponents {
		for _, color := range game.ColorOrder {
			if game.IsSetComplete(opp, color) {
				continue
			}
			for _, c := range opp.Properties[color] {
				if best == nil || c.Value > best.Value {
					best = &stealPick{PlayerID: opp.ID, CardID: c.ID, Value: c.Value}
				}
			}
		}
	}
	return best
}

func findCheapestSteal(opponents []*game.Player) *stealPick {
	var cheapest *stealPick
	for _, opp := range opponents {
		for _, color := range game.ColorOrder {
			if game.IsSetComplete(opp, color) {
				continue
			}
			for _, c := range opp.Properties[color] {
				if cheapest == nil || c.Value < cheapest.Value {
					cheapest = &stealPick{PlayerID: opp.ID, CardID: c.ID, Value: c.Value}
				}
			}
		}
	}
	return cheapest
}

func findRandomSteal(opponents []*game.Player, rng *rand.Rand) *stealPick {
	var all []stealPick
	for _, opp := range opponents {
		for _, color := range game.ColorOrder {
			if game.IsSetComplete(opp, color) {
				continue
			}
			for _, c := range opp.Properties[color] {
				all = append(all, stealPick{PlayerID: opp.ID, CardID: c.ID})
			}
		}
	}
	if len(all) == 0 {
		return nil
	}
	return &all[rng.Intn(len(all))]
}

/* CHUD: any property, completed sets included. */

// findSetCompletingChud prefers a card completing one of the bot's sets,
// then the leader's most valuable property.
func findSetCompletingChud(bot *game.Player, opponents []*game.Player) *stealPick {
	for _, color := range game.ColorOrder {
		info := game.Colors[color]
		have := len(bot.Properties[color])
		if have == 0 || have >= info.SetSize {
			continue
		}
		for _, opp := range opponents {
			for _, c := range opp.Properties[color] {
				return &stealPick{PlayerID: opp.ID, CardID: c.ID, Value: c.Value}
			}
		}
	}
	return findLeaderBestChud(opponents)
}

// findLeaderBestChud takes the leader's most valuable property.
func findLeaderBestChud(opponents []*game.Player) *stealPick {
	leader := findLeader(opponents)
	if leader == nil {
		return nil
	}
	var best *stealPick
	for _, color := range game.ColorOrder {
		for _, c := range leader.Properties[color] {
			if best == nil || c.Value > best.Value {
				best = &stealPick{PlayerID: leader.ID, CardID: c.ID, Value: c.Value}
			}
		}
	}
	return best
}

// findWeakestCheapestChud targets the player with the fewest properties and
// steals their cheapest card. Deliberately useless.
func findWeakestCheapestChud(opponents []*game.Player) *stealPick {
	var weakest *game.Player
	fewest := int(^uint(0) >> 1)
	for _, opp := range opponents {
		if n := propertyCount(opp); n > 0 && n < fewest {
			fewest = n
			weakest = opp
		}
	}
	if weakest == nil {
		return nil
	}
	var cheapest *stealPick
	for _, color := range game.ColorOrder {
		for _, c := range weakest.Properties[color] {
			if cheapest == nil || c.Value < cheapest.Value {
				cheapest = &stealPick{PlayerID: weakest.ID, CardID: c.ID, Value: c.Value}
			}
		}
	}
	return cheapest
}

func findRandomChud(opponents []*game.Player, rng *rand.Rand) *stealPick {
	var all []stealPick
	for _, opp := range opponents {
		for _, color := range game.ColorOrder {
			for _, c := range opp.Properties[color] {
				all = append(all, stealPick{PlayerID: opp.ID, CardID: c.ID})
			}
		}
	}
	if len(all) == 0 {
		return nil
	}
	return &all[rng.Intn(len(all))]
}

/* TDY Orders: swaps. */

// findSetCompletingSwap offers an isolated single of the bot's in exchange
// for a card that advances one of its started sets.
func findSetCompletingSwap(bot *game.Player, opponents []*game.Player) *swapPick {
	var myWorst *stealPick
	var myWorstColor game.Color
	for _, color := range game.ColorOrder {
		cards := bot.Properties[color]
		if len(cards) != 1 {
			continue
		}
		c := cards[0]
		if myWorst == nil || c.Value < myWorst.Value {
			myWorst = &stealPick{CardID: c.ID, Value: c.Value}
			myWorstColor = color
		}
	}
	if myWorst == nil {
		return nil
	}
	for _, color := range game.ColorOrder {
		info := game.Colors[color]
		have := len(bot.Properties[color])
		if have == 0 || have >= info.SetSize || color == myWorstColor {
			continue
		}
		for _, opp := range opponents {
			for _, c := range opp.Properties[color] {
				return &swapPick{TargetPlayerID: opp.ID, TargetCardID: c.ID, MyCardID: myWorst.CardID}
			}
		}
	}
	return nil
}

// findTradeUpSwap trades the bot's least valuable property for any strictly
// more valuable opposing one.
func findTradeUpSwap(bot *game.Player, opponents []*game.Player) *swapPick {
	var myWorst *stealPick
	for _, color := range game.ColorOrder {
		for _, c := range bot.Properties[color] {
			if myWorst == nil || c.Value < myWorst.Value {
				myWorst = &stealPick{CardID: c.ID, Value: c.Value}
			}
		}
	}
	if myWorst == nil {
		return nil
	}
	var theirBest *stealPick
	for _, opp := range opponents {
		for _, color := range game.ColorOrder {
			for _, c := range opp.Properties[color] {
				if c.Value > myWorst.Value && (theirBest == nil || c.Value > theirBest.Value) {
					theirBest = &stealPick{PlayerID: opp.ID, CardID: c.ID, Value: c.Value}
				}
			}
		}
	}
	if theirBest == nil {
		return nil
	}
	return &swapPick{TargetPlayerID: theirBest.PlayerID, TargetCardID: theirBest.CardID, MyCardID: myWorst.CardID}
}

// findTradeDownSwap trades the bot's best property for the cheapest opposing
// one. Deliberately self-destructive.
func findTradeDownSwap(bot *game.Player, opponents []*game.Player) *swapPick {
	var myBest *stealPick
	for _, color := range game.ColorOrder {
		for _, c := range bot.Properties[color] {
			if myBest == nil || c.Value > myBest.Value {
				myBest = &stealPick{CardID: c.ID, Value: c.Value}
			}
		}
	}
	if myBest == nil {
		return nil
	}
	var theirWorst *stealPick
	for _, opp := range opponents {
		for _, color := range game.ColorOrder {
			for _, c := range opp.Properties[color] {
				if theirWorst == nil || c.Value < theirWorst.Value {
					theirWorst = &stealPick{PlayerID: opp.ID, CardID: c.ID, Value: c.Value}
				}
			}
		}
	}
	if theirWorst == nil {
		return nil
	}
	return &swapPick{TargetPlayerID: theirWorst.PlayerID, TargetCardID: theirWorst.CardID, MyCardID: myBest.CardID}
}

func findRandomSwap(bot *game.Player, opponents []*game.Player, rng *rand.Rand) *swapPick {
	var mine []string
	for _, color := range game.ColorOrder {
		for _, c := range bot.Properties[color] {
			mine = append(mine, c.ID)
		}
	}
	if len(mine) == 0 {
		return nil
	}
	var theirs []stealPick
	for _, opp := range opponents {
		for _, color := range game.ColorOrder {
			for _, c := range opp.Properties[color] {
				theirs = append(theirs, stealPick{PlayerID: opp.ID, CardID: c.ID})
			}
		}
	}
	if len(theirs) == 0 {
		return nil
	}
	their := theirs[rng.Intn(len(theirs))]
	return &swapPick{TargetPlayerID: their.PlayerID, TargetCardID: their.CardID, MyCardID: mine[rng.Intn(len(mine))]}
}

/* Wild and rent color choices. */

// chooseBestWildColor places a wild where the bot is closest to completing
// a set.
func chooseBestWildColor(bot *game.Player, card *game.Card) game.Color {
	valid := wildColors(card)
	best := valid[0]
	bestScore := -1.0
	for _, color := range valid {
		info, ok := game.Colors[color]
		if !ok {
			continue
		}
		score := float64(len(bot.Properties[color])) / float64(info.SetSize)
		if score > bestScore {
			bestScore = score
			best = color
		}
	}
	return best
}

func wildColors(card *game.Card) []game.Color {
	if len(card.Colors) > 0 && card.Colors[0] == game.ColorAny {
		return game.ColorOrder
	}
	return card.Colors
}

// chooseBestRentColor picks the chargeable color with the highest rent, or
// "" when the bot holds nothing the card covers.
func chooseBestRentColor(bot *game.Player, card *game.Card) game.Color {
	var best game.Color
	for _, color := range card.RentColors() {
		if len(bot.Properties[color]) == 0 {
			continue
		}
		if best == "" || game.CalcRent(bot, color) > game.CalcRent(bot, best) {
			best = color
		}
	}
	return best
}

func chooseRandomRentColor(bot *game.Player, card *game.Card, rng *rand.Rand) game.Color {
	var valid []game.Color
	for _, color := range card.RentColors() {
		if len(bot.Properties[color]) > 0 {
			valid = append(valid, color)
		}
	}
	if len(valid) == 0 {
		return ""
	}
	return valid[rng.Intn(len(valid))]
}

// findUpgradeableSet returns a completed set that can take the marker.
func findUpgradeableSet(bot *game.Player, u game.Upgrade) game.Color {
	for _, color := range game.ColorOrder {
		if !game.IsSetComplete(bot, color) {
			continue
		}
		switch u {
		case game.UpgradeHouse:
			if !bot.HasUpgrade(color, game.UpgradeHouse) {
				return color
			}
		case game.UpgradeHotel:
			if bot.HasUpgrade(color, game.UpgradeHouse) && !bot.HasUpgrade(color, game.UpgradeHotel) {
				return color
			}
		}
	}
	return ""
}
