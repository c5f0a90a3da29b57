package bot

import (
	"fmt"
	"math/rand"
	"time"
)

// Policy names a bot personality. It determines play selection, response
// behavior, payment/discard ordering, and action timing.
type Policy string

const (
	PolicyRandom       Policy = "random"
	PolicyConservative Policy = "conservative"
	PolicyNeutral      Policy = "neutral"
	PolicyAggressive   Policy = "aggressive"
	PolicyChud         Policy = "chud"
)

// Policies lists every valid policy.
var Policies = []Policy{PolicyRandom, PolicyConservative, PolicyNeutral, PolicyAggressive, PolicyChud}

// ParsePolicy validates a policy name, defaulting empty to neutral.
func ParsePolicy(s string) (Policy, error) {
	if s == "" {
		return PolicyNeutral, nil
	}
	for _, p := range Policies {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown bot policy %q", s)
}

// DelayKind classifies what the bot is about to do, for timing purposes.
type DelayKind string

const (
	DelayDraw    DelayKind = "draw"
	DelayPlay    DelayKind = "play"
	DelayRespond DelayKind = "respond"
)

// DelayRange is a uniform sampling window.
type DelayRange struct {
	Min time.Duration
	Max time.Duration
}

// DelayTable maps policy and action kind to a sampling window.
type DelayTable map[Policy]map[DelayKind]DelayRange

// DefaultDelays mirrors the tuned per-personality reaction times.
func DefaultDelays() DelayTable {
	ms := func(lo, hi int) DelayRange {
		return DelayRange{Min: time.Duration(lo) * time.Millisecond, Max: time.Duration(hi) * time.Millisecond}
	}
	return DelayTable{
		PolicyRandom:       {DelayDraw: ms(600, 1500), DelayPlay: ms(600, 1800), DelayRespond: ms(400, 1200)},
		PolicyConservative: {DelayDraw: ms(800, 2000), DelayPlay: ms(1000, 2800), DelayRespond: ms(600, 1600)},
		PolicyNeutral:      {DelayDraw: ms(600, 1500), DelayPlay: ms(800, 2500), DelayRespond: ms(500, 1500)},
		PolicyAggressive:   {DelayDraw: ms(500, 1200), DelayPlay: ms(600, 2000), DelayRespond: ms(400, 1200)},
		PolicyChud:         {DelayDraw: ms(300, 800), DelayPlay: ms(300, 800), DelayRespond: ms(200, 600)},
	}
}

// Scale multiplies every window, letting tests run with near-zero delays.
func (t DelayTable) Scale(factor float64) DelayTable {
	out := make(DelayTable, len(t))
	for policy, kinds := range t {
		out[policy] = make(map[DelayKind]DelayRange, len(kinds))
		for kind, r := range kinds {
			out[policy][kind] = DelayRange{
				Min: time.Duration(float64(r.Min) * factor),
				Max: time.Duration(float64(r.Max) * factor),
			}
		}
	}
	return out
}

// Sample draws a delay for the policy and kind, falling back to the neutral
// play window for unknown entries.
func (t DelayTable) Sample(policy Policy, kind DelayKind, rng *rand.Rand) time.Duration {
	kinds, ok := t[policy]
	if !ok {
		kinds = t[PolicyNeutral]
	}
	r, ok := kinds[kind]
	if !ok {
		r = kinds[DelayPlay]
	}
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + time.Duration(rng.Int63n(int64(r.Max-r.Min)))
}
