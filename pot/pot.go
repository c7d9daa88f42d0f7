// Package pot splits the chips wagered in a hand into a main pot and side
// pots, and pays each pot to the best eligible hand.
package pot

import (
	"fmt"
	"sort"

	"github.com/lox/pokerengine/poker"
)

// PlayerBet is one player's wagering state for a hand
type PlayerBet struct {
	PlayerID string
	Seat     int
	// Committed is the cumulative amount wagered this hand, all streets.
	Committed int
	Folded    bool
	Stack     int
}

// SidePot is a pot and the players who can win it. Eligible holds player
// IDs in ascending seat order.
type SidePot struct {
	Amount   int
	Eligible []string
	// Level is the per-player commitment cap this pot was built at.
	Level int
}

// IsEligible reports whether playerID can win the pot
func (p SidePot) IsEligible(playerID string) bool {
	for _, id := range p.Eligible {
		if id == playerID {
			return true
		}
	}
	return false
}

// Total returns the sum of all pot amounts
func Total(pots []SidePot) int {
	total := 0
	for _, p := range pots {
		total += p.Amount
	}
	return total
}

// Committed returns the sum of every player's commitment, folded players included
func Committed(bets []PlayerBet) int {
	total := 0
	for _, b := range bets {
		total += b.Committed
	}
	return total
}

// BuildSidePots partitions all committed chips into pots.
//
// Distinct commitment levels are visited in ascending order. Each level
// takes up to (level - previous level) from every player still contributing,
// and the pot is open to every non-folded player whose original commitment
// reaches the level. Folded players' chips stay in the pots they reached.
//
// Two adjustments keep the result tidy without moving chips between
// players: consecutive pots with the same eligible players are merged, and
// a level nobody live reached (a folded player's overbet) is added to the
// pot below it, or to the first live pot above it when there is none below.
// The sum of the returned amounts always equals the sum of the commitments.
func BuildSidePots(bets []PlayerBet) []SidePot {
	contributors := make([]PlayerBet, 0, len(bets))
	for _, b := range bets {
		if b.Committed > 0 {
			contributors = append(contributors, b)
		}
	}
	if len(contributors) == 0 {
		return nil
	}

	sort.SliceStable(contributors, func(i, j int) bool {
		return contributors[i].Seat < contributors[j].Seat
	})

	levels := distinctLevels(contributors)
	remaining := make([]int, len(contributors))
	for i, c := range contributors {
		remaining[i] = c.Committed
	}

	var pots []SidePot
	previous, dead := 0, 0
	for _, level := range levels {
		step := level - previous
		pot := SidePot{Level: level}

		for i, c := range contributors {
			if remaining[i] == 0 {
				continue
			}
			take := min(remaining[i], step)
			pot.Amount += take
			remaining[i] -= take

			// Eligibility compares the original commitment to the level.
			if !c.Folded && c.Committed >= level {
				pot.Eligible = append(pot.Eligible, c.PlayerID)
			}
		}
		previous = level

		if pot.Amount == 0 {
			continue
		}

		if len(pot.Eligible) == 0 {
			if n := len(pots); n > 0 {
				pots[n-1].Amount += pot.Amount
			} else {
				dead += pot.Amount
			}
			continue
		}
		pot.Amount += dead
		dead = 0

		if n := len(pots); n > 0 && sameEligible(pots[n-1].Eligible, pot.Eligible) {
			pots[n-1].Amount += pot.Amount
			pots[n-1].Level = pot.Level
			continue
		}
		pots = append(pots, pot)
	}

	if dead > 0 {
		// Nobody live put chips in. The caller decides who contests it.
		pots = append(pots, SidePot{Amount: dead, Level: previous})
	}
	return pots
}

func distinctLevels(bets []PlayerBet) []int {
	seen := make(map[int]bool, len(bets))
	levels := make([]int, 0, len(bets))
	for _, b := range bets {
		if !seen[b.Committed] {
			seen[b.Committed] = true
			levels = append(levels, b.Committed)
		}
	}
	sort.Ints(levels)
	return levels
}

func sameEligible(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Award records how one pot was paid out
type Award struct {
	Pot      int // index into the pots slice
	Amount   int
	Winners  []string
	Shares   map[string]int
	Strength poker.Strength
}

// Distributor pays pots to the strongest eligible hands. Button is the
// dealer seat used to hand out odd chips: leftover chips from a split go
// one at a time to tied winners in seat order starting left of the button.
// A negative Button means plain ascending seat order.
type Distributor struct {
	Button int
	// Seats maps player IDs to seats for odd-chip ordering. When nil, the
	// order of each pot's Eligible list is used, and Button must be
	// negative since there are no seats to place it among.
	Seats map[string]int
}

// Distribute pays every pot and returns one Award per pot.
//
// A Button without Seats, or a winner missing from Seats, is
// ErrPrecondition: odd chips could not be placed.
//
// strengths holds the hand strength of every player who reached showdown;
// players without an entry (folded or mucked) cannot win. A pot with no
// eligible player holding a strength is an invariant violation and stops
// settlement.
func (d Distributor) Distribute(pots []SidePot, strengths map[string]poker.Strength) ([]Award, error) {
	if d.Seats == nil && d.Button >= 0 {
		return nil, fmt.Errorf("button at seat %d without a seat map: %w", d.Button, poker.ErrPrecondition)
	}

	awards := make([]Award, 0, len(pots))
	for i, p := range pots {
		if p.Amount <= 0 {
			continue
		}

		var best poker.Strength
		var winners []string
		for _, id := range p.Eligible {
			s, ok := strengths[id]
			if !ok {
				continue
			}
			switch {
			case len(winners) == 0 || s > best:
				best = s
				winners = []string{id}
			case s == best:
				winners = append(winners, id)
			}
		}

		if len(winners) == 0 {
			return nil, fmt.Errorf("pot %d of %d chips has no eligible winner among %v: %w",
				i, p.Amount, p.Eligible, poker.ErrInvariant)
		}

		if d.Seats != nil {
			for _, id := range winners {
				if _, ok := d.Seats[id]; !ok {
					return nil, fmt.Errorf("winner %s has no seat: %w", id, poker.ErrPrecondition)
				}
			}
		}
		d.order(winners)
		award := Award{
			Pot:      i,
			Amount:   p.Amount,
			Winners:  winners,
			Shares:   make(map[string]int, len(winners)),
			Strength: best,
		}

		share := p.Amount / len(winners)
		remainder := p.Amount % len(winners)
		for k, id := range winners {
			award.Shares[id] = share
			if k < remainder {
				award.Shares[id]++
			}
		}
		awards = append(awards, award)
	}
	return awards, nil
}

// order sorts winners into odd-chip order
func (d Distributor) order(winners []string) {
	if d.Seats == nil {
		return
	}
	sort.SliceStable(winners, func(i, j int) bool {
		return d.seatKey(winners[i]) < d.seatKey(winners[j])
	})
}

// seatKey ranks seats after the button before seats at or before it
func (d Distributor) seatKey(id string) int {
	seat := d.Seats[id]
	if d.Button >= 0 && seat <= d.Button {
		return seat + 1<<20
	}
	return seat
}

// Winnings sums awards into chips won per player
func Winnings(awards []Award) map[string]int {
	out := make(map[string]int)
	for _, a := range awards {
		for id, amount := range a.Shares {
			out[id] += amount
		}
	}
	return out
}

// DistributePots pays each pot to its strongest eligible hands, splitting
// ties with the remainder going out one chip at a time in ascending seat
// order, and returns the chips won per player.
func DistributePots(pots []SidePot, strengths map[string]poker.Strength) (map[string]int, error) {
	awards, err := Distributor{Button: -1}.Distribute(pots, strengths)
	if err != nil {
		return nil, err
	}
	return Winnings(awards), nil
}
