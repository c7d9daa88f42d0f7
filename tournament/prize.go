package tournament

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/lox/pokerengine/poker"
)

// Bracket is the payout table used once a tournament reaches MinPlayers
// entrants. Percentages[i] is paid to position i+1.
type Bracket struct {
	MinPlayers  int
	Percentages []decimal.Decimal
}

// Total returns the sum of the bracket's percentages
func (b Bracket) Total() decimal.Decimal {
	return decimal.Sum(decimal.Zero, b.Percentages...)
}

// Payouts is a set of brackets keyed by player-count threshold
type Payouts []Bracket

func percents(values ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.NewFromInt(v)
	}
	return out
}

// DefaultPayouts is the standard payout table
var DefaultPayouts = Payouts{
	{MinPlayers: 2, Percentages: percents(100)},
	{MinPlayers: 3, Percentages: percents(70, 30)},
	{MinPlayers: 6, Percentages: percents(50, 30, 20)},
	{MinPlayers: 9, Percentages: percents(40, 25, 15, 10, 10)},
	{MinPlayers: 18, Percentages: percents(30, 20, 14, 10, 8, 6, 5, 4, 3)},
	{MinPlayers: 27, Percentages: percents(25, 17, 12, 9, 7, 6, 5, 4, 4, 3, 3, 3, 2)},
}

// Select returns the bracket with the largest threshold not exceeding
// totalPlayers.
func (p Payouts) Select(totalPlayers int) (Bracket, error) {
	var best Bracket
	found := false
	for _, b := range p {
		if b.MinPlayers <= totalPlayers && (!found || b.MinPlayers > best.MinPlayers) {
			best = b
			found = true
		}
	}
	if !found {
		return Bracket{}, fmt.Errorf("no payout bracket for %d players: %w", totalPlayers, poker.ErrPrecondition)
	}
	return best, nil
}

// Validate checks that thresholds are unique and positive and that no
// bracket pays out more than 100%.
func (p Payouts) Validate() error {
	hundred := decimal.NewFromInt(100)
	seen := make(map[int]bool, len(p))
	for _, b := range p {
		if b.MinPlayers < 1 {
			return fmt.Errorf("payout bracket threshold must be positive, got %d", b.MinPlayers)
		}
		if seen[b.MinPlayers] {
			return fmt.Errorf("duplicate payout bracket for %d players", b.MinPlayers)
		}
		seen[b.MinPlayers] = true
		if len(b.Percentages) == 0 {
			return fmt.Errorf("payout bracket %d has no places", b.MinPlayers)
		}
		for i, pct := range b.Percentages {
			if pct.IsNegative() {
				return fmt.Errorf("payout bracket %d: place %d has negative percentage %s", b.MinPlayers, i+1, pct)
			}
		}
		if total := b.Total(); total.GreaterThan(hundred) {
			return fmt.Errorf("payout bracket %d pays %s%%, more than 100%%", b.MinPlayers, total)
		}
	}
	return nil
}

// Sorted returns the brackets ordered by threshold
func (p Payouts) Sorted() Payouts {
	out := make(Payouts, len(p))
	copy(out, p)
	sort.Slice(out, func(i, j int) bool { return out[i].MinPlayers < out[j].MinPlayers })
	return out
}

// PrizeEntry is one paid finishing position
type PrizeEntry struct {
	Position   int
	PlayerID   string
	Prize      int
	Percentage decimal.Decimal
}

// CalculatePrizes pays the default bracket for totalPlayers
func CalculatePrizes(prizePool, totalPlayers int, rankings []Ranking) ([]PrizeEntry, error) {
	return DefaultPayouts.Calculate(prizePool, totalPlayers, rankings)
}

// Calculate pays the top finishers their bracket percentage of the prize
// pool. Each amount is floored to whole chips; whatever the flooring leaves
// over stays undistributed (see Undistributed).
func (p Payouts) Calculate(prizePool, totalPlayers int, rankings []Ranking) ([]PrizeEntry, error) {
	if prizePool < 0 {
		return nil, fmt.Errorf("negative prize pool %d: %w", prizePool, poker.ErrPrecondition)
	}
	bracket, err := p.Select(totalPlayers)
	if err != nil {
		return nil, err
	}

	pool := decimal.NewFromInt(int64(prizePool))
	hundred := decimal.NewFromInt(100)

	places := min(len(bracket.Percentages), len(rankings))
	entries := make([]PrizeEntry, 0, places)
	for i := 0; i < places; i++ {
		pct := bracket.Percentages[i]
		amount := pool.Mul(pct).Div(hundred).Floor()
		entries = append(entries, PrizeEntry{
			Position:   rankings[i].Position,
			PlayerID:   rankings[i].PlayerID,
			Prize:      int(amount.IntPart()),
			Percentage: pct,
		})
	}
	return entries, nil
}

// Undistributed returns the part of the prize pool not paid to anyone
func Undistributed(prizePool int, entries []PrizeEntry) int {
	paid := 0
	for _, e := range entries {
		paid += e.Prize
	}
	return prizePool - paid
}
