// Package tournament computes finishing order, prize payouts and blind
// schedules for a single-table tournament.
package tournament

import (
	"sort"
)

// Standing is a player's state when the tournament finishes
type Standing struct {
	PlayerID string
	Seat     int
	Stack    int
	// BustOrder is 0 for players still holding chips, otherwise the
	// 1-based order in which the player was eliminated.
	BustOrder int
}

// Ranking is a finishing position
type Ranking struct {
	Position int
	PlayerID string
	Stack    int
}

// CalculateRankings orders players by final chip stack, largest first.
//
// Equal stacks are broken explicitly instead of relying on input order:
// players still alive rank ahead of eliminated ones, among eliminated
// players the later bust ranks higher, then the lower seat, then player ID.
func CalculateRankings(players []Standing) []Ranking {
	sorted := make([]Standing, len(players))
	copy(sorted, players)

	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Stack != b.Stack {
			return a.Stack > b.Stack
		}
		if aAlive, bAlive := a.BustOrder == 0, b.BustOrder == 0; aAlive != bAlive {
			return aAlive
		}
		if a.BustOrder != b.BustOrder {
			return a.BustOrder > b.BustOrder
		}
		if a.Seat != b.Seat {
			return a.Seat < b.Seat
		}
		return a.PlayerID < b.PlayerID
	})

	rankings := make([]Ranking, len(sorted))
	for i, s := range sorted {
		rankings[i] = Ranking{Position: i + 1, PlayerID: s.PlayerID, Stack: s.Stack}
	}
	return rankings
}
