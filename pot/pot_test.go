package pot

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokerengine/internal/randutil"
	"github.com/lox/pokerengine/poker"
)

func strengthOf(t *testing.T, cards string) poker.Strength {
	t.Helper()
	r, err := poker.Evaluate(poker.MustParseCards(cards))
	require.NoError(t, err)
	return r.Strength
}

func TestBuildSidePotsScenario(t *testing.T) {
	t.Parallel()

	bets := []PlayerBet{
		{PlayerID: "alice", Seat: 0, Committed: 100},
		{PlayerID: "bob", Seat: 1, Committed: 300},
		{PlayerID: "carol", Seat: 2, Committed: 300},
	}

	pots := BuildSidePots(bets)
	require.Len(t, pots, 2)

	assert.Equal(t, 300, pots[0].Amount)
	assert.Equal(t, []string{"alice", "bob", "carol"}, pots[0].Eligible)
	assert.Equal(t, 400, pots[1].Amount)
	assert.Equal(t, []string{"bob", "carol"}, pots[1].Eligible)

	board := "2c 7d 9h Js 4s"
	strengths := map[string]poker.Strength{
		"alice": strengthOf(t, "As Ah "+board),
		"bob":   strengthOf(t, "Kc Kd "+board),
		"carol": strengthOf(t, "Qc Qd "+board),
	}

	winnings, err := DistributePots(pots, strengths)
	require.NoError(t, err)
	assert.Equal(t, 300, winnings["alice"])
	assert.Equal(t, 400, winnings["bob"], "side pot goes to the stronger of the two deep stacks")
	assert.Zero(t, winnings["carol"])
}

func TestBuildSidePotsNoAllIn(t *testing.T) {
	t.Parallel()

	pots := BuildSidePots([]PlayerBet{
		{PlayerID: "a", Seat: 0, Committed: 100},
		{PlayerID: "b", Seat: 1, Committed: 100},
		{PlayerID: "c", Seat: 2, Committed: 100},
	})
	require.Len(t, pots, 1)
	assert.Equal(t, 300, pots[0].Amount)
	assert.Len(t, pots[0].Eligible, 3)
}

func TestBuildSidePotsMultipleAllIns(t *testing.T) {
	t.Parallel()

	pots := BuildSidePots([]PlayerBet{
		{PlayerID: "a", Seat: 0, Committed: 30},
		{PlayerID: "b", Seat: 1, Committed: 70},
		{PlayerID: "c", Seat: 2, Committed: 100},
		{PlayerID: "d", Seat: 3, Committed: 100},
	})

	require.Len(t, pots, 3)
	assert.Equal(t, []int{120, 120, 60}, []int{pots[0].Amount, pots[1].Amount, pots[2].Amount})
	assert.Equal(t, []string{"a", "b", "c", "d"}, pots[0].Eligible)
	assert.Equal(t, []string{"b", "c", "d"}, pots[1].Eligible)
	assert.Equal(t, []string{"c", "d"}, pots[2].Eligible)
}

func TestBuildSidePotsFoldedChipsCount(t *testing.T) {
	t.Parallel()

	bets := []PlayerBet{
		{PlayerID: "a", Seat: 0, Committed: 100},
		{PlayerID: "b", Seat: 1, Committed: 150, Folded: true},
		{PlayerID: "c", Seat: 2, Committed: 300},
		{PlayerID: "d", Seat: 3, Committed: 300},
	}
	pots := BuildSidePots(bets)

	require.Len(t, pots, 2, "levels with identical eligibility merge")
	assert.Equal(t, 400, pots[0].Amount)
	assert.Equal(t, []string{"a", "c", "d"}, pots[0].Eligible)
	assert.Equal(t, 450, pots[1].Amount)
	assert.Equal(t, []string{"c", "d"}, pots[1].Eligible)
	assert.Equal(t, Committed(bets), Total(pots))

	for _, p := range pots {
		assert.False(t, p.IsEligible("b"), "folded players never win")
	}
}

func TestBuildSidePotsFoldedOverbetIsDeadMoney(t *testing.T) {
	t.Parallel()

	bets := []PlayerBet{
		{PlayerID: "a", Seat: 0, Committed: 100},
		{PlayerID: "b", Seat: 1, Committed: 200},
		{PlayerID: "c", Seat: 2, Committed: 300, Folded: true},
	}
	pots := BuildSidePots(bets)

	require.Len(t, pots, 2)
	assert.Equal(t, 300, pots[0].Amount)
	assert.Equal(t, 300, pots[1].Amount)
	assert.Equal(t, []string{"b"}, pots[1].Eligible)
	assert.Equal(t, 600, Total(pots))
}

func TestBuildSidePotsFoldedUnderbetJoinsFirstLivePot(t *testing.T) {
	t.Parallel()

	pots := BuildSidePots([]PlayerBet{
		{PlayerID: "a", Seat: 0, Committed: 50, Folded: true},
		{PlayerID: "b", Seat: 1, Committed: 200},
		{PlayerID: "c", Seat: 2, Committed: 200},
	})

	require.Len(t, pots, 1)
	assert.Equal(t, 450, pots[0].Amount)
	assert.Equal(t, []string{"b", "c"}, pots[0].Eligible)
	assert.Equal(t, 200, pots[0].Level)

	// Nobody live contributed: the chips stay in one uncontested pot.
	pots = BuildSidePots([]PlayerBet{
		{PlayerID: "a", Seat: 0, Committed: 40, Folded: true},
		{PlayerID: "b", Seat: 1, Committed: 0},
	})
	require.Len(t, pots, 1)
	assert.Equal(t, 40, pots[0].Amount)
	assert.Empty(t, pots[0].Eligible)
}

func TestBuildSidePotsIgnoresZeroCommitments(t *testing.T) {
	t.Parallel()

	assert.Nil(t, BuildSidePots(nil))
	assert.Nil(t, BuildSidePots([]PlayerBet{{PlayerID: "a", Committed: 0}}))

	pots := BuildSidePots([]PlayerBet{
		{PlayerID: "a", Seat: 0, Committed: 0},
		{PlayerID: "b", Seat: 1, Committed: 20},
		{PlayerID: "c", Seat: 2, Committed: 20},
	})
	require.Len(t, pots, 1)
	assert.Equal(t, []string{"b", "c"}, pots[0].Eligible)
}

func TestDistributeSplitFairness(t *testing.T) {
	t.Parallel()

	board := "Ah Kd Qs Jc Th"
	tie := strengthOf(t, "2c 3d "+board)

	for _, amount := range []int{300, 301, 302, 1000, 7} {
		t.Run(fmt.Sprint(amount), func(t *testing.T) {
			pots := []SidePot{{Amount: amount, Eligible: []string{"a", "b", "c"}}}
			strengths := map[string]poker.Strength{"a": tie, "b": tie, "c": tie}

			winnings, err := DistributePots(pots, strengths)
			require.NoError(t, err)

			base := amount / 3
			bonuses := 0
			total := 0
			for _, id := range []string{"a", "b", "c"} {
				got := winnings[id]
				require.True(t, got == base || got == base+1, "share %d for %s", got, id)
				if got == base+1 {
					bonuses++
				}
				total += got
			}
			assert.Equal(t, amount%3, bonuses)
			assert.Equal(t, amount, total)
			if amount%3 == 1 {
				assert.Equal(t, base+1, winnings["a"], "odd chip goes to the lowest seat")
			}
		})
	}
}

func TestDistributorOddChipLeftOfButton(t *testing.T) {
	t.Parallel()

	board := "As Kd Qs 7c 2s"
	pots := []SidePot{{Amount: 303, Eligible: []string{"s1", "s2", "s3"}}}
	strengths := map[string]poker.Strength{
		"s1": strengthOf(t, "2c 3d "+board),
		"s2": strengthOf(t, "2d 4h "+board),
		"s3": strengthOf(t, "9c 8d "+board),
	}

	d := Distributor{Button: 1, Seats: map[string]int{"s1": 1, "s2": 2, "s3": 3}}
	awards, err := d.Distribute(pots, strengths)
	require.NoError(t, err)
	require.Len(t, awards, 1)

	assert.Equal(t, []string{"s2", "s1"}, awards[0].Winners)
	assert.Equal(t, 152, awards[0].Shares["s2"], "odd chip goes left of the button")
	assert.Equal(t, 151, awards[0].Shares["s1"])
}

func TestDistributorButtonNeedsSeats(t *testing.T) {
	t.Parallel()

	pots := []SidePot{{Amount: 101, Eligible: []string{"a", "b"}}}
	strengths := map[string]poker.Strength{"a": 7, "b": 7}

	_, err := Distributor{Button: 2}.Distribute(pots, strengths)
	require.ErrorIs(t, err, poker.ErrPrecondition, "button cannot be placed without seats")

	_, err = Distributor{Button: 2, Seats: map[string]int{"a": 1}}.Distribute(pots, strengths)
	require.ErrorIs(t, err, poker.ErrPrecondition, "b has no seat")

	awards, err := Distributor{Button: -1}.Distribute(pots, strengths)
	require.NoError(t, err)
	assert.Equal(t, 51, awards[0].Shares["a"], "eligible order without seats")
	assert.Equal(t, 50, awards[0].Shares["b"])
}

func TestDistributeNoEligibleWinner(t *testing.T) {
	t.Parallel()

	pots := []SidePot{{Amount: 100, Eligible: []string{"a", "b"}}}
	_, err := DistributePots(pots, map[string]poker.Strength{"c": 1})
	require.ErrorIs(t, err, poker.ErrInvariant)

	_, err = DistributePots([]SidePot{{Amount: 50}}, map[string]poker.Strength{"a": 1})
	require.ErrorIs(t, err, poker.ErrInvariant)
}

// TestPotConservationRandomized builds pots from random commitments and
// fold flags and checks that no chip is created or lost on the way from
// commitments to pots to winnings.
func TestPotConservationRandomized(t *testing.T) {
	t.Parallel()

	rng := randutil.New(7)
	for iter := 0; iter < 5000; iter++ {
		n := 2 + rng.IntN(8)
		bets := make([]PlayerBet, n)
		strengths := make(map[string]poker.Strength)
		for i := range bets {
			id := fmt.Sprintf("p%d", i)
			bets[i] = PlayerBet{
				PlayerID:  id,
				Seat:      i,
				Committed: rng.IntN(6) * (1 + rng.IntN(250)),
				Folded:    rng.IntN(3) == 0,
			}
			if !bets[i].Folded {
				strengths[id] = poker.Strength(rng.IntN(4))
			}
		}

		pots := BuildSidePots(bets)
		require.Equal(t, Committed(bets), Total(pots), "iteration %d: %+v", iter, bets)

		for _, p := range pots {
			for _, id := range p.Eligible {
				var bet PlayerBet
				for _, b := range bets {
					if b.PlayerID == id {
						bet = b
					}
				}
				require.False(t, bet.Folded, "folded player %s eligible", id)
				require.GreaterOrEqual(t, bet.Committed, p.Level, "iteration %d", iter)
			}
		}

		winnings, err := DistributePots(pots, strengths)
		if err != nil {
			// Only possible when every contributor folded.
			require.ErrorIs(t, err, poker.ErrInvariant)
			for _, b := range bets {
				if b.Committed > 0 {
					require.True(t, b.Folded, "iteration %d: %+v", iter, bets)
				}
			}
			continue
		}

		paid := 0
		for _, w := range winnings {
			paid += w
		}
		require.Equal(t, Total(pots), paid, "iteration %d", iter)
	}
}
