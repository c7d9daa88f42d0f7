package equity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokerengine/poker"
)

func TestEstimate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		hole      string
		board     string
		opponents int
		min, max  float64
	}{
		{"pocket aces heads up", "As Ad", "", 1, 0.80, 0.90},
		{"seven deuce heads up", "7h 2c", "", 1, 0.27, 0.40},
		{"pocket aces three way", "As Ad", "", 2, 0.67, 0.80},
		{"nut flush draw", "As Ks", "Qs Js 2h", 1, 0.65, 0.85},
		{"ace high on a broadway board", "2h 3c", "As Kd Qh", 1, 0.05, 0.25},
		{"royal flush made", "Jh Th", "Ah Kh Qh 7d 2c", 3, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := Request{
				Hole:      poker.MustParseCards(tt.hole),
				Opponents: tt.opponents,
				Samples:   4000,
				Seed:      12345,
			}
			if tt.board != "" {
				req.Board = poker.MustParseCards(tt.board)
			}

			res, err := Estimate(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, 4000, res.Samples)
			assert.GreaterOrEqual(t, res.Equity, tt.min)
			assert.LessOrEqual(t, res.Equity, tt.max)
		})
	}
}

func TestEstimateDeterministicAcrossWorkerCounts(t *testing.T) {
	t.Parallel()

	req := Request{
		Hole:      poker.MustParseCards("Kc Qc"),
		Board:     poker.MustParseCards("2c 9c"),
		Opponents: 2,
		Samples:   1000,
		Seed:      7,
		Workers:   1,
	}
	one, err := Estimate(context.Background(), req)
	require.NoError(t, err)

	req.Workers = 8
	eight, err := Estimate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, one, eight)
}

func TestEstimateSplitBoard(t *testing.T) {
	t.Parallel()

	// The board is a royal flush: every hand plays it and splits.
	res, err := Estimate(context.Background(), Request{
		Hole:      poker.MustParseCards("2c 3d"),
		Board:     poker.MustParseCards("As Ks Qs Js Ts"),
		Opponents: 3,
		Samples:   100,
		Seed:      1,
	})
	require.NoError(t, err)
	assert.Equal(t, 100, res.Ties)
	assert.Zero(t, res.Wins)
	assert.InDelta(t, 0.25, res.Equity, 1e-9)
}

func TestEstimatePreconditions(t *testing.T) {
	t.Parallel()

	hole := poker.MustParseCards("As Ad")
	tests := []struct {
		name string
		req  Request
	}{
		{"one hole card", Request{Hole: hole[:1], Opponents: 1, Samples: 10}},
		{"six board cards", Request{Hole: hole, Board: poker.MustParseCards("2c 3c 4c 5c 6c 7c"), Opponents: 1, Samples: 10}},
		{"no opponents", Request{Hole: hole, Samples: 10}},
		{"too many opponents", Request{Hole: hole, Opponents: 10, Samples: 10}},
		{"no samples", Request{Hole: hole, Opponents: 1}},
		{"duplicate", Request{Hole: hole, Board: poker.MustParseCards("As 2c 3c"), Opponents: 1, Samples: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Estimate(context.Background(), tt.req)
			require.ErrorIs(t, err, poker.ErrPrecondition)
		})
	}
}

func TestEstimateCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Estimate(ctx, Request{
		Hole:      poker.MustParseCards("As Ad"),
		Opponents: 1,
		Samples:   100000,
	})
	require.ErrorIs(t, err, context.Canceled)
}

func BenchmarkEstimate(b *testing.B) {
	req := Request{
		Hole:      poker.MustParseCards("As Kd"),
		Board:     poker.MustParseCards("Qh 7c 2s"),
		Opponents: 1,
		Samples:   1000,
		Seed:      1,
	}
	for b.Loop() {
		if _, err := Estimate(context.Background(), req); err != nil {
			b.Fatal(err)
		}
	}
}
