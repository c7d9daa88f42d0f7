// Package equity estimates how often a hand wins at showdown by Monte Carlo
// simulation: opponents' hole cards and the rest of the board are dealt at
// random and every hand is evaluated.
package equity

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/lox/pokerengine/internal/randutil"
	"github.com/lox/pokerengine/poker"
)

const (
	// shards is fixed so a seed gives the same answer on any machine,
	// whatever the worker count.
	shards = 16

	// ctxCheckEvery is how many samples a shard runs between context checks.
	ctxCheckEvery = 256

	maxOpponents = 9
)

// Request describes a simulation
type Request struct {
	Hole      []poker.Card
	Board     []poker.Card
	Opponents int
	Samples   int
	Seed      int64
	// Workers caps concurrent shards. Zero means min(NumCPU, 8).
	Workers int
}

// Result is the outcome of a simulation
type Result struct {
	Samples int
	Wins    int
	Ties    int
	// Equity is the expected share of the pot: wins count fully, a tie
	// counts 1/k of the pot for a k-way split.
	Equity float64
}

// cardSet is a bitset over the 52 cards
type cardSet uint64

func cardIndex(c poker.Card) int {
	return int(c.Rank-poker.Two)*4 + int(c.Suit)
}

func (cs *cardSet) add(c poker.Card) {
	*cs |= 1 << cardIndex(c)
}

func (cs cardSet) contains(c poker.Card) bool {
	return cs&(1<<cardIndex(c)) != 0
}

type shardResult struct {
	samples int
	wins    int
	ties    int
	share   float64
}

// Estimate runs the simulation across parallel workers. It stops early
// with the context's error if ctx is cancelled.
func Estimate(ctx context.Context, req Request) (Result, error) {
	known, err := validate(req)
	if err != nil {
		return Result{}, err
	}

	// Remaining deck, shared read-only by all shards.
	available := make([]poker.Card, 0, poker.DeckSize)
	for _, c := range poker.NewDeck().Cards() {
		if !known.contains(c) {
			available = append(available, c)
		}
	}

	workers := req.Workers
	if workers <= 0 {
		workers = min(runtime.NumCPU(), 8)
	}

	results := make([]shardResult, shards)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	per, remainder := req.Samples/shards, req.Samples%shards
	for i := range shards {
		n := per
		if i < remainder {
			n++
		}
		if n == 0 {
			continue
		}
		rng := randutil.Derive(req.Seed, i)
		g.Go(func() error {
			r, err := runShard(ctx, req, available, n, rng)
			results[i] = r
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var total shardResult
	for _, r := range results {
		total.samples += r.samples
		total.wins += r.wins
		total.ties += r.ties
		total.share += r.share
	}

	return Result{
		Samples: total.samples,
		Wins:    total.wins,
		Ties:    total.ties,
		Equity:  total.share / float64(total.samples),
	}, nil
}

func validate(req Request) (cardSet, error) {
	if len(req.Hole) != 2 {
		return 0, fmt.Errorf("need 2 hole cards, got %d: %w", len(req.Hole), poker.ErrPrecondition)
	}
	if len(req.Board) > 5 {
		return 0, fmt.Errorf("board has %d cards: %w", len(req.Board), poker.ErrPrecondition)
	}
	if req.Opponents < 1 || req.Opponents > maxOpponents {
		return 0, fmt.Errorf("opponents must be 1-%d, got %d: %w", maxOpponents, req.Opponents, poker.ErrPrecondition)
	}
	if req.Samples <= 0 {
		return 0, fmt.Errorf("samples must be positive: %w", poker.ErrPrecondition)
	}

	var known cardSet
	for _, c := range append(append([]poker.Card(nil), req.Hole...), req.Board...) {
		if !c.Valid() {
			return 0, fmt.Errorf("invalid card %v: %w", c, poker.ErrPrecondition)
		}
		if known.contains(c) {
			return 0, fmt.Errorf("duplicate card %s: %w", c, poker.ErrPrecondition)
		}
		known.add(c)
	}
	return known, nil
}

func runShard(ctx context.Context, req Request, available []poker.Card, samples int, rng *rand.Rand) (shardResult, error) {
	var r shardResult

	need := 2*req.Opponents + 5 - len(req.Board)
	pool := make([]poker.Card, len(available))
	seven := make([]poker.Card, 7)
	board := make([]poker.Card, 5)
	copy(board, req.Board)

	for i := range samples {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return r, err
			}
		}

		// Partial Fisher-Yates: the first need cards of pool are the draw.
		copy(pool, available)
		for j := range need {
			k := j + rng.IntN(len(pool)-j)
			pool[j], pool[k] = pool[k], pool[j]
		}
		copy(board[len(req.Board):], pool[2*req.Opponents:need])

		hero, err := strength(seven, req.Hole, board)
		if err != nil {
			return r, err
		}

		best, tied := poker.Strength(0), 0
		for o := range req.Opponents {
			s, err := strength(seven, pool[2*o:2*o+2], board)
			if err != nil {
				return r, err
			}
			switch {
			case s > best:
				best, tied = s, 1
			case s == best:
				tied++
			}
		}

		r.samples++
		switch {
		case hero > best:
			r.wins++
			r.share++
		case hero == best:
			r.ties++
			r.share += 1 / float64(tied+1)
		}
	}
	return r, nil
}

func strength(buf, hole, board []poker.Card) (poker.Strength, error) {
	copy(buf, hole)
	copy(buf[2:], board)
	hand, err := poker.Evaluate(buf)
	if err != nil {
		return 0, err
	}
	return hand.Strength, nil
}
