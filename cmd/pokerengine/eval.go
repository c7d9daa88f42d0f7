package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lox/pokerengine/internal/equity"
	"github.com/lox/pokerengine/internal/randutil"
	"github.com/lox/pokerengine/poker"
)

// EvalCmd evaluates a set of cards
type EvalCmd struct {
	Cards []string `arg:"" help:"Cards to evaluate, e.g. 'Ah Kh Qh Jh Th 2c'"`
}

func (cmd EvalCmd) Run(g *Globals) error {
	if err := g.setup(); err != nil {
		return err
	}

	cards, err := poker.ParseCards(strings.Join(cmd.Cards, " "))
	if err != nil {
		return err
	}
	hand, err := poker.Evaluate(cards)
	if err != nil {
		return err
	}

	fmt.Fprintf(g.out, "%s  %s\n",
		handStyle.Render(poker.FormatCards(hand.Cards[:])),
		categoryStyle.Render(hand.Label))
	g.logger.Debug("Evaluated", "cards", poker.FormatCards(cards), "category", hand.Category, "strength", uint32(hand.Strength))
	return nil
}

// OddsCmd estimates equity for a hand against random opponents
type OddsCmd struct {
	Hole      string `arg:"" help:"Hole cards, e.g. 'AsKd'"`
	Board     string `short:"b" help:"Community cards (e.g., 'Td7s8h')"`
	Opponents int    `short:"o" help:"Number of random opponents" default:"1"`
	Samples   int    `short:"i" help:"Number of Monte Carlo iterations" default:"100000"`
	Seed      *int64 `help:"Random seed for reproducible results"`
	Workers   int    `help:"Parallel workers (0 = number of CPUs)" default:"0"`
}

func (cmd OddsCmd) Run(g *Globals) error {
	if err := g.setup(); err != nil {
		return err
	}

	hole, err := poker.ParseCards(cmd.Hole)
	if err != nil {
		return fmt.Errorf("hole cards: %w", err)
	}
	var board []poker.Card
	if cmd.Board != "" {
		if board, err = poker.ParseCards(cmd.Board); err != nil {
			return fmt.Errorf("board: %w", err)
		}
	}

	var seed int64
	switch {
	case cmd.Seed != nil:
		seed = *cmd.Seed
	case g.cfg.Engine.Seed != 0:
		seed = g.cfg.Engine.Seed
	default:
		seed = randutil.Seed64()
	}

	start := time.Now()
	res, err := equity.Estimate(context.Background(), equity.Request{
		Hole:      hole,
		Board:     board,
		Opponents: cmd.Opponents,
		Samples:   cmd.Samples,
		Seed:      seed,
		Workers:   cmd.Workers,
	})
	if err != nil {
		return err
	}

	if len(board) > 0 {
		fmt.Fprintf(g.out, "%s %s\n", headerStyle.Render("board"), poker.FormatCards(board))
	}
	fmt.Fprintf(g.out, "%s vs %d  equity %s  win %s  tie %s\n",
		handStyle.Render(poker.FormatCards(hole)),
		cmd.Opponents,
		winStyle.Render(fmt.Sprintf("%.1f%%", res.Equity*100)),
		winStyle.Render(fmt.Sprintf("%.1f%%", percent(res.Wins, res.Samples))),
		tieStyle.Render(fmt.Sprintf("%.1f%%", percent(res.Ties, res.Samples))))

	g.logger.Info("Simulation complete", "samples", res.Samples, "seed", seed, "duration", time.Since(start).Truncate(time.Millisecond))
	return nil
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
