package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/lox/pokerengine/tournament"
)

// BlindsCmd prints a blind schedule
type BlindsCmd struct {
	Stack   int           `help:"Starting stack (defaults to the configured stack)"`
	Pace    string        `help:"Level pace: standard, turbo or deep (defaults to the configured pace)"`
	Elapsed time.Duration `help:"Highlight the level in effect after this much play"`
}

func (cmd BlindsCmd) Run(g *Globals) error {
	if err := g.setup(); err != nil {
		return err
	}

	stack := cmd.Stack
	if stack == 0 {
		stack = g.cfg.Tournament.StartingStack
	}
	pace := g.cfg.Pace()
	if cmd.Pace != "" {
		var err error
		if pace, err = tournament.ParsePace(cmd.Pace); err != nil {
			return err
		}
	}

	levels := tournament.GenerateBlindStructure(stack, pace)
	current := -1
	if cmd.Elapsed > 0 {
		level, err := tournament.CurrentBlindLevel(levels, cmd.Elapsed)
		if err != nil {
			return err
		}
		current = level.Level
	}

	w := tabwriter.NewWriter(g.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("level"),
		headerStyle.Render("small"),
		headerStyle.Render("big"),
		headerStyle.Render("ante"),
		headerStyle.Render("minutes"))
	for _, l := range levels {
		line := fmt.Sprintf("%d\t%d\t%d\t%d\t%d", l.Level, l.SmallBlind, l.BigBlind, l.Ante, int(l.Duration.Minutes()))
		if l.Level == current {
			line = winStyle.Render(line)
		}
		fmt.Fprintln(w, line)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	g.logger.Debug("Blind schedule", "stack", stack, "pace", pace, "total", tournament.TotalDuration(levels))
	return nil
}

// PrizesCmd splits a prize pool
type PrizesCmd struct {
	Stacks  []string `arg:"" optional:"" help:"Remaining players as name=stack; busted players as name=0"`
	Pool    int      `help:"Prize pool (defaults to the configured pool)"`
	Players int      `help:"Number of entrants (defaults to the number of players given)"`
}

func (cmd PrizesCmd) Run(g *Globals) error {
	if err := g.setup(); err != nil {
		return err
	}

	pool := cmd.Pool
	if pool == 0 {
		pool = g.cfg.Tournament.PrizePool
	}

	standings := make([]tournament.Standing, 0, len(cmd.Stacks))
	bust := 0
	for i, arg := range cmd.Stacks {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("expected name=stack, got %q", arg)
		}
		stack, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("stack for %s: %w", name, err)
		}
		s := tournament.Standing{PlayerID: name, Seat: i, Stack: stack}
		if stack == 0 {
			// Busted players are listed in the order they went out.
			bust++
			s.BustOrder = bust
		}
		standings = append(standings, s)
	}

	entrants := cmd.Players
	if entrants == 0 {
		entrants = len(standings)
	}

	rankings := tournament.CalculateRankings(standings)
	if len(rankings) == 0 {
		// No names given: show the payout for every paid position.
		rankings = make([]tournament.Ranking, entrants)
		for i := range rankings {
			rankings[i] = tournament.Ranking{Position: i + 1, PlayerID: "#" + strconv.Itoa(i+1)}
		}
	}

	payouts, err := g.cfg.PayoutTable()
	if err != nil {
		return err
	}
	entries, err := payouts.Calculate(pool, entrants, rankings)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(g.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		headerStyle.Render("place"),
		headerStyle.Render("player"),
		headerStyle.Render("percent"),
		headerStyle.Render("prize"))
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s%%\t%s\n", e.Position, e.PlayerID, e.Percentage.String(), winStyle.Render(strconv.Itoa(e.Prize)))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if rest := tournament.Undistributed(pool, entries); rest > 0 {
		fmt.Fprintf(g.out, "%d undistributed\n", rest)
	}
	return nil
}
