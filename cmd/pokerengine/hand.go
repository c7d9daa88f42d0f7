package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/lox/pokerengine/betting"
	"github.com/lox/pokerengine/internal/randutil"
	"github.com/lox/pokerengine/poker"
	"github.com/lox/pokerengine/table"
)

// HandCmd deals and settles one hand at a configured table. Every player
// calls the big blind and checks down to showdown.
type HandCmd struct {
	Table   string `help:"Configured table to play at" default:"main"`
	Players int    `short:"n" help:"Number of players" default:"2"`
	Seed    *int64 `help:"Random seed for the shuffle"`
}

func (cmd HandCmd) Run(g *Globals) error {
	if err := g.setup(); err != nil {
		return err
	}

	tc := g.cfg.GetTableByName(cmd.Table)
	if tc == nil {
		return fmt.Errorf("no table %q in config", cmd.Table)
	}
	if cmd.Players < 2 || cmd.Players > tc.MaxPlayers {
		return fmt.Errorf("table %s seats 2-%d players, got %d", tc.Name, tc.MaxPlayers, cmd.Players)
	}

	tbl, err := table.New(tc.SmallBlind, tc.BigBlind, table.WithLogger(g.logger))
	if err != nil {
		return err
	}
	ids := make([]string, cmd.Players)
	for i := range ids {
		ids[i] = "p" + strconv.Itoa(i+1)
		if err := tbl.Sit(ids[i], i+1, tc.BuyIn); err != nil {
			return err
		}
	}
	button := tbl.MoveButton()

	var seed int64
	switch {
	case cmd.Seed != nil:
		seed = *cmd.Seed
	case g.cfg.Engine.Seed != 0:
		seed = g.cfg.Engine.Seed
	default:
		seed = randutil.Seed64()
	}
	if err := tbl.StartHand(randutil.New(seed)); err != nil {
		return err
	}

	// Action starts left of the button; the first two seats post the blinds.
	order := append(append([]string(nil), ids[button:]...), ids[:button]...)
	if _, err := tbl.Post(order[0], tc.SmallBlind, false); err != nil {
		return err
	}
	if _, err := tbl.Post(order[1%len(order)], tc.BigBlind, false); err != nil {
		return err
	}

	// Preflop action starts after the big blind.
	preflop := append(append([]string(nil), order[2%len(order):]...), order[:2%len(order)]...)
	if err := passiveRound(tbl, preflop); err != nil {
		return err
	}
	for _, n := range []int{3, 1, 1} {
		tbl.NextStreet()
		if _, err := tbl.DealBoard(n); err != nil {
			return err
		}
		if err := passiveRound(tbl, order); err != nil {
			return err
		}
	}

	result, err := tbl.Showdown()
	if err != nil {
		return err
	}

	fmt.Fprintf(g.out, "%s %s  (table %s, seed %d)\n", headerStyle.Render("board"), poker.FormatCards(result.Board), tc.Name, seed)
	for _, id := range ids {
		hand := result.Hands[id]
		fmt.Fprintf(g.out, "%s  %s  %s\n", id, handStyle.Render(poker.FormatCards(tbl.Hole(id))), categoryStyle.Render(hand.Label))
	}

	winners := make([]string, 0, len(result.Winnings))
	for id := range result.Winnings {
		winners = append(winners, id)
	}
	sort.Strings(winners)
	for _, id := range winners {
		stack, _ := tbl.Stack(id)
		fmt.Fprintf(g.out, "%s wins %s (stack %d)\n", id, winStyle.Render(strconv.Itoa(result.Winnings[id])), stack)
	}
	return nil
}

// passiveRound calls any bet and otherwise checks, for every player who
// still has chips.
func passiveRound(tbl *table.Table, order []string) error {
	for _, id := range order {
		req, err := tbl.Request(id, betting.Check, 0)
		if err != nil {
			return err
		}
		if req.Stack == 0 {
			continue
		}
		action := betting.Check
		if req.ToCall() > 0 {
			action = betting.Call
		}
		if _, err := tbl.Act(id, action, 0); err != nil {
			return err
		}
	}
	return nil
}
