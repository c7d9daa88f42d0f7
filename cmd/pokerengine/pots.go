package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/lox/pokerengine/poker"
	"github.com/lox/pokerengine/pot"
)

// PotsCmd builds side pots and, given a board and hole cards, settles them
type PotsCmd struct {
	Players []string `arg:"" help:"Players in seat order as name:committed[:hole]; no hole cards means folded"`
	Board   string   `short:"b" help:"Five community cards; settles the pots when set"`
	Button  int      `help:"Button seat for odd chips (-1 = lowest seat first)" default:"-1"`
}

func (cmd PotsCmd) Run(g *Globals) error {
	if err := g.setup(); err != nil {
		return err
	}

	bets := make([]pot.PlayerBet, 0, len(cmd.Players))
	holes := make(map[string][]poker.Card)
	for seat, arg := range cmd.Players {
		parts := strings.Split(arg, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return fmt.Errorf("expected name:committed[:hole], got %q", arg)
		}
		committed, err := strconv.Atoi(parts[1])
		if err != nil {
			return fmt.Errorf("commitment for %s: %w", parts[0], err)
		}
		bet := pot.PlayerBet{PlayerID: parts[0], Seat: seat, Committed: committed, Folded: len(parts) == 2}
		if !bet.Folded {
			hole, err := poker.ParseCards(parts[2])
			if err != nil {
				return fmt.Errorf("hole cards for %s: %w", parts[0], err)
			}
			holes[parts[0]] = hole
		}
		bets = append(bets, bet)
	}

	pots := pot.BuildSidePots(bets)

	w := tabwriter.NewWriter(g.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\n",
		headerStyle.Render("pot"),
		headerStyle.Render("amount"),
		headerStyle.Render("eligible"))
	for i, p := range pots {
		fmt.Fprintf(w, "%d\t%d\t%s\n", i, p.Amount, strings.Join(p.Eligible, " "))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if cmd.Board == "" {
		return nil
	}

	board, err := poker.ParseCards(cmd.Board)
	if err != nil {
		return fmt.Errorf("board: %w", err)
	}
	strengths := make(map[string]poker.Strength, len(holes))
	seats := make(map[string]int, len(bets))
	for _, b := range bets {
		seats[b.PlayerID] = b.Seat
		hole, ok := holes[b.PlayerID]
		if !ok {
			continue
		}
		hand, err := poker.BestOf(hole, board)
		if err != nil {
			return fmt.Errorf("%s: %w", b.PlayerID, err)
		}
		strengths[b.PlayerID] = hand.Strength
		fmt.Fprintf(g.out, "%s  %s  %s\n", b.PlayerID, handStyle.Render(poker.FormatCards(hand.Cards[:])), categoryStyle.Render(hand.Label))
	}

	awards, err := pot.Distributor{Button: cmd.Button, Seats: seats}.Distribute(pots, strengths)
	if err != nil {
		return err
	}
	for _, a := range awards {
		for _, id := range a.Winners {
			fmt.Fprintf(g.out, "pot %d: %s wins %s\n", a.Pot, id, winStyle.Render(strconv.Itoa(a.Shares[id])))
		}
	}

	g.logger.Debug("Pots settled", "pots", len(pots), "total", pot.Total(pots))
	return nil
}
