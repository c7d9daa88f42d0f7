package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGlobals(t *testing.T) (*Globals, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return &Globals{
		Config:   filepath.Join(t.TempDir(), "missing.hcl"),
		LogLevel: "error",
		out:      &buf,
	}, &buf
}

func TestEvalCmd(t *testing.T) {
	g, out := testGlobals(t)

	require.NoError(t, EvalCmd{Cards: []string{"Jh", "Th", "Ah Kh Qh 7d 2c"}}.Run(g))
	assert.Contains(t, out.String(), "Royal Flush")

	assert.Error(t, EvalCmd{Cards: []string{"Ah Kh"}}.Run(g), "too few cards")
	assert.Error(t, EvalCmd{Cards: []string{"Ah Ah Kh Qh Jh"}}.Run(g), "duplicate")
}

func TestOddsCmd(t *testing.T) {
	g, out := testGlobals(t)
	seed := int64(42)

	cmd := OddsCmd{Hole: "AsAd", Opponents: 1, Samples: 2000, Seed: &seed}
	require.NoError(t, cmd.Run(g))
	assert.Contains(t, out.String(), "As Ad vs 1")

	cmd.Board = "As 2c 3c"
	assert.Error(t, cmd.Run(g), "board repeats a hole card")
}

func TestBlindsCmd(t *testing.T) {
	g, out := testGlobals(t)

	require.NoError(t, BlindsCmd{Stack: 10000, Pace: "turbo", Elapsed: 7 * time.Minute}.Run(g))
	assert.Contains(t, out.String(), "50")
	assert.Contains(t, out.String(), "100")

	assert.Error(t, BlindsCmd{Pace: "hyper"}.Run(g))
}

func TestPrizesCmd(t *testing.T) {
	g, out := testGlobals(t)

	require.NoError(t, PrizesCmd{Pool: 1000, Players: 9}.Run(g))
	for _, want := range []string{"400", "250", "150", "100"} {
		assert.Contains(t, out.String(), want)
	}

	out.Reset()
	require.NoError(t, PrizesCmd{Pool: 100, Stacks: []string{"ann=500", "bob=0", "cat=900"}}.Run(g))
	assert.Contains(t, out.String(), "cat")
	assert.Contains(t, out.String(), "70")

	assert.Error(t, PrizesCmd{Pool: 100, Stacks: []string{"ann"}}.Run(g))
}

func TestPotsCmd(t *testing.T) {
	g, out := testGlobals(t)

	cmd := PotsCmd{
		Players: []string{"alice:100:4h5d", "bob:300:KhKd", "carol:300:QhQd"},
		Board:   "2c 3c 7d 9s Jh",
		Button:  -1,
	}
	require.NoError(t, cmd.Run(g))
	assert.Contains(t, out.String(), "alice bob carol")
	assert.Contains(t, out.String(), "pot 0: bob wins 300")
	assert.Contains(t, out.String(), "pot 1: bob wins 400")

	assert.Error(t, PotsCmd{Players: []string{"alice"}}.Run(g))
}

func TestHandCmd(t *testing.T) {
	g, out := testGlobals(t)
	seed := int64(5)

	require.NoError(t, HandCmd{Table: "main", Players: 3, Seed: &seed}.Run(g))
	assert.Contains(t, out.String(), "table main, seed 5")
	assert.Contains(t, out.String(), "wins")

	assert.Error(t, HandCmd{Table: "missing", Players: 2}.Run(g))
	assert.Error(t, HandCmd{Table: "main", Players: 1}.Run(g))
	assert.Error(t, HandCmd{Table: "main", Players: 10}.Run(g), "more than the table seats")
}

func TestHandCmdUsesConfiguredStakes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
table "high" {
  small_blind = 50
  big_blind   = 100
  buy_in      = 5000
}
`), 0o600))

	var buf bytes.Buffer
	g := &Globals{Config: path, LogLevel: "error", out: &buf}
	seed := int64(9)
	require.NoError(t, HandCmd{Table: "high", Players: 2, Seed: &seed}.Run(g))

	// Two players each put in the big blind.
	assert.Regexp(t, `p\d wins 200 \(stack 5100\)|p1 wins 100 \(stack 5000\)`, buf.String())
}

func TestConfigFileIsUsed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
tournament {
  starting_stack = 2000
  prize_pool     = 600
}
`), 0o600))

	var buf bytes.Buffer
	g := &Globals{Config: path, LogLevel: "error", out: &buf}
	require.NoError(t, PrizesCmd{Players: 3}.Run(g))
	assert.Contains(t, buf.String(), "420")
	assert.Contains(t, buf.String(), "180")
}
