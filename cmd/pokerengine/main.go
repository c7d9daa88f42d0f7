package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/pokerengine/internal/config"
)

// version is set by ldflags during build
var version = "dev"

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	tieStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))
)

// Globals are flags shared by every command
type Globals struct {
	Config   string `short:"c" help:"Path to HCL config file" default:"pokerengine.hcl" type:"path"`
	LogLevel string `help:"Override the configured log level"`

	out    io.Writer      `kong:"-"`
	cfg    *config.Config `kong:"-"`
	logger *log.Logger    `kong:"-"`
}

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Eval    EvalCmd          `cmd:"" help:"Evaluate the best five-card hand from 5-7 cards"`
	Odds    OddsCmd          `cmd:"" help:"Estimate showdown equity by Monte Carlo simulation"`
	Blinds  BlindsCmd        `cmd:"" help:"Print the blind schedule for a starting stack"`
	Prizes  PrizesCmd        `cmd:"" help:"Split a prize pool by finishing position"`
	Pots    PotsCmd          `cmd:"" help:"Build side pots from commitments and settle them"`
	Hand    HandCmd          `cmd:"" help:"Deal and settle one checked-down hand at a configured table"`
}

// setup loads the config and builds the logger. Commands call it first.
func (g *Globals) setup() error {
	if g.out == nil {
		g.out = os.Stdout
	}

	cfg, err := config.Load(g.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if g.LogLevel != "" {
		cfg.Engine.LogLevel = g.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	g.cfg = cfg

	var level log.Level
	switch cfg.Engine.LogLevel {
	case "debug":
		level = log.DebugLevel
	case "warn":
		level = log.WarnLevel
	case "error":
		level = log.ErrorLevel
	default:
		level = log.InfoLevel
	}
	g.logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "pokerengine",
	})
	g.logger.Debug("Configuration loaded", "path", g.Config, "tables", len(cfg.Tables))
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pokerengine"),
		kong.Description("Poker hand evaluation, pot settlement and tournament tooling"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
