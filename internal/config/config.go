// Package config loads engine settings from HCL: logging, table stakes,
// tournament pace and the prize payout brackets.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"

	"github.com/lox/pokerengine/tournament"
)

// Config represents the complete engine configuration
type Config struct {
	Engine     *EngineSettings     `hcl:"engine,block"`
	Tournament *TournamentSettings `hcl:"tournament,block"`
	Tables     []TableConfig       `hcl:"table,block"`
	Payouts    []PayoutConfig      `hcl:"payout,block"`
}

// EngineSettings contains process-level settings
type EngineSettings struct {
	LogLevel string `hcl:"log_level,optional"`
	Seed     int64  `hcl:"seed,optional"`
}

// TournamentSettings drives blind generation
type TournamentSettings struct {
	StartingStack int    `hcl:"starting_stack,optional"`
	Pace          string `hcl:"pace,optional"`
	PrizePool     int    `hcl:"prize_pool,optional"`
}

// TableConfig defines the stakes for a named table
type TableConfig struct {
	Name       string `hcl:"name,label"`
	SmallBlind int    `hcl:"small_blind"`
	BigBlind   int    `hcl:"big_blind"`
	MaxPlayers int    `hcl:"max_players,optional"`
	BuyIn      int    `hcl:"buy_in,optional"`
}

// PayoutConfig is one payout bracket. The label is the minimum number of
// entrants the bracket applies to.
type PayoutConfig struct {
	MinPlayers  string    `hcl:"min_players,label"`
	Percentages []float64 `hcl:"percentages"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Engine: &EngineSettings{
			LogLevel: "info",
		},
		Tournament: &TournamentSettings{
			StartingStack: 10000,
			Pace:          "standard",
		},
		Tables: []TableConfig{
			{
				Name:       "main",
				SmallBlind: 5,
				BigBlind:   10,
				MaxPlayers: 9,
				BuyIn:      1000,
			},
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and applies defaults for missing values
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := Default()
	if config.Engine == nil {
		config.Engine = defaults.Engine
	}
	if config.Tournament == nil {
		config.Tournament = defaults.Tournament
	}
	if config.Engine.LogLevel == "" {
		config.Engine.LogLevel = defaults.Engine.LogLevel
	}
	if config.Tournament.StartingStack == 0 {
		config.Tournament.StartingStack = defaults.Tournament.StartingStack
	}
	if config.Tournament.Pace == "" {
		config.Tournament.Pace = defaults.Tournament.Pace
	}
	if len(config.Tables) == 0 {
		config.Tables = defaults.Tables
	}
	for i := range config.Tables {
		if config.Tables[i].MaxPlayers == 0 {
			config.Tables[i].MaxPlayers = 9
		}
		if config.Tables[i].BuyIn == 0 {
			config.Tables[i].BuyIn = config.Tables[i].BigBlind * 100 // 100 big blinds
		}
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Engine.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Engine.LogLevel)
	}

	if c.Tournament.StartingStack <= 0 {
		return fmt.Errorf("starting stack must be positive")
	}
	if c.Tournament.PrizePool < 0 {
		return fmt.Errorf("prize pool must not be negative")
	}
	if _, err := tournament.ParsePace(c.Tournament.Pace); err != nil {
		return err
	}

	for _, table := range c.Tables {
		if table.SmallBlind <= 0 {
			return fmt.Errorf("table %s: small blind must be positive", table.Name)
		}
		if table.BigBlind <= table.SmallBlind {
			return fmt.Errorf("table %s: big blind must be greater than small blind", table.Name)
		}
		if table.MaxPlayers < 2 || table.MaxPlayers > 10 {
			return fmt.Errorf("table %s: max players must be between 2 and 10", table.Name)
		}
	}

	payouts, err := c.PayoutTable()
	if err != nil {
		return err
	}
	return payouts.Validate()
}

// Pace returns the parsed tournament pace
func (c *Config) Pace() tournament.Pace {
	pace, _ := tournament.ParsePace(c.Tournament.Pace)
	return pace
}

// PayoutTable converts the configured brackets. With no payout blocks the
// default brackets apply.
func (c *Config) PayoutTable() (tournament.Payouts, error) {
	if len(c.Payouts) == 0 {
		return tournament.DefaultPayouts, nil
	}

	payouts := make(tournament.Payouts, 0, len(c.Payouts))
	for _, p := range c.Payouts {
		n, err := strconv.Atoi(p.MinPlayers)
		if err != nil {
			return nil, fmt.Errorf("payout %q: label must be a player count: %w", p.MinPlayers, err)
		}
		pcts := make([]decimal.Decimal, len(p.Percentages))
		for i, f := range p.Percentages {
			pcts[i] = decimal.NewFromFloat(f)
		}
		payouts = append(payouts, tournament.Bracket{MinPlayers: n, Percentages: pcts})
	}
	return payouts.Sorted(), nil
}

// GetTableByName returns a table configuration by name
func (c *Config) GetTableByName(name string) *TableConfig {
	for i := range c.Tables {
		if c.Tables[i].Name == name {
			return &c.Tables[i]
		}
	}
	return nil
}
