package tournament

import (
	"fmt"
	"strings"
	"time"

	"github.com/lox/pokerengine/poker"
)

// Pace sets how long each blind level lasts
type Pace int

const (
	Standard Pace = iota
	Turbo
	Deep
)

func (p Pace) String() string {
	switch p {
	case Turbo:
		return "turbo"
	case Deep:
		return "deep"
	default:
		return "standard"
	}
}

// LevelDuration returns the length of one blind level at this pace
func (p Pace) LevelDuration() time.Duration {
	switch p {
	case Turbo:
		return 5 * time.Minute
	case Deep:
		return 20 * time.Minute
	default:
		return 10 * time.Minute
	}
}

// ParsePace parses "turbo", "standard" or "deep"
func ParsePace(s string) (Pace, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "turbo":
		return Turbo, nil
	case "standard", "":
		return Standard, nil
	case "deep":
		return Deep, nil
	}
	return Standard, fmt.Errorf("unknown pace %q", s)
}

// BlindLevel is one step of the blind schedule
type BlindLevel struct {
	Level      int
	SmallBlind int
	BigBlind   int
	Ante       int
	Duration   time.Duration
}

func (l BlindLevel) String() string {
	if l.Ante > 0 {
		return fmt.Sprintf("level %d: %d/%d ante %d", l.Level, l.SmallBlind, l.BigBlind, l.Ante)
	}
	return fmt.Sprintf("level %d: %d/%d", l.Level, l.SmallBlind, l.BigBlind)
}

const (
	// ScheduleLevels is the number of levels in a generated schedule
	ScheduleLevels = 15
	// AnteFromLevel is the first level that carries an ante
	AnteFromLevel = 3
	// startingBlindsDivisor sets the first small blind relative to the stack
	startingBlindsDivisor = 200
)

// GenerateBlindStructure builds a 15-level schedule. The first small blind
// is 1/200 of the starting stack, each level multiplies the small blind by
// 1.5, the big blind is always twice the small blind, and from level 3 on
// every level carries an ante of half the small blind.
func GenerateBlindStructure(startingStack int, pace Pace) []BlindLevel {
	sb := max(1, startingStack/startingBlindsDivisor)
	duration := pace.LevelDuration()

	levels := make([]BlindLevel, 0, ScheduleLevels)
	for n := 1; n <= ScheduleLevels; n++ {
		level := BlindLevel{
			Level:      n,
			SmallBlind: sb,
			BigBlind:   sb * 2,
			Duration:   duration,
		}
		if n >= AnteFromLevel {
			level.Ante = sb / 2
		}
		levels = append(levels, level)

		next := sb * 3 / 2
		if next <= sb {
			next = sb + 1
		}
		sb = next
	}
	return levels
}

// TotalDuration returns the span of the whole schedule
func TotalDuration(structure []BlindLevel) time.Duration {
	var total time.Duration
	for _, l := range structure {
		total += l.Duration
	}
	return total
}

// CurrentBlindLevel returns the level in effect after elapsed time. Level
// durations are accumulated in order; once the schedule is exhausted the
// last level stays in effect.
func CurrentBlindLevel(structure []BlindLevel, elapsed time.Duration) (BlindLevel, error) {
	if len(structure) == 0 {
		return BlindLevel{}, fmt.Errorf("empty blind structure: %w", poker.ErrPrecondition)
	}

	var end time.Duration
	for _, l := range structure {
		end += l.Duration
		if elapsed < end {
			return l, nil
		}
	}
	return structure[len(structure)-1], nil
}

// NextLevelIn returns how long until the following level starts, or false
// when the schedule is frozen on its last level.
func NextLevelIn(structure []BlindLevel, elapsed time.Duration) (time.Duration, bool) {
	var end time.Duration
	for i, l := range structure {
		end += l.Duration
		if elapsed < end {
			if i == len(structure)-1 {
				return 0, false
			}
			return end - elapsed, true
		}
	}
	return 0, false
}
