package tournament

import (
	"time"

	"github.com/coder/quartz"
)

// Clock tracks elapsed tournament time against a blind schedule. It is
// driven by a quartz.Clock so tests can advance time explicitly.
type Clock struct {
	clock     quartz.Clock
	structure []BlindLevel
	started   time.Time
}

// NewClock starts a blind clock at the current time
func NewClock(clock quartz.Clock, structure []BlindLevel) *Clock {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Clock{
		clock:     clock,
		structure: structure,
		started:   clock.Now(),
	}
}

// Elapsed returns the time since the tournament started
func (c *Clock) Elapsed() time.Duration {
	return c.clock.Since(c.started)
}

// Level returns the blind level currently in effect
func (c *Clock) Level() (BlindLevel, error) {
	return CurrentBlindLevel(c.structure, c.Elapsed())
}

// UntilNextLevel returns the time left in the current level. The second
// result is false once the schedule has reached its final level.
func (c *Clock) UntilNextLevel() (time.Duration, bool) {
	return NextLevelIn(c.structure, c.Elapsed())
}
