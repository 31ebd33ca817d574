// Package timer maintains the BIOS tick counter at 0040:006C.
//
// The legacy counter advances at the PIT rate of ~18.2 ticks per
// second regardless of how often, or how irregularly, the host clock
// fires.  We convert elapsed host time into whole ticks and carry
// the fractional remainder forward, so the counter never drifts from
// wall-clock time however coarse the host timer is.
package timer

import (
	"time"

	"github.com/vdmemu/vdmbios/bda"
)

// TickDuration is the length of one legacy timer tick: the 1.19318MHz
// PIT counting down from 65536.
const TickDuration = time.Duration(65536 * 1000000000 / 1193182)

// TicksPerDay is the counter value at which the BIOS declares
// midnight, resets the count, and raises the rollover flag.
const TicksPerDay uint32 = 0x1800B0

// Counter drives the BDA tick counter and midnight flag.
type Counter struct {
	bda *bda.BDA

	// residue carries host time which did not amount to a whole
	// tick over to the next Advance call.
	residue time.Duration
}

// New creates a counter writing through to the given BDA.
func New(b *bda.BDA) *Counter {
	return &Counter{bda: b}
}

// Advance feeds elapsed host time into the counter, returning the
// number of ticks which were applied.
//
// On passing the 24-hour mark the counter wraps to zero and the
// midnight flag is raised; the flag is sticky until it is explicitly
// consumed.
func (c *Counter) Advance(host time.Duration) uint32 {

	c.residue += host
	n := uint32(c.residue / TickDuration)
	c.residue %= TickDuration

	if n == 0 {
		return 0
	}

	total := c.ReadTicks() + n
	if total >= TicksPerDay {
		total %= TicksPerDay
		c.bda.SetByte(bda.MidnightPassed, 1)
	}
	c.bda.SetDWord(bda.TickCounter, total)
	return n
}

// Tick applies a single tick, as the hardware timer interrupt would.
func (c *Counter) Tick() {
	c.Advance(TickDuration)
}

// ReadTicks returns the current counter value.
func (c *Counter) ReadTicks() uint32 {
	return c.bda.DWord(bda.TickCounter)
}

// SetTicks overwrites the counter, clearing the midnight flag, as
// the clock-set service does.
func (c *Counter) SetTicks(value uint32) {
	c.bda.SetDWord(bda.TickCounter, value)
	c.bda.SetByte(bda.MidnightPassed, 0)
}

// MidnightPassed reports the rollover flag without consuming it.
func (c *Counter) MidnightPassed() bool {
	return c.bda.Byte(bda.MidnightPassed) != 0
}

// ConsumeMidnight returns the rollover flag and clears it, the
// read-and-clear semantic of the clock-get service.
func (c *Counter) ConsumeMidnight() bool {
	set := c.MidnightPassed()
	c.bda.SetByte(bda.MidnightPassed, 0)
	return set
}
