// This file implements the INT 1Ah clock services, plus the INT 08h
// hardware tick.

package bios

import (
	"github.com/vdmemu/vdmbios/cpu"
)

// IntClock services INT 1Ah, the time-of-day interrupt.  The
// function is selected by AH.
func IntClock(b *BIOS, regs *cpu.Registers) error {

	switch regs.AH() {

	// Read the tick counter.
	//
	// AL reports - and clears - the midnight flag, so a caller
	// tracking the date sees each rollover exactly once.
	case 0x00:
		ticks := b.Clock.ReadTicks()
		regs.CX = uint16(ticks >> 16)
		regs.DX = uint16(ticks & 0xFFFF)
		if b.Clock.ConsumeMidnight() {
			regs.SetAL(1)
		} else {
			regs.SetAL(0)
		}
		regs.SetCarry(false)

	// Set the tick counter.
	case 0x01:
		b.Clock.SetTicks(uint32(regs.CX)<<16 | uint32(regs.DX))
		regs.SetCarry(false)

	default:
		regs.SetCarry(true)
	}

	return nil
}

// IntTimerTick services INT 08h, applying one hardware tick.
//
// The background pump normally advances the clock from host time;
// this path exists for embedders which route the periodic interrupt
// through the guest instead.
func IntTimerTick(b *BIOS, regs *cpu.Registers) error {
	b.Clock.Tick()
	return nil
}
