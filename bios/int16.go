// This file implements the INT 16h keyboard services.

package bios

import (
	"github.com/vdmemu/vdmbios/cpu"
)

// IntKeyboard services INT 16h, the keyboard interrupt.  The
// function is selected by AH.
func IntKeyboard(b *BIOS, regs *cpu.Registers) error {

	switch regs.AH() {

	// Read a keystroke, consuming it.
	//
	// The hardware BIOS would spin until a key arrived; our
	// dispatch model is run-to-completion, so an empty buffer is
	// reported with the carry flag and the emulator retries.
	case 0x00:
		e, ok := b.Keyboard.Pop()
		if !ok {
			regs.SetCarry(true)
			return nil
		}
		regs.AX = e.Word()
		regs.SetCarry(false)

	// Check for a keystroke without consuming it.
	case 0x01:
		e, ok := b.Keyboard.Peek()
		if !ok {
			regs.SetZero(true)
			regs.SetCarry(false)
			return nil
		}
		regs.AX = e.Word()
		regs.SetZero(false)
		regs.SetCarry(false)

	// Read the shift-state flags.
	case 0x02:
		regs.SetAL(b.Keyboard.ShiftState())
		regs.SetCarry(false)

	default:
		regs.SetCarry(true)
	}

	return nil
}
