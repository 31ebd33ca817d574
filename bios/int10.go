// This file implements the INT 10h video services.
//
// These are documented online:
//
// * http://www.ctyme.com/intr/int-10.htm

package bios

import (
	"github.com/vdmemu/vdmbios/bda"
	"github.com/vdmemu/vdmbios/cpu"
)

// IntVideo services INT 10h, the video interrupt.  The function is
// selected by AH.
func IntVideo(b *BIOS, regs *cpu.Registers) error {

	switch regs.AH() {

	// Set video mode.
	case 0x00:
		if err := b.Video.SetMode(regs.AL()); err != nil {
			regs.SetCarry(true)
			return nil
		}
		regs.SetCarry(false)

	// Set cursor shape.
	case 0x01:
		b.Video.SetCursorShape(regs.CH(), regs.CL())
		regs.SetCarry(false)

	// Set cursor position.
	case 0x02:
		if err := b.Video.SetCursor(regs.BH(), regs.DH(), regs.DL()); err != nil {
			regs.SetCarry(true)
			return nil
		}
		regs.SetCarry(false)

	// Get cursor position and shape.
	case 0x03:
		row, col, err := b.Video.Cursor(regs.BH())
		if err != nil {
			regs.SetCarry(true)
			return nil
		}
		start, end := b.Video.CursorShape()
		regs.SetCH(start)
		regs.SetCL(end)
		regs.SetDH(row)
		regs.SetDL(col)
		regs.SetCarry(false)

	// Select active display page.
	case 0x05:
		if err := b.Video.SetActivePage(regs.AL()); err != nil {
			regs.SetCarry(true)
			return nil
		}
		regs.SetCarry(false)

	// Scroll window up/down.  We only render a full-screen clear
	// (AL=0); partial scrolls adjust no BDA state and the console
	// collaborator repaints on its own.
	case 0x06, 0x07:
		if regs.AL() == 0 {
			b.Video.ClearScreen()
		}
		regs.SetCarry(false)

	// Write character and attribute at cursor.  BH selects the
	// page, BL carries the attribute, CX the repeat count.
	case 0x09:
		if err := b.Video.WriteCharAttrAtCursor(regs.BH(), regs.AL(), regs.BL(), regs.CX); err != nil {
			regs.SetCarry(true)
			return nil
		}
		regs.SetCarry(false)

	// Write character only at cursor; the cells keep their current
	// attribute.
	case 0x0A:
		if err := b.Video.WriteCharAtCursor(regs.BH(), regs.AL(), regs.CX); err != nil {
			regs.SetCarry(true)
			return nil
		}
		regs.SetCarry(false)

	// Teletype output.
	case 0x0E:
		b.Video.WriteTeletype(regs.AL())
		regs.SetCarry(false)

	// Get current video mode.
	case 0x0F:
		regs.SetAL(b.Video.Mode())
		regs.SetAH(b.Video.Columns())
		regs.SetBH(b.BDA.Byte(bda.VideoPage))
		regs.SetCarry(false)

	default:
		regs.SetCarry(true)
	}

	return nil
}
