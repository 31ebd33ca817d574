// This file implements the one-shot query interrupts: the equipment
// list and the conventional memory size.

package bios

import (
	"github.com/vdmemu/vdmbios/bda"
	"github.com/vdmemu/vdmbios/cpu"
)

// IntEquipmentList services INT 11h, returning the equipment-list
// word in AX.
func IntEquipmentList(b *BIOS, regs *cpu.Registers) error {
	regs.AX = b.BDA.Word(bda.EquipmentList)
	regs.SetCarry(false)
	return nil
}

// IntMemorySize services INT 12h, returning the conventional memory
// size, in KiB, in AX.
func IntMemorySize(b *BIOS, regs *cpu.Registers) error {
	regs.AX = b.BDA.Word(bda.MemorySize)
	regs.SetCarry(false)
	return nil
}
