// This file implements the INT 13h disk services.
//
// The handlers translate CHS addresses and move whole sectors
// between the attached image and guest memory at ES:BX; every
// outcome is reported with the legacy status byte in AH plus the
// carry flag, and mirrored into the BDA's last-operation slots.

package bios

import (
	"github.com/vdmemu/vdmbios/bda"
	"github.com/vdmemu/vdmbios/cpu"
	"github.com/vdmemu/vdmbios/disk"
)

// chs unpacks the packed cylinder/sector encoding of the disk
// services: the top two bits of CL extend the cylinder number.
func chs(regs *cpu.Registers) (cylinder uint16, head uint8, sector uint8) {
	cylinder = uint16(regs.CH()) | uint16(regs.CL()&0xC0)<<2
	head = regs.DH()
	sector = regs.CL() & 0x3F
	return
}

// recordDiskStatus mirrors an operation's status into the BDA slot
// the guest can read directly: 0040:0074 for fixed disks, 0040:0041
// for diskettes.
func recordDiskStatus(b *BIOS, dnum uint8, status uint8) {
	if dnum >= 0x80 {
		b.BDA.SetByte(bda.LastDiskStatus, status)
	} else {
		b.BDA.SetByte(bda.LastDisketteStatus, status)
	}
}

// finishDisk applies the common completion convention: status in AH,
// carry set on failure, BDA updated.
func finishDisk(b *BIOS, regs *cpu.Registers, dnum uint8, status uint8) {
	regs.SetAH(status)
	regs.SetCarry(status != disk.StatusOK)
	recordDiskStatus(b, dnum, status)
}

// IntDisk services INT 13h, the disk interrupt.  The function is
// selected by AH, the drive by DL.
func IntDisk(b *BIOS, regs *cpu.Registers) error {

	dnum := regs.DL()

	switch regs.AH() {

	// Reset disk system.
	case 0x00:
		b.Disks.Reset()
		finishDisk(b, regs, dnum, disk.StatusOK)

	// Return the status of the last operation.
	case 0x01:
		status := b.Disks.LastStatus(dnum)
		regs.SetAH(status)
		regs.SetCarry(status != disk.StatusOK)

	// Read sectors into ES:BX.
	case 0x02:
		cylinder, head, sector := chs(regs)
		count := regs.AL()

		buf := make([]byte, int(count)*disk.SectorSize)
		done, status := b.Disks.Read(dnum, cylinder, head, sector, count, buf)
		if done > 0 {
			b.Memory.SetRange(cpu.Linear(regs.ES, regs.BX), buf[:int(done)*disk.SectorSize]...)
		}
		regs.SetAL(done)
		finishDisk(b, regs, dnum, status)

	// Write sectors from ES:BX.
	case 0x03:
		cylinder, head, sector := chs(regs)
		count := regs.AL()

		buf := b.Memory.GetRange(cpu.Linear(regs.ES, regs.BX), int(count)*disk.SectorSize)
		done, status := b.Disks.Write(dnum, cylinder, head, sector, count, buf)
		regs.SetAL(done)
		finishDisk(b, regs, dnum, status)

	// Verify sectors.
	case 0x04:
		cylinder, head, sector := chs(regs)
		done, status := b.Disks.Verify(dnum, cylinder, head, sector, regs.AL())
		regs.SetAL(done)
		finishDisk(b, regs, dnum, status)

	// Get drive parameters.
	case 0x08:
		geo, ok := b.Disks.Geometry(dnum)
		if !ok {
			finishDisk(b, regs, dnum, disk.StatusNoMedia)
			return nil
		}

		maxCyl := geo.Cylinders - 1
		regs.SetCH(uint8(maxCyl & 0xFF))
		regs.SetCL(uint8(geo.Sectors&0x3F) | uint8(maxCyl>>8)<<6)
		regs.SetDH(uint8(geo.Heads - 1))
		if dnum >= 0x80 {
			regs.SetDL(b.Disks.HardCount())
		} else {
			regs.SetDL(b.Disks.FloppyCount())
			regs.SetBL(geo.FloppyType())
		}
		finishDisk(b, regs, dnum, disk.StatusOK)

	// Get disk type.
	case 0x15:
		geo, ok := b.Disks.Geometry(dnum)
		switch {
		case !ok:
			regs.SetAH(0x00) // no such drive
		case dnum >= 0x80:
			regs.SetAH(0x03) // fixed disk
			sectors := geo.Capacity()
			regs.CX = uint16(sectors >> 16)
			regs.DX = uint16(sectors & 0xFFFF)
		default:
			regs.SetAH(0x02) // floppy with change detection
		}
		regs.SetCarry(false)

	default:
		finishDisk(b, regs, dnum, disk.StatusBadCommand)
	}

	return nil
}
