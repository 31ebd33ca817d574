// Package cpu defines the register and flag state which is exchanged
// with the CPU-emulator collaborator when it traps a software
// interrupt.
//
// We do not emulate the x86 instruction set here - the external
// emulator owns execution, recognizes INT instructions, and hands us a
// mutable snapshot of the guest registers.  Our interrupt handlers
// mutate the snapshot, and the emulator resumes the guest with it.
package cpu

// Flag bits within the FLAGS register.
const (
	// FlagCarry is the carry flag, the legacy error-signalling
	// convention for BIOS services.
	FlagCarry uint16 = 0x0001

	// FlagZero is the zero flag, used by the keyboard "check buffer"
	// service to report an empty buffer.
	FlagZero uint16 = 0x0040
)

// Registers is a snapshot of the guest's real-mode register file.
type Registers struct {
	AX uint16
	BX uint16
	CX uint16
	DX uint16

	SI uint16
	DI uint16
	BP uint16
	SP uint16

	CS uint16
	DS uint16
	ES uint16
	SS uint16

	IP    uint16
	Flags uint16
}

// AH returns the high byte of AX.
func (r *Registers) AH() uint8 { return uint8(r.AX >> 8) }

// AL returns the low byte of AX.
func (r *Registers) AL() uint8 { return uint8(r.AX & 0xFF) }

// BH returns the high byte of BX.
func (r *Registers) BH() uint8 { return uint8(r.BX >> 8) }

// BL returns the low byte of BX.
func (r *Registers) BL() uint8 { return uint8(r.BX & 0xFF) }

// CH returns the high byte of CX.
func (r *Registers) CH() uint8 { return uint8(r.CX >> 8) }

// CL returns the low byte of CX.
func (r *Registers) CL() uint8 { return uint8(r.CX & 0xFF) }

// DH returns the high byte of DX.
func (r *Registers) DH() uint8 { return uint8(r.DX >> 8) }

// DL returns the low byte of DX.
func (r *Registers) DL() uint8 { return uint8(r.DX & 0xFF) }

// SetAH updates the high byte of AX.
func (r *Registers) SetAH(v uint8) { r.AX = (r.AX & 0x00FF) | (uint16(v) << 8) }

// SetAL updates the low byte of AX.
func (r *Registers) SetAL(v uint8) { r.AX = (r.AX & 0xFF00) | uint16(v) }

// SetBH updates the high byte of BX.
func (r *Registers) SetBH(v uint8) { r.BX = (r.BX & 0x00FF) | (uint16(v) << 8) }

// SetBL updates the low byte of BX.
func (r *Registers) SetBL(v uint8) { r.BX = (r.BX & 0xFF00) | uint16(v) }

// SetCH updates the high byte of CX.
func (r *Registers) SetCH(v uint8) { r.CX = (r.CX & 0x00FF) | (uint16(v) << 8) }

// SetCL updates the low byte of CX.
func (r *Registers) SetCL(v uint8) { r.CX = (r.CX & 0xFF00) | uint16(v) }

// SetDH updates the high byte of DX.
func (r *Registers) SetDH(v uint8) { r.DX = (r.DX & 0x00FF) | (uint16(v) << 8) }

// SetDL updates the low byte of DX.
func (r *Registers) SetDL(v uint8) { r.DX = (r.DX & 0xFF00) | uint16(v) }

// Carry returns the state of the carry flag.
func (r *Registers) Carry() bool { return r.Flags&FlagCarry != 0 }

// SetCarry updates the carry flag.
func (r *Registers) SetCarry(on bool) {
	if on {
		r.Flags |= FlagCarry
	} else {
		r.Flags &^= FlagCarry
	}
}

// Zero returns the state of the zero flag.
func (r *Registers) Zero() bool { return r.Flags&FlagZero != 0 }

// SetZero updates the zero flag.
func (r *Registers) SetZero(on bool) {
	if on {
		r.Flags |= FlagZero
	} else {
		r.Flags &^= FlagZero
	}
}

// Linear converts a segment:offset pair into a linear address.
func Linear(segment uint16, offset uint16) uint32 {
	return uint32(segment)<<4 + uint32(offset)
}
