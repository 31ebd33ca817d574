// Package bda contains helpers for reading and writing the BIOS Data
// Area, the fixed-layout record which legacy firmware keeps at
// segment 0x40 in guest memory.
//
// The field offsets here are a binary contract: DOS-era guests read
// this region with raw memory accesses, so every offset matches the
// PC/XT hardware layout exactly and must never be rearranged.
package bda

import (
	"fmt"

	"github.com/vdmemu/vdmbios/memory"
)

// Base is the linear address of the BIOS Data Area (segment 0x40).
const Base uint32 = 0x400

// Size is the architecturally mandated size of the record, in bytes.
const Size = 0x133

// Field offsets within the BIOS Data Area.
const (
	SerialPorts        = 0x00 // four words, COM port base addresses
	ParallelPorts      = 0x08 // three words, LPT port base addresses
	EbdaSegment        = 0x0E
	EquipmentList      = 0x10
	MemorySize         = 0x13 // KiB of conventional memory
	KeybdShiftFlags    = 0x17
	KeybdBufferHead    = 0x1A
	KeybdBufferTail    = 0x1C
	KeybdBuffer        = 0x1E // KeybdBufferSlots words
	DriveRecalibrate   = 0x3E
	DriveMotorStatus   = 0x3F
	MotorShutdownTicks = 0x40
	LastDisketteStatus = 0x41
	VideoMode          = 0x49
	ScreenColumns      = 0x4A
	VideoPageSize      = 0x4C
	VideoPageOffset    = 0x4E
	CursorPositions    = 0x50 // MaxVideoPages words, column in low byte
	CursorEndLine      = 0x60
	CursorStartLine    = 0x61
	VideoPage          = 0x62
	CrtBasePort        = 0x63
	TickCounter        = 0x6C // dword
	MidnightPassed     = 0x70
	BreakFlag          = 0x71
	SoftReset          = 0x72 // word
	LastDiskStatus     = 0x74
	NumDisks           = 0x75
	LptTimeouts        = 0x78 // four bytes
	ComTimeouts        = 0x7C // four bytes
	KeybdBufferStart   = 0x80 // word, offset of the buffer within the BDA segment
	KeybdBufferEnd     = 0x82 // word, offset one past the buffer
	ScreenRows         = 0x84 // rows - 1
	CharacterHeight    = 0x85 // word
	EgaFlags           = 0x87 // two bytes
	VgaFlags           = 0x89 // two bytes
)

// KeybdBufferSlots is the number of two-byte slots in the circular
// keyboard buffer.  One slot is always left empty to distinguish a
// full buffer from an empty one, so fifteen keystrokes can be held.
const KeybdBufferSlots = 16

// MaxVideoPages is the number of per-page cursor positions held in
// the BDA.
const MaxVideoPages = 8

// BDA is a view onto the BIOS Data Area within guest memory.
//
// It holds no state of its own: every accessor reads or writes the
// backing memory directly, so anything the guest pokes into the
// region is immediately visible here and vice-versa.
type BDA struct {
	mem *memory.Memory
}

// New returns a view onto the BIOS Data Area in the given memory.
//
// The region is zeroed; callers are expected to apply their
// configuration-specific defaults afterwards.
func New(mem *memory.Memory) *BDA {
	b := &BDA{mem: mem}
	mem.FillRange(Base, Size, 0x00)
	return b
}

// check panics on an out-of-range offset.  An offset beyond the
// record is a bug in the calling handler, not a runtime condition to
// recover from.
func check(offset uint32) {
	if offset >= Size {
		panic(fmt.Sprintf("BDA offset 0x%X out of range", offset))
	}
}

// Byte returns the byte at the given offset within the BDA.
func (b *BDA) Byte(offset uint32) uint8 {
	check(offset)
	return b.mem.Get(Base + offset)
}

// SetByte updates the byte at the given offset within the BDA.
func (b *BDA) SetByte(offset uint32, value uint8) {
	check(offset)
	b.mem.Set(Base+offset, value)
}

// Word returns the word at the given offset within the BDA.
func (b *BDA) Word(offset uint32) uint16 {
	check(offset + 1)
	return b.mem.GetU16(Base + offset)
}

// SetWord updates the word at the given offset within the BDA.
func (b *BDA) SetWord(offset uint32, value uint16) {
	check(offset + 1)
	b.mem.SetU16(Base+offset, value)
}

// DWord returns the dword at the given offset within the BDA.
func (b *BDA) DWord(offset uint32) uint32 {
	check(offset + 3)
	return b.mem.GetU32(Base + offset)
}

// SetDWord updates the dword at the given offset within the BDA.
func (b *BDA) SetDWord(offset uint32, value uint32) {
	check(offset + 3)
	b.mem.SetU32(Base+offset, value)
}

// CursorPosition returns the stored cursor for the given video page.
func (b *BDA) CursorPosition(page uint8) (row uint8, col uint8) {
	if page >= MaxVideoPages {
		panic(fmt.Sprintf("video page %d out of range", page))
	}
	w := b.Word(CursorPositions + uint32(page)*2)
	return uint8(w >> 8), uint8(w & 0xFF)
}

// SetCursorPosition stores the cursor for the given video page.
func (b *BDA) SetCursorPosition(page uint8, row uint8, col uint8) {
	if page >= MaxVideoPages {
		panic(fmt.Sprintf("video page %d out of range", page))
	}
	b.SetWord(CursorPositions+uint32(page)*2, uint16(row)<<8|uint16(col))
}
