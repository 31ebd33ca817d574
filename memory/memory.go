// Package memory provides the 1MiB of guest physical memory within
// which our BIOS maintains its state, and into which a BIOS extension
// ROM may be loaded.
//
// The address range 0xE0000-0xFFFFF is the reserved ROM window: it is
// filled with 0xFF at construction time, may be populated once via
// LoadROM, and is read-only as far as the guest is concerned - writes
// to it via Set/SetRange are silently discarded.
//
// Real-mode segment arithmetic can form addresses just past 1MiB,
// FFFF:0010 is 0x100000.  With the A20 line disabled the address bus
// wraps such accesses back to the bottom of memory, and we do the
// same: every access folds its address into the 1MiB space.
package memory

import (
	"fmt"
	"os"
)

const (
	// RomAreaStart is the first address of the reserved ROM window.
	RomAreaStart uint32 = 0xE0000

	// RomAreaEnd is the last address of the reserved ROM window.
	RomAreaEnd uint32 = 0xFFFFF

	// RomFill is the value returned for ROM addresses which are not
	// covered by a loaded extension image.
	RomFill uint8 = 0xFF
)

// Size is the total amount of guest physical memory we emulate.
const Size = 1024 * 1024

// Memory provides the guest's physical memory.
type Memory struct {
	buf [Size]uint8

	// romSize records how much of the ROM window is covered by a
	// loaded image.  Zero means no image has been loaded.
	romSize int
}

// New creates an empty memory, with the ROM window filled.
func New() *Memory {
	m := &Memory{}
	for i := RomAreaStart; i <= RomAreaEnd; i++ {
		m.buf[i] = RomFill
	}
	return m
}

// wrap folds an address into the 1MiB physical space, the A20-disabled
// wraparound of real hardware.
func wrap(addr uint32) uint32 {
	return addr % Size
}

// Set sets a byte at addr of memory.
//
// Writes falling inside the ROM window are discarded, the guest
// cannot modify firmware content.
func (m *Memory) Set(addr uint32, value uint8) {
	addr = wrap(addr)
	if addr >= RomAreaStart && addr <= RomAreaEnd {
		return
	}
	m.buf[addr] = value
}

// Get returns a byte at addr of memory.
func (m *Memory) Get(addr uint32) uint8 {
	return m.buf[wrap(addr)]
}

// GetU16 returns a little-endian word from the given address.
func (m *Memory) GetU16(addr uint32) uint16 {
	l := m.Get(addr)
	h := m.Get(addr + 1)
	return (uint16(h) << 8) | uint16(l)
}

// SetU16 stores a little-endian word at the given address.
func (m *Memory) SetU16(addr uint32, value uint16) {
	m.Set(addr, uint8(value&0xFF))
	m.Set(addr+1, uint8(value>>8))
}

// GetU32 returns a little-endian dword from the given address.
func (m *Memory) GetU32(addr uint32) uint32 {
	l := m.GetU16(addr)
	h := m.GetU16(addr + 2)
	return (uint32(h) << 16) | uint32(l)
}

// SetU32 stores a little-endian dword at the given address.
func (m *Memory) SetU32(addr uint32, value uint32) {
	m.SetU16(addr, uint16(value&0xFFFF))
	m.SetU16(addr+2, uint16(value>>16))
}

// SetRange copies bytes from the given data to the specified
// starting address.
func (m *Memory) SetRange(addr uint32, data ...uint8) {
	for i, c := range data {
		m.Set(addr+uint32(i), c)
	}
}

// FillRange fills an area of memory with the given byte.
func (m *Memory) FillRange(addr uint32, size int, char uint8) {
	for size > 0 {
		m.Set(addr, char)
		addr++
		size--
	}
}

// GetRange returns the contents of the given range.
func (m *Memory) GetRange(addr uint32, size int) []uint8 {
	var ret []uint8
	for size > 0 {
		ret = append(ret, m.Get(addr))
		addr++
		size--
	}
	return ret
}

// LoadROM loads the named BIOS extension image into the ROM window.
//
// The load is all-or-nothing: a missing file, an empty file, or an
// image which exceeds the window leaves the window untouched and
// returns an error.
func (m *Memory) LoadROM(name string) error {

	img, err := os.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read ROM image %s: %s", name, err)
	}

	if len(img) == 0 {
		return fmt.Errorf("ROM image %s is empty", name)
	}

	max := int(RomAreaEnd-RomAreaStart) + 1
	if len(img) > max {
		return fmt.Errorf("ROM image %s is %d bytes, exceeding the %d byte window", name, len(img), max)
	}

	// Bypass Set here, the window is only read-only to the guest.
	copy(m.buf[RomAreaStart:], img)
	m.romSize = len(img)

	return nil
}

// RomSize returns the size of the loaded ROM image, zero if none has
// been loaded.
func (m *Memory) RomSize() int {
	return m.romSize
}

// UnloadROM resets the ROM window to its unpopulated state.
func (m *Memory) UnloadROM() {
	for i := RomAreaStart; i <= RomAreaEnd; i++ {
		m.buf[i] = RomFill
	}
	m.romSize = 0
}
