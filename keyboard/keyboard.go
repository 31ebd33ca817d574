// Package keyboard manages the circular keystroke buffer and the
// shift-state flags which the BIOS keeps inside the BIOS Data Area.
//
// The buffer is the real legacy structure: head and tail are words in
// the BDA holding offsets relative to segment 0x40, the slots are the
// sixteen words at 0040:001E, and one slot is always left unused so
// that head==tail means empty.  A guest which manipulates the buffer
// pointers directly - some DOS-era software does - sees exactly the
// same state we do.
package keyboard

import (
	"github.com/vdmemu/vdmbios/bda"
)

// Shift-state flag bits, as found at 0040:0017.
const (
	FlagRightShift uint8 = 0x01
	FlagLeftShift  uint8 = 0x02
	FlagCtrl       uint8 = 0x04
	FlagAlt        uint8 = 0x08
	FlagScroll     uint8 = 0x10
	FlagNum        uint8 = 0x20
	FlagCaps       uint8 = 0x40
	FlagInsert     uint8 = 0x80
)

// Event is one decoded keystroke: the raw scan code plus its ASCII
// translation.  A zero ASCII value marks an extended key.
type Event struct {
	Scan  uint8
	ASCII uint8
}

// Word returns the event encoded as the BIOS stores it, scan code in
// the high byte.
func (e Event) Word() uint16 {
	return uint16(e.Scan)<<8 | uint16(e.ASCII)
}

// EventFromWord decodes a buffer slot back into an event.
func EventFromWord(w uint16) Event {
	return Event{Scan: uint8(w >> 8), ASCII: uint8(w & 0xFF)}
}

// Buffer manages the circular keystroke queue held in the BDA.
type Buffer struct {
	bda *bda.BDA
}

// NewBuffer creates a buffer manager and resets the queue pointers
// to an empty state.
func NewBuffer(b *bda.BDA) *Buffer {
	k := &Buffer{bda: b}

	// The buffer-bounds words let software relocate the buffer; we
	// pin them to the classic location.
	k.bda.SetWord(bda.KeybdBufferStart, bda.KeybdBuffer)
	k.bda.SetWord(bda.KeybdBufferEnd, bda.KeybdBuffer+bda.KeybdBufferSlots*2)
	k.bda.SetWord(bda.KeybdBufferHead, bda.KeybdBuffer)
	k.bda.SetWord(bda.KeybdBufferTail, bda.KeybdBuffer)
	return k
}

// next returns the buffer offset following the given one, wrapping
// at the end of the slot array.
func (k *Buffer) next(offset uint16) uint16 {
	offset += 2
	if offset >= k.bda.Word(bda.KeybdBufferEnd) {
		offset = k.bda.Word(bda.KeybdBufferStart)
	}
	return offset
}

// Push appends a keystroke to the buffer.
//
// If the buffer is full the keystroke is dropped and false is
// returned - the legacy policy is to discard the newest input, never
// to overwrite what is already queued.
func (k *Buffer) Push(e Event) bool {
	head := k.bda.Word(bda.KeybdBufferHead)
	tail := k.bda.Word(bda.KeybdBufferTail)

	if k.next(tail) == head {
		return false
	}

	k.bda.SetWord(uint32(tail), e.Word())
	k.bda.SetWord(bda.KeybdBufferTail, k.next(tail))
	return true
}

// Pop removes and returns the oldest queued keystroke.
func (k *Buffer) Pop() (Event, bool) {
	e, ok := k.Peek()
	if !ok {
		return Event{}, false
	}

	head := k.bda.Word(bda.KeybdBufferHead)
	k.bda.SetWord(bda.KeybdBufferHead, k.next(head))
	return e, true
}

// Peek returns the oldest queued keystroke without consuming it.
//
// The "check buffer" BIOS service must never remove an event, only
// "read key" consumes.
func (k *Buffer) Peek() (Event, bool) {
	head := k.bda.Word(bda.KeybdBufferHead)
	tail := k.bda.Word(bda.KeybdBufferTail)

	if head == tail {
		return Event{}, false
	}
	return EventFromWord(k.bda.Word(uint32(head))), true
}

// Pending returns the number of queued keystrokes.
func (k *Buffer) Pending() int {
	head := k.bda.Word(bda.KeybdBufferHead)
	tail := k.bda.Word(bda.KeybdBufferTail)

	n := 0
	for head != tail {
		head = k.next(head)
		n++
	}
	return n
}

// ShiftState returns the live shift/lock flags.
func (k *Buffer) ShiftState() uint8 {
	return k.bda.Byte(bda.KeybdShiftFlags)
}

// SetShiftState updates the live shift/lock flags.
func (k *Buffer) SetShiftState(flags uint8) {
	k.bda.SetByte(bda.KeybdShiftFlags, flags)
}
