package bda

import (
	"testing"

	"github.com/vdmemu/vdmbios/memory"
)

func TestAccessors(t *testing.T) {

	mem := memory.New()
	b := New(mem)

	b.SetByte(VideoMode, 0x03)
	if b.Byte(VideoMode) != 0x03 {
		t.Fatalf("byte accessor failed")
	}

	b.SetWord(EquipmentList, 0x0021)
	if b.Word(EquipmentList) != 0x0021 {
		t.Fatalf("word accessor failed")
	}

	b.SetDWord(TickCounter, 0x001800B0)
	if b.DWord(TickCounter) != 0x001800B0 {
		t.Fatalf("dword accessor failed")
	}
}

// The layout is a binary contract: values stored through the typed
// accessors must be visible to the guest at the architectural
// addresses.
func TestGuestVisibility(t *testing.T) {

	mem := memory.New()
	b := New(mem)

	b.SetWord(MemorySize, 640)
	if mem.GetU16(0x413) != 640 {
		t.Fatalf("memory size not visible at 0040:0013")
	}

	b.SetDWord(TickCounter, 0xCAFEB0BA)
	if mem.GetU32(0x46C) != 0xCAFEB0BA {
		t.Fatalf("tick counter not visible at 0040:006C")
	}

	// And raw guest writes must be visible through the view.
	mem.Set(0x417, 0x42)
	if b.Byte(KeybdShiftFlags) != 0x42 {
		t.Fatalf("guest write not visible through the view")
	}
}

func TestCursorPositions(t *testing.T) {

	mem := memory.New()
	b := New(mem)

	for page := uint8(0); page < MaxVideoPages; page++ {
		b.SetCursorPosition(page, page+1, page+2)
	}
	for page := uint8(0); page < MaxVideoPages; page++ {
		row, col := b.CursorPosition(page)
		if row != page+1 || col != page+2 {
			t.Fatalf("cursor for page %d wrong: %d,%d", page, row, col)
		}
	}

	// Page 0's cursor lives at 0040:0050, stored as row:column.
	if mem.GetU16(0x450) != uint16(1)<<8|2 {
		t.Fatalf("cursor for page 0 not at 0040:0050")
	}
}

func TestOutOfRange(t *testing.T) {

	mem := memory.New()
	b := New(mem)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic on an out-of-range offset")
		}
	}()

	b.Byte(Size)
}
