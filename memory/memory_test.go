package memory

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadWrite(t *testing.T) {

	m := New()

	m.Set(0x0400, 0xCE)
	if m.Get(0x0400) != 0xCE {
		t.Fatalf("byte read/write failed")
	}

	m.SetU16(0x046C, 0x1234)
	if m.GetU16(0x046C) != 0x1234 {
		t.Fatalf("word read/write failed")
	}
	if m.Get(0x046C) != 0x34 || m.Get(0x046D) != 0x12 {
		t.Fatalf("words are not little-endian")
	}

	m.SetU32(0x046C, 0x001800B0)
	if m.GetU32(0x046C) != 0x001800B0 {
		t.Fatalf("dword read/write failed")
	}
}

func TestRanges(t *testing.T) {

	m := New()

	m.SetRange(0x7C00, 0x01, 0x02, 0x03)
	out := m.GetRange(0x7C00, 3)
	if len(out) != 3 || out[0] != 0x01 || out[1] != 0x02 || out[2] != 0x03 {
		t.Fatalf("range read/write failed: %v", out)
	}

	m.FillRange(0x7C00, 3, 0xAA)
	out = m.GetRange(0x7C00, 3)
	for _, x := range out {
		if x != 0xAA {
			t.Fatalf("fill failed: %v", out)
		}
	}
}

// Real-mode code can form addresses just past 1MiB, FFFF:0010 is
// 0x100000; accesses there must wrap to the bottom of memory instead
// of faulting the host.
func TestAddressWraparound(t *testing.T) {

	m := New()

	m.Set(0x00000, 0x11)
	if m.Get(Size) != 0x11 {
		t.Fatalf("read at 1MiB did not wrap")
	}

	m.Set(Size+0x30, 0x22)
	if m.Get(0x00030) != 0x22 {
		t.Fatalf("write at 1MiB did not wrap")
	}

	// A word write straddling the boundary: the low byte lands in
	// the ROM window and is discarded, the high byte wraps to zero.
	m.SetU16(Size-1, 0x1234)
	if m.Get(Size-1) != RomFill {
		t.Fatalf("ROM window protection lost at the boundary")
	}
	if m.Get(0x00000) != 0x12 {
		t.Fatalf("high byte did not wrap to the bottom")
	}

	// Range reads crossing the boundary wrap too.
	out := m.GetRange(Size-1, 2)
	if out[0] != RomFill || out[1] != 0x12 {
		t.Fatalf("range read did not wrap: %v", out)
	}
}

// The ROM window must ignore guest writes, and read back as 0xFF
// when no image has been loaded.
func TestRomWindowProtected(t *testing.T) {

	m := New()

	if m.Get(RomAreaStart) != RomFill {
		t.Fatalf("unpopulated ROM window should read as fill value")
	}

	m.Set(RomAreaStart, 0x00)
	if m.Get(RomAreaStart) != RomFill {
		t.Fatalf("guest write to ROM window was not discarded")
	}

	m.SetU16(RomAreaEnd-1, 0x1234)
	if m.Get(RomAreaEnd-1) != RomFill || m.Get(RomAreaEnd) != RomFill {
		t.Fatalf("guest word-write to ROM window was not discarded")
	}
}

func TestLoadROM(t *testing.T) {

	m := New()

	// Missing file.
	err := m.LoadROM("this/does/not/exist.rom")
	if err == nil {
		t.Fatalf("expected an error loading a missing ROM")
	}

	// Empty file.
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.rom")
	if err = os.WriteFile(empty, []byte{}, 0644); err != nil {
		t.Fatalf("failed to write test file: %s", err)
	}
	err = m.LoadROM(empty)
	if err == nil {
		t.Fatalf("expected an error loading an empty ROM")
	}

	// Oversized file.
	big := filepath.Join(dir, "big.rom")
	if err = os.WriteFile(big, make([]byte, 1024*1024), 0644); err != nil {
		t.Fatalf("failed to write test file: %s", err)
	}
	err = m.LoadROM(big)
	if err == nil {
		t.Fatalf("expected an error loading an oversized ROM")
	}
	if m.RomSize() != 0 {
		t.Fatalf("failed load should leave the window unpopulated")
	}

	// A valid 64K image.
	img := make([]byte, 65536)
	for i := range img {
		img[i] = byte(i)
	}
	good := filepath.Join(dir, "good.rom")
	if err = os.WriteFile(good, img, 0644); err != nil {
		t.Fatalf("failed to write test file: %s", err)
	}
	err = m.LoadROM(good)
	if err != nil {
		t.Fatalf("unexpected error loading ROM: %s", err)
	}
	if m.RomSize() != 65536 {
		t.Fatalf("wrong ROM size %d", m.RomSize())
	}

	// Every byte within the image is visible.
	for _, off := range []uint32{0, 1, 255, 65535} {
		if m.Get(RomAreaStart+off) != byte(off) {
			t.Fatalf("ROM byte %d has the wrong value", off)
		}
	}

	// Beyond the image, within the window, we see the fill value.
	if m.Get(RomAreaStart+65536) != RomFill {
		t.Fatalf("expected fill value beyond the loaded image")
	}
	if m.Get(RomAreaEnd) != RomFill {
		t.Fatalf("expected fill value at the end of the window")
	}

	// Unload restores the pristine window.
	m.UnloadROM()
	if m.Get(RomAreaStart) != RomFill || m.RomSize() != 0 {
		t.Fatalf("unload failed")
	}
}
