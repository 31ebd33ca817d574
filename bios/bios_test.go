package bios

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vdmemu/vdmbios/bda"
	"github.com/vdmemu/vdmbios/consoleout"
	"github.com/vdmemu/vdmbios/keyboard"
	"github.com/vdmemu/vdmbios/memory"
)

// newTestBIOS creates a session backed by the null input driver and
// the recording output driver, and brings it up.
func newTestBIOS(t *testing.T, options ...Option) *BIOS {
	t.Helper()

	opts := append([]Option{
		WithInputDriver("null"),
		WithOutputDriver("logger"),
	}, options...)

	b, err := New(opts...)
	if err != nil {
		t.Fatalf("failed to create BIOS: %s", err)
	}
	if err = b.Setup(); err != nil {
		t.Fatalf("failed to setup BIOS: %s", err)
	}
	t.Cleanup(func() {
		if cErr := b.Close(); cErr != nil {
			t.Fatalf("cleanup failed: %s", cErr)
		}
	})

	// Discard the mode-change traffic of Setup.
	b.Output().GetDriver().(consoleout.ConsoleRecorder).Reset()
	return b
}

func TestBadDrivers(t *testing.T) {

	_, err := New(WithInputDriver("bogus"))
	if err == nil {
		t.Fatalf("expected an error with a bogus input driver")
	}

	_, err = New(WithOutputDriver("bogus"))
	if err == nil {
		t.Fatalf("expected an error with a bogus output driver")
	}

	_, err = New(WithMemorySize(0))
	if err == nil {
		t.Fatalf("expected an error with zero memory")
	}
	_, err = New(WithMemorySize(1024))
	if err == nil {
		t.Fatalf("expected an error with too much memory")
	}
}

func TestLifecycle(t *testing.T) {

	b, err := New(
		WithInputDriver("null"),
		WithOutputDriver("null"))
	if err != nil {
		t.Fatalf("failed to create BIOS: %s", err)
	}

	// Cleanup before initialization is a no-op, not a fault.
	if err = b.Close(); err != nil {
		t.Fatalf("close before setup should be a no-op: %s", err)
	}

	if err = b.Setup(); err != nil {
		t.Fatalf("setup failed: %s", err)
	}

	// A second setup is refused.
	if err = b.Setup(); err == nil {
		t.Fatalf("expected an error from a double setup")
	}

	if err = b.Close(); err != nil {
		t.Fatalf("close failed: %s", err)
	}

	// A second cleanup is a no-op.
	if err = b.Close(); err != nil {
		t.Fatalf("double close should be a no-op: %s", err)
	}

	// The handler table was released.
	if len(b.Handlers) != 0 {
		t.Fatalf("close should release the handlers")
	}
}

func TestBDADefaults(t *testing.T) {

	b := newTestBIOS(t)

	if b.BDA.Word(bda.MemorySize) != 640 {
		t.Fatalf("wrong memory size")
	}
	if b.BDA.Word(bda.SerialPorts) != 0x3F8 {
		t.Fatalf("wrong COM1 base")
	}
	if b.BDA.Word(bda.ParallelPorts) != 0x378 {
		t.Fatalf("wrong LPT1 base")
	}
	if b.BDA.Byte(bda.VideoMode) != 0x03 {
		t.Fatalf("wrong initial video mode")
	}
	if b.BDA.Word(bda.ScreenColumns) != 80 {
		t.Fatalf("wrong initial columns")
	}

	// The equipment word: initial video 80x25 colour, two serial
	// ports, one parallel port, no floppies attached.
	if b.BDA.Word(bda.EquipmentList) != 0x0020|2<<9|1<<14 {
		t.Fatalf("wrong equipment word %04X", b.BDA.Word(bda.EquipmentList))
	}
}

// Attaching a drive to a running session must be visible through the
// equipment query, not just the disk-count byte.
func TestHotAttachUpdatesEquipment(t *testing.T) {

	b := newTestBIOS(t)

	path := filepath.Join(t.TempDir(), "floppy.img")
	if err := os.WriteFile(path, make([]byte, 368640), 0644); err != nil {
		t.Fatalf("failed to write image: %s", err)
	}
	fh, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		t.Fatalf("failed to open image: %s", err)
	}
	t.Cleanup(func() { fh.Close() })

	if err = b.AttachDrive(0x00, fh); err != nil {
		t.Fatalf("failed to attach drive: %s", err)
	}

	eq := b.BDA.Word(bda.EquipmentList)
	if eq&0x0001 == 0 {
		t.Fatalf("diskette bit not set after hot attach: %04X", eq)
	}
	if (eq>>6)&0x03 != 0 {
		t.Fatalf("wrong diskette count field: %04X", eq)
	}
}

func TestMemorySizeOption(t *testing.T) {

	b := newTestBIOS(t, WithMemorySize(512))

	if b.BDA.Word(bda.MemorySize) != 512 {
		t.Fatalf("memory size option ignored")
	}
}

func TestROMLifecycle(t *testing.T) {

	img := make([]byte, 65536)
	for i := range img {
		img[i] = byte(i ^ 0x5A)
	}
	path := filepath.Join(t.TempDir(), "ext.rom")
	if err := os.WriteFile(path, img, 0644); err != nil {
		t.Fatalf("failed to write ROM: %s", err)
	}

	b := newTestBIOS(t, WithROMImage(path))

	// Every byte of the image is visible in the window, and the
	// fill value beyond it.
	for _, off := range []uint32{0, 1, 65535} {
		if b.Memory.Get(memory.RomAreaStart+off) != byte(off^0x5A) {
			t.Fatalf("ROM byte %d wrong", off)
		}
	}
	if b.Memory.Get(memory.RomAreaStart+65536) != memory.RomFill {
		t.Fatalf("expected fill beyond the image")
	}

	if err := b.Close(); err != nil {
		t.Fatalf("close failed: %s", err)
	}
	if b.Memory.Get(memory.RomAreaStart) != memory.RomFill {
		t.Fatalf("close should unload the ROM")
	}
}

// A bad ROM image must leave the session unstarted.
func TestROMFailureIsAllOrNothing(t *testing.T) {

	b, err := New(
		WithInputDriver("null"),
		WithOutputDriver("null"),
		WithROMImage("/this/does/not/exist.rom"))
	if err != nil {
		t.Fatalf("failed to create BIOS: %s", err)
	}

	if err = b.Setup(); err == nil {
		t.Fatalf("expected setup to fail")
	}

	// No partial initialization: closing now is still a no-op.
	if err = b.Close(); err != nil {
		t.Fatalf("close after failed setup should be a no-op: %s", err)
	}
	if len(b.Handlers) != 0 {
		t.Fatalf("failed setup should not install handlers")
	}
}

// Console input stuffed into the driver must end up in the
// guest-visible keystroke buffer via the background pump.
func TestInputPump(t *testing.T) {

	b := newTestBIOS(t)

	b.Input().StuffInput("j")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if e, ok := func() (keyboard.Event, bool) {
			b.mu.Lock()
			defer b.mu.Unlock()
			return b.Keyboard.Peek()
		}(); ok {
			if e.ASCII != 'j' || e.Scan != 0x24 {
				t.Fatalf("wrong event %v", e)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}

	t.Fatalf("stuffed input never reached the keystroke buffer")
}

// The clock must advance while the session runs.
func TestClockAdvances(t *testing.T) {

	b := newTestBIOS(t)

	read := func() uint32 {
		b.mu.Lock()
		defer b.mu.Unlock()
		return b.Clock.ReadTicks()
	}

	start := read()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if read() > start {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("tick counter never advanced")
}
