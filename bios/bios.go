// Package bios is the main package for our emulation layer: it owns
// the BIOS Data Area within guest memory, and services the classic
// software-interrupt API which DOS-era programs invoke.
//
// The package deliberately does not execute guest code.  The CPU
// emulator collaborator recognizes INT instructions and calls
// Dispatch with a mutable register snapshot; our handlers mutate the
// snapshot and the guest-visible memory, and the emulator resumes
// the guest.  Failures are reported to the guest through the carry
// flag, never as host errors the guest could not observe.
package bios

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/vdmemu/vdmbios/bda"
	"github.com/vdmemu/vdmbios/consolein"
	"github.com/vdmemu/vdmbios/consoleout"
	"github.com/vdmemu/vdmbios/disk"
	"github.com/vdmemu/vdmbios/keyboard"
	"github.com/vdmemu/vdmbios/memory"
	"github.com/vdmemu/vdmbios/timer"
	"github.com/vdmemu/vdmbios/video"
)

// BIOS is the object that holds the state of one virtual-machine
// session.
//
// There is no global state: everything a handler needs hangs off
// this object, so independent sessions can coexist and handlers can
// be tested in isolation.
type BIOS struct {

	// mu serializes access to the session state.
	//
	// The guest runs on a single thread of control, but keyboard
	// input and clock ticks arrive from host-side goroutines, so
	// every mutation of the BDA goes through this lock.
	mu sync.Mutex

	// Logger holds a logger which we use for debugging and
	// diagnostics.
	Logger *slog.Logger

	// Memory contains the guest physical memory, including the
	// BIOS Data Area and the ROM window.
	Memory *memory.Memory

	// BDA is our view onto the BIOS Data Area.
	BDA *bda.BDA

	// Keyboard manages the circular keystroke buffer.
	Keyboard *keyboard.Buffer

	// Video manages the guest-visible display state.
	Video *video.State

	// Clock drives the tick counter.
	Clock *timer.Counter

	// Disks owns the attached drive images.
	Disks *disk.Controller

	// Handlers contains the interrupt services we provide, indexed
	// by vector number.
	Handlers map[uint8]Handler

	// input is where keyboard input comes from.
	input *consolein.ConsoleIn

	// output is where display output goes to.
	output *consoleout.ConsoleOut

	// romPath optionally names a BIOS extension image to load into
	// the ROM window.
	romPath string

	// memoryKB is the conventional memory size we report.
	memoryKB uint16

	// cancel stops the background clock/input goroutine.
	cancel context.CancelFunc

	// running records whether Setup has completed, so that Close
	// is an idempotent no-op beforehand and afterwards.
	running bool
}

// Option is the signature of a configuration-option for our
// constructor.
type Option func(*BIOS) error

// WithLogger sets the logger the session will use.
func WithLogger(l *slog.Logger) Option {
	return func(b *BIOS) error {
		b.Logger = l
		return nil
	}
}

// WithROMImage names a BIOS extension image to load into the
// reserved ROM window during Setup.
func WithROMImage(path string) Option {
	return func(b *BIOS) error {
		b.romPath = path
		return nil
	}
}

// WithInputDriver selects the console input driver, by name.
func WithInputDriver(name string) Option {
	return func(b *BIOS) error {
		in, err := consolein.New(name)
		if err != nil {
			return err
		}
		b.input = in
		return nil
	}
}

// WithOutputDriver selects the console output driver, by name.
func WithOutputDriver(name string) Option {
	return func(b *BIOS) error {
		out, err := consoleout.New(name)
		if err != nil {
			return err
		}
		b.output = out
		return nil
	}
}

// WithMemorySize overrides the conventional memory size, in KiB,
// reported to the guest.
func WithMemorySize(kb uint16) Option {
	return func(b *BIOS) error {
		if kb == 0 || kb > 640 {
			return fmt.Errorf("impossible conventional memory size %dKB", kb)
		}
		b.memoryKB = kb
		return nil
	}
}

// New returns a new emulation object.
//
// The returned session holds no host resources until Setup is
// called, and the defaults give a terminal-backed console.
func New(options ...Option) (*BIOS, error) {

	b := &BIOS{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Memory:   memory.New(),
		Disks:    disk.NewController(),
		Handlers: make(map[uint8]Handler),
		memoryKB: 640,
	}

	// Default console drivers; options may replace them.
	in, err := consolein.New("term")
	if err != nil {
		return nil, err
	}
	b.input = in

	out, err := consoleout.New("ansi")
	if err != nil {
		return nil, err
	}
	b.output = out

	for _, opt := range options {
		if err = opt(b); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// AttachDrive connects a drive image to the session, before or
// after Setup.
func (b *BIOS) AttachDrive(dnum uint8, rws io.ReadWriteSeeker) error {
	err := b.Disks.Insert(dnum, rws)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running {
		b.BDA.SetByte(bda.NumDisks, b.Disks.HardCount())
		b.BDA.SetWord(bda.EquipmentList, b.equipment())
	}
	return nil
}

// Output returns the console output device, primarily so tests can
// reach the recorder.
func (b *BIOS) Output() *consoleout.ConsoleOut {
	return b.output
}

// Input returns the console input device.
func (b *BIOS) Input() *consolein.ConsoleIn {
	return b.input
}

// Setup brings the session up: the optional ROM image is loaded,
// the console is initialized, the BIOS Data Area is populated, and
// the interrupt services are installed.
//
// Initialization is all-or-nothing; on any failure the session is
// left unstarted, holding no host resources.
func (b *BIOS) Setup() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		return fmt.Errorf("session is already initialized")
	}

	// The ROM image first: it is the most likely failure and has
	// the easiest rollback.
	if b.romPath != "" {
		if err := b.Memory.LoadROM(b.romPath); err != nil {
			return err
		}
	}

	if err := b.input.Setup(); err != nil {
		b.Memory.UnloadROM()
		return fmt.Errorf("failed to setup console input: %s", err)
	}

	// The BDA and its managers.
	b.BDA = bda.New(b.Memory)
	b.Keyboard = keyboard.NewBuffer(b.BDA)
	b.Video = video.New(b.BDA, b.output)
	b.Clock = timer.New(b.BDA)

	b.initBDA()

	// 80x25 colour text, the state DOS expects to find.
	if err := b.Video.SetMode(0x03); err != nil {
		_ = b.input.TearDown()
		b.Memory.UnloadROM()
		return err
	}

	b.installHandlers()

	// Start feeding the clock and the keyboard buffer.
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	go b.pump(ctx)

	b.running = true

	b.Logger.Info("BIOS initialized",
		slog.String("input", b.input.GetName()),
		slog.String("output", b.output.GetName()),
		slog.Int("romSize", b.Memory.RomSize()))

	return nil
}

// initBDA applies the hardware-compatible power-on defaults.  The
// caller holds the lock.
func (b *BIOS) initBDA() {

	// Port base addresses: two serial ports, one parallel port.
	b.BDA.SetWord(bda.SerialPorts, 0x3F8)
	b.BDA.SetWord(bda.SerialPorts+2, 0x2F8)
	b.BDA.SetWord(bda.ParallelPorts, 0x378)

	b.BDA.SetWord(bda.EbdaSegment, 0x9FC0)
	b.BDA.SetWord(bda.MemorySize, b.memoryKB)
	b.BDA.SetWord(bda.EquipmentList, b.equipment())
	b.BDA.SetWord(bda.CrtBasePort, 0x3D4)

	// Device timeouts, in the units the real firmware used.
	for i := uint32(0); i < 4; i++ {
		b.BDA.SetByte(bda.LptTimeouts+i, 0x14)
		b.BDA.SetByte(bda.ComTimeouts+i, 0x01)
	}

	b.BDA.SetByte(bda.NumDisks, b.Disks.HardCount())
}

// equipment computes the equipment-list word from the emulated
// configuration.
func (b *BIOS) equipment() uint16 {

	var eq uint16

	if n := b.Disks.FloppyCount(); n > 0 {
		eq |= 0x0001
		eq |= uint16(n-1) << 6
	}

	// Initial video: 80x25 colour.
	eq |= 0x0020

	// Two serial ports, one parallel port.
	eq |= 2 << 9
	eq |= 1 << 14

	return eq
}

// pump runs in a goroutine, feeding elapsed host time into the tick
// counter and draining console input into the keystroke buffer.
func (b *BIOS) pump(ctx context.Context) {

	t := time.NewTicker(5 * time.Millisecond)
	defer t.Stop()

	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			b.mu.Lock()

			b.Clock.Advance(now.Sub(last))
			last = now

			for {
				c, err := b.input.ReadCharacter()
				if err != nil {
					break
				}
				if !b.Keyboard.Push(keyboard.Translate(c)) {
					b.Logger.Debug("keyboard buffer full, dropping input",
						slog.Int("char", int(c)))
					break
				}
			}

			b.mu.Unlock()
		}
	}
}

// QueueKey delivers a decoded keystroke from the console
// collaborator into the guest-visible buffer.
//
// This is the inbound half of the console boundary; the term driver
// feeds keys through the pump instead, but an embedding UI may call
// this directly.
func (b *BIOS) QueueKey(e keyboard.Event) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Keyboard.Push(e)
}

// Close releases everything Setup acquired: the background
// goroutine, the console, the ROM image, and the installed
// handlers.
//
// It is idempotent: calling it without a prior successful Setup, or
// calling it twice, is a harmless no-op.
func (b *BIOS) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.running {
		return nil
	}

	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}

	err := b.input.TearDown()

	b.Memory.UnloadROM()
	b.Handlers = make(map[uint8]Handler)
	b.running = false

	b.Logger.Info("BIOS cleanup complete")

	if err != nil {
		return fmt.Errorf("failed to restore console: %s", err)
	}
	return nil
}
