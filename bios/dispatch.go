// This file implements the interrupt dispatch table.
//
// The CPU-emulator collaborator traps INT instructions and calls
// Dispatch; everything else in this package is handlers hanging off
// the table built here.

package bios

import (
	"fmt"
	"log/slog"

	"github.com/vdmemu/vdmbios/cpu"
)

// HandlerType contains the signature of an interrupt service
// routine.
//
// A handler mutates the register snapshot in place.  The error
// return is for host-level failures only: anything the guest should
// learn about is reported through the carry flag and a status
// register, because the guest cannot observe host errors.
type HandlerType func(b *BIOS, regs *cpu.Registers) error

// Handler contains details of a specific interrupt service we
// implement.
//
// While we mostly need a "vector to handler" mapping, having a name
// is useful for the logs we produce.
type Handler struct {
	// Desc contains the human-readable description of the given
	// interrupt vector.
	Desc string

	// Handler contains the function which should be invoked for
	// this vector.
	Handler HandlerType
}

// Interrupt vectors we service.
const (
	vecTimer     uint8 = 0x08
	vecVideo     uint8 = 0x10
	vecEquipment uint8 = 0x11
	vecMemory    uint8 = 0x12
	vecDisk      uint8 = 0x13
	vecKeyboard  uint8 = 0x16
	vecClock     uint8 = 0x1A
)

// installHandlers populates the dispatch table with our default
// services.  The caller holds the lock.
func (b *BIOS) installHandlers() {

	b.Handlers[vecTimer] = Handler{
		Desc:    "TIMER_TICK",
		Handler: IntTimerTick,
	}
	b.Handlers[vecVideo] = Handler{
		Desc:    "VIDEO",
		Handler: IntVideo,
	}
	b.Handlers[vecEquipment] = Handler{
		Desc:    "EQUIPMENT_LIST",
		Handler: IntEquipmentList,
	}
	b.Handlers[vecMemory] = Handler{
		Desc:    "MEMORY_SIZE",
		Handler: IntMemorySize,
	}
	b.Handlers[vecDisk] = Handler{
		Desc:    "DISK",
		Handler: IntDisk,
	}
	b.Handlers[vecKeyboard] = Handler{
		Desc:    "KEYBOARD",
		Handler: IntKeyboard,
	}
	b.Handlers[vecClock] = Handler{
		Desc:    "CLOCK",
		Handler: IntClock,
	}
}

// Install registers a handler for the given interrupt vector,
// replacing any existing one.
func (b *BIOS) Install(vector uint8, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Handlers[vector] = h
}

// Dispatch services a software interrupt trapped by the CPU
// emulator, mutating the supplied register snapshot.
//
// A vector with no registered handler sets the guest carry flag and
// leaves the other registers untouched - the universal "unsupported
// function" signal of this legacy API.
func (b *BIOS) Dispatch(vector uint8, regs *cpu.Registers) {
	b.mu.Lock()
	defer b.mu.Unlock()

	handler, exists := b.Handlers[vector]
	if !exists {
		b.Logger.Debug("unhandled interrupt",
			slog.Int("vector", int(vector)),
			slog.String("vectorHex", fmt.Sprintf("0x%02X", vector)))

		regs.SetCarry(true)
		return
	}

	b.Logger.Debug("interrupt",
		slog.String("name", handler.Desc),
		slog.Int("vector", int(vector)),
		slog.String("vectorHex", fmt.Sprintf("0x%02X", vector)),
		slog.Int("function", int(regs.AH())))

	err := handler.Handler(b, regs)
	if err != nil {
		// A host-level failure; the guest still only sees the
		// carry flag.
		b.Logger.Error("interrupt handler failed",
			slog.String("name", handler.Desc),
			slog.Int("vector", int(vector)),
			slog.String("error", err.Error()))

		regs.SetCarry(true)
	}
}
