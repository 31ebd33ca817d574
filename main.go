// entry point
//
// This driver brings a BIOS session up, attaches any drive images it
// was given, probes the installed services the way a guest would, and
// prints a report of the resulting machine state.  It exists for
// embedders to sanity-check a configuration without wiring up a CPU
// emulator.

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vdmemu/vdmbios/bios"
	"github.com/vdmemu/vdmbios/cpu"
	"github.com/vdmemu/vdmbios/version"
)

// styles holds the rendering styles of our report.
type styles struct {
	title lipgloss.Style
	label lipgloss.Style
	err   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(6)),
		label: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(4)),
		err:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(1)),
	}
}

// attach opens the named image read-write and connects it as the
// given drive.
func attach(b *bios.BIOS, dnum uint8, path string) error {
	fh, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	return b.AttachDrive(dnum, fh)
}

func main() {

	var (
		romPath     = flag.String("rom", "", "Path to a BIOS extension image to load into the ROM window")
		fd0Path     = flag.String("fd0", "", "Path to a floppy image for drive 0")
		fd1Path     = flag.String("fd1", "", "Path to a floppy image for drive 1")
		hd0Path     = flag.String("hd0", "", "Path to a hard disk image for drive 80h")
		input       = flag.String("input", "null", "Name of the console input driver")
		output      = flag.String("output", "null", "Name of the console output driver")
		memoryKB    = flag.Int("memory", 640, "Conventional memory size, in KB")
		showVersion = flag.Bool("version", false, "Show our version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Print(version.GetVersionBanner())
		return
	}

	sty := newStyles()

	// Setup our logging level - default to warnings or higher
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)

	// But show "everything" if $DEBUG is non-empty
	if os.Getenv("DEBUG") != "" {
		lvl.Set(slog.LevelDebug)
	}

	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	}))

	b, err := bios.New(
		bios.WithLogger(log),
		bios.WithROMImage(*romPath),
		bios.WithInputDriver(*input),
		bios.WithOutputDriver(*output),
		bios.WithMemorySize(uint16(*memoryKB)))
	if err != nil {
		fmt.Println(sty.err.Render(fmt.Sprintf("failed to create the BIOS: %s", err)))
		os.Exit(1)
	}

	drives := map[uint8]string{}
	if *fd0Path != "" {
		drives[0x00] = *fd0Path
	}
	if *fd1Path != "" {
		drives[0x01] = *fd1Path
	}
	if *hd0Path != "" {
		drives[0x80] = *hd0Path
	}
	for dnum, path := range drives {
		if err = attach(b, dnum, path); err != nil {
			fmt.Println(sty.err.Render(fmt.Sprintf("failed to attach %s: %s", path, err)))
			os.Exit(1)
		}
	}

	if err = b.Setup(); err != nil {
		fmt.Println(sty.err.Render(fmt.Sprintf("failed to initialize the BIOS: %s", err)))
		os.Exit(1)
	}
	defer func() {
		if cErr := b.Close(); cErr != nil {
			fmt.Println(sty.err.Render(fmt.Sprintf("cleanup failed: %s", cErr)))
		}
	}()

	// Probe the services exactly as a guest would, through the
	// dispatch table.
	var out strings.Builder

	out.WriteString(sty.title.Render("vdmbios "+version.GetVersionString()) + "\n")

	regs := cpu.Registers{}
	b.Dispatch(0x12, &regs)
	out.WriteString(fmt.Sprintf("%s %d KB\n",
		sty.label.Render("Conventional memory:"), regs.AX))

	regs = cpu.Registers{}
	b.Dispatch(0x11, &regs)
	out.WriteString(fmt.Sprintf("%s %016b\n",
		sty.label.Render("Equipment word:    "), regs.AX))

	regs = cpu.Registers{AX: 0x0F00}
	b.Dispatch(0x10, &regs)
	out.WriteString(fmt.Sprintf("%s mode %02Xh, %d columns\n",
		sty.label.Render("Video:             "), regs.AL(), regs.AH()))

	regs = cpu.Registers{}
	b.Dispatch(0x1A, &regs)
	out.WriteString(fmt.Sprintf("%s %d ticks since midnight\n",
		sty.label.Render("Clock:             "), uint32(regs.CX)<<16|uint32(regs.DX)))

	if b.Memory.RomSize() > 0 {
		out.WriteString(fmt.Sprintf("%s %d bytes at E0000h\n",
			sty.label.Render("Extension ROM:     "), b.Memory.RomSize()))
	}

	for dnum := range drives {
		regs = cpu.Registers{AX: 0x0800, DX: uint16(dnum)}
		b.Dispatch(0x13, &regs)
		if regs.Carry() {
			out.WriteString(fmt.Sprintf("%s %02Xh: status %02Xh\n",
				sty.label.Render("Drive:             "), dnum, regs.AH()))
			continue
		}
		cylinders := uint16(regs.CH()) | uint16(regs.CL()&0xC0)<<2
		out.WriteString(fmt.Sprintf("%s %02Xh: %d/%d/%d CHS\n",
			sty.label.Render("Drive:             "),
			dnum, cylinders+1, regs.DH()+1, regs.CL()&0x3F))
	}

	fmt.Print(out.String())
}
