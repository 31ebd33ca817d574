// Package video maintains the BIOS view of the display: the active
// text mode, per-page cursor positions, the cursor shape, and the
// active page, all stored in their BIOS Data Area slots.
//
// The console collaborator renders the actual screen; we keep the
// guest-visible state consistent and tell the console when the
// visible cursor or the display geometry changes.
package video

import (
	"errors"

	"github.com/vdmemu/vdmbios/bda"
	"github.com/vdmemu/vdmbios/consoleout"
)

var (
	// ErrBadMode is returned for a video mode we do not support.
	ErrBadMode = errors.New("BADMODE")

	// ErrBadPage is returned for an out-of-range video page.
	ErrBadPage = errors.New("BADPAGE")

	// ErrBadPosition is returned for a cursor position outside the
	// current text geometry.
	ErrBadPosition = errors.New("BADPOSITION")
)

// mode describes one supported text mode.
type mode struct {
	columns  uint8
	rows     uint8
	pageSize uint16
}

// modes holds the legacy CGA/MDA text modes.  Graphics modes are the
// console collaborator's problem, and DOS text applications only use
// these.
var modes = map[uint8]mode{
	0x00: {columns: 40, rows: 25, pageSize: 0x0800},
	0x01: {columns: 40, rows: 25, pageSize: 0x0800},
	0x02: {columns: 80, rows: 25, pageSize: 0x1000},
	0x03: {columns: 80, rows: 25, pageSize: 0x1000},
	0x07: {columns: 80, rows: 25, pageSize: 0x1000},
}

// State manages the video fields of the BIOS Data Area.
type State struct {
	bda *bda.BDA
	out *consoleout.ConsoleOut
}

// New creates a video state manager writing through to the given
// BDA, and notifying the given console.
func New(b *bda.BDA, out *consoleout.ConsoleOut) *State {
	return &State{bda: b, out: out}
}

// SetMode switches to the given text mode, reinitializing the
// dependent BDA fields and clearing every page's cursor.
//
// An unsupported mode leaves all state unchanged.
func (v *State) SetMode(m uint8) error {

	// Bit 7 asks for the mode change without clearing the display;
	// the geometry lookup ignores it.
	info, ok := modes[m&0x7F]
	if !ok {
		return ErrBadMode
	}

	v.bda.SetByte(bda.VideoMode, m&0x7F)
	v.bda.SetWord(bda.ScreenColumns, uint16(info.columns))
	v.bda.SetWord(bda.VideoPageSize, info.pageSize)
	v.bda.SetWord(bda.VideoPageOffset, 0)
	v.bda.SetByte(bda.VideoPage, 0)
	v.bda.SetByte(bda.ScreenRows, info.rows-1)
	v.bda.SetWord(bda.CharacterHeight, 16)

	for page := uint8(0); page < bda.MaxVideoPages; page++ {
		v.bda.SetCursorPosition(page, 0, 0)
	}
	v.bda.SetByte(bda.CursorStartLine, 6)
	v.bda.SetByte(bda.CursorEndLine, 7)

	if m&0x80 == 0 {
		v.out.SetMode(info.columns, info.rows)
	}
	return nil
}

// Mode returns the current video mode.
func (v *State) Mode() uint8 {
	return v.bda.Byte(bda.VideoMode)
}

// Columns returns the width of the current text mode.
func (v *State) Columns() uint8 {
	return uint8(v.bda.Word(bda.ScreenColumns))
}

// Rows returns the height of the current text mode.
func (v *State) Rows() uint8 {
	return v.bda.Byte(bda.ScreenRows) + 1
}

// ActivePage returns the currently displayed video page.
func (v *State) ActivePage() uint8 {
	return v.bda.Byte(bda.VideoPage)
}

// SetActivePage selects which page is displayed, moving the visible
// cursor to that page's stored position.
func (v *State) SetActivePage(page uint8) error {
	if page >= bda.MaxVideoPages {
		return ErrBadPage
	}

	v.bda.SetByte(bda.VideoPage, page)
	v.bda.SetWord(bda.VideoPageOffset, uint16(page)*v.bda.Word(bda.VideoPageSize))

	row, col := v.bda.CursorPosition(page)
	v.out.MoveCursor(row, col)
	return nil
}

// SetCursor stores the cursor position for the given page and, if
// that page is the active one, moves the visible cursor.
//
// Validation is all-or-nothing: a bad page or position makes no
// state change at all.
func (v *State) SetCursor(page uint8, row uint8, col uint8) error {
	if page >= bda.MaxVideoPages {
		return ErrBadPage
	}
	if row >= v.Rows() || col >= v.Columns() {
		return ErrBadPosition
	}

	v.bda.SetCursorPosition(page, row, col)
	if page == v.ActivePage() {
		v.out.MoveCursor(row, col)
	}
	return nil
}

// Cursor is a pure read of the stored cursor for the given page.
func (v *State) Cursor(page uint8) (row uint8, col uint8, err error) {
	if page >= bda.MaxVideoPages {
		return 0, 0, ErrBadPage
	}
	row, col = v.bda.CursorPosition(page)
	return row, col, nil
}

// SetCursorShape stores the cursor's start and end scan lines.
func (v *State) SetCursorShape(start uint8, end uint8) {
	v.bda.SetByte(bda.CursorStartLine, start)
	v.bda.SetByte(bda.CursorEndLine, end)
}

// CursorShape returns the cursor's start and end scan lines.
func (v *State) CursorShape() (start uint8, end uint8) {
	return v.bda.Byte(bda.CursorStartLine), v.bda.Byte(bda.CursorEndLine)
}

// WriteTeletype outputs one character at the active page's cursor,
// advancing it, honouring the control characters DOS relies upon.
func (v *State) WriteTeletype(c uint8) {

	page := v.ActivePage()
	row, col := v.bda.CursorPosition(page)

	switch c {
	case 0x07:
		// Bell - pass through, no cursor movement.
		v.out.PutCharacter(c)
	case 0x08:
		if col > 0 {
			col--
		}
		v.out.PutCharacter(c)
	case 0x0D:
		col = 0
		v.out.PutCharacter(c)
	case 0x0A:
		if row < v.Rows()-1 {
			row++
		}
		v.out.PutCharacter(c)
	default:
		v.out.PutCharacter(c)
		col++
		if col >= v.Columns() {
			col = 0
			if row < v.Rows()-1 {
				row++
			}
		}
	}

	v.bda.SetCursorPosition(page, row, col)
}

// WriteCharAtCursor outputs a character at the given page's stored
// cursor, repeated count times, without moving the stored cursor.
// The existing display attribute is left alone.
//
// Only the active page reaches the console; a background page keeps
// its stored cursor and produces no traffic.
func (v *State) WriteCharAtCursor(page uint8, c uint8, count uint16) error {
	if page >= bda.MaxVideoPages {
		return ErrBadPage
	}
	if page != v.ActivePage() {
		return nil
	}

	row, col := v.bda.CursorPosition(page)
	for i := uint16(0); i < count; i++ {
		v.out.PutCharacter(c)
	}
	v.out.MoveCursor(row, col)
	return nil
}

// WriteCharAttrAtCursor is WriteCharAtCursor with an explicit CGA
// attribute byte for the written cells.
func (v *State) WriteCharAttrAtCursor(page uint8, c uint8, attr uint8, count uint16) error {
	if page >= bda.MaxVideoPages {
		return ErrBadPage
	}
	if page != v.ActivePage() {
		return nil
	}

	row, col := v.bda.CursorPosition(page)
	for i := uint16(0); i < count; i++ {
		v.out.PutCharacterAttr(c, attr)
	}
	v.out.MoveCursor(row, col)
	return nil
}

// ClearScreen erases the display without touching the stored
// cursors.
func (v *State) ClearScreen() {
	v.out.ClearScreen()
}
