// Scan-code translation for console input.
//
// The console collaborator hands us plain characters; DOS-era
// software expects each keystroke to carry the set-1 "make" code of
// the key which produced it, so we map characters back to the scan
// code of their unshifted key.

package keyboard

// scanCodes maps the unshifted character of each key to its set-1
// make code.
var scanCodes = map[byte]uint8{
	0x1B: 0x01, // Escape
	'1':  0x02, '2': 0x03, '3': 0x04, '4': 0x05, '5': 0x06,
	'6': 0x07, '7': 0x08, '8': 0x09, '9': 0x0A, '0': 0x0B,
	'-': 0x0C, '=': 0x0D,
	0x08: 0x0E, // Backspace
	0x09: 0x0F, // Tab
	'q': 0x10, 'w': 0x11, 'e': 0x12, 'r': 0x13, 't': 0x14,
	'y': 0x15, 'u': 0x16, 'i': 0x17, 'o': 0x18, 'p': 0x19,
	'[': 0x1A, ']': 0x1B,
	0x0D: 0x1C, // Enter
	'a': 0x1E, 's': 0x1F, 'd': 0x20, 'f': 0x21, 'g': 0x22,
	'h': 0x23, 'j': 0x24, 'k': 0x25, 'l': 0x26,
	';': 0x27, '\'': 0x28, '`': 0x29, '\\': 0x2B,
	'z': 0x2C, 'x': 0x2D, 'c': 0x2E, 'v': 0x2F, 'b': 0x30,
	'n': 0x31, 'm': 0x32, ',': 0x33, '.': 0x34, '/': 0x35,
	' ': 0x39,
}

// shifted maps each shifted character to the unshifted character on
// the same key, so both resolve to one scan code.
var shifted = map[byte]byte{
	'!': '1', '@': '2', '#': '3', '$': '4', '%': '5',
	'^': '6', '&': '7', '*': '8', '(': '9', ')': '0',
	'_': '-', '+': '=', '{': '[', '}': ']', ':': ';',
	'"': '\'', '~': '`', '|': '\\', '<': ',', '>': '.',
	'?': '/',
}

// Translate converts a character received from the console into a
// keystroke event carrying the appropriate scan code.
//
// Characters with no matching key (control characters other than the
// ones on dedicated keys, bytes above 0x7F) get a zero scan code;
// they still carry their ASCII value so the guest sees the input.
func Translate(c byte) Event {

	key := c

	// Letters are stored unshifted in the table.
	if key >= 'A' && key <= 'Z' {
		key = key - 'A' + 'a'
	}

	// Control characters map to the underlying letter key,
	// Ctrl-A is the A key.
	if key < 0x20 && key != 0x1B && key != 0x0D && key != 0x09 && key != 0x08 {
		// Newline arrives from cooked input, treat as Enter.
		if key == 0x0A {
			return Event{Scan: scanCodes[0x0D], ASCII: 0x0D}
		}
		key = key - 1 + 'a'
	}

	if s, ok := shifted[key]; ok {
		key = s
	}

	return Event{Scan: scanCodes[key], ASCII: c}
}
