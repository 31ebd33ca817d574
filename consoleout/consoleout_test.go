package consoleout

import (
	"bytes"
	"sort"
	"testing"
)

// TestUnknownDriver confirms we can't lookup a driver which does
// not exist.
func TestUnknownDriver(t *testing.T) {

	_, err := New("this-does-not-exist")
	if err == nil {
		t.Fatalf("expected an error looking up a bogus driver")
	}
}

func TestDriverNames(t *testing.T) {

	for _, name := range []string{"ansi", "null", "logger"} {
		co, err := New(name)
		if err != nil {
			t.Fatalf("failed to create driver %s: %s", name, err)
		}
		if co.GetName() != name {
			t.Fatalf("driver %s reports the wrong name %s", name, co.GetName())
		}
	}

	// Lookups are case-insensitive.
	co, err := New("ANSI")
	if err != nil {
		t.Fatalf("case-insensitive lookup failed: %s", err)
	}
	if co.GetName() != "ansi" {
		t.Fatalf("wrong driver %s", co.GetName())
	}

	// The internal drivers are hidden from the listing.
	avail := co.GetDrivers()
	sort.Strings(avail)
	for _, name := range avail {
		if name == "null" || name == "logger" {
			t.Fatalf("internal driver %s should be hidden", name)
		}
	}
}

func TestAnsiOutput(t *testing.T) {

	co, err := New("ansi")
	if err != nil {
		t.Fatalf("failed to create driver: %s", err)
	}

	buf := &bytes.Buffer{}
	co.GetDriver().SetWriter(buf)

	co.WriteString("Hi")
	co.MoveCursor(4, 9)

	// Positions are converted to the terminal's one-based scheme.
	if buf.String() != "Hi\x1b[5;10H" {
		t.Fatalf("unexpected output %q", buf.String())
	}

	buf.Reset()
	co.ClearScreen()
	if buf.String() != "\x1b[2J" {
		t.Fatalf("unexpected output %q", buf.String())
	}

	buf.Reset()
	co.SetMode(80, 25)
	if buf.String() != "\x1b[2J\x1b[H" {
		t.Fatalf("unexpected output %q", buf.String())
	}

	// A CGA attribute becomes SGR colours: 0x1E is yellow on blue,
	// and CGA blue is ANSI colour 4.
	buf.Reset()
	co.PutCharacterAttr('X', 0x1E)
	if buf.String() != "\x1b[93;44mX\x1b[0m" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestLoggerRecords(t *testing.T) {

	co, err := New("logger")
	if err != nil {
		t.Fatalf("failed to create driver: %s", err)
	}

	rec, ok := co.GetDriver().(ConsoleRecorder)
	if !ok {
		t.Fatalf("logger driver is not a recorder")
	}

	co.PutCharacter('X')
	co.PutCharacterAttr('Y', 0x70)
	co.MoveCursor(1, 2)
	co.SetMode(40, 25)
	co.ClearScreen()

	if rec.GetOutput() != "X[attr 70]Y[move 1,2][mode 40x25][clear]" {
		t.Fatalf("unexpected history %q", rec.GetOutput())
	}

	rec.Reset()
	if rec.GetOutput() != "" {
		t.Fatalf("reset failed")
	}
}
