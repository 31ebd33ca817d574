package cpu

import "testing"

func TestHalfRegisters(t *testing.T) {

	r := Registers{}

	r.AX = 0x1234
	if r.AH() != 0x12 || r.AL() != 0x34 {
		t.Fatalf("AH/AL wrong")
	}

	r.SetAH(0xAB)
	r.SetAL(0xCD)
	if r.AX != 0xABCD {
		t.Fatalf("SetAH/SetAL wrong: %04X", r.AX)
	}

	r.SetBH(0x01)
	r.SetBL(0x02)
	r.SetCH(0x03)
	r.SetCL(0x04)
	r.SetDH(0x05)
	r.SetDL(0x06)

	if r.BH() != 0x01 || r.BL() != 0x02 {
		t.Fatalf("BX accessors wrong")
	}
	if r.CH() != 0x03 || r.CL() != 0x04 {
		t.Fatalf("CX accessors wrong")
	}
	if r.DH() != 0x05 || r.DL() != 0x06 {
		t.Fatalf("DX accessors wrong")
	}
}

func TestFlags(t *testing.T) {

	r := Registers{}

	if r.Carry() {
		t.Fatalf("carry should start clear")
	}

	r.SetCarry(true)
	if !r.Carry() {
		t.Fatalf("carry should be set")
	}
	r.SetZero(true)
	r.SetCarry(false)
	if r.Carry() {
		t.Fatalf("carry should be clear")
	}
	if !r.Zero() {
		t.Fatalf("clearing carry should not touch zero")
	}
	r.SetZero(false)
	if r.Zero() {
		t.Fatalf("zero should be clear")
	}
}

func TestLinear(t *testing.T) {

	if Linear(0x0040, 0x0000) != 0x400 {
		t.Fatalf("linear address wrong")
	}
	if Linear(0xF000, 0xFFF0) != 0xFFFF0 {
		t.Fatalf("linear address wrong")
	}
}
