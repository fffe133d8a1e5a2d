package config

import (
	"reflect"
	"testing"
)

func TestEnumParserRoundTrip(t *testing.T) {
	p := EnumParser{Names: ExampleModeNames}
	slot := reflect.New(reflect.TypeOf(int(0))).Elem()
	if err := p.Read("POLL", slot); err != nil {
		t.Fatalf("Read(POLL) failed: %v", err)
	}
	if slot.Int() != 3 {
		t.Errorf("index = %d, want 3 (case-insensitive match)", slot.Int())
	}
	out, err := p.Write(slot)
	if err != nil || out != "poll" {
		t.Errorf("Write = (%q, %v), want (poll, nil)", out, err)
	}
}

func TestEnumParserUnknownName(t *testing.T) {
	p := EnumParser{Names: ExampleModeNames}
	slot := reflect.New(reflect.TypeOf(int(0))).Elem()
	if err := p.Read("nonsense", slot); err == nil {
		t.Error("expected an error for a name outside the enum vocabulary")
	}
}

func TestUIntEnumParserNameThenFallback(t *testing.T) {
	p := UIntEnumParser{Names: []string{"auto", "manual"}}
	slot := reflect.New(reflect.TypeOf(uint64(0))).Elem()

	if err := p.Read("manual", slot); err != nil {
		t.Fatalf("Read(manual) failed: %v", err)
	}
	if slot.Uint() != EnumIndexBase+1 {
		t.Errorf("Read(manual) = %d, want EnumIndexBase+1", slot.Uint())
	}
	out, _ := p.Write(slot)
	if out != "manual" {
		t.Errorf("Write = %q, want manual", out)
	}

	if err := p.Read("42", slot); err != nil {
		t.Fatalf("Read(42) failed: %v", err)
	}
	out, _ = p.Write(slot)
	if out != "42" {
		t.Errorf("Write after numeric fallback = %q, want 42", out)
	}
}

func TestBitmapParserOrsNames(t *testing.T) {
	p := NewBitmapParser([]string{"rd", "wr", "ex"})
	slot := reflect.New(reflect.TypeOf(uint64(0))).Elem()
	if err := p.Read("rd,ex", slot); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if slot.Uint() != 0b101 {
		t.Errorf("mask = %b, want 101", slot.Uint())
	}
	out, _ := p.Write(slot)
	if out != "rd,ex" {
		t.Errorf("Write = %q, want rd,ex", out)
	}
}

func TestNewBitmapParserPanicsPast64Names(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for more than 64 names")
		}
	}()
	names := make([]string, 65)
	for i := range names {
		names[i] = "n"
	}
	NewBitmapParser(names)
}

func TestBitmaskParser(t *testing.T) {
	slot := reflect.New(reflect.TypeOf(uint64(0))).Elem()
	if err := (BitmaskParser{}).Read("3", slot); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if slot.Uint() != 0b111 {
		t.Errorf("mask = %b, want 111", slot.Uint())
	}
	out, _ := (BitmaskParser{}).Write(slot)
	if out != "3" {
		t.Errorf("Write = %q, want 3", out)
	}
}

func TestSignalParserNameAndNumber(t *testing.T) {
	slot := reflect.New(reflect.TypeOf(int(0))).Elem()
	if err := (SignalParser{}).Read("SIGKILL", slot); err != nil {
		t.Fatalf("Read(SIGKILL) failed: %v", err)
	}
	out, _ := (SignalParser{}).Write(slot)
	if out != "SIGKILL" {
		t.Errorf("Write = %q, want SIGKILL", out)
	}

	if err := (SignalParser{}).Read("9", slot); err != nil {
		t.Fatalf("Read(9) failed: %v", err)
	}
	out, _ = (SignalParser{}).Write(slot)
	if out != "SIGKILL" {
		t.Errorf("Write after Read(9) = %q, want SIGKILL", out)
	}
}
