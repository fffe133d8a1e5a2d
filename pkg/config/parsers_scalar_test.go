package config

import (
	"reflect"
	"testing"
)

func readWrite(t *testing.T, p Parser, zero interface{}, text string) string {
	t.Helper()
	slot := reflect.New(reflect.TypeOf(zero)).Elem()
	if err := p.Read(text, slot); err != nil {
		t.Fatalf("Read(%q) failed: %v", text, err)
	}
	out, err := p.Write(slot)
	if err != nil {
		t.Fatalf("Write after Read(%q) failed: %v", text, err)
	}
	return out
}

func TestStringParserRoundTrip(t *testing.T) {
	if got := readWrite(t, StringParser{}, "", "hello world"); got != "hello world" {
		t.Errorf("got %q, want %q", got, "hello world")
	}
}

func TestIntParser(t *testing.T) {
	if got := readWrite(t, IntParser{}, int64(0), "-42"); got != "-42" {
		t.Errorf("got %q, want -42", got)
	}
	slot := reflect.New(reflect.TypeOf(int64(0))).Elem()
	if err := (IntParser{}).Read("not-a-number", slot); err == nil {
		t.Error("expected an error parsing a non-numeric int")
	}
}

func TestUIntParserInfSentinel(t *testing.T) {
	slot := reflect.New(reflect.TypeOf(uint64(0))).Elem()
	if err := (UIntParser{}).Read("inf", slot); err != nil {
		t.Fatalf("Read(inf) failed: %v", err)
	}
	if slot.Uint() != UIntInf {
		t.Errorf("Read(inf) = %d, want UIntInf", slot.Uint())
	}
	out, _ := UIntParser{}.Write(slot)
	if out != "inf" {
		t.Errorf("Write(UIntInf) = %q, want inf", out)
	}
}

func TestULUnitsParserAutoAndInf(t *testing.T) {
	if got := readWrite(t, ULUnitsParser{}, uint64(0), "auto"); got != "auto" {
		t.Errorf("got %q, want auto", got)
	}
	if got := readWrite(t, ULUnitsParser{}, uint64(0), "inf"); got != "inf" {
		t.Errorf("got %q, want inf", got)
	}
	if got := readWrite(t, ULUnitsParser{}, uint64(0), "7"); got != "7" {
		t.Errorf("got %q, want 7", got)
	}
}

func TestDoubleParserFormatsThreeDecimals(t *testing.T) {
	if got := readWrite(t, DoubleParser{}, float64(0), "1.5"); got != "1.500" {
		t.Errorf("got %q, want 1.500", got)
	}
}

func TestPositiveDoubleParserRejectsNonPositive(t *testing.T) {
	slot := reflect.New(reflect.TypeOf(float64(0))).Elem()
	if err := (PositiveDoubleParser{}).Read("0", slot); err == nil {
		t.Error("expected an error for a non-positive value")
	}
	if err := (PositiveDoubleParser{}).Read("-1", slot); err == nil {
		t.Error("expected an error for a negative value")
	}
	if got := readWrite(t, PositiveDoubleParser{}, float64(0), "auto"); got != "auto" {
		t.Errorf("got %q, want auto", got)
	}
}

func TestHexParserRequiresPrefix(t *testing.T) {
	slot := reflect.New(reflect.TypeOf(uint64(0))).Elem()
	if err := (HexParser{}).Read("ff", slot); err == nil {
		t.Error("expected an error for a hex literal missing its 0x prefix")
	}
	if got := readWrite(t, HexParser{}, uint64(0), "0xFF"); got != "0xff" {
		t.Errorf("got %q, want 0xff", got)
	}
	if got := readWrite(t, HexParser{}, uint64(0), "auto"); got != "auto" {
		t.Errorf("got %q, want auto", got)
	}
}

func TestBoolParserVocabulary(t *testing.T) {
	for _, text := range []string{"y", "yes", "on", "1"} {
		if got := readWrite(t, BoolParser{}, false, text); got != "yes" {
			t.Errorf("Read(%q) -> Write = %q, want yes", text, got)
		}
	}
	for _, text := range []string{"n", "no", "off", "0"} {
		if got := readWrite(t, BoolParser{}, false, text); got != "no" {
			t.Errorf("Read(%q) -> Write = %q, want no", text, got)
		}
	}
	slot := reflect.New(reflect.TypeOf(false)).Elem()
	if err := (BoolParser{}).Read("maybe", slot); err == nil {
		t.Error("expected an error for an unrecognised bool spelling")
	}
}

func TestTernaryParserAddsTry(t *testing.T) {
	if got := readWrite(t, TernaryParser{}, TernaryNo, "try"); got != "try" {
		t.Errorf("got %q, want try", got)
	}
}

func TestTernaryAutoParserAddsAuto(t *testing.T) {
	if got := readWrite(t, TernaryAutoParser{}, TernaryAutoNo, "auto"); got != "auto" {
		t.Errorf("got %q, want auto", got)
	}
}

func TestOnOffAutoParser(t *testing.T) {
	if got := readWrite(t, OnOffAutoParser{}, OnOffAutoOff, "try"); got != "auto" {
		t.Errorf("Read(try) -> Write = %q, want auto", got)
	}
}
