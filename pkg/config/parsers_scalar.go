package config

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-errors/errors"
)

// Sentinel values for the scalar parsers that need one beyond their
// natural range (spec.md §4.A). Grouped here rather than scattered
// per-parser since several of them (auto, inf) recur across types.
const (
	// UIntInf is the unsigned-integer sentinel for the literal "inf".
	UIntInf uint64 = math.MaxUint64

	// ULUnitsAuto and ULUnitsInf are the two sentinels the "unsigned
	// long units" parser recognises in addition to a decimal value.
	ULUnitsAuto uint64 = math.MaxUint64
	ULUnitsInf  uint64 = math.MaxUint64 - 1

	// HexUnitsAuto is returned for the literal "auto" by the Hex
	// parser.
	HexUnitsAuto uint64 = math.MaxUint64
)

// DoubleAuto is the sentinel a Double-family parser returns for the
// literal "auto". +Inf is never itself a valid parsed reading for any
// field using this sentinel (bandwidth and fractional settings are
// always finite), so it is distinguishable without a side flag.
var DoubleAuto = math.Inf(1)

func readFail(parser, text string) error {
	return errors.Errorf("%s: cannot parse %q", parser, text)
}

// --- String ---------------------------------------------------------

// StringParser stores text verbatim. Go's garbage collector owns the
// backing array, so Release and Clone need no manual allocation
// bookkeeping (see DESIGN.md's parser.go entry).
type StringParser struct{}

func (StringParser) SlotType() reflect.Type { return reflect.TypeOf("") }

func (StringParser) Read(text string, slot reflect.Value) error {
	slot.SetString(text)
	return nil
}

func (StringParser) Write(slot reflect.Value) (string, error) {
	return slot.String(), nil
}

func (StringParser) Clone(src, dst reflect.Value) error {
	dst.SetString(src.String())
	return nil
}

func (StringParser) Release(slot reflect.Value) {
	slot.SetString("")
}

func (StringParser) Help() string { return "<string>" }
func (StringParser) Doc() string  { return "" }

// --- Integer ----------------------------------------------------------

// IntParser handles a signed decimal integer.
type IntParser struct{}

func (IntParser) SlotType() reflect.Type { return reflect.TypeOf(int64(0)) }

func (IntParser) Read(text string, slot reflect.Value) error {
	v, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return readFail("int", text)
	}
	slot.SetInt(v)
	return nil
}

func (IntParser) Write(slot reflect.Value) (string, error) {
	return strconv.FormatInt(slot.Int(), 10), nil
}

func (IntParser) Clone(src, dst reflect.Value) error {
	dst.SetInt(src.Int())
	return nil
}

func (IntParser) Release(slot reflect.Value) { slot.SetInt(0) }
func (IntParser) Help() string                { return "<integer>" }
func (IntParser) Doc() string                 { return "" }

// UIntParser handles an unsigned decimal integer, plus the literal
// "inf" meaning UIntInf.
type UIntParser struct{}

func (UIntParser) SlotType() reflect.Type { return reflect.TypeOf(uint64(0)) }

func (UIntParser) Read(text string, slot reflect.Value) error {
	t := strings.TrimSpace(text)
	if t == "inf" {
		slot.SetUint(UIntInf)
		return nil
	}
	v, err := strconv.ParseUint(t, 10, 64)
	if err != nil {
		return readFail("uint", text)
	}
	slot.SetUint(v)
	return nil
}

func (UIntParser) Write(slot reflect.Value) (string, error) {
	if slot.Uint() == UIntInf {
		return "inf", nil
	}
	return strconv.FormatUint(slot.Uint(), 10), nil
}

func (UIntParser) Clone(src, dst reflect.Value) error {
	dst.SetUint(src.Uint())
	return nil
}

func (UIntParser) Release(slot reflect.Value) { slot.SetUint(0) }
func (UIntParser) Help() string                { return "<unsigned integer> | \"inf\"" }
func (UIntParser) Doc() string                 { return "" }

// ULUnitsParser handles the "unsigned long units" family: decimal,
// "auto", or "inf".
type ULUnitsParser struct{}

func (ULUnitsParser) SlotType() reflect.Type { return reflect.TypeOf(uint64(0)) }

func (ULUnitsParser) Read(text string, slot reflect.Value) error {
	switch strings.TrimSpace(text) {
	case "auto":
		slot.SetUint(ULUnitsAuto)
		return nil
	case "inf":
		slot.SetUint(ULUnitsInf)
		return nil
	}
	v, err := strconv.ParseUint(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return readFail("ul_units", text)
	}
	slot.SetUint(v)
	return nil
}

func (ULUnitsParser) Write(slot reflect.Value) (string, error) {
	switch slot.Uint() {
	case ULUnitsAuto:
		return "auto", nil
	case ULUnitsInf:
		return "inf", nil
	}
	return strconv.FormatUint(slot.Uint(), 10), nil
}

func (ULUnitsParser) Clone(src, dst reflect.Value) error {
	dst.SetUint(src.Uint())
	return nil
}

func (ULUnitsParser) Release(slot reflect.Value) { slot.SetUint(0) }
func (ULUnitsParser) Help() string                { return "<unsigned long> | \"auto\" | \"inf\"" }
func (ULUnitsParser) Doc() string                 { return "" }

// --- Double -------------------------------------------------------

// DoubleParser handles a floating point value printed with three
// decimal digits.
type DoubleParser struct{}

func (DoubleParser) SlotType() reflect.Type { return reflect.TypeOf(float64(0)) }

func (DoubleParser) Read(text string, slot reflect.Value) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return readFail("double", text)
	}
	slot.SetFloat(v)
	return nil
}

func (DoubleParser) Write(slot reflect.Value) (string, error) {
	return strconv.FormatFloat(slot.Float(), 'f', 3, 64), nil
}

func (DoubleParser) Clone(src, dst reflect.Value) error {
	dst.SetFloat(src.Float())
	return nil
}

func (DoubleParser) Release(slot reflect.Value) { slot.SetFloat(0) }
func (DoubleParser) Help() string                { return "<float>" }
func (DoubleParser) Doc() string                 { return "" }

// PositiveDoubleParser is DoubleParser restricted to values > 0, plus
// the literal "auto" meaning DoubleAuto.
type PositiveDoubleParser struct{}

func (PositiveDoubleParser) SlotType() reflect.Type { return reflect.TypeOf(float64(0)) }

func (PositiveDoubleParser) Read(text string, slot reflect.Value) error {
	t := strings.TrimSpace(text)
	if t == "auto" {
		slot.SetFloat(DoubleAuto)
		return nil
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil || v <= 0 {
		return readFail("positive_double", text)
	}
	slot.SetFloat(v)
	return nil
}

func (PositiveDoubleParser) Write(slot reflect.Value) (string, error) {
	if slot.Float() == DoubleAuto {
		return "auto", nil
	}
	return strconv.FormatFloat(slot.Float(), 'f', 3, 64), nil
}

func (PositiveDoubleParser) Clone(src, dst reflect.Value) error {
	dst.SetFloat(src.Float())
	return nil
}

func (PositiveDoubleParser) Release(slot reflect.Value) { slot.SetFloat(0) }
func (PositiveDoubleParser) Help() string                { return "<float > 0> | \"auto\"" }
func (PositiveDoubleParser) Doc() string                 { return "" }

// --- Hex ------------------------------------------------------------

// HexParser requires a "0x" prefix, or the literal "auto".
type HexParser struct{}

func (HexParser) SlotType() reflect.Type { return reflect.TypeOf(uint64(0)) }

func (HexParser) Read(text string, slot reflect.Value) error {
	t := strings.TrimSpace(text)
	if t == "auto" {
		slot.SetUint(HexUnitsAuto)
		return nil
	}
	if !strings.HasPrefix(t, "0x") && !strings.HasPrefix(t, "0X") {
		return readFail("hex", text)
	}
	v, err := strconv.ParseUint(t[2:], 16, 64)
	if err != nil {
		return readFail("hex", text)
	}
	slot.SetUint(v)
	return nil
}

func (HexParser) Write(slot reflect.Value) (string, error) {
	if slot.Uint() == HexUnitsAuto {
		return "auto", nil
	}
	return "0x" + strconv.FormatUint(slot.Uint(), 16), nil
}

func (HexParser) Clone(src, dst reflect.Value) error {
	dst.SetUint(src.Uint())
	return nil
}

func (HexParser) Release(slot reflect.Value) { slot.SetUint(0) }
func (HexParser) Help() string                { return "<0xHEX> | \"auto\"" }
func (HexParser) Doc() string                 { return "" }

// --- Bool / Ternary / OnOffAuto -------------------------------------

// BoolParser accepts the fixed yes/no vocabulary of spec.md §4.A.
type BoolParser struct{}

func (BoolParser) SlotType() reflect.Type { return reflect.TypeOf(false) }

func (BoolParser) Read(text string, slot reflect.Value) error {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "y", "yes", "on", "1":
		slot.SetBool(true)
		return nil
	case "n", "no", "off", "0":
		slot.SetBool(false)
		return nil
	}
	return readFail("bool", text)
}

func (BoolParser) Write(slot reflect.Value) (string, error) {
	if slot.Bool() {
		return "yes", nil
	}
	return "no", nil
}

func (BoolParser) Clone(src, dst reflect.Value) error {
	dst.SetBool(src.Bool())
	return nil
}

func (BoolParser) Release(slot reflect.Value) { slot.SetBool(false) }
func (BoolParser) Help() string                { return "<y|n>" }
func (BoolParser) Doc() string                 { return "" }

// Ternary is bool plus a "try it and see" middle value.
type Ternary int

const (
	TernaryNo Ternary = iota
	TernaryYes
	TernaryTry
)

func (t Ternary) String() string {
	switch t {
	case TernaryYes:
		return "yes"
	case TernaryTry:
		return "try"
	default:
		return "no"
	}
}

// TernaryParser handles Ternary, without the further "auto" value
// TernaryAutoParser adds.
type TernaryParser struct{}

func (TernaryParser) SlotType() reflect.Type { return reflect.TypeOf(TernaryNo) }

func (TernaryParser) Read(text string, slot reflect.Value) error {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "y", "yes", "on", "1":
		slot.SetInt(int64(TernaryYes))
	case "n", "no", "off", "0":
		slot.SetInt(int64(TernaryNo))
	case "try", "maybe":
		slot.SetInt(int64(TernaryTry))
	default:
		return readFail("ternary", text)
	}
	return nil
}

func (TernaryParser) Write(slot reflect.Value) (string, error) {
	return Ternary(slot.Int()).String(), nil
}

func (TernaryParser) Clone(src, dst reflect.Value) error {
	dst.SetInt(src.Int())
	return nil
}

func (TernaryParser) Release(slot reflect.Value) { slot.SetInt(int64(TernaryNo)) }
func (TernaryParser) Help() string                { return "<y|n|try>" }
func (TernaryParser) Doc() string                 { return "" }

// TernaryAuto extends Ternary with a fourth value.
type TernaryAuto int

const (
	TernaryAutoNo TernaryAuto = iota
	TernaryAutoYes
	TernaryAutoTry
	TernaryAutoAuto
)

func (t TernaryAuto) String() string {
	switch t {
	case TernaryAutoYes:
		return "yes"
	case TernaryAutoTry:
		return "try"
	case TernaryAutoAuto:
		return "auto"
	default:
		return "no"
	}
}

// TernaryAutoParser handles TernaryAuto.
type TernaryAutoParser struct{}

func (TernaryAutoParser) SlotType() reflect.Type { return reflect.TypeOf(TernaryAutoNo) }

func (TernaryAutoParser) Read(text string, slot reflect.Value) error {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "y", "yes", "on", "1":
		slot.SetInt(int64(TernaryAutoYes))
	case "n", "no", "off", "0":
		slot.SetInt(int64(TernaryAutoNo))
	case "try", "maybe":
		slot.SetInt(int64(TernaryAutoTry))
	case "auto":
		slot.SetInt(int64(TernaryAutoAuto))
	default:
		return readFail("ternary_auto", text)
	}
	return nil
}

func (TernaryAutoParser) Write(slot reflect.Value) (string, error) {
	return TernaryAuto(slot.Int()).String(), nil
}

func (TernaryAutoParser) Clone(src, dst reflect.Value) error {
	dst.SetInt(src.Int())
	return nil
}

func (TernaryAutoParser) Release(slot reflect.Value) { slot.SetInt(int64(TernaryAutoNo)) }
func (TernaryAutoParser) Help() string                { return "<y|n|try|auto>" }
func (TernaryAutoParser) Doc() string                 { return "" }

// OnOffAuto is a tri-state independent of Ternary's vocabulary choice
// (spec.md §4.A keeps it as its own parser, not Ternary-auto reused).
type OnOffAuto int

const (
	OnOffAutoOff OnOffAuto = iota
	OnOffAutoOn
	OnOffAutoAuto
)

func (v OnOffAuto) String() string {
	switch v {
	case OnOffAutoOn:
		return "on"
	case OnOffAutoAuto:
		return "auto"
	default:
		return "off"
	}
}

// OnOffAutoParser handles OnOffAuto.
type OnOffAutoParser struct{}

func (OnOffAutoParser) SlotType() reflect.Type { return reflect.TypeOf(OnOffAutoOff) }

func (OnOffAutoParser) Read(text string, slot reflect.Value) error {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "on", "1", "yes", "y":
		slot.SetInt(int64(OnOffAutoOn))
	case "off", "0", "no", "n":
		slot.SetInt(int64(OnOffAutoOff))
	case "try", "maybe", "auto":
		slot.SetInt(int64(OnOffAutoAuto))
	default:
		return readFail("on_off_auto", text)
	}
	return nil
}

func (OnOffAutoParser) Write(slot reflect.Value) (string, error) {
	return OnOffAuto(slot.Int()).String(), nil
}

func (OnOffAutoParser) Clone(src, dst reflect.Value) error {
	dst.SetInt(src.Int())
	return nil
}

func (OnOffAutoParser) Release(slot reflect.Value) { slot.SetInt(int64(OnOffAutoOff)) }
func (OnOffAutoParser) Help() string                { return "<on|off|try|auto>" }
func (OnOffAutoParser) Doc() string                 { return "" }
