package config

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-errors/errors"
)

// EnumIndexBase offsets UIntEnumParser's matched indexes away from the
// plain decimal range, the Go analogue of spec.md §4.A's
// "ENUM_INDEX(i) = SOME_LARGE_BASE + i".
const EnumIndexBase uint64 = 1 << 32

// EnumParser performs a linear search of Names and stores the index.
type EnumParser struct {
	Names []string
}

func (EnumParser) SlotType() reflect.Type { return reflect.TypeOf(int(0)) }

func (p EnumParser) Read(text string, slot reflect.Value) error {
	t := strings.TrimSpace(text)
	for i, name := range p.Names {
		if strings.EqualFold(name, t) {
			slot.SetInt(int64(i))
			return nil
		}
	}
	return errors.Errorf("enum: %q is not one of %s", text, p.Help())
}

func (p EnumParser) Write(slot reflect.Value) (string, error) {
	i := int(slot.Int())
	if i < 0 || i >= len(p.Names) {
		return "", errors.Errorf("enum: index %d out of range", i)
	}
	return p.Names[i], nil
}

func (EnumParser) Clone(src, dst reflect.Value) error {
	dst.SetInt(src.Int())
	return nil
}

func (EnumParser) Release(slot reflect.Value) { slot.SetInt(0) }

func (p EnumParser) Help() string {
	return "[" + strings.Join(p.Names, "|") + "]"
}

func (EnumParser) Doc() string { return "" }

// UIntEnumParser matches Names first; on no match it falls back to
// plain decimal. Matched values are offset by EnumIndexBase so a
// caller can always tell a name-match apart from a literal number,
// even when the number happens to equal a name's position.
type UIntEnumParser struct {
	Names []string
}

func (UIntEnumParser) SlotType() reflect.Type { return reflect.TypeOf(uint64(0)) }

func (p UIntEnumParser) Read(text string, slot reflect.Value) error {
	t := strings.TrimSpace(text)
	for i, name := range p.Names {
		if strings.EqualFold(name, t) {
			slot.SetUint(EnumIndexBase + uint64(i))
			return nil
		}
	}
	v, err := strconv.ParseUint(t, 10, 64)
	if err != nil {
		return errors.Errorf("uint_enum: %q is not one of %s and not an integer", text, p.Help())
	}
	slot.SetUint(v)
	return nil
}

func (p UIntEnumParser) Write(slot reflect.Value) (string, error) {
	v := slot.Uint()
	if v >= EnumIndexBase {
		i := int(v - EnumIndexBase)
		if i < 0 || i >= len(p.Names) {
			return "", errors.Errorf("uint_enum: index %d out of range", i)
		}
		return p.Names[i], nil
	}
	return strconv.FormatUint(v, 10), nil
}

func (UIntEnumParser) Clone(src, dst reflect.Value) error {
	dst.SetUint(src.Uint())
	return nil
}

func (UIntEnumParser) Release(slot reflect.Value) { slot.SetUint(0) }

func (p UIntEnumParser) Help() string {
	return "[" + strings.Join(p.Names, "|") + "] | <integer>"
}

func (UIntEnumParser) Doc() string { return "" }

// BitmapParser ORs together 1<<index for every comma-separated name
// present in the input.
type BitmapParser struct {
	Names []string
}

// NewBitmapParser validates at construction time that every name fits
// in a 64-bit mask, matching spec.md §4.A's "overflow is an assertion
// violation of the declaration" — a programmer error caught early
// rather than at parse time.
func NewBitmapParser(names []string) *BitmapParser {
	if len(names) > 64 {
		panic("config: bitmap declares more than 64 names")
	}
	return &BitmapParser{Names: names}
}

func (BitmapParser) SlotType() reflect.Type { return reflect.TypeOf(uint64(0)) }

func (p *BitmapParser) Read(text string, slot reflect.Value) error {
	var mask uint64
	for _, tok := range strings.Split(text, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		found := false
		for i, name := range p.Names {
			if strings.EqualFold(name, tok) {
				mask |= 1 << uint(i)
				found = true
				break
			}
		}
		if !found {
			return errors.Errorf("bitmap: %q is not one of %s", tok, strings.Join(p.Names, "|"))
		}
	}
	slot.SetUint(mask)
	return nil
}

func (p *BitmapParser) Write(slot reflect.Value) (string, error) {
	mask := slot.Uint()
	var names []string
	for i, name := range p.Names {
		if mask&(1<<uint(i)) != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, ","), nil
}

func (*BitmapParser) Clone(src, dst reflect.Value) error {
	dst.SetUint(src.Uint())
	return nil
}

func (*BitmapParser) Release(slot reflect.Value) { slot.SetUint(0) }

func (p *BitmapParser) Help() string {
	return "<" + strings.Join(p.Names, "|") + "[,...]>"
}

func (*BitmapParser) Doc() string { return "" }

// BitmaskParser turns an integer N into the low-N-bits mask.
type BitmaskParser struct{}

func (BitmaskParser) SlotType() reflect.Type { return reflect.TypeOf(uint64(0)) }

func (BitmaskParser) Read(text string, slot reflect.Value) error {
	n, err := strconv.ParseUint(strings.TrimSpace(text), 10, 8)
	if err != nil {
		return readFail("bitmask", text)
	}
	if n == 0 {
		slot.SetUint(0)
		return nil
	}
	slot.SetUint((uint64(1) << n) - 1)
	return nil
}

func (BitmaskParser) Write(slot reflect.Value) (string, error) {
	mask := slot.Uint()
	n := 0
	for mask != 0 {
		n++
		mask >>= 1
	}
	return strconv.Itoa(n), nil
}

func (BitmaskParser) Clone(src, dst reflect.Value) error {
	dst.SetUint(src.Uint())
	return nil
}

func (BitmaskParser) Release(slot reflect.Value) { slot.SetUint(0) }
func (BitmaskParser) Help() string                { return "<number of bits>" }
func (BitmaskParser) Doc() string                 { return "" }

// signalNames is the small table of POSIX signal names SignalParser
// recognises, with an optional "SIG" prefix (spec.md §4.A).
var signalNames = []string{
	"HUP", "INT", "QUIT", "ILL", "TRAP", "ABRT", "BUS", "FPE", "KILL",
	"USR1", "SEGV", "USR2", "PIPE", "ALRM", "TERM", "CHLD", "CONT",
	"STOP", "TSTP", "TTIN", "TTOU",
}

// SignalParser accepts a decimal signal number, or a name (with or
// without a "SIG" prefix) from signalNames.
type SignalParser struct{}

func (SignalParser) SlotType() reflect.Type { return reflect.TypeOf(int(0)) }

func (SignalParser) Read(text string, slot reflect.Value) error {
	t := strings.TrimSpace(text)
	if n, err := strconv.Atoi(t); err == nil {
		slot.SetInt(int64(n))
		return nil
	}
	name := strings.ToUpper(strings.TrimPrefix(strings.ToUpper(t), "SIG"))
	for i, n := range signalNames {
		if n == name {
			slot.SetInt(int64(i + 1))
			return nil
		}
	}
	return errors.Errorf("signal: %q is not a recognised signal", text)
}

func (SignalParser) Write(slot reflect.Value) (string, error) {
	n := int(slot.Int())
	if n >= 1 && n <= len(signalNames) {
		return "SIG" + signalNames[n-1], nil
	}
	return strconv.Itoa(n), nil
}

func (SignalParser) Clone(src, dst reflect.Value) error {
	dst.SetInt(src.Int())
	return nil
}

func (SignalParser) Release(slot reflect.Value) { slot.SetInt(0) }
func (SignalParser) Help() string                { return "<signal number> | <SIG name>" }
func (SignalParser) Doc() string                 { return "" }
