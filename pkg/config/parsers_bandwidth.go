package config

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-errors/errors"

	"github.com/openucx/ucxconf/pkg/utils"
)

var bandwidthPattern = regexp.MustCompile(`^([0-9.]+)([kKmMgGtT]?)([Bb])(ps|/s|s)$`)

var siDecimalMultiplier = map[string]float64{
	"":  1,
	"k": 1e3, "K": 1e3,
	"m": 1e6, "M": 1e6,
	"g": 1e9, "G": 1e9,
	"t": 1e12, "T": 1e12,
}

// parseBandwidthValue implements spec.md §4.A's
// "<number><SI-prefix><B|b><ps|/s|s>" grammar: B means bytes, b means
// bits (divided by 8 to normalise to bytes/s).
func parseBandwidthValue(text string) (float64, error) {
	m := bandwidthPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, errors.Errorf("bandwidth: cannot parse %q", text)
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, err
	}
	v := n * siDecimalMultiplier[m[2]]
	if m[3] == "b" {
		v /= 8
	}
	return v, nil
}

// BandwidthParser parses a bytes-per-second rate, or "auto".
type BandwidthParser struct{}

func (BandwidthParser) SlotType() reflect.Type { return reflect.TypeOf(float64(0)) }

func (BandwidthParser) Read(text string, slot reflect.Value) error {
	if strings.TrimSpace(text) == "auto" {
		slot.SetFloat(DoubleAuto)
		return nil
	}
	v, err := parseBandwidthValue(text)
	if err != nil {
		return err
	}
	slot.SetFloat(v)
	return nil
}

func (BandwidthParser) Write(slot reflect.Value) (string, error) {
	if slot.Float() == DoubleAuto {
		return "auto", nil
	}
	return utils.FormatDecimalBytes(int64(slot.Float())) + "ps", nil
}

func (BandwidthParser) Clone(src, dst reflect.Value) error {
	dst.SetFloat(src.Float())
	return nil
}

func (BandwidthParser) Release(slot reflect.Value) { slot.SetFloat(0) }
func (BandwidthParser) Help() string                { return "<number><[K|M|G|T]><B|b><ps|/s|s> | \"auto\"" }
func (BandwidthParser) Doc() string                 { return "" }

// BandwidthSpec pairs a device name with a bandwidth value, e.g.
// "mlx5_0:10GBps".
type BandwidthSpec struct {
	Device    string
	Bandwidth float64
}

// BandwidthSpecParser parses "<device-name>:<bw>".
type BandwidthSpecParser struct{}

func (BandwidthSpecParser) SlotType() reflect.Type { return reflect.TypeOf(BandwidthSpec{}) }

func (BandwidthSpecParser) Read(text string, slot reflect.Value) error {
	idx := strings.LastIndex(text, ":")
	if idx < 0 {
		return errors.Errorf("bandwidth_spec: %q is missing a ':'", text)
	}
	device, bwText := text[:idx], text[idx+1:]
	var bw float64
	if strings.TrimSpace(bwText) == "auto" {
		bw = DoubleAuto
	} else {
		var err error
		bw, err = parseBandwidthValue(bwText)
		if err != nil {
			return err
		}
	}
	slot.Set(reflect.ValueOf(BandwidthSpec{Device: device, Bandwidth: bw}))
	return nil
}

func (BandwidthSpecParser) Write(slot reflect.Value) (string, error) {
	spec := slot.Interface().(BandwidthSpec)
	if spec.Bandwidth == DoubleAuto {
		return spec.Device + ":auto", nil
	}
	return spec.Device + ":" + utils.FormatDecimalBytes(int64(spec.Bandwidth)) + "ps", nil
}

func (BandwidthSpecParser) Clone(src, dst reflect.Value) error {
	dst.Set(reflect.ValueOf(src.Interface().(BandwidthSpec)))
	return nil
}

func (BandwidthSpecParser) Release(slot reflect.Value) {
	slot.Set(reflect.ValueOf(BandwidthSpec{}))
}
func (BandwidthSpecParser) Help() string { return "<device-name>:<bandwidth>" }
func (BandwidthSpecParser) Doc() string  { return "" }

// RangeSpec is a closed integer range, "<first>[-<last>]".
type RangeSpec struct {
	First, Last int
}

// RangeSpecParser parses RangeSpec.
type RangeSpecParser struct{}

func (RangeSpecParser) SlotType() reflect.Type { return reflect.TypeOf(RangeSpec{}) }

func (RangeSpecParser) Read(text string, slot reflect.Value) error {
	t := strings.TrimSpace(text)
	if idx := strings.Index(t, "-"); idx > 0 {
		first, err1 := strconv.Atoi(t[:idx])
		last, err2 := strconv.Atoi(t[idx+1:])
		if err1 != nil || err2 != nil {
			return errors.Errorf("range_spec: cannot parse %q", text)
		}
		slot.Set(reflect.ValueOf(RangeSpec{First: first, Last: last}))
		return nil
	}
	v, err := strconv.Atoi(t)
	if err != nil {
		return errors.Errorf("range_spec: cannot parse %q", text)
	}
	slot.Set(reflect.ValueOf(RangeSpec{First: v, Last: v}))
	return nil
}

func (RangeSpecParser) Write(slot reflect.Value) (string, error) {
	r := slot.Interface().(RangeSpec)
	if r.First == r.Last {
		return strconv.Itoa(r.First), nil
	}
	return strconv.Itoa(r.First) + "-" + strconv.Itoa(r.Last), nil
}

func (RangeSpecParser) Clone(src, dst reflect.Value) error {
	dst.Set(reflect.ValueOf(src.Interface().(RangeSpec)))
	return nil
}

func (RangeSpecParser) Release(slot reflect.Value) {
	slot.Set(reflect.ValueOf(RangeSpec{}))
}
func (RangeSpecParser) Help() string { return "<first>[-<last>]" }
func (RangeSpecParser) Doc() string  { return "" }

// Sentinels for MemUnitsParser, analogous to ULUnitsParser's.
const (
	MemUnitsAuto uint64 = UIntInf
	MemUnitsInf  uint64 = UIntInf - 1
)

// memUnitMultiplier's keys cover both the input grammar's uppercase
// prefixes and utils.FormatBinaryBytes' own casing ("kiB" with a
// lowercase k, "MiB"/"GiB"/"TiB" uppercase) so that write(read(x)) and
// read(write(x)) both round-trip.
var memUnitMultiplier = map[string]float64{
	"":    1,
	"B":   1,
	"KiB": 1 << 10, "K": 1 << 10, "kiB": 1 << 10,
	"MiB": 1 << 20, "M": 1 << 20,
	"GiB": 1 << 30, "G": 1 << 30,
	"TiB": 1 << 40, "T": 1 << 40,
}

var memUnitsPattern = regexp.MustCompile(`^([0-9.]+)(B|KiB|kiB|K|MiB|M|GiB|G|TiB|T)?$`)

// MemUnitsParser delegates to utils' binary byte-count helper for its
// canonical form (spec.md §4.A: "delegated to a shared string<->bytes
// helper"), and shares ULUnitsParser's auto/inf sentinel vocabulary.
type MemUnitsParser struct{}

func (MemUnitsParser) SlotType() reflect.Type { return reflect.TypeOf(uint64(0)) }

func (MemUnitsParser) Read(text string, slot reflect.Value) error {
	t := strings.TrimSpace(text)
	switch t {
	case "auto":
		slot.SetUint(MemUnitsAuto)
		return nil
	case "inf":
		slot.SetUint(MemUnitsInf)
		return nil
	}
	m := memUnitsPattern.FindStringSubmatch(t)
	if m == nil {
		return errors.Errorf("mem_units: cannot parse %q", text)
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return err
	}
	slot.SetUint(uint64(n * memUnitMultiplier[m[2]]))
	return nil
}

func (MemUnitsParser) Write(slot reflect.Value) (string, error) {
	switch slot.Uint() {
	case MemUnitsAuto:
		return "auto", nil
	case MemUnitsInf:
		return "inf", nil
	}
	return utils.FormatBinaryBytes(int64(slot.Uint())), nil
}

func (MemUnitsParser) Clone(src, dst reflect.Value) error {
	dst.SetUint(src.Uint())
	return nil
}

func (MemUnitsParser) Release(slot reflect.Value) { slot.SetUint(0) }
func (MemUnitsParser) Help() string                { return "<number>[B|K|M|G|T] | \"auto\" | \"inf\"" }
func (MemUnitsParser) Doc() string                 { return "" }
