package config

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-errors/errors"
)

// timeUnitSeconds maps each recognised suffix to its value in seconds.
var timeUnitSeconds = map[string]float64{
	"":   1,
	"s":  1,
	"m":  60,
	"ms": 1e-3,
	"us": 1e-6,
	"ns": 1e-9,
}

// parseTimeValue splits text into a numeric part and a unit suffix and
// returns the value converted to seconds.
func parseTimeValue(text string) (float64, error) {
	t := strings.TrimSpace(text)
	unit := ""
	for _, suffix := range []string{"ms", "us", "ns", "m", "s"} {
		if strings.HasSuffix(t, suffix) {
			unit = suffix
			t = strings.TrimSuffix(t, suffix)
			break
		}
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
	if err != nil {
		return 0, err
	}
	return n * timeUnitSeconds[unit], nil
}

// formatTimeValue renders seconds back as microseconds with a "us"
// suffix, the canonical form spec.md §4.A fixes for the Time parser.
func formatTimeValue(seconds float64) string {
	return strconv.FormatFloat(seconds*1e6, 'f', -1, 64) + "us"
}

// TimeParser parses "<number>[<unit>]" with unit in {m,s,ms,us,ns},
// defaulting to seconds when no unit is given.
type TimeParser struct{}

func (TimeParser) SlotType() reflect.Type { return reflect.TypeOf(float64(0)) }

func (TimeParser) Read(text string, slot reflect.Value) error {
	v, err := parseTimeValue(text)
	if err != nil {
		return errors.Errorf("time: cannot parse %q", text)
	}
	slot.SetFloat(v)
	return nil
}

func (TimeParser) Write(slot reflect.Value) (string, error) {
	return formatTimeValue(slot.Float()), nil
}

func (TimeParser) Clone(src, dst reflect.Value) error {
	dst.SetFloat(src.Float())
	return nil
}

func (TimeParser) Release(slot reflect.Value) { slot.SetFloat(0) }
func (TimeParser) Help() string                { return "<number>[m|s|ms|us|ns]" }
func (TimeParser) Doc() string                 { return "" }

// Sentinels for TimeUnitsParser, distinguishable from any real elapsed
// time because a duration can never itself be infinite or negative
// infinite.
var (
	TimeInfinity = math.Inf(1)
	TimeAuto     = math.Inf(-1)
)

// TimeUnitsParser extends TimeParser's syntax with "inf" and "auto".
type TimeUnitsParser struct{}

func (TimeUnitsParser) SlotType() reflect.Type { return reflect.TypeOf(float64(0)) }

func (TimeUnitsParser) Read(text string, slot reflect.Value) error {
	switch strings.TrimSpace(text) {
	case "inf":
		slot.SetFloat(TimeInfinity)
		return nil
	case "auto":
		slot.SetFloat(TimeAuto)
		return nil
	}
	v, err := parseTimeValue(text)
	if err != nil {
		return errors.Errorf("time_units: cannot parse %q", text)
	}
	slot.SetFloat(v)
	return nil
}

func (TimeUnitsParser) Write(slot reflect.Value) (string, error) {
	switch slot.Float() {
	case TimeInfinity:
		return "inf", nil
	case TimeAuto:
		return "auto", nil
	}
	return formatTimeValue(slot.Float()), nil
}

func (TimeUnitsParser) Clone(src, dst reflect.Value) error {
	dst.SetFloat(src.Float())
	return nil
}

func (TimeUnitsParser) Release(slot reflect.Value) { slot.SetFloat(0) }
func (TimeUnitsParser) Help() string                { return "<number>[m|s|ms|us|ns] | \"inf\" | \"auto\"" }
func (TimeUnitsParser) Doc() string                 { return "" }
