package config

import (
	"reflect"
	"testing"
)

func TestAllowListParserAll(t *testing.T) {
	slot := reflect.New(reflect.TypeOf(AllowList{})).Elem()
	if err := (AllowListParser{}).Read("all", slot); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	v := slot.Interface().(AllowList)
	if v.Mode != AllowListAll {
		t.Errorf("mode = %v, want AllowListAll", v.Mode)
	}
	if !v.Matches("anything") {
		t.Error("all must match every name")
	}
	out, err := (AllowListParser{}).Write(slot)
	if err != nil || out != "all" {
		t.Errorf("Write = (%q, %v), want (all, nil)", out, err)
	}
}

func TestAllowListParserNamedList(t *testing.T) {
	slot := reflect.New(reflect.TypeOf(AllowList{})).Elem()
	if err := (AllowListParser{}).Read("rc,ud", slot); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	v := slot.Interface().(AllowList)
	if !v.Matches("rc") || v.Matches("dc") {
		t.Errorf("got %+v, want allow-list matching only rc/ud", v)
	}
}

func TestAllowListParserNegate(t *testing.T) {
	slot := reflect.New(reflect.TypeOf(AllowList{})).Elem()
	if err := (AllowListParser{}).Read("^rc,ud", slot); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	v := slot.Interface().(AllowList)
	if v.Matches("rc") || !v.Matches("dc") {
		t.Errorf("got %+v, want negated list excluding rc/ud", v)
	}
	out, err := (AllowListParser{}).Write(slot)
	if err != nil || out != "^rc,ud" {
		t.Errorf("Write = (%q, %v), want (^rc,ud, nil)", out, err)
	}
}

func TestAllowListParserNegateAllMatchesNothing(t *testing.T) {
	slot := reflect.New(reflect.TypeOf(AllowList{})).Elem()
	if err := (AllowListParser{}).Read("^all", slot); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	v := slot.Interface().(AllowList)
	if v.Mode != AllowListNegate || v.Items != nil {
		t.Errorf("got %+v, want AllowListNegate with nil items", v)
	}
	if v.Matches("anything") {
		t.Error("^all must match nothing, per the recorded resolution of this open question")
	}
	out, err := (AllowListParser{}).Write(slot)
	if err != nil || out != "^all" {
		t.Errorf("Write = (%q, %v), want (^all, nil)", out, err)
	}
}

func TestAllowListParserRejectsEmptyItem(t *testing.T) {
	slot := reflect.New(reflect.TypeOf(AllowList{})).Elem()
	if err := (AllowListParser{}).Read("rc,,ud", slot); err == nil {
		t.Error("expected an error for an empty item between commas")
	}
}
