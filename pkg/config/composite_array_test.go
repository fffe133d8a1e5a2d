package config

import (
	"reflect"
	"testing"
)

func TestArrayParserRoundTrip(t *testing.T) {
	p := ArrayParser{Elem: IntParser{}}
	slot := reflect.New(reflect.TypeOf([]int(nil))).Elem()

	if err := p.Read("1, 2, 3", slot); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	got := slot.Interface().([]int)
	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("got %v, want [1 2 3]", got)
	}

	out, err := p.Write(slot)
	if err != nil || out != "1,2,3" {
		t.Errorf("Write = (%q, %v), want (1,2,3, nil)", out, err)
	}
}

func TestArrayParserStopsAtMaxArray(t *testing.T) {
	p := ArrayParser{Elem: IntParser{}}
	slot := reflect.New(reflect.TypeOf([]int(nil))).Elem()

	var text string
	for i := 0; i < MaxArray+10; i++ {
		if i > 0 {
			text += ","
		}
		text += "1"
	}
	if err := p.Read(text, slot); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if slot.Len() != MaxArray {
		t.Errorf("len = %d, want %d (stop at MAX_ARRAY without error)", slot.Len(), MaxArray)
	}
}

func TestArrayParserElementErrorReleasesPriorElements(t *testing.T) {
	p := ArrayParser{Elem: IntParser{}}
	slot := reflect.New(reflect.TypeOf([]int(nil))).Elem()

	if err := p.Read("1,2,notanumber", slot); err == nil {
		t.Fatal("expected an error for an unparseable element")
	}
}

func TestArrayParserCloneIsDeep(t *testing.T) {
	p := ArrayParser{Elem: IntParser{}}
	src := reflect.New(reflect.TypeOf([]int(nil))).Elem()
	if err := p.Read("1,2", src); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	dst := reflect.New(reflect.TypeOf([]int(nil))).Elem()
	if err := p.Clone(src, dst); err != nil {
		t.Fatalf("Clone failed: %v", err)
	}
	srcSlice := src.Interface().([]int)
	dstSlice := dst.Interface().([]int)
	if !reflect.DeepEqual(srcSlice, dstSlice) {
		t.Fatalf("clone mismatch: %v vs %v", srcSlice, dstSlice)
	}
	srcSlice[0] = 99
	if dstSlice[0] == 99 {
		t.Error("Clone shared backing array instead of copying")
	}
}
