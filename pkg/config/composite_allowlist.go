package config

import (
	"reflect"
	"strings"

	"github.com/go-errors/errors"
)

// AllowMode is the match mode of an AllowList (spec.md §4.B, glossary).
type AllowMode int

const (
	// AllowListAllow matches only the names present in Items.
	AllowListAllow AllowMode = iota
	// AllowListNegate matches every name NOT present in Items,
	// i.e. a leading "^" before the list. With nil Items (the form
	// "^all" produces) it matches nothing.
	AllowListNegate
	// AllowListAll matches everything; set by the literal "all".
	AllowListAll
)

// AllowList is the parsed value of an AllowList field.
type AllowList struct {
	Mode  AllowMode
	Items []string
}

// Matches reports whether name is selected by the list.
func (a AllowList) Matches(name string) bool {
	switch a.Mode {
	case AllowListAll:
		return true
	case AllowListNegate:
		if a.Items == nil {
			return false
		}
		return !containsString(a.Items, name)
	default:
		return containsString(a.Items, name)
	}
}

func containsString(items []string, s string) bool {
	for _, it := range items {
		if it == s {
			return true
		}
	}
	return false
}

// AllowListParser parses the allow-list syntax of spec.md §4.B: an
// optional leading "^" negates, the literal "all" (case-sensitive)
// selects everything, otherwise a comma-separated name list.
//
// Re-architecture note (spec.md §9 open question): "^all" is accepted
// here as NEGATE with an empty item list, which per AllowList.Matches
// means "match nothing" — the literal opposite of ALLOW_ALL. This is
// the resolution DESIGN.md records for that open question.
type AllowListParser struct{}

func (AllowListParser) SlotType() reflect.Type { return reflect.TypeOf(AllowList{}) }

func (AllowListParser) Read(text string, slot reflect.Value) error {
	t := strings.TrimSpace(text)
	negate := strings.HasPrefix(t, "^")
	if negate {
		t = strings.TrimPrefix(t, "^")
	}

	if t == "all" {
		mode := AllowListAll
		if negate {
			mode = AllowListNegate
		}
		slot.Set(reflect.ValueOf(AllowList{Mode: mode, Items: nil}))
		return nil
	}

	var items []string
	for _, tok := range strings.Split(t, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			return errors.Errorf("allow_list: empty item in %q", text)
		}
		items = append(items, tok)
	}

	mode := AllowListAllow
	if negate {
		mode = AllowListNegate
	}
	slot.Set(reflect.ValueOf(AllowList{Mode: mode, Items: items}))
	return nil
}

func (AllowListParser) Write(slot reflect.Value) (string, error) {
	v := slot.Interface().(AllowList)
	switch v.Mode {
	case AllowListAll:
		return "all", nil
	case AllowListNegate:
		if v.Items == nil {
			return "^all", nil
		}
		return "^" + strings.Join(v.Items, ","), nil
	default:
		return strings.Join(v.Items, ","), nil
	}
}

func (AllowListParser) Clone(src, dst reflect.Value) error {
	v := src.Interface().(AllowList)
	var items []string
	if v.Items != nil {
		items = make([]string, len(v.Items))
		copy(items, v.Items)
	}
	dst.Set(reflect.ValueOf(AllowList{Mode: v.Mode, Items: items}))
	return nil
}

func (AllowListParser) Release(slot reflect.Value) {
	slot.Set(reflect.ValueOf(AllowList{}))
}

func (AllowListParser) Help() string {
	return "all | [^]name[,name...]"
}

func (AllowListParser) Doc() string { return "" }
