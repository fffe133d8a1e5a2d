package config

import (
	"reflect"
	"strings"

	"github.com/go-errors/errors"
)

// MaxArray bounds the number of tokens ArrayParser will consume from a
// single value (spec.md §4.B, §8: "Array with > MAX_ARRAY tokens stops
// at MAX_ARRAY without error").
const MaxArray = 32

// ArrayParser parses a comma-separated list into a Go slice, using Elem
// to read/write/clone/release each element. This replaces the
// original's {data pointer, count} pair plus elem_size arithmetic with
// a plain reflect.Slice (SPEC_FULL.md §3, §9).
type ArrayParser struct {
	Elem Parser
}

func (p ArrayParser) Read(text string, slot reflect.Value) error {
	var tokens []string
	for _, tok := range strings.Split(text, ",") {
		tokens = append(tokens, strings.TrimSpace(tok))
		if len(tokens) == MaxArray {
			break
		}
	}

	out := reflect.MakeSlice(slot.Type(), len(tokens), len(tokens))
	for i, tok := range tokens {
		if err := p.Elem.Read(tok, out.Index(i)); err != nil {
			for j := 0; j < i; j++ {
				p.Elem.Release(out.Index(j))
			}
			return errors.Errorf("array: element %d: %v", i, err)
		}
	}
	slot.Set(out)
	return nil
}

func (p ArrayParser) Write(slot reflect.Value) (string, error) {
	n := slot.Len()
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		s, err := p.Elem.Write(slot.Index(i))
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, ","), nil
}

func (p ArrayParser) Clone(src, dst reflect.Value) error {
	n := src.Len()
	out := reflect.MakeSlice(src.Type(), n, n)
	for i := 0; i < n; i++ {
		if err := p.Elem.Clone(src.Index(i), out.Index(i)); err != nil {
			for j := 0; j < i; j++ {
				p.Elem.Release(out.Index(j))
			}
			return err
		}
	}
	dst.Set(out)
	return nil
}

func (p ArrayParser) Release(slot reflect.Value) {
	for i := 0; i < slot.Len(); i++ {
		p.Elem.Release(slot.Index(i))
	}
	slot.Set(reflect.Zero(slot.Type()))
}

func (p ArrayParser) Help() string {
	return p.Elem.Help() + "[," + p.Elem.Help() + "...]"
}

func (p ArrayParser) Doc() string { return p.Elem.Doc() }
