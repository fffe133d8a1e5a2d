package config

import (
	"reflect"
	"strings"

	"github.com/go-errors/errors"
	"github.com/imdario/mergo"
)

// KeyValueKey declares one key of a KeyValueParser's indexed map
// (spec.md §4.B: "argument declares an ordered set of keys, each with
// its own offset within the value struct and a per-key doc").
type KeyValueKey struct {
	Name     string
	Doc      string
	Accessor Accessor
	Parser   Parser
}

// KeyValueParser parses a comma-separated list of "key:value" or bare
// "value" tokens into a struct with one field per declared key (spec.md
// §4.B). A bare token supplies the default applied to every key that
// has no explicit entry.
//
// Values are parsed into a scratch struct first and merged onto the
// real slot with mergo only once every key has resolved successfully,
// so a mid-parse failure never touches the caller's existing value —
// the Go equivalent of "release all previously-set keys" without
// needing per-key rollback bookkeeping.
type KeyValueParser struct {
	Keys []KeyValueKey
}

func (p KeyValueParser) keyByName(name string) *KeyValueKey {
	for i := range p.Keys {
		if p.Keys[i].Name == name {
			return &p.Keys[i]
		}
	}
	return nil
}

func (p KeyValueParser) Read(text string, slot reflect.Value) error {
	explicit := map[string]string{}
	var bareDefault *string
	for _, tok := range strings.Split(text, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if idx := strings.Index(tok, ":"); idx >= 0 {
			explicit[tok[:idx]] = tok[idx+1:]
		} else {
			if bareDefault != nil {
				return errors.Errorf("key_value: more than one default value in %q", text)
			}
			v := tok
			bareDefault = &v
		}
	}
	for key := range explicit {
		if p.keyByName(key) == nil {
			return errors.Errorf("key_value: unknown key %q", key)
		}
	}

	scratchPtr := reflect.New(slot.Type())
	scratch := scratchPtr.Elem()
	var set []*KeyValueKey
	for i := range p.Keys {
		k := &p.Keys[i]
		val, has := explicit[k.Name]
		if !has {
			if bareDefault == nil {
				for _, s := range set {
					s.Parser.Release(s.Accessor(scratchPtr.Interface()))
				}
				return errors.Errorf("key_value: missing value for key %q", k.Name)
			}
			val = *bareDefault
		}
		if err := k.Parser.Read(val, k.Accessor(scratchPtr.Interface())); err != nil {
			for _, s := range set {
				s.Parser.Release(s.Accessor(scratchPtr.Interface()))
			}
			return errors.Errorf("key_value: key %q: %v", k.Name, err)
		}
		set = append(set, k)
	}

	if err := mergo.Merge(slot.Addr().Interface(), scratch.Interface(), mergo.WithOverride); err != nil {
		return errors.Errorf("key_value: merge failed: %v", err)
	}
	return nil
}

func (p KeyValueParser) Write(slot reflect.Value) (string, error) {
	ptr := slot.Addr().Interface()
	parts := make([]string, 0, len(p.Keys))
	for i := range p.Keys {
		k := &p.Keys[i]
		s, err := k.Parser.Write(k.Accessor(ptr))
		if err != nil {
			return "", err
		}
		parts = append(parts, k.Name+":"+s)
	}
	return strings.Join(parts, ","), nil
}

func (p KeyValueParser) Clone(src, dst reflect.Value) error {
	srcPtr := src.Addr().Interface()
	dstPtr := dst.Addr().Interface()
	for i := range p.Keys {
		k := &p.Keys[i]
		if err := k.Parser.Clone(k.Accessor(srcPtr), k.Accessor(dstPtr)); err != nil {
			return err
		}
	}
	return nil
}

func (p KeyValueParser) Release(slot reflect.Value) {
	ptr := slot.Addr().Interface()
	for i := range p.Keys {
		k := &p.Keys[i]
		k.Parser.Release(k.Accessor(ptr))
	}
}

func (p KeyValueParser) Help() string {
	names := make([]string, len(p.Keys))
	for i, k := range p.Keys {
		names[i] = k.Name
	}
	return "[" + strings.Join(names, "|") + "]:<value>[,...]"
}

func (p KeyValueParser) Doc() string {
	var b strings.Builder
	for _, k := range p.Keys {
		b.WriteString(k.Name)
		b.WriteString(": ")
		b.WriteString(k.Doc)
		b.WriteString("\n")
	}
	return b.String()
}
