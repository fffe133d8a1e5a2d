package config

import (
	"reflect"
	"strings"

	"github.com/go-errors/errors"
)

// TableParser is the recursive "sub-table" composite of spec.md §4.B.
// Its argument is itself a FieldList; the slot it is given always
// holds a nested opts struct rather than a scalar.
type TableParser struct {
	prefix string
	fields FieldList
}

func (p *TableParser) Read(text string, slot reflect.Value) error {
	optsPtr := slot.Addr().Interface()
	if err := setDefaultsFields(p.fields, optsPtr); err != nil {
		return errors.Errorf("table: set_defaults: %v", err)
	}

	for _, tok := range strings.Split(text, ";") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		idx := strings.Index(tok, "=")
		if idx < 0 {
			return errors.Errorf("table: %q is missing '='", tok)
		}
		name, value := strings.TrimSpace(tok[:idx]), strings.TrimSpace(tok[idx+1:])
		if _, err := resolveField(optsPtr, p.fields, name, value, nil, true); err != nil {
			return err
		}
	}
	return nil
}

func (p *TableParser) Write(slot reflect.Value) (string, error) {
	optsPtr := slot.Addr().Interface()
	parts, err := renderFields(p.fields, optsPtr, "")
	if err != nil {
		return "", err
	}
	return strings.Join(parts, ";"), nil
}

func (p *TableParser) Clone(src, dst reflect.Value) error {
	return cloneFields(p.fields, src.Addr().Interface(), dst.Addr().Interface())
}

func (p *TableParser) Release(slot reflect.Value) {
	releaseFields(p.fields, slot.Addr().Interface())
}

func (p *TableParser) Help() string { return "<name>=<value>[;...]" }

func (p *TableParser) Doc() string {
	var b strings.Builder
	for _, f := range p.fields {
		if f.Kind == FieldAlias || f.Kind == FieldDeprecated {
			continue
		}
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Doc)
		b.WriteString("\n")
	}
	return b.String()
}

// renderFields renders every real field reachable from fields as
// "name=value" pairs, recursing into sub-tables. Used by
// TableParser.Write.
func renderFields(fields FieldList, opts interface{}, tablePrefix string) ([]string, error) {
	var out []string
	for _, f := range fields {
		switch f.Kind {
		case FieldAlias, FieldDeprecated:
			continue
		case FieldTable:
			tp := f.Parser.(*TableParser)
			sub, err := renderFields(tp.fields, f.Accessor(opts).Addr().Interface(), "")
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		default:
			s, err := f.Parser.Write(f.Accessor(opts))
			if err != nil {
				return nil, err
			}
			out = append(out, tablePrefix+f.Name+"="+s)
		}
	}
	return out, nil
}
