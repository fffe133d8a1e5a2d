package config

import "reflect"

// FieldKind distinguishes the four mutually exclusive field variants
// of spec.md §3's invariant ("a field is exactly one of {real, alias,
// deprecated, table}").
type FieldKind int

const (
	// FieldReal is an ordinary scalar/composite field with a parser
	// and a default value.
	FieldReal FieldKind = iota
	// FieldAlias exposes an alternate name for a real field located
	// elsewhere in the same table. Resolved to its target at
	// construction time (SPEC_FULL.md §3, §9), not by shared offset.
	FieldAlias
	// FieldDeprecated rejects every value with a warning; parsing it
	// always reports StatusNoSuchElement so resolution continues.
	FieldDeprecated
	// FieldTable is a nested sub-table: its Parser is always a
	// *TableParser and its accessor targets a sub-opts struct.
	FieldTable
)

// Accessor reaches into an opts struct (always a pointer to a struct)
// and returns the addressable reflect.Value for one field's storage.
// This is the visitor-pattern replacement for the original's raw byte
// offset (SPEC_FULL.md §3, §9 "offset-based reflection").
type Accessor func(opts interface{}) reflect.Value

// FieldByName returns an Accessor for the exported struct field named
// name. It is the accessor constructor used by every table built with
// the Fields(...) helper.
func FieldByName(name string) Accessor {
	return func(opts interface{}) reflect.Value {
		v := reflect.ValueOf(opts)
		if v.Kind() == reflect.Ptr {
			v = v.Elem()
		}
		return v.FieldByName(name)
	}
}

// FieldDescriptor is the declarative description of one configurable
// slot (spec.md §3).
type FieldDescriptor struct {
	// Name is the field's identifier, unique within its containing
	// table.
	Name string

	// DefaultText is the textual default, parsed via Parser at
	// SetDefaults time. Empty only for Alias fields.
	DefaultText string

	// Doc is a human-readable description, used by the printer and
	// by Parser.Doc-derived documentation output.
	Doc string

	// Accessor reaches the field's storage inside an opts struct.
	// Unused (nil) for Alias fields, which borrow AliasOf's accessor.
	Accessor Accessor

	// Parser performs read/write/clone/release/help/doc for this
	// field. For FieldTable, this is always a *TableParser.
	Parser Parser

	// Kind distinguishes real/alias/deprecated/table fields.
	Kind FieldKind

	// AliasOf points at the real FieldDescriptor this alias exposes.
	// Populated by the Fields(...) constructor, resolved once instead
	// of by scanning for a matching offset at print time.
	AliasOf *FieldDescriptor

	// aliasTargetName is set by Alias() and consumed by Fields() to
	// resolve AliasOf; it is not part of the public field shape.
	aliasTargetName string
}

// FieldList is an ordered sequence of field descriptors — the Go
// analogue of spec.md §3's NULL-name-terminated array.
type FieldList []*FieldDescriptor

// Real constructs a real field.
func Real(name, defaultText, doc string, accessor Accessor, parser Parser) *FieldDescriptor {
	return &FieldDescriptor{
		Name:        name,
		DefaultText: defaultText,
		Doc:         doc,
		Accessor:    accessor,
		Parser:      parser,
		Kind:        FieldReal,
	}
}

// Alias constructs an alias field. realName must name a non-alias
// field of the same FieldList; aliases are resolved in a second pass
// by Fields, so the target may be declared before or after the alias.
func Alias(name, realName, doc string) *FieldDescriptor {
	return &FieldDescriptor{
		Name: name,
		Doc:  doc,
		Kind: FieldAlias,
		// AliasOf.Name is stashed here until Fields() resolves it;
		// see resolveAliases.
		aliasTargetName: realName,
	}
}

// Deprecated constructs a deprecated field: setting it always warns
// and parsing it always fails with StatusNoSuchElement.
func Deprecated(name, doc string) *FieldDescriptor {
	return &FieldDescriptor{
		Name: name,
		Doc:  doc,
		Kind: FieldDeprecated,
	}
}

// Table constructs a sub-table field. prefix is prepended to every
// field name reachable under sub when forming a fully-qualified
// variable name.
func Table(name, prefix, doc string, accessor Accessor, sub FieldList) *FieldDescriptor {
	return &FieldDescriptor{
		Name:     name,
		Doc:      doc,
		Accessor: accessor,
		Kind:     FieldTable,
		Parser:   &TableParser{prefix: prefix, fields: sub},
	}
}

// Fields validates and finalises a FieldList: resolves every alias's
// AliasOf pointer by name and gives the alias its target's accessor
// and parser. Targets are looked up only among the non-alias fields
// of this same list; fields inside sub-tables are not searched. It
// panics when an alias names no such field, the same way the
// original's KHASH/array macros would abort at startup on a malformed
// static table — these are programmer errors, not runtime errors.
func Fields(fields ...*FieldDescriptor) FieldList {
	byName := make(map[string]*FieldDescriptor, len(fields))
	for _, f := range fields {
		if f.Kind != FieldAlias {
			byName[f.Name] = f
		}
	}
	for _, f := range fields {
		if f.Kind != FieldAlias {
			continue
		}
		target, ok := byName[f.aliasTargetName]
		if !ok {
			panic("config: alias " + f.Name + " has no target field " + f.aliasTargetName)
		}
		f.AliasOf = target
		f.Accessor = target.Accessor
		f.Parser = target.Parser
	}
	return FieldList(fields)
}
