package config

import "reflect"

// Parser is the Go realisation of spec.md §3's ParserVTable: six
// operations closed over an opaque, parser-specific argument. Each
// concrete parser type (StringParser, IntParser, EnumParser, ...)
// implements this interface; composite parsers (ArrayParser,
// TableParser, ...) are built on top of other Parsers rather than on
// a raw byte-size/elem-size pair, since Go has no void*.
//
// slot is always an addressable reflect.Value pointing at the storage
// for one field — the accessor-closure replacement for the original's
// offset-into-struct arithmetic (SPEC_FULL.md §3, §9).
type Parser interface {
	// Read parses text into slot. slot is released by the caller
	// before Read is invoked for anything but the very first read
	// (SetDefaults / table construction): Read itself never assumes
	// slot already holds a zero value, but it is always given one.
	Read(text string, slot reflect.Value) error

	// Write renders slot into its canonical textual form.
	Write(slot reflect.Value) (string, error)

	// Clone deep-copies src into dst. For parsers that hold no
	// indirect state (scalars, enums), this is a plain value copy.
	Clone(src, dst reflect.Value) error

	// Release resets slot to its zero value, undoing whatever Read
	// established. It must be idempotent: Release(Release(x)) == Release(x).
	// Go's garbage collector reclaims the memory; Release's job here
	// is purely to restore the "as new" invariant a subsequent Read
	// relies on (spec.md §3 invariants) — see DESIGN.md for why this
	// engine does not hand-manage heap state the way the C original does.
	Release(slot reflect.Value)

	// Help renders a short human-readable syntax description, e.g.
	// "<integer>" or "[signal|thread_spinlock|thread_mutex|poll]".
	Help() string

	// Doc appends any additional multi-line documentation beyond
	// Help — used by KeyValue to list its declared keys.
	Doc() string
}

// ValueType reports the Go type a parser's slot must have. Nothing in
// this package checks a FieldDescriptor's accessor against it; a
// mismatched slot type surfaces only when a parser method is called.
type ValueType interface {
	SlotType() reflect.Type
}
