package config

import (
	"reflect"

	"github.com/go-errors/errors"
	glob "github.com/ryanuber/go-glob"
)

// resolveField implements spec.md §4.C's recursive field resolution
// algorithm. opts must be a pointer to the struct fields' accessors
// expect. It returns the number of fields the call applied a value to,
// and an error: StatusNoSuchElement if nothing matched (a recoverable
// "keep searching" signal to the caller), or any other error if a
// match was found but failed to apply.
//
// tablePrefix carries the ambient prefix one level up asked of this
// call, as a tri-state: nil means no ambient prefix exists at all (the
// original's table_prefix=NULL, used when matching a sub-table's own
// literal text), while a non-nil pointer means an ambient prefix is
// present even if its value is "" (the common top-level case). Only
// the latter enables the override pass below, which lets a bare name
// one level down take precedence over its fully-qualified form.
func resolveField(opts interface{}, fields FieldList, userName, userValue string, tablePrefix *string, recurse bool) (int, error) {
	count := 0
	ambient := ""
	if tablePrefix != nil {
		ambient = *tablePrefix
	}

	for _, f := range fields {
		if f.Kind == FieldTable {
			tp := f.Parser.(*TableParser)
			subOpts := f.Accessor(opts).Addr().Interface()

			if recurse {
				fullPrefix := tp.prefix
				n, err := resolveField(subOpts, tp.fields, userName, userValue, &fullPrefix, true)
				if err != nil && !isNoSuchElement(err) {
					return count, err
				}
				count += n
			}
			if tablePrefix != nil {
				n, err := resolveField(subOpts, tp.fields, userName, userValue, tablePrefix, false)
				if err != nil && !isNoSuchElement(err) {
					return count, err
				}
				count += n
			}
			continue
		}

		fqName := ambient + f.Name
		if !glob.Glob(userName, fqName) {
			continue
		}

		if f.Kind == FieldDeprecated {
			return count, StatusNoSuchElement
		}

		slot := f.Accessor(opts)
		backup := reflect.New(slot.Type()).Elem()
		if err := f.Parser.Clone(slot, backup); err != nil {
			return count, errors.Errorf("resolve: backing up %q: %v", f.Name, err)
		}

		f.Parser.Release(slot)
		if err := f.Parser.Read(userValue, slot); err != nil {
			if restoreErr := f.Parser.Clone(backup, slot); restoreErr != nil {
				return count, errors.Errorf("resolve: restore after failed parse of %q also failed: %v", f.Name, restoreErr)
			}
			return count, StatusInvalidParam
		}
		count++
	}

	if count == 0 {
		return 0, StatusNoSuchElement
	}
	return count, nil
}

// strPtr returns a pointer to a fresh copy of s, for passing an
// explicit-but-possibly-empty ambient prefix where a nil would instead
// mean "no ambient prefix".
func strPtr(s string) *string { return &s }

// isNoSuchElement reports whether err is the Status StatusNoSuchElement.
func isNoSuchElement(err error) bool {
	s, ok := err.(Status)
	return ok && s == StatusNoSuchElement
}

// isInvalidParam reports whether err is the Status StatusInvalidParam.
func isInvalidParam(err error) bool {
	s, ok := err.(Status)
	return ok && s == StatusInvalidParam
}

// fullyQualifiedNames returns every real field's complete variable
// name reachable from fields, recursing into sub-tables with prefix
// accumulation. Used by diagnostics' fuzzy-suggestion search.
func fullyQualifiedNames(fields FieldList, prefix string) []string {
	var names []string
	for _, f := range fields {
		switch f.Kind {
		case FieldAlias, FieldDeprecated:
			continue
		case FieldTable:
			tp := f.Parser.(*TableParser)
			names = append(names, fullyQualifiedNames(tp.fields, prefix+tp.prefix)...)
		default:
			names = append(names, prefix+f.Name)
		}
	}
	return names
}
