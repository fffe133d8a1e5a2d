package config

import (
	"strings"

	"github.com/go-errors/errors"
	"github.com/sirupsen/logrus"
)

// setDefaultsFields recursively parses every non-alias, non-deprecated
// field's DefaultText into its slot (spec.md §3 lifecycle, §4.E step 1).
func setDefaultsFields(fields FieldList, opts interface{}) error {
	for _, f := range fields {
		switch f.Kind {
		case FieldAlias, FieldDeprecated:
			continue
		case FieldTable:
			tp := f.Parser.(*TableParser)
			sub := f.Accessor(opts).Addr().Interface()
			if err := setDefaultsFields(tp.fields, sub); err != nil {
				return err
			}
		default:
			slot := f.Accessor(opts)
			if err := f.Parser.Read(f.DefaultText, slot); err != nil {
				return errors.Errorf("field %q: %v", f.Name, err)
			}
		}
	}
	return nil
}

// cloneFields deep-copies every non-alias, non-deprecated field from
// src to dst.
func cloneFields(fields FieldList, src, dst interface{}) error {
	for _, f := range fields {
		switch f.Kind {
		case FieldAlias, FieldDeprecated:
			continue
		case FieldTable:
			tp := f.Parser.(*TableParser)
			if err := cloneFields(tp.fields, f.Accessor(src).Addr().Interface(), f.Accessor(dst).Addr().Interface()); err != nil {
				return err
			}
		default:
			if err := f.Parser.Clone(f.Accessor(src), f.Accessor(dst)); err != nil {
				return errors.Errorf("field %q: %v", f.Name, err)
			}
		}
	}
	return nil
}

// releaseFields resets every non-alias, non-deprecated field to its
// zero value, recursing into sub-tables.
func releaseFields(fields FieldList, opts interface{}) {
	for _, f := range fields {
		switch f.Kind {
		case FieldAlias, FieldDeprecated:
			continue
		case FieldTable:
			tp := f.Parser.(*TableParser)
			releaseFields(tp.fields, f.Accessor(opts).Addr().Interface())
		default:
			f.Parser.Release(f.Accessor(opts))
		}
	}
}

// SetDefaults parses every field's default text into opts (spec.md §6).
func SetDefaults(opts interface{}, fields FieldList) Status {
	if err := setDefaultsFields(fields, opts); err != nil {
		logrus.WithError(err).Error("config: set_defaults failed")
		return StatusInvalidParam
	}
	return StatusOK
}

// CloneOpts deep-copies src into dst, both described by fields.
func CloneOpts(src, dst interface{}, fields FieldList) Status {
	if err := cloneFields(fields, src, dst); err != nil {
		logrus.WithError(err).Error("config: clone_opts failed")
		return StatusNoMemory
	}
	return StatusOK
}

// ReleaseOpts resets every field in opts to its zero value.
func ReleaseOpts(opts interface{}, fields FieldList) {
	releaseFields(fields, opts)
}

// SetValue applies a single value programmatically (spec.md §6:
// "set_value(opts, fields, prefix, name, value) prepends prefix (by
// contract) and invokes the resolver with recurse=true"). This follows
// the documented external contract rather than the original source's
// literal behaviour, which accepted a prefix argument but matched only
// against field.name regardless of it (spec.md §9's open question) —
// SPEC_FULL.md resolves that inconsistency in favour of the contract
// text, since no caller was found depending on the prefix being
// silently ignored.
func SetValue(opts interface{}, fields FieldList, prefix, name, value string) Status {
	_, err := resolveField(opts, fields, prefix+name, value, strPtr(""), true)
	return statusFromResolveErr(err)
}

// GetValue renders the current value of the field named name.
func GetValue(opts interface{}, fields FieldList, name string) (string, Status) {
	text, err := getValue(opts, fields, name, strPtr(""), true)
	if err != nil {
		return "", statusFromResolveErr(err)
	}
	return text, StatusOK
}

// getValue walks fields the same way resolveField does, but renders
// rather than mutates the first exact match. tablePrefix is the same
// tri-state ambient prefix documented on resolveField.
func getValue(opts interface{}, fields FieldList, name string, tablePrefix *string, recurse bool) (string, error) {
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
				if text, err := getValue(subOpts, tp.fields, name, &fullPrefix, true); err == nil {
					return text, nil
				} else if !isNoSuchElement(err) {
					return "", err
				}
			}
			if tablePrefix != nil {
				if text, err := getValue(subOpts, tp.fields, name, tablePrefix, false); err == nil {
					return text, nil
				} else if !isNoSuchElement(err) {
					return "", err
				}
			}
			continue
		}
		if ambient+f.Name != name {
			continue
		}
		if f.Kind == FieldDeprecated {
			return "", StatusNoSuchElement
		}
		return f.Parser.Write(f.Accessor(opts))
	}
	return "", StatusNoSuchElement
}

func statusFromResolveErr(err error) Status {
	if err == nil {
		return StatusOK
	}
	if s, ok := err.(Status); ok {
		return s
	}
	return StatusInvalidParam
}

// subPrefix computes the "sub-prefix" of envPrefix: the substring
// starting immediately after the penultimate '_' counting from the
// right (spec.md §4.E step 3, §9: preserved exactly, including its
// silent no-op on prefixes with fewer than two '_'-delimited segments).
func subPrefix(envPrefix string) (string, bool) {
	trimmed := strings.TrimSuffix(envPrefix, "_")
	idx := strings.LastIndex(trimmed, "_")
	if idx < 0 {
		return "", false
	}
	return trimmed[idx+1:] + "_", true
}

// FillOpts runs the full layered apply pipeline of spec.md §4.E:
// defaults, then config files, then environment (sub-prefix pass
// followed by full-prefix pass), with rollback on unrecoverable
// failure. entry.Prefix is threaded through as the ambient table
// prefix, so a bare env var one level below the root (e.g. UCX_QKEY)
// can still override a value already set via its fully-qualified
// sub-table form (UCX_IB_QKEY), per spec.md §8 scenario 2.
func FillOpts(opts interface{}, entry *TableEntry, envPrefix string, ignoreErrors bool) Status {
	if err := setDefaultsFields(entry.Fields, opts); err != nil {
		logrus.WithError(err).Error("config: set_defaults failed")
		releaseFields(entry.Fields, opts)
		return StatusInvalidParam
	}

	fileVars := loadConfigFilesOnce()
	_ = fileVars // the file map is consulted per-field inside applyEnv

	if sp, ok := subPrefix(envPrefix); ok {
		if st := applyEnv(opts, entry.Fields, sp, &entry.Prefix, true, ignoreErrors); !st.IsOK() {
			releaseFields(entry.Fields, opts)
			return st
		}
	}

	if st := applyEnv(opts, entry.Fields, envPrefix, &entry.Prefix, true, ignoreErrors); !st.IsOK() {
		releaseFields(entry.Fields, opts)
		return st
	}

	entry.markLoaded()
	return StatusOK
}

// markLoaded sets the sticky LOADED bit on entry after FillOpts
// completes (spec.md §3, §5: "set last, after all defaults have been
// applied").
func (e *TableEntry) markLoaded() {
	globalRegistryInstance().mu.Lock()
	defer globalRegistryInstance().mu.Unlock()
	e.loaded = true
}

// applyEnv implements "per-field env application" (spec.md §4.E): for
// every real field reachable from fields, build its candidate
// variable name, consult env then the file map, and apply with
// rollback-to-default semantics on parse failure when ignoreErrors is
// set. tablePrefix is the same tri-state ambient prefix documented on
// resolveField: nil disables the override pass, a non-nil pointer (even
// to "") enables it.
func applyEnv(opts interface{}, fields FieldList, prefix string, tablePrefix *string, recurse bool, ignoreErrors bool) Status {
	r := globalRegistryInstance()
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
				if st := applyEnv(subOpts, tp.fields, prefix, &fullPrefix, true, ignoreErrors); !st.IsOK() {
					return st
				}
			}
			if tablePrefix != nil {
				if st := applyEnv(subOpts, tp.fields, prefix, tablePrefix, false, ignoreErrors); !st.IsOK() {
					return st
				}
			}
			continue
		}

		varName := prefix + ambient + f.Name
		value, found := lookupEnv(varName)
		if !found {
			if v, ok := r.lookupFileVar(varName); ok {
				value, found = v, true
			}
		}
		if !found {
			continue
		}

		r.markEnvUsed(varName)

		if f.Kind == FieldDeprecated {
			if !ignoreErrors {
				logrus.Warnf("config: %s sets deprecated field %q, value ignored", varName, f.Name)
			}
			continue
		}

		slot := f.Accessor(opts)
		f.Parser.Release(slot)
		if err := f.Parser.Read(value, slot); err != nil {
			if ignoreErrors {
				logrus.WithError(err).Warnf("config: invalid value %q for %s, falling back to default", value, varName)
				if derr := f.Parser.Read(f.DefaultText, slot); derr != nil {
					return StatusInvalidParam
				}
				continue
			}
			logrus.WithError(err).Errorf("config: invalid value %q for %s", value, varName)
			return StatusInvalidParam
		}
	}
	return StatusOK
}
