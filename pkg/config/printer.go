package config

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/disiqueira/gotree/v3"
	"github.com/jesseduffield/yaml"
)

// PrintFlags controls what PrintOpts/PrintAllOpts emit (spec.md §4.G).
type PrintFlags uint

const (
	// PrintConfig emits "name=value" assignment lines.
	PrintConfig PrintFlags = 1 << iota
	// PrintDoc emits a documentation comment block above each field.
	PrintDoc
	// PrintHidden emits aliases and deprecated fields, which are
	// otherwise skipped.
	PrintHidden
	// PrintHeader emits a title banner once, before any field.
	PrintHeader
	// PrintCommentDefault prefixes "# " to fields whose value equals
	// their default (neither env nor file overrides it).
	PrintCommentDefault
)

// PrintOpts renders opts to w following fields' declared structure
// (spec.md §4.G, §6).
func PrintOpts(w io.Writer, title string, opts interface{}, fields FieldList, tablePrefix, envPrefix string, flags PrintFlags, filter string) error {
	if flags&PrintHeader != 0 {
		fmt.Fprintf(w, "#\n# %s\n#\n", title)
	}
	var chain []string
	if tablePrefix != "" {
		chain = append(chain, tablePrefix)
	}
	p := &printer{w: w, envPrefix: envPrefix, flags: flags, filter: filter}
	return p.walk(opts, fields, chain)
}

// PrintAllOpts renders every LOADED table entry registered in the
// global registry (spec.md §6), each filled afresh under envPrefix.
func PrintAllOpts(w io.Writer, envPrefix string, flags PrintFlags, filter string) error {
	for _, entry := range Tables() {
		if !entry.Loaded() {
			continue
		}
		opts := entry.New()
		if st := FillOpts(opts, entry, envPrefix, false); !st.IsOK() {
			return st
		}
		err := PrintOpts(w, entry.Name, opts, entry.Fields, entry.Prefix, envPrefix, flags, filter)
		ReleaseOpts(opts, entry.Fields)
		if err != nil {
			return err
		}
	}
	return nil
}

// PrintEnvVarsOnce logs unused environment variables, deduplicated per
// envPrefix for the lifetime of the process (spec.md §4.F: "The first
// call per env_prefix is deduplicated via the UsedEnvSet itself ..."),
// then repeats the report under envPrefix's sub-prefix view if one
// exists, so a variable unused only when seen through its sub-table
// name (e.g. IB_QKEY) is still surfaced.
//
// Supplemented from original_source/ (ucs_config_parser_print_env_vars_once):
// the dedup key is a synthetic UsedEnvSet entry, not a separate map;
// the second, sub-prefix pass mirrors that function running the same
// report again once ucs_config_parser_get_sub_prefix succeeds.
func PrintEnvVarsOnce(envPrefix string) {
	printEnvVarsOnceFor(envPrefix)
	if sp, ok := subPrefix(envPrefix); ok {
		printEnvVarsOnceFor(sp)
	}
}

func printEnvVarsOnceFor(envPrefix string) {
	r := globalRegistryInstance()
	dedupKey := "\x00diagnostics-ran:" + envPrefix

	r.mu.Lock()
	alreadyRan := r.usedEnv[dedupKey]
	r.usedEnv[dedupKey] = true
	r.mu.Unlock()

	if alreadyRan {
		return
	}
	logUnusedEnvVars(UnusedEnvVars(envPrefix))
}

type printer struct {
	w         io.Writer
	envPrefix string
	flags     PrintFlags
	filter    string
}

func (p *printer) walk(opts interface{}, fields FieldList, chain []string) error {
	for _, f := range fields {
		switch f.Kind {
		case FieldDeprecated:
			if p.flags&PrintHidden == 0 {
				continue
			}
			name := strings.Join(chain, "") + f.Name
			if p.filter != "" && !strings.Contains(name, p.filter) {
				continue
			}
			fmt.Fprintf(p.w, "# %s%s is deprecated\n", p.envPrefix, name)

		case FieldAlias:
			if p.flags&PrintHidden == 0 {
				continue
			}
			name := strings.Join(chain, "") + f.Name
			if p.filter != "" && !strings.Contains(name, p.filter) {
				continue
			}
			val, err := f.AliasOf.Parser.Write(f.AliasOf.Accessor(opts))
			if err != nil {
				return err
			}
			fmt.Fprintf(p.w, "%s%s=%s # alias of: %s\n", p.envPrefix, name, val, f.AliasOf.Name)

		case FieldTable:
			tp := f.Parser.(*TableParser)
			nextChain := chain
			if len(chain) == 0 || chain[len(chain)-1] != tp.prefix {
				nextChain = append(append([]string{}, chain...), tp.prefix)
			}
			sub := f.Accessor(opts).Addr().Interface()
			if err := p.walk(sub, tp.fields, nextChain); err != nil {
				return err
			}

		default:
			name := strings.Join(chain, "") + f.Name
			if p.filter != "" && !strings.Contains(name, p.filter) {
				continue
			}

			val, err := f.Parser.Write(f.Accessor(opts))
			if err != nil {
				return err
			}

			isDefault, err := isFieldDefault(f, opts)
			if err != nil {
				return err
			}

			if p.flags&PrintDoc != 0 {
				fmt.Fprintf(p.w, "#\n# %s\n# syntax: %s\n", f.Doc, f.Parser.Help())
				if len(chain) > 1 {
					fmt.Fprint(p.w, renderInheritsTree(chain, f.Name))
				}
			}

			if p.flags&PrintConfig != 0 {
				marker := ""
				if p.flags&PrintCommentDefault != 0 && isDefault {
					marker = "# "
				}
				fmt.Fprintf(p.w, "%s%s%s=%s\n", marker, p.envPrefix, name, val)
			}
		}
	}
	return nil
}

// isFieldDefault reports whether f's current rendered value equals its
// default's rendered value. Supplemented from original_source/
// (ucs_config_parser_is_default): a comparison-based check rather than
// separate per-field "came from a default" state tracking.
func isFieldDefault(f *FieldDescriptor, opts interface{}) (bool, error) {
	slot := f.Accessor(opts)
	tmp := reflect.New(slot.Type()).Elem()
	if err := f.Parser.Read(f.DefaultText, tmp); err != nil {
		return false, err
	}
	defaultText, err := f.Parser.Write(tmp)
	if err != nil {
		return false, err
	}
	currentText, err := f.Parser.Write(slot)
	if err != nil {
		return false, err
	}
	return defaultText == currentText, nil
}

// renderInheritsTree renders the "inherits:" annotation as a small
// tree of every ancestor-prefixed form of name, from the most
// specific (full chain) to the least (chain's last segment alone).
func renderInheritsTree(chain []string, name string) string {
	root := gotree.New("inherits:")
	for i := range chain {
		root.Add(strings.Join(chain[i:], "") + name)
	}
	var b strings.Builder
	for _, line := range strings.Split(root.Print(), "\n") {
		if line == "" {
			continue
		}
		b.WriteString("# ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// FieldRows returns every real field reachable from fields as
// [name, default, doc] rows, recursing into sub-tables with prefix
// accumulation. Feeds a column-aligned field listing via
// pkg/utils.RenderTable.
func FieldRows(fields FieldList, tablePrefix string) [][]string {
	var rows [][]string
	for _, f := range fields {
		switch f.Kind {
		case FieldAlias, FieldDeprecated:
			continue
		case FieldTable:
			tp := f.Parser.(*TableParser)
			rows = append(rows, FieldRows(tp.fields, tablePrefix+tp.prefix)...)
		default:
			rows = append(rows, []string{tablePrefix + f.Name, f.DefaultText, f.Doc})
		}
	}
	return rows
}

// DumpYAML renders opts as structured YAML instead of the INI-style
// canonical form, for machine-readable documentation export. This is
// a supplement beyond spec.md's printer (SPEC_FULL.md §4.G): it never
// replaces INI as the input format, only adds an output one.
func DumpYAML(opts interface{}, fields FieldList) ([]byte, error) {
	return yaml.Marshal(fieldsToMap(opts, fields))
}

func fieldsToMap(opts interface{}, fields FieldList) map[string]interface{} {
	out := make(map[string]interface{})
	for _, f := range fields {
		switch f.Kind {
		case FieldAlias, FieldDeprecated:
			continue
		case FieldTable:
			tp := f.Parser.(*TableParser)
			sub := f.Accessor(opts).Addr().Interface()
			out[f.Name] = fieldsToMap(sub, tp.fields)
		default:
			val, err := f.Parser.Write(f.Accessor(opts))
			if err != nil {
				val = ""
			}
			out[f.Name] = val
		}
	}
	return out
}
