package config

import (
	"sort"
	"sync"

	"github.com/sasha-s/go-deadlock"
)

// TableEntry is one registered top-level table: a name, the prefix
// every environment variable under it is expected to carry, and the
// FieldList describing its fields (spec.md §3's registry entry).
type TableEntry struct {
	Name   string
	Prefix string
	Fields FieldList

	// New constructs a fresh, zero-valued opts struct for this table,
	// already pointing the FieldDescriptor accessors at live storage.
	New func() interface{}

	// loaded is the sticky LOADED bit set by FillOpts once it
	// completes (spec.md §3: "flags includes a sticky LOADED bit").
	loaded bool
}

// Loaded reports whether FillOpts has completed at least once for
// this entry.
func (e *TableEntry) Loaded() bool {
	globalRegistryInstance().mu.Lock()
	defer globalRegistryInstance().mu.Unlock()
	return e.loaded
}

// registry is the process-wide singleton holding every registered
// table plus the two pieces of shared bookkeeping state spec.md §5
// describes: the file-var map (values pulled from config files, keyed
// by fully-qualified name) and the used-env set (env vars consulted so
// far). A single mutex guards all three, matching the teacher's own
// coarse-grained locking style for shared UI state
// (pkg/gui/gui.go: SubprocessMutex, ViewStackMutex) rather than a
// lock per field.
type registry struct {
	mu deadlock.Mutex

	tables  map[string]*TableEntry
	order   []string
	fileVar map[string]string
	usedEnv map[string]bool
}

var (
	globalRegistry     *registry
	globalRegistryOnce sync.Once
)

// globalRegistryInstance returns the process-wide registry, creating
// it on first use.
func globalRegistryInstance() *registry {
	globalRegistryOnce.Do(func() {
		globalRegistry = &registry{
			tables:  make(map[string]*TableEntry),
			fileVar: make(map[string]string),
			usedEnv: make(map[string]bool),
		}
	})
	return globalRegistry
}

// RegisterTable adds entry to the global registry. Re-registering a
// name already present replaces the prior entry, mirroring the
// original's "last ucs_config_parser_register wins" behaviour.
func RegisterTable(entry *TableEntry) {
	r := globalRegistryInstance()
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tables[entry.Name]; !exists {
		r.order = append(r.order, entry.Name)
	}
	r.tables[entry.Name] = entry
}

// Tables returns every registered table in registration order.
func Tables() []*TableEntry {
	r := globalRegistryInstance()
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*TableEntry, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tables[name])
	}
	return out
}

// Cleanup resets the registry's shared bookkeeping state: the file-var
// map and the used-env set. Registered tables themselves are left
// alone, since unlike the C original a process does not need to
// re-declare its option tables at exit; Cleanup corresponds to the
// part of ucs_config_parser_cleanup that matters in a GC'd runtime.
func Cleanup() {
	r := globalRegistryInstance()
	r.mu.Lock()
	defer r.mu.Unlock()

	r.fileVar = make(map[string]string)
	r.usedEnv = make(map[string]bool)
}

// recordFileVar stores a value read from a configuration file under
// its fully-qualified variable name, for applyEnv to read back
// through lookupFileVar when an environment variable is not set.
func (r *registry) recordFileVar(name, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fileVar[name] = value
}

// lookupFileVar returns the value recorded for name, if any.
func (r *registry) lookupFileVar(name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.fileVar[name]
	return v, ok
}

// markEnvUsed records that name supplied a value, from the
// environment or from a configuration file; applyEnv calls it only
// when the variable was found.
func (r *registry) markEnvUsed(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.usedEnv[name] = true
}

// unusedEnvVars returns every name in env whose key was never
// consulted via markEnvUsed, sorted for deterministic diagnostics.
func (r *registry) unusedEnvVars(env map[string]string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var unused []string
	for name := range env {
		if !r.usedEnv[name] {
			unused = append(unused, name)
		}
	}
	sort.Strings(unused)
	return unused
}
