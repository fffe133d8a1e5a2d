package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/OpenPeeDeeP/xdg"
	glob "github.com/ryanuber/go-glob"
	"github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

var (
	fileLoadOnce   sync.Once
	fileLoadResult map[string]string

	hostAttrsMu sync.Mutex
	hostAttrs   HostAttributes = DefaultHostAttributes()
)

// SetHostAttributes overrides the HostAttributes implementation
// consulted by section filtering. Exposed so an embedding application
// can supply real CPU/DMI probes, and so tests can inject a fake
// (spec.md §4.D.1).
func SetHostAttributes(h HostAttributes) {
	hostAttrsMu.Lock()
	defer hostAttrsMu.Unlock()
	hostAttrs = h
}

func currentHostAttributes() HostAttributes {
	hostAttrsMu.Lock()
	defer hostAttrsMu.Unlock()
	return hostAttrs
}

// configFilePaths returns the fixed five-entry search order of
// spec.md §4.D, in increasing order of precedence.
func configFilePaths() []string {
	var paths []string

	paths = append(paths, "/etc/ucx.conf")

	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), "..", "etc", "ucx", "ucx.conf"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, "ucx.conf"))
	}

	if dir := os.Getenv("UCX_CONFIG_DIR"); dir != "" {
		paths = append(paths, filepath.Join(dir, "ucx.conf"))
	} else if dir := xdg.New("openucx", "ucx").ConfigHome(); dir != "" {
		paths = append(paths, filepath.Join(dir, "ucx.conf"))
	}

	paths = append(paths, "./ucx.conf")

	return paths
}

// loadConfigFilesOnce builds the aggregate file-variable map exactly
// once per process (spec.md §4.D: "built lazily on the first
// fill_opts call, guarded by a one-shot initialiser, and retained
// until cleanup"), recording every value into the registry's file map
// as it goes.
func loadConfigFilesOnce() map[string]string {
	fileLoadOnce.Do(func() {
		fileLoadResult = make(map[string]string)
		r := globalRegistryInstance()
		for _, path := range configFilePaths() {
			vars, err := loadConfigFile(path)
			if err != nil {
				if !os.IsNotExist(err) {
					logrus.WithError(err).Debugf("config: failed to load %s", path)
				}
				continue
			}
			for name, value := range vars {
				fileLoadResult[name] = value
				r.recordFileVar(name, value)
			}
		}
	})
	return fileLoadResult
}

// loadConfigFile parses one INI-style file and returns its
// (name -> value) map, applying the section host-filter of spec.md
// §4.D. Duplicate keys within the same file, under the same effective
// section, are reported as an error.
func loadConfigFile(path string) (map[string]string, error) {
	// AllowShadows keeps a repeated key's values instead of letting
	// the last one overwrite the others, so the repeat can be reported.
	cfg, err := ini.LoadSources(ini.LoadOptions{AllowShadows: true}, path)
	if err != nil {
		return nil, err
	}

	host := currentHostAttributes()
	out := make(map[string]string)

	for _, section := range cfg.Sections() {
		if !sectionAppliesToHost(section, host) {
			continue
		}
		for _, key := range section.Keys() {
			name := key.Name()
			if probe, ok := hostAttributeNames[strings.ToLower(name)]; ok {
				_ = probe // host-gating lines are consumed, not recorded as values
				continue
			}
			if _, dup := out[name]; dup || len(key.ValueWithShadows()) > 1 {
				return nil, errNoDuplicateKey(path, name)
			}
			out[name] = key.Value()
		}
	}
	return out, nil
}

// sectionAppliesToHost reports whether every host-attribute probe at
// the head of section matches the current host, per spec.md §4.D:
// "Once any line in a section fails, the remainder of that section is
// skipped." Non-probe keys never gate the section.
func sectionAppliesToHost(section *ini.Section, host HostAttributes) bool {
	for _, key := range section.Keys() {
		probe, ok := hostAttributeNames[strings.ToLower(key.Name())]
		if !ok {
			continue
		}
		actual := probe(host)
		if !glob.Glob(strings.ToLower(key.Value()), strings.ToLower(actual)) {
			return false
		}
	}
	return true
}

func errNoDuplicateKey(path, name string) error {
	return &duplicateKeyError{path: path, name: name}
}

type duplicateKeyError struct {
	path, name string
}

func (e *duplicateKeyError) Error() string {
	return "config: duplicate key " + e.name + " in " + e.path
}
