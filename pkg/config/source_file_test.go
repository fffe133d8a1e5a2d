package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/ini.v1"
)

func writeTestConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ucx.conf")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestLoadConfigFileParsesKeyValues(t *testing.T) {
	path := writeTestConfigFile(t, "LOG_LEVEL = debug\nMODE = poll\n")
	vars, err := loadConfigFile(path)
	if err != nil {
		t.Fatalf("loadConfigFile failed: %v", err)
	}
	if vars["LOG_LEVEL"] != "debug" || vars["MODE"] != "poll" {
		t.Errorf("got %v, want LOG_LEVEL=debug MODE=poll", vars)
	}
}

func TestLoadConfigFileSkipsSectionWhenHostDoesNotMatch(t *testing.T) {
	SetHostAttributes(fakeHostAttributes{vendor: "GenuineIntel", model: "Xeon", product: "TestBox"})
	defer SetHostAttributes(DefaultHostAttributes())

	path := writeTestConfigFile(t, "[section]\ncpu model = NotTheRealModel\nLOG_LEVEL = debug\n")
	vars, err := loadConfigFile(path)
	if err != nil {
		t.Fatalf("loadConfigFile failed: %v", err)
	}
	if _, present := vars["LOG_LEVEL"]; present {
		t.Error("a key after a failing host-gate line must be skipped for the rest of its section")
	}
}

func TestLoadConfigFileAppliesSectionWhenHostMatches(t *testing.T) {
	SetHostAttributes(fakeHostAttributes{vendor: "GenuineIntel", model: "Xeon", product: "TestBox"})
	defer SetHostAttributes(DefaultHostAttributes())

	path := writeTestConfigFile(t, "[section]\ncpu model = Xeon\nLOG_LEVEL = debug\n")
	vars, err := loadConfigFile(path)
	if err != nil {
		t.Fatalf("loadConfigFile failed: %v", err)
	}
	if vars["LOG_LEVEL"] != "debug" {
		t.Errorf("got %v, want LOG_LEVEL=debug once the host gate matches", vars)
	}
}

func TestLoadConfigFileRejectsDuplicateKeyInSameEffectiveSection(t *testing.T) {
	path := writeTestConfigFile(t, "LOG_LEVEL = debug\nLOG_LEVEL = warn\n")
	if _, err := loadConfigFile(path); err == nil {
		t.Error("expected an error for a duplicate key within one effective section")
	}
}

func TestSectionAppliesToHostGlobPattern(t *testing.T) {
	cfg, err := ini.Load([]byte("[s]\ncpu vendor = Genuine*\n"))
	if err != nil {
		t.Fatalf("ini.Load failed: %v", err)
	}
	section, err := cfg.GetSection("s")
	if err != nil {
		t.Fatalf("GetSection failed: %v", err)
	}
	if !sectionAppliesToHost(section, fakeHostAttributes{vendor: "GenuineIntel"}) {
		t.Error("expected the glob pattern Genuine* to match GenuineIntel")
	}
	if sectionAppliesToHost(section, fakeHostAttributes{vendor: "ARM"}) {
		t.Error("expected the glob pattern Genuine* to reject ARM")
	}
}
