package config

import "testing"

func TestRegisterTableAndTables(t *testing.T) {
	name := "REGISTRY_TEST_TABLE"
	entry := &TableEntry{
		Name:   name,
		Fields: Fields(Real("X", "0", "", FieldByName("X"), IntParser{})),
		New:    func() interface{} { return &struct{ X int64 }{} },
	}
	RegisterTable(entry)
	defer func() {
		r := globalRegistryInstance()
		r.mu.Lock()
		delete(r.tables, name)
		r.mu.Unlock()
	}()

	found := false
	for _, e := range Tables() {
		if e.Name == name {
			found = true
		}
	}
	if !found {
		t.Fatal("RegisterTable did not make the entry visible via Tables()")
	}
}

func TestRegisterTableReplacesOnSameName(t *testing.T) {
	name := "REGISTRY_TEST_REPLACE"
	first := &TableEntry{Name: name, Fields: Fields()}
	second := &TableEntry{Name: name, Fields: Fields()}
	RegisterTable(first)
	RegisterTable(second)
	defer func() {
		r := globalRegistryInstance()
		r.mu.Lock()
		delete(r.tables, name)
		r.mu.Unlock()
	}()

	count := 0
	var last *TableEntry
	for _, e := range Tables() {
		if e.Name == name {
			count++
			last = e
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one entry named %s, found %d", name, count)
	}
	if last != second {
		t.Error("re-registering the same name should replace the prior entry")
	}
}

func TestTableEntryLoaded(t *testing.T) {
	entry := &TableEntry{Name: "REGISTRY_TEST_LOADED"}
	if entry.Loaded() {
		t.Error("a fresh TableEntry should not be Loaded")
	}
	entry.markLoaded()
	if !entry.Loaded() {
		t.Error("markLoaded should set Loaded() true")
	}
}

func TestRegistryFileVarAndEnvUsed(t *testing.T) {
	r := globalRegistryInstance()
	r.recordFileVar("PFX_FOO", "bar")
	v, ok := r.lookupFileVar("PFX_FOO")
	if !ok || v != "bar" {
		t.Fatalf("lookupFileVar(PFX_FOO) = (%q, %v), want (bar, true)", v, ok)
	}

	r.markEnvUsed("PFX_FOO")
	unused := r.unusedEnvVars(map[string]string{"PFX_FOO": "bar", "PFX_BAZ": "qux"})
	if len(unused) != 1 || unused[0] != "PFX_BAZ" {
		t.Fatalf("unusedEnvVars = %v, want [PFX_BAZ]", unused)
	}
}

func TestCleanupResetsBookkeepingNotTables(t *testing.T) {
	name := "REGISTRY_TEST_CLEANUP"
	RegisterTable(&TableEntry{Name: name, Fields: Fields()})
	defer func() {
		r := globalRegistryInstance()
		r.mu.Lock()
		delete(r.tables, name)
		r.mu.Unlock()
	}()

	r := globalRegistryInstance()
	r.recordFileVar("PFX_CLEANUP", "x")
	r.markEnvUsed("PFX_CLEANUP")

	Cleanup()

	if _, ok := r.lookupFileVar("PFX_CLEANUP"); ok {
		t.Error("Cleanup should clear the file-var map")
	}
	unused := r.unusedEnvVars(map[string]string{"PFX_CLEANUP": "x"})
	if len(unused) != 1 {
		t.Error("Cleanup should clear the used-env set")
	}

	found := false
	for _, e := range Tables() {
		if e.Name == name {
			found = true
		}
	}
	if !found {
		t.Error("Cleanup should not remove registered tables")
	}
}
