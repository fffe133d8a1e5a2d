package config

import "testing"

func TestLookupEnv(t *testing.T) {
	t.Setenv("UCXCONF_TEST_VAR", "hello")
	v, ok := lookupEnv("UCXCONF_TEST_VAR")
	if !ok || v != "hello" {
		t.Errorf("lookupEnv = (%q, %v), want (hello, true)", v, ok)
	}

	if _, ok := lookupEnv("UCXCONF_TEST_VAR_DOES_NOT_EXIST"); ok {
		t.Error("lookupEnv reported a variable that was never set")
	}
}

func TestSnapshotEnvFiltersByPrefix(t *testing.T) {
	t.Setenv("SNAPTEST_A", "1")
	t.Setenv("SNAPTEST_B", "2")
	t.Setenv("OTHERPREFIX_C", "3")

	got := snapshotEnv("SNAPTEST_")
	if len(got) != 2 || got["SNAPTEST_A"] != "1" || got["SNAPTEST_B"] != "2" {
		t.Errorf("got %v, want only the SNAPTEST_ prefixed entries", got)
	}
	if _, present := got["OTHERPREFIX_C"]; present {
		t.Error("snapshotEnv included a variable outside the requested prefix")
	}
}
