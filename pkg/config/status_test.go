package config

import "testing"

func TestStatusString(t *testing.T) {
	cases := map[Status]string{
		StatusOK:            "OK",
		StatusNoSuchElement: "no such element",
		StatusInvalidParam:  "invalid parameter",
		StatusNoMemory:      "no memory",
		StatusIOError:       "io error",
		Status(99):          "status(99)",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", status, got, want)
		}
	}
}

func TestStatusIsOK(t *testing.T) {
	if !StatusOK.IsOK() {
		t.Error("StatusOK.IsOK() = false, want true")
	}
	if StatusInvalidParam.IsOK() {
		t.Error("StatusInvalidParam.IsOK() = true, want false")
	}
}

func TestStatusError(t *testing.T) {
	var err error = StatusInvalidParam
	if err.Error() != "invalid parameter" {
		t.Errorf("Status as error = %q, want %q", err.Error(), "invalid parameter")
	}
}
