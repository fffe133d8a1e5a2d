package config

import "runtime"

// HostAttributes exposes the three host-identity probes section
// filtering gates on (spec.md §4.D: "CPU vendor, CPU model, DMI
// product name"). The C original reads these from /proc/cpuinfo and
// SMBIOS; this engine has no privileged host-probing of its own
// (out of scope per spec.md §1: "host-identity probes" is an external
// collaborator), so the default implementation below is a best-effort
// stand-in built from what the Go runtime already knows, and callers
// embedding this engine in a real host are expected to supply their
// own HostAttributes.
type HostAttributes interface {
	CPUVendor() string
	CPUModel() string
	ProductName() string
}

// runtimeHostAttributes is the default HostAttributes: coarse,
// architecture-derived values with no SMBIOS or /proc access.
type runtimeHostAttributes struct{}

// DefaultHostAttributes returns the zero-configuration HostAttributes
// used when no caller-supplied one is set with SetHostAttributes.
func DefaultHostAttributes() HostAttributes {
	return runtimeHostAttributes{}
}

func (runtimeHostAttributes) CPUVendor() string {
	switch runtime.GOARCH {
	case "amd64", "386":
		return "GenuineIntel"
	case "arm64", "arm":
		return "ARM"
	default:
		return runtime.GOARCH
	}
}

func (runtimeHostAttributes) CPUModel() string {
	return runtime.GOARCH
}

func (runtimeHostAttributes) ProductName() string {
	return runtime.GOOS
}

// hostAttributeNames maps the recognised section-filter variable
// names (spec.md §4.D) to the HostAttributes accessor that answers
// them.
var hostAttributeNames = map[string]func(HostAttributes) string{
	"cpu vendor":  HostAttributes.CPUVendor,
	"cpu model":   HostAttributes.CPUModel,
	"sys product": HostAttributes.ProductName,
}
