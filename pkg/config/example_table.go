package config

// ExampleOpts exercises most of this package's field kinds end to
// end: an enum, a nested sub-table, and plain scalar fields. It
// mirrors spec.md §8's worked scenarios (MODE enum round-trip,
// IB_QKEY sub-table override precedence) closely enough to serve as
// both the demo table of the ucxconf command (main.go) and a fixture
// for integration tests.
type ExampleOpts struct {
	Mode     int
	LogLevel string
	IB       ExampleIBOpts
}

// ExampleIBOpts is the InfiniBand-transport sub-table referenced from
// ExampleOpts.
type ExampleIBOpts struct {
	QKey       uint64
	TxQueueLen int64
}

// ExampleModeNames is the enum vocabulary of the MODE field, in
// spec.md §8 scenario 1's exact order.
var ExampleModeNames = []string{"signal", "thread_spinlock", "thread_mutex", "poll"}

// NewExampleFields builds the field list shared by NewExampleTable and
// by tests that want to drive resolveField/FillOpts directly without
// touching the global registry.
func NewExampleFields() FieldList {
	ibFields := Fields(
		Real("QKEY", "0", "InfiniBand partition key", FieldByName("QKey"), UIntParser{}),
		Real("TX_QUEUE_LEN", "256", "Send queue depth", FieldByName("TxQueueLen"), IntParser{}),
	)

	return Fields(
		Real("MODE", "signal", "Event notification mechanism", FieldByName("Mode"),
			EnumParser{Names: ExampleModeNames}),
		Real("LOG_LEVEL", "warn", "Logging verbosity", FieldByName("LogLevel"), StringParser{}),
		Table("IB", "IB_", "InfiniBand transport settings", FieldByName("IB"), ibFields),
	)
}

// NewExampleTable registers the "EXAMPLE" table entry with the global
// registry and returns it. Safe to call more than once: RegisterTable
// replaces any prior entry of the same name.
func NewExampleTable() *TableEntry {
	entry := &TableEntry{
		Name:   "EXAMPLE",
		Prefix: "",
		Fields: NewExampleFields(),
		New:    func() interface{} { return &ExampleOpts{} },
	}
	RegisterTable(entry)
	return entry
}
