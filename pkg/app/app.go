package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/openucx/ucxconf/pkg/config"
	"github.com/openucx/ucxconf/pkg/log"
	"github.com/openucx/ucxconf/pkg/utils"
)

// Engine bootstraps the config engine the way the teacher's App
// bootstrapped its Docker/Gui stack (pkg/app/app.go): build a logger,
// wire components, expose a Run-equivalent — here, a call that fills
// and prints one registered table.
type Engine struct {
	Log       *logrus.Entry
	ConfigDir string
	EnvPrefix string
	Entry     *config.TableEntry
	Opts      interface{}
}

// NewEngine constructs an Engine for entry, wired the way NewApp wired
// lazydocker's command/gui layer: a logger first, then the one
// subsystem this binary actually drives.
func NewEngine(entry *config.TableEntry, envPrefix string, debug bool, configDir string) (*Engine, error) {
	if configDir == "" {
		dir, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	e := &Engine{
		ConfigDir: configDir,
		EnvPrefix: envPrefix,
		Entry:     entry,
	}
	e.Log = log.NewLogger(log.Options{
		Debug:     debug,
		ConfigDir: configDir,
		Component: "ucxconf",
	})
	return e, nil
}

// Run fills entry's opts struct from defaults, config files and the
// environment, then reports any unused, possibly-misspelt variables
// (spec.md §4.E, §4.F). It is the Engine analogue of the teacher's
// App.Run driving the gui event loop.
func (e *Engine) Run(ignoreErrors bool) error {
	opts := e.Entry.New()
	status := config.FillOpts(opts, e.Entry, e.EnvPrefix, ignoreErrors)
	if !status.IsOK() {
		e.Log.WithField("status", status.String()).Error("fill_opts failed")
		return status
	}
	e.Opts = opts

	config.PrintEnvVarsOnce(e.EnvPrefix)
	return nil
}

// PrintConfig writes the current opts to w in canonical form (spec.md
// §6 print_opts), defaulting to commented-default annotation.
func (e *Engine) PrintConfig(w io.Writer) error {
	flags := config.PrintConfig | config.PrintDoc | config.PrintHeader | config.PrintCommentDefault
	return config.PrintOpts(w, e.Entry.Name, e.Opts, e.Entry.Fields, e.Entry.Prefix, e.EnvPrefix, flags, "")
}

// PrintFieldTable writes a column-aligned NAME/DEFAULT/DOC listing of
// every field in the entry's table, the header highlighted the way the
// teacher's own CLI output colorized table headers (pkg/utils.ColoredString,
// pkg/utils.RenderTable).
func (e *Engine) PrintFieldTable(w io.Writer) error {
	rows := [][]string{{"NAME", "DEFAULT", "DOC"}}
	rows = append(rows, config.FieldRows(e.Entry.Fields, e.Entry.Prefix)...)

	table, err := utils.RenderTable(rows)
	if err != nil {
		return err
	}

	lines := strings.SplitN(table, "\n", 2)
	fmt.Fprintln(w, utils.ColoredString(lines[0], color.FgCyan))
	if len(lines) > 1 {
		fmt.Fprintln(w, lines[1])
	}
	return nil
}

// Close releases the opts struct filled by Run, the Engine analogue
// of the teacher's App.Close closer list.
func (e *Engine) Close() {
	if e.Opts != nil {
		config.ReleaseOpts(e.Opts, e.Entry.Fields)
		e.Opts = nil
	}
}

type errorMapping struct {
	originalError string
	newError      string
}

// KnownError reports whether err is one this engine can explain in
// plain language rather than with a raw stack trace, the same shape
// as the teacher's own App.KnownError.
func (e *Engine) KnownError(err error) (string, bool) {
	errorMessage := err.Error()

	mappings := []errorMapping{
		{
			originalError: config.StatusInvalidParam.String(),
			newError:      fmt.Sprintf("one or more %s environment variables failed to parse; see the log for details", e.EnvPrefix),
		},
	}

	for _, mapping := range mappings {
		if strings.Contains(errorMessage, mapping.originalError) {
			return mapping.newError, true
		}
	}

	return "", false
}
