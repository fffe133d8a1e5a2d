package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Options controls how NewLogger builds its logger. It replaces the
// teacher's *config.AppConfig argument: this engine's own config
// package is the thing being configured, so the logger cannot depend
// on it without a cycle.
type Options struct {
	Debug     bool
	ConfigDir string
	Component string
}

// NewLogger returns a new logger tagged with component, matching the
// teacher's dev/prod split (pkg/log/log.go): file-backed and
// DEBUG-level when debugging, discarded and error-level otherwise.
func NewLogger(opts Options) *logrus.Entry {
	var log *logrus.Logger
	if opts.Debug || os.Getenv("DEBUG") == "TRUE" {
		log = newDevelopmentLogger(opts.ConfigDir)
	} else {
		log = newProductionLogger()
	}

	log.Formatter = &logrus.JSONFormatter{}

	return log.WithFields(logrus.Fields{
		"debug":     opts.Debug,
		"component": opts.Component,
	})
}

func getLogLevel() logrus.Level {
	strLevel := os.Getenv("LOG_LEVEL")
	level, err := logrus.ParseLevel(strLevel)
	if err != nil {
		return logrus.DebugLevel
	}
	return level
}

func newDevelopmentLogger(configDir string) *logrus.Logger {
	log := logrus.New()
	log.SetLevel(getLogLevel())
	file, err := os.OpenFile(filepath.Join(configDir, "development.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		fmt.Println("unable to log to file")
		os.Exit(1)
	}
	log.SetOutput(file)
	return log
}

func newProductionLogger() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	log.SetLevel(logrus.ErrorLevel)
	return log
}
