package main

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/go-errors/errors"
	"github.com/integrii/flaggy"
	"github.com/samber/lo"

	"github.com/openucx/ucxconf/pkg/app"
	"github.com/openucx/ucxconf/pkg/config"
	"github.com/openucx/ucxconf/pkg/utils"
)

const DEFAULT_VERSION = "unversioned"

var (
	commit      string
	version     = DEFAULT_VERSION
	date        string
	buildSource = "unknown"

	dumpFlag      = false
	dumpAllFlag   = false
	yamlFlag      = false
	fieldsFlag    = false
	debuggingFlag = false
	ignoreErrFlag = false
	envPrefix     = "UCX_"
)

func main() {
	updateBuildInfo()

	info := fmt.Sprintf(
		"%s\nDate: %s\nBuildSource: %s\nCommit: %s\nOS: %s\nArch: %s",
		version,
		date,
		buildSource,
		commit,
		runtime.GOOS,
		runtime.GOARCH,
	)

	flaggy.SetName("ucxconf")
	flaggy.SetDescription("Hierarchical typed configuration engine demo")
	flaggy.DefaultParser.AdditionalHelpPrepend = "https://github.com/openucx/ucx"

	flaggy.Bool(&dumpFlag, "c", "config", "Print the current config for the example table")
	flaggy.Bool(&dumpAllFlag, "a", "all-config", "Print the current config for every registered table")
	flaggy.Bool(&yamlFlag, "y", "yaml", "Dump the example table's config as YAML instead of the ini-style form")
	flaggy.Bool(&fieldsFlag, "l", "list-fields", "Print every field's name, default and documentation in a table")
	flaggy.Bool(&debuggingFlag, "d", "debug", "a boolean")
	flaggy.Bool(&ignoreErrFlag, "i", "ignore-errors", "fall back to defaults instead of failing on a malformed value")
	flaggy.String(&envPrefix, "p", "prefix", "environment variable prefix to apply the example table under")
	flaggy.SetVersion(info)

	flaggy.Parse()

	projectDir, err := os.Getwd()
	if err != nil {
		log.Fatal(err.Error())
	}

	entry := config.NewExampleTable()

	engine, err := app.NewEngine(entry, envPrefix, debuggingFlag, projectDir)
	if err != nil {
		log.Fatal(err.Error())
	}

	err = engine.Run(ignoreErrFlag)
	if err == nil {
		err = printRequested(engine)
	}
	engine.Close()

	if err != nil {
		if errMessage, known := engine.KnownError(err); known {
			log.Println(errMessage)
			os.Exit(0)
		}

		newErr := errors.Wrap(err, 0)
		stackTrace := newErr.ErrorStack()
		engine.Log.Error(stackTrace)

		log.Fatalf("an error occurred\n\n%s", stackTrace)
	}
}

func printRequested(engine *app.Engine) error {
	if yamlFlag {
		out, err := config.DumpYAML(engine.Opts, engine.Entry.Fields)
		if err != nil {
			return err
		}
		fmt.Printf("%s\n", out)
		return nil
	}
	if dumpAllFlag {
		return config.PrintAllOpts(os.Stdout, envPrefix, config.PrintConfig|config.PrintDoc|config.PrintHeader, "")
	}
	if dumpFlag {
		return engine.PrintConfig(os.Stdout)
	}
	if fieldsFlag {
		return engine.PrintFieldTable(os.Stdout)
	}
	return nil
}

func updateBuildInfo() {
	if version == DEFAULT_VERSION {
		if buildInfo, ok := debug.ReadBuildInfo(); ok {
			revision, ok := lo.Find(buildInfo.Settings, func(setting debug.BuildSetting) bool {
				return setting.Key == "vcs.revision"
			})
			if ok {
				commit = revision.Value
				// if ucxconf was built from source we'll show the version as the
				// abbreviated commit hash
				version = utils.SafeTruncate(revision.Value, 7)
			}

			// if version hasn't been set we assume that neither has the date
			time, ok := lo.Find(buildInfo.Settings, func(setting debug.BuildSetting) bool {
				return setting.Key == "vcs.time"
			})
			if ok {
				date = time.Value
			}
		}
	}
}
