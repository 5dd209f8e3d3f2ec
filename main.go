package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/integrii/flaggy"
	"github.com/samber/lo"

	"github.com/dfaudit/sigtrack/pkg/app"
	"github.com/dfaudit/sigtrack/pkg/config"
	"github.com/dfaudit/sigtrack/pkg/log"
	"github.com/dfaudit/sigtrack/pkg/sigerr"
)

const defaultVersion = "unversioned"

var (
	commit  string
	version = defaultVersion
	date    string
)

func main() {
	updateBuildInfo()

	cfg := &config.RunConfig{}

	flaggy.SetName("sigtrack")
	flaggy.SetDescription("Signature-state evaluation engine for EDC audit-trail streams")
	flaggy.DefaultParser.AdditionalHelpPrepend = "Reads a pipe-delimited audit-trail stream on stdin."

	flaggy.String(&cfg.ConfigPath, "c", "config", "Signature configuration file (required)")
	flaggy.String(&cfg.DRFPath, "d", "drf", "Re-signing worklist output path")
	flaggy.String(&cfg.XLSPath, "x", "xls", "Workbook report output path")
	flaggy.String(&cfg.DBPath, "D", "db", "Relational audit mirror (SQLite) output path")
	flaggy.String(&cfg.ExclusionPath, "E", "exclusion", "Administrative change-exemption file")
	flaggy.String(&cfg.PriorityFilePath, "P", "priority-file", "Write a priority file and exit, skipping ingestion")
	flaggy.String(&cfg.StudyDir, "s", "studydir", "Study directory containing lib/DFcenters and lib/DFcountries")
	flaggy.Bool(&cfg.AllowSignerChanges, "a", "allow-signer-changes", "Exempt changes made by a signature's own signer")
	flaggy.Bool(&cfg.ArrivedOnly, "A", "arrived-only", "Restrict the workbook to signature plates seen at least once")
	flaggy.Bool(&cfg.ResignWhenFinal, "F", "resign-when-final", "Defer a declined change until its plate reaches a final record status")
	flaggy.Bool(&cfg.SDVMode, "S", "sdv", "Use source-data-verification wording and state table")
	flaggy.Bool(&cfg.Debug, "", "debug", "Enable verbose logging to stderr")
	flaggy.SetVersion(versionString())

	flaggy.Parse()

	logger := log.New(cfg.Debug, version)

	if cfg.PriorityFilePath != "" {
		runApp, err := app.NewApp(cfg, logger)
		if err != nil {
			fail(logger, err)
		}
		if err := runApp.WritePriorityFile(); err != nil {
			fail(logger, err)
		}
		os.Exit(sigerr.ExitSuccess)
	}

	runApp, err := app.NewApp(cfg, logger)
	if err != nil {
		fail(logger, err)
	}

	if err := runApp.Run(os.Stdin); err != nil {
		fail(logger, err)
	}

	runApp.PrintSummary(os.Stdout)
	os.Exit(sigerr.ExitSuccess)
}

func fail(logger interface{ Errorf(string, ...any) }, err error) {
	logger.Errorf("%s", err)
	fmt.Fprintln(os.Stderr, err)
	os.Exit(sigerr.ExitCode(err))
}

func versionString() string {
	return fmt.Sprintf("%s\nCommit: %s\nDate: %s", version, commit, date)
}

func updateBuildInfo() {
	if version != defaultVersion {
		return
	}
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if revision, ok := lo.Find(buildInfo.Settings, func(setting debug.BuildSetting) bool {
		return setting.Key == "vcs.revision"
	}); ok {
		commit = revision.Value
		if len(commit) > 7 {
			version = commit[:7]
		} else {
			version = commit
		}
	}
	if t, ok := lo.Find(buildInfo.Settings, func(setting debug.BuildSetting) bool {
		return setting.Key == "vcs.time"
	}); ok {
		date = t.Value
	}
}
