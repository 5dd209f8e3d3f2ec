// Package app wires the configuration registry, exclusion and center
// reference data, ingestion engine, evaluator, and output emitters into
// one run, matching the sequencing pkg/app/app.go's NewApp/Run gives the
// GUI bootstrap — minus the GUI, since this tool runs to completion and
// exits.
package app

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/dfaudit/sigtrack/pkg/centers"
	"github.com/dfaudit/sigtrack/pkg/config"
	"github.com/dfaudit/sigtrack/pkg/emit"
	"github.com/dfaudit/sigtrack/pkg/evaluator"
	"github.com/dfaudit/sigtrack/pkg/exclusions"
	"github.com/dfaudit/sigtrack/pkg/ingest"
	"github.com/dfaudit/sigtrack/pkg/sigconfig"
	"github.com/dfaudit/sigtrack/pkg/sigerr"
	"github.com/dfaudit/sigtrack/pkg/sigmodel"
	"github.com/dfaudit/sigtrack/pkg/state"
	"github.com/dfaudit/sigtrack/pkg/tokenrec"
)

// App holds the state built up over one run.
type App struct {
	Config *config.RunConfig
	Log    *logrus.Entry

	registry  *sigconfig.Registry
	excl      *exclusions.Registry
	centerReg centers.Registry
	mirror    *emit.Mirror
	engine    *ingest.Engine
}

// NewApp parses the signature-configuration file and loads the optional
// exclusion and center/country reference data named in cfg, matching the
// config-loading section of main() (up to, but not including, the
// priority-file short-circuit and process_input call).
func NewApp(cfg *config.RunConfig, log *logrus.Entry) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, sigerr.NewComplexError(sigerr.ExitConfigError, "%s", err)
	}

	f, err := os.Open(cfg.ConfigPath)
	if err != nil {
		return nil, sigerr.NewComplexError(sigerr.ExitConfigError, "unable to open configuration file %q: %s", cfg.ConfigPath, err)
	}
	defer f.Close()

	result, err := sigconfig.Parse(f)
	if err != nil {
		return nil, sigerr.NewComplexError(sigerr.ExitConfigError, "reading configuration file %q: %s", cfg.ConfigPath, err)
	}
	if result.ErrorCount > 0 {
		return nil, sigerr.NewComplexError(sigerr.ExitConfigError, "%d error(s) in configuration file %q", result.ErrorCount, cfg.ConfigPath)
	}

	app := &App{Config: cfg, Log: log, registry: result.Registry}

	if cfg.ExclusionPath != "" {
		ef, err := os.Open(cfg.ExclusionPath)
		if err != nil {
			return nil, sigerr.NewComplexError(sigerr.ExitConfigError, "unable to open exclusion file %q: %s", cfg.ExclusionPath, err)
		}
		defer ef.Close()
		app.excl, err = exclusions.Load(ef)
		if err != nil {
			return nil, sigerr.NewComplexError(sigerr.ExitConfigError, "reading exclusion file %q: %s", cfg.ExclusionPath, err)
		}
	}

	if cfg.StudyDir != "" {
		if err := app.loadCenters(); err != nil {
			log.WithError(err).Warn("unable to load center/country reference files")
		}
	}

	return app, nil
}

func (app *App) loadCenters() error {
	if path := app.Config.CentersPath(); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening center reference file %q: %w", path, err)
		}
		defer f.Close()
		list, err := centers.LoadCenters(f)
		if err != nil {
			return fmt.Errorf("reading center reference file %q: %w", path, err)
		}
		app.centerReg.Centers = list
	}
	if path := app.Config.CountriesPath(); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening country reference file %q: %w", path, err)
		}
		defer f.Close()
		list, err := centers.LoadCountries(f)
		if err != nil {
			return fmt.Errorf("reading country reference file %q: %w", path, err)
		}
		app.centerReg.Countries = list
	}
	return nil
}

// WritePriorityFile writes the priority file named in cfg and returns,
// matching main()'s "if (priority_file) { ...; exit(0); }" short circuit
// — the caller should exit immediately after this without ingesting.
func (app *App) WritePriorityFile() error {
	f, err := os.Create(app.Config.PriorityFilePath)
	if err != nil {
		return sigerr.NewComplexError(sigerr.ExitOutputError, "unable to create priority file %q: %s", app.Config.PriorityFilePath, err)
	}
	defer f.Close()
	return emit.WritePriorityFile(f, app.registry)
}

// Run ingests audit records from r to EOF, evaluates the resulting
// signature-node tree, and writes every output artifact named in the
// run configuration, matching the body of main() from process_input
// through write_xls/db_close.
func (app *App) Run(r io.Reader) error {
	if app.Config.DBPath != "" {
		m, err := emit.OpenMirror(app.Config.DBPath, func(format string, args ...any) {
			app.Log.Warnf(format, args...)
		})
		if err != nil {
			return sigerr.NewComplexError(sigerr.ExitOutputError, "%s", err)
		}
		app.mirror = m
		defer app.mirror.Close()
	}

	app.engine = ingest.NewEngine(app.registry, app.excl, app.mirror)
	if err := app.engine.Run(tokenrec.NewReader(r, '|')); err != nil {
		return sigerr.NewComplexError(sigerr.ExitInputError, "%s", err)
	}

	evaluator.Evaluate(app.engine.Tree(), app.Config.AllowSignerChanges, app.Config.ResignWhenFinal)

	if app.Config.DRFPath != "" {
		if err := app.writeDRF(); err != nil {
			return sigerr.NewComplexError(sigerr.ExitOutputError, "%s", err)
		}
	}

	if app.Config.XLSPath != "" {
		if err := app.writeWorkbook(); err != nil {
			return sigerr.NewComplexError(sigerr.ExitOutputError, "%s", err)
		}
	}

	return nil
}

func (app *App) writeDRF() error {
	f, err := os.Create(app.Config.DRFPath)
	if err != nil {
		return fmt.Errorf("unable to create DRF output file %q: %w", app.Config.DRFPath, err)
	}
	defer f.Close()
	return emit.WriteDRF(f, app.engine.Tree())
}

func (app *App) writeWorkbook() error {
	f, err := os.Create(app.Config.XLSPath)
	if err != nil {
		return fmt.Errorf("unable to create workbook output file %q: %w", app.Config.XLSPath, err)
	}
	defer f.Close()
	return emit.WriteWorkbook(f, app.engine.Tree(), emit.WorkbookOptions{
		ArrivedOnly: app.Config.ArrivedOnly,
		SDVMode:     app.Config.SDVMode,
		Centers:     app.centerReg.Centers,
		Countries:   app.centerReg.Countries,
	})
}

// PrintSummary writes a short colorized tally of the evaluated tree's
// state names to w, one count per distinct state string, in place of the
// GUI's live panel.
func (app *App) PrintSummary(w io.Writer) {
	counts := map[string]int{}
	order := make([]string, 0)
	app.engine.Tree().Ascend(func(n *sigmodel.Node) bool {
		label := state.Describe(n.Status, app.Config.SDVMode)
		if counts[label] == 0 {
			order = append(order, label)
		}
		counts[label]++
		return true
	})

	bold := color.New(color.Bold)
	bold.Fprintln(w, "Signature evaluation complete")
	for _, label := range order {
		fmt.Fprintf(w, "  %-30s %d\n", label, counts[label])
	}
}
