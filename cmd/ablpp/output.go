package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ablpp/internal/diag"
	"ablpp/internal/diagfmt"
	"ablpp/internal/driver"
	"ablpp/internal/source"
	"ablpp/internal/version"
)

// outputOptions collects the global flags every command reads.
type outputOptions struct {
	color          bool
	timings        bool
	maxDiagnostics int
	pathMode       diagfmt.PathMode
}

func readOutputOptions(cmd *cobra.Command) (outputOptions, error) {
	pf := cmd.Root().PersistentFlags()
	var opts outputOptions

	colorFlag, err := pf.GetString("color")
	if err != nil {
		return opts, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(colorFlag) {
	case "on":
		opts.color = true
	case "off":
		opts.color = false
	case "auto", "":
		opts.color = isTerminal(os.Stderr)
	default:
		return opts, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}

	if opts.timings, err = pf.GetBool("timings"); err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if opts.maxDiagnostics, err = pf.GetInt("max-diagnostics"); err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	pathsFlag, err := pf.GetString("paths")
	if err != nil {
		return opts, fmt.Errorf("failed to get paths flag: %w", err)
	}
	mode, ok := diagfmt.ParsePathMode(pathsFlag)
	if !ok {
		return opts, fmt.Errorf("invalid --paths value %q (expected auto|absolute|relative|basename)", pathsFlag)
	}
	opts.pathMode = mode
	return opts, nil
}

// driverOptions builds the driver options of a run over target.
func driverOptions(cmd *cobra.Command, target string, out outputOptions) (driver.Options, error) {
	settings, err := loadSettings(cmd, target)
	if err != nil {
		return driver.Options{}, err
	}
	return driver.Options{
		Settings:       settings,
		MaxDiagnostics: out.maxDiagnostics,
		EnableTimings:  out.timings,
	}, nil
}

// printDiagnostics renders bag to w in the given format. Timing reports
// are printed separately in pretty mode.
func printDiagnostics(w io.Writer, bag *diag.Bag, files *source.FileTable, format string, out outputOptions) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	switch format {
	case "json":
		return diagfmt.JSON(w, bag, files, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         out.pathMode,
			IncludeNotes:     true,
		})
	case "sarif":
		return diagfmt.Sarif(w, bag, files, diagfmt.SarifRunMeta{
			ToolName:       "ablpp",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		})
	default:
		shown := bag.Filter(func(d diag.Diagnostic) bool { return d.Code != diag.ObsTimings })
		if err := diagfmt.Pretty(w, shown, files, diagfmt.PrettyOpts{
			Color:       out.color,
			PathMode:    out.pathMode,
			ShowNotes:   true,
			ShowPreview: true,
		}); err != nil {
			return err
		}
		if n := shown.Dropped(); n > 0 {
			_, err := fmt.Fprintf(w, "%d more diagnostics not shown (raise --max-diagnostics)\n", n)
			return err
		}
		return nil
	}
}

// finishUnit prints the diagnostics of res to stderr and turns a fatal
// unit error into errFailed.
func finishUnit(cmd *cobra.Command, res *driver.Result, format string, out outputOptions) error {
	diagFormat := "pretty"
	if format == "json" {
		diagFormat = "json"
	}
	if err := printDiagnostics(cmd.ErrOrStderr(), res.Bag, res.Files, diagFormat, out); err != nil {
		return err
	}
	if out.timings && diagFormat == "pretty" {
		printTimings(cmd.ErrOrStderr(), res)
	}
	if res.Err != nil {
		return errFailed
	}
	return nil
}
