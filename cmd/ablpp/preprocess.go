package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ablpp/internal/diagfmt"
	"ablpp/internal/driver"
	"ablpp/internal/source"
)

var preprocessCmd = &cobra.Command{
	Use:   "preprocess [flags] <file.p|directory>",
	Short: "Expand macros, conditionals and includes of ABL sources",
	Long: `Preprocess runs the full preprocessor over one compile unit and prints the
expanded source or its tokens. Given a directory, every .p, .w and .cls file
below it is processed as its own compile unit, in parallel.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreprocess,
}

func init() {
	preprocessCmd.Flags().String("format", "text", "output format (text|tokens|json); directories support text and json summaries")
	preprocessCmd.Flags().Int("jobs", 0, "max parallel units for directory processing (0=auto)")
	preprocessCmd.Flags().Bool("disk-cache", false, "reuse results of unchanged units from the disk cache")
	preprocessCmd.Flags().String("cache-dir", "", "disk cache location (default: user cache dir)")
	preprocessCmd.Flags().String("ui", "auto", "progress view for directories (auto|on|off)")
}

func runPreprocess(cmd *cobra.Command, args []string) error {
	target := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "text", "tokens", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	out, err := readOutputOptions(cmd)
	if err != nil {
		return err
	}
	opts, err := driverOptions(cmd, target, out)
	if err != nil {
		return err
	}
	if opts.Cache, err = openCache(cmd); err != nil {
		return err
	}

	st, err := os.Stat(target)
	if err != nil {
		return err
	}
	if st.IsDir() {
		return preprocessDir(cmd, target, format, opts, out)
	}

	result, err := driver.Preprocess(cmd.Context(), target, opts)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	switch format {
	case "tokens":
		err = diagfmt.FormatTokensPretty(w, result.Tokens)
	case "json":
		err = diagfmt.FormatTokensJSON(w, result.Tokens)
	default:
		err = diagfmt.FormatTokensText(w, result.Tokens)
	}
	if err != nil {
		return err
	}
	return finishUnit(cmd, result, format, out)
}

func openCache(cmd *cobra.Command) (*driver.DiskCache, error) {
	enabled, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	if !enabled {
		return nil, nil
	}
	dir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	if dir != "" {
		return driver.NewDiskCache(dir)
	}
	return driver.OpenDiskCache("ablpp")
}

// unitSummary is one line of a directory run report.
type unitSummary struct {
	Path        string `json:"path"`
	Files       int    `json:"files"`
	Tokens      int    `json:"tokens"`
	Includes    int    `json:"includes"`
	MacroRefs   int    `json:"macro_refs"`
	LinesOfCode int    `json:"lines_of_code"`
	Cached      bool   `json:"cached,omitempty"`
	Error       string `json:"error,omitempty"`
}

func summarize(res *driver.Result) unitSummary {
	s := unitSummary{
		Path:        res.Path,
		Tokens:      res.Metrics.Tokens,
		Includes:    res.Metrics.Includes,
		MacroRefs:   res.Metrics.MacroRefs,
		LinesOfCode: res.Metrics.LinesOfCode,
		Cached:      res.Cached,
	}
	if res.Files != nil {
		s.Files = res.Files.Len()
	}
	if res.Err != nil {
		s.Error = res.Err.Error()
	}
	return s
}

func preprocessDir(cmd *cobra.Command, dir, format string, opts driver.Options, out outputOptions) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	dirOpts := driver.DirOptions{Options: opts, Jobs: jobs}
	var results []*driver.Result
	if mode.enabled() {
		files, err := driver.ListSources(dir)
		if err != nil {
			return err
		}
		results, err = runDirWithUI(cmd.Context(), "preprocess "+dir, dir, files, dirOpts)
		if err != nil {
			return err
		}
	} else {
		results, err = driver.PreprocessDir(cmd.Context(), dir, dirOpts)
		if err != nil {
			return err
		}
	}

	failed := 0
	summaries := make([]unitSummary, 0, len(results))
	for _, res := range results {
		if res == nil {
			continue
		}
		summaries = append(summaries, summarize(res))
		if res.Err != nil {
			failed++
		}
		files := res.Files
		if files == nil {
			files = source.NewFileTable()
		}
		diagFormat := "pretty"
		if format == "json" {
			diagFormat = "json"
		}
		if err := printDiagnostics(cmd.ErrOrStderr(), res.Bag, files, diagFormat, out); err != nil {
			return err
		}
		if out.timings && diagFormat == "pretty" {
			printTimings(cmd.ErrOrStderr(), res)
		}
	}

	if err := writeSummaries(cmd.OutOrStdout(), summaries, format); err != nil {
		return err
	}
	if failed > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d units failed\n", failed, len(summaries))
		return errFailed
	}
	return nil
}

func writeSummaries(w io.Writer, summaries []unitSummary, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}
	for _, s := range summaries {
		status := "ok"
		switch {
		case s.Error != "":
			status = "FAILED"
		case s.Cached:
			status = "cached"
		}
		if _, err := fmt.Fprintf(w, "%-6s %s  files=%d tokens=%d includes=%d refs=%d loc=%d\n",
			status, s.Path, s.Files, s.Tokens, s.Includes, s.MacroRefs, s.LinesOfCode); err != nil {
			return err
		}
	}
	return nil
}
