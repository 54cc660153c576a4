package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"ablpp/internal/driver"
	"ablpp/internal/macro"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics [flags] file.p",
	Short: "Count lines, tokens and references of a compile unit",
	Args:  cobra.ExactArgs(1),
	RunE:  runMetrics,
}

func init() {
	metricsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type metricsPayload struct {
	Path           string          `json:"path"`
	Files          []string        `json:"files"`
	LinesOfCode    int             `json:"lines_of_code"`
	CommentedLines int             `json:"commented_lines"`
	Tokens         int             `json:"tokens"`
	Includes       int             `json:"includes"`
	MacroRefs      int             `json:"macro_refs"`
	Directives     int             `json:"directives"`
	AppBuilder     bool            `json:"appbuilder_code"`
	Sections       []macro.Section `json:"editable_sections,omitempty"`
}

func runMetrics(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	out, err := readOutputOptions(cmd)
	if err != nil {
		return err
	}
	opts, err := driverOptions(cmd, filePath, out)
	if err != nil {
		return err
	}

	result, err := driver.Preprocess(cmd.Context(), filePath, opts)
	if err != nil {
		return err
	}
	m := result.Metrics
	payload := metricsPayload{
		Path:           result.Path,
		Files:          result.Files.Paths(),
		LinesOfCode:    m.LinesOfCode,
		CommentedLines: m.CommentedLines,
		Tokens:         m.Tokens,
		Includes:       m.Includes,
		MacroRefs:      m.MacroRefs,
		Directives:     m.Directives,
		AppBuilder:     result.Graph.IsAppBuilderCode(),
		Sections:       result.Graph.Sections(),
	}

	w := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(payload); err != nil {
			return err
		}
		return finishUnit(cmd, result, format, out)
	}

	fmt.Fprintf(w, "unit:            %s\n", payload.Path)
	fmt.Fprintf(w, "files:           %d\n", len(payload.Files))
	fmt.Fprintf(w, "lines of code:   %d\n", payload.LinesOfCode)
	fmt.Fprintf(w, "commented lines: %d\n", payload.CommentedLines)
	fmt.Fprintf(w, "tokens:          %d\n", payload.Tokens)
	fmt.Fprintf(w, "includes:        %d\n", payload.Includes)
	fmt.Fprintf(w, "macro refs:      %d\n", payload.MacroRefs)
	fmt.Fprintf(w, "directives:      %d\n", payload.Directives)
	if payload.AppBuilder {
		fmt.Fprintf(w, "appbuilder code: %d editable sections\n", len(payload.Sections))
		for _, s := range payload.Sections {
			fmt.Fprintf(w, "  lines %d-%d  %s\n", s.StartLine, s.EndLine, s.Args)
		}
	}
	return finishUnit(cmd, result, format, out)
}
