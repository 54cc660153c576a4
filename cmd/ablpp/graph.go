package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ablpp/internal/diagfmt"
	"ablpp/internal/driver"
)

var graphCmd = &cobra.Command{
	Use:   "graph [flags] file.p",
	Short: "Show the macro and include graph of a compile unit",
	Long:  `Graph preprocesses a compile unit and prints every define, undefine, macro reference and include it met, nested by include`,
	Args:  cobra.ExactArgs(1),
	RunE:  runGraph,
}

func init() {
	graphCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	graphCmd.Flags().Bool("external", false, "list only the references that reach outside their include")
}

func runGraph(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	external, err := cmd.Flags().GetBool("external")
	if err != nil {
		return fmt.Errorf("failed to get external flag: %w", err)
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

	w := cmd.OutOrStdout()
	switch {
	case external:
		err = diagfmt.FormatExternalRefs(w, result.Graph, result.Files, out.pathMode, format)
	case format == "json":
		err = diagfmt.FormatGraphJSON(w, result.Graph, result.Files, out.pathMode)
	default:
		err = diagfmt.FormatGraphPretty(w, result.Graph, result.Files, out.pathMode)
	}
	if err != nil {
		return err
	}
	return finishUnit(cmd, result, format, out)
}
