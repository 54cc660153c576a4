package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ablpp/internal/diagfmt"
	"ablpp/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.p",
	Short: "List the tokens of an ABL source file",
	Long:  `Tokenize lexes a source file without evaluating &IF or expanding includes; include references are listed as INCLUDEDIRECTIVE tokens`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	// Получаем флаги
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

	result, err := driver.Tokenize(cmd.Context(), filePath, opts)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Выводим токены в выбранном формате
	if format == "json" {
		err = diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens)
	} else {
		err = diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens)
	}
	if err != nil {
		return err
	}
	return finishUnit(cmd, result, format, out)
}
