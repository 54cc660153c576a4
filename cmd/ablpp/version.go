package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"ablpp/internal/eval"
	"ablpp/internal/version"
)

const versionTagline = "every &IF has its &ENDIF"

// versionPayload is both the JSON output and the source of the pretty one.
// Optional fields stay empty unless their flag asked for them.
type versionPayload struct {
	Tool       string   `json:"tool"`
	Version    string   `json:"version"`
	Tagline    string   `json:"tagline"`
	ProVersion string   `json:"proversion"`
	GitCommit  string   `json:"git_commit,omitempty"`
	GitMessage string   `json:"git_message,omitempty"`
	BuildDate  string   `json:"build_date,omitempty"`
	Functions  []string `json:"functions,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the ablpp version and what it emulates",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		format, err := f.GetString("format")
		if err != nil {
			return err
		}
		full, _ := f.GetBool("full")
		want := func(name string) bool {
			v, _ := f.GetBool(name)
			return v || full
		}

		p := versionPayload{
			Tool:       "ablpp",
			Version:    orDefault(version.Version, "dev"),
			Tagline:    versionTagline,
			ProVersion: eval.DefaultEnv.Version,
		}
		if want("hash") {
			p.GitCommit = orDefault(version.GitCommit, "unknown")
		}
		if want("message") {
			p.GitMessage = orDefault(version.GitMessage, "unknown")
		}
		if want("date") {
			p.BuildDate = orDefault(version.BuildDate, "unknown")
		}
		if want("functions") {
			p.Functions = eval.Functions()
		}

		switch strings.ToLower(format) {
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		case "pretty":
			colored := false
			if out, err := readOutputOptions(cmd); err == nil {
				colored = out.color
			}
			renderVersionPretty(cmd.OutOrStdout(), p, colored)
			return nil
		}
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	},
}

func init() {
	f := versionCmd.Flags()
	f.Bool("hash", false, "include git commit hash")
	f.Bool("message", false, "include git commit message")
	f.Bool("date", false, "include build timestamp")
	f.Bool("functions", false, "list the functions &IF conditions may call")
	f.Bool("full", false, "show everything above")
	f.String("format", "pretty", "output format (pretty|json)")
}

func renderVersionPretty(out io.Writer, p versionPayload, colored bool) {
	v := p.Version
	if colored {
		v = version.Colored(v)
	}
	fmt.Fprintf(out, "ablpp %s: %s\n", v, p.Tagline)
	fmt.Fprintf(out, "emulates PROVERSION %s\n", p.ProVersion)
	for _, row := range [][2]string{
		{"commit", p.GitCommit},
		{"message", p.GitMessage},
		{"built", p.BuildDate},
	} {
		if row[1] != "" {
			fmt.Fprintf(out, "%-8s %s\n", row[0]+":", row[1])
		}
	}
	if len(p.Functions) > 0 {
		fmt.Fprintf(out, "functions: %s\n", strings.Join(p.Functions, ", "))
	}
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
