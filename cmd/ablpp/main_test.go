package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestPreprocessCommandText(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"ablpp.toml":  "propath = [\"inc\"]\n",
		"main.p":      "&GLOBAL-DEFINE who world\n{hello.i}\n&MESSAGE done\n",
		"inc/hello.i": "MESSAGE \"{&who}\".\n",
	})
	stdout, stderr, err := execute(t, "preprocess", "--format", "text", "--color", "off", filepath.Join(dir, "main.p"))
	if err != nil {
		t.Fatalf("preprocess error: %v\nstderr: %s", err, stderr)
	}
	if !strings.Contains(stdout, `MESSAGE "world".`) {
		t.Errorf("stdout = %q", stdout)
	}
	if strings.Contains(stdout, "GLOBAL-DEFINE") {
		t.Errorf("directive leaked into the text: %q", stdout)
	}
	if !strings.Contains(stderr, "INFO PPR2007: done") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestPreprocessCommandDirectory(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"ablpp.toml":   "propath = [\"inc\"]\n",
		"a.p":          "{common.i}\n",
		"broken.p":     "{missing.i}\n",
		"inc/common.i": "x.\n",
	})
	stdout, _, err := execute(t, "preprocess", "--format", "json", "--ui", "off", "--color", "off", dir)
	if !errors.Is(err, errFailed) {
		t.Fatalf("err = %v", err)
	}
	var summaries []unitSummary
	if err := json.Unmarshal([]byte(stdout), &summaries); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	var names, failed []string
	for _, s := range summaries {
		names = append(names, filepath.Base(s.Path))
		if s.Error != "" {
			failed = append(failed, filepath.Base(s.Path))
		}
	}
	if diff := cmp.Diff([]string{"a.p", "broken.p"}, names); diff != "" {
		t.Errorf("units mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"broken.p"}, failed); diff != "" {
		t.Errorf("failed units mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSettingsFlagOverrides(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"ablpp.toml": "propath = [\"inc\"]\nopsys = \"WIN32\"\nbatch-mode = true\n",
		"src/main.p": "x.\n",
	})
	cmd := &cobra.Command{Use: "test"}
	addSettingsFlags(cmd)
	if err := cmd.ParseFlags([]string{"--opsys", "UNIX", "--fail-on-xcode", "--process-architecture", "32"}); err != nil {
		t.Fatal(err)
	}
	s, err := loadSettings(cmd, filepath.Join(dir, "src", "main.p"))
	if err != nil {
		t.Fatalf("loadSettings error: %v", err)
	}
	if s.OpSys != "UNIX" || s.SkipXCode || s.ProcessArchitecture != 32 || !s.BatchMode {
		t.Errorf("settings = %+v", s)
	}
	if diff := cmp.Diff([]string{filepath.Join(dir, "inc")}, s.Propath); diff != "" {
		t.Errorf("propath mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSettingsRejectsBadArchitecture(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	addSettingsFlags(cmd)
	if err := cmd.ParseFlags([]string{"--process-architecture", "16"}); err != nil {
		t.Fatal(err)
	}
	if _, err := loadSettings(cmd, t.TempDir()); err == nil {
		t.Error("expected an error for architecture 16")
	}
}

func TestWriteSummariesText(t *testing.T) {
	var buf bytes.Buffer
	summaries := []unitSummary{
		{Path: "a.p", Files: 2, Tokens: 10, Includes: 1, LinesOfCode: 3},
		{Path: "b.p", Files: 1, Cached: true},
		{Path: "c.p", Error: "boom"},
	}
	if err := writeSummaries(&buf, summaries, "text"); err != nil {
		t.Fatal(err)
	}
	want := "ok     a.p  files=2 tokens=10 includes=1 refs=0 loc=3\n" +
		"cached b.p  files=1 tokens=0 includes=0 refs=0 loc=0\n" +
		"FAILED c.p  files=0 tokens=0 includes=0 refs=0 loc=0\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": "auto", "ON": "on", " off ": "off"} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Error("expected an error")
	}
}

func TestVersionCommandJSON(t *testing.T) {
	stdout, _, err := execute(t, "version", "--format", "json", "--functions")
	if err != nil {
		t.Fatal(err)
	}
	var p versionPayload
	if err := json.Unmarshal([]byte(stdout), &p); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if p.Tool != "ablpp" || p.ProVersion == "" || p.GitCommit != "" {
		t.Errorf("payload = %+v", p)
	}
	if len(p.Functions) == 0 || p.Functions[0] != "ABSOLUTE" {
		t.Errorf("functions = %v", p.Functions)
	}
}
