package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"ablpp/internal/driver"
	"ablpp/internal/ui"
)

// uiMode is the value of --ui: "auto", "on" or "off".
type uiMode string

func readUIMode(value string) (uiMode, error) {
	switch m := uiMode(strings.TrimSpace(strings.ToLower(value))); m {
	case "":
		return "auto", nil
	case "auto", "on", "off":
		return m, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// enabled решает, показывать ли прогресс. В auto нужен терминал и на
// stderr (туда рисует UI), и на stdout, иначе сводка смешается с кадрами.
func (m uiMode) enabled() bool {
	if m == "auto" {
		return isTerminal(os.Stderr) && isTerminal(os.Stdout)
	}
	return m == "on"
}

type dirOutcome struct {
	results []*driver.Result
	err     error
}

// runDirWithUI runs PreprocessDir while a progress view renders its unit
// events on stderr.
func runDirWithUI(ctx context.Context, title, dir string, files []string, opts driver.DirOptions) ([]*driver.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := make(chan driver.UnitEvent, 256)
	outcomeCh := make(chan dirOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.OnUnit = func(ev driver.UnitEvent) { events <- ev }
		res, err := driver.PreprocessDir(ctx, dir, optsCopy)
		outcomeCh <- dirOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// UI закрыт до конца прогона (ctrl+c): останавливаем оставшиеся единицы
	// и дочитываем события, чтобы не блокировать воркеров
	cancel()
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
