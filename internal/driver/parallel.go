package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"ablpp/internal/diag"
	"ablpp/internal/include"
)

// SourceExtensions are the main file extensions PreprocessDir picks up.
// Include files (.i) are only read through references.
var SourceExtensions = []string{".p", ".w", ".cls"}

// UnitEvent reports the progress of a directory run.
type UnitEvent struct {
	Path  string
	Index int
	Total int
	Done  bool
	// Set on finished units only.
	Err    error
	Cached bool
	Tokens int
}

// DirOptions extend Options for directory runs.
type DirOptions struct {
	Options
	// Jobs limits the units processed at once; 0 means GOMAXPROCS.
	Jobs int
	// OnUnit is called when a unit starts and when it finishes. It may be
	// called from several goroutines at once.
	OnUnit func(UnitEvent)
}

// ListSources возвращает отсортированный список исходников в директории
func ListSources(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if slices.Contains(SourceExtensions, strings.ToLower(filepath.Ext(path))) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	slices.Sort(files)
	return files, nil
}

// PreprocessDir preprocesses every compile unit under dir in parallel. The
// results follow the sorted file order. A unit that fails does not stop the
// others; only cancellation of ctx does.
func PreprocessDir(ctx context.Context, dir string, opts DirOptions) ([]*Result, error) {
	files, err := ListSources(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	// Один resolver на весь прогон: кеш поиска по propath общий
	if opts.Resolver == nil {
		opts.Resolver = include.NewResolver(opts.Settings.Propath)
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	onUnit := opts.OnUnit
	if onUnit == nil {
		onUnit = func(UnitEvent) {}
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]*Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			// Проверка отмены
			if err := gctx.Err(); err != nil {
				return err
			}
			onUnit(UnitEvent{Path: path, Index: i, Total: len(files)})

			res, err := Preprocess(gctx, path, opts.Options)
			if err != nil {
				// Файл не загрузился, создаём результат с ошибкой I/O
				res = &Result{Path: path, Bag: diag.NewBag(opts.MaxDiagnostics), Err: err}
				res.Bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.IOLoadFileError,
					Message:  "failed to load file: " + err.Error(),
				})
			}
			results[i] = res
			onUnit(UnitEvent{
				Path: path, Index: i, Total: len(files), Done: true,
				Err: res.Err, Cached: res.Cached, Tokens: res.Metrics.Tokens,
			})
			return nil
		})
	}

	// Ждём завершения всех горутин
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
