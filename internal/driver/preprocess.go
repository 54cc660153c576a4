package driver

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strconv"

	"ablpp/internal/diag"
	"ablpp/internal/include"
	"ablpp/internal/macro"
	"ablpp/internal/observ"
	"ablpp/internal/preproc"
	"ablpp/internal/project"
	"ablpp/internal/source"
	"ablpp/internal/token"
	"ablpp/internal/trace"
)

// Options control one run over one or many compile units.
type Options struct {
	Settings       project.Settings
	MaxDiagnostics int
	// LexOnly keeps include references as tokens and skips &IF evaluation.
	LexOnly bool
	// Resolver is shared by the units of a run; nil means one over Settings.Propath.
	Resolver *include.Resolver
	// Cache stores finished units; nil disables caching.
	Cache         *DiskCache
	EnableTimings bool
	// Observer receives the boundaries of every step.
	Observer PhaseObserver
}

// Result is one preprocessed compile unit.
type Result struct {
	Path    string
	Files   *source.FileTable
	Tokens  []token.Token
	Graph   *macro.Graph
	Metrics preproc.Metrics
	Bag     *diag.Bag
	// Digest keys the unit in the disk cache.
	Digest project.Digest
	Cached bool
	// Err is the fatal error that stopped the unit. Tokens hold what was
	// produced before it.
	Err    error
	Timing *observ.Report
}

// Preprocess runs the preprocessor over the compile unit whose main file
// is path. Only failures to read the main file are returned as errors;
// fatal preprocessor errors end up in Result.Err and in the bag.
func Preprocess(ctx context.Context, path string, opts Options) (*Result, error) {
	var timer *observ.Timer
	if opts.EnableTimings {
		timer = observ.NewTimer()
	}
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "preprocess", trace.CurrentSpan(ctx).In(path))
	ctx = trace.WithSpanContext(ctx, span.Context())

	loadIdx := timer.Begin("load")
	done := opts.Observer.phase("load")
	files := source.NewFileTable()
	main, err := files.Load(path, opts.Settings.Encoding)
	timer.End(loadIdx, "")
	done()
	if err != nil {
		span.End(err.Error())
		return nil, err
	}

	res := &Result{Path: path, Files: files, Bag: diag.NewBag(opts.MaxDiagnostics)}
	res.Digest = project.Combine(opts.Settings.Digest(), unitKey(files.Path(main), files.Get(main).Hash, opts.LexOnly))

	if opts.Cache != nil {
		cacheIdx := timer.Begin("cache")
		hit, err := opts.Cache.load(res, opts.Settings.Encoding)
		timer.End(cacheIdx, strconv.FormatBool(hit))
		if err != nil {
			// битый кеш не мешает работе, просто пересчитываем
			trace.Point(tracer, trace.ScopeDriver, "cache", err.Error(), span.Context())
		}
		if hit {
			res.Timing = report(timer)
			span.Attr("cached", "true").End("ok")
			return res, nil
		}
	}

	cfg := opts.Settings.Config()
	cfg.LexOnly = opts.LexOnly
	cfg.Reporter = diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})
	if opts.Resolver != nil {
		cfg.Finder = opts.Resolver
	} else {
		cfg.Finder = include.NewResolver(opts.Settings.Propath)
	}

	ppIdx := timer.Begin("preprocess")
	done = opts.Observer.phase("preprocess")
	p := preproc.New(ctx, files, main, cfg)
	res.Tokens, res.Err = p.All()
	res.Graph = p.Graph()
	res.Metrics = p.Metrics()
	timer.End(ppIdx, fmt.Sprintf("tokens=%d files=%d", res.Metrics.Tokens, files.Len()))
	done()

	if res.Err != nil {
		if d, ok := diag.AsDiagnostic(res.Err); ok {
			res.Bag.Add(d)
		} else {
			res.Bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.IOLoadFileError, Message: res.Err.Error()})
		}
	} else if opts.Cache != nil {
		if err := opts.Cache.store(res); err != nil {
			trace.Point(tracer, trace.ScopeDriver, "cache", err.Error(), span.Context())
		}
	}

	res.Timing = report(timer)
	if res.Timing != nil {
		appendTimingDiagnostic(res.Bag, timingPayload{Path: path, TotalMS: res.Timing.TotalMS, Phases: res.Timing.Phases})
	}
	detail := "ok"
	if res.Err != nil {
		detail = res.Err.Error()
	}
	span.Attr("tokens", strconv.Itoa(res.Metrics.Tokens)).End(detail)
	return res, nil
}

// unitKey hashes the main file together with its path and the mode, so
// that lex-only and full runs of one file do not share a cache entry.
func unitKey(path string, content project.Digest, lexOnly bool) project.Digest {
	var mode project.Digest
	if lexOnly {
		mode[0] = 1
	}
	return project.Combine(content, sha256.Sum256([]byte(path)), mode)
}

func report(t *observ.Timer) *observ.Report {
	if t == nil {
		return nil
	}
	r := t.Report()
	return &r
}
