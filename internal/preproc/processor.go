// Package preproc runs the preprocessor of one compile unit: it drives the
// scanner, expands macro and include references, evaluates &IF chains and
// hands out the visible tokens one at a time.
package preproc

import (
	"context"
	"strconv"

	"ablpp/internal/eval"
	"ablpp/internal/include"
	"ablpp/internal/lexer"
	"ablpp/internal/macro"
	"ablpp/internal/source"
	"ablpp/internal/token"
	"ablpp/internal/trace"
)

// Metrics are counted while the unit is read.
type Metrics struct {
	// LinesOfCode is the number of lines of the main file holding a token other than whitespace.
	LinesOfCode int
	// CommentedLines is the number of lines of the main file touched by a comment.
	CommentedLines int
	Tokens         int
	Includes       int
	MacroRefs      int
	Directives     int
}

// Processor is the preprocessor of one compile unit. It is not safe for
// concurrent use; every unit gets its own.
type Processor struct {
	cfg    Config
	files  *source.FileTable
	main   source.FileID
	store  *macro.Store
	graph  *macro.Graph
	eval   *eval.Evaluator
	finder IncludeFinder

	in *lexer.Input
	sc *lexer.Scanner

	// условная компиляция
	ifs   []ifState
	queue []token.Token

	names nameDotFilter

	// include cache: xxhash(normalized name) -> file
	included map[uint64]source.FileID
	sequence int

	tracer   trace.Tracer
	unitSpan *trace.Span
	spans    []*trace.Span

	metrics Metrics
	last    *token.Token
	err     error
}

// New prepares the unit whose main file is main. The tracer and the
// parent span come from ctx.
func New(ctx context.Context, files *source.FileTable, main source.FileID, cfg Config) *Processor {
	if cfg.Env == nil {
		cfg.Env = eval.DefaultEnv
	}
	if cfg.Finder == nil {
		cfg.Finder = include.NewResolver(cfg.Env.Propath())
	}
	p := &Processor{
		cfg:      cfg,
		files:    files,
		main:     main,
		store:    macro.NewStore(files.Path(main)),
		graph:    macro.NewGraph(),
		eval:     eval.New(cfg.Env),
		finder:   cfg.Finder,
		included: make(map[uint64]source.FileID),
		tracer:   trace.FromContext(ctx),
	}
	p.in = lexer.NewInput(files, main, p, lexer.InputOptions{Backslash: cfg.Backslash, Reporter: cfg.Reporter})
	p.sc = lexer.NewScanner(p.in, lexer.Options{TokenStartChars: cfg.TokenStartChars})
	parent := trace.CurrentSpan(ctx)
	if parent.Unit == "" {
		parent = parent.In(files.Path(main))
	}
	p.unitSpan = trace.Begin(p.tracer, trace.ScopeUnit, "unit", parent)
	if cfg.LexOnly {
		p.names.src = p.lex
	} else {
		p.names.src = p.post
	}
	return p
}

// Next returns the next visible token. Whitespace, comments and directives
// read before it hang off its HiddenBefore chain. At the end of the unit
// Next keeps returning EOF; after a fatal error it returns EOF and the error.
func (p *Processor) Next() (token.Token, error) {
	if p.last != nil {
		return *p.last, p.err
	}
	var hidden *token.Token
	for {
		tok, err := p.names.next()
		if err != nil {
			p.fail(err)
			eof := token.Token{Kind: token.EOF, Pos: tok.Pos, End: tok.Pos, HiddenBefore: hidden}
			p.finish(eof)
			return eof, p.err
		}
		if tok.Kind != token.EOF && tok.Channel != token.ChannelDefault {
			h := tok
			h.HiddenBefore = hidden
			hidden = &h
			continue
		}
		tok.HiddenBefore = hidden
		if tok.Kind == token.EOF {
			p.finish(tok)
			return tok, nil
		}
		p.metrics.Tokens++
		return tok, nil
	}
}

// All drains the unit and returns its visible tokens, the final EOF included.
func (p *Processor) All() ([]token.Token, error) {
	var out []token.Token
	for {
		tok, err := p.Next()
		out = append(out, tok)
		if err != nil {
			return out, err
		}
		if tok.Kind == token.EOF {
			return out, nil
		}
	}
}

func (p *Processor) finish(eof token.Token) {
	p.last = &eof
	for i := len(p.spans) - 1; i >= 0; i-- {
		p.spans[i].End("unwound")
	}
	p.spans = nil
	p.metrics.LinesOfCode = p.sc.LinesOfCode()
	p.metrics.CommentedLines = p.sc.CommentedLines()
	detail := "ok"
	if p.err != nil {
		detail = p.err.Error()
	}
	p.unitSpan.
		Attr("tokens", strconv.Itoa(p.metrics.Tokens)).
		Attr("files", strconv.Itoa(p.files.Len())).
		Attr("events", strconv.Itoa(p.graph.Len())).
		End(detail)
}

// fail records the first fatal error and stops the input.
func (p *Processor) fail(err error) {
	if p.err == nil {
		p.err = err
	}
	p.in.Fail(err)
}

// Err returns the fatal error that ended the unit, if any.
func (p *Processor) Err() error { return p.err }

// Graph returns the macro event graph built so far.
func (p *Processor) Graph() *macro.Graph { return p.graph }

// Store returns the macro definitions as they stand now.
func (p *Processor) Store() *macro.Store { return p.store }

// Files returns the file table of the unit.
func (p *Processor) Files() *source.FileTable { return p.files }

// Metrics returns the counters; line counts are final once EOF was returned.
func (p *Processor) Metrics() Metrics {
	m := p.metrics
	m.LinesOfCode = p.sc.LinesOfCode()
	m.CommentedLines = p.sc.CommentedLines()
	return m
}

// IsAppBuilderCode reports whether the unit contains &ANALYZE-SUSPEND.
func (p *Processor) IsAppBuilderCode() bool { return p.graph.IsAppBuilderCode() }

// lex returns the next lexeme of the scanner and applies the directives
// that take effect as soon as they are read.
func (p *Processor) lex() (token.Token, error) {
	if p.err != nil {
		return token.Token{Kind: token.EOF}, p.err
	}
	tok, err := p.sc.Next()
	if err != nil {
		p.fail(err)
		return tok, err
	}
	switch tok.Kind {
	case token.AmpGlobalDefine, token.AmpScopedDefine:
		p.define(tok)
	case token.AmpUndefine:
		p.undefine(tok)
	case token.AmpAnalyzeSuspend:
		p.metrics.Directives++
		p.graph.AnalyzeSuspend(lexer.AnalyzeSuspendArgs(tok.Text), tok.Pos.Line)
	case token.AmpAnalyzeResume:
		p.metrics.Directives++
		p.graph.AnalyzeResume(tok.Pos.Line)
	case token.AmpMessage:
		p.message(tok)
	}
	if p.tracer.Level() >= trace.LevelDebug {
		trace.Point(p.tracer, trace.ScopeToken, tok.Kind.String(), tok.Text, p.parentSpan())
	}
	return tok, nil
}

func (p *Processor) parentSpan() trace.SpanContext {
	if n := len(p.spans); n > 0 {
		return p.spans[n-1].Context()
	}
	return p.unitSpan.Context()
}

// after returns the position just past the last character of tok.
func after(tok token.Token) source.Pos {
	return source.Pos{File: tok.End.File, Line: tok.End.Line, Col: tok.End.Col + 1}
}
