package preproc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"ablpp/internal/diag"
	"ablpp/internal/include"
	"ablpp/internal/lexer"
	"ablpp/internal/macro"
	"ablpp/internal/source"
	"ablpp/internal/token"
	"ablpp/internal/trace"
)

// Expand interprets one {...} reference for the input.
func (p *Processor) Expand(in *lexer.Input, ref lexer.Reference) (*lexer.Directive, error) {
	rs := lexer.ParseReference(ref.Text, p.cfg.ProparseDirectives)
	switch rs.Kind {
	case lexer.RefEmpty:
		return nil, nil
	case lexer.RefProparse:
		p.graph.MacroRef("_proparse", ref.Pos, ref.End)
		p.graph.MacroRefEnd()
		return &lexer.Directive{Kind: token.ProparseDirective, Text: rs.Name, Pos: ref.Pos}, nil
	case lexer.RefNumbered:
		name := rs.Name
		if rs.Number >= 0 {
			name = strconv.Itoa(rs.Number)
		}
		p.macroRef(in, name, p.store.Arg(rs.Number), ref)
		return nil, nil
	case lexer.RefAllArgs, lexer.RefAllNamedArgs, lexer.RefNamed:
		p.macroRef(in, rs.Name, p.argText(rs.Name, ref), ref)
		return nil, nil
	}
	if p.cfg.LexOnly {
		return &lexer.Directive{Kind: token.IncludeDirective, Text: strings.TrimSpace(ref.Text), Pos: ref.Pos}, nil
	}
	return nil, p.include(in, rs, ref)
}

// Popped closes the graph reference of the source the input dropped.
func (p *Processor) Popped(include bool) {
	if !include {
		p.graph.MacroRefEnd()
		return
	}
	p.graph.IncludeEnd()
	p.store.PopScope()
	if n := len(p.spans); n > 0 {
		p.spans[n-1].End("")
		p.spans = p.spans[:n-1]
	}
}

// macroRef records the reference and splices value into the input. Every
// character of the value is positioned at the reference's '{'.
func (p *Processor) macroRef(in *lexer.Input, name, value string, ref lexer.Reference) {
	p.metrics.MacroRefs++
	p.graph.MacroRef(name, ref.Pos, ref.End)
	if value == "" {
		p.graph.MacroRefEnd()
		return
	}
	in.PushText(value, ref.Pos)
}

// argText is the value of {&name}: local scoped define, named argument,
// outer scoped defines, global define, then the built-in names.
// Unknown names expand to nothing.
func (p *Processor) argText(name string, ref lexer.Reference) string {
	if d := p.store.Lookup(name); d.Kind != 0 {
		return d.Value
	}
	switch name {
	case "*":
		return p.store.AllArgs()
	case "&*":
		return p.store.AllNamedArgs()
	case "batch-mode":
		return strconv.FormatBool(p.cfg.BatchMode)
	case "opsys":
		return p.cfg.Env.OpSys()
	case "process-architecture":
		return strconv.Itoa(p.cfg.Env.ProcessArchitecture())
	case "window-system":
		return p.cfg.WindowSystem
	case "file-name":
		return p.fileName()
	case "line-number":
		return strconv.Itoa(ref.End.Line)
	case "sequence":
		n := p.sequence
		p.sequence++
		return strconv.Itoa(n)
	}
	return ""
}

// fileName is {&FILE-NAME}: the current file as found on the propath, with
// the separators of the session's operating system.
func (p *Processor) fileName() string {
	name := p.store.Arg(0)
	if path, err := p.finder.Resolve(name); err == nil {
		name = path
	}
	if strings.EqualFold(p.cfg.Env.OpSys(), "UNIX") {
		return strings.ReplaceAll(name, `\`, "/")
	}
	return strings.ReplaceAll(name, "/", `\`)
}

// include enters an include file. Nothing happens inside a discarded
// branch or for a blank name.
func (p *Processor) include(in *lexer.Input, rs lexer.RefSpec, ref lexer.Reference) error {
	name := include.Normalize(rs.Name)
	if p.discarding() || name == "" {
		return nil
	}
	id, err := p.load(name)
	if err != nil {
		var nf *diag.IncludeNotFoundError
		if errors.As(err, &nf) {
			nf.Location = in.Location(ref.Pos)
			nf.Name = rs.Name
			return nf
		}
		return fmt.Errorf("%s: include %s: %w", in.Location(ref.Pos).At, rs.Name, err)
	}
	if f := p.files.Get(id); f.Flags&source.FileXCoded != 0 && !p.cfg.SkipXCode {
		return &diag.XCodeEncounteredError{Location: in.Location(ref.Pos), Path: f.Path}
	}

	p.metrics.Includes++
	p.store.PushScope(rs.Name)
	p.graph.Include(rs.Name, id, ref.Pos, ref.End)
	for _, arg := range rs.Args {
		if rs.NamedArgs {
			p.store.AddNamedArg(arg.Name, arg.Value, arg.HasValue)
			p.graph.IncludeArg(arg.Name, arg.Value, arg.HasValue)
			continue
		}
		p.store.AddArg(arg.Value)
		p.graph.IncludeArg("", arg.Value, true)
	}
	p.spans = append(p.spans, trace.Begin(p.tracer, trace.ScopeInclude, "include:"+rs.Name, p.parentSpan()))
	in.PushInclude(id, ref.Pos)
	return nil
}

// load resolves and reads an include once per unit.
func (p *Processor) load(name string) (source.FileID, error) {
	key := xxhash.Sum64String(name)
	if id, ok := p.included[key]; ok {
		return id, nil
	}
	path, err := p.finder.Resolve(name)
	if err != nil {
		return 0, err
	}
	id, err := p.files.Load(path, p.cfg.Encoding)
	if err != nil {
		return 0, err
	}
	p.included[key] = id
	return id, nil
}

func (p *Processor) define(tok token.Token) {
	if p.discarding() || p.cfg.LexOnly {
		return
	}
	p.metrics.Directives++
	name, value := lexer.SplitDefine(tok.Text)
	kind := macro.DefScoped
	if tok.Kind == token.AmpGlobalDefine {
		kind = macro.DefGlobal
		p.store.DefineGlobal(name, value, tok.Pos)
	} else {
		p.store.DefineScoped(name, value, tok.Pos)
	}
	p.graph.Define(kind, name, value, tok.Pos, after(tok))
	trace.Point(p.tracer, trace.ScopeDirective, "&"+kind.String()+"-DEFINE", name+" = "+value, p.parentSpan())
}

func (p *Processor) undefine(tok token.Token) {
	if p.discarding() {
		return
	}
	p.metrics.Directives++
	name := lexer.UndefineName(tok.Text)
	p.graph.Undefine(name, tok.Pos, after(tok))
	p.store.Undefine(name)
	trace.Point(p.tracer, trace.ScopeDirective, "&UNDEFINE", name, p.parentSpan())
}

func (p *Processor) message(tok token.Token) {
	if p.discarding() {
		return
	}
	p.metrics.Directives++
	text := lexer.MessageText(tok.Text)
	diag.ReportInfo(p.cfg.Reporter, diag.PreproMessage, tok.Pos, text).Emit()
	trace.Point(p.tracer, trace.ScopeDirective, "&MESSAGE", text, p.parentSpan())
}
