package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"ablpp/internal/diag"
	"ablpp/internal/source"
)

// palette держит цвета одного вызова Pretty
type palette struct {
	err, warn, info, note, loc, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue),
		loc:    color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.loc, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() в порядке добавления.
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку исходника с ^ под колонкой, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, files *source.FileTable, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		if err := prettyOne(w, d, files, opts, pal); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, d diag.Diagnostic, files *source.FileTable, opts PrettyOpts, pal palette) error {
	var b strings.Builder
	if d.Primary.IsValid() {
		b.WriteString(pal.loc.Sprintf("%s:%d:%d:", displayPath(files, d.Primary.File, opts.PathMode, opts.BaseDir), d.Primary.Line, d.Primary.Col))
		b.WriteByte(' ')
	}
	b.WriteString(pal.severity(d.Severity).Sprintf("%s %s", d.Severity, d.Code.ID()))
	b.WriteString(": ")
	b.WriteString(d.Message)
	b.WriteByte('\n')

	if opts.ShowPreview && d.Primary.IsValid() {
		writePreview(&b, files, d.Primary, opts.Width, pal)
	}

	// Notes: таймингам заметка нужна всегда, там весь отчёт
	if opts.ShowNotes || d.Code == diag.ObsTimings {
		for _, n := range d.Notes {
			b.WriteString("  ")
			b.WriteString(pal.note.Sprint("note:"))
			b.WriteByte(' ')
			if n.Pos.IsValid() {
				fmt.Fprintf(&b, "%s:%d:%d: ", displayPath(files, n.Pos.File, opts.PathMode, opts.BaseDir), n.Pos.Line, n.Pos.Col)
			}
			b.WriteString(n.Msg)
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// writePreview печатает строку исходника и каретку под колонкой pos.
func writePreview(b *strings.Builder, files *source.FileTable, pos source.Pos, width uint8, pal palette) {
	if files == nil || int(pos.File) >= files.Len() {
		return
	}
	f := files.Get(pos.File)
	lineNum, err := safecast.Conv[uint32](pos.Line)
	if err != nil || int(lineNum) > f.LineCount() {
		return
	}
	line := strings.TrimRight(f.GetLine(lineNum), "\r")

	gutter := fmt.Sprintf("%4d | ", pos.Line)
	b.WriteString(pal.gutter.Sprint(gutter))
	shown := line
	if width > 0 && runewidth.StringWidth(line) > int(width) {
		shown = runewidth.Truncate(line, int(width), "...")
	}
	b.WriteString(shown)
	b.WriteByte('\n')

	b.WriteString(pal.gutter.Sprint(strings.Repeat(" ", len(gutter)-2) + "| "))
	b.WriteString(caretPadding(line, pos.Col))
	b.WriteString(pal.caret.Sprint("^"))
	b.WriteByte('\n')
}

// caretPadding повторяет табы строки и учитывает ширину широких рун,
// чтобы ^ встал под символ с колонкой col (1-based, в рунах).
func caretPadding(line string, col int) string {
	var pad strings.Builder
	i := 1
	for _, r := range line {
		if i >= col {
			break
		}
		if r == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
		}
		i++
	}
	return pad.String()
}
