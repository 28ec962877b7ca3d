package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"csorder/internal/diag"
	"csorder/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, caret, note, fix, del, add *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
		fix:    color.New(color.FgMagenta),
		del:    color.New(color.FgRed),
		add:    color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note, p.fix, p.del, p.add} {
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
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pr := prettyPrinter{w: w, fs: fs, opts: opts, pal: newPalette(opts.Color)}
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		pr.diagnostic(&d)
	}
}

type prettyPrinter struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts
	pal  palette
}

func (p *prettyPrinter) location(sp source.Span) string {
	f := p.fs.Get(sp.File)
	path := formatPath(f, p.opts.PathMode, p.fs.BaseDir())
	if f == nil {
		return path
	}
	pos := f.Position(sp.Start)
	return fmt.Sprintf("%s:%d:%d", path, pos.Line, pos.Col)
}

func (p *prettyPrinter) diagnostic(d *diag.Diagnostic) {
	fmt.Fprintf(p.w, "%s: %s %s: %s\n",
		p.location(d.Primary),
		p.pal.severity(d.Severity).Sprint(d.Severity.String()),
		p.pal.code.Sprint(d.Code.ID()),
		d.Message)
	p.snippet(d.Primary)

	if p.opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(p.w, "  %s %s: %s\n", p.pal.note.Sprint("note:"), p.location(n.Span), n.Msg)
		}
	}
	if p.opts.ShowFixes {
		p.fixes(d)
	}
}

// snippet prints the primary line with opts.Context lines around it and a
// caret underline below the primary line.
func (p *prettyPrinter) snippet(sp source.Span) {
	f := p.fs.Get(sp.File)
	if f == nil || f.Size() == 0 {
		return
	}
	start := f.Position(sp.Start)
	end := f.Position(sp.End)
	ctx := uint32(max(p.opts.Context, 0))
	first := start.Line - min(ctx, start.Line-1)
	last := max(start.Line, min(start.Line+ctx, lastLine(f)))
	gutter := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		text := f.GetLine(ln)
		fmt.Fprintf(p.w, "%s %s\n", p.pal.gutter.Sprintf("%*d |", gutter, ln), p.clip(text))
		if ln != start.Line {
			continue
		}
		from := int(start.Col - 1)
		to := len(text)
		if end.Line == start.Line {
			to = min(int(end.Col-1), len(text))
		}
		from = min(from, len(text))
		width := max(1, runewidth.StringWidth(text[from:to]))
		marks := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(p.w, "%s %s%s\n", p.pal.gutter.Sprintf("%*s |", gutter, ""), indentLike(text[:from]), p.pal.caret.Sprint(marks))
	}
}

// lastLine is the number of the last line holding text.
func lastLine(f *source.File) uint32 {
	n := uint32(len(f.LineIdx)) + 1
	if f.Size() > 0 && f.Content[f.Size()-1] == '\n' {
		n--
	}
	return n
}

func (p *prettyPrinter) clip(line string) string {
	if p.opts.Width == 0 {
		return line
	}
	return runewidth.Truncate(line, int(p.opts.Width), "…")
}

// indentLike returns blanks as wide as prefix, keeping its tabs.
func indentLike(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}

func (p *prettyPrinter) fixes(d *diag.Diagnostic) {
	ctx := diag.FixBuildContext{FileSet: p.fs}
	for i, fx := range d.Fixes {
		resolved, err := fx.Resolve(ctx)
		meta := []string{}
		if resolved.ID != "" {
			meta = append(meta, "id="+resolved.ID)
		}
		meta = append(meta, resolved.Applicability.String())
		if resolved.IsPreferred {
			meta = append(meta, "preferred")
		}
		fmt.Fprintf(p.w, "  %s %s (%s)\n", p.pal.fix.Sprintf("fix #%d:", i+1), resolved.Title, strings.Join(meta, ", "))
		if err != nil {
			fmt.Fprintf(p.w, "    build error: %v\n", err)
			continue
		}
		for _, e := range resolved.Edits {
			fmt.Fprintf(p.w, "    edit %s apply=%q\n", p.editLocation(e.Span), shorten(e.NewText, 60))
			if !p.opts.ShowPreview {
				continue
			}
			preview, err := buildFixEditPreview(p.fs, e)
			if err != nil {
				continue
			}
			fmt.Fprintln(p.w, "    preview:")
			for _, l := range preview.before {
				fmt.Fprintf(p.w, "      %s\n", p.pal.del.Sprint("- "+l))
			}
			for _, l := range preview.after {
				fmt.Fprintf(p.w, "      %s\n", p.pal.add.Sprint("+ "+l))
			}
		}
	}
}

func (p *prettyPrinter) editLocation(sp source.Span) string {
	f := p.fs.Get(sp.File)
	return formatPath(f, p.opts.PathMode, p.fs.BaseDir()) + ":" + formatSpan(sp, p.fs)
}

func shorten(s string, limit int) string {
	if runewidth.StringWidth(s) <= limit {
		return s
	}
	return runewidth.Truncate(s, limit, "…")
}
