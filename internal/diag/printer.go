// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/kennel-lang/kennel/internal/severity"
)

// Printer renders diagnostics as multi-line, caret-underlined source
// excerpts, colored when writing to a terminal.
type Printer struct {
	out    io.Writer
	color  bool
	source *SourceCache
}

// NewPrinter builds a Printer writing to w. Color is auto-detected via
// isatty when w is an *os.File; pass color explicitly through
// WithColor to override (e.g. to force it on for a piped log that will
// be viewed with `less -R`).
func NewPrinter(w io.Writer, source *SourceCache) *Printer {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Printer{out: w, color: color, source: source}
}

func (p *Printer) WithColor(on bool) *Printer {
	p.color = on
	return p
}

func (p *Printer) Print(d Diagnostic) {
	fmt.Fprintln(p.out, p.header(d))
	text, ok := p.source.Get(d.Source)
	if !ok {
		return
	}
	fmt.Fprintln(p.out, lineExcerpt(text, d.Span.Start, d.Span.End))
	if d.Hint != "" {
		fmt.Fprintf(p.out, "  hint: %s\n", d.Hint)
	}
}

func (p *Printer) PrintAll(ds []Diagnostic) {
	for _, d := range ds {
		p.Print(d)
	}
}

func (p *Printer) header(d Diagnostic) string {
	label := strings.ToUpper(d.Severity.String())
	if p.color {
		return fmt.Sprintf("%s %s: %s", p.colorFor(d.Severity, label), d.Span, d.Message)
	}
	return fmt.Sprintf("%s %s: %s", label, d.Span, d.Message)
}

func (p *Printer) colorFor(s severity.Severity, label string) string {
	code := "37"
	switch s {
	case severity.Advice:
		code = "36"
	case severity.Warning:
		code = "33"
	case severity.Error:
		code = "31"
	}
	return fmt.Sprintf("\x1b[%sm%s\x1b[0m", code, label)
}

