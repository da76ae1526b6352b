package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/colorprofile"

	"github.com/abhisek/quizgen/internal/questiongen"
	"github.com/abhisek/quizgen/internal/ui/components"
)

// printer writes generated questions to stdout. Styled text is downsampled
// to what the terminal supports and stripped when stdout is not a TTY.
type printer struct {
	raw    io.Writer
	styled io.Writer
}

func newPrinter(w io.Writer) *printer {
	return &printer{raw: w, styled: colorprofile.NewWriter(w, os.Environ())}
}

// file prints f in the requested stdout format.
func (p *printer) file(f *questiongen.QuestionFile, format string) error {
	switch format {
	case "json":
		return f.Write(p.raw, questiongen.FormatJSON)
	case "yaml":
		return f.Write(p.raw, questiongen.FormatYAML)
	}
	p.records(f.Questions)
	return nil
}

func (p *printer) records(recs []questiongen.Record) {
	for i, r := range recs {
		p.question(i+1, r)
	}
}

// question prints one record as a numbered card.
func (p *printer) question(num int, r questiongen.Record) {
	fmt.Fprintln(p.styled, components.NewQuestion(num, r).View())
}

func (p *printer) summary(b *questiongen.Batch) {
	fmt.Fprintln(p.styled, components.Summary(len(b.Records), b.Request.Count, b.Dropped, b.Model))
	if w := components.Warnings(b.Warnings); w != "" {
		fmt.Fprintln(p.styled, w)
	}
	fmt.Fprintln(p.styled)
}

// line prints one plain line.
func (p *printer) line(format string, args ...any) {
	fmt.Fprintf(p.raw, format+"\n", args...)
}
