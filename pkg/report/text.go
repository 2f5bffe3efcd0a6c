package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize/english"
	"github.com/muesli/termenv"

	"github.com/flindersuni/xamlstyle/pkg/lint"
)

type styles struct {
	file    lipgloss.Style
	note    lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
	message lipgloss.Style
	ok      lipgloss.Style
}

func newStyles(out io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(out)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}

	return styles{
		file:    r.NewStyle().Bold(true),
		note:    r.NewStyle().Faint(true),
		warning: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FFD75F"}).Bold(true),
		err:     r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF5F87"}).Bold(true),
		message: r.NewStyle().PaddingLeft(2),
		ok:      r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1E8449", Dark: "#5FD787"}),
	}
}

func writeText(out io.Writer, r *lint.Report, color bool) error {
	s := newStyles(out, color)

	var b strings.Builder

	for _, f := range r.Files {
		if f.Result().Empty() {
			continue
		}

		header := s.file.Render(f.Path)
		if f.Library {
			header += " " + s.note.Render("(public)")
		}

		b.WriteString(header + "\n")
		writeMessages(&b, s, f.Result())
		b.WriteString("\n")
	}

	if !r.Project.Empty() {
		name := r.Name
		if name == "" {
			name = "project"
		}

		b.WriteString(s.file.Render(name) + " " + s.note.Render("(project)") + "\n")
		writeMessages(&b, s, r.Project)
		b.WriteString("\n")
	}

	b.WriteString(summaryLine(s, Summarize(r)) + "\n")

	if r.Offline {
		b.WriteString(s.note.Render("Project checks were skipped.") + "\n")
	}

	_, err := io.WriteString(out, b.String())
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

func writeMessages(b *strings.Builder, s styles, res lint.Result) {
	for _, msg := range res.Errors {
		b.WriteString(s.message.Render(s.err.Render("error") + " " + msg))
		b.WriteString("\n")
	}

	for _, msg := range res.Warnings {
		b.WriteString(s.message.Render(s.warning.Render("warning") + " " + msg))
		b.WriteString("\n")
	}
}

func summaryLine(s styles, sum Summary) string {
	workflows := english.Plural(sum.Files, "workflow", "")
	if sum.Errors == 0 && sum.Warnings == 0 {
		return s.ok.Render(fmt.Sprintf("No problems found in %s.", workflows))
	}

	line := fmt.Sprintf("%s and %s in %d of %s.",
		english.Plural(sum.Errors, "error", ""),
		english.Plural(sum.Warnings, "warning", ""),
		sum.FilesWithProblems,
		workflows,
	)

	if sum.Errors > 0 {
		return s.err.Render(line)
	}

	return s.warning.Render(line)
}
