// Package render formats dashboard data for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/enrichhq/enrichctl/internal/credential"
	"github.com/enrichhq/enrichctl/internal/export"
	"github.com/enrichhq/enrichctl/internal/jobs"
	"github.com/enrichhq/enrichctl/internal/notice"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)

	statusColors = map[jobs.Status]lipgloss.Color{
		jobs.StatusPending:            lipgloss.Color("245"),
		jobs.StatusProcessing:         lipgloss.Color("33"),
		jobs.StatusCompleted:          lipgloss.Color("34"),
		jobs.StatusFailed:             lipgloss.Color("160"),
		jobs.StatusCreditInsufficient: lipgloss.Color("214"),
		jobs.StatusUnknown:            lipgloss.Color("240"),
	}

	noticeColors = map[notice.Level]lipgloss.Color{
		notice.LevelInfo:    lipgloss.Color("34"),
		notice.LevelWarning: lipgloss.Color("214"),
		notice.LevelError:   lipgloss.Color("160"),
	}
)

// StatusBadge renders a job status. Unrecognised values show as Unknown.
func StatusBadge(s jobs.Status) string {
	display := s.Display()
	return lipgloss.NewStyle().
		Foreground(statusColors[display]).
		Bold(display == jobs.StatusCompleted).
		Render(display.Label())
}

type column struct {
	title string
	width int
	align lipgloss.Position
}

func cell(c column, value string) string {
	return lipgloss.NewStyle().Width(c.width).MaxWidth(c.width).Align(c.align).Render(value)
}

func row(cols []column, values []string) string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = cell(c, values[i])
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

var jobColumns = []column{
	{"", 3, lipgloss.Left},
	{"ID", 14, lipgloss.Left},
	{"FILE", 28, lipgloss.Left},
	{"STATUS", 22, lipgloss.Left},
	{"PROGRESS", 14, lipgloss.Right},
	{"SUCCESS", 9, lipgloss.Right},
	{"CREATED", 18, lipgloss.Right},
}

// JobsPage renders one page of the job view. Jobs in selected get a mark.
func JobsPage(p jobs.Page, selected *export.Selection) string {
	var b strings.Builder

	titles := make([]string, len(jobColumns))
	for i, c := range jobColumns {
		titles[i] = c.title
	}
	b.WriteString(headerStyle.Render(row(jobColumns, titles)))
	b.WriteString("\n")

	if len(p.Items) == 0 {
		b.WriteString(dimStyle.Render("No batches match the current filter."))
		b.WriteString("\n")
	}

	for _, j := range p.Items {
		mark := ""
		if selected != nil && selected.Has(j.ID) {
			mark = "[x]"
		}
		b.WriteString(row(jobColumns, []string{
			mark,
			truncate(j.ID, 13),
			truncate(j.FileName, 27),
			StatusBadge(j.Status),
			fmt.Sprintf("%d/%d %3.0f%%", j.Completed, j.Total, j.Progress()),
			fmt.Sprintf("%.1f%%", j.SuccessRate*100),
			j.CreatedAt.Local().Format("2006-01-02 15:04"),
		}))
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render(fmt.Sprintf("Page %d of %d · %d batch(es)", p.Number, p.TotalPages, p.TotalItems)))
	return b.String()
}

var tokenColumns = []column{
	{"ID", 44, lipgloss.Left},
	{"SECRET", 20, lipgloss.Left},
	{"CREATED", 18, lipgloss.Right},
}

// Tokens renders the token list with secrets masked.
func Tokens(tokens []credential.APIToken) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(row(tokenColumns, []string{"ID", "SECRET", "CREATED"})))
	b.WriteString("\n")
	if len(tokens) == 0 {
		b.WriteString(dimStyle.Render("No API tokens."))
		b.WriteString("\n")
	}
	for _, t := range tokens {
		b.WriteString(row(tokenColumns, []string{
			t.ID,
			MaskSecret(t.Secret),
			t.CreatedAt.Local().Format("2006-01-02 15:04"),
		}))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// MaskSecret keeps the first and last four characters of a secret.
func MaskSecret(secret string) string {
	if len(secret) <= 8 {
		return strings.Repeat("•", len(secret))
	}
	return secret[:4] + "…" + secret[len(secret)-4:]
}

// Notice renders a notice with its level color.
func Notice(n notice.Notice) string {
	label := lipgloss.NewStyle().Bold(true).Foreground(noticeColors[n.Level]).Render(strings.ToUpper(string(n.Level)))
	return label + " " + n.Message
}

// Outcome renders an export outcome with per-target failures.
func Outcome(o export.Outcome) string {
	var b strings.Builder
	b.WriteString(Notice(o.Notice()))
	for _, id := range o.Succeeded {
		b.WriteString("\n  ✓ " + id)
	}
	for _, f := range o.Failed {
		b.WriteString(fmt.Sprintf("\n  ✗ %s: %s", f.ID, f.Reason))
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
