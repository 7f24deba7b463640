package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/camelcase"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/openkraft/codereview/internal/domain"
)

// ── Claude-inspired warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
	suggest = lipgloss.Color("#60A5FA") // soft blue
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2).
			Width(68)

	dimStyle        = lipgloss.NewStyle().Foreground(dim)
	faintStyle      = lipgloss.NewStyle().Foreground(faint)
	passStyle       = lipgloss.NewStyle().Foreground(success)
	failStyle       = lipgloss.NewStyle().Foreground(danger)
	errorTagStyle   = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle    = lipgloss.NewStyle().Foreground(warning).Bold(true)
	suggestTagStyle = lipgloss.NewStyle().Foreground(suggest)
	infoTagStyle    = lipgloss.NewStyle().Foreground(info)
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(fg)
	fixStyle        = lipgloss.NewStyle().Foreground(success).Italic(true)
	separatorLine   = faintStyle.Render(strings.Repeat("─", 64))
)

const (
	locationWidth = 9
	messageWidth  = 88
	markdownWrap  = 80
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Renderer formats review results for a terminal. Markdown from the LLM
// stage is rendered with glamour.
type Renderer struct {
	markdown *glamour.TermRenderer
}

// NewRenderer creates a renderer. Markdown is rendered with glamour only when
// tty is set; otherwise LLM text is written verbatim, indented.
func NewRenderer(tty bool) *Renderer {
	if !tty {
		return &Renderer{}
	}
	// A nil renderer falls back to indented plain text.
	md, _ := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(markdownWrap))
	return &Renderer{markdown: md}
}

// RenderReview formats the diagnostics for one file. Diagnostics are listed
// in pipeline order.
func (r *Renderer) RenderReview(path string, lang domain.Language, diags []domain.Diagnostic) string {
	var b strings.Builder

	header := titleStyle.Render(shortenPath(path)) + "  " + dimStyle.Render(string(lang))
	b.WriteString(boxStyle.Render(header + "\n" + countLine(diags)))
	b.WriteString("\n\n")

	if len(diags) == 0 {
		b.WriteString("  " + passStyle.Render("No issues found.") + "\n\n")
		return b.String()
	}

	for _, d := range diags {
		r.renderDiagnostic(&b, d)
	}
	b.WriteString("\n")
	return b.String()
}

func (r *Renderer) renderDiagnostic(b *strings.Builder, d domain.Diagnostic) {
	loc := runewidth.FillRight(fmt.Sprintf("%d:%d", d.Line, d.Column), locationWidth)

	if d.RuleID == domain.RuleLLMReview {
		fmt.Fprintf(b, "    %s %s %s\n", severityTag(d.Severity), dimStyle.Render(loc), titleStyle.Render("LLM Review"))
		b.WriteString(r.renderMarkdown(strings.TrimPrefix(d.Message, "LLM Review: ")))
		return
	}

	fmt.Fprintf(b, "    %s %s %s\n", severityTag(d.Severity), dimStyle.Render(loc), truncate(d.Message, messageWidth))
	if d.RuleID != "" {
		rule := d.RuleID
		if title := RuleTitle(d.RuleID); title != "" && title != rule {
			rule += "  " + title
		}
		fmt.Fprintf(b, "         %s %s\n", strings.Repeat(" ", locationWidth), faintStyle.Render(rule))
	}
	if d.Fix != "" {
		fmt.Fprintf(b, "         %s %s\n", strings.Repeat(" ", locationWidth), fixStyle.Render("fix: "+strings.TrimSpace(d.Fix)))
	}
	if d.LLMExplanation != "" {
		b.WriteString(r.renderMarkdown(d.LLMExplanation))
	}
}

func (r *Renderer) renderMarkdown(text string) string {
	if r.markdown == nil {
		return indent(text, "          ") + "\n"
	}
	out, err := r.markdown.Render(text)
	if err != nil {
		return indent(text, "          ") + "\n"
	}
	return indent(strings.TrimRight(out, "\n"), "      ") + "\n"
}

// RenderScan formats a security report.
func (r *Renderer) RenderScan(path string, report domain.SecurityReport) string {
	var b strings.Builder

	s := report.Summary
	summary := dimStyle.Render(fmt.Sprintf("critical %d  high %d  medium %d  low %d", s.Critical, s.High, s.Medium, s.Low))
	b.WriteString(boxStyle.Render(titleStyle.Render(shortenPath(path)) + "  " + dimStyle.Render("security scan") + "\n" + summary))
	b.WriteString("\n\n")

	if len(report.Findings) == 0 {
		b.WriteString("  " + passStyle.Render("No security findings.") + "\n\n")
		return b.String()
	}

	for _, f := range report.Findings {
		loc := runewidth.FillRight(fmt.Sprintf("%d:%d", f.Line, f.Column), locationWidth)
		fmt.Fprintf(&b, "    %s %s %s\n", severityTag(f.Severity), dimStyle.Render(loc), truncate(f.Message, messageWidth))
		fmt.Fprintf(&b, "         %s %s\n", strings.Repeat(" ", locationWidth),
			faintStyle.Render(fmt.Sprintf("%s  confidence: %s", f.RuleID, f.Confidence)))
	}
	b.WriteString("\n")
	return b.String()
}

// RenderStatus formats the service health report.
func RenderStatus(st domain.Status) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("codereview") + " " + dimStyle.Render(st.Version) + "  " + passStyle.Render(st.Status) + "\n")
	b.WriteString("  " + separatorLine + "\n\n")

	features := []struct {
		name string
		on   bool
	}{
		{"Python review", st.Features.PythonReview},
		{"JavaScript review", st.Features.JavaScriptReview},
		{"Security scan", st.Features.SecurityScan},
		{"LLM enhancement", st.Features.LLMEnabled},
	}
	for _, f := range features {
		fmt.Fprintf(&b, "    %s %s\n", onOff(f.on), f.name)
	}

	if len(st.Tools) > 0 {
		b.WriteString("\n  " + titleStyle.Render("Tools") + "\n")
		names := make([]string, 0, len(st.Tools))
		for name := range st.Tools {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			state := dimStyle.Render("not found")
			if st.Tools[name] {
				state = dimStyle.Render("available")
			}
			fmt.Fprintf(&b, "    %s %s %s\n", onOff(st.Tools[name]), runewidth.FillRight(name, 14), state)
		}
	}
	b.WriteString("\n")
	return b.String()
}

// RuleTitle turns the last segment of a rule id into words:
// "security/detect-unsafe-innerHTML" becomes "detect unsafe inner HTML".
// Codes without lowercase letters (E501, B102) are returned unchanged.
func RuleTitle(ruleID string) string {
	seg := ruleID
	if i := strings.LastIndex(seg, "/"); i >= 0 {
		seg = seg[i+1:]
	}
	if strings.ToUpper(seg) == seg {
		return seg
	}

	var words []string
	for _, part := range strings.FieldsFunc(seg, func(r rune) bool { return r == '-' || r == '_' || r == '.' }) {
		words = append(words, camelcase.Split(part)...)
	}
	return strings.Join(words, " ")
}

func countLine(diags []domain.Diagnostic) string {
	counts := map[domain.Severity]int{}
	for _, d := range diags {
		counts[d.Severity]++
	}
	var parts []string
	if n := counts[domain.SeverityError]; n > 0 {
		parts = append(parts, errorTagStyle.Render(fmt.Sprintf("%d errors", n)))
	}
	if n := counts[domain.SeverityWarning]; n > 0 {
		parts = append(parts, warnTagStyle.Render(fmt.Sprintf("%d warnings", n)))
	}
	if n := counts[domain.SeveritySuggestion]; n > 0 {
		parts = append(parts, suggestTagStyle.Render(fmt.Sprintf("%d suggestions", n)))
	}
	if n := counts[domain.SeverityInfo]; n > 0 {
		parts = append(parts, infoTagStyle.Render(fmt.Sprintf("%d info", n)))
	}
	if len(parts) == 0 {
		return dimStyle.Render("no diagnostics")
	}
	return strings.Join(parts, "  ")
}

func severityTag(s domain.Severity) string {
	switch s {
	case domain.SeverityError:
		return errorTagStyle.Render("error")
	case domain.SeverityWarning:
		return warnTagStyle.Render("warn ")
	case domain.SeveritySuggestion:
		return suggestTagStyle.Render("hint ")
	default:
		return infoTagStyle.Render("info ")
	}
}

func onOff(on bool) string {
	if on {
		return passStyle.Render("●")
	}
	return failStyle.Render("○")
}

func truncate(value string, width int) string {
	if runewidth.StringWidth(value) <= width {
		return value
	}
	return runewidth.Truncate(value, width, "...")
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

func shortenPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) > 3 {
		return strings.Join(parts[len(parts)-3:], "/")
	}
	return path
}
