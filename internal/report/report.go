package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agenthands/echofilter/internal/core/model"
)

const (
	AnalyzedFileName = "analyzed_transcript.txt"
	RedactedFileName = "redacted_transcript.txt"
)

// Analyzed renders the per-line annotation report.
func Analyzed(a *model.Analysis) string {
	var b strings.Builder
	for i, l := range a.Lines {
		fmt.Fprintf(&b, "Line %d: %s\n", i+1, l.Segment)
		fmt.Fprintf(&b, "  Category: %s\n", l.Category)
		fmt.Fprintf(&b, "  Severity: %s\n", l.Severity.Upper())
		fmt.Fprintf(&b, "  Confidence: %s\n", l.ConfidenceText())
		fmt.Fprintf(&b, "  Rationale: %s\n", l.Rationale)
		b.WriteString(strings.Repeat("-", 50) + "\n")
	}
	return b.String()
}

// Redacted renders the transcript with Critical lines replaced by their category.
func Redacted(a *model.Analysis) string {
	var b strings.Builder
	for _, l := range a.Lines {
		b.WriteString(RedactedLine(l))
		b.WriteByte('\n')
	}
	return b.String()
}

func RedactedLine(l model.Line) string {
	if l.Severity == model.SeverityCritical {
		return fmt.Sprintf("[REDACTED: %s]", l.Category)
	}
	return l.Segment
}

// Markdown renders a summary header and a table of annotated lines.
func Markdown(a *model.Analysis) string {
	var b strings.Builder
	title := a.AudioName
	if title == "" {
		title = "Analyzed Transcript"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if a.ID != "" {
		fmt.Fprintf(&b, "- ID: `%s`\n", a.ID)
	}
	if !a.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "- Generated: %s\n", a.CreatedAt.Format(time.RFC3339))
	}
	if len(a.Categories) > 0 {
		fmt.Fprintf(&b, "- Categories: %s\n", strings.Join(a.Categories, ", "))
	}
	counts := a.Counts()
	var parts []string
	for _, s := range model.Severities {
		if n := counts[s]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", s, n))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(&b, "- Severity: %s\n", strings.Join(parts, ", "))
	}
	b.WriteString("\n| # | Line | Category | Severity | Confidence | Rationale |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for i, l := range a.Lines {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
			i+1, cell(l.Segment), cell(l.Category), l.Severity.Upper(), l.ConfidenceText(), cell(l.Rationale))
	}
	return b.String()
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(strings.TrimSpace(s), "\n", " ")
}

// WriteFiles writes both text reports into dir and returns their paths.
func WriteFiles(dir string, a *model.Analysis) (string, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create report dir: %w", err)
	}
	analyzed := filepath.Join(dir, AnalyzedFileName)
	if err := os.WriteFile(analyzed, []byte(Analyzed(a)), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write analyzed report: %w", err)
	}
	redacted := filepath.Join(dir, RedactedFileName)
	if err := os.WriteFile(redacted, []byte(Redacted(a)), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write redacted report: %w", err)
	}
	return analyzed, redacted, nil
}
