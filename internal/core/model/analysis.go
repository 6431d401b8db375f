package model

import (
	"fmt"
	"strings"
	"time"
)

type Severity string

const (
	SeveritySafe     Severity = "Safe"
	SeverityWarning  Severity = "Warning"
	SeverityCritical Severity = "Critical"
	SeverityUnknown  Severity = "Unknown"
)

// Severities lists the levels in display order.
var Severities = []Severity{SeveritySafe, SeverityWarning, SeverityCritical, SeverityUnknown}

// ParseSeverity maps a model token like "critical." or "**Warning**" to a Severity.
func ParseSeverity(s string) Severity {
	s = strings.ToLower(strings.Trim(strings.TrimSpace(s), " \t\r\n.,:;!\"'*`()[]{}"))
	switch s {
	case "safe":
		return SeveritySafe
	case "warning":
		return SeverityWarning
	case "critical":
		return SeverityCritical
	default:
		return SeverityUnknown
	}
}

func (s Severity) Lower() string {
	return strings.ToLower(string(s))
}

func (s Severity) Upper() string {
	return strings.ToUpper(string(s))
}

// Line is one annotated transcript sentence.
type Line struct {
	Index      int      `json:"index"`
	Segment    string   `json:"segment"`
	Category   string   `json:"category"`
	Score      float64  `json:"score"`
	Severity   Severity `json:"severity"`
	Confidence *float64 `json:"confidence,omitempty"`
	Rationale  string   `json:"rationale"`
}

// ConfidenceText renders the confidence with 3 decimals, or N/A when the model gave none.
func (l Line) ConfidenceText() string {
	if l.Confidence == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.3f", *l.Confidence)
}

type Analysis struct {
	ID         string    `json:"id"`
	AudioName  string    `json:"audio_name"`
	Categories []string  `json:"categories"`
	Transcript string    `json:"transcript"`
	Lines      []Line    `json:"lines"`
	CreatedAt  time.Time `json:"created_at"`
}

// Counts returns the number of lines per severity.
func (a *Analysis) Counts() map[Severity]int {
	counts := make(map[Severity]int, len(Severities))
	for _, l := range a.Lines {
		counts[l.Severity]++
	}
	return counts
}

// Summary is the short listing form used by history views.
type Summary struct {
	ID        string    `json:"id"`
	AudioName string    `json:"audio_name"`
	LineCount int       `json:"line_count"`
	Critical  int       `json:"critical"`
	Warning   int       `json:"warning"`
	CreatedAt time.Time `json:"created_at"`
}

func (a *Analysis) Summary() Summary {
	c := a.Counts()
	return Summary{
		ID:        a.ID,
		AudioName: a.AudioName,
		LineCount: len(a.Lines),
		Critical:  c[SeverityCritical],
		Warning:   c[SeverityWarning],
		CreatedAt: a.CreatedAt,
	}
}
