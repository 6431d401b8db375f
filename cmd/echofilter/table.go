package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/agenthands/echofilter/internal/core/model"
)

func renderLines(w io.Writer, a *model.Analysis) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Line", "Category", "Severity", "Confidence", "Rationale"})
	for i, l := range a.Lines {
		tw.AppendRow(table.Row{i + 1, l.Segment, l.Category, colorSeverity(l.Severity), l.ConfidenceText(), l.Rationale})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, WidthMax: 50},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, WidthMax: 60},
	})
	tw.Render()
}

func renderSummaries(w io.Writer, list []model.Summary) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "Audio", "Lines", "Critical", "Warning", "Created"})
	for _, s := range list {
		tw.AppendRow(table.Row{s.ID, s.AudioName, s.LineCount, s.Critical, s.Warning, s.CreatedAt.Local().Format("2006-01-02 15:04")})
	}
	tw.Render()
}

func colorSeverity(s model.Severity) string {
	switch s {
	case model.SeverityCritical:
		return text.FgRed.Sprint(s.Upper())
	case model.SeverityWarning:
		return text.FgYellow.Sprint(s.Upper())
	case model.SeveritySafe:
		return text.FgGreen.Sprint(s.Upper())
	default:
		return fmt.Sprint(s.Upper())
	}
}
