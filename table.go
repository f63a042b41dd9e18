package main

import (
	"fmt"
	"imgshrink/internal/core/domain"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderComparison lays out the source and the compressed result side by side.
func renderComparison(src domain.SourceImage, res domain.CompressedResult) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	tw.AppendHeader(table.Row{"", "Type", "Quality", "Size"})
	tw.AppendRows([]table.Row{
		{"Original", src.MIMEType, "", domain.FormatFileSize(src.Size())},
		{"Compressed", res.MIMEType, fmt.Sprintf("%d%%", res.Quality.Percent()), domain.FormatFileSize(res.Size())},
	})
	tw.AppendSeparator()
	tw.AppendRow(table.Row{"Saved", "", "", fmt.Sprintf("%.1f%%", domain.SavedPercent(src.Size(), res.Size()))})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}
