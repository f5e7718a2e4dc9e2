package report

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ethankinchan/Z-jiraBugStatistics/internal/models"
	"github.com/ethankinchan/Z-jiraBugStatistics/internal/stats"
)

// WriteSummaryTable prints the aggregated counts as a console table,
// one row per urgency with a totals footer.
func WriteSummaryTable(w io.Writer, tbl *stats.Table) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)

	header := table.Row{"Urgency"}
	for _, status := range models.Statuses {
		header = append(header, string(status))
	}
	header = append(header, "Total")
	tw.AppendHeader(header)

	for _, urgency := range models.Urgencies {
		row := table.Row{string(urgency)}
		for _, status := range models.Statuses {
			row = append(row, tbl.Count(urgency, status))
		}
		row = append(row, tbl.RowTotal(urgency))
		tw.AppendRow(row)
	}

	footer := table.Row{"Total"}
	for _, status := range models.Statuses {
		footer = append(footer, tbl.ColumnTotal(status))
	}
	footer = append(footer, tbl.GrandTotal())
	tw.AppendFooter(footer)

	tw.Render()
}
