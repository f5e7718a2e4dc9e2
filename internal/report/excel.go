package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ethankinchan/Z-jiraBugStatistics/internal/models"
	"github.com/ethankinchan/Z-jiraBugStatistics/internal/stats"
)

// StatsSheet is the name of the summary sheet of the workbook.
const StatsSheet = "Bug Statistics"

// detailColumns is the column order of every detail sheet. Sheets that
// track follow-up work get an extra empty Comment column at the end.
var detailColumns = []string{
	"Issue Key",
	"Issue ID",
	"Summary",
	"Status",
	"Urgency",
	"Technology",
	"Reporter",
	"Assignee",
	"Created",
}

// commentedUrgencies are the urgency sheets that carry a Comment column.
var commentedUrgencies = map[models.Urgency]bool{
	models.UrgencyBlocking: true,
	models.UrgencyUrgent:   true,
}

// WriteWorkbook renders the statistics table and detail sheets into an
// xlsx workbook at path. Detail sheets with no rows are omitted.
func WriteWorkbook(path string, table *stats.Table, bundle *Bundle, style *Style) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", StatsSheet); err != nil {
		return fmt.Errorf("failed to name statistics sheet: %w", err)
	}

	if err := writeStatsSheet(f, table, style); err != nil {
		return err
	}

	if len(bundle.Resolved) > 0 {
		if err := writeDetailSheet(f, "Resolved", bundle.Resolved, true, style); err != nil {
			return err
		}
	}

	if len(bundle.All) > 0 {
		if err := writeDetailSheet(f, "All_bugs", bundle.All, false, style); err != nil {
			return err
		}
	}

	for _, urgency := range models.Urgencies {
		records := bundle.ByUrgency[urgency]
		if len(records) == 0 {
			continue
		}
		if err := writeDetailSheet(f, SheetNameFor(urgency), records, commentedUrgencies[urgency], style); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// SheetNameFor maps an urgency label to its sheet name, within the xlsx
// 31 character limit.
func SheetNameFor(urgency models.Urgency) string {
	name := strings.ReplaceAll(string(urgency), " ", "_")
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

func writeStatsSheet(f *excelize.File, table *stats.Table, style *Style) error {
	// Leading blank cell keeps the urgency labels in their own column.
	header := []interface{}{""}
	for _, status := range models.Statuses {
		header = append(header, string(status))
	}
	header = append(header, "Total")
	if err := f.SetSheetRow(StatsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	row := 2
	for _, urgency := range models.Urgencies {
		cells := []interface{}{string(urgency)}
		for _, status := range models.Statuses {
			cells = append(cells, table.Count(urgency, status))
		}
		cells = append(cells, table.RowTotal(urgency))
		if err := f.SetSheetRow(StatsSheet, fmt.Sprintf("A%d", row), &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
		row++
	}

	totals := []interface{}{"Total"}
	for _, status := range models.Statuses {
		totals = append(totals, table.ColumnTotal(status))
	}
	totals = append(totals, table.GrandTotal())
	if err := f.SetSheetRow(StatsSheet, fmt.Sprintf("A%d", row), &totals); err != nil {
		return fmt.Errorf("failed to write totals row: %w", err)
	}

	return styleStatsSheet(f, style, row)
}

func styleStatsSheet(f *excelize.File, style *Style, totalsRow int) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Family: style.FontFamily, Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{style.HeaderFill}, Pattern: 1},
		Border: thinBorders(),
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	indexStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: style.FontFamily},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{style.IndexFill}, Pattern: 1},
		Border:    thinBorders(),
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create index style: %w", err)
	}

	bodyStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Family: style.FontFamily},
		Border: thinBorders(),
	})
	if err != nil {
		return fmt.Errorf("failed to create body style: %w", err)
	}

	totalsStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Family: style.FontFamily, Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{style.TotalsFill}, Pattern: 1},
		Border: thinBorders(),
	})
	if err != nil {
		return fmt.Errorf("failed to create totals style: %w", err)
	}

	totalsIndexStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: style.FontFamily, Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{style.TotalsFill}, Pattern: 1},
		Border:    thinBorders(),
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create totals index style: %w", err)
	}

	lastCol := len(models.Statuses) + 2
	headerEnd, _ := excelize.CoordinatesToCellName(lastCol, 1)
	bodyEnd, _ := excelize.CoordinatesToCellName(lastCol, totalsRow-1)
	totalsStart, _ := excelize.CoordinatesToCellName(2, totalsRow)
	totalsEnd, _ := excelize.CoordinatesToCellName(lastCol, totalsRow)

	if err := f.SetCellStyle(StatsSheet, "A1", headerEnd, headerStyle); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}
	if err := f.SetCellStyle(StatsSheet, "A2", fmt.Sprintf("A%d", totalsRow-1), indexStyle); err != nil {
		return fmt.Errorf("failed to style index column: %w", err)
	}
	if err := f.SetCellStyle(StatsSheet, "B2", bodyEnd, bodyStyle); err != nil {
		return fmt.Errorf("failed to style body cells: %w", err)
	}
	if err := f.SetCellStyle(StatsSheet, fmt.Sprintf("A%d", totalsRow), fmt.Sprintf("A%d", totalsRow), totalsIndexStyle); err != nil {
		return fmt.Errorf("failed to style totals label: %w", err)
	}
	if err := f.SetCellStyle(StatsSheet, totalsStart, totalsEnd, totalsStyle); err != nil {
		return fmt.Errorf("failed to style totals row: %w", err)
	}

	return nil
}

func writeDetailSheet(f *excelize.File, name string, records []BugRecord, withComment bool, style *Style) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}

	header := make([]interface{}, 0, len(detailColumns)+1)
	for _, column := range detailColumns {
		header = append(header, column)
	}
	if withComment {
		header = append(header, "Comment")
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", name, err)
	}

	for i, record := range records {
		cells := []interface{}{
			record.Key,
			record.ID,
			record.Summary,
			record.Status,
			record.Urgency,
			record.Technology,
			record.Reporter,
			record.Assignee,
			record.Created,
		}
		if withComment {
			cells = append(cells, "")
		}
		if err := f.SetSheetRow(name, fmt.Sprintf("A%d", i+2), &cells); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+2, name, err)
		}
	}

	return styleDetailSheet(f, name, len(records), withComment, style)
}

func styleDetailSheet(f *excelize.File, name string, rows int, withComment bool, style *Style) error {
	baseStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Family: style.FontFamily},
		Border: thinBorders(),
	})
	if err != nil {
		return fmt.Errorf("failed to create detail style: %w", err)
	}

	dateStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: style.FontFamily},
		Border:    thinBorders(),
		Alignment: &excelize.Alignment{Horizontal: "left"},
	})
	if err != nil {
		return fmt.Errorf("failed to create date style: %w", err)
	}

	cols := len(detailColumns)
	if withComment {
		cols++
	}
	lastRow := rows + 1

	end, _ := excelize.CoordinatesToCellName(cols, lastRow)
	if err := f.SetCellStyle(name, "A1", end, baseStyle); err != nil {
		return fmt.Errorf("failed to style sheet %s: %w", name, err)
	}

	if rows > 0 {
		// Created column keeps dates left aligned.
		if err := f.SetCellStyle(name, "I2", fmt.Sprintf("I%d", lastRow), dateStyle); err != nil {
			return fmt.Errorf("failed to style dates of %s: %w", name, err)
		}
	}

	return nil
}

func thinBorders() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}
