package report

import (
	"fmt"
	"os"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ethankinchan/Z-jiraBugStatistics/internal/models"
	"github.com/ethankinchan/Z-jiraBugStatistics/internal/stats"
)

// 12x8 inches at 300 DPI.
const (
	chartWidth  = 3600
	chartHeight = 2400
	chartDPI    = 300
)

// RenderStatusPie draws the status distribution pie to path. It reports
// false without writing a file when the table holds no issues at all.
func RenderStatusPie(path string, table *stats.Table, style *Style) (bool, error) {
	total := table.GrandTotal()
	if total == 0 {
		return false, nil
	}

	// Only statuses with issues become wedges. The legend still lists
	// every status.
	values := make([]chart.Value, 0, len(models.Statuses))
	for _, status := range models.Statuses {
		count := table.ColumnTotal(status)
		if count == 0 {
			continue
		}
		share := float64(count) / float64(total) * 100
		values = append(values, chart.Value{
			Value: float64(count),
			Label: fmt.Sprintf("%.1f%%", share),
			Style: chart.Style{
				FillColor: drawing.ColorFromHex(style.StatusColors[status]),
			},
		})
	}

	pie := chart.PieChart{
		Title:      style.ChartTitle,
		TitleStyle: chart.Style{FontSize: 14},
		Width:      chartWidth,
		Height:     chartHeight,
		DPI:        chartDPI,
		Background: chart.Style{
			FillColor: drawing.ColorWhite,
			// Right padding reserves room for the legend.
			Padding: chart.Box{Top: 140, Left: 60, Right: 1000, Bottom: 60},
		},
		SliceStyle: chart.Style{
			FontSize:    11,
			StrokeColor: drawing.ColorWhite,
			StrokeWidth: 6,
		},
		Values:   values,
		Elements: []chart.Renderable{statusLegend(table, style)},
	}

	file, err := os.Create(path)
	if err != nil {
		return false, fmt.Errorf("failed to create chart file: %w", err)
	}
	defer file.Close()

	if err := pie.Render(chart.PNG, file); err != nil {
		return false, fmt.Errorf("failed to render chart: %w", err)
	}

	return true, nil
}

// statusLegend lists every status with its count, zero counts included,
// to the right of the pie.
func statusLegend(table *stats.Table, style *Style) chart.Renderable {
	return func(r chart.Renderer, cb chart.Box, defaults chart.Style) {
		const (
			swatch     = 56
			lineHeight = 110
			gap        = 30
		)

		titleStyle := chart.Style{FontSize: 12, FontColor: drawing.ColorBlack}.InheritFrom(defaults)
		entryStyle := chart.Style{FontSize: 11, FontColor: drawing.ColorBlack}.InheritFrom(defaults)

		x := cb.Right + 80
		y := cb.Top + (cb.Height()-lineHeight*(len(models.Statuses)+1))/2

		chart.Draw.Text(r, "Status", x, y+swatch, titleStyle)
		y += lineHeight

		for _, status := range models.Statuses {
			color := drawing.ColorFromHex(style.StatusColors[status])
			r.SetFillColor(color)
			r.SetStrokeColor(color)
			r.SetStrokeWidth(1)
			r.MoveTo(x, y)
			r.LineTo(x+swatch, y)
			r.LineTo(x+swatch, y+swatch)
			r.LineTo(x, y+swatch)
			r.Close()
			r.FillStroke()

			label := fmt.Sprintf("%s (%d)", status, table.ColumnTotal(status))
			chart.Draw.Text(r, label, x+swatch+gap, y+swatch-10, entryStyle)

			y += lineHeight
		}
	}
}
