package report

import "github.com/ethankinchan/Z-jiraBugStatistics/internal/models"

// Style collects the visual constants shared by the workbook and the
// status chart.
type Style struct {
	FontFamily string

	// Workbook fills, as RGB hex without a leading #.
	HeaderFill string
	TotalsFill string
	IndexFill  string

	ChartTitle   string
	StatusColors map[models.Status]string
}

// DefaultStyle returns the stock report palette.
func DefaultStyle() *Style {
	return &Style{
		FontFamily: "Calibri",
		HeaderFill: "F8A074",
		TotalsFill: "BFF4F9",
		IndexFill:  "FFF3E0",
		ChartTitle: "Bug Status Distribution",
		StatusColors: map[models.Status]string{
			models.StatusToDo:       "F49513",
			models.StatusInProgress: "F4F413",
			models.StatusResolved:   "76CCF2",
			models.StatusClosed:     "58E790",
		},
	}
}
