package stats

import (
	"log/slog"

	"github.com/ethankinchan/Z-jiraBugStatistics/internal/models"
)

// Table holds bug counts keyed by urgency and status. Every known cell
// exists from the start, and all totals are derived from the cells, so
// the table cannot drift out of balance.
type Table struct {
	counts map[models.Urgency]map[models.Status]int

	// SkippedStatuses counts issues dropped for an unrecognized status.
	SkippedStatuses int
	// CoercedUrgencies counts issues whose urgency fell back to None.
	CoercedUrgencies int
}

func NewTable() *Table {
	counts := make(map[models.Urgency]map[models.Status]int, len(models.Urgencies))
	for _, urgency := range models.Urgencies {
		row := make(map[models.Status]int, len(models.Statuses))
		for _, status := range models.Statuses {
			row[status] = 0
		}
		counts[urgency] = row
	}
	return &Table{counts: counts}
}

// Add increments one cell. Pairs outside the known enums are ignored.
func (t *Table) Add(urgency models.Urgency, status models.Status) {
	row, ok := t.counts[urgency]
	if !ok {
		return
	}
	if _, ok := row[status]; !ok {
		return
	}
	row[status]++
}

func (t *Table) Count(urgency models.Urgency, status models.Status) int {
	return t.counts[urgency][status]
}

// RowTotal sums one urgency row across all statuses.
func (t *Table) RowTotal(urgency models.Urgency) int {
	total := 0
	for _, status := range models.Statuses {
		total += t.counts[urgency][status]
	}
	return total
}

// ColumnTotal sums one status column across all urgencies.
func (t *Table) ColumnTotal(status models.Status) int {
	total := 0
	for _, urgency := range models.Urgencies {
		total += t.counts[urgency][status]
	}
	return total
}

// GrandTotal is the number of issues counted into the table.
func (t *Table) GrandTotal() int {
	total := 0
	for _, urgency := range models.Urgencies {
		total += t.RowTotal(urgency)
	}
	return total
}

// Aggregate tallies issues into a fresh table. Issues with an
// unrecognized status are logged and skipped; issues with an
// unrecognized urgency are logged and counted under None.
func Aggregate(issues []models.Issue, logger *slog.Logger) *Table {
	table := NewTable()

	for _, issue := range issues {
		status, ok := models.ParseStatus(issue.Status)
		if !ok {
			logger.Warn("Skipping issue with unrecognized status", "issue", issue.Key, "status", issue.Status)
			table.SkippedStatuses++
			continue
		}

		urgency, known := models.CoerceUrgency(issue.Urgency)
		if !known {
			logger.Warn("Unrecognized urgency counted as None", "issue", issue.Key, "urgency", issue.Urgency)
			table.CoercedUrgencies++
		}

		table.Add(urgency, status)
	}

	return table
}
