package report

import (
	"time"

	"github.com/ethankinchan/Z-jiraBugStatistics/internal/models"
)

// BugRecord is one detail row of the workbook.
type BugRecord struct {
	Key        string
	ID         string
	Summary    string
	Status     string
	Urgency    string
	Technology string
	Reporter   string
	Assignee   string
	Created    string
}

// Bundle groups the fetched issues the way the detail sheets need them.
// ByUrgency buckets use the coerced urgency, so bucket sizes always sum
// to the number of issues.
type Bundle struct {
	All       []BugRecord
	Resolved  []BugRecord
	ByUrgency map[models.Urgency][]BugRecord
}

// Layouts issue timestamps arrive in, most common first.
var createdLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	time.RFC3339,
}

// ConvertCreated rewrites a tracker timestamp into the report timezone
// as "2006-01-02 15:04". Values in no known layout pass through
// unchanged.
func ConvertCreated(raw string, loc *time.Location) string {
	if raw == "" {
		return ""
	}
	for _, layout := range createdLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.In(loc).Format("2006-01-02 15:04")
		}
	}
	return raw
}

// BuildBundle converts issues into detail rows and groups them for the
// workbook sheets.
func BuildBundle(issues []models.Issue, loc *time.Location) *Bundle {
	bundle := &Bundle{
		ByUrgency: make(map[models.Urgency][]BugRecord, len(models.Urgencies)),
	}

	for _, issue := range issues {
		record := recordOf(issue, loc)

		bundle.All = append(bundle.All, record)
		if record.Status == string(models.StatusResolved) {
			bundle.Resolved = append(bundle.Resolved, record)
		}

		urgency, _ := models.CoerceUrgency(issue.Urgency)
		bundle.ByUrgency[urgency] = append(bundle.ByUrgency[urgency], record)
	}

	return bundle
}

func recordOf(issue models.Issue, loc *time.Location) BugRecord {
	urgency := issue.Urgency
	if urgency == "" {
		urgency = string(models.UrgencyNone)
	}

	return BugRecord{
		Key:        issue.Key,
		ID:         issue.ID,
		Summary:    issue.Summary,
		Status:     issue.Status,
		Urgency:    urgency,
		Technology: issue.Technology,
		Reporter:   issue.Reporter,
		Assignee:   issue.Assignee,
		Created:    ConvertCreated(issue.Created, loc),
	}
}
