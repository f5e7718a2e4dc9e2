package models

// Status is a recognized workflow status of a tracked bug.
type Status string

const (
	StatusToDo       Status = "To Do"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
	StatusClosed     Status = "Closed"
)

// Statuses lists the recognized statuses in report column order.
var Statuses = []Status{StatusToDo, StatusInProgress, StatusResolved, StatusClosed}

// Urgency is the severity classification of a bug. Jira stores it in a
// custom field, so any value outside the four known labels can show up.
type Urgency string

const (
	UrgencyBlocking Urgency = "U0 Blocking"
	UrgencyUrgent   Urgency = "U1 Urgent"
	UrgencyNormal   Urgency = "U2 Normal"
	UrgencyLow      Urgency = "U3 Low"
	UrgencyNone     Urgency = "None"
)

// Urgencies lists all urgency buckets in report row order.
var Urgencies = []Urgency{UrgencyBlocking, UrgencyUrgent, UrgencyNormal, UrgencyLow, UrgencyNone}

// ParseStatus maps a raw status name to its Status value. The second
// return is false for anomaly records whose status is not recognized.
func ParseStatus(raw string) (Status, bool) {
	for _, s := range Statuses {
		if string(s) == raw {
			return s, true
		}
	}
	return "", false
}

// CoerceUrgency maps a raw urgency value to its bucket. An empty value is
// UrgencyNone. The second return is false only when the value was present
// but not one of the known labels; such records are still counted under
// UrgencyNone, never dropped.
func CoerceUrgency(raw string) (Urgency, bool) {
	if raw == "" {
		return UrgencyNone, true
	}
	for _, u := range Urgencies {
		if string(u) == raw {
			return u, true
		}
	}
	return UrgencyNone, false
}

// Issue is the typed projection of a tracker record. It is built once at
// the Jira client boundary; missing reporter/assignee/urgency handling
// happens there, so the rest of the program never sees the raw API shape.
type Issue struct {
	Key        string `json:"key"`
	ID         string `json:"id"`
	Summary    string `json:"summary"`
	Status     string `json:"status"`
	Urgency    string `json:"urgency"`
	Technology string `json:"technology"`
	Reporter   string `json:"reporter"`
	Assignee   string `json:"assignee"`
	Created    string `json:"created"`
}
