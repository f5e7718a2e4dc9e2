package jira

import "encoding/json"

// filterResponse is the subset of GET /rest/api/2/filter/{id} we read.
type filterResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	JQL  string `json:"jql"`
}

// searchResponse is one page of GET /rest/api/2/search results.
type searchResponse struct {
	StartAt    int         `json:"startAt"`
	MaxResults int         `json:"maxResults"`
	Total      int         `json:"total"`
	Issues     []wireIssue `json:"issues"`
}

// wireIssue keeps fields raw so custom field IDs, which vary per
// installation, can be looked up by their configured names.
type wireIssue struct {
	ID     string          `json:"id"`
	Key    string          `json:"key"`
	Fields json.RawMessage `json:"fields"`
}

// issueFields covers the fixed part of the search projection.
type issueFields struct {
	Summary string `json:"summary"`
	Status  struct {
		Name string `json:"name"`
	} `json:"status"`
	Reporter *struct {
		DisplayName string `json:"displayName"`
	} `json:"reporter"`
	Assignee *struct {
		DisplayName string `json:"displayName"`
	} `json:"assignee"`
	Created string `json:"created"`
}

// customFieldString extracts a display value from a custom field, which
// Jira serializes either as a bare string or as an option object with a
// value or name property. Null and absent fields yield "".
func customFieldString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var option struct {
		Value string `json:"value"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(raw, &option); err == nil {
		if option.Value != "" {
			return option.Value
		}
		return option.Name
	}

	return ""
}
