package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethankinchan/Z-jiraBugStatistics/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func testConfig(baseURL string) *config.JiraConfig {
	return &config.JiraConfig{
		BaseURL:         baseURL,
		Username:        "reporter",
		Password:        "secret",
		PageSize:        2,
		UrgencyField:    "customfield_11214",
		TechnologyField: "customfield_11219",
	}
}

func TestNewClient(t *testing.T) {
	logger := testLogger()

	t.Run("requires base URL", func(t *testing.T) {
		_, err := NewClient(&config.JiraConfig{Username: "u", Password: "p"}, logger)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "base URL is required")
	})

	t.Run("requires credentials", func(t *testing.T) {
		_, err := NewClient(&config.JiraConfig{BaseURL: "https://jira.example.com"}, logger)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "personal access token or username and password")
	})

	t.Run("accepts token auth", func(t *testing.T) {
		client, err := NewClient(&config.JiraConfig{
			BaseURL:             "https://jira.example.com",
			PersonalAccessToken: "pat123",
		}, logger)
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("accepts basic auth", func(t *testing.T) {
		client, err := NewClient(&config.JiraConfig{
			BaseURL:  "https://jira.example.com",
			Username: "reporter",
			Password: "secret",
		}, logger)
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("defaults timeout", func(t *testing.T) {
		client, err := NewClient(&config.JiraConfig{
			BaseURL:  "https://jira.example.com",
			Username: "reporter",
			Password: "secret",
		}, logger)
		require.NoError(t, err)
		assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
	})
}

func TestTargetFromJQL(t *testing.T) {
	tests := []struct {
		name     string
		jql      string
		expected string
	}{
		{
			name:     "standard clause",
			jql:      "project = CORE AND Target = Phone3 AND type = Bug",
			expected: "Phone3",
		},
		{
			name:     "no spaces",
			jql:      "Target=X1",
			expected: "X1",
		},
		{
			name:     "extra spaces",
			jql:      "Target   =   Watch2 AND resolution = Unresolved",
			expected: "Watch2",
		},
		{
			name:     "first clause wins",
			jql:      "Target = Alpha OR Target = Beta",
			expected: "Alpha",
		},
		{
			name:     "missing clause",
			jql:      "project = CORE AND type = Bug",
			expected: "Unknown",
		},
		{
			name:     "empty query",
			jql:      "",
			expected: "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TargetFromJQL(tt.jql))
		})
	}
}

func TestTestConnection(t *testing.T) {
	t.Run("successful connection with basic auth", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/rest/api/2/myself", r.URL.Path)
			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "reporter", user)
			assert.Equal(t, "secret", pass)
			fmt.Fprint(w, `{"name": "reporter", "displayName": "Report Er"}`)
		}))
		defer server.Close()

		client, err := NewClient(testConfig(server.URL), testLogger())
		require.NoError(t, err)

		err = client.TestConnection(context.Background())
		assert.NoError(t, err)
	})

	t.Run("token auth sends bearer header", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer pat123", r.Header.Get("Authorization"))
			fmt.Fprint(w, `{"name": "reporter"}`)
		}))
		defer server.Close()

		client, err := NewClient(&config.JiraConfig{
			BaseURL:             server.URL,
			PersonalAccessToken: "pat123",
		}, testLogger())
		require.NoError(t, err)

		err = client.TestConnection(context.Background())
		assert.NoError(t, err)
	})

	t.Run("unauthorized", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		}))
		defer server.Close()

		client, err := NewClient(testConfig(server.URL), testLogger())
		require.NoError(t, err)

		err = client.TestConnection(context.Background())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "connection test failed")
	})
}

func TestFilterJQL(t *testing.T) {
	t.Run("resolves filter to JQL", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/rest/api/2/filter/12345", r.URL.Path)
			fmt.Fprint(w, `{"id": "12345", "name": "Phone3 bugs", "jql": "project = CORE AND Target = Phone3 AND type = Bug"}`)
		}))
		defer server.Close()

		client, err := NewClient(testConfig(server.URL), testLogger())
		require.NoError(t, err)

		jql, err := client.FilterJQL(context.Background(), "12345")
		require.NoError(t, err)
		assert.Equal(t, "project = CORE AND Target = Phone3 AND type = Bug", jql)
	})

	t.Run("requires filter ID", func(t *testing.T) {
		client, err := NewClient(testConfig("https://jira.example.com"), testLogger())
		require.NoError(t, err)

		_, err = client.FilterJQL(context.Background(), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "filter ID is required")
	})

	t.Run("rejects filter without JQL", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"id": "12345", "name": "empty"}`)
		}))
		defer server.Close()

		client, err := NewClient(testConfig(server.URL), testLogger())
		require.NoError(t, err)

		_, err = client.FilterJQL(context.Background(), "12345")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "has no JQL")
	})

	t.Run("surfaces API errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "no such filter", http.StatusNotFound)
		}))
		defer server.Close()

		client, err := NewClient(testConfig(server.URL), testLogger())
		require.NoError(t, err)

		_, err = client.FilterJQL(context.Background(), "99999")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "status 404")
	})
}

func TestSearchIssues(t *testing.T) {
	t.Run("walks all pages", func(t *testing.T) {
		page1 := `{
			"startAt": 0, "maxResults": 2, "total": 3,
			"issues": [
				{
					"id": "10001", "key": "TEST-1",
					"fields": {
						"summary": "Crash on boot",
						"status": {"name": "To Do"},
						"reporter": {"displayName": "Alice Zhang"},
						"assignee": {"displayName": "Bob Li"},
						"created": "2024-05-01T10:00:00.000+0800",
						"customfield_11214": "U0 Blocking",
						"customfield_11219": {"value": "Android"}
					}
				},
				{
					"id": "10002", "key": "TEST-2",
					"fields": {
						"summary": "Battery drain",
						"status": {"name": "Resolved"},
						"reporter": {"displayName": "Alice Zhang"},
						"assignee": null,
						"created": "2024-05-02T11:30:00.000+0800",
						"customfield_11214": {"value": "U1 Urgent"},
						"customfield_11219": null
					}
				}
			]
		}`
		page2 := `{
			"startAt": 2, "maxResults": 2, "total": 3,
			"issues": [
				{
					"id": "10003", "key": "TEST-3",
					"fields": {
						"summary": "Typo in settings",
						"status": {"name": "Closed"},
						"reporter": null,
						"assignee": {"displayName": "Bob Li"},
						"created": "2024-05-03T09:15:00.000+0800"
					}
				}
			]
		}`

		requests := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			assert.Equal(t, "/rest/api/2/search", r.URL.Path)

			query := r.URL.Query()
			assert.Equal(t, "project = CORE AND Target = Phone3", query.Get("jql"))
			assert.Equal(t, "2", query.Get("maxResults"))
			assert.Contains(t, query.Get("fields"), "customfield_11214")
			assert.Contains(t, query.Get("fields"), "customfield_11219")

			switch query.Get("startAt") {
			case "0":
				fmt.Fprint(w, page1)
			case "2":
				fmt.Fprint(w, page2)
			default:
				t.Errorf("unexpected startAt %q", query.Get("startAt"))
			}
		}))
		defer server.Close()

		client, err := NewClient(testConfig(server.URL), testLogger())
		require.NoError(t, err)

		issues, err := client.SearchIssues(context.Background(), "project = CORE AND Target = Phone3")
		require.NoError(t, err)
		assert.Equal(t, 2, requests)
		require.Len(t, issues, 3)

		first := issues[0]
		assert.Equal(t, "TEST-1", first.Key)
		assert.Equal(t, "10001", first.ID)
		assert.Equal(t, "Crash on boot", first.Summary)
		assert.Equal(t, "To Do", first.Status)
		assert.Equal(t, "U0 Blocking", first.Urgency)
		assert.Equal(t, "Android", first.Technology)
		assert.Equal(t, "Alice Zhang", first.Reporter)
		assert.Equal(t, "Bob Li", first.Assignee)
		assert.Equal(t, "2024-05-01T10:00:00.000+0800", first.Created)

		second := issues[1]
		assert.Equal(t, "U1 Urgent", second.Urgency)
		assert.Equal(t, "", second.Technology)
		assert.Equal(t, "", second.Assignee)

		third := issues[2]
		assert.Equal(t, "", third.Urgency)
		assert.Equal(t, "", third.Reporter)
	})

	t.Run("empty result set", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"startAt": 0, "maxResults": 2, "total": 0, "issues": []}`)
		}))
		defer server.Close()

		client, err := NewClient(testConfig(server.URL), testLogger())
		require.NoError(t, err)

		issues, err := client.SearchIssues(context.Background(), "project = EMPTY")
		require.NoError(t, err)
		assert.Empty(t, issues)
	})

	t.Run("requires JQL", func(t *testing.T) {
		client, err := NewClient(testConfig("https://jira.example.com"), testLogger())
		require.NoError(t, err)

		_, err = client.SearchIssues(context.Background(), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "JQL query is required")
	})

	t.Run("surfaces transport errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer server.Close()

		client, err := NewClient(testConfig(server.URL), testLogger())
		require.NoError(t, err)

		_, err = client.SearchIssues(context.Background(), "project = CORE")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "search failed at offset 0")
	})
}

func TestCustomFieldString(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "bare string", raw: `"U2 Normal"`, expected: "U2 Normal"},
		{name: "option value", raw: `{"value": "Android"}`, expected: "Android"},
		{name: "option name", raw: `{"name": "iOS"}`, expected: "iOS"},
		{name: "value wins over name", raw: `{"value": "A", "name": "B"}`, expected: "A"},
		{name: "null", raw: `null`, expected: ""},
		{name: "absent", raw: ``, expected: ""},
		{name: "unexpected shape", raw: `[1, 2]`, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw json.RawMessage
			if tt.raw != "" {
				raw = json.RawMessage(tt.raw)
			}
			assert.Equal(t, tt.expected, customFieldString(raw))
		})
	}
}
