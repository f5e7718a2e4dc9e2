package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	t.Run("recognizes all four statuses", func(t *testing.T) {
		for _, raw := range []string{"To Do", "In Progress", "Resolved", "Closed"} {
			status, ok := ParseStatus(raw)
			assert.True(t, ok, "expected %q to be recognized", raw)
			assert.Equal(t, raw, string(status))
		}
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, ok := ParseStatus("Reopened")
		assert.False(t, ok)
	})

	t.Run("rejects empty status", func(t *testing.T) {
		_, ok := ParseStatus("")
		assert.False(t, ok)
	})

	t.Run("is case sensitive", func(t *testing.T) {
		_, ok := ParseStatus("resolved")
		assert.False(t, ok)
	})
}

func TestCoerceUrgency(t *testing.T) {
	t.Run("recognizes all known labels", func(t *testing.T) {
		for _, raw := range []string{"U0 Blocking", "U1 Urgent", "U2 Normal", "U3 Low", "None"} {
			urgency, known := CoerceUrgency(raw)
			assert.True(t, known, "expected %q to be known", raw)
			assert.Equal(t, raw, string(urgency))
		}
	})

	t.Run("empty value defaults to None without complaint", func(t *testing.T) {
		urgency, known := CoerceUrgency("")
		assert.True(t, known)
		assert.Equal(t, UrgencyNone, urgency)
	})

	t.Run("unknown value coerces to None and reports it", func(t *testing.T) {
		urgency, known := CoerceUrgency("U4 Cosmetic")
		assert.False(t, known)
		assert.Equal(t, UrgencyNone, urgency)
	})
}

func TestEnumOrder(t *testing.T) {
	// Report column/row order is part of the output contract; downstream
	// spreadsheets rely on fixed positions.
	assert.Equal(t, []Status{StatusToDo, StatusInProgress, StatusResolved, StatusClosed}, Statuses)
	assert.Equal(t, []Urgency{UrgencyBlocking, UrgencyUrgent, UrgencyNormal, UrgencyLow, UrgencyNone}, Urgencies)
}
