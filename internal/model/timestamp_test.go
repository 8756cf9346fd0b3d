package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestampFormats(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Time
	}{
		{"2026-03-01T14:00:00Z", time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)},
		{"2026-03-01T14:00:00.250+02:00", time.Date(2026, 3, 1, 14, 0, 0, 250_000_000, time.FixedZone("", 2*3600))},
		{"2026-03-01T14:00:00", time.Date(2026, 3, 1, 14, 0, 0, 0, time.Local)},
		{"2026-03-01T14:00", time.Date(2026, 3, 1, 14, 0, 0, 0, time.Local)},
		{"2026-03-01", time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := ParseTimestamp(tc.raw)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got.Time), "got %v want %v", got.Time, tc.want)
		})
	}

	_, err := ParseTimestamp("01/03/2026")
	assert.Error(t, err)

	empty, err := ParseTimestamp("  ")
	require.NoError(t, err)
	assert.True(t, empty.IsZero())
}

func TestTaskJSONUsesGatewayFieldNames(t *testing.T) {
	task := Task{
		ID:       7,
		Title:    "Write report",
		Deadline: At(time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)),
	}
	data, err := json.Marshal(task)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"title":"Write report","description":"","deadline":"2026-03-01T14:00:00Z","isCompleted":false}`, string(data))

	var decoded Task
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"title":"x","deadline":"2026-03-01T09:30:00","isCompleted":true}`), &decoded))
	assert.Equal(t, 3, decoded.ID)
	assert.True(t, decoded.IsCompleted)
	assert.Equal(t, 9, decoded.Deadline.Hour())
	assert.Equal(t, time.Local, decoded.Deadline.Location())
}

func TestNullTimestamp(t *testing.T) {
	var n Note
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"description":"d","createdAt":null}`), &n))
	assert.True(t, n.CreatedAt.IsZero())

	data, err := json.Marshal(n)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"createdAt":null`)
}

func TestKindAssignAndIndex(t *testing.T) {
	title := "Ship it"
	done := true
	var g Goal
	Goals.Assign(&g, Fields{Title: &title, Completed: &done})
	assert.Equal(t, "Ship it", g.Title)
	assert.True(t, Goals.Completed(g))
	assert.True(t, Goals.HasCompletion())
	assert.False(t, Notes.HasCompletion())

	text := "remember milk"
	var n Note
	Notes.Assign(&n, Fields{Description: &text})
	assert.Equal(t, "remember milk", Notes.Label(n))
	assert.False(t, Notes.Blank(n))
	assert.True(t, Notes.Blank(Note{Description: "   "}))

	items := []Goal{{ID: 4}, {ID: 9}}
	assert.Equal(t, 1, Goals.IndexOf(items, 9))
	assert.Equal(t, -1, Goals.IndexOf(items, 5))
}
