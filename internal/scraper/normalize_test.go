package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRowsAcceptsDueRows(t *testing.T) {
	rows := []RawRow{
		{Title: "Essay 1 - Due", DueText: "April 5, 2025", Course: "ENGL101"},
	}

	tasks, skipped := NormalizeRows(rows)
	require.Len(t, tasks, 1)
	require.Empty(t, skipped)

	task := tasks[0]
	assert.Equal(t, "Essay 1 - Due", task.Title)
	require.NotNil(t, task.Description)
	assert.Equal(t, "Scraped from Brightspace: Essay 1 - Due", *task.Description)
	require.NotNil(t, task.Category)
	assert.Equal(t, "ENGL101", *task.Category)
	assert.Equal(t, "normal", task.Priority)
	assert.False(t, task.Repeated)
	assert.False(t, task.Completed)
	assert.Nil(t, task.SpaceID)
}

func TestNormalizeRowsSuffixIsCaseInsensitive(t *testing.T) {
	rows := []RawRow{
		{Title: "Quiz 2 - DUE", DueText: "May 1, 2025", Course: "MATH200"},
		{Title: "Lab 3 - due", DueText: "May 2, 2025", Course: "MATH200"},
	}

	tasks, skipped := NormalizeRows(rows)
	assert.Len(t, tasks, 2)
	assert.Empty(t, skipped)
}

func TestNormalizeRowsRejections(t *testing.T) {
	tests := []struct {
		name string
		row  RawRow
	}{
		{"missing suffix", RawRow{Title: "Essay 1", DueText: "April 5, 2025", Course: "ENGL101"}},
		{"empty due text", RawRow{Title: "Quiz 2 - due", DueText: "", Course: "MATH200"}},
		{"empty title", RawRow{Title: "", DueText: "April 5, 2025", Course: "ENGL101"}},
		{"unparseable due text", RawRow{Title: "Essay 1 - Due", DueText: "whenever it suits", Course: "ENGL101"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, skipped := NormalizeRows([]RawRow{tt.row})
			assert.Empty(t, tasks)
			require.Len(t, skipped, 1)
			assert.Equal(t, 0, skipped[0].Index)
			assert.NotEmpty(t, skipped[0].Reason)
		})
	}
}

func TestNormalizeRowsDefaultCourse(t *testing.T) {
	rows := []RawRow{
		{Title: "Essay 1 - Due", DueText: "April 5, 2025", Course: ""},
	}

	tasks, _ := NormalizeRows(rows)
	require.Len(t, tasks, 1)
	require.NotNil(t, tasks[0].Category)
	assert.Equal(t, "Unknown Course", *tasks[0].Category)
}

func TestNormalizeRowsPreservesOrder(t *testing.T) {
	rows := []RawRow{
		{Title: "A - Due", DueText: "June 3, 2025", Course: "C1"},
		{Title: "skipped", DueText: "June 1, 2025", Course: "C1"},
		{Title: "B - Due", DueText: "June 1, 2025", Course: "C1"},
		{Title: "C - Due", DueText: "June 2, 2025", Course: "C1"},
	}

	tasks, skipped := NormalizeRows(rows)
	require.Len(t, tasks, 3)
	require.Len(t, skipped, 1)

	// Page order, not date order.
	assert.Equal(t, "A - Due", tasks[0].Title)
	assert.Equal(t, "B - Due", tasks[1].Title)
	assert.Equal(t, "C - Due", tasks[2].Title)
	assert.Equal(t, 1, skipped[0].Index)
}

func TestNormalizeRowsDueDateIsUTC(t *testing.T) {
	rows := []RawRow{
		{Title: "Essay 1 - Due", DueText: "April 5, 2025", Course: "ENGL101"},
	}

	tasks, _ := NormalizeRows(rows)
	require.Len(t, tasks, 1)

	due := tasks[0].DueDate
	assert.Equal(t, time.UTC, due.Location())
	assert.Equal(t, "2025-04-05", due.Format("2006-01-02"))

	// Round-trips through RFC 3339 to the same calendar date.
	parsed, err := time.Parse(time.RFC3339, due.Format(time.RFC3339))
	require.NoError(t, err)
	assert.Equal(t, "2025-04-05", parsed.UTC().Format("2006-01-02"))
}
