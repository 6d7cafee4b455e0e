package scraper

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/PradyunT/catapult-project/internal/model"
)

const (
	// Brightspace labels due-date entries "<name> - Due"; anything else
	// on the calendar (events, office hours) is filtered out.
	dueSuffix = " - due"

	unknownCourse = "Unknown Course"
)

// RawRow is one assignment row as read from the live page. It exists only
// between extraction and normalization and is never persisted.
type RawRow struct {
	Title   string `json:"title"`
	DueText string `json:"dueText"`
	Course  string `json:"course"`
}

// Skip records why a raw row was rejected. Skips are diagnostic only;
// they do not change the accepted set.
type Skip struct {
	Index  int
	Title  string
	Reason string
}

// NormalizeRows converts raw rows into tasks, preserving page order.
// A row is accepted iff title and due text are non-empty, the lowercased
// title ends with " - due", and the due text parses to a real instant.
func NormalizeRows(rows []RawRow) ([]model.Task, []Skip) {
	tasks := make([]model.Task, 0, len(rows))
	var skipped []Skip

	for i, row := range rows {
		task, reason := normalizeRow(row)
		if reason != "" {
			skipped = append(skipped, Skip{Index: i, Title: row.Title, Reason: reason})
			continue
		}
		tasks = append(tasks, task)
	}

	return tasks, skipped
}

func normalizeRow(row RawRow) (model.Task, string) {
	if row.Title == "" {
		return model.Task{}, "empty title"
	}
	if row.DueText == "" {
		return model.Task{}, "empty due date"
	}
	if !strings.HasSuffix(strings.ToLower(row.Title), dueSuffix) {
		return model.Task{}, `title does not end with " - due"`
	}

	due, err := dateparse.ParseIn(row.DueText, time.UTC)
	if err != nil {
		return model.Task{}, fmt.Sprintf("unparseable due date %q", row.DueText)
	}
	if due.IsZero() {
		return model.Task{}, fmt.Sprintf("due date %q parsed to zero time", row.DueText)
	}

	course := row.Course
	if course == "" {
		course = unknownCourse
	}
	description := fmt.Sprintf("Scraped from Brightspace: %s", row.Title)

	return model.Task{
		Title:       row.Title,
		Description: &description,
		DueDate:     due.UTC(),
		Repeated:    false,
		Completed:   false,
		Category:    &course,
		Priority:    model.PriorityNormal,
		SpaceID:     nil,
	}, ""
}
