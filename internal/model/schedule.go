package model

import "time"

// ScheduleItem is one block on the daily schedule, optionally linked to a task.
type ScheduleItem struct {
	ID        string    `json:"id"`
	TaskID    *string   `json:"task_id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

type ScheduleInput struct {
	TaskID    *string   `json:"task_id"`
	Title     string    `json:"title" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Date      string    `json:"date" binding:"required"`
	Notes     *string   `json:"notes"`
}
