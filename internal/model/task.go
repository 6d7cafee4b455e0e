package model

import "time"

const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	DueDate     time.Time `json:"due_date"`
	Repeated    bool      `json:"repeated"`
	Completed   bool      `json:"completed"`
	Category    *string   `json:"category"`
	Priority    string    `json:"priority"`
	SpaceID     *string   `json:"space_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type TaskInput struct {
	Title       string    `json:"title" binding:"required"`
	Description *string   `json:"description"`
	DueDate     time.Time `json:"due_date" binding:"required"`
	Repeated    bool      `json:"repeated"`
	Completed   bool      `json:"completed"`
	Category    *string   `json:"category"`
	Priority    string    `json:"priority"`
	SpaceID     *string   `json:"space_id"`
}
