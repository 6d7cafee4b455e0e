package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/PradyunT/catapult-project/internal/model"
)

const chatSystemPrompt = `You are a productivity mentor. Answer concisely and refer to the user's current tasks when relevant.`

const planSystemPrompt = `You generate structured task plans. Respond with JSON only, matching:
{"goal": string, "tasks": [{"title": string, "description": string, "due_date": "YYYY-MM-DD"}, ...]}
Requirements:
1. Create a progressive plan where each task builds upon previous ones in a logical sequence.
2. Include measurable milestones with specific metrics.
3. Include specific check-in points for assessment and plan adjustment.
4. EVERY task MUST have a specific due_date in YYYY-MM-DD format, on or after the current date.
5. For recurring activities, create separate dated checkpoints.`

type PlanTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
}

type Plan struct {
	Goal  string     `json:"goal"`
	Tasks []PlanTask `json:"tasks"`
}

// GeneratePlan asks Gemini for a dated task plan for the given goal.
func (c *Client) GeneratePlan(ctx context.Context, goal, taskContext string) (*Plan, error) {
	currentDate := time.Now().UTC().Format("2006-01-02")
	user := fmt.Sprintf(
		"Current date: %s\n---\nUSER'S CURRENT TASK CONTEXT:\n%s\n---\n\nGenerate a detailed task plan for the following goal: %s",
		currentDate, taskContext, goal,
	)

	text, err := c.generate(ctx, "generate_plan", planSystemPrompt, user, true)
	if err != nil {
		return nil, err
	}

	return ParsePlan(text)
}

// ParsePlan decodes and validates the model's JSON plan output.
func ParsePlan(text string) (*Plan, error) {
	// Some models wrap JSON in a markdown fence despite the mime type.
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var plan Plan
	if err := json.Unmarshal([]byte(text), &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan JSON: %w", err)
	}

	if plan.Goal == "" {
		return nil, fmt.Errorf("plan is missing a goal")
	}
	if len(plan.Tasks) == 0 {
		return nil, fmt.Errorf("plan contains no tasks")
	}
	for i, t := range plan.Tasks {
		if t.Title == "" {
			return nil, fmt.Errorf("plan task %d is missing a title", i)
		}
		if _, err := time.Parse("2006-01-02", t.DueDate); err != nil {
			return nil, fmt.Errorf("plan task %d has invalid due_date %q", i, t.DueDate)
		}
	}

	return &plan, nil
}

// BuildTaskContext renders the user's tasks as prompt context, mirroring
// what the dashboard shows.
func BuildTaskContext(tasks []model.Task) string {
	if len(tasks) == 0 {
		return "The user has no current tasks listed."
	}

	var b strings.Builder
	b.WriteString("Here is the user's current list of tasks for context:\n")
	for _, t := range tasks {
		status := "Pending"
		if t.Completed {
			status = "Completed"
		}
		desc := ""
		if t.Description != nil && *t.Description != "" {
			d := *t.Description
			if len(d) > 60 {
				d = d[:60] + "..."
			}
			desc = " - " + d
		}
		fmt.Fprintf(&b, "- %q (Priority: %s), Due: %s, Status: %s%s\n",
			t.Title, t.Priority, t.DueDate.UTC().Format("2006-01-02"), status, desc)
	}
	return b.String()
}
