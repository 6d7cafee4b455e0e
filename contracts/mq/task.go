package mq

import "time"

const RoutingKeyTasksScraped = "tasks.scraped"

type ScrapedTask struct {
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	DueDate     time.Time `json:"due_date"`
	Category    *string   `json:"category"`
	Priority    string    `json:"priority"`
}

type TasksScrapedPayload struct {
	ScrapeID  string        `json:"scrape_id"`
	ScrapedAt time.Time     `json:"scraped_at"`
	Tasks     []ScrapedTask `json:"tasks"`
}
