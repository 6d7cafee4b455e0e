package model

import "time"

type Space struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Color       *string   `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
}

type SpaceInput struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}
