package model

import (
	"encoding/json"
	"time"
)

// Setting is a system-wide key/value entry, value stored as JSONB.
type Setting struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}
