package models

import "time"

// Budget is a per-category spending limit for one month ("2006-01" format).
type Budget struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Category    string    `json:"category"`
	LimitAmount float64   `json:"limit_amount"`
	Month       string    `json:"month"`
	CreatedAt   time.Time `json:"created_at"`
}
