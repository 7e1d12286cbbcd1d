package models

import "time"

// FinancialGoal is a savings target. SavedAmount is a derived projection
// fed by transfer transactions targeting the goal, not a stored account
// balance.
type FinancialGoal struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	GoalName     string    `json:"goal_name"`
	TargetAmount float64   `json:"target_amount"`
	SavedAmount  float64   `json:"saved_amount"`
	Deadline     NullTime  `json:"deadline"`
	IsCompleted  bool      `json:"is_completed"`
	CreatedAt    time.Time `json:"created_at"`
}

// Progress returns the saved percentage clamped to [0, 100].
func (g *FinancialGoal) Progress() int {
	if g.TargetAmount <= 0 {
		return 0
	}
	p := int(g.SavedAmount / g.TargetAmount * 100)
	if p > 100 {
		p = 100
	}
	if p < 0 {
		p = 0
	}
	return p
}
