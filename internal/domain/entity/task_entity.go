package entity

import "time"

// Priority represents task priority level
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Task struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Priority    *Priority `json:"priority"`
	IsCompleted bool      `json:"isCompleted"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskPatch carries the fields of a partial update; nil means unchanged.
type TaskPatch struct {
	Name        *string
	Priority    *Priority
	IsCompleted *bool
	CreatedAt   *time.Time
}

func (p TaskPatch) Apply(t *Task) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Priority != nil {
		t.Priority = p.Priority
	}
	if p.IsCompleted != nil {
		t.IsCompleted = *p.IsCompleted
	}
	if p.CreatedAt != nil {
		t.CreatedAt = *p.CreatedAt
	}
}
