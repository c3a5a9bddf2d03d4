package entity

import "time"

type PomodoroSession struct {
	ID          string          `json:"id"`
	IsCompleted bool            `json:"isCompleted"`
	UserID      string          `json:"userId"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Rounds      []PomodoroRound `json:"rounds"`
}

type PomodoroRound struct {
	ID           string    `json:"id"`
	TotalSeconds int       `json:"totalSeconds"`
	IsCompleted  bool      `json:"isCompleted"`
	SessionID    string    `json:"-"`
	Position     int       `json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

type RoundPatch struct {
	TotalSeconds *int
	IsCompleted  *bool
}

func (p RoundPatch) Apply(r *PomodoroRound) {
	if p.TotalSeconds != nil {
		r.TotalSeconds = *p.TotalSeconds
	}
	if p.IsCompleted != nil {
		r.IsCompleted = *p.IsCompleted
	}
}
