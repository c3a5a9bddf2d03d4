package entity

import "time"

// TimeBlock is a named slot of the user's day plan; Duration is in minutes.
type TimeBlock struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     *string   `json:"color"`
	Duration  int       `json:"duration"`
	Order     int       `json:"order"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type TimeBlockPatch struct {
	Name     *string
	Color    *string
	Duration *int
	Order    *int
}

func (p TimeBlockPatch) Apply(b *TimeBlock) {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Color != nil {
		b.Color = p.Color
	}
	if p.Duration != nil {
		b.Duration = *p.Duration
	}
	if p.Order != nil {
		b.Order = *p.Order
	}
}
