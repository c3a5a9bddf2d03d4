package entity

const (
	DefaultWorkInterval  = 50
	DefaultBreakInterval = 10
	DefaultIntervalCount = 7
)

// Intervals is the per-user pomodoro configuration, in minutes (Count is rounds per session).
type Intervals struct {
	UserID string `json:"-"`
	Work   int    `json:"work"`
	Break  int    `json:"break"`
	Count  int    `json:"count"`
}

func DefaultIntervals(userID string) Intervals {
	return Intervals{
		UserID: userID,
		Work:   DefaultWorkInterval,
		Break:  DefaultBreakInterval,
		Count:  DefaultIntervalCount,
	}
}
