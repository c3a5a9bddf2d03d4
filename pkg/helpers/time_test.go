package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDayAndDaysAgo(t *testing.T) {
	ts := time.Date(2026, 5, 10, 17, 45, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC), StartOfDay(ts))
	assert.Equal(t, time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC), DaysAgo(ts, 7))
}
