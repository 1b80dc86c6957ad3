package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfWeekMondayStart(t *testing.T) {
	// Wednesday maps back to Monday.
	wednesday := time.Date(2025, time.June, 11, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC), startOfWeek(wednesday))

	// Sunday belongs to the week that started six days earlier.
	sunday := time.Date(2025, time.June, 15, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC), startOfWeek(sunday))

	// Monday is its own week start.
	monday := time.Date(2025, time.June, 9, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC), startOfWeek(monday))
}

func TestStartOfDayKeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	at := time.Date(2025, time.June, 11, 18, 45, 0, 0, loc)

	day := startOfDay(at)
	assert.Equal(t, time.Date(2025, time.June, 11, 0, 0, 0, 0, loc), day)
}
