package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayWindow(t *testing.T) {
	offset := 5*time.Hour + 30*time.Minute

	t.Run("same date when local clock has not crossed midnight", func(t *testing.T) {
		now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
		day, from, to := DayWindow(now, offset)

		assert.Equal(t, time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC), day)
		assert.Equal(t, day, from)
		assert.Equal(t, day.Add(24*time.Hour), to)
	})

	t.Run("evening UTC is already tomorrow locally", func(t *testing.T) {
		now := time.Date(2025, 11, 3, 19, 0, 0, 0, time.UTC)
		day, _, _ := DayWindow(now, offset)

		assert.Equal(t, time.Date(2025, 11, 4, 0, 0, 0, 0, time.UTC), day)
	})

	t.Run("zero offset keeps the UTC date", func(t *testing.T) {
		now := time.Date(2025, 11, 3, 23, 59, 0, 0, time.UTC)
		day, _, _ := DayWindow(now, 0)

		assert.Equal(t, time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC), day)
	})
}
