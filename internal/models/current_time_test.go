package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewCurrentTimeModel(t *testing.T) {
	testCases := []struct {
		name     string
		testTime time.Time
	}{
		{
			name:     "UTC Time",
			testTime: time.Date(2025, 5, 3, 12, 0, 0, 0, time.UTC),
		},
		{
			name:     "Local Time",
			testTime: time.Date(2025, 5, 3, 12, 0, 0, 0, time.Local),
		},
		{
			name:     "Zero Time",
			testTime: time.Time{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := NewCurrentTimeModel(tc.testTime)

			assert.Equal(t, tc.testTime.UnixNano()/int64(time.Millisecond), result.Time)
			assert.Equal(t, tc.testTime.Format(time.RFC3339), result.ReadableTime)
		})
	}
}
