package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMonthActive(t *testing.T) {
	tests := []struct {
		name       string
		startMonth int
		endMonth   int
		active     []int
		inactive   []int
	}{
		{
			name:       "normal range spring through fall",
			startMonth: 3,
			endMonth:   10,
			active:     []int{3, 4, 5, 6, 7, 8, 9, 10},
			inactive:   []int{1, 2, 11, 12},
		},
		{
			name:       "wrap-around november through february",
			startMonth: 11,
			endMonth:   2,
			active:     []int{11, 12, 1, 2},
			inactive:   []int{3, 4, 5, 6, 7, 8, 9, 10},
		},
		{
			name:       "single month window",
			startMonth: 6,
			endMonth:   6,
			active:     []int{6},
			inactive:   []int{1, 2, 3, 4, 5, 7, 8, 9, 10, 11, 12},
		},
		{
			name:       "full year",
			startMonth: 1,
			endMonth:   12,
			active:     []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &PlanSchedule{StartMonth: tt.startMonth, EndMonth: tt.endMonth}
			for _, m := range tt.active {
				assert.True(t, s.IsMonthActive(m), "month %d should be active", m)
			}
			for _, m := range tt.inactive {
				assert.False(t, s.IsMonthActive(m), "month %d should be inactive", m)
			}
		})
	}
}

func TestNextActiveMonth(t *testing.T) {
	tests := []struct {
		name       string
		startMonth int
		endMonth   int
		fromMonth  int
		expected   int
	}{
		{"already active", 3, 10, 5, 5},
		{"before window", 3, 10, 1, 3},
		{"after window rolls over", 3, 10, 11, 3},
		{"wrap-around from mid year", 11, 2, 6, 11},
		{"wrap-around already in tail", 11, 2, 1, 1},
		{"january window from june", 1, 2, 6, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &PlanSchedule{StartMonth: tt.startMonth, EndMonth: tt.endMonth}
			assert.Equal(t, tt.expected, s.NextActiveMonth(tt.fromMonth))
		})
	}
}

func TestValidate(t *testing.T) {
	valid := &PlanSchedule{PlanName: "Turf Care", StartMonth: 3, EndMonth: 10}
	assert.NoError(t, valid.Validate())

	missingName := &PlanSchedule{StartMonth: 3, EndMonth: 10}
	assert.Error(t, missingName.Validate())

	badStart := &PlanSchedule{PlanName: "Turf Care", StartMonth: 0, EndMonth: 10}
	assert.Error(t, badStart.Validate())

	badEnd := &PlanSchedule{PlanName: "Turf Care", StartMonth: 3, EndMonth: 13}
	assert.Error(t, badEnd.Validate())
}
