package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SAP-F-2025/score-service/internal/models"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		want   models.Statistics
	}{
		{
			name:   "empty",
			scores: nil,
			want:   models.Statistics{Average: "0", Highest: 0, Lowest: 0, Count: 0, PassRate: "0%"},
		},
		{
			name:   "single",
			scores: []int{85},
			want:   models.Statistics{Average: "85.0", Highest: 85, Lowest: 85, Count: 1, PassRate: "100.0%"},
		},
		{
			name:   "mixed",
			scores: []int{50, 70, 90},
			want:   models.Statistics{Average: "70.0", Highest: 90, Lowest: 50, Count: 3, PassRate: "66.7%"},
		},
		{
			name:   "half rounds away from zero",
			scores: []int{85, 92},
			want:   models.Statistics{Average: "88.5", Highest: 92, Lowest: 85, Count: 2, PassRate: "100.0%"},
		},
		{
			name:   "threshold is inclusive",
			scores: []int{60, 59},
			want:   models.Statistics{Average: "59.5", Highest: 60, Lowest: 59, Count: 2, PassRate: "50.0%"},
		},
		{
			name:   "all failing",
			scores: []int{0, 10, 20},
			want:   models.Statistics{Average: "10.0", Highest: 20, Lowest: 0, Count: 3, PassRate: "0.0%"},
		},
		{
			name:   "repeating third",
			scores: []int{100, 100, 99},
			want:   models.Statistics{Average: "99.7", Highest: 100, Lowest: 99, Count: 3, PassRate: "100.0%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Aggregate(tt.scores))
		})
	}
}

func TestAggregate_Bounds(t *testing.T) {
	scores := []int{73, 12, 99, 60, 45, 88, 100, 0}
	got := Aggregate(scores)

	assert.Equal(t, len(scores), got.Count)
	assert.Equal(t, 0, got.Lowest)
	assert.Equal(t, 100, got.Highest)
	assert.LessOrEqual(t, got.Lowest, got.Highest)
}
