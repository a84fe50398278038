package services

import (
	"math"
	"strconv"

	"github.com/SAP-F-2025/score-service/internal/models"
)

// Aggregate summarises scores. The average and pass rate are rounded half
// away from zero to one decimal; a score passes at models.PassingScore.
func Aggregate(scores []int) models.Statistics {
	if len(scores) == 0 {
		return models.ZeroStatistics()
	}

	sum, passed := 0, 0
	highest, lowest := scores[0], scores[0]
	for _, s := range scores {
		sum += s
		if s > highest {
			highest = s
		}
		if s < lowest {
			lowest = s
		}
		if s >= models.PassingScore {
			passed++
		}
	}

	count := len(scores)
	average := float64(sum) / float64(count)
	passRate := 100 * float64(passed) / float64(count)

	return models.Statistics{
		Average:  formatOneDecimal(average),
		Highest:  highest,
		Lowest:   lowest,
		Count:    count,
		PassRate: formatOneDecimal(passRate) + "%",
	}
}

func formatOneDecimal(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', 1, 64)
}
