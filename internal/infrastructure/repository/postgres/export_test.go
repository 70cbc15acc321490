package postgres

import "time"

func seedStatementCount(now time.Time) int {
	batches, err := seedBatches(now)
	if err != nil {
		return -1
	}
	count := 0
	for _, batch := range batches {
		if batch.Len() > 0 {
			count++
		}
	}
	return count
}
