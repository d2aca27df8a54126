package analytics

import (
	"sort"
	"time"

	"github.com/tracelens/tracelens/internal/models"
)

type bucketAccum struct {
	runs         int
	errors       int
	latencySum   float64
	latencyCount int
	tokenSum     int
	costSum      float64
}

// Aggregate groups enriched records into fixed-width buckets over the
// half-open window [start, end). Records outside the window are excluded
// silently. The result is sorted ascending by bucket start. In sparse
// mode only buckets containing at least one record appear; dense mode
// materializes every interval in the window, empty ones with zero-valued
// averages.
func Aggregate(records []models.RunRecord, start, end time.Time, width time.Duration, dense bool) []models.Bucket {
	if width <= 0 || !end.After(start) {
		return nil
	}

	accums := make(map[int64]*bucketAccum)
	for i := range records {
		rec := &records[i]
		if rec.StartTime.Before(start) || !rec.StartTime.Before(end) {
			continue
		}
		idx := int64(rec.StartTime.Sub(start) / width)
		acc := accums[idx]
		if acc == nil {
			acc = &bucketAccum{}
			accums[idx] = acc
		}
		acc.runs++
		if rec.IsError() {
			acc.errors++
		}
		if ms, ok := rec.Latency(); ok {
			acc.latencySum += ms
			acc.latencyCount++
		}
		acc.tokenSum += rec.TotalTokens()
		acc.costSum += rec.CostUSD
	}

	var indices []int64
	if dense {
		n := int64((end.Sub(start) + width - 1) / width)
		indices = make([]int64, 0, n)
		for i := int64(0); i < n; i++ {
			indices = append(indices, i)
		}
	} else {
		indices = make([]int64, 0, len(accums))
		for idx := range accums {
			indices = append(indices, idx)
		}
		sort.Slice(indices, func(a, b int) bool { return indices[a] < indices[b] })
	}

	buckets := make([]models.Bucket, 0, len(indices))
	for _, idx := range indices {
		b := models.Bucket{Start: start.Add(time.Duration(idx) * width)}
		if acc := accums[idx]; acc != nil {
			b.RunCount = acc.runs
			b.ErrorCount = acc.errors
			b.TotalTokens = acc.tokenSum
			b.TotalCostUSD = acc.costSum
			b.AvgTokens = float64(acc.tokenSum) / float64(acc.runs)
			b.ErrorRate = float64(acc.errors) / float64(acc.runs)
			if acc.latencyCount > 0 {
				b.AvgLatencyMS = acc.latencySum / float64(acc.latencyCount)
			}
		}
		buckets = append(buckets, b)
	}
	return buckets
}
