package models

import "time"

// Suspicion reason tags attached to buckets by the misuse detector.
const (
	ReasonHighFrequency   = "high frequency"
	ReasonExcessiveTokens = "excessive tokens"
	ReasonHighErrorRate   = "high error rate"
)

// Bucket is a fixed-width time interval with aggregated run statistics.
// ErrorRate is a fraction in [0, 1]; views convert to percent for display.
type Bucket struct {
	Start            time.Time
	RunCount         int
	ErrorCount       int
	AvgLatencyMS     float64
	AvgTokens        float64
	TotalTokens      int
	TotalCostUSD     float64
	ErrorRate        float64
	Suspicious       bool
	SuspicionReasons []string
}

// HasReason reports whether the bucket carries the given suspicion tag.
func (b *Bucket) HasReason(reason string) bool {
	for _, r := range b.SuspicionReasons {
		if r == reason {
			return true
		}
	}
	return false
}
