package analytics

import "github.com/tracelens/tracelens/internal/models"

// Thresholds configure the misuse predicates. ErrorRateThreshold is a
// fraction in [0, 1].
type Thresholds struct {
	FreqThreshold      int
	TokenThreshold     float64
	ErrorRateThreshold float64
}

// DefaultThresholds returns the stock detection thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		FreqThreshold:      100,
		TokenThreshold:     8000,
		ErrorRateThreshold: 0.5,
	}
}

// Each predicate inspects one bucket independently and returns whether
// it fires plus its reason tag. New rules slot in by appending here.
var predicates = []func(*models.Bucket, Thresholds) (bool, string){
	highFrequency,
	excessiveTokens,
	highErrorRate,
}

func highFrequency(b *models.Bucket, th Thresholds) (bool, string) {
	return b.RunCount > th.FreqThreshold, models.ReasonHighFrequency
}

func excessiveTokens(b *models.Bucket, th Thresholds) (bool, string) {
	return b.AvgTokens > th.TokenThreshold, models.ReasonExcessiveTokens
}

func highErrorRate(b *models.Bucket, th Thresholds) (bool, string) {
	return b.ErrorRate > th.ErrorRateThreshold, models.ReasonHighErrorRate
}

// Detect annotates each bucket with Suspicious and SuspicionReasons. A
// bucket collects every reason whose predicate fires.
func Detect(buckets []models.Bucket, th Thresholds) {
	for i := range buckets {
		b := &buckets[i]
		b.Suspicious = false
		b.SuspicionReasons = nil
		for _, pred := range predicates {
			if fired, reason := pred(b, th); fired {
				b.Suspicious = true
				b.SuspicionReasons = append(b.SuspicionReasons, reason)
			}
		}
	}
}
