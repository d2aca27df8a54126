package analytics

import (
	"reflect"
	"testing"

	"github.com/tracelens/tracelens/internal/models"
)

func TestDetect_HighFrequencyOnly(t *testing.T) {
	buckets := []models.Bucket{
		{RunCount: 150, AvgTokens: 500, ErrorRate: 0},
	}
	Detect(buckets, DefaultThresholds())
	if !buckets[0].Suspicious {
		t.Fatal("bucket with 150 runs not flagged suspicious")
	}
	want := []string{models.ReasonHighFrequency}
	if !reflect.DeepEqual(buckets[0].SuspicionReasons, want) {
		t.Errorf("SuspicionReasons = %v, want %v", buckets[0].SuspicionReasons, want)
	}
}

func TestDetect_HighErrorRate(t *testing.T) {
	// 10 runs, 6 errors.
	buckets := []models.Bucket{
		{RunCount: 10, ErrorCount: 6, ErrorRate: 0.6, AvgTokens: 100},
	}
	Detect(buckets, DefaultThresholds())
	if !buckets[0].Suspicious {
		t.Fatal("bucket with error rate 0.6 not flagged suspicious")
	}
	if !buckets[0].HasReason(models.ReasonHighErrorRate) {
		t.Errorf("SuspicionReasons = %v, want high error rate", buckets[0].SuspicionReasons)
	}
	if buckets[0].HasReason(models.ReasonHighFrequency) {
		t.Errorf("unexpected high frequency reason with 10 runs")
	}
}

func TestDetect_MultipleReasons(t *testing.T) {
	buckets := []models.Bucket{
		{RunCount: 200, AvgTokens: 9000, ErrorRate: 0.8},
	}
	Detect(buckets, DefaultThresholds())
	if len(buckets[0].SuspicionReasons) != 3 {
		t.Errorf("SuspicionReasons = %v, want all three", buckets[0].SuspicionReasons)
	}
}

func TestDetect_BoundariesAreExclusive(t *testing.T) {
	// Thresholds use strict greater-than.
	buckets := []models.Bucket{
		{RunCount: 100, AvgTokens: 8000, ErrorRate: 0.5},
	}
	Detect(buckets, DefaultThresholds())
	if buckets[0].Suspicious {
		t.Errorf("bucket exactly at thresholds flagged: %v", buckets[0].SuspicionReasons)
	}
}

func TestDetect_ConfigurableThresholds(t *testing.T) {
	th := Thresholds{FreqThreshold: 5, TokenThreshold: 50, ErrorRateThreshold: 0.1}
	buckets := []models.Bucket{
		{RunCount: 6, AvgTokens: 60, ErrorRate: 0.2},
	}
	Detect(buckets, th)
	if len(buckets[0].SuspicionReasons) != 3 {
		t.Errorf("SuspicionReasons = %v, want all three under lowered thresholds", buckets[0].SuspicionReasons)
	}
}

func TestDetect_CleanBucketUntouched(t *testing.T) {
	buckets := []models.Bucket{
		{RunCount: 10, AvgTokens: 500, ErrorRate: 0.1},
	}
	Detect(buckets, DefaultThresholds())
	if buckets[0].Suspicious || len(buckets[0].SuspicionReasons) != 0 {
		t.Errorf("clean bucket annotated: suspicious=%v reasons=%v", buckets[0].Suspicious, buckets[0].SuspicionReasons)
	}
}

func TestDetect_ReannotationResets(t *testing.T) {
	buckets := []models.Bucket{
		{RunCount: 150, Suspicious: true, SuspicionReasons: []string{"stale"}},
	}
	Detect(buckets, Thresholds{FreqThreshold: 1000, TokenThreshold: 8000, ErrorRateThreshold: 0.5})
	if buckets[0].Suspicious || len(buckets[0].SuspicionReasons) != 0 {
		t.Errorf("stale annotation survived: %v", buckets[0].SuspicionReasons)
	}
}
