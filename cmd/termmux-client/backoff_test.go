package main

import (
	"testing"
	"time"
)

func TestBackoffDurationDoublesUpToCap(t *testing.T) {
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, maxBackoff},
		{100, maxBackoff},
	}
	for _, c := range cases {
		if got := backoffDuration(c.attempt); got != c.want {
			t.Errorf("backoffDuration(%d) = %s, want %s", c.attempt, got, c.want)
		}
	}
}

func TestBackoffDurationMonotonic(t *testing.T) {
	prev := time.Duration(0)
	for attempt := 0; attempt < 10; attempt++ {
		d := backoffDuration(attempt)
		if d < prev {
			t.Fatalf("backoffDuration(%d) = %s, less than previous %s", attempt, d, prev)
		}
		prev = d
	}
}
