package analytics

import (
	"time"

	"soundscope/internal/models"
)

// HourlyHistogram holds play counts bucketed by hour of day.
type HourlyHistogram struct {
	Buckets [24]int
}

// BuildHourlyHistogram buckets each play event by its hour of day in the
// given location. A nil location means the system's local time, matching
// what a listener sees in their own dashboard.
func BuildHourlyHistogram(events []models.PlayEvent, loc *time.Location) HourlyHistogram {
	if loc == nil {
		loc = time.Local
	}

	var h HourlyHistogram
	for _, event := range events {
		h.Buckets[event.PlayedAt.In(loc).Hour()]++
	}
	return h
}

// Total returns the number of plays across all buckets. It always equals the
// size of the input collection.
func (h HourlyHistogram) Total() int {
	total := 0
	for _, count := range h.Buckets {
		total += count
	}
	return total
}

// PeakHour returns the hour with the most plays and its count.
// Ties break toward the earliest hour (0 → 23 bucket order).
func (h HourlyHistogram) PeakHour() (int, int) {
	peak, max := 0, h.Buckets[0]
	for hour := 1; hour < 24; hour++ {
		if h.Buckets[hour] > max {
			peak, max = hour, h.Buckets[hour]
		}
	}
	return peak, max
}

// ListenerType labels a peak listening hour with a fixed hour-range band.
func ListenerType(peakHour int) string {
	switch {
	case peakHour < 6:
		return "Night Owl"
	case peakHour < 12:
		return "Early Bird"
	case peakHour < 17:
		return "Afternoon Enthusiast"
	case peakHour < 22:
		return "Evening Listener"
	default:
		return "Late Night Listener"
	}
}
