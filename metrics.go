package tasksched

import (
	"fmt"
	"strings"
	"time"
)

// Summary describes a finished scheduler run.
//
// Latencies are enqueue-to-completion durations: queueing delay and
// execution time together. When no task finished, AvgLatency,
// MaxLatency and MinLatency are zero and HasSamples reports false.
type Summary struct {
	Executed uint64
	Failed   uint64

	// Dropped counts tasks still queued when the last worker exited.
	// It is non-zero only for a pool with no workers.
	Dropped int

	Elapsed time.Duration

	AvgLatency time.Duration
	MaxLatency time.Duration
	MinLatency time.Duration

	samples int
}

// HasSamples reports whether at least one latency sample was recorded.
func (s Summary) HasSamples() bool { return s.samples > 0 }

// summarize derives latency statistics from samples.
func summarize(samples []time.Duration) Summary {
	var sum Summary
	if len(samples) == 0 {
		return sum
	}

	minL, maxL := samples[0], samples[0]
	var total float64
	for _, d := range samples {
		if d < minL {
			minL = d
		}
		if d > maxL {
			maxL = d
		}
		total += float64(d)
	}

	avg := time.Duration(total / float64(len(samples)))
	// float rounding must not push the mean outside the observed range
	avg = min(max(avg, minL), maxL)

	sum.samples = len(samples)
	sum.AvgLatency = avg
	sum.MaxLatency = maxL
	sum.MinLatency = minL
	return sum
}

// Record is the structured form of a Summary written for external
// consumers. Field order is part of the format.
type Record struct {
	TotalTasks       uint64  `json:"total_tasks" msgpack:"total_tasks"`
	TotalTimeSec     float64 `json:"total_time_sec" msgpack:"total_time_sec"`
	AverageLatencyUs float64 `json:"average_latency_us" msgpack:"average_latency_us"`
	MaxLatencyUs     float64 `json:"max_latency_us" msgpack:"max_latency_us"`
	MinLatencyUs     float64 `json:"min_latency_us" msgpack:"min_latency_us"`
}

func (s Summary) Record() Record {
	return Record{
		TotalTasks:       s.Executed,
		TotalTimeSec:     s.Elapsed.Seconds(),
		AverageLatencyUs: micros(s.AvgLatency),
		MaxLatencyUs:     micros(s.MaxLatency),
		MinLatencyUs:     micros(s.MinLatency),
	}
}

func micros(d time.Duration) float64 {
	return float64(d) / float64(time.Microsecond)
}

// String renders the human-readable performance block.
func (s Summary) String() string {
	var b strings.Builder
	r := s.Record()
	b.WriteString("===== Performance Metrics =====\n")
	fmt.Fprintf(&b, "Total Tasks Executed: %d\n", r.TotalTasks)
	if s.Failed > 0 {
		fmt.Fprintf(&b, "Failed Tasks: %d\n", s.Failed)
	}
	if s.Dropped > 0 {
		fmt.Fprintf(&b, "Dropped Tasks: %d\n", s.Dropped)
	}
	fmt.Fprintf(&b, "Total Time: %.3f seconds\n", r.TotalTimeSec)
	if !s.HasSamples() {
		b.WriteString("Latency: no data\n")
	} else {
		fmt.Fprintf(&b, "Average Latency: %.3f microseconds\n", r.AverageLatencyUs)
		fmt.Fprintf(&b, "Max Latency: %.3f microseconds\n", r.MaxLatencyUs)
		fmt.Fprintf(&b, "Min Latency: %.3f microseconds\n", r.MinLatencyUs)
	}
	b.WriteString("================================\n")
	return b.String()
}
