package tasksched

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestSummarizeEmpty(t *testing.T) {
	sum := summarize(nil)
	if sum.HasSamples() {
		t.Fatal("empty summary reports samples")
	}
	if sum.AvgLatency != 0 || sum.MaxLatency != 0 || sum.MinLatency != 0 {
		t.Fatalf("expected zero sentinels, got %+v", sum)
	}
	if !strings.Contains(sum.String(), "no data") {
		t.Fatalf("text summary without samples:\n%s", sum.String())
	}
}

func TestSummarize(t *testing.T) {
	samples := []time.Duration{
		3 * time.Microsecond,
		1 * time.Microsecond,
		8 * time.Microsecond,
		4 * time.Microsecond,
	}
	sum := summarize(samples)

	if !sum.HasSamples() {
		t.Fatal("summary without samples")
	}
	if sum.MinLatency != time.Microsecond || sum.MaxLatency != 8*time.Microsecond {
		t.Fatalf("min/max = %v/%v", sum.MinLatency, sum.MaxLatency)
	}
	if sum.AvgLatency != 4*time.Microsecond {
		t.Fatalf("avg = %v; want 4µs", sum.AvgLatency)
	}
}

func TestSummarizeSingleSample(t *testing.T) {
	sum := summarize([]time.Duration{7 * time.Millisecond})
	if sum.AvgLatency != sum.MinLatency || sum.AvgLatency != sum.MaxLatency {
		t.Fatalf("single sample stats differ: %+v", sum)
	}
}

func TestRecordFieldOrder(t *testing.T) {
	sum := Summary{
		Executed:   3,
		Elapsed:    1500 * time.Millisecond,
		AvgLatency: 2 * time.Microsecond,
		MaxLatency: 3 * time.Microsecond,
		MinLatency: time.Microsecond,
		samples:    3,
	}

	b, err := json.Marshal(sum.Record())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"total_tasks":3,"total_time_sec":1.5,"average_latency_us":2,"max_latency_us":3,"min_latency_us":1}`
	if string(b) != want {
		t.Fatalf("record = %s; want %s", b, want)
	}

	text := sum.String()
	for _, line := range []string{
		"Total Tasks Executed: 3",
		"Total Time: 1.500 seconds",
		"Average Latency: 2.000 microseconds",
	} {
		if !strings.Contains(text, line) {
			t.Errorf("text summary missing %q:\n%s", line, text)
		}
	}
}
