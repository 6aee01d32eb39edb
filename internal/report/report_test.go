package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/azargarov/tasksched"
)

var testRecord = tasksched.Record{
	TotalTasks:       100,
	TotalTimeSec:     0.25,
	AverageLatencyUs: 12.5,
	MaxLatencyUs:     40,
	MinLatencyUs:     1.5,
}

func TestWriteFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.json")

	codec, ok := GetCodec(CodecNameJSON)
	if !ok {
		t.Fatal("json codec missing")
	}
	if err := WriteFile(path, testRecord, codec); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := `{
  "total_tasks": 100,
  "total_time_sec": 0.25,
  "average_latency_us": 12.5,
  "max_latency_us": 40,
  "min_latency_us": 1.5
}
`
	if string(data) != want {
		t.Fatalf("file content:\n%s\nwant:\n%s", data, want)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestWriteFileMsgpack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.msgpack")

	codec, _ := GetCodec(CodecNameMsgpack)
	if err := WriteFile(path, testRecord, codec); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var got map[string]any
	if err := msgpack.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("decoded %d fields; want 5: %v", len(got), got)
	}
	if got["average_latency_us"] != 12.5 {
		t.Fatalf("average_latency_us = %v", got["average_latency_us"])
	}
}

func TestWriteFileMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "metrics.json")
	if err := WriteFile(path, testRecord, JSONCodec{}); err == nil {
		t.Fatal("expected error writing into a missing directory")
	}
}

func TestGetCodec(t *testing.T) {
	if c, ok := GetCodec(""); !ok || c.Name() != CodecNameJSON {
		t.Fatalf("default codec = %v, %v", c, ok)
	}
	if _, ok := GetCodec("xml"); ok {
		t.Fatal("unknown codec accepted")
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	sum := tasksched.Summary{Executed: 4, Elapsed: 2 * time.Second}
	if err := WriteText(&buf, sum); err != nil {
		t.Fatalf("write text: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Total Tasks Executed: 4") || !strings.Contains(out, "Total Time: 2.000 seconds") {
		t.Fatalf("unexpected text:\n%s", out)
	}
}
