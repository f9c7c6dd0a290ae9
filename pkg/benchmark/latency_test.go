package benchmark

import (
	"bytes"
	"crypto/rand"
	"strings"
	"testing"
	"time"

	"bee-crypto/pkg/random"
)

func TestCalculateStats(t *testing.T) {
	var lat []time.Duration
	for i := 100; i >= 1; i-- {
		lat = append(lat, time.Duration(i)*time.Microsecond)
	}
	r := calculateStats(lat, 120, time.Second)
	if r.MinLatency != time.Microsecond || r.MaxLatency != 100*time.Microsecond {
		t.Fatalf("min/max = %v/%v", r.MinLatency, r.MaxLatency)
	}
	if r.MedianLatency != 51*time.Microsecond {
		t.Errorf("median = %v", r.MedianLatency)
	}
	if r.P95Latency != 96*time.Microsecond || r.P99Latency != 100*time.Microsecond {
		t.Errorf("p95/p99 = %v/%v", r.P95Latency, r.P99Latency)
	}
	if r.MessagesSent != 120 || r.MessagesOK != 100 {
		t.Errorf("counts = %d/%d", r.MessagesOK, r.MessagesSent)
	}
}

func TestCalculateStatsEmpty(t *testing.T) {
	r := calculateStats(nil, 5, time.Millisecond)
	if r.MessagesOK != 0 || r.MessagesSent != 5 || r.Throughput() != 0 {
		t.Fatalf("unexpected empty result %+v", r)
	}
}

func TestRunAllBenchmarks(t *testing.T) {
	opts := DefaultBenchmarkOptions()
	opts.Iterations = 20
	opts.MessageSize = 100
	opts.Compress = "zstd"
	results, err := RunAllBenchmarks(opts)
	if err != nil {
		t.Fatalf("RunAllBenchmarks failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	for _, r := range results {
		if r.MessagesOK != 20 {
			t.Errorf("%s: %d/20 round trips", r.Engine, r.MessagesOK)
		}
	}

	var out bytes.Buffer
	PrintResults(&out, results[0])
	if !strings.Contains(out.String(), "blowfish-cbc") {
		t.Errorf("summary misses engine name:\n%s", out.String())
	}

	out.Reset()
	if err := WriteCSV(&out, results); err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(out.String(), "\n"); lines != 5 {
		t.Errorf("CSV has %d lines, want 5", lines)
	}
}

func TestBenchmarkRejectsBadOptions(t *testing.T) {
	opts := DefaultBenchmarkOptions()
	opts.Iterations = 0
	if _, err := BenchmarkLatency(opts); err == nil {
		t.Fatal("expected error for zero iterations")
	}
	opts = DefaultBenchmarkOptions()
	opts.Cipher = "rc2"
	if _, err := BenchmarkLatency(opts); err == nil {
		t.Fatal("expected error for unknown cipher")
	}
}

type constReader byte

func (r constReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r)
	}
	return len(p), nil
}

func TestMessageEndingLikePadding(t *testing.T) {
	for _, fill := range []byte{0x80, 0x00} {
		random.Reader = constReader(fill)
		opts := DefaultBenchmarkOptions()
		opts.Iterations = 10
		r, err := BenchmarkLatency(opts)
		random.Reader = rand.Reader
		if err != nil {
			t.Fatalf("fill %#x: BenchmarkLatency failed: %v", fill, err)
		}
		if r.MessagesOK != 10 {
			t.Errorf("fill %#x: %d/10 round trips", fill, r.MessagesOK)
		}
	}
}
