package benchmark

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/dustin/go-humanize"

	"bee-crypto/pkg/engine"
	"bee-crypto/pkg/log"
	"bee-crypto/pkg/padding"
	"bee-crypto/pkg/random"
	"bee-crypto/pkg/secure"
	"bee-crypto/pkg/transform"
)

// LatencyResults holds the results of one engine benchmark.
type LatencyResults struct {
	Engine        string
	Compress      string
	MinLatency    time.Duration
	MaxLatency    time.Duration
	AvgLatency    time.Duration
	MedianLatency time.Duration
	P95Latency    time.Duration
	P99Latency    time.Duration
	MessagesSent  int
	MessagesOK    int // round trips that restored the input
	TotalTime     time.Duration
	MessageSize   int
}

// Throughput is plaintext bytes per second over the successful round trips.
func (r *LatencyResults) Throughput() float64 {
	if r.TotalTime <= 0 {
		return 0
	}
	return float64(r.MessagesOK*r.MessageSize) / r.TotalTime.Seconds()
}

// BenchmarkOptions provides configuration for benchmarks.
type BenchmarkOptions struct {
	Cipher      string
	Mode        string
	Compress    string
	Iterations  int
	MessageSize int
}

// DefaultBenchmarkOptions returns sensible defaults.
func DefaultBenchmarkOptions() *BenchmarkOptions {
	return &BenchmarkOptions{
		Cipher:      engine.Blowfish,
		Mode:        engine.ModeCBC,
		Compress:    transform.CompressNone,
		Iterations:  1000,
		MessageSize: 1024,
	}
}

// BenchmarkLatency times Seal+Open round trips of random messages through
// one engine.
func BenchmarkLatency(opts *BenchmarkOptions) (*LatencyResults, error) {
	if opts.Iterations <= 0 || opts.MessageSize <= 0 {
		return nil, errors.New("benchmark: iterations and message size must be positive")
	}
	_, keySize, err := engine.KeySizes(opts.Cipher)
	if err != nil {
		return nil, err
	}
	key, err := random.Bytes(keySize)
	if err != nil {
		return nil, err
	}
	defer secure.Erase(key)
	e, err := engine.New(opts.Cipher, opts.Mode, key)
	if err != nil {
		return nil, err
	}
	defer e.Close()
	p, err := transform.Build(opts.Compress, e)
	if err != nil {
		return nil, err
	}

	msg, err := random.Bytes(opts.MessageSize)
	if err != nil {
		return nil, err
	}
	// A trailing zero or marker byte would be taken for padding on Open.
	if last := msg[len(msg)-1]; last == 0 || last == padding.Marker {
		msg[len(msg)-1] = 1
	}

	log.Debug().Str("engine", e.Name()).Int("iterations", opts.Iterations).
		Int("size", opts.MessageSize).Msg("benchmark starting")

	latencies := make([]time.Duration, 0, opts.Iterations)
	start := time.Now()
	for i := 0; i < opts.Iterations; i++ {
		t0 := time.Now()
		sealed, err := p.Seal(msg)
		if err != nil {
			log.Warn().Err(err).Int("iteration", i).Msg("benchmark seal failed")
			continue
		}
		opened, err := p.Open(sealed)
		if err != nil || !bytes.Equal(opened, msg) {
			log.Warn().Err(err).Int("iteration", i).Msg("benchmark round trip mismatch")
			continue
		}
		latencies = append(latencies, time.Since(t0))
	}

	res := calculateStats(latencies, opts.Iterations, time.Since(start))
	res.Engine = e.Name()
	res.Compress = opts.Compress
	res.MessageSize = opts.MessageSize
	return res, nil
}

func calculateStats(latencies []time.Duration, iterations int, totalTime time.Duration) *LatencyResults {
	if len(latencies) == 0 {
		return &LatencyResults{
			MessagesSent: iterations,
			TotalTime:    totalTime,
		}
	}

	slices.Sort(latencies)

	var sum time.Duration
	for _, latency := range latencies {
		sum += latency
	}

	return &LatencyResults{
		MinLatency:    latencies[0],
		MaxLatency:    latencies[len(latencies)-1],
		AvgLatency:    sum / time.Duration(len(latencies)),
		MedianLatency: latencies[len(latencies)/2],
		P95Latency:    latencies[(len(latencies)*95)/100],
		P99Latency:    latencies[(len(latencies)*99)/100],
		MessagesSent:  iterations,
		MessagesOK:    len(latencies),
		TotalTime:     totalTime,
	}
}

// RunAllBenchmarks benchmarks every cipher and mode combination with the
// message size, iteration count and compression of baseOpts.
func RunAllBenchmarks(baseOpts *BenchmarkOptions) ([]*LatencyResults, error) {
	var results []*LatencyResults
	var errs []error
	for _, c := range engine.Ciphers() {
		for _, m := range engine.Modes() {
			opts := *baseOpts
			opts.Cipher, opts.Mode = c, m
			r, err := BenchmarkLatency(&opts)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s-%s: %w", c, m, err))
				continue
			}
			results = append(results, r)
		}
	}
	return results, errors.Join(errs...)
}

// PrintResults writes a human readable summary to w.
func PrintResults(w io.Writer, results *LatencyResults) {
	fmt.Fprintf(w, "=== Latency Benchmark: %s (compress: %s) ===\n", results.Engine, results.Compress)
	fmt.Fprintf(w, "Message Size: %s\n", humanize.IBytes(uint64(results.MessageSize)))
	fmt.Fprintf(w, "Round Trips: %d/%d\n", results.MessagesOK, results.MessagesSent)
	fmt.Fprintf(w, "Total Time: %v\n", results.TotalTime)
	fmt.Fprintf(w, "Throughput: %s/s\n", humanize.IBytes(uint64(results.Throughput())))
	fmt.Fprintf(w, "Min Latency: %v\n", results.MinLatency)
	fmt.Fprintf(w, "Avg Latency: %v\n", results.AvgLatency)
	fmt.Fprintf(w, "Median Latency: %v\n", results.MedianLatency)
	fmt.Fprintf(w, "95th Percentile: %v\n", results.P95Latency)
	fmt.Fprintf(w, "99th Percentile: %v\n", results.P99Latency)
	fmt.Fprintf(w, "Max Latency: %v\n", results.MaxLatency)
	fmt.Fprintln(w, "==========================================")
}

// WriteCSV writes results as CSV with nanosecond latencies.
func WriteCSV(w io.Writer, results []*LatencyResults) error {
	if _, err := fmt.Fprintln(w, "Engine,Compress,MessageSize,MessagesSent,MessagesOK,MinLatency,AvgLatency,MedianLatency,P95Latency,P99Latency,MaxLatency,TotalTime"); err != nil {
		return err
	}
	for _, r := range results {
		_, err := fmt.Fprintf(w, "%s,%s,%d,%d,%d,%d,%d,%d,%d,%d,%d,%d\n",
			r.Engine,
			r.Compress,
			r.MessageSize,
			r.MessagesSent,
			r.MessagesOK,
			r.MinLatency.Nanoseconds(),
			r.AvgLatency.Nanoseconds(),
			r.MedianLatency.Nanoseconds(),
			r.P95Latency.Nanoseconds(),
			r.P99Latency.Nanoseconds(),
			r.MaxLatency.Nanoseconds(),
			r.TotalTime.Nanoseconds())
		if err != nil {
			return err
		}
	}
	return nil
}

func SaveResultsToFile(results []*LatencyResults, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
