package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"bee-crypto/pkg/benchmark"
	"bee-crypto/pkg/log"
)

var benchCommand = &cli.Command{
	Name:  "bench",
	Usage: "Measure round-trip latency of the engines",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "cipher", Aliases: []string{"c"}, Usage: "Only this cipher `NAME`"},
		&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Usage: "Mode `NAME` used with --cipher", Value: "cbc"},
		&cli.StringFlag{Name: "compress", Aliases: []string{"z"}, Usage: "Compression `NAME`", Value: "none"},
		&cli.IntFlag{Name: "iterations", Aliases: []string{"i"}, Usage: "Round trips `N`", Value: 1000},
		&cli.IntFlag{Name: "size", Usage: "Message size `BYTES`", Value: 1024},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "CSV results `PATH`"},
	},
	Action: benchCmd,
}

func benchCmd(c *cli.Context) error {
	opts := benchmark.DefaultBenchmarkOptions()
	opts.Mode = c.String("mode")
	opts.Compress = c.String("compress")
	opts.Iterations = c.Int("iterations")
	opts.MessageSize = c.Int("size")

	var (
		results []*benchmark.LatencyResults
		err     error
	)
	if c.IsSet("cipher") {
		opts.Cipher = c.String("cipher")
		var r *benchmark.LatencyResults
		if r, err = benchmark.BenchmarkLatency(opts); err == nil {
			results = append(results, r)
		}
	} else {
		results, err = benchmark.RunAllBenchmarks(opts)
	}
	if err != nil {
		log.Error().Err(err).Msg("benchmark failed")
	}
	for _, r := range results {
		benchmark.PrintResults(os.Stdout, r)
	}
	if out := c.String("output"); out != "" && len(results) > 0 {
		if err := benchmark.SaveResultsToFile(results, out); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		log.Info().Str("path", out).Msg("results saved")
	}
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	return nil
}
