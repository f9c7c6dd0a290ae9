package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"bee-crypto/pkg/log"
)

// timeFormats are tried in order when parsing absolute time strings.
var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimeSpec accepts a duration before now ("1h", "30m") or an absolute
// timestamp.
func parseTimeSpec(spec string) (time.Time, error) {
	if d, err := time.ParseDuration(spec); err == nil {
		return time.Now().Add(-d), nil
	}
	for _, layout := range timeFormats {
		if ts, err := time.Parse(layout, spec); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time specification: '%s'. Use relative duration (e.g., '1h', '30m') or absolute format (e.g., '2023-10-27T15:04:05Z')", spec)
}

var logsCommand = &cli.Command{
	Name:      "logs",
	Usage:     "Print entries from the log journal",
	UsageText: "beecrypt --journal PATH logs [-n N | --since TIME_SPEC] [--pretty]",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"n"},
			Usage:   "Number of most recent entries `NUMBER`",
			Value:   log.DefaultLimit,
		},
		&cli.StringFlag{
			Name:    "since",
			Aliases: []string{"s"},
			Usage:   "Only entries since `TIME_SPEC` (e.g., '1h', '2023-10-27T10:00:00Z')",
		},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"l"},
			Usage:   "Max entries for --since `NUMBER`",
			Value:   1000,
		},
		&cli.BoolFlag{
			Name:    "pretty",
			Aliases: []string{"p"},
			Usage:   "Print one readable line per entry instead of raw JSON",
		},
	},
	Action: logsCmd,
}

func logsCmd(c *cli.Context) error {
	if cfg.Journal == "" {
		return cli.Exit("no journal configured, use --journal or the journal config key", 2)
	}

	var (
		results []log.Entry
		err     error
	)
	if c.IsSet("since") {
		start, perr := parseTimeSpec(c.String("since"))
		if perr != nil {
			return cli.Exit(fmt.Sprintf("Error parsing start time: %v", perr), 1)
		}
		results, err = log.Since(start, c.Int("limit"))
	} else {
		results, err = log.LastN(c.Int("count"))
	}
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error retrieving logs: %v", err), 1)
	}

	if len(results) == 0 {
		fmt.Fprintln(os.Stderr, "No log entries found matching the criteria.")
		return nil
	}
	for _, entry := range results {
		if c.Bool("pretty") {
			fmt.Fprintln(c.App.Writer, prettyEntry(entry))
		} else {
			fmt.Fprintln(c.App.Writer, entry.Event)
		}
	}
	return nil
}

func prettyEntry(e log.Entry) string {
	var fields map[string]any
	if err := json.Unmarshal([]byte(e.Event), &fields); err != nil {
		return e.Event
	}
	ts, _ := fields["time"].(string)
	lvl, _ := fields["level"].(string)
	msg, _ := fields["message"].(string)
	delete(fields, "time")
	delete(fields, "level")
	delete(fields, "message")
	line := fmt.Sprintf("%s %-5s %s", ts, lvl, msg)
	if len(fields) > 0 {
		rest, _ := json.Marshal(fields)
		line += " " + string(rest)
	}
	return line
}
