package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"bee-crypto/pkg/config"
	"bee-crypto/pkg/log"
)

// Version information - will be set at build time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// cfg is filled by the app's Before hook.
var cfg *config.Config

func newApp() *cli.App {
	return &cli.App{
		Name:    "beecrypt",
		Usage:   "Blowfish and GOST file encryption",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to the configuration file `PATH`",
				EnvVars: []string{"BEE_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Console log level `LEVEL` (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "journal",
				Usage: "SQLite journal `PATH` that records every log event",
			},
		},
		Before: setup,
		After: func(*cli.Context) error {
			return log.Close()
		},
		Commands: []*cli.Command{
			encryptCommand,
			decryptCommand,
			keygenCommand,
			serveCommand,
			logsCommand,
			selftestCommand,
			benchCommand,
		},
	}
}

func setup(c *cli.Context) error {
	var err error
	cfg, err = config.Load(c.String("config"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("journal") {
		cfg.Journal = c.String("journal")
	}
	log.SetStd(cfg.LogLevel)
	if cfg.Journal != "" {
		if err := log.Init(cfg.Journal); err != nil {
			return cli.Exit(err.Error(), 2)
		}
	}
	log.Printf("using config file %s", cfg.ConfigFile)
	return nil
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
