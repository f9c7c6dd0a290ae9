package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"bee-crypto/internal/fn"
	"bee-crypto/pkg/api"
	"bee-crypto/pkg/log"
)

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "Serve the encryption HTTP API",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "listen",
			Aliases: []string{"l"},
			Usage:   "Listen address `ADDR`",
		},
	},
	Action: serveCmd,
}

func serveCmd(c *cli.Context) error {
	addr := fn.Or(c.String("listen"), cfg.ListenAddress)
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := api.NewService()
	if err := svc.Run(ctx, addr); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	log.Info().Msg("api stopped")
	return nil
}
