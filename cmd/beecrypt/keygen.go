package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"bee-crypto/internal/fn"
	"bee-crypto/pkg/appdir"
	"bee-crypto/pkg/keyfile"
	"bee-crypto/pkg/log"
	"bee-crypto/pkg/secure"
)

var keygenCommand = &cli.Command{
	Name:  "keygen",
	Usage: "Generate a random key file",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "cipher",
			Aliases: []string{"c"},
			Usage:   "Cipher `NAME` the key is for",
		},
		&cli.IntFlag{
			Name:    "bytes",
			Aliases: []string{"n"},
			Usage:   "Key length `N` in bytes (0 picks the largest allowed)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Key file `PATH` (default ~/.bee-crypto/<cipher>.key)",
		},
		&cli.BoolFlag{
			Name:  "force",
			Usage: "Overwrite an existing key file",
		},
	},
	Action: keygenCmd,
}

func keygenCmd(c *cli.Context) error {
	name := fn.Or(c.String("cipher"), cfg.Cipher)
	out := c.String("output")
	if out == "" {
		if _, err := appdir.Ensure(); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		var err error
		if out, err = appdir.KeyPath(name); err != nil {
			return cli.Exit(err.Error(), 1)
		}
	}
	if _, err := os.Stat(out); err == nil && !c.Bool("force") {
		return cli.Exit(fmt.Sprintf("%s exists, use --force to overwrite", out), 1)
	}
	key, err := keyfile.Generate(name, c.Int("bytes"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	defer secure.Erase(key)
	if err := keyfile.Write(out, key); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	log.Info().Str("cipher", name).Int("bytes", len(key)).Str("path", out).Msg("key written")
	return nil
}
