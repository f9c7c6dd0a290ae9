package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"bee-crypto/internal/fn"
	"bee-crypto/pkg/appdir"
	"bee-crypto/pkg/engine"
	"bee-crypto/pkg/keyfile"
	"bee-crypto/pkg/log"
	"bee-crypto/pkg/secure"
	"bee-crypto/pkg/transform"
)

const encryptedSuffix = ".bee"

func engineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "cipher",
			Aliases: []string{"c"},
			Usage:   "Cipher `NAME` (blowfish, gost)",
		},
		&cli.StringFlag{
			Name:    "mode",
			Aliases: []string{"m"},
			Usage:   "Chaining mode `NAME` (ecb, cbc)",
		},
		&cli.StringFlag{
			Name:    "key-file",
			Aliases: []string{"k"},
			Usage:   "Hex key file `PATH`; prompts on the terminal when unset",
		},
		&cli.StringFlag{
			Name:    "compress",
			Aliases: []string{"z"},
			Usage:   "Compression `NAME` applied before encryption (none, zstd, gzip)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output `PATH`, only valid with a single input file",
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"j"},
			Usage:   "Files processed in parallel `N`",
		},
		&cli.BoolFlag{
			Name:  "lock-memory",
			Usage: "Lock key schedules in RAM",
		},
	}
}

var (
	encryptCommand = &cli.Command{
		Name:      "encrypt",
		Usage:     "Encrypt files into FILE.bee",
		ArgsUsage: "FILE...",
		Flags: append(engineFlags(), &cli.StringFlag{
			Name:  "iv",
			Usage: "Fixed CBC initialization vector `HEX` (random when unset)",
		}),
		Action: func(c *cli.Context) error { return cryptCmd(c, true) },
	}
	decryptCommand = &cli.Command{
		Name:      "decrypt",
		Usage:     "Decrypt FILE.bee files",
		ArgsUsage: "FILE...",
		Flags:     engineFlags(),
		Action:    func(c *cli.Context) error { return cryptCmd(c, false) },
	}
)

// applyFlags overrides configuration values with flags given on the command line.
func applyFlags(c *cli.Context) {
	if c.IsSet("cipher") {
		cfg.Cipher = c.String("cipher")
	}
	if c.IsSet("mode") {
		cfg.Mode = c.String("mode")
	}
	if c.IsSet("key-file") {
		cfg.KeyFile = c.String("key-file")
	}
	if c.IsSet("compress") {
		cfg.Compress = c.String("compress")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("lock-memory") {
		cfg.LockMemory = c.Bool("lock-memory")
	}
}

// loadKey reads the configured key file, then the cipher's default key file
// in the app directory, and finally prompts on the terminal.
func loadKey() ([]byte, error) {
	if cfg.KeyFile != "" {
		return keyfile.Read(cfg.KeyFile)
	}
	if p, err := appdir.KeyPath(cfg.Cipher); err == nil {
		if _, err := os.Stat(p); err == nil {
			log.Debug().Str("path", p).Msg("using default key file")
			return keyfile.Read(p)
		}
	}
	key, err := keyfile.Prompt(int(os.Stdin.Fd()), os.Stderr, fmt.Sprintf("%s key: ", cfg.Cipher))
	if errors.Is(err, keyfile.ErrNotTerminal) {
		return nil, errors.New("no key: set --key-file or run on a terminal")
	}
	return key, err
}

func outputPath(in string, encrypt bool) (string, error) {
	if encrypt {
		return in + encryptedSuffix, nil
	}
	if !strings.HasSuffix(in, encryptedSuffix) {
		return "", fmt.Errorf("%s: expected %s suffix, use --output", in, encryptedSuffix)
	}
	return strings.TrimSuffix(in, encryptedSuffix), nil
}

func cryptCmd(c *cli.Context, encrypt bool) error {
	applyFlags(c)
	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), 2)
	}
	files := c.Args().Slice()
	if len(files) == 0 {
		return cli.Exit("no input files", 2)
	}
	if c.IsSet("output") && len(files) != 1 {
		return cli.Exit("--output needs exactly one input file", 2)
	}

	var iv []byte
	if encrypt && c.IsSet("iv") {
		var err error
		if iv, err = hex.DecodeString(c.String("iv")); err != nil {
			return cli.Exit(fmt.Sprintf("invalid --iv: %v", err), 2)
		}
	}

	key, err := loadKey()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	var opts []engine.Option
	if cfg.LockMemory {
		opts = append(opts, engine.WithLockedMemory())
	}
	e, err := engine.New(cfg.Cipher, cfg.Mode, key, opts...)
	secure.Erase(key)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer e.Close()

	compress, err := transform.NewCompression(cfg.Compress)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	p, err := transform.NewProcessor([]transform.Transform{compress, &ivCipher{e: e, iv: iv}})
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	verb := fn.T(encrypt, "encrypted", "decrypted")
	start := time.Now()
	var total atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(cfg.Workers)
	for _, in := range files {
		g.Go(func() error {
			out := c.String("output")
			if out == "" {
				var err error
				if out, err = outputPath(in, encrypt); err != nil {
					return err
				}
			}
			n, err := processFile(p, in, out, encrypt)
			if err != nil {
				return err
			}
			total.Add(n)
			log.Info().Str("in", in).Str("out", out).Str("size", humanize.IBytes(uint64(n))).
				Str("engine", e.Name()).Msg(verb)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	log.Info().Int("files", len(files)).Str("bytes", humanize.IBytes(uint64(total.Load()))).
		Dur("took", time.Since(start)).Msg("done")
	return nil
}

func processFile(p *transform.Processor, in, out string, encrypt bool) (int64, error) {
	data, err := os.ReadFile(in)
	if err != nil {
		return 0, err
	}
	var result []byte
	if encrypt {
		result, err = p.Seal(data)
	} else {
		result, err = p.Open(data)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", in, err)
	}
	if err := os.WriteFile(out, result, 0o600); err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

// ivCipher is the encryption stage of the file pipeline, carrying an
// optional fixed IV.
type ivCipher struct {
	e  *engine.Engine
	iv []byte
}

func (s *ivCipher) Apply(data []byte) ([]byte, error)   { return s.e.EncryptWithIV(data, s.iv) }
func (s *ivCipher) Reverse(data []byte) ([]byte, error) { return s.e.Decrypt(data) }
func (s *ivCipher) Name() string                        { return s.e.Name() }
