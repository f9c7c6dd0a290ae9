// Package api exposes the engines over HTTP.
package api

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"bee-crypto/pkg/engine"
	"bee-crypto/pkg/log"
	"bee-crypto/pkg/secure"
)

// Request is the body of /v1/encrypt and /v1/decrypt. Data is base64 in JSON.
type Request struct {
	Cipher string `json:"cipher"`
	Mode   string `json:"mode"`
	Key    string `json:"key"`
	IV     string `json:"iv,omitempty"`
	Data   []byte `json:"data"`
}

type Response struct {
	Data []byte `json:"data"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type CipherInfo struct {
	Name       string   `json:"name"`
	MinKeySize int      `json:"min_key_size"`
	MaxKeySize int      `json:"max_key_size"`
	BlockSize  int      `json:"block_size"`
	Modes      []string `json:"modes"`
}

type Service struct {
	Api *echo.Echo
	// MaxBody caps request bodies in bytes.
	MaxBody int64
}

const DefaultMaxBody = 16 << 20

func NewService() *Service {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	s := &Service{Api: e, MaxBody: DefaultMaxBody}
	e.Use(s.limitBody)
	e.GET("/v1/ciphers", s.GetCiphers)
	e.POST("/v1/encrypt", s.PostEncrypt)
	e.POST("/v1/decrypt", s.PostDecrypt)
	return s
}

func (s *Service) limitBody(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, s.MaxBody)
		return next(c)
	}
}

func (s *Service) GetCiphers(c echo.Context) error {
	var out []CipherInfo
	for _, name := range engine.Ciphers() {
		min, max, err := engine.KeySizes(name)
		if err != nil {
			return err
		}
		bs, err := engine.BlockSize(name)
		if err != nil {
			return err
		}
		out = append(out, CipherInfo{
			Name:       name,
			MinKeySize: min,
			MaxKeySize: max,
			BlockSize:  bs,
			Modes:      engine.Modes(),
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Service) PostEncrypt(c echo.Context) error {
	return s.handle(c, true)
}

func (s *Service) PostDecrypt(c echo.Context) error {
	return s.handle(c, false)
}

func badRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}

func (s *Service) handle(c echo.Context, encrypt bool) error {
	var req Request
	if err := c.Bind(&req); err != nil {
		return badRequest(c, fmt.Errorf("invalid request body: %w", err))
	}
	key, err := hex.DecodeString(req.Key)
	if err != nil {
		return badRequest(c, fmt.Errorf("key: %w", err))
	}
	defer secure.Erase(key)

	var iv []byte
	if req.IV != "" {
		if !encrypt {
			return badRequest(c, errors.New("iv is only accepted for encryption"))
		}
		if iv, err = hex.DecodeString(req.IV); err != nil {
			return badRequest(c, fmt.Errorf("iv: %w", err))
		}
	}

	e, err := engine.New(req.Cipher, req.Mode, key)
	if err != nil {
		return badRequest(c, err)
	}
	defer e.Close()

	start := time.Now()
	var out []byte
	if encrypt {
		out, err = e.EncryptWithIV(req.Data, iv)
	} else {
		out, err = e.Decrypt(req.Data)
	}
	if err != nil {
		log.Debug().Err(err).Str("engine", e.Name()).Msg("api request rejected")
		return badRequest(c, err)
	}
	log.Debug().
		Str("cipher", e.Cipher()).
		Str("mode", e.Mode()).
		Bool("encrypt", encrypt).
		Int("in", len(req.Data)).
		Int("out", len(out)).
		Dur("took", time.Since(start)).
		Msg("api request")
	return c.JSON(http.StatusOK, Response{Data: out})
}

// Run serves on addr until ctx is cancelled.
func (s *Service) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("api listening")
		errCh <- s.Api.Start(addr)
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Api.Shutdown(shutdownCtx)
	}
}
