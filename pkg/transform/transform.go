// Package transform chains reversible byte transforms, typically a
// compression stage followed by encryption.
package transform

import (
	"fmt"

	"bee-crypto/pkg/engine"
)

type Transform interface {
	Apply(data []byte) ([]byte, error)
	Reverse(data []byte) ([]byte, error)
}

// Named is implemented by transforms that report a stage name.
type Named interface {
	Name() string
}

// Describe returns the stage name of t, or its Go type.
func Describe(t Transform) string {
	if n, ok := t.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", t)
}

type noOpTransform struct{}

func NewNoOpTransform() Transform                            { return &noOpTransform{} }
func (n *noOpTransform) Apply(data []byte) ([]byte, error)   { return data, nil }
func (n *noOpTransform) Reverse(data []byte) ([]byte, error) { return data, nil }
func (n *noOpTransform) Name() string                        { return "none" }

const (
	CompressNone = "none"
	CompressZstd = "zstd"
	CompressGzip = "gzip"
)

// Compressions lists the accepted compression names.
func Compressions() []string { return []string{CompressNone, CompressZstd, CompressGzip} }

// NewCompression returns the named compression stage. An empty name means
// no compression.
func NewCompression(name string) (Transform, error) {
	switch name {
	case "", CompressNone:
		return NewNoOpTransform(), nil
	case CompressZstd:
		return NewZstdTransform(DefaultZstdLevel)
	case CompressGzip:
		return NewGzipTransform(), nil
	default:
		return nil, fmt.Errorf("transform: unknown compression %q", name)
	}
}

// Build returns a processor that compresses with the named algorithm and then
// encrypts with e. A nil e leaves only the compression stage.
func Build(compress string, e *engine.Engine) (*Processor, error) {
	var stages []Transform
	if (compress != "" && compress != CompressNone) || e == nil {
		c, err := NewCompression(compress)
		if err != nil {
			return nil, err
		}
		stages = append(stages, c)
	}
	if e != nil {
		stages = append(stages, NewCipherTransform(e))
	}
	return NewProcessor(stages)
}
