package transform

import (
	"errors"
	"fmt"
)

type Processor struct {
	// Seal runs 0..N, Open runs N..0.
	transforms []Transform
}

// NewProcessor creates a processor with a defined pipeline.
// Requires at least one transform. Use NewNoOpTransform() for an explicitly empty pipeline.
func NewProcessor(pipeline []Transform) (*Processor, error) {
	if len(pipeline) == 0 {
		return nil, errors.New("processor requires at least one transform; use NewNoOpTransform() for an empty pipeline")
	}

	s := make([]Transform, len(pipeline))
	copy(s, pipeline)

	return &Processor{transforms: s}, nil
}

// Seal applies the pipeline in forward order.
func (p *Processor) Seal(payload []byte) ([]byte, error) {
	var err error
	current := payload
	for i, t := range p.transforms {
		current, err = t.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("seal: transform %d (%s) apply failed: %w", i, Describe(t), err)
		}
	}
	return current, nil
}

// Open applies the pipeline in reverse order.
func (p *Processor) Open(payload []byte) ([]byte, error) {
	var err error
	current := payload
	for i := len(p.transforms) - 1; i >= 0; i-- {
		t := p.transforms[i]
		current, err = t.Reverse(current)
		if err != nil {
			return nil, fmt.Errorf("open: transform %d (%s) reverse failed: %w", i, Describe(t), err)
		}
	}
	return current, nil
}

// Stages names the pipeline stages in Seal order.
func (p *Processor) Stages() []string {
	names := make([]string, len(p.transforms))
	for i, t := range p.transforms {
		names[i] = Describe(t)
	}
	return names
}
