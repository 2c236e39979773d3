// Package script applies YAML edit scripts to a bufferlist.List.
//
// A script is a list of operations run in order:
//
//	ops:
//	  - op: remove
//	    offset: 44100
//	    count: 22050
//	  - op: insert
//	    offset: 0
//	    frames: 4410
//	  - op: fade
//	    shape: in
//	    to: 4410
package script

import (
	"errors"
	"fmt"

	"github.com/cwbudde/bufferlist"
	"github.com/goccy/go-yaml"
	"github.com/sirupsen/logrus"
)

var (
	// ErrUnknownOp is returned for an op name Apply does not know.
	ErrUnknownOp = errors.New("unknown op")
	// ErrNoLoader is returned by insert ops with a file when the Runner has
	// no Loader.
	ErrNoLoader = errors.New("no loader configured")

	errInvalidShape = errors.New("fade shape must be in or out")
)

// Script is a sequence of edit operations.
type Script struct {
	Ops []Op `yaml:"ops"`
}

// Op is one edit. Which fields are used depends on Op.
type Op struct {
	Op string `yaml:"op"`

	Offset int `yaml:"offset,omitempty"`
	Count  int `yaml:"count,omitempty"`
	Dest   int `yaml:"dest,omitempty"`

	// From and To bound ranged ops; unset means start and end of the list.
	From *int `yaml:"from,omitempty"`
	To   *int `yaml:"to,omitempty"`

	At     []int   `yaml:"at,omitempty,flow"`
	Times  int     `yaml:"times,omitempty"`
	Frames int     `yaml:"frames,omitempty"`
	File   string  `yaml:"file,omitempty"`
	Gain   float32 `yaml:"gain,omitempty"`
	Shape  string  `yaml:"shape,omitempty"`
}

// Parse decodes a YAML script. Unknown keys are rejected.
func Parse(data []byte) (*Script, error) {
	var s Script

	err := yaml.UnmarshalWithOptions(data, &s, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal script: %w", err)
	}

	for i, op := range s.Ops {
		if _, ok := handlers[op.Op]; !ok {
			return nil, fmt.Errorf("op %d: %w %q", i, ErrUnknownOp, op.Op)
		}
	}

	return &s, nil
}

// Loader decodes the audio file referenced by an insert op.
type Loader func(path string) (*bufferlist.List, error)

// Runner applies scripts.
type Runner struct {
	Load Loader
	Log  logrus.FieldLogger
}

// Apply runs every op of s against l and returns the resulting list, which
// is l itself unless a slice op replaced it.
func (r *Runner) Apply(l *bufferlist.List, s *Script) (*bufferlist.List, error) {
	log := r.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	for i, op := range s.Ops {
		handler, ok := handlers[op.Op]
		if !ok {
			return l, fmt.Errorf("op %d: %w %q", i, ErrUnknownOp, op.Op)
		}

		before := l.Len()

		next, err := handler(r, l, op)
		if err != nil {
			return l, fmt.Errorf("op %d (%s): %w", i, op.Op, err)
		}

		l = next

		log.WithFields(logrus.Fields{
			"op":     op.Op,
			"index":  i,
			"before": before,
			"after":  l.Len(),
			"chunks": l.NumChunks(),
		}).Debug("applied op")
	}

	return l, nil
}

func (op Op) bounds() (int, int) {
	from, to := 0, bufferlist.End
	if op.From != nil {
		from = *op.From
	}

	if op.To != nil {
		to = *op.To
	}

	return from, to
}
