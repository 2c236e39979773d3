package script

import (
	"fmt"

	"github.com/cwbudde/bufferlist"
)

type handler func(r *Runner, l *bufferlist.List, op Op) (*bufferlist.List, error)

var handlers = map[string]handler{
	"insert":  insertOp,
	"remove":  removeOp,
	"move":    moveOp,
	"slice":   sliceOp,
	"split":   splitOp,
	"join":    joinOp,
	"repeat":  repeatOp,
	"reverse": reverseOp,
	"gain":    gainOp,
	"fade":    fadeOp,
	"consume": consumeOp,
}

func insertOp(r *Runner, l *bufferlist.List, op Op) (*bufferlist.List, error) {
	if op.File == "" {
		return l.Insert(op.Offset, bufferlist.Frames(op.Frames)), nil
	}

	if r.Load == nil {
		return l, ErrNoLoader
	}

	src, err := r.Load(op.File)
	if err != nil {
		return l, fmt.Errorf("failed to load %s: %w", op.File, err)
	}

	return l.Insert(op.Offset, src), nil
}

func removeOp(_ *Runner, l *bufferlist.List, op Op) (*bufferlist.List, error) {
	l.Remove(op.Offset, op.Count)

	return l, nil
}

// moveOp cuts [offset, offset+count) and inserts it at dest, dest being an
// index into the list after the cut.
func moveOp(_ *Runner, l *bufferlist.List, op Op) (*bufferlist.List, error) {
	removed, ok := l.Remove(op.Offset, op.Count)
	if !ok {
		return l, nil
	}

	return l.Insert(op.Dest, removed), nil
}

func sliceOp(_ *Runner, l *bufferlist.List, op Op) (*bufferlist.List, error) {
	from, to := op.bounds()

	return l.Slice(from, to), nil
}

func splitOp(_ *Runner, l *bufferlist.List, op Op) (*bufferlist.List, error) {
	return l.Split(op.At...), nil
}

func joinOp(_ *Runner, l *bufferlist.List, op Op) (*bufferlist.List, error) {
	from, to := op.bounds()

	return l.Join(from, to), nil
}

func repeatOp(_ *Runner, l *bufferlist.List, op Op) (*bufferlist.List, error) {
	return l, l.Repeat(op.Times)
}

func reverseOp(_ *Runner, l *bufferlist.List, op Op) (*bufferlist.List, error) {
	from, to := op.bounds()

	return l.Reverse(from, to), nil
}

func consumeOp(_ *Runner, l *bufferlist.List, op Op) (*bufferlist.List, error) {
	return l.Consume(op.Count), nil
}

func gainOp(_ *Runner, l *bufferlist.List, op Op) (*bufferlist.List, error) {
	from, to := op.bounds()

	return l.Each(func(c *bufferlist.Chunk, _, _ int) bufferlist.Step {
		c.FillFunc(func(v float32, _, _ int) float32 { return v * op.Gain })

		return bufferlist.Keep
	}, from, to), nil
}

// fadeOp ramps the gain linearly over [from, to), from silence for "in" and
// to silence for "out".
func fadeOp(_ *Runner, l *bufferlist.List, op Op) (*bufferlist.List, error) {
	if op.Shape != "in" && op.Shape != "out" {
		return l, fmt.Errorf("%w, got %q", errInvalidShape, op.Shape)
	}

	from, to := l.Bounds(op.bounds())

	span := float32(to - from)
	if span == 0 {
		return l, nil
	}

	return l.Each(func(c *bufferlist.Chunk, _, offset int) bufferlist.Step {
		c.FillFunc(func(v float32, frame, _ int) float32 {
			pos := float32(offset+frame-from) / span
			if op.Shape == "out" {
				pos = 1 - pos
			}

			return v * pos
		})

		return bufferlist.Keep
	}, from, to), nil
}
