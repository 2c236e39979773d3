package bufferlist

import "slices"

type stepKind int

const (
	stepKeep stepKind = iota
	stepReplace
	stepDrop
	stepStop
)

// Step tells a traversal what to do with the chunk just visited.
type Step struct {
	kind  stepKind
	chunk *Chunk
}

var (
	// Keep leaves the chunk in place.
	Keep = Step{kind: stepKeep}
	// Drop removes the chunk from the list.
	Drop = Step{kind: stepDrop}
	// Stop ends the traversal, leaving the current and remaining chunks as
	// they are.
	Stop = Step{kind: stepStop}
)

// Replace substitutes c for the visited chunk. An empty or nil c removes it.
func Replace(c *Chunk) Step {
	return Step{kind: stepReplace, chunk: c}
}

// VisitFunc is called for every chunk of a traversal with the chunk index
// and the frame offset of the chunk start within the list.
type VisitFunc func(c *Chunk, index, offset int) Step

// Each visits the chunks covering [from, to) in order. Chunk boundaries are
// forced at from and to first, so fn only sees chunks inside the range.
func (l *List) Each(fn VisitFunc, from, to int) *List {
	l.traverse(fn, from, to, false)

	return l
}

// EachReverse is Each walking from the last chunk of the range to the first.
func (l *List) EachReverse(fn VisitFunc, from, to int) *List {
	l.traverse(fn, from, to, true)

	return l
}

// Map runs Each over a copy of the chunk sequence and returns the copy.
// Replacing or dropping chunks does not affect l, writes into visited
// chunks do.
func (l *List) Map(fn VisitFunc, from, to int) *List {
	return l.shallow().Each(fn, from, to)
}

// MapReverse is Map walking backwards.
func (l *List) MapReverse(fn VisitFunc, from, to int) *List {
	return l.shallow().EachReverse(fn, from, to)
}

func (l *List) shallow() *List {
	out := l.child()
	out.chunks = slices.Clone(l.chunks)
	out.length = l.length

	return out
}

func (l *List) traverse(fn VisitFunc, from, to int, reversed bool) {
	from, to = l.Bounds(from, to)

	l.Split(from, to)
	lo, hi := l.boundary(from), l.boundary(to)

	visit := func(i, offset int) (int, bool) {
		step := fn(l.chunks[i], i, offset)

		switch step.kind {
		case stepStop:
			return 0, false
		case stepDrop:
			l.chunks[i] = nil

			return 0, true
		case stepReplace:
			l.chunks[i] = step.chunk

			return step.chunk.Len(), true
		default:
			return l.chunks[i].Len(), true
		}
	}

	if reversed {
		offset := to
		for i := hi - 1; i >= lo; i-- {
			offset -= l.chunks[i].Len()
			if _, ok := visit(i, offset); !ok {
				break
			}
		}
	} else {
		offset := from
		for i := lo; i < hi; i++ {
			n, ok := visit(i, offset)
			if !ok {
				break
			}

			offset += n
		}
	}

	l.recompute()
}
