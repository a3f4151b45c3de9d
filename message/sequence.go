package message

import "sync/atomic"

// SequenceMode selects how out-of-order messages on a session are treated.
type SequenceMode int

const (
	// Strict enforces in-order processing.
	Strict SequenceMode = iota
	// Loose rejects strictly stale messages but allows gaps.
	Loose
)

// Sequence is the tagged {Strict(n) | Loose(n)} variant from the data model:
// a monotonically assigned per-session counter, carrying whether the
// receiver must enforce strict ordering or merely reject staleness.
type Sequence struct {
	Mode SequenceMode
	N    uint64
}

// NewStrict builds a Strict sequence value.
func NewStrict(n uint64) Sequence { return Sequence{Mode: Strict, N: n} }

// NewLoose builds a Loose sequence value.
func NewLoose(n uint64) Sequence { return Sequence{Mode: Loose, N: n} }

// Inc returns the next sequence value in the same mode: Strict(n).Inc() == Strict(n+1).
func (s Sequence) Inc() Sequence { return Sequence{Mode: s.Mode, N: s.N + 1} }

// SequenceGenerator issues monotonically increasing Sequence values scoped to
// a single session, backing the per-session counter that produces the
// Sequence values Inc() advances one at a time.
type SequenceGenerator struct {
	mode SequenceMode
	n    atomic.Uint64
}

// NewSequenceGenerator creates a generator that will hand out the first
// Sequence as N=0.
func NewSequenceGenerator(mode SequenceMode) *SequenceGenerator {
	return &SequenceGenerator{mode: mode}
}

// Next returns the next Sequence value, starting at 0.
func (g *SequenceGenerator) Next() Sequence {
	n := g.n.Add(1) - 1
	return Sequence{Mode: g.mode, N: n}
}
