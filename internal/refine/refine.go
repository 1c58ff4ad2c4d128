package refine

import (
	"github.com/xerus2000/diffr/internal/byteview"
	"github.com/xerus2000/diffr/internal/config"
	"github.com/xerus2000/diffr/internal/myers"
	"github.com/xerus2000/diffr/internal/token"
)

// RefinedLine is one output line handed to a Sink: its classification, its exact original bytes,
// and — for Removed/Added lines — the colored spans over its payload (the bytes after the
// leading sign byte, excluding the trailing terminator). Spans is nil for lines that aren't part
// of a refined payload (file headers, hunk headers, context, no-newline markers, and anything
// unrecognized); emitters render those verbatim.
type RefinedLine struct {
	Kind  LineKind
	Raw   []byte
	Spans []Span
}

// Sink receives refined lines in input order (within a group: all removed lines, then all added
// lines, per the projection's output-ordering rule).
type Sink interface {
	Line(RefinedLine) error
}

type groupState int

const (
	stateIdle groupState = iota
	stateRemoved
	stateAdded
)

// Refiner drives the hunk buffer: it classifies incoming lines, accumulates removed/added groups,
// and flushes each group through the LCS engine and projector as soon as it's known to be
// complete. One Refiner is created per process and reused for every group and hunk (see the
// resource-reuse discipline in the package doc).
type Refiner struct {
	sink    Sink
	optimal bool

	group group
	state groupState
}

// NewRefiner returns a Refiner that sends refined lines to sink. optimal forces the LCS engine to
// always search for a minimal edit script (see internal/config.Config.Optimal).
func NewRefiner(sink Sink, optimal bool) *Refiner {
	return &Refiner{sink: sink, optimal: optimal}
}

// Write classifies and processes one input line. raw must include any trailing line terminator;
// diffr's caller is expected to split the input stream on '\n' boundaries (see cmd/diffr). The
// slice is only retained across this call for Removed/Added lines, which copy it into the group's
// arenas; for all other kinds it is forwarded to the sink immediately and must not be reused by
// the caller until Write returns.
func (r *Refiner) Write(raw []byte) error {
	kind := classify(raw)
	switch kind {
	case Removed:
		if r.state == stateAdded {
			if err := r.flush(); err != nil {
				return err
			}
		}
		r.group.removed.append(byteview.From(raw))
		r.state = stateRemoved
		return nil
	case Added:
		r.group.added.append(byteview.From(raw))
		r.state = stateAdded
		return nil
	default:
		if err := r.flush(); err != nil {
			return err
		}
		return r.sink.Line(RefinedLine{Kind: kind, Raw: raw})
	}
}

// Close flushes any buffered group. Callers must call Close after the last Write at EOF.
func (r *Refiner) Close() error {
	return r.flush()
}

func (r *Refiner) flush() error {
	defer func() {
		r.group.reset()
		r.state = stateIdle
	}()

	rm, ad := &r.group.removed, &r.group.added
	switch {
	case r.group.empty():
		return nil
	case len(rm.lines) == 0 || len(ad.lines) == 0:
		return r.emitUnrefined(rm, ad)
	default:
		return r.emitRefined(rm, ad)
	}
}

func (r *Refiner) emitUnrefined(rm, ad *side) error {
	for _, lr := range rm.lines {
		if err := r.sink.Line(RefinedLine{Kind: Removed, Raw: rm.raw.bytes()[lr.rawStart:lr.rawEnd], Spans: fullyShared(lr, rm.payload.bytes())}); err != nil {
			return err
		}
	}
	for _, lr := range ad.lines {
		if err := r.sink.Line(RefinedLine{Kind: Added, Raw: ad.raw.bytes()[lr.rawStart:lr.rawEnd], Spans: fullyShared(lr, ad.payload.bytes())}); err != nil {
			return err
		}
	}
	return nil
}

func (r *Refiner) emitRefined(rm, ad *side) error {
	rm.tokenize()
	ad.tokenize()

	removedArena, addedArena := rm.payload.bytes(), ad.payload.bytes()
	eq := func(a, b token.Token) bool { return token.Equal(a, removedArena, b, addedArena) }
	rx, ry := myers.DiffFunc(rm.tokens, ad.tokens, eq, config.Config{Optimal: r.optimal})

	pairs := matchPairs(rx, ry, len(rm.tokens), len(ad.tokens))
	removedShared := markShared(rm.tokens, pairs, func(p matchPair) int { return p.i })
	addedShared := markShared(ad.tokens, pairs, func(p matchPair) int { return p.j })

	removedSpans := projectSide(rm.tokens, removedShared, rm.lines, removedArena)
	addedSpans := projectSide(ad.tokens, addedShared, ad.lines, addedArena)

	for i, lr := range rm.lines {
		if err := r.sink.Line(RefinedLine{Kind: Removed, Raw: rm.raw.bytes()[lr.rawStart:lr.rawEnd], Spans: removedSpans[i]}); err != nil {
			return err
		}
	}
	for i, lr := range ad.lines {
		if err := r.sink.Line(RefinedLine{Kind: Added, Raw: ad.raw.bytes()[lr.rawStart:lr.rawEnd], Spans: addedSpans[i]}); err != nil {
			return err
		}
	}
	return nil
}
