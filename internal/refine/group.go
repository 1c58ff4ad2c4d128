package refine

import (
	"github.com/xerus2000/diffr/internal/byteview"
	"github.com/xerus2000/diffr/internal/token"
)

// lineRecord locates one source line's raw bytes and payload bytes within a side's two arenas.
type lineRecord struct {
	rawStart, rawEnd         int
	payloadStart, payloadEnd int
}

// arena is a contiguously-growing byte buffer that is truncated, not deallocated, between groups
// (see the arena+offset design note in internal/refine's package doc). It wraps a
// byteview.Builder rather than Build()'ing a final value, since Build's one-shot nil-reset
// doesn't fit an arena that's reused for the lifetime of the process.
type arena struct {
	b byteview.Builder[[]byte]
}

func (a *arena) reset() { a.b.Reset() }

func (a *arena) bytes() []byte { return a.b.Bytes() }

func (a *arena) append(v byteview.ByteView) (start, end int) {
	start = a.b.Len()
	a.b.Grow(v.Len())
	a.b.WriteByteView(v)
	return start, a.b.Len()
}

// side holds one side (removed or added) of a group: the raw lines as received, their payloads
// (sign byte stripped) concatenated for tokenization, and the token scratch produced from them.
type side struct {
	raw     arena
	payload arena
	lines   []lineRecord
	tokens  []token.Token
}

func (s *side) reset() {
	s.raw.reset()
	s.payload.reset()
	s.lines = s.lines[:0]
	s.tokens = s.tokens[:0]
}

// append buffers one source line. raw is the complete line including its leading sign byte and
// trailing terminator; it's copied into the side's arenas, so the caller's view may reference a
// buffer that's reused immediately after this call returns.
func (s *side) append(raw byteview.ByteView) {
	rawStart, rawEnd := s.raw.append(raw)
	payloadStart, payloadEnd := s.payload.append(byteview.From(raw.RawBytes()[1:]))
	s.lines = append(s.lines, lineRecord{rawStart, rawEnd, payloadStart, payloadEnd})
}

func (s *side) tokenize() {
	s.tokens = token.AppendTokenize(s.tokens[:0], s.payload.bytes())
}

// group is the hunk buffer's single reusable unit of refinement: a maximal contiguous run of
// removed-then-added lines (see the Group entry in the glossary this package implements).
type group struct {
	removed side
	added   side
}

func (g *group) reset() {
	g.removed.reset()
	g.added.reset()
}

func (g *group) empty() bool {
	return len(g.removed.lines) == 0 && len(g.added.lines) == 0
}
