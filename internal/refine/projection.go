package refine

import "github.com/xerus2000/diffr/internal/token"

// SpanKind distinguishes a payload byte range that is part of the LCS match (Shared) from one
// that isn't (Unique).
type SpanKind int

const (
	Shared SpanKind = iota
	Unique
)

// Span is a colored byte range within a line's payload (the bytes after the leading sign byte,
// excluding the trailing line terminator).
type Span struct {
	Start, End int
	Kind       SpanKind
}

// markShared reports, for each token, whether it participates in a match pair or is a whitespace
// token — both are always rendered as Shared per the projection's whitespace policy (rule 2: "an
// implementer who wishes to highlight whitespace changes should make it configurable"; diffr
// always treats whitespace as shared, unconditionally).
func markShared(tokens []token.Token, pairs []matchPair, side func(matchPair) int) []bool {
	shared := make([]bool, len(tokens))
	for i, tok := range tokens {
		if tok.Class == token.Whitespace {
			shared[i] = true
		}
	}
	for _, p := range pairs {
		shared[side(p)] = true
	}
	return shared
}

// projectSide builds the colored spans for every line of one side of a refined group. tokens and
// shared must correspond 1:1 and cover payload exactly (the tokenizer's totality guarantee);
// lines must be sorted by payload offset, which side.append always maintains.
//
// A whitespace token can span a line boundary: since tokenization runs over the whole side's
// concatenated payload, a trailing space before one line's '\n' and a next line's leading
// indentation merge into a single run if both are whitespace. Such a token is visited once per
// line it touches, clipped to that line's range each time, and only advanced past once the line
// that contains its end has been processed — otherwise the portion beyond the first line would be
// silently dropped, leaving a gap in that line's span coverage.
func projectSide(tokens []token.Token, shared []bool, lines []lineRecord, payload []byte) [][]Span {
	out := make([][]Span, len(lines))
	ti := 0
	for li, lr := range lines {
		contentEnd := lr.payloadEnd
		for contentEnd > lr.payloadStart && (payload[contentEnd-1] == '\n' || payload[contentEnd-1] == '\r') {
			contentEnd--
		}

		var spans []Span
		for ti < len(tokens) && tokens[ti].Start < lr.payloadEnd {
			tok := tokens[ti]
			start := max(tok.Start, lr.payloadStart)
			end := min(tok.End, contentEnd)
			if start < end {
				kind := Unique
				if shared[ti] {
					kind = Shared
				}
				relStart, relEnd := start-lr.payloadStart, end-lr.payloadStart
				if n := len(spans); n > 0 && spans[n-1].Kind == kind && spans[n-1].End == relStart {
					spans[n-1].End = relEnd
				} else {
					spans = append(spans, Span{Start: relStart, End: relEnd, Kind: kind})
				}
			}
			if tok.End > lr.payloadEnd {
				// Continues into the next line; revisit the same token there instead of
				// consuming it now.
				break
			}
			ti++
		}
		out[li] = spans
	}
	return out
}

// fullyShared returns one Shared span covering a line's whole payload content (terminator
// excluded), used when a group has nothing to refine it against (property 7: empty-side
// behavior).
func fullyShared(lr lineRecord, payload []byte) []Span {
	contentEnd := lr.payloadEnd
	for contentEnd > lr.payloadStart && (payload[contentEnd-1] == '\n' || payload[contentEnd-1] == '\r') {
		contentEnd--
	}
	if contentEnd == lr.payloadStart {
		return nil
	}
	return []Span{{Start: 0, End: contentEnd - lr.payloadStart, Kind: Shared}}
}
