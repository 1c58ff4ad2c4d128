// Package emit renders refine.RefinedLine values as ANSI-colored bytes, the external emitter spec.md
// §2 step 7 describes: it wraps spans with escape sequences per the user's color configuration and
// writes the result to an io.Writer.
package emit

import (
	"bufio"
	"fmt"
	"io"

	"github.com/xerus2000/diffr/internal/color"
	"github.com/xerus2000/diffr/internal/config"
	"github.com/xerus2000/diffr/internal/refine"
)

// Writer implements refine.Sink, so a refine.Refiner can write directly to it.
type Writer struct {
	w      *bufio.Writer
	cfg    config.Config
	lineno lineCounter
}

// NewWriter returns a Writer that renders to w using cfg's color and line-number settings.
func NewWriter(w io.Writer, cfg config.Config) *Writer {
	return &Writer{w: bufio.NewWriter(w), cfg: cfg}
}

// Flush flushes any buffered output. Callers must call Flush after the last Line call.
func (wr *Writer) Flush() error { return wr.w.Flush() }

// Line renders one refined line. See refine.Sink.
func (wr *Writer) Line(l refine.RefinedLine) error {
	switch l.Kind {
	case refine.HunkHeader:
		wr.lineno.reset(l.Raw)
		_, err := wr.w.Write(l.Raw)
		return err

	case refine.Context:
		if wr.cfg.LineNumbers {
			if err := wr.writeLineNumberPrefix(wr.lineno.removed, wr.lineno.added); err != nil {
				return err
			}
		}
		wr.lineno.removed++
		wr.lineno.added++
		_, err := wr.w.Write(l.Raw)
		return err

	case refine.Removed:
		if wr.cfg.LineNumbers {
			if err := wr.writeLineNumberPrefix(wr.lineno.removed, -1); err != nil {
				return err
			}
		}
		wr.lineno.removed++
		return wr.writeColored(l.Raw, l.Spans, color.Removed, color.RefineRemoved)

	case refine.Added:
		if wr.cfg.LineNumbers {
			if err := wr.writeLineNumberPrefix(-1, wr.lineno.added); err != nil {
				return err
			}
		}
		wr.lineno.added++
		return wr.writeColored(l.Raw, l.Spans, color.Added, color.RefineAdded)

	default:
		_, err := wr.w.Write(l.Raw)
		return err
	}
}

// writeLineNumberPrefix writes a two-column, fixed-width gutter; a negative value leaves its
// column blank, which happens for the side that doesn't apply to a Removed/Added line.
func (wr *Writer) writeLineNumberPrefix(removed, added int) error {
	var rCol, aCol string
	if removed >= 0 {
		rCol = fmt.Sprintf("%6d", removed)
	} else {
		rCol = "      "
	}
	if added >= 0 {
		aCol = fmt.Sprintf("%6d", added)
	} else {
		aCol = "      "
	}
	_, err := fmt.Fprintf(wr.w, "%s %s  ", rCol, aCol)
	return err
}

// writeColored writes a Removed/Added line's sign byte in base, its spans in base or refine
// depending on kind, and its trailing terminator raw (rule 4: the sign byte always gets the base
// attribute, never the refinement one).
func (wr *Writer) writeColored(raw []byte, spans []refine.Span, base, refineClass color.Class) error {
	content, terminator := splitPayload(raw)
	baseFace := wr.cfg.Colors.Face(base)
	refineFace := wr.cfg.Colors.Face(refineClass)

	if err := wr.writeFaced(baseFace, raw[:1]); err != nil {
		return err
	}
	for _, sp := range spans {
		face := baseFace
		if sp.Kind == refine.Unique {
			face = refineFace
		}
		if err := wr.writeFaced(face, content[sp.Start:sp.End]); err != nil {
			return err
		}
	}
	_, err := wr.w.Write(terminator)
	return err
}

// writeFaced wraps b in face's SGR sequence and a reset, or writes b plain if face has no
// attributes set.
func (wr *Writer) writeFaced(face color.Face, b []byte) error {
	sgr := face.SGR()
	if sgr == "" {
		_, err := wr.w.Write(b)
		return err
	}
	if _, err := wr.w.WriteString(sgr); err != nil {
		return err
	}
	if _, err := wr.w.Write(b); err != nil {
		return err
	}
	_, err := wr.w.WriteString(color.Reset)
	return err
}

// splitPayload splits a Removed/Added line's payload (raw with the leading sign byte stripped)
// into its content (excluding any trailing line terminator) and that terminator.
func splitPayload(raw []byte) (content, terminator []byte) {
	p := raw[1:]
	end := len(p)
	for end > 0 && (p[end-1] == '\n' || p[end-1] == '\r') {
		end--
	}
	return p[:end], p[end:]
}
