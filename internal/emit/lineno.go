package emit

import (
	"regexp"
	"strconv"
)

// hunkHeaderRe matches a unified-diff hunk header's line-number fields: "@@ -a[,b] +c[,d] @@".
var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,\d+)? \+(\d+)(?:,\d+)? @@`)

// lineCounter tracks the reconstructed removed/added line numbers for --line-numbers, reset at
// every hunk header.
type lineCounter struct {
	removed, added int
}

// reset reparses raw, a HunkHeader line, and resets the counters to its starting line numbers.
// A malformed header is left unhandled: the offending line still passes through verbatim (spec.md
// §7), but the counters keep their previous values and may desynchronize for this hunk.
func (c *lineCounter) reset(raw []byte) {
	m := hunkHeaderRe.FindSubmatch(raw)
	if m == nil {
		return
	}
	removed, err1 := strconv.Atoi(string(m[1]))
	added, err2 := strconv.Atoi(string(m[2]))
	if err1 != nil || err2 != nil {
		return
	}
	c.removed = removed
	c.added = added
}
