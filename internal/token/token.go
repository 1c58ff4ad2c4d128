// Copyright 2025 Florian Zenker (flo@znkr.io)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package token segments a byte arena into the tokens the LCS engine compares.
//
// Tokens reference their bytes by offset into the caller's arena rather than by copying them, so
// that a hunk's arenas can grow and be truncated for reuse without invalidating any token already
// produced from them (see the arena+offset design note in internal/refine).
package token

import "hash/fnv"

// Class classifies the bytes that make up a token.
type Class int

const (
	Word       Class = iota // a maximal run of alphanumerics, '_', or bytes >= 0x80
	Whitespace              // a maximal run of space, tab, '\n' or '\r'
	Punct                   // a single byte that is neither Word nor Whitespace
)

// Token is a classified, maximal byte run within an arena. Start and End are byte offsets into
// that arena; Hash is a 64-bit digest of the token's bytes used to make LCS comparisons cheap.
//
// Two tokens are considered equal only if their hashes match and their underlying bytes are equal
// (the hash alone doesn't rule out collisions).
type Token struct {
	Start, End int
	Class      Class
	Hash       uint64
}

func (t Token) Len() int { return t.End - t.Start }

// isWord reports whether b belongs to a word run. Bytes >= 0x80 are classified as word bytes so
// that multi-byte UTF-8 sequences stay grouped with their neighbors; this package never attempts
// grapheme-aware segmentation.
func isWord(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '_' || b >= 0x80
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func classOf(b byte) Class {
	switch {
	case isWord(b):
		return Word
	case isWhitespace(b):
		return Whitespace
	default:
		return Punct
	}
}

// Tokenize segments arena into a sequence of tokens covering it exactly: the token ranges don't
// overlap, leave no gaps, and their union is arena[0:len(arena)].
func Tokenize(arena []byte) []Token {
	return AppendTokenize(nil, arena)
}

// AppendTokenize is like Tokenize but appends to and returns dst, so that callers (notably
// internal/refine's group, which reuses its token scratch slices across hunks) can avoid
// reallocating on every flush.
func AppendTokenize(dst []Token, arena []byte) []Token {
	n := len(arena)
	for i := 0; i < n; {
		c := classOf(arena[i])
		start := i
		switch c {
		case Punct:
			i++
		default:
			i++
			for i < n && classOf(arena[i]) == c {
				i++
			}
		}
		dst = append(dst, Token{
			Start: start,
			End:   i,
			Class: c,
			Hash:  hashBytes(arena[start:i]),
		})
	}
	return dst
}

// hashBytes computes a 64-bit FNV-1a digest of b. FNV-1a is a good enough non-cryptographic hash
// for this purpose: reproducibility across runs is not required, only that equal byte sequences
// collide and the comparison stays cheap.
func hashBytes(b []byte) uint64 {
	h := fnv.New64a()
	h.Write(b)
	return h.Sum64()
}

// Equal reports whether token a (backed by arena aArena) and token b (backed by arena bArena)
// cover identical byte sequences.
func Equal(a Token, aArena []byte, b Token, bArena []byte) bool {
	if a.Hash != b.Hash || a.Len() != b.Len() {
		return false
	}
	return string(aArena[a.Start:a.End]) == string(bArena[b.Start:b.End])
}
