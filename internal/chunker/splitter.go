// Package chunker splits extracted document text into bounded,
// overlapping chunks using recursive boundary splitting: separators
// are tried from the largest semantic unit (triple newline) down to a
// character-level fallback, and adjacent units are merged back up to
// the size limit so small fragments do not become chunks of their own.
package chunker

import (
	"strings"

	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/domain"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/ports/driven"
)

// DefaultMaxSize is the default maximum chunk length in characters.
const DefaultMaxSize = 490

// DefaultOverlap is the default number of characters carried from the
// end of each chunk into the start of the next.
const DefaultOverlap = 88

// separators are tried in priority order. The empty string is the
// character-level fallback for text with no natural boundaries.
var separators = []string{"\n\n\n", "\n\n", "\n", " ", ""}

// Ensure RecursiveSplitter implements the interface.
var _ driven.TextSplitter = (*RecursiveSplitter)(nil)

// RecursiveSplitter splits text on a prioritised separator list.
type RecursiveSplitter struct {
	maxSize int
	overlap int
}

// Option configures the splitter.
type Option func(*RecursiveSplitter)

// WithMaxSize sets the maximum chunk size in characters.
func WithMaxSize(size int) Option {
	return func(s *RecursiveSplitter) {
		if size > 0 {
			s.maxSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *RecursiveSplitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *RecursiveSplitter {
	s := &RecursiveSplitter{
		maxSize: DefaultMaxSize,
		overlap: DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed chunk size
	if s.overlap >= s.maxSize {
		s.overlap = s.maxSize / 4
	}

	return s
}

// Split splits text into ordered chunks. Every chunk is at most
// maxSize characters; consecutive chunks share up to overlap
// characters. Empty or whitespace-only input yields no chunks, and
// input no longer than maxSize yields exactly one chunk.
func (s *RecursiveSplitter) Split(text string) []domain.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	units := s.units(text, separators)
	return s.merge(units)
}

// units recursively breaks text into pieces no longer than maxSize.
// Separators stay attached to the end of the piece they terminate, so
// concatenating all units reconstructs the input exactly.
func (s *RecursiveSplitter) units(text string, seps []string) []string {
	if runeLen(text) <= s.maxSize {
		return []string{text}
	}

	sep := seps[0]
	if sep == "" {
		// Character-level fallback: one unit per rune.
		runes := []rune(text)
		out := make([]string, len(runes))
		for i, r := range runes {
			out[i] = string(r)
		}
		return out
	}

	var out []string
	for _, part := range strings.SplitAfter(text, sep) {
		if part == "" {
			continue
		}
		if runeLen(part) <= s.maxSize {
			out = append(out, part)
			continue
		}
		out = append(out, s.units(part, seps[1:])...)
	}
	return out
}

// merge greedily packs units into chunks of at most maxSize
// characters, retaining a trailing window of up to overlap characters
// from each chunk as the prefix of the next.
func (s *RecursiveSplitter) merge(units []string) []domain.Chunk {
	var chunks []domain.Chunk

	var buf []string
	bufLen := 0      // total length of buf in characters
	retained := 0    // leading characters of buf duplicated from the previous chunk
	startOffset := 0 // offset in the source text of the next chunk's own content

	flush := func() {
		if len(buf) == 0 {
			return
		}
		chunks = append(chunks, domain.Chunk{
			Text:        strings.Join(buf, ""),
			Position:    len(chunks),
			StartOffset: startOffset,
		})
		startOffset += bufLen - retained
	}

	for _, u := range units {
		ul := runeLen(u)
		if bufLen+ul > s.maxSize && len(buf) > 0 {
			flush()
			// Keep a tail of at most overlap characters, dropping
			// further if the next unit would not fit beside it.
			for len(buf) > 0 && (bufLen > s.overlap || bufLen+ul > s.maxSize) {
				bufLen -= runeLen(buf[0])
				buf = buf[1:]
			}
			retained = bufLen
		}
		buf = append(buf, u)
		bufLen += ul
	}
	flush()

	return chunks
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
