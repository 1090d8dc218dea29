package splitter

import "strings"

// separators, tried in order: paragraph breaks, line breaks, spaces, hard cut.
var separators = []string{"\n\n", "\n", " "}

// Splitter splits long text into chunks of approximately chunkSize characters
// with chunkOverlap characters shared between consecutive chunks. It prefers
// breaking on paragraph boundaries, then lines, then words, and only hard-cuts
// runs of text with no usable separator.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
}

func New(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 5
	}
	return &Splitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// Split returns the chunks of text. Whitespace-only chunks are dropped.
func (s *Splitter) Split(text string) []string {
	return s.split(text, separators)
}

func (s *Splitter) split(text string, seps []string) []string {
	if len([]rune(text)) <= s.chunkSize {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}

	sep := ""
	rest := []string{}
	for i, cand := range seps {
		if strings.Contains(text, cand) {
			sep = cand
			rest = seps[i+1:]
			break
		}
	}
	if sep == "" {
		return s.hardSplit([]rune(text))
	}

	// Oversize parts recurse into the finer separators before merging.
	var pieces []string
	for _, part := range strings.Split(text, sep) {
		if len([]rune(part)) > s.chunkSize {
			pieces = append(pieces, s.split(part, rest)...)
		} else if strings.TrimSpace(part) != "" {
			pieces = append(pieces, part)
		}
	}

	return s.merge(pieces, sep)
}

// merge packs pieces into chunks up to chunkSize, carrying trailing pieces
// totalling at most chunkOverlap characters into the next chunk.
func (s *Splitter) merge(pieces []string, sep string) []string {
	sepLen := len([]rune(sep))

	var chunks []string
	var current []string
	curLen := 0

	flush := func() {
		chunk := strings.TrimSpace(strings.Join(current, sep))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	for _, piece := range pieces {
		pieceLen := len([]rune(piece))

		if len(current) > 0 && curLen+pieceLen+len(current)*sepLen > s.chunkSize {
			flush()
			// Keep an overlap tail for the next chunk.
			for len(current) > 0 && (curLen > s.chunkOverlap ||
				curLen+pieceLen+len(current)*sepLen > s.chunkSize) {
				curLen -= len([]rune(current[0]))
				current = current[1:]
			}
		}

		current = append(current, piece)
		curLen += pieceLen
	}

	if len(current) > 0 {
		flush()
	}

	return chunks
}

// hardSplit is strict character slicing for text without separators.
func (s *Splitter) hardSplit(runes []rune) []string {
	step := s.chunkSize - s.chunkOverlap
	if step <= 0 {
		step = s.chunkSize // fallback if overlap >= chunkSize
	}

	var chunks []string
	for i := 0; i < len(runes); i += step {
		end := i + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}

		chunk := strings.TrimSpace(string(runes[i:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end == len(runes) {
			break
		}
	}

	return chunks
}
