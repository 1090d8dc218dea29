package citation

import (
	"fmt"
	"sort"
	"strings"

	"docchat-be/pkg/vectorindex"
)

// Citation identifies one source page referenced by an answer.
type Citation struct {
	Source string
	Page   int
}

// Collect deduplicates the (source, page) pairs of the retrieved chunks and
// orders them by source name, then page number.
func Collect(results []vectorindex.Result) []Citation {
	seen := make(map[Citation]struct{}, len(results))
	citations := make([]Citation, 0, len(results))

	for _, r := range results {
		if r.Source == "" {
			continue
		}
		c := Citation{Source: r.Source, Page: r.Page}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		citations = append(citations, c)
	}

	sort.Slice(citations, func(i, j int) bool {
		if citations[i].Source != citations[j].Source {
			return citations[i].Source < citations[j].Source
		}
		return citations[i].Page < citations[j].Page
	})

	return citations
}

// Format renders the citation list as "doc.pdf (page 3), other.pdf (page 1)".
// An empty list renders as "".
func Format(citations []Citation) string {
	if len(citations) == 0 {
		return ""
	}

	parts := make([]string, len(citations))
	for i, c := range citations {
		parts[i] = fmt.Sprintf("%s (page %d)", c.Source, c.Page)
	}

	return strings.Join(parts, ", ")
}
