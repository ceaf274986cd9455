package catalog

import (
	"regexp"
	"strconv"

	"github.com/mesh-intelligence/xcube/pkg/types"
)

var chunkPattern = regexp.MustCompile(`\d+|\D+`)

// chunk is a run of digits or non-digits from a collector number.
type chunk struct {
	numeric bool
	n       int
	s       string
}

func chunkify(number string) []chunk {
	parts := chunkPattern.FindAllString(number, -1)
	chunks := make([]chunk, 0, len(parts))
	for _, p := range parts {
		if n, err := strconv.Atoi(p); err == nil {
			chunks = append(chunks, chunk{numeric: true, n: n, s: p})
			continue
		}
		chunks = append(chunks, chunk{s: p})
	}
	return chunks
}

func compareChunk(a, b chunk) int {
	switch {
	case a.numeric && b.numeric:
		switch {
		case a.n < b.n:
			return -1
		case a.n > b.n:
			return 1
		}
		return 0
	case a.numeric:
		return -1
	case b.numeric:
		return 1
	case a.s < b.s:
		return -1
	case a.s > b.s:
		return 1
	}
	return 0
}

// CompareNumbers orders collector numbers naturally: digit runs compare as
// integers, so "9" < "10" < "10a" < "10b".
func CompareNumbers(a, b string) int {
	ca, cb := chunkify(a), chunkify(b)
	for i := 0; i < len(ca) && i < len(cb); i++ {
		if c := compareChunk(ca[i], cb[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(ca) < len(cb):
		return -1
	case len(ca) > len(cb):
		return 1
	}
	return 0
}

// ComparePrintings orders printings oldest first: by the release date of
// their set, then by collector number.
func ComparePrintings(a, b types.Printing, sets *SetRepository) int {
	sa, _ := sets.Get(a.SetCode)
	sb, _ := sets.Get(b.SetCode)
	if sa.ReleaseDate != sb.ReleaseDate {
		if sa.ReleaseDate < sb.ReleaseDate {
			return -1
		}
		return 1
	}
	return CompareNumbers(a.Number, b.Number)
}
