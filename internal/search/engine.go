package search

import (
	"sort"
	"strings"

	"github.com/creamtown0420/ow-guides/internal/domain"
)

// relatedLimit caps the relaxed fallback result list.
const relatedLimit = 6

// Filters are the discrete catalog filters. The zero value passes
// everything: RoleAny (or empty), empty mode, empty tag are no-ops.
type Filters struct {
	Role domain.Role
	Mode domain.Mode
	Tag  string
}

// Visible applies the discrete filters and the conjunctive free-text
// query to codes and returns them ordered by the sort key. The input
// slice is not mutated; ties keep their incoming relative order.
func Visible(codes []domain.Code, f Filters, query string, key domain.SortKey, eng domain.Engagement) []domain.Code {
	terms := Terms(query)

	out := make([]domain.Code, 0, len(codes))
	for _, c := range codes {
		if f.Role != "" && f.Role != domain.RoleAny && c.Role != f.Role {
			continue
		}
		if f.Mode != "" && c.Mode != f.Mode {
			continue
		}
		if f.Tag != "" && !contains(c.Tags, f.Tag) {
			continue
		}
		if len(terms) > 0 && !matchesAll(haystack(c), terms) {
			continue
		}
		out = append(out, c)
	}

	sortCodes(out, key, eng)
	return out
}

// Related is the relaxed fallback shown when strict filtering finds
// nothing: any query term may match, discrete filters are ignored, and
// results rank by likes*2+copies, capped at six. An empty query yields
// nil so the caller can skip the fallback entirely.
func Related(codes []domain.Code, query string, eng domain.Engagement) []domain.Code {
	terms := Terms(query)
	if len(terms) == 0 {
		return nil
	}

	out := make([]domain.Code, 0, len(codes))
	for _, c := range codes {
		if matchesAny(haystack(c), terms) {
			out = append(out, c)
		}
	}

	score := func(c domain.Code) int {
		return eng.Likes(c.ID)*2 + eng.Copies(c.ID)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return score(out[i]) > score(out[j])
	})

	if len(out) > relatedLimit {
		out = out[:relatedLimit]
	}
	return out
}

// haystack concatenates every searchable field of a record, normalized,
// with single-space joins. Empty sequences contribute nothing.
func haystack(c domain.Code) string {
	parts := []string{c.Title, c.Description, c.Code, c.Author}
	parts = append(parts, c.Tags...)
	parts = append(parts, c.Heroes...)
	parts = append(parts, c.Maps...)
	parts = append(parts, string(c.Role), string(c.Mode))
	return Normalize(strings.Join(parts, " "))
}

func matchesAll(hay string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(hay, t) {
			return false
		}
	}
	return true
}

func matchesAny(hay string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(hay, t) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func sortCodes(codes []domain.Code, key domain.SortKey, eng domain.Engagement) {
	switch key {
	case domain.SortUpdated:
		sort.SliceStable(codes, func(i, j int) bool {
			// ISO dates compare chronologically as strings.
			return codes[i].Updated > codes[j].Updated
		})
	case domain.SortLikes:
		sort.SliceStable(codes, func(i, j int) bool {
			return eng.Likes(codes[i].ID) > eng.Likes(codes[j].ID)
		})
	default:
		sort.SliceStable(codes, func(i, j int) bool {
			return eng.Copies(codes[i].ID) > eng.Copies(codes[j].ID)
		})
	}
}
