package tui

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"webstall/internal/model"
)

// filterItems narrows the catalog to items matching the query. Exact
// substring matches rank first, then close fuzzy title matches by edit
// distance. An empty query returns the catalog untouched. The result is
// presentation-only; basket membership and state ordering are decided
// elsewhere.
func filterItems(items []model.Item, query string) []model.Item {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}

	type ranked struct {
		item model.Item
		rank int
		pos  int
	}
	var out []ranked
	for i, it := range items {
		title := strings.ToLower(it.Title)
		if strings.Contains(title, q) || strings.Contains(strings.ToLower(string(it.Category)), q) {
			out = append(out, ranked{item: it, rank: 0, pos: i})
			continue
		}
		dist := levenshtein.ComputeDistance(title, q)
		maxlen := len(title)
		if len(q) > maxlen {
			maxlen = len(q)
		}
		if maxlen > 0 && float64(dist)/float64(maxlen) < 0.5 {
			out = append(out, ranked{item: it, rank: dist, pos: i})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].rank != out[j].rank {
			return out[i].rank < out[j].rank
		}
		return out[i].pos < out[j].pos
	})

	filtered := make([]model.Item, len(out))
	for i, r := range out {
		filtered[i] = r.item
	}
	return filtered
}
