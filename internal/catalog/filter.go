package catalog

import (
	"strings"

	"github.com/AxionSoftware-Inc/Revolution-AR/internal/model"
)

// Filter returns the items whose title, tag or description contain q,
// case-insensitively. A blank query returns every item.
func Filter(items []model.Item, q string) []model.Item {
	query := strings.ToLower(strings.TrimSpace(q))
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if query == "" || strings.Contains(haystack(it), query) {
			out = append(out, it)
		}
	}
	return out
}

func haystack(it model.Item) string {
	return strings.ToLower(it.Title + " " + it.Tag + " " + it.Desc)
}
