package collector

import "github.com/user/listing-collector/internal/entity"

// Dedupe collapses items by URL. Each URL keeps the position of its first
// occurrence and the value of its last.
func Dedupe(items []entity.CollectedItem) []entity.CollectedItem {
	index := make(map[string]int, len(items))
	out := make([]entity.CollectedItem, 0, len(items))
	for _, item := range items {
		if i, ok := index[item.URL]; ok {
			out[i] = item
			continue
		}
		index[item.URL] = len(out)
		out = append(out, item)
	}
	return out
}

// Trim cuts items down to at most n entries.
func Trim(items []entity.CollectedItem, n int) []entity.CollectedItem {
	if n < 0 || len(items) <= n {
		return items
	}
	return items[:n]
}
