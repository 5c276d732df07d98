package domain

import "strings"

// FilterEntries returns entries in category (any when empty) whose source or
// target contains query, ignoring case. Order is preserved.
func FilterEntries(entries []WordEntry, query, category string) []WordEntry {
	query = strings.ToLower(query)
	out := make([]WordEntry, 0, len(entries))
	for _, e := range entries {
		if category != "" && !strings.EqualFold(e.Category, category) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(e.Source), query) &&
			!strings.Contains(strings.ToLower(e.Target), query) {
			continue
		}
		out = append(out, e)
	}
	return out
}
