package catalog

// CountByCategory counts candidates per category under the search predicate
// alone, which is what the category buttons show next to their labels.
func CountByCategory(candidates []Item, search string) map[Category]int {
	m := newMatcher(nil, search)
	counts := make(map[Category]int, len(categoryLabels))
	for _, o := range categoryLabels {
		counts[Category(o.Value)] = 0
	}
	for _, it := range candidates {
		if m.matchSearch(it) {
			counts[it.Category]++
		}
	}
	return counts
}

// ActiveFilterCount is the number of active filters shown on the filter
// badge: one per selected category plus one for a non-empty search.
func ActiveFilterCount(q Query) int {
	n := len(q.Categories)
	if q.Search != "" {
		n++
	}
	return n
}
