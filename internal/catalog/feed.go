package catalog

import "slices"

// Feed accumulates pages for a "load more" gallery. It fixes the filter and
// sort of a query and fetches page loaded+1 on every Next call, so the items
// gathered after p calls equal the first p pages of a single Run over the
// same candidates.
//
// A Feed is caller state and must not be shared between goroutines.
type Feed struct {
	query      Query
	loaded     int
	items      []Item
	fetched    bool
	totalPages int
	total      int
}

// NewFeed starts a feed at page one. q.Page is ignored.
func NewFeed(q Query) (*Feed, error) {
	f := &Feed{}
	if err := f.Reset(q); err != nil {
		return nil, err
	}
	return f, nil
}

// Reset replaces the filter and sort and drops everything loaded so far.
func (f *Feed) Reset(q Query) error {
	q.Page = 1
	if err := q.Validate(); err != nil {
		return err
	}
	q.Categories = slices.Clone(q.Categories)
	f.query = q
	f.loaded = 0
	f.items = nil
	f.fetched = false
	f.total = 0
	f.totalPages = 0
	return nil
}

// Next loads the page after the last loaded one and returns the block that
// was appended. Once the feed is exhausted Next returns no items and the
// loaded page count stays put.
func (f *Feed) Next(candidates []Item) ([]Item, error) {
	q := f.query
	q.Page = f.loaded + 1
	res, err := Run(candidates, q)
	if err != nil {
		return nil, err
	}
	f.fetched = true
	f.total = res.TotalMatched
	f.totalPages = res.TotalPages
	if len(res.Items) == 0 {
		return res.Items, nil
	}
	f.loaded++
	f.items = append(f.items, res.Items...)
	return res.Items, nil
}

// Items returns a copy of every item loaded so far, in order.
func (f *Feed) Items() []Item {
	return slices.Clone(f.items)
}

// Loaded is the number of pages appended so far.
func (f *Feed) Loaded() int { return f.loaded }

// Total is the match count reported by the last Next call.
func (f *Feed) Total() int { return f.total }

// HasMore reports whether another Next call can append items. Before the
// first call it is always true.
func (f *Feed) HasMore() bool {
	if !f.fetched {
		return true
	}
	return f.loaded < f.totalPages
}
