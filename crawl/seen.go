package crawl

import "github.com/jbekker/capescout/bloom"

// Filter sizing for a long multi-page crawl.
const (
	seenExpectedURLs      = 10000
	seenFalsePositiveRate = 0.01
)

// seenFilter tracks listing URLs across pages so a listing repeated on
// a later page is emitted once per crawl. Records without URLs always
// pass. The filter is probabilistic: a false positive drops a listing
// rather than duplicating one.
type seenFilter struct {
	filter *bloom.Filter
}

func newSeenFilter() *seenFilter {
	return &seenFilter{filter: bloom.NewFilter(seenExpectedURLs, seenFalsePositiveRate)}
}

// add records url and reports whether it was new.
func (s *seenFilter) add(url string) bool {
	if url == "" {
		return true
	}
	return !s.filter.TestOrAdd(url)
}
