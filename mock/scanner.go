package mock

import "github.com/jbekker/capescout"

var _ capescout.ListingScanner = (*ListingScanner)(nil)

// ListingScanner is a mock implementation of capescout.ListingScanner.
type ListingScanner struct {
	ScanPageFn func(html string) ([]*capescout.Property, error)
}

func (s *ListingScanner) ScanPage(html string) ([]*capescout.Property, error) {
	return s.ScanPageFn(html)
}
