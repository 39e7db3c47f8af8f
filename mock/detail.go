package mock

import "github.com/jbekker/capescout"

var _ capescout.DetailExtractor = (*DetailExtractor)(nil)

// DetailExtractor is a mock implementation of capescout.DetailExtractor.
type DetailExtractor struct {
	ExtractDetailFn func(html string) (*capescout.ListingDetail, error)
}

func (e *DetailExtractor) ExtractDetail(html string) (*capescout.ListingDetail, error) {
	return e.ExtractDetailFn(html)
}

var _ capescout.DescriptionExtractor = (*DescriptionExtractor)(nil)

// DescriptionExtractor is a mock implementation of capescout.DescriptionExtractor.
type DescriptionExtractor struct {
	ExtractDescriptionFn func(html string) (string, error)
}

func (e *DescriptionExtractor) ExtractDescription(html string) (string, error) {
	return e.ExtractDescriptionFn(html)
}
