package capescout

import (
	"context"
	"math"
	"time"
)

// Property status values. Status tracks a listing's lifecycle after it
// has been stored; freshly scraped records default to StatusAvailable.
const (
	StatusAvailable  = "available"
	StatusUnderOffer = "under_offer"
	StatusSold       = "sold"
	StatusOffMarket  = "off_market"
)

// Property type values produced by listing extraction.
const (
	TypeApartment   = "Apartment"
	TypeHouse       = "House"
	TypeTownhouse   = "Townhouse"
	TypeDevelopment = "Development"
	TypeProperty    = "Property"
)

// PrimeAreas are neighborhoods with a higher deal threshold for
// price-per-square-meter comparisons.
var PrimeAreas = []string{"clifton", "camps-bay", "sea-point"}

// Property represents a single listed property. Records are produced by
// the scrape pipeline (one per listing fragment) and optionally persisted,
// at which point the status, engagement, and lifecycle fields apply.
type Property struct {
	ID string `json:"id"`

	// Core fields derived from the listing fragment.
	Title            string   `json:"title"`
	Area             string   `json:"area"`
	Price            *int     `json:"price"`
	Bedrooms         *int     `json:"bedrooms"`
	Bathrooms        *int     `json:"bathrooms"`
	SizeSqm          *int     `json:"size_sqm"`
	Type             string   `json:"property_type"`
	URL              string   `json:"url,omitempty"`
	Images           []string `json:"images"`
	Highlights       []string `json:"highlights"`
	NeighborhoodVibe string   `json:"neighborhood_vibe,omitempty"`
	Description      string   `json:"description,omitempty"`

	// Lifecycle tracking.
	Status        string     `json:"status"`
	ListedDate    *time.Time `json:"listed_date"`
	SoldDate      *time.Time `json:"sold_date"`
	WithdrawnDate *time.Time `json:"withdrawn_date"`
	SoldPrice     *int       `json:"sold_price"`

	// Engagement counters.
	Views int `json:"views"`
	Likes int `json:"likes"`

	// Scraper metadata.
	ScrapedAt    time.Time `json:"scraped_at"`
	SelectorUsed string    `json:"selector_used,omitempty"`
}

// Validate returns an error if the property contains invalid fields.
func (p *Property) Validate() error {
	if p.Title == "" {
		return Errorf(EINVALID, "property title required")
	}
	if p.Area == "" {
		return Errorf(EINVALID, "property area required")
	}
	if p.Status != "" && !ValidStatus(p.Status) {
		return Errorf(EINVALID, "invalid property status %q", p.Status)
	}
	if p.Type != "" && !ValidType(p.Type) {
		return Errorf(EINVALID, "invalid property type %q", p.Type)
	}
	for _, n := range []*int{p.Price, p.Bedrooms, p.Bathrooms, p.SizeSqm, p.SoldPrice} {
		if n != nil && *n < 0 {
			return Errorf(EINVALID, "property numeric fields cannot be negative")
		}
	}
	return nil
}

// ValidStatus reports whether s is a known property status.
func ValidStatus(s string) bool {
	switch s {
	case StatusAvailable, StatusUnderOffer, StatusSold, StatusOffMarket:
		return true
	}
	return false
}

// ValidType reports whether t is a known property type.
func ValidType(t string) bool {
	switch t {
	case TypeApartment, TypeHouse, TypeTownhouse, TypeDevelopment, TypeProperty:
		return true
	}
	return false
}

// PricePerSqm returns the price per square meter rounded to two decimal
// places, or nil if price or size is unavailable.
func (p *Property) PricePerSqm() *float64 {
	if p.Price == nil || p.SizeSqm == nil || *p.SizeSqm <= 0 {
		return nil
	}
	v := math.Round(float64(*p.Price)/float64(*p.SizeSqm)*100) / 100
	return &v
}

// DaysOnMarket returns the number of days between the listing date and
// the sold date, withdrawn date, or now, whichever applies first.
// Returns nil if the listing date is unknown.
func (p *Property) DaysOnMarket(now time.Time) *int {
	if p.ListedDate == nil {
		return nil
	}
	end := now
	if p.SoldDate != nil {
		end = *p.SoldDate
	} else if p.WithdrawnDate != nil {
		end = *p.WithdrawnDate
	}
	days := int(end.Sub(*p.ListedDate).Hours() / 24)
	return &days
}

// IsDeal reports whether the property is priced below the area's
// deal threshold: R15,000/m² in prime areas, R12,000/m² elsewhere.
func (p *Property) IsDeal() bool {
	psqm := p.PricePerSqm()
	if psqm == nil {
		return false
	}
	slug := NormalizeArea(p.Area)
	for _, prime := range PrimeAreas {
		if slug == prime {
			return *psqm < 15000
		}
	}
	return *psqm < 12000
}

// PropertyService represents a service for managing stored properties.
type PropertyService interface {
	// CreateProperty creates a new property, assigning an ID and
	// defaulting status, type, and scrape time when unset.
	CreateProperty(ctx context.Context, p *Property) error

	// FindPropertyByID retrieves a property by ID.
	// Returns ENOTFOUND if the property does not exist.
	FindPropertyByID(ctx context.Context, id string) (*Property, error)

	// FindProperties retrieves properties matching the filter, newest
	// scrape first, along with the total count of matching rows.
	FindProperties(ctx context.Context, filter PropertyFilter) ([]*Property, int, error)

	// UpdateProperty updates lifecycle fields on an existing property.
	// Returns ENOTFOUND if the property does not exist.
	UpdateProperty(ctx context.Context, id string, upd PropertyUpdate) (*Property, error)

	// DeleteProperties removes properties by area and/or age cutoff and
	// returns the number deleted. At least one criterion is required.
	DeleteProperties(ctx context.Context, del PropertyDelete) (int, error)

	// ImportProperties upserts a batch of scraped records: new listing
	// URLs are inserted, known URLs have their price refreshed when it
	// changed, invalid records are counted as errors.
	ImportProperties(ctx context.Context, records []*Property) (*ImportStats, error)

	// IncrementViews adds one view to a property and returns the new total.
	IncrementViews(ctx context.Context, id string) (int, error)

	// IncrementLikes adds one like to a property and returns the new total.
	IncrementLikes(ctx context.Context, id string) (int, error)

	// AreaCounts returns stored property counts per area, largest first.
	AreaCounts(ctx context.Context) ([]AreaCount, error)

	// Stats returns aggregate scrape statistics.
	Stats(ctx context.Context) (*ScrapeStats, error)
}

// PropertyFilter represents a filter for FindProperties.
type PropertyFilter struct {
	Area     *string `json:"area"`
	Status   *string `json:"status"`
	MinPrice *int    `json:"min_price"`
	MaxPrice *int    `json:"max_price"`
	Bedrooms *int    `json:"bedrooms"`

	// Search matches case-insensitively against title, area, and
	// neighborhood vibe.
	Search *string `json:"search"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// PropertyUpdate represents lifecycle fields that can be updated on a
// stored property.
type PropertyUpdate struct {
	Status        *string    `json:"status"`
	Price         *int       `json:"price"`
	SoldPrice     *int       `json:"sold_price"`
	SoldDate      *time.Time `json:"sold_date"`
	WithdrawnDate *time.Time `json:"withdrawn_date"`
	Description   *string    `json:"description"`
}

// PropertyDelete selects properties for bulk deletion.
type PropertyDelete struct {
	Area      *string    `json:"area"`
	OlderThan *time.Time `json:"older_than"`
}

// ImportStats summarizes the outcome of an import batch.
type ImportStats struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Errors  int `json:"errors"`
	Total   int `json:"total_properties"`
}

// AreaCount pairs an area with its stored property count.
type AreaCount struct {
	Area  string `json:"area"`
	Count int    `json:"property_count"`
}

// ScrapeStats summarizes stored scrape activity.
type ScrapeStats struct {
	TotalProperties int            `json:"total_properties"`
	RecentScrapes7d int            `json:"recent_scrapes_7d"`
	ByArea          map[string]int `json:"properties_by_area"`
	ByStatus        map[string]int `json:"properties_by_status"`
	LastScrape      *time.Time     `json:"last_scrape"`
}
