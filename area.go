package capescout

import "strings"

// Area pairs a normalized neighborhood slug with the marketplace's
// internal numeric code for it.
type Area struct {
	Slug string
	Code int
}

// defaultAreas lists the covered Atlantic Seaboard and City Bowl
// neighborhoods in catalog order.
var defaultAreas = []Area{
	{"sea-point", 11021},
	{"green-point", 11017},
	{"camps-bay", 11014},
	{"clifton", 11015},
	{"fresnaye", 11016},
	{"mouille-point", 11018},
	{"de-waterkant", 9141},
	{"gardens", 9145},
	{"oranjezicht", 9155},
	{"tamboerskloof", 9163},
	{"vredehoek", 9166},
}

// areaHighlights holds canned selling points per neighborhood, applied
// at import time to records that carry no extracted highlights.
var areaHighlights = map[string][]string{
	"sea-point":     {"2-min walk to beach", "Great coffee nearby", "Mountain views"},
	"camps-bay":     {"Ocean views", "Private terrace", "Designer kitchen"},
	"green-point":   {"Walking to V&A", "Modern finishes", "Gym in building"},
	"clifton":       {"Beach access", "Luxury finishes", "Concierge service"},
	"fresnaye":      {"Large garden", "Sea glimpses", "Double garage"},
	"de-waterkant":  {"Industrial chic", "High ceilings", "Trendy location"},
	"gardens":       {"City bowl living", "Cultural attractions", "Easy CBD access"},
	"oranjezicht":   {"Quiet residential", "Mountain proximity", "Historic charm"},
	"tamboerskloof": {"Trendy cafes", "Art galleries", "City views"},
	"vredehoek":     {"Peaceful setting", "Nature access", "Stunning views"},
}

// areaVibes holds canned one-line neighborhood descriptions.
var areaVibes = map[string]string{
	"sea-point":     "Vibrant beachfront living with excellent restaurants",
	"camps-bay":     "Exclusive beach paradise with stunning sunsets",
	"green-point":   "Urban sophistication meets waterfront convenience",
	"clifton":       "Ultimate luxury beachfront lifestyle",
	"fresnaye":      "Peaceful residential area with stunning city views",
	"de-waterkant":  "Hip, artistic quarter with great restaurants",
	"gardens":       "Cultural heart of Cape Town with historic charm",
	"oranjezicht":   "Quiet residential haven below Table Mountain",
	"tamboerskloof": "Trendy hillside community with artistic flair",
	"vredehoek":     "Tranquil mountain setting with panoramic views",
}

// NormalizeArea converts a free-form area name to its slug form:
// lowercased, with spaces and underscores replaced by hyphens.
func NormalizeArea(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")
	return s
}

// AreaCatalog maps human area names to marketplace area codes and
// carries the canned per-area metadata used when importing records.
type AreaCatalog struct {
	codes map[string]int
	slugs []string
}

// NewAreaCatalog returns a catalog populated with the built-in areas.
func NewAreaCatalog() *AreaCatalog {
	c := &AreaCatalog{codes: make(map[string]int, len(defaultAreas))}
	for _, a := range defaultAreas {
		c.Add(a.Slug, a.Code)
	}
	return c
}

// Add registers an area under its normalized slug. Re-adding a known
// slug replaces its code without changing catalog order.
func (c *AreaCatalog) Add(name string, code int) {
	slug := NormalizeArea(name)
	if _, ok := c.codes[slug]; !ok {
		c.slugs = append(c.slugs, slug)
	}
	c.codes[slug] = code
}

// Resolve normalizes name and looks up its area code.
// Returns ENOTFOUND if the area is not in the catalog.
func (c *AreaCatalog) Resolve(name string) (Area, error) {
	slug := NormalizeArea(name)
	code, ok := c.codes[slug]
	if !ok {
		return Area{}, Errorf(ENOTFOUND, "unknown area %q", name)
	}
	return Area{Slug: slug, Code: code}, nil
}

// Slugs returns all known area slugs in catalog order.
func (c *AreaCatalog) Slugs() []string {
	out := make([]string, len(c.slugs))
	copy(out, c.slugs)
	return out
}

// Highlights returns the canned selling points for an area, or a
// generic set for areas without one.
func (c *AreaCatalog) Highlights(name string) []string {
	if hl, ok := areaHighlights[NormalizeArea(name)]; ok {
		out := make([]string, len(hl))
		copy(out, hl)
		return out
	}
	return []string{"Great location", "Well-positioned", "Good access"}
}

// Vibe returns the canned one-line description for an area, or a
// generic description for areas without one.
func (c *AreaCatalog) Vibe(name string) string {
	if v, ok := areaVibes[NormalizeArea(name)]; ok {
		return v
	}
	return "Desirable Cape Town location"
}
