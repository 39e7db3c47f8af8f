package trafilatura

import (
	"strings"

	"github.com/markusmobius/go-trafilatura"

	"github.com/jbekker/capescout"
)

// Ensure Extractor implements capescout.DescriptionExtractor at compile time.
var _ capescout.DescriptionExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to pull the main text out of a listing
// page. It serves as the description fallback for detail pages whose
// markup carries no recognizable description container.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractDescription processes raw HTML and returns the page's main
// text with boilerplate (navigation, footers, sidebars) stripped.
func (e *Extractor) ExtractDescription(rawHTML string) (string, error) {
	if rawHTML == "" {
		return "", capescout.Errorf(capescout.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return "", capescout.Errorf(capescout.EINVALID, "failed to extract content: %v", err)
	}

	return strings.TrimSpace(result.ContentText), nil
}
