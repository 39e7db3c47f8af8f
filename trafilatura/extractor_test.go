package trafilatura_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbekker/capescout"
	"github.com/jbekker/capescout/trafilatura"
)

// Ensure Extractor implements capescout.DescriptionExtractor at compile time.
var _ capescout.DescriptionExtractor = (*trafilatura.Extractor)(nil)

func TestExtractor_ExtractDescription(t *testing.T) {
	t.Parallel()

	t.Run("extracts the main text", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Modern 2 Bed Apartment in Sea Point</title></head>
<body>
<nav><a href="/">Home</a><a href="/for-sale">For Sale</a></nav>
<article>
<h1>Modern 2 Bed Apartment in Sea Point</h1>
<p>This bright north-facing apartment sits a block from the promenade, with
sweeping views of Lion's Head from the balcony.</p>
<p>The open-plan living area leads onto a renovated kitchen with stone counters.</p>
</article>
<footer>Contact the agent</footer>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		text, err := ext.ExtractDescription(html)

		require.NoError(t, err)
		assert.Contains(t, text, "a block from the promenade")
		assert.Contains(t, text, "open-plan living area")
	})

	t.Run("strips navigation boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Listing</title></head>
<body>
<nav class="main-nav">
<ul>
<li><a href="/">Home</a></li>
<li><a href="/for-sale/sea-point">Sea Point</a></li>
<li><a href="/for-sale/camps-bay">Camps Bay</a></li>
</ul>
</nav>
<main>
<h1>Charming Victorian Cottage</h1>
<p>Original features throughout, including wooden floors and a wraparound stoep.</p>
</main>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		text, err := ext.ExtractDescription(html)

		require.NoError(t, err)
		assert.Contains(t, text, "wraparound stoep")
		assert.NotContains(t, text, "main-nav")
	})

	t.Run("strips footer boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Listing</title></head>
<body>
<article>
<h1>Penthouse with Ocean Views</h1>
<p>A substantial triple-aspect penthouse occupying the entire top floor.</p>
</article>
<footer>
<p>Copyright 2026 Example Estates</p>
<nav>Privacy | Terms | Contact</nav>
</footer>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		text, err := ext.ExtractDescription(html)

		require.NoError(t, err)
		assert.Contains(t, text, "triple-aspect penthouse")
		assert.NotContains(t, text, "Copyright 2026 Example Estates")
	})

	t.Run("returns a trimmed result", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><article><p>  Spacious family home near good schools.  </p></article></body></html>`

		ext := trafilatura.NewExtractor()
		text, err := ext.ExtractDescription(html)

		require.NoError(t, err)
		assert.NotEmpty(t, text)
		assert.Equal(t, strings.TrimSpace(text), text)
	})

	t.Run("returns an error for empty input", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		_, err := ext.ExtractDescription("")

		require.Error(t, err)
		assert.Equal(t, capescout.EINVALID, capescout.ErrorCode(err))
	})

	t.Run("handles minimal valid HTML", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><p>Simple content about a simple flat.</p></body></html>`

		ext := trafilatura.NewExtractor()
		text, err := ext.ExtractDescription(html)

		require.NoError(t, err)
		assert.Contains(t, text, "Simple content")
	})
}
