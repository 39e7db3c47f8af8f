package goquery_test

import (
	"strings"
	"testing"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/jbekker/capescout"
	"github.com/jbekker/capescout/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fragment parses HTML and returns its root selection.
func fragment(t *testing.T, html string) *gq.Selection {
	t.Helper()
	doc, err := gq.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc.Selection
}

// stubStrategy returns fixed URLs regardless of the fragment.
type stubStrategy struct {
	name string
	urls []string
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Extract(*gq.Selection) []string { return s.urls }

func TestImageExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("concatenates strategy outputs in strategy order", func(t *testing.T) {
		t.Parallel()

		e := goquery.NewImageExtractor(
			&stubStrategy{urls: []string{"a", "b"}},
			&stubStrategy{urls: []string{"c"}},
		)
		got := e.Extract(fragment(t, `<div></div>`), 5)

		assert.Equal(t, []string{"a", "b", "c"}, got)
	})

	t.Run("deduplicates preserving first-seen order", func(t *testing.T) {
		t.Parallel()

		e := goquery.NewImageExtractor(
			&stubStrategy{urls: []string{"a", "b"}},
			&stubStrategy{urls: []string{"a", "c"}},
		)
		got := e.Extract(fragment(t, `<div></div>`), 5)

		assert.Equal(t, []string{"a", "b", "c"}, got)
	})

	t.Run("never exceeds the cap", func(t *testing.T) {
		t.Parallel()

		e := goquery.NewImageExtractor(
			&stubStrategy{urls: []string{"a", "b", "c", "d", "e", "f", "g"}},
		)
		got := e.Extract(fragment(t, `<div></div>`), 5)

		assert.Equal(t, []string{"a", "b", "c", "d", "e"}, got)
	})

	t.Run("plain fragment yields no URLs", func(t *testing.T) {
		t.Parallel()

		e := goquery.NewImageExtractor(goquery.DefaultImageStrategies(capescout.BaseURL)...)
		got := e.Extract(fragment(t, `<div><p>No images here.</p></div>`), 5)

		assert.Empty(t, got)
	})
}

func TestDefaultImageStrategies(t *testing.T) {
	t.Parallel()

	strategies := goquery.DefaultImageStrategies(capescout.BaseURL)
	require.Len(t, strategies, 3)
	assert.Equal(t, "img-tag", strategies[0].Name())
	assert.Equal(t, "inline-style", strategies[1].Name())
	assert.Equal(t, "data-block", strategies[2].Name())
}
