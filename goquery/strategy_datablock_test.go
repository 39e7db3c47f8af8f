package goquery_test

import (
	"testing"

	"github.com/jbekker/capescout/goquery"
	"github.com/stretchr/testify/assert"
)

func TestDataBlockStrategy_Name(t *testing.T) {
	t.Parallel()

	s := goquery.NewDataBlockStrategy()
	assert.Equal(t, "data-block", s.Name())
}

func TestDataBlockStrategy_Extract(t *testing.T) {
	t.Parallel()

	t.Run("collects absolute string URLs under image keys", func(t *testing.T) {
		t.Parallel()

		frag := fragment(t, `<div><script type="application/json">
{"gallery": {"images": ["https://img.example.com/1.jpg", "/relative.jpg"]}}
</script></div>`)
		s := goquery.NewDataBlockStrategy()

		assert.Equal(t, []string{"https://img.example.com/1.jpg"}, s.Extract(frag))
	})

	t.Run("collects url fields from object items", func(t *testing.T) {
		t.Parallel()

		frag := fragment(t, `<div><script type="application/json">
{"photos": [{"url": "https://img.example.com/2.jpg", "width": 800}, {"caption": "no url"}]}
</script></div>`)
		s := goquery.NewDataBlockStrategy()

		assert.Equal(t, []string{"https://img.example.com/2.jpg"}, s.Extract(frag))
	})

	t.Run("ignores blocks without an object root", func(t *testing.T) {
		t.Parallel()

		frag := fragment(t, `<div><script type="application/json">
[{"images": ["https://img.example.com/3.jpg"]}]
</script></div>`)
		s := goquery.NewDataBlockStrategy()

		assert.Empty(t, s.Extract(frag))
	})

	t.Run("ignores unparseable blocks but keeps scanning", func(t *testing.T) {
		t.Parallel()

		frag := fragment(t, `<div>
<script type="application/json">{broken</script>
<script type="application/json">{"images": ["https://img.example.com/4.jpg"]}</script>
</div>`)
		s := goquery.NewDataBlockStrategy()

		assert.Equal(t, []string{"https://img.example.com/4.jpg"}, s.Extract(frag))
	})

	t.Run("ignores scripts without the JSON content type", func(t *testing.T) {
		t.Parallel()

		frag := fragment(t, `<div><script>{"images": ["https://img.example.com/5.jpg"]}</script></div>`)
		s := goquery.NewDataBlockStrategy()

		assert.Empty(t, s.Extract(frag))
	})

	t.Run("stops descending past the depth limit", func(t *testing.T) {
		t.Parallel()

		within := fragment(t, `<div><script type="application/json">
{"l1": {"l2": {"l3": {"l4": {"l5": {"images": ["https://img.example.com/deep.jpg"]}}}}}}
</script></div>`)
		beyond := fragment(t, `<div><script type="application/json">
{"l1": {"l2": {"l3": {"l4": {"l5": {"l6": {"images": ["https://img.example.com/lost.jpg"]}}}}}}}
</script></div>`)
		s := goquery.NewDataBlockStrategy()

		assert.Equal(t, []string{"https://img.example.com/deep.jpg"}, s.Extract(within))
		assert.Empty(t, s.Extract(beyond))
	})

	t.Run("visits object keys in sorted order", func(t *testing.T) {
		t.Parallel()

		frag := fragment(t, `<div><script type="application/json">
{"zebra": {"images": ["https://img.example.com/z.jpg"]}, "alpha": {"images": ["https://img.example.com/a.jpg"]}}
</script></div>`)
		s := goquery.NewDataBlockStrategy()

		assert.Equal(t, []string{
			"https://img.example.com/a.jpg",
			"https://img.example.com/z.jpg",
		}, s.Extract(frag))
	})
}
