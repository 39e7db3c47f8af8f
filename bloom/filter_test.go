package bloom_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jbekker/capescout/bloom"
)

func TestFilter_AddAndTest(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.Test("https://www.property24.com/for-sale/sea-point/1"))

	f.Add("https://www.property24.com/for-sale/sea-point/1")

	assert.True(t, f.Test("https://www.property24.com/for-sale/sea-point/1"))
	assert.False(t, f.Test("https://www.property24.com/for-sale/sea-point/2"))
}

func TestFilter_TestOrAdd(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	url := "https://www.property24.com/for-sale/camps-bay/7"

	// First sighting adds and reports absent.
	assert.False(t, f.TestOrAdd(url))

	// Every later sighting reports present.
	assert.True(t, f.TestOrAdd(url))
	assert.True(t, f.Test(url))
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.Equal(t, uint(0), f.EstimatedCount())

	f.Add("https://www.property24.com/for-sale/sea-point/1")
	f.Add("https://www.property24.com/for-sale/sea-point/2")
	f.Add("https://www.property24.com/for-sale/sea-point/3")

	count := f.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}

func TestFilter_AddIsIdempotent(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	url := "https://www.property24.com/for-sale/gardens/42"

	f.Add(url)
	countAfterFirst := f.EstimatedCount()

	f.Add(url)
	f.Add(url)
	f.Add(url)

	assert.Equal(t, countAfterFirst, f.EstimatedCount())
	assert.True(t, f.Test(url))
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const (
		numItems   = 10000
		fpRate     = 0.01
		testProbes = 10000
	)

	f := bloom.NewFilter(numItems, fpRate)

	for i := range numItems {
		f.Add(fmt.Sprintf("https://www.property24.com/for-sale/added/%d", i))
	}

	falsePositives := 0
	for i := range testProbes {
		url := fmt.Sprintf("https://www.property24.com/for-sale/notadded/%d", i)
		if f.Test(url) {
			falsePositives++
		}
	}

	// Allow up to 2% to absorb statistical variance around the 1% target.
	actualRate := float64(falsePositives) / float64(testProbes)
	assert.Less(t, actualRate, 0.02, "false positive rate %f exceeds 2%%", actualRate)
}
