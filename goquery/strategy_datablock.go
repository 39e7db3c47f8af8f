package goquery

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// imageKeys are the JSON key names searched for image URL collections.
var imageKeys = []string{"images", "gallery", "photos", "imageUrl", "image"}

// maxDataDepth bounds the traversal of embedded JSON value trees.
const maxDataDepth = 5

// DataBlockStrategy collects image URLs from embedded JSON script
// blocks. Listing markup often carries gallery data in JSON; the
// strategy parses each application/json script with an object root and
// searches the value tree for recognized image keys.
type DataBlockStrategy struct{}

// NewDataBlockStrategy creates a DataBlockStrategy.
func NewDataBlockStrategy() *DataBlockStrategy {
	return &DataBlockStrategy{}
}

// Name returns the strategy's identifier.
func (s *DataBlockStrategy) Name() string {
	return "data-block"
}

// Extract returns the image URLs found in the fragment's embedded JSON
// data blocks. Scripts that fail to parse contribute nothing.
func (s *DataBlockStrategy) Extract(sel *goquery.Selection) []string {
	var urls []string
	sel.Find(`script[type="application/json"]`).Each(func(_ int, script *goquery.Selection) {
		var value any
		if err := json.Unmarshal([]byte(script.Text()), &value); err != nil {
			return
		}
		obj, ok := value.(map[string]any)
		if !ok {
			return
		}
		urls = append(urls, collectImageURLs(obj, 0)...)
	})
	return urls
}

// collectImageURLs walks a decoded JSON value tree to maxDataDepth,
// gathering URLs from list values under image keys: string items must
// look like absolute URLs, object items contribute their "url" field.
// Object keys are visited in sorted order so output is deterministic.
func collectImageURLs(value any, depth int) []string {
	if depth > maxDataDepth {
		return nil
	}

	var urls []string
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			if isImageKey(k) {
				list, ok := v[k].([]any)
				if !ok {
					continue
				}
				for _, item := range list {
					switch item := item.(type) {
					case string:
						if strings.HasPrefix(item, "http") {
							urls = append(urls, item)
						}
					case map[string]any:
						if u, ok := item["url"].(string); ok {
							urls = append(urls, u)
						}
					}
				}
				continue
			}
			switch v[k].(type) {
			case map[string]any, []any:
				urls = append(urls, collectImageURLs(v[k], depth+1)...)
			}
		}
	case []any:
		for _, item := range v {
			if _, ok := item.(map[string]any); ok {
				urls = append(urls, collectImageURLs(item, depth+1)...)
			}
		}
	}
	return urls
}

func isImageKey(k string) bool {
	for _, key := range imageKeys {
		if k == key {
			return true
		}
	}
	return false
}
