package main

import (
	"fmt"
	"sort"

	"github.com/jbekker/capescout"
)

// Run executes the areas command.
func (c *AreasCmd) Run(deps *Dependencies) error {
	counts, err := deps.Properties.AreaCounts(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", capescout.ErrorMessage(err))
		return err
	}
	byArea := make(map[string]int, len(counts))
	for _, count := range counts {
		byArea[count.Area] = count.Count
	}

	// Catalog areas first, in catalog order, then any stored areas the
	// catalog doesn't know about.
	for _, slug := range deps.Catalog.Slugs() {
		area, err := deps.Catalog.Resolve(slug)
		if err != nil {
			continue
		}
		fmt.Fprintf(deps.Stdout, "%-16s %6d  %d stored\n", slug, area.Code, byArea[slug])
		delete(byArea, slug)
	}

	extras := make([]string, 0, len(byArea))
	for area := range byArea {
		extras = append(extras, area)
	}
	sort.Strings(extras)
	for _, area := range extras {
		fmt.Fprintf(deps.Stdout, "%-16s %6s  %d stored\n", area, "-", byArea[area])
	}

	return nil
}
