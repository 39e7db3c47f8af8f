package main

import (
	"fmt"

	"github.com/jbekker/capescout"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := capescout.PropertyFilter{Limit: c.Limit}
	if c.Area != "" {
		filter.Area = &c.Area
	}
	if c.Status != "" {
		filter.Status = &c.Status
	}
	if c.MinPrice > 0 {
		filter.MinPrice = &c.MinPrice
	}
	if c.MaxPrice > 0 {
		filter.MaxPrice = &c.MaxPrice
	}
	if c.Bedrooms > 0 {
		filter.Bedrooms = &c.Bedrooms
	}
	if c.Search != "" {
		filter.Search = &c.Search
	}

	properties, total, err := deps.Properties.FindProperties(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", capescout.ErrorMessage(err))
		return err
	}

	if len(properties) == 0 {
		fmt.Fprintln(deps.Stdout, "No properties found. Use 'capescout scrape' to collect some.")
		return nil
	}

	for _, p := range properties {
		fmt.Fprintf(deps.Stdout, "%s  %-16s %12s  %s\n", p.ID, p.Area, capescout.FormatPrice(p.Price), p.Title)
	}
	if total > len(properties) {
		fmt.Fprintf(deps.Stdout, "Showing %d of %d properties\n", len(properties), total)
	}

	return nil
}
