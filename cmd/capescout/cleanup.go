package main

import (
	"fmt"
	"time"

	"github.com/jbekker/capescout"
)

// Run executes the cleanup command.
func (c *CleanupCmd) Run(deps *Dependencies) error {
	if c.Area == "" && c.OlderThan <= 0 {
		fmt.Fprintf(deps.Stderr, "error: pass --area or --older-than to scope the deletion\n")
		return capescout.Errorf(capescout.EINVALID, "pass --area or --older-than to scope the deletion")
	}
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return capescout.Errorf(capescout.EINVALID, "use --force to confirm deletion")
	}

	del := capescout.PropertyDelete{}
	if c.Area != "" {
		del.Area = &c.Area
	}
	if c.OlderThan > 0 {
		cutoff := time.Now().AddDate(0, 0, -c.OlderThan)
		del.OlderThan = &cutoff
	}

	n, err := deps.Properties.DeleteProperties(deps.Ctx, del)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", capescout.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted %d properties\n", n)
	return nil
}
