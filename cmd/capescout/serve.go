package main

import (
	"context"
	"fmt"

	capehttp "github.com/jbekker/capescout/http"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	addr := c.Addr
	if addr == "" {
		addr = deps.Config.Addr
	}

	srv := capehttp.NewServer()
	srv.Addr = addr
	srv.PropertyService = deps.Properties
	srv.CommentService = deps.Comments
	srv.Catalog = deps.Catalog
	srv.Logger = deps.Logger
	srv.HealthCheck = func(ctx context.Context) error {
		var n int
		return deps.DB.QueryRowContext(ctx, `SELECT 1`).Scan(&n)
	}

	fmt.Fprintf(deps.Stdout, "Listening on %s\n", addr)
	return srv.ListenAndServe(deps.Ctx)
}
