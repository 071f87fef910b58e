package cmd

import (
	"context"
	"fmt"

	"github.com/nibzard/taskflow/internal/server"
)

// serveCommand serves the sample endpoint until ctx is cancelled.
func (a *app) serveCommand(ctx context.Context, args []string) error {
	fs := a.newFlagSet("serve")
	addr := fs.String("addr", a.cfg.ListenAddr, "Listen address (overrides --listen)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	return server.Run(ctx, server.Config{
		Address: *addr,
		Logger:  a.logger(a.errOut),
	})
}
