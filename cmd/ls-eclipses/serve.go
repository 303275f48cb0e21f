package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-eclipses/internal/api"
	"github.com/litescript/ls-eclipses/internal/catalog"
)

func (a *app) newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog, plans and lookups over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.API.Addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := a.openStore()
			if err != nil {
				return err
			}
			resolver, release := a.resolvers(ctx)
			defer release()

			srv := api.New(api.Deps{
				Store:     store,
				Scheduler: a.scheduler(),
				Resolver:  resolver,
				Timeout:   a.cfg.Lookup.Timeout,
				Logger:    a.logger.Named("api"),
			})

			a.watchCatalog(ctx, srv, store)
			return srv.Run(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from api.addr, :8080)")
	return cmd
}

func (a *app) watchCatalog(ctx context.Context, srv *api.Server, store *catalog.Store) {
	watcher, err := catalog.NewWatcher(store.Path())
	if err == nil {
		err = watcher.Start()
	}
	if err != nil {
		a.logger.Warn("catalog watch disabled: %v", err)
		return
	}
	go func() {
		<-ctx.Done()
		watcher.Stop()
	}()
	go srv.WatchCatalog(ctx, watcher.Changes)
}
