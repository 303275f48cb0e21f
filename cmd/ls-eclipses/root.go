package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/litescript/ls-eclipses/internal/catalog"
	"github.com/litescript/ls-eclipses/internal/config"
	"github.com/litescript/ls-eclipses/internal/logging"
	"github.com/litescript/ls-eclipses/internal/lookup"
	"github.com/litescript/ls-eclipses/internal/plan"
	"github.com/litescript/ls-eclipses/internal/version"
)

// app carries what every command needs once configuration is loaded.
type app struct {
	v       *viper.Viper
	cfgFile string
	dotEnv  string
	cfg     config.Config
	logger  *logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "ls-eclipses",
		Short: "Observation planner for eclipsing binary stars",
		Long: `ls-eclipses keeps a catalog of eclipsing binaries and computes, for a
night at the observatory, each star's altitude and orbital phase hour by hour,
flagging when a star is near minimum light and high enough to observe.

Without a subcommand the interactive terminal UI starts.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
		RunE:              a.runTUI,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default .ls-eclipses.toml in . or $HOME)")
	flags.StringVar(&a.dotEnv, "env-file", ".env", "dotenv file with LSE_* overrides")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("catalog", "", "star catalog file (default stars_db.json)")
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("catalog.path", flags.Lookup("catalog"))

	root.AddCommand(
		a.newTUICmd(),
		a.newPlanCmd(),
		a.newStarsCmd(),
		a.newLookupCmd(),
		a.newServeCmd(),
		a.newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// load reads configuration and sets up stderr logging.
func (a *app) load(cmd *cobra.Command, _ []string) error {
	if err := config.Init(a.v, a.cfgFile, a.dotEnv); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(logging.ParseLevel(cfg.Log.Level))
	a.logger.SetOutput(cmd.ErrOrStderr())
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("config: %s", used)
	}
	return nil
}

func (a *app) openStore() (*catalog.Store, error) {
	return catalog.Open(a.cfg.Catalog.Path, a.logger.Named("catalog"))
}

func (a *app) scheduler() *plan.Scheduler {
	return plan.NewScheduler(a.cfg.PlanSite(), plan.WithLogger(a.logger.Named("plan")))
}

// resolvers builds the remote lookup clients, wrapped in the SQLite cache
// when one is configured. Expired entries are purged on open, and a cache
// that cannot be opened is skipped. The returned func releases the cache.
func (a *app) resolvers(ctx context.Context) (*lookup.Resolver, func()) {
	logger := a.logger.Named("lookup")
	opts := []lookup.Option{
		lookup.WithTimeout(a.cfg.Lookup.Timeout),
		lookup.WithLogger(logger),
	}
	var positions lookup.PositionResolver = lookup.NewSesameClient(
		append(opts, lookup.WithBaseURL(a.cfg.Lookup.SesameURL))...)
	var ephemerides lookup.EphemerisResolver = lookup.NewVizierClient(
		append(opts, lookup.WithBaseURL(a.cfg.Lookup.VizierURL))...)

	release := func() {}
	if a.cfg.Lookup.CachePath != "" {
		cache, err := lookup.OpenCache(ctx, a.cfg.Lookup.CachePath, a.cfg.Lookup.CacheTTL, logger.Named("cache"))
		if err != nil {
			logger.Warn("lookup cache disabled: %v", err)
		} else {
			if n, err := cache.Purge(ctx); err != nil {
				logger.Warn("purge cache: %v", err)
			} else if n > 0 {
				logger.Debug("purged %d expired cache entries", n)
			}
			positions = cache.Positions(positions)
			ephemerides = cache.Ephemerides(ephemerides)
			release = func() {
				if err := cache.Close(); err != nil {
					logger.Warn("close cache: %v", err)
				}
			}
		}
	}
	return &lookup.Resolver{Positions: positions, Ephemerides: ephemerides}, release
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// No config needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ls-eclipses %s\n", version.Version)
		},
	}
}
