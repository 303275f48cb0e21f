package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-eclipses/internal/catalog"
)

func (a *app) newStarsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stars",
		Short: "Manage the star catalog",
	}
	cmd.AddCommand(a.newStarsListCmd(), a.newStarsAddCmd(), a.newStarsRmCmd())
	return cmd
}

func (a *app) newStarsListCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered stars",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			stars := store.Stars()
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(stars)
			}
			if len(stars) == 0 {
				fmt.Fprintln(out, "No registered stars")
				return nil
			}
			fmt.Fprintf(out, "%-22s %11s %11s %15s %12s\n", "Name", "RA (°)", "Dec (°)", "Epoch (HJD)", "Period (d)")
			for _, st := range stars {
				fmt.Fprintf(out, "%-22s %11.6f %11.6f %15s %12s\n",
					st.Name, st.RAdeg, st.DecDeg,
					strconv.FormatFloat(st.Epoch, 'f', -1, 64),
					strconv.FormatFloat(st.Period, 'f', -1, 64))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "write JSON")
	return cmd
}

func (a *app) newStarsAddCmd() *cobra.Command {
	var (
		ra, dec, epoch, period string
		force                  bool
	)
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Register a star, or update it with --force",
		Example: `  ls-eclipses stars add "RT And" --ra 345.296 --dec 53.027 \
      --epoch 2457000.5 --period 0.6289`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			star, err := catalog.ParseStar(args[0], ra, dec, epoch, period)
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}

			var confirm func(catalog.Star) bool
			if force {
				confirm = catalog.Overwrite
			}
			if _, err := store.Add(star, confirm); err != nil {
				if errors.Is(err, catalog.ErrExists) {
					return fmt.Errorf("'%s' already exists; use --force to update it", star.Name)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", star.Name)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&ra, "ra", "", "right ascension, degrees J2000")
	f.StringVar(&dec, "dec", "", "declination, degrees J2000")
	f.StringVar(&epoch, "epoch", "", "HJD of a primary minimum")
	f.StringVar(&period, "period", "", "orbital period, days")
	f.BoolVarP(&force, "force", "f", false, "replace an existing star of the same name")
	return cmd
}

func (a *app) newStarsRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm NAME",
		Aliases: []string{"delete"},
		Short:   "Remove a star (exact name)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			removed, err := store.Delete(args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("no star named %q", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}
