package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-eclipses/internal/catalog"
	"github.com/litescript/ls-eclipses/internal/lookup"
)

func (a *app) newLookupCmd() *cobra.Command {
	var (
		asJSON bool
		save   bool
	)
	cmd := &cobra.Command{
		Use:   "lookup NAME",
		Short: "Resolve a star's coordinates, period and epoch online",
		Long: `Query CDS Sesame for coordinates and VizieR (VSX, then GCVS) for the
period and epoch of a variable star. With --save the result is registered in
the catalog when all four values were found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			resolver, release := a.resolvers(cmd.Context())
			defer release()

			res := resolver.Resolve(cmd.Context(), name)
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return err
				}
			} else {
				writeResult(cmd, res)
			}
			if err := res.Err(); err != nil {
				return err
			}
			if save {
				return a.saveResult(cmd, res)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "write JSON")
	cmd.Flags().BoolVar(&save, "save", false, "add the star to the catalog")
	return cmd
}

func writeResult(cmd *cobra.Command, res lookup.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, res.Name)
	if res.Position != nil {
		fmt.Fprintf(out, "  RA      %.6f°\n  Dec     %.6f°   (%s)\n",
			res.Position.RAdeg, res.Position.DecDeg, res.Position.Source)
	} else {
		fmt.Fprintf(out, "  position: %v\n", res.PositionErr)
	}
	if eph := res.Ephemeris; eph != nil {
		fmt.Fprintf(out, "  Period  %s d   (%s)\n", strconv.FormatFloat(eph.Period, 'f', -1, 64), eph.Source)
		if eph.HasEpoch {
			fmt.Fprintf(out, "  Epoch   %s\n", strconv.FormatFloat(eph.Epoch, 'f', -1, 64))
		} else {
			fmt.Fprintln(out, "  Epoch   missing")
		}
	} else {
		fmt.Fprintf(out, "  ephemeris: %v\n", res.EphemerisErr)
	}
}

func (a *app) saveResult(cmd *cobra.Command, res lookup.Result) error {
	if res.Position == nil || res.Ephemeris == nil || !res.Ephemeris.HasEpoch {
		return fmt.Errorf("not saving %s: lookup is incomplete", res.Name)
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}
	star := starFromResult(res)
	if _, err := store.Add(star, nil); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", star.Name)
	return nil
}

// starFromResult builds a catalog record from a complete lookup.
func starFromResult(res lookup.Result) catalog.Star {
	return catalog.Star{
		Name:   strings.TrimSpace(res.Name),
		RAdeg:  res.Position.RAdeg,
		DecDeg: res.Position.DecDeg,
		Epoch:  res.Ephemeris.Epoch,
		Period: res.Ephemeris.Period,
	}
}
