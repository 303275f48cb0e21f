package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-eclipses/internal/plan"
)

func (a *app) newPlanCmd() *cobra.Command {
	var (
		date    string
		asJSON  bool
		summary bool
	)
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the observation plan for a night",
		Long: `Print, for every registered star, the hourly altitude, phase and status
from 18:00 local time to 06:00 the next morning, followed by a summary of each
star's best time and predicted minima.

Exits with status 1 when any star could not be computed; the other stars are
still printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			sched := a.scheduler()
			if date == "" {
				date = time.Now().In(sched.Site().Location()).Format(plan.DateLayout)
			}

			s, err := sched.Plan(date, store.Stars())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if err := plan.Export(s).WriteJSON(out); err != nil {
					return err
				}
				return s.Err()
			}

			plan.WriteTable(out, s)
			if summary && len(s.Stars) > 0 {
				plan.WriteSummaryTable(out, plan.Summarize(s))
			}
			return s.Err()
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "observing date YYYY-MM-DD (default today at the site)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "write JSON instead of a table")
	cmd.Flags().BoolVar(&summary, "summary", true, "append the per-star summary")
	return cmd
}
