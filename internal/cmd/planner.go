package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/bunkplan/internal/dashboard"
	"github.com/Iron-Ham/bunkplan/internal/tui/planner"
)

type plannerFlags struct {
	present int
	total   int
	target  float64
	from    string
	token   string
}

func newPlannerCmd(a *app) *cobra.Command {
	var flags plannerFlags

	cmd := &cobra.Command{
		Use:   "planner",
		Short: "Open the interactive bunk planner",
		Long: `Open the interactive bunk planner. Edit classes attended, total
classes and the target percentage; the analysis and scenario grid
update on every keystroke.

Use --from to start from a course component fetched from the portal,
or --from lowest for the component with the lowest attendance.

Edits to the config file (theme, target, scenario deltas) are applied
while the planner is open.

Examples:
  bunkplan planner -p 30 -t 40
  bunkplan planner --from KCS501:LECTURE
  bunkplan planner --from lowest`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := plannerOptions(cmd, a, flags)
			if err != nil {
				return err
			}
			return planner.NewApp(opts, a.logger).Run()
		},
	}

	cmd.Flags().IntVarP(&flags.present, "present", "p", 0, "classes attended")
	cmd.Flags().IntVarP(&flags.total, "total", "t", 0, "classes held")
	cmd.Flags().Float64Var(&flags.target, "target", 0, "target percentage (default from planner.target_percentage)")
	cmd.Flags().StringVar(&flags.from, "from", "", "start from a portal course component (COURSECODE[:COMPONENT] or lowest)")
	cmd.Flags().StringVar(&flags.token, "token", "", "portal session token for --from")
	cmd.MarkFlagsMutuallyExclusive("from", "present")
	cmd.MarkFlagsMutuallyExclusive("from", "total")
	return cmd
}

// plannerOptions seeds the planner from flags, fetching the counts from
// the portal when --from is set.
func plannerOptions(cmd *cobra.Command, a *app, flags plannerFlags) (planner.Options, error) {
	opts := planner.Options{
		Present:       flags.present,
		Total:         flags.total,
		TargetPercent: a.cfg.Planner.TargetPercentage,
		Deltas:        a.cfg.Planner.Deltas(),
		Theme:         a.theme,
	}
	if cmd.Flags().Changed("target") {
		opts.TargetPercent = flags.target
	}
	if flags.from == "" {
		return opts, nil
	}

	client, err := a.newPortalClient(flags.token)
	if err != nil {
		return opts, err
	}
	defer client.CloseIdleConnections()
	if err := requireToken(client); err != nil {
		return opts, err
	}

	att, err := client.Attendance(cmd.Context())
	if err != nil {
		return opts, a.portalFailure(err)
	}
	target, err := a.cfg.Planner.TargetRatio()
	if err != nil {
		return opts, err
	}
	cards, err := dashboard.Build(att, target)
	if err != nil {
		return opts, err
	}
	card, err := pickCard(cards, flags.from)
	if err != nil {
		return opts, err
	}

	a.logger.Info("planner seeded from portal", "component", card.Key())
	opts.Present = card.Count.Present
	opts.Total = card.Count.Total
	opts.Label = card.Key()
	return opts, nil
}
