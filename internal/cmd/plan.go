package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/bunkplan/internal/render"
)

// countFlags are the inputs shared by plan and scenarios.
type countFlags struct {
	present  int
	total    int
	target   float64
	json     bool
	markdown bool
}

func (f *countFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.present, "present", "p", 0, "classes attended")
	cmd.Flags().IntVarP(&f.total, "total", "t", 0, "classes held")
	cmd.Flags().Float64Var(&f.target, "target", 0, "target percentage (default from planner.target_percentage)")
	cmd.Flags().BoolVar(&f.json, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&f.markdown, "markdown", false, "print the result as a markdown report")
	_ = cmd.MarkFlagRequired("present")
	_ = cmd.MarkFlagRequired("total")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")
}

// plan evaluates the flags, taking the target from config unless --target was given.
func (f *countFlags) plan(cmd *cobra.Command, a *app) (render.Plan, error) {
	target := a.cfg.Planner.TargetPercentage
	if cmd.Flags().Changed("target") {
		target = f.target
	}
	if f.total >= 0 && f.present > f.total {
		return render.Plan{}, fmt.Errorf("--present (%d) cannot exceed --total (%d)", f.present, f.total)
	}
	p, err := render.NewPlan(f.present, f.total, target, a.cfg.Planner.Deltas())
	if err != nil {
		return render.Plan{}, err
	}
	a.logger.Debug("plan computed",
		"present", f.present,
		"total", f.total,
		"target", target,
		"status", p.Result.Status.String(),
	)
	return p, nil
}

func newPlanCmd(a *app) *cobra.Command {
	var flags countFlags

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show how many classes you can miss or must attend",
		Long: `Evaluate an attendance count against the target percentage.

Prints the current percentage, whether it is safe, how many more
classes can be missed (or must be attended in a row) and the scenario
grid configured under planner.skip_deltas and planner.attend_deltas.

Examples:
  bunkplan plan --present 30 --total 40
  bunkplan plan -p 20 -t 40 --target 80
  bunkplan plan -p 20 -t 40 --markdown > report.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.plan(cmd, a)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case flags.json:
				return writeJSON(out, p)
			case flags.markdown:
				return writeMarkdown(out, a, render.PlanMarkdown(p))
			default:
				width, _ := outputWidth(out)
				fmt.Fprintln(out, render.New(a.theme, min(width, 100)).PlanView(p))
				return nil
			}
		},
	}
	flags.register(cmd)
	return cmd
}

func newScenariosCmd(a *app) *cobra.Command {
	var flags countFlags

	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Show attendance after skipping or attending more classes",
		Long: `Print only the scenario grid: the percentage after missing each
skip delta and after attending each attend delta, with the entry that
exactly reaches the target marked.

Example:
  bunkplan scenarios --present 20 --total 40`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.plan(cmd, a)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case flags.json:
				return writeJSON(out, p.Scenarios)
			case flags.markdown:
				return writeMarkdown(out, a, render.PlanMarkdown(p))
			default:
				width, _ := outputWidth(out)
				fmt.Fprintln(out, render.New(a.theme, min(width, 100)).ScenarioGrid(p.Scenarios))
				return nil
			}
		},
	}
	flags.register(cmd)
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeMarkdown renders md with glamour on a terminal and writes it raw
// otherwise, so redirected output stays plain markdown.
func writeMarkdown(w io.Writer, a *app, md string) error {
	width, tty := outputWidth(w)
	if !tty {
		_, err := io.WriteString(w, md)
		return err
	}
	out, err := render.New(a.theme, width).Markdown(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
