package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/bunkplan/internal/dashboard"
	"github.com/Iron-Ham/bunkplan/internal/portal"
	"github.com/Iron-Ham/bunkplan/internal/render"
)

type attendanceFlags struct {
	token     string
	daywise   string
	studentID int
	json      bool
	markdown  bool
}

// attendanceReport is the --json document.
type attendanceReport struct {
	Name          string                 `json:"name"`
	Registration  string                 `json:"registration_number,omitempty"`
	TargetPercent float64                `json:"target_percent"`
	Overall       *dashboard.Summary     `json:"overall,omitempty"`
	CGPA          string                 `json:"cgpa,omitempty"`
	Cards         []dashboard.Card       `json:"cards"`
	Upcoming      []portal.UpcomingClass `json:"upcoming,omitempty"`
}

type daywiseReport struct {
	Card     dashboard.Card   `json:"card"`
	Tally    dashboard.Marks  `json:"tally"`
	Lectures []portal.Lecture `json:"lectures"`
}

func newAttendanceCmd(a *app) *cobra.Command {
	var flags attendanceFlags

	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Fetch attendance from the portal and project every course",
		Long: `Fetch your attendance from the portal and show, for every course
component, its percentage and how many classes you can miss or must
attend to stay at planner.target_percentage.

Use --daywise with COURSECODE:COMPONENT (or just COURSECODE when the
course has one component) to list that component's lectures.

The token comes from --token, BUNKPLAN_PORTAL_TOKEN or portal.token.

Examples:
  bunkplan attendance
  bunkplan attendance --daywise KCS501:LECTURE
  bunkplan attendance --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAttendance(cmd, a, flags)
		},
	}

	cmd.Flags().StringVar(&flags.token, "token", "", "portal session token")
	cmd.Flags().StringVar(&flags.daywise, "daywise", "", "show lectures of COURSECODE[:COMPONENT]")
	cmd.Flags().IntVar(&flags.studentID, "student-id", 0, "student ID sent with --daywise requests")
	cmd.Flags().BoolVar(&flags.json, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&flags.markdown, "markdown", false, "print the result as a markdown report")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")
	return cmd
}

func runAttendance(cmd *cobra.Command, a *app, flags attendanceFlags) error {
	client, err := a.newPortalClient(flags.token)
	if err != nil {
		return err
	}
	defer client.CloseIdleConnections()
	if err := requireToken(client); err != nil {
		return err
	}

	ctx := cmd.Context()
	ov, err := client.Dashboard(ctx)
	if err != nil {
		return a.portalFailure(err)
	}

	target, err := a.cfg.Planner.TargetRatio()
	if err != nil {
		return err
	}
	cards, err := dashboard.Build(ov.Attendance, target)
	if err != nil {
		return err
	}
	a.logger.Info("attendance fetched", "components", len(cards))

	out := cmd.OutOrStdout()
	width, _ := outputWidth(out)
	r := render.New(a.theme, min(width, 100))

	if flags.daywise != "" {
		card, err := dashboard.Find(cards, flags.daywise)
		if err != nil {
			return err
		}
		lectures, err := client.Daywise(ctx, portal.DaywiseRequest{
			CourseComponentID: card.ComponentID,
			CourseID:          card.CourseID,
			StudentID:         flags.studentID,
		})
		if err != nil {
			return a.portalFailure(err)
		}
		if flags.json {
			return writeJSON(out, daywiseReport{Card: card, Tally: dashboard.Tally(lectures), Lectures: lectures})
		}
		fmt.Fprintln(out, r.Daywise(card, lectures))
		return nil
	}

	switch {
	case flags.json:
		return writeJSON(out, newAttendanceReport(ov, cards, a.cfg.Planner.TargetPercentage))
	case flags.markdown:
		warnPanels(cmd.ErrOrStderr(), ov)
		return writeMarkdown(out, a, render.AttendanceMarkdown(ov, cards))
	}

	warnPanels(cmd.ErrOrStderr(), ov)
	var b strings.Builder
	b.WriteString(r.Overview(ov))
	b.WriteString("\n\n")
	b.WriteString(r.Cards(cards))
	fmt.Fprintln(out, b.String())
	return nil
}

func newAttendanceReport(ov *portal.Overview, cards []dashboard.Card, targetPercent float64) attendanceReport {
	report := attendanceReport{
		Name:          ov.Attendance.FullName,
		Registration:  ov.Attendance.RegistrationNumber,
		TargetPercent: targetPercent,
		CGPA:          ov.CGPA,
		Cards:         cards,
		Upcoming:      ov.Upcoming,
	}
	if report.Cards == nil {
		report.Cards = []dashboard.Card{}
	}
	if ov.SummaryErr == nil {
		s := dashboard.Overall(ov.Summary)
		report.Overall = &s
	}
	return report
}
