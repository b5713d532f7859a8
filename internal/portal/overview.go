package portal

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Overview is everything the dashboard screen shows. Only Attendance is
// required; the other panels are left empty with their error recorded when
// their request fails.
type Overview struct {
	Attendance *StudentAttendance

	Summary    float64
	SummaryErr error

	CGPA           string
	PerformanceErr error

	Upcoming    []UpcomingClass
	UpcomingErr error
}

// Dashboard fetches attendance, summary, performance and upcoming classes
// concurrently. It fails only when attendance fails, in which case the
// other requests are canceled.
func (c *Client) Dashboard(ctx context.Context) (*Overview, error) {
	ov := &Overview{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		att, err := c.Attendance(gctx)
		if err != nil {
			return err
		}
		ov.Attendance = att
		return nil
	})
	g.Go(func() error {
		ov.Summary, ov.SummaryErr = c.Summary(gctx)
		return nil
	})
	g.Go(func() error {
		ov.CGPA, ov.PerformanceErr = c.Performance(gctx)
		return nil
	})
	g.Go(func() error {
		ov.Upcoming, ov.UpcomingErr = c.UpcomingClasses(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for panel, err := range map[string]error{
		"summary":     ov.SummaryErr,
		"performance": ov.PerformanceErr,
		"upcoming":    ov.UpcomingErr,
	} {
		if err != nil {
			c.logger.Warn("dashboard panel unavailable", "panel", panel, "error", err)
		}
	}
	return ov, nil
}
