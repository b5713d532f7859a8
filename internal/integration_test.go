// Package internal contains integration tests that verify the portal,
// dashboard, projector and render packages agree with each other.
package internal

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Iron-Ham/bunkplan/internal/dashboard"
	"github.com/Iron-Ham/bunkplan/internal/portal"
	"github.com/Iron-Ham/bunkplan/internal/projector"
	"github.com/Iron-Ham/bunkplan/internal/render"
	"github.com/Iron-Ham/bunkplan/internal/tui/styles"
)

const attendanceBody = `{"data": {
	"fullName": "Asha Verma",
	"registrationNumber": "2100290100042",
	"attendanceCourseComponentInfoList": [
		{
			"courseName": "Compiler Design", "courseCode": "KCS501", "courseId": 11,
			"attendanceCourseComponentNameInfoList": [
				{"componentName": "LECTURE", "courseComponentId": 101, "numberOfPresent": 28, "numberOfExtraAttendance": 2, "numberOfPeriods": 40},
				{"componentName": "PRACTICAL", "courseComponentId": 102, "numberOfPresent": 9, "numberOfPeriods": 10}
			]
		},
		{
			"courseName": "Web Technology", "courseCode": "KCS502", "courseId": 12,
			"attendanceCourseComponentNameInfoList": [
				{"componentName": "LECTURE", "courseComponentId": 201, "numberOfPresent": 20, "numberOfPeriods": 40}
			]
		}
	]
}}`

func newPortal(t *testing.T) *portal.Client {
	t.Helper()
	bodies := map[string]string{
		portal.PathAttendance:  attendanceBody,
		portal.PathSummary:     `{"data": {"presentPerc": 74.4}}`,
		portal.PathPerformance: `{"data": "CGPA 7.9"}`,
		portal.PathUpcoming:    `{"data": []}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	c, err := portal.NewClient(srv.URL, "tok")
	require.NoError(t, err)
	t.Cleanup(c.CloseIdleConnections)
	return c
}

// TestDashboardToPlanner follows a live dashboard into the planner and
// checks that every layer reports the same projection.
func TestDashboardToPlanner(t *testing.T) {
	ov, err := newPortal(t).Dashboard(context.Background())
	require.NoError(t, err)
	assert.NoError(t, ov.SummaryErr)
	assert.Equal(t, "7.9", ov.CGPA)
	assert.Equal(t, projector.BandAtRisk, dashboard.Overall(ov.Summary).Band)

	cards, err := dashboard.Build(ov.Attendance, 0.75)
	require.NoError(t, err)
	require.Len(t, cards, 3)

	lowest, ok := dashboard.Lowest(cards)
	require.True(t, ok)
	assert.Equal(t, "KCS502:LECTURE", lowest.Key())

	plan, err := render.NewPlan(lowest.Count.Present, lowest.Count.Total, 75, projector.DefaultDeltas())
	require.NoError(t, err)
	assert.Equal(t, lowest.Result, plan.Result)
	assert.Equal(t, lowest.Message, plan.Message)
	assert.Equal(t, 40, plan.Result.NeedAttend)

	var target *projector.Scenario
	for i := range plan.Scenarios {
		if plan.Scenarios[i].IsTarget {
			target = &plan.Scenarios[i]
		}
	}
	require.NotNil(t, target, "an at-risk plan ends on the target entry")
	assert.Equal(t, plan.Result.NeedAttend, target.Delta)
	assert.GreaterOrEqual(t, target.Percentage, 75.0)

	// One class fewer must fall short of the target.
	short, err := projector.SimulateAttend(lowest.Count.Present, lowest.Count.Total, target.Delta-1)
	require.NoError(t, err)
	assert.Less(t, short, 75.0)
}

// TestSafeCardsAgreeWithSimulation checks that skipping exactly the reported
// number of classes keeps every safe component at or above the target.
func TestSafeCardsAgreeWithSimulation(t *testing.T) {
	att, err := newPortal(t).Attendance(context.Background())
	require.NoError(t, err)

	cards, err := dashboard.Build(att, 0.75)
	require.NoError(t, err)

	for _, c := range cards {
		if c.Result.Status != projector.StatusSafe {
			continue
		}
		t.Run(c.Key(), func(t *testing.T) {
			at, err := projector.SimulateMiss(c.Count.Present, c.Count.Total, c.Result.CanMiss)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, at, 75.0)

			over, err := projector.SimulateMiss(c.Count.Present, c.Count.Total, c.Result.CanMiss+1)
			require.NoError(t, err)
			assert.Less(t, over, 75.0)
		})
	}
}

func TestReportsRenderEveryCard(t *testing.T) {
	ov, err := newPortal(t).Dashboard(context.Background())
	require.NoError(t, err)
	cards, err := dashboard.Build(ov.Attendance, 0.75)
	require.NoError(t, err)

	md := render.AttendanceMarkdown(ov, cards)
	text := render.New(styles.Builtin(styles.DefaultTheme), 100).Cards(cards)
	for _, c := range cards {
		assert.Contains(t, md, c.Message)
		assert.True(t, strings.Contains(text, c.CourseCode), "cards view is missing %s", c.CourseCode)
	}
}
