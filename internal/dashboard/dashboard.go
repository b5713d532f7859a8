// Package dashboard turns portal attendance data into per-component
// projections.
package dashboard

import (
	"strings"

	"github.com/Iron-Ham/bunkplan/internal/errors"
	"github.com/Iron-Ham/bunkplan/internal/portal"
	"github.com/Iron-Ham/bunkplan/internal/projector"
)

// Card is one course component with its projection.
type Card struct {
	CourseName  string `json:"course_name"`
	CourseCode  string `json:"course_code"`
	CourseID    int    `json:"course_id"`
	Component   string `json:"component"`
	ComponentID int    `json:"component_id"`

	Count   projector.Count  `json:"count"`
	Result  projector.Result `json:"result"`
	Message string           `json:"message"`

	// PortalPercentage is what the portal displays; it can differ from
	// Result.Percentage when the portal rounds or weights differently.
	PortalPercentage float64 `json:"portal_percentage"`
}

// Key identifies the card as COURSECODE:COMPONENT.
func (c Card) Key() string {
	return c.CourseCode + ":" + c.Component
}

// Build projects every component in portal order.
func Build(att *portal.StudentAttendance, target float64) ([]Card, error) {
	if att == nil {
		return nil, nil
	}

	var cards []Card
	for _, course := range att.Courses {
		for _, comp := range course.Components {
			count := projector.Count{Present: comp.Attended(), Total: comp.Periods}
			res, err := projector.Classify(count.Present, count.Total, target)
			if err != nil {
				return nil, errors.Wrapf(err, "%s %s", course.Code, comp.Name)
			}
			cards = append(cards, Card{
				CourseName:       course.Name,
				CourseCode:       course.Code,
				CourseID:         course.ID,
				Component:        comp.Name,
				ComponentID:      comp.ID,
				Count:            count,
				Result:           res,
				Message:          projector.Message(res),
				PortalPercentage: float64(comp.PortalPercentage),
			})
		}
	}
	return cards, nil
}

// Summary is the overall attendance figure with its band.
type Summary struct {
	Percentage float64        `json:"percentage"`
	Band       projector.Band `json:"band"`
}

// Overall labels the portal's overall percentage.
func Overall(percentage float64) Summary {
	return Summary{Percentage: percentage, Band: projector.BandFor(percentage)}
}

// Marks counts lectures by attendance mark.
type Marks struct {
	Present  int `json:"present"`
	Absent   int `json:"absent"`
	Adjusted int `json:"adjusted"`
	// Other counts marks the portal added that are not recognised.
	Other int `json:"other,omitempty"`
}

// Total is the number of lectures tallied.
func (m Marks) Total() int {
	return m.Present + m.Absent + m.Adjusted + m.Other
}

// Tally counts a day-wise lecture log.
func Tally(lectures []portal.Lecture) Marks {
	var m Marks
	for _, l := range lectures {
		switch portal.Mark(strings.ToUpper(string(l.Attendance))) {
		case portal.MarkPresent:
			m.Present++
		case portal.MarkAbsent:
			m.Absent++
		case portal.MarkAdjusted:
			m.Adjusted++
		default:
			m.Other++
		}
	}
	return m
}

// Lowest returns the card with the lowest percentage among those with data.
// Ties keep the first in portal order.
func Lowest(cards []Card) (Card, bool) {
	var lowest Card
	found := false
	for _, c := range cards {
		if c.Result.Status == projector.StatusNoData {
			continue
		}
		if !found || c.Result.Percentage < lowest.Result.Percentage {
			lowest = c
			found = true
		}
	}
	return lowest, found
}

// Find selects a card by "COURSECODE:COMPONENT" (case-insensitive) or by
// course code alone when that course has a single component.
func Find(cards []Card, selector string) (Card, error) {
	code, component, hasComponent := strings.Cut(strings.TrimSpace(selector), ":")

	var matches []Card
	for _, c := range cards {
		if !strings.EqualFold(c.CourseCode, code) {
			continue
		}
		if hasComponent && !strings.EqualFold(c.Component, component) {
			continue
		}
		matches = append(matches, c)
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return Card{}, errors.NewNotFoundError("course component", selector)
	default:
		keys := make([]string, len(matches))
		for i, m := range matches {
			keys[i] = m.Key()
		}
		return Card{}, errors.NewValidationError("ambiguous selector, use one of: " + strings.Join(keys, ", ")).
			WithField("daywise").
			WithValue(selector)
	}
}
