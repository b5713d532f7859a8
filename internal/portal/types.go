package portal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Credentials are the login form fields.
type Credentials struct {
	Username string `json:"userName" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// StudentAttendance is the per-course component breakdown for the logged-in student.
type StudentAttendance struct {
	FullName           string   `json:"fullName"`
	RegistrationNumber string   `json:"registrationNumber"`
	BranchShortName    string   `json:"branchShortName"`
	SectionName        string   `json:"sectionName"`
	DegreeName         string   `json:"degreeName"`
	SemesterName       string   `json:"semesterName"`
	Courses            []Course `json:"attendanceCourseComponentInfoList"`
}

// Course groups the lecture, lab and tutorial components of one subject.
type Course struct {
	Name       string      `json:"courseName"`
	Code       string      `json:"courseCode"`
	ID         int         `json:"courseId"`
	Components []Component `json:"attendanceCourseComponentNameInfoList"`
}

// Component is one course component with its raw counts.
type Component struct {
	Name            string `json:"componentName"`
	ID              int    `json:"courseComponentId"`
	Present         int    `json:"numberOfPresent"`
	ExtraAttendance int    `json:"numberOfExtraAttendance"`
	Periods         int    `json:"numberOfPeriods"`
	// PortalPercentage is the figure the portal itself displays.
	PortalPercentage Percent `json:"presentPercentageWith"`
}

// Attended counts extra attendance as present.
func (c Component) Attended() int {
	return c.Present + c.ExtraAttendance
}

// Percent decodes a percentage sent either as a JSON number or as a string
// such as "82.5" or "82.5%". Null and empty strings decode to 0.
type Percent float64

func (p *Percent) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
		if s == "" {
			*p = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid percentage %q: %w", s, err)
		}
		*p = Percent(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Percent(v)
	return nil
}

// AttendanceSummary is the dashboard's overall attendance figure.
type AttendanceSummary struct {
	PresentPerc Percent `json:"presentPerc"`
}

// UpcomingClass is one entry of the dashboard timetable.
type UpcomingClass struct {
	CourseName   string `json:"courseName"`
	CourseCode   string `json:"courseCode"`
	Date         string `json:"date"`
	StartEndTime string `json:"startEndTime"`
	ClassRoom    string `json:"classRoom"`
}

// DaywiseRequest selects the course component whose lecture log is fetched.
type DaywiseRequest struct {
	CourseComponentID int  `json:"courseCompId" validate:"gt=0"`
	CourseID          int  `json:"courseId" validate:"gt=0"`
	SessionID         *int `json:"sessionId"`
	StudentID         int  `json:"studentId" validate:"gte=0"`
}

// Mark is the attendance recorded for one lecture.
type Mark string

const (
	MarkPresent  Mark = "PRESENT"
	MarkAbsent   Mark = "ABSENT"
	MarkAdjusted Mark = "ADJUSTED"
)

// Lecture is one scheduled lecture with its mark.
type Lecture struct {
	PlanLecDate string `json:"planLecDate"`
	DayName     string `json:"dayName"`
	TimeSlot    string `json:"timeSlot"`
	Attendance  Mark   `json:"attendance"`
}

var lectureDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-01-2006",
	"Jan 2, 2006",
}

// Date parses PlanLecDate. ok is false when no known layout matches.
func (l Lecture) Date() (time.Time, bool) {
	value := strings.TrimSpace(l.PlanLecDate)
	for _, layout := range lectureDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type daywiseEntry struct {
	LectureList []Lecture `json:"lectureList"`
}

type loginData struct {
	Token string `json:"token"`
}

// envelope is the wrapper every portal response uses.
type envelope[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}
