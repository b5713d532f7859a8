package projector

import (
	"fmt"
	"math"

	"github.com/Iron-Ham/bunkplan/internal/errors"
)

// DefaultTargetPercentage is the attendance threshold most institutions require.
const DefaultTargetPercentage = 75.0

// tolerance is the relative slack allowed when comparing present against
// target*total: a few ulps, enough to absorb the rounding of target and of
// the product and no more.
const tolerance = 4 * 0x1p-52

// maxCount is the first float64 that no longer fits in an int.
const maxCount = float64(math.MaxInt)

// Status classifies a count against the target.
type Status int

const (
	// StatusNoData means no classes have been conducted yet.
	StatusNoData Status = iota
	// StatusSafe means the percentage is at or above the target.
	StatusSafe
	// StatusAtRisk means the percentage is below the target.
	StatusAtRisk
)

func (s Status) String() string {
	switch s {
	case StatusNoData:
		return "NO_DATA"
	case StatusSafe:
		return "SAFE"
	case StatusAtRisk:
		return "AT_RISK"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the status by name in JSON and YAML output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Count is a present/total lecture pair for one course component.
type Count struct {
	Present int `json:"present"`
	Total   int `json:"total"`
}

// Result is the projection for one count.
//
// CanMiss is only non-zero when Status is StatusSafe, NeedAttend only when it
// is StatusAtRisk. Unreachable is set when the count is at risk and the
// target is 100%, since attending more classes can never make up a miss.
type Result struct {
	Percentage  float64 `json:"percentage"`
	Status      Status  `json:"status"`
	CanMiss     int     `json:"can_miss"`
	NeedAttend  int     `json:"need_attend"`
	Unreachable bool    `json:"unreachable,omitempty"`
}

// TargetFromPercent converts a percentage in (0, 100] to a target ratio.
func TargetFromPercent(percent float64) (float64, error) {
	if math.IsNaN(percent) || percent <= 0 || percent > 100 {
		return 0, errors.NewProjectionError(errors.KindInvalidTarget, "target percentage must be in (0, 100]").
			WithField("target_percentage").
			WithValue(percent)
	}
	return percent / 100, nil
}

// Classify computes the percentage and status of a count and fills in
// whichever of CanMiss or NeedAttend applies.
func Classify(present, total int, target float64) (Result, error) {
	if err := validate(present, total, target); err != nil {
		return Result{}, err
	}

	if total == 0 {
		return Result{Status: StatusNoData}, nil
	}

	res := Result{Percentage: percent(float64(present), float64(total))}

	if meets(float64(present), float64(total), target) {
		res.Status = StatusSafe
		m, err := canMiss(present, total, target)
		if err != nil {
			return Result{}, err
		}
		res.CanMiss = m
		return res, nil
	}

	res.Status = StatusAtRisk
	if target >= 1 {
		res.Unreachable = true
		return res, nil
	}
	n, err := needToAttend(present, total, target)
	if err != nil {
		return Result{}, err
	}
	res.NeedAttend = n
	return res, nil
}

// CanMiss returns the largest m ≥ 0 such that present ≥ target*(total+m).
// It returns 0 when the count is at risk or has no data.
func CanMiss(present, total int, target float64) (int, error) {
	if err := validate(present, total, target); err != nil {
		return 0, err
	}
	if total == 0 || !meets(float64(present), float64(total), target) {
		return 0, nil
	}
	return canMiss(present, total, target)
}

// NeedToAttend returns the smallest n ≥ 0 such that
// (present+n)/(total+n) ≥ target. It returns 0 when the count is already
// safe or has no data. A target of 1 or more is rejected for any count.
func NeedToAttend(present, total int, target float64) (int, error) {
	if err := validate(present, total, target); err != nil {
		return 0, err
	}
	if target >= 1 {
		return 0, errors.NewProjectionError(errors.KindInvalidTarget, "target must be below 100% to project attendance").
			WithField("target").
			WithValue(target)
	}
	if total == 0 || meets(float64(present), float64(total), target) {
		return 0, nil
	}
	return needToAttend(present, total, target)
}

// SimulateMiss returns the percentage after missing k more classes.
func SimulateMiss(present, total, k int) (float64, error) {
	if err := validateCounts(present, total); err != nil {
		return 0, err
	}
	if err := validateDelta(k); err != nil {
		return 0, err
	}
	return percent(float64(present), float64(total)+float64(k)), nil
}

// SimulateAttend returns the percentage after attending k more classes.
func SimulateAttend(present, total, k int) (float64, error) {
	if err := validateCounts(present, total); err != nil {
		return 0, err
	}
	if err := validateDelta(k); err != nil {
		return 0, err
	}
	return percent(float64(present)+float64(k), float64(total)+float64(k)), nil
}

// canMiss assumes the count is safe and total > 0.
func canMiss(present, total int, target float64) (int, error) {
	p, t := float64(present), float64(total)

	raw := math.Floor((p - target*t) / target)
	if raw < 0 {
		raw = 0
	}
	if raw+t+1 >= maxCount {
		return 0, outOfRange("can_miss", raw)
	}

	m := int(raw)
	// The closed form is exact in real arithmetic; nudge it back onto the
	// predicate wherever float rounding put it off by one.
	for m > 0 && !meets(p, t+float64(m), target) {
		m--
	}
	for meets(p, t+float64(m+1), target) {
		m++
	}
	return m, nil
}

// needToAttend assumes the count is at risk, total > 0 and target < 1.
func needToAttend(present, total int, target float64) (int, error) {
	p, t := float64(present), float64(total)

	raw := math.Ceil((target*t - p) / (1 - target))
	if raw < 0 {
		raw = 0
	}
	if raw+t+1 >= maxCount {
		return 0, outOfRange("need_attend", raw)
	}

	n := int(raw)
	for n > 0 && meets(p+float64(n-1), t+float64(n-1), target) {
		n--
	}
	for !meets(p+float64(n), t+float64(n), target) {
		n++
	}
	return n, nil
}

// meets reports whether present/total ≥ target, with tolerance, without dividing.
func meets(present, total, target float64) bool {
	scale := math.Max(1, target*total)
	return present-target*total >= -tolerance*scale
}

func percent(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den * 100
}

func validate(present, total int, target float64) error {
	if err := validateCounts(present, total); err != nil {
		return err
	}
	return validateTarget(target)
}

func validateCounts(present, total int) error {
	if present < 0 {
		return negative("present", present)
	}
	if total < 0 {
		return negative("total", total)
	}
	return nil
}

func validateDelta(k int) error {
	if k < 0 {
		return negative("k", k)
	}
	return nil
}

func validateTarget(target float64) error {
	if math.IsNaN(target) || target <= 0 || target > 1 {
		return errors.NewProjectionError(errors.KindInvalidTarget, "target must be in (0, 1]").
			WithField("target").
			WithValue(target)
	}
	return nil
}

func negative(field string, value int) error {
	return errors.NewProjectionError(errors.KindNegativeInput, fmt.Sprintf("%s must be non-negative", field)).
		WithField(field).
		WithValue(value)
}

func outOfRange(field string, value float64) error {
	return errors.NewProjectionError(errors.KindOutOfRange, "projection does not fit in an int").
		WithField(field).
		WithValue(value)
}
