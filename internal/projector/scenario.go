package projector

import (
	"fmt"
	"slices"
)

// ScenarioKind says whether a scenario adds missed or attended classes.
type ScenarioKind int

const (
	// KindSkip adds absent classes: total grows, present stays.
	KindSkip ScenarioKind = iota
	// KindAttend adds attended classes: both present and total grow.
	KindAttend
)

func (k ScenarioKind) String() string {
	if k == KindAttend {
		return "attend"
	}
	return "skip"
}

// MarshalText renders the kind by name.
func (k ScenarioKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Tier grades a projected percentage for display.
type Tier int

const (
	TierCritical Tier = iota
	TierWarning
	TierSafe
	TierExcellent
)

const (
	excellentTierPercent = 85.0
	warningTierPercent   = 70.0
)

func (t Tier) String() string {
	switch t {
	case TierExcellent:
		return "excellent"
	case TierSafe:
		return "safe"
	case TierWarning:
		return "warning"
	default:
		return "critical"
	}
}

// MarshalText renders the tier by name.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// TierFor grades percentage against the 85% and 70% marks and the target ratio.
func TierFor(percentage, target float64) Tier {
	switch {
	case percentage >= excellentTierPercent:
		return TierExcellent
	case meets(percentage, 100, target):
		return TierSafe
	case percentage >= warningTierPercent:
		return TierWarning
	default:
		return TierCritical
	}
}

// Band is the label shown next to the overall attendance figure.
type Band int

const (
	BandAtRisk Band = iota
	BandBorderline
	BandSafe
	BandExcellent
)

func (b Band) String() string {
	switch b {
	case BandExcellent:
		return "Excellent"
	case BandSafe:
		return "Safe"
	case BandBorderline:
		return "Borderline"
	default:
		return "At Risk"
	}
}

// MarshalText renders the band by name.
func (b Band) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// BandFor labels an overall percentage.
func BandFor(percentage float64) Band {
	switch {
	case percentage >= 90:
		return BandExcellent
	case percentage >= 80:
		return BandSafe
	case percentage >= 75:
		return BandBorderline
	default:
		return BandAtRisk
	}
}

// Deltas are the sample class counts evaluated by Scenarios.
type Deltas struct {
	Skip   []int `json:"skip" yaml:"skip"`
	Attend []int `json:"attend" yaml:"attend"`
	// TargetFallback is appended to the attend column when the classes
	// needed to reach the target do not exceed every attend delta.
	// Zero or less disables it.
	TargetFallback int `json:"target_fallback" yaml:"target_fallback"`
}

// DefaultDeltas returns the planner's stock scenario grid.
func DefaultDeltas() Deltas {
	return Deltas{
		Skip:           []int{0, 1, 3, 5, 10},
		Attend:         []int{1, 3, 5, 10},
		TargetFallback: 15,
	}
}

// Validate rejects negative deltas.
func (d Deltas) Validate() error {
	for i, k := range d.Skip {
		if k < 0 {
			return negative(fmt.Sprintf("skip[%d]", i), k)
		}
	}
	for i, k := range d.Attend {
		if k < 0 {
			return negative(fmt.Sprintf("attend[%d]", i), k)
		}
	}
	return nil
}

// Scenario is one cell of the planner grid.
type Scenario struct {
	Kind       ScenarioKind `json:"kind"`
	Delta      int          `json:"delta"`
	Percentage float64      `json:"percentage"`
	// Change is Percentage minus the current percentage.
	Change float64 `json:"change"`
	Tier   Tier    `json:"tier"`
	// IsTarget marks the attend entry that exactly reaches the target.
	IsTarget bool `json:"is_target,omitempty"`
}

// Scenarios evaluates every skip delta, then every attend delta, then the
// trailing target entry.
func Scenarios(present, total int, target float64, deltas Deltas) ([]Scenario, error) {
	if err := deltas.Validate(); err != nil {
		return nil, err
	}
	res, err := Classify(present, total, target)
	if err != nil {
		return nil, err
	}

	attend := attendColumn(res, deltas)
	out := make([]Scenario, 0, len(deltas.Skip)+len(attend))

	for _, k := range deltas.Skip {
		pct, err := SimulateMiss(present, total, k)
		if err != nil {
			return nil, err
		}
		out = append(out, scenario(KindSkip, k, pct, res, target))
	}
	for _, k := range attend {
		pct, err := SimulateAttend(present, total, k)
		if err != nil {
			return nil, err
		}
		s := scenario(KindAttend, k, pct, res, target)
		s.IsTarget = res.Status == StatusAtRisk && !res.Unreachable && k == res.NeedAttend
		out = append(out, s)
	}
	return out, nil
}

func attendColumn(res Result, deltas Deltas) []int {
	attend := slices.Clone(deltas.Attend)

	extra := 0
	if len(attend) == 0 || res.NeedAttend > slices.Max(attend) {
		extra = res.NeedAttend
	}
	if extra == 0 {
		extra = deltas.TargetFallback
	}
	if extra > 0 && !slices.Contains(attend, extra) {
		attend = append(attend, extra)
	}
	return attend
}

func scenario(kind ScenarioKind, k int, pct float64, res Result, target float64) Scenario {
	return Scenario{
		Kind:       kind,
		Delta:      k,
		Percentage: pct,
		Change:     pct - res.Percentage,
		Tier:       TierFor(pct, target),
	}
}

// Message is the one-line guidance shown under a component's percentage.
func Message(res Result) string {
	switch {
	case res.Status == StatusNoData:
		return "No classes conducted yet"
	case res.Status == StatusSafe:
		return fmt.Sprintf("You can miss %d more %s", res.CanMiss, classes(res.CanMiss))
	case res.Unreachable:
		return "Target unreachable by attendance alone"
	default:
		return fmt.Sprintf("Need to attend next %d %s", res.NeedAttend, classes(res.NeedAttend))
	}
}

func classes(n int) string {
	if n == 1 {
		return "class"
	}
	return "classes"
}
