package projector

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Iron-Ham/bunkplan/internal/errors"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestScenarios_AtRisk(t *testing.T) {
	got, err := Scenarios(20, 40, 0.75, DefaultDeltas())
	require.NoError(t, err)

	want := []Scenario{
		{Kind: KindSkip, Delta: 0, Percentage: 50, Change: 0, Tier: TierCritical},
		{Kind: KindSkip, Delta: 1, Percentage: 20.0 / 41 * 100, Change: 20.0/41*100 - 50, Tier: TierCritical},
		{Kind: KindSkip, Delta: 3, Percentage: 20.0 / 43 * 100, Change: 20.0/43*100 - 50, Tier: TierCritical},
		{Kind: KindSkip, Delta: 5, Percentage: 20.0 / 45 * 100, Change: 20.0/45*100 - 50, Tier: TierCritical},
		{Kind: KindSkip, Delta: 10, Percentage: 40, Change: -10, Tier: TierCritical},
		{Kind: KindAttend, Delta: 1, Percentage: 21.0 / 41 * 100, Change: 21.0/41*100 - 50, Tier: TierCritical},
		{Kind: KindAttend, Delta: 3, Percentage: 23.0 / 43 * 100, Change: 23.0/43*100 - 50, Tier: TierCritical},
		{Kind: KindAttend, Delta: 5, Percentage: 25.0 / 45 * 100, Change: 25.0/45*100 - 50, Tier: TierCritical},
		{Kind: KindAttend, Delta: 10, Percentage: 60, Change: 10, Tier: TierCritical},
		{Kind: KindAttend, Delta: 40, Percentage: 75, Change: 25, Tier: TierSafe, IsTarget: true},
	}

	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("Scenarios(20, 40) mismatch (-want +got):\n%s", diff)
	}
}

func TestScenarios_SafeUsesFallback(t *testing.T) {
	got, err := Scenarios(40, 40, 0.75, DefaultDeltas())
	require.NoError(t, err)
	require.Len(t, got, 10)

	last := got[len(got)-1]
	assert.Equal(t, KindAttend, last.Kind)
	assert.Equal(t, 15, last.Delta)
	assert.InDelta(t, 100, last.Percentage, 1e-9)
	assert.Equal(t, TierExcellent, last.Tier)

	for _, s := range got {
		assert.False(t, s.IsTarget, "no scenario is the target when already safe")
	}

	skip10 := got[4]
	assert.Equal(t, KindSkip, skip10.Kind)
	assert.Equal(t, 10, skip10.Delta)
	assert.InDelta(t, 80, skip10.Percentage, 1e-9)
	assert.Equal(t, TierSafe, skip10.Tier)
}

func TestScenarios_SmallNeedFallsBackTo15(t *testing.T) {
	// Need is 4, below the largest attend delta, so the trailing entry is 15.
	got, err := Scenarios(29, 40, 0.75, DefaultDeltas())
	require.NoError(t, err)

	deltas := attendDeltas(got)
	assert.Equal(t, []int{1, 3, 5, 10, 15}, deltas)
	for _, s := range got {
		assert.False(t, s.IsTarget)
	}
}

func TestScenarios_CustomDeltas(t *testing.T) {
	tests := []struct {
		name    string
		present int
		total   int
		target  float64
		deltas  Deltas
		want    []int
		target4 bool
	}{
		{
			name:    "need appended when larger than every delta",
			present: 20, total: 40, target: 0.75,
			deltas:  Deltas{Attend: []int{1, 3}},
			want:    []int{1, 3, 40},
		},
		{
			name:    "no fallback when disabled",
			present: 30, total: 40, target: 0.75,
			deltas:  Deltas{Attend: []int{1, 3}},
			want:    []int{1, 3},
		},
		{
			name:    "fallback not duplicated",
			present: 30, total: 40, target: 0.75,
			deltas:  Deltas{Attend: []int{1, 15}, TargetFallback: 15},
			want:    []int{1, 15},
		},
		{
			name:    "need already in the list is marked",
			present: 29, total: 40, target: 0.75,
			deltas:  Deltas{Attend: []int{2, 4, 6}},
			want:    []int{2, 4, 6},
			target4: true,
		},
		{
			name:    "empty attend column takes need",
			present: 0, total: 1, target: 0.75,
			deltas:  Deltas{TargetFallback: 15},
			want:    []int{3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Scenarios(tt.present, tt.total, tt.target, tt.deltas)
			require.NoError(t, err)
			assert.Equal(t, tt.want, attendDeltas(got))

			for _, s := range got {
				if s.Kind == KindAttend && s.Delta == 4 {
					assert.Equal(t, tt.target4, s.IsTarget)
				}
			}
		})
	}
}

func TestScenarios_Unreachable(t *testing.T) {
	got, err := Scenarios(9, 10, 1, DefaultDeltas())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5, 10, 15}, attendDeltas(got))
	for _, s := range got {
		assert.False(t, s.IsTarget)
	}
}

func TestScenarios_NoData(t *testing.T) {
	got, err := Scenarios(0, 0, 0.75, DefaultDeltas())
	require.NoError(t, err)
	require.NotEmpty(t, got)

	assert.Equal(t, 0.0, got[0].Percentage, "skipping none of nothing is 0%")
	assert.InDelta(t, 0, got[1].Percentage, 1e-9, "missing the first class is 0%")
	assert.InDelta(t, 100, got[5].Percentage, 1e-9, "attending the first class is 100%")
}

func TestScenarios_Errors(t *testing.T) {
	_, err := Scenarios(10, 10, 0.75, Deltas{Skip: []int{1, -2}})
	assert.True(t, errors.Is(err, errors.ErrNegativeInput))

	_, err = Scenarios(10, 10, 0, DefaultDeltas())
	assert.True(t, errors.Is(err, errors.ErrInvalidTarget))

	_, err = Scenarios(-1, 10, 0.75, DefaultDeltas())
	assert.True(t, errors.Is(err, errors.ErrNegativeInput))
}

func TestScenarios_DoesNotMutateDeltas(t *testing.T) {
	deltas := Deltas{Attend: []int{1, 3}, TargetFallback: 15}
	_, err := Scenarios(20, 40, 0.75, deltas)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, deltas.Attend)
}

func attendDeltas(scenarios []Scenario) []int {
	var out []int
	for _, s := range scenarios {
		if s.Kind == KindAttend {
			out = append(out, s.Delta)
		}
	}
	return out
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		percentage float64
		target     float64
		want       Tier
	}{
		{90, 0.75, TierExcellent},
		{85, 0.75, TierExcellent},
		{80, 0.75, TierSafe},
		{75, 0.75, TierSafe},
		{74.9, 0.75, TierWarning},
		{70, 0.75, TierWarning},
		{69.9, 0.75, TierCritical},
		{88, 0.9, TierExcellent},
		{72, 0.6, TierSafe},
		{0, 0.75, TierCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.percentage, tt.target), "TierFor(%v, %v)", tt.percentage, tt.target)
	}
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		percentage float64
		want       Band
	}{
		{95, BandExcellent},
		{90, BandExcellent},
		{85, BandSafe},
		{80, BandSafe},
		{79.9, BandBorderline},
		{75, BandBorderline},
		{74.99, BandAtRisk},
		{0, BandAtRisk},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BandFor(tt.percentage), "BandFor(%v)", tt.percentage)
	}
	assert.Equal(t, "At Risk", BandAtRisk.String())
	assert.Equal(t, "Borderline", BandBorderline.String())
}

func TestMessage(t *testing.T) {
	tests := []struct {
		res  Result
		want string
	}{
		{Result{Status: StatusNoData}, "No classes conducted yet"},
		{Result{Status: StatusSafe, CanMiss: 13}, "You can miss 13 more classes"},
		{Result{Status: StatusSafe, CanMiss: 1}, "You can miss 1 more class"},
		{Result{Status: StatusSafe}, "You can miss 0 more classes"},
		{Result{Status: StatusAtRisk, NeedAttend: 40}, "Need to attend next 40 classes"},
		{Result{Status: StatusAtRisk, NeedAttend: 1}, "Need to attend next 1 class"},
		{Result{Status: StatusAtRisk, Unreachable: true}, "Target unreachable by attendance alone"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Message(tt.res))
	}
}

func TestDeltas_Validate(t *testing.T) {
	assert.NoError(t, DefaultDeltas().Validate())
	assert.NoError(t, Deltas{}.Validate())

	err := Deltas{Attend: []int{1, -1}}.Validate()
	var projErr *errors.ProjectionError
	require.True(t, errors.As(err, &projErr))
	assert.Equal(t, "attend[1]", projErr.Field)
}
