package metrics

import (
	"errors"
	"testing"

	"github.com/JonMunkholm/BodyComp/internal/core"
	"github.com/google/go-cmp/cmp"
)

// reset restores the built-in definitions after a test overrides them.
func reset(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		core.Clear()
		registerBodyFat()
		registerBMI()
		registerMuscle()
		registerBodyWater()
		registerVisceralFat()
	})
}

func TestApplyGenericEdges(t *testing.T) {
	reset(t)

	if err := ApplyGenericEdges([]float64{0, 12, 22, 32, 50}, nil, nil); err != nil {
		t.Fatalf("ApplyGenericEdges: %v", err)
	}

	fat, _ := core.Get(core.MetricBodyFat)
	if diff := cmp.Diff([]float64{0, 12, 22, 32, 50}, fat.Partitions[core.SexGeneric].Edges()); diff != "" {
		t.Errorf("generic fat edges mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(fatLabels, fat.Partitions[core.SexGeneric].Labels()); diff != "" {
		t.Errorf("labels changed (-want +got):\n%s", diff)
	}

	// Sex-specific partitions are untouched.
	if got := fat.Partitions[core.SexMale].Edges()[1]; got != 8 {
		t.Errorf("male fat edge = %v, want 8", got)
	}

	bucket, _, _ := core.Classify(11, core.MetricBodyFat, core.SexGeneric)
	if bucket.Label != "Low" {
		t.Errorf("Classify(11, generic) = %q, want Low", bucket.Label)
	}

	// Muscle was not overridden.
	muscle, _ := core.Get(core.MetricMuscle)
	if got := muscle.Partitions[core.SexGeneric].Edges()[1]; got != 30 {
		t.Errorf("generic muscle edge = %v, want 30", got)
	}
}

func TestApplyGenericEdgesWrongCount(t *testing.T) {
	reset(t)

	err := ApplyGenericEdges(nil, nil, []float64{0, 50, 80})
	if !errors.Is(err, core.ErrInvalidPartition) {
		t.Fatalf("ApplyGenericEdges = %v, want ErrInvalidPartition", err)
	}
	if got := core.MapError(err).Code; got != "MET002" {
		t.Errorf("code = %q, want MET002", got)
	}

	water, _ := core.Get(core.MetricBodyWater)
	if diff := cmp.Diff([]float64{0, 45, 60, 80}, water.Partitions[core.SexGeneric].Edges()); diff != "" {
		t.Errorf("rejected edges were applied (-want +got):\n%s", diff)
	}
}

func TestPartitionsContiguous(t *testing.T) {
	for _, def := range core.All() {
		for sex, p := range def.Partitions {
			edges := p.Edges()
			for i := 1; i < len(edges); i++ {
				if edges[i] <= edges[i-1] {
					t.Errorf("%s/%s: edges not ascending: %v", def.Kind, sex, edges)
				}
			}
		}
	}
}
