package core_test

import (
	"errors"
	"testing"

	"github.com/JonMunkholm/BodyComp/internal/core"
	_ "github.com/JonMunkholm/BodyComp/internal/core/metrics"
	"github.com/google/go-cmp/cmp"
)

func TestAllOrdered(t *testing.T) {
	var kinds []core.MetricKind
	for _, def := range core.All() {
		kinds = append(kinds, def.Kind)
	}

	want := []core.MetricKind{
		core.MetricBodyFat,
		core.MetricBMI,
		core.MetricMuscle,
		core.MetricBodyWater,
		core.MetricVisceralFat,
	}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("All() order mismatch (-want +got):\n%s", diff)
	}
	if core.MetricCount() != len(want) {
		t.Errorf("MetricCount() = %d, want %d", core.MetricCount(), len(want))
	}
}

func TestRegisteredDefinitionsComplete(t *testing.T) {
	for _, def := range core.All() {
		if def.Label == "" || def.Field == "" {
			t.Errorf("%s: missing label or field", def.Kind)
		}
		if _, ok := core.LookupCode(codeFor(def.Field)); !ok {
			t.Errorf("%s: field %q is not produced by the decoder", def.Kind, def.Field)
		}
		if len(def.Partitions[core.SexGeneric]) == 0 {
			t.Errorf("%s: no generic partition", def.Kind)
		}
		if !def.SexIndependent {
			for _, sex := range []core.SexCategory{core.SexMale, core.SexFemale} {
				if len(def.Partitions[sex]) == 0 {
					t.Errorf("%s: no %s partition", def.Kind, sex)
				}
			}
		}
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	def, ok := core.Get(core.MetricBodyFat)
	if !ok {
		t.Fatal("body_fat not registered")
	}

	defer func() {
		if recover() == nil {
			t.Error("registering body_fat twice should panic")
		}
	}()
	core.Register(def)
}

func TestRegisterInvalidPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("registering a definition without partitions should panic")
		}
	}()
	core.Register(core.MetricDefinition{Kind: "broken", Field: core.FieldAge})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		metric core.MetricKind
		sex    core.SexCategory
		want   string
	}{
		{"male fat lower edge", 8.0, core.MetricBodyFat, core.SexMale, "Optimal"},
		{"male fat just below", 7.999, core.MetricBodyFat, core.SexMale, "Low"},
		{"male fat above range", 60, core.MetricBodyFat, core.SexMale, "Very High"},
		{"female fat", 33.5, core.MetricBodyFat, core.SexFemale, "High"},
		{"generic fat", 25, core.MetricBodyFat, core.SexGeneric, "High"},
		{"bmi ignores sex", 24.9, core.MetricBMI, core.SexFemale, "Normal"},
		{"bmi obese", 30, core.MetricBMI, core.SexMale, "Obese"},
		{"visceral below range clamps", 0.5, core.MetricVisceralFat, core.SexMale, "Optimal"},
		{"water", 62, core.MetricBodyWater, core.SexMale, "Normal"},
		{"muscle", 50, core.MetricMuscle, core.SexMale, "Optimal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, _, ok := core.Classify(tt.value, tt.metric, tt.sex)
			if !ok {
				t.Fatalf("Classify(%v, %s) not ok", tt.value, tt.metric)
			}
			if bucket.Label != tt.want {
				t.Errorf("Classify(%v, %s, %s) = %q, want %q", tt.value, tt.metric, tt.sex, bucket.Label, tt.want)
			}
		})
	}

	if _, _, ok := core.Classify(1, "height", core.SexMale); ok {
		t.Error("Classify with an unknown metric should not be ok")
	}
}

func TestClassifyMeasurementSkipsMissing(t *testing.T) {
	m := core.NewMeasurement("DATA1.CSV", 1, core.RawRow{"FW", "18", "MI", "n/a", "IF", "12"})

	results := core.ClassifyMeasurement(m, core.SexMale)

	var got []string
	for _, r := range results {
		got = append(got, string(r.Metric)+"="+r.Label)
	}
	if diff := cmp.Diff([]string{"body_fat=Optimal", "visceral_fat=High"}, got); diff != "" {
		t.Errorf("classifications mismatch (-want +got):\n%s", diff)
	}
}

func TestSetGenericEdgesRejectsSexIndependent(t *testing.T) {
	err := core.SetGenericEdges(core.MetricBMI, []float64{0, 18, 25, 30, 40})
	if !errors.Is(err, core.ErrInvalidPartition) {
		t.Errorf("SetGenericEdges(bmi) = %v, want ErrInvalidPartition", err)
	}

	err = core.SetGenericEdges("height", []float64{0, 1})
	if !errors.Is(err, core.ErrUnknownMetric) {
		t.Errorf("SetGenericEdges(height) = %v, want ErrUnknownMetric", err)
	}
}

// codeFor returns the device code that decodes to field, or "".
func codeFor(field string) string {
	for _, e := range core.CodeTable() {
		if e.Field == field {
			return e.Code
		}
	}
	return ""
}
