// Package metrics registers the classifiable metrics with the core registry.
// Import this package to ensure all metrics are registered.
package metrics

import "github.com/JonMunkholm/BodyComp/internal/core"

func init() {
	registerBodyFat()
	registerBMI()
	registerMuscle()
	registerBodyWater()
	registerVisceralFat()
}

// mustPartition builds a partition from literal edges. The tables below
// are fixed, so a failure is a programming error.
func mustPartition(edges []float64, labels []string) core.Partition {
	p, err := core.NewPartition(edges, labels)
	if err != nil {
		panic(err)
	}
	return p
}

var (
	fatLabels      = []string{"Low", "Optimal", "High", "Very High"}
	bmiLabels      = []string{"Underweight", "Normal", "Overweight", "Obese"}
	muscleLabels   = []string{"Very Low", "Low", "Optimal", "High"}
	waterLabels    = []string{"Low", "Normal", "High"}
	visceralLabels = []string{"Optimal", "High", "Very High"}
)

func registerBodyFat() {
	core.Register(core.MetricDefinition{
		Kind:  core.MetricBodyFat,
		Label: "Body fat",
		Field: core.FieldBodyFat,
		Unit:  "%",
		Order: 1,
		Partitions: map[core.SexCategory]core.Partition{
			core.SexMale:    mustPartition([]float64{0, 8, 20, 25, 45}, fatLabels),
			core.SexFemale:  mustPartition([]float64{0, 21, 33, 39, 55}, fatLabels),
			core.SexGeneric: mustPartition([]float64{0, 10, 20, 30, 50}, fatLabels),
		},
	})
}

func registerBMI() {
	core.Register(core.MetricDefinition{
		Kind:           core.MetricBMI,
		Label:          "Body mass index",
		Field:          core.FieldBMI,
		Unit:           "kg/m²",
		Order:          2,
		SexIndependent: true,
		Partitions: map[core.SexCategory]core.Partition{
			core.SexGeneric: mustPartition([]float64{0, 18.5, 25, 30, 40}, bmiLabels),
		},
	})
}

func registerMuscle() {
	core.Register(core.MetricDefinition{
		Kind:  core.MetricMuscle,
		Label: "Muscle mass",
		Field: core.FieldMuscle,
		Unit:  "%",
		Order: 3,
		Partitions: map[core.SexCategory]core.Partition{
			core.SexMale:    mustPartition([]float64{0, 42, 49, 56, 70}, muscleLabels),
			core.SexFemale:  mustPartition([]float64{0, 30, 36, 42, 60}, muscleLabels),
			core.SexGeneric: mustPartition([]float64{0, 30, 40, 50, 70}, muscleLabels),
		},
	})
}

func registerBodyWater() {
	core.Register(core.MetricDefinition{
		Kind:  core.MetricBodyWater,
		Label: "Body water",
		Field: core.FieldBodyWater,
		Unit:  "%",
		Order: 4,
		Partitions: map[core.SexCategory]core.Partition{
			core.SexMale:    mustPartition([]float64{0, 50, 65, 80}, waterLabels),
			core.SexFemale:  mustPartition([]float64{0, 45, 60, 80}, waterLabels),
			core.SexGeneric: mustPartition([]float64{0, 45, 60, 80}, waterLabels),
		},
	})
}

func registerVisceralFat() {
	core.Register(core.MetricDefinition{
		Kind:           core.MetricVisceralFat,
		Label:          "Visceral fat",
		Field:          core.FieldVisceralFat,
		Order:          5,
		SexIndependent: true,
		Partitions: map[core.SexCategory]core.Partition{
			core.SexGeneric: mustPartition([]float64{1, 10, 15, 30}, visceralLabels),
		},
	})
}

// ApplyGenericEdges overrides the generic partitions of the sex-dependent
// metrics. A nil or empty slice leaves that metric unchanged.
func ApplyGenericEdges(bodyFat, muscle, water []float64) error {
	overrides := []struct {
		kind  core.MetricKind
		edges []float64
	}{
		{core.MetricBodyFat, bodyFat},
		{core.MetricMuscle, muscle},
		{core.MetricBodyWater, water},
	}

	for _, o := range overrides {
		if len(o.edges) == 0 {
			continue
		}
		if err := core.SetGenericEdges(o.kind, o.edges); err != nil {
			return err
		}
	}
	return nil
}
