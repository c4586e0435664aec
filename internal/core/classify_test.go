package core

import (
	"errors"
	"testing"
)

func TestResolveSex(t *testing.T) {
	tests := []struct {
		raw  string
		want SexCategory
	}{
		{"1", SexMale},
		{"hombre", SexMale},
		{"Hombre", SexMale},
		{"M", SexMale},
		{"male", SexMale},
		{"2", SexFemale},
		{"Mujer", SexFemale},
		{"f", SexFemale},
		{" female ", SexFemale},
		{"", SexGeneric},
		{"3", SexGeneric},
		{"otro", SexGeneric},
	}

	for _, tt := range tests {
		if got := ResolveSex(tt.raw); got != tt.want {
			t.Errorf("ResolveSex(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestSexDisplayLabel(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"1", "Hombre"},
		{"2", "Mujer"},
		{" 1 ", "Hombre"},
		{"M", "M"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SexDisplayLabel(tt.raw); got != tt.want {
			t.Errorf("SexDisplayLabel(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNewPartition(t *testing.T) {
	tests := []struct {
		name    string
		edges   []float64
		labels  []string
		wantErr bool
	}{
		{name: "valid", edges: []float64{0, 8, 20}, labels: []string{"Low", "Optimal"}},
		{name: "no labels", edges: []float64{0}, labels: nil, wantErr: true},
		{name: "too few edges", edges: []float64{0, 8}, labels: []string{"Low", "Optimal"}, wantErr: true},
		{name: "too many edges", edges: []float64{0, 8, 20, 30}, labels: []string{"Low", "Optimal"}, wantErr: true},
		{name: "equal edges", edges: []float64{0, 8, 8}, labels: []string{"Low", "Optimal"}, wantErr: true},
		{name: "descending", edges: []float64{20, 8, 0}, labels: []string{"Low", "Optimal"}, wantErr: true},
		{name: "empty label", edges: []float64{0, 8, 20}, labels: []string{"Low", ""}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPartition(tt.edges, tt.labels)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPartition) {
					t.Errorf("error = %v, want ErrInvalidPartition", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(p) != len(tt.labels) {
				t.Errorf("len = %d, want %d", len(p), len(tt.labels))
			}
		})
	}
}

func TestPartitionLocate(t *testing.T) {
	p, err := NewPartition([]float64{0, 8, 20, 25, 45}, []string{"Low", "Optimal", "High", "Very High"})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		value float64
		want  string
	}{
		{-5, "Low"},
		{0, "Low"},
		{7.999, "Low"},
		{8.0, "Optimal"},
		{19.99, "Optimal"},
		{20, "High"},
		{25, "Very High"},
		{44.9, "Very High"},
		{45, "Very High"},
		{80, "Very High"},
	}

	for _, tt := range tests {
		if got := p[p.Locate(tt.value)].Label; got != tt.want {
			t.Errorf("Locate(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestPartitionEdgesRoundTrip(t *testing.T) {
	edges := []float64{0, 45, 60, 80}
	labels := []string{"Low", "Normal", "High"}

	p, err := NewPartition(edges, labels)
	if err != nil {
		t.Fatal(err)
	}
	again, err := NewPartition(p.Edges(), p.Labels())
	if err != nil {
		t.Fatalf("rebuilding from Edges/Labels: %v", err)
	}
	for i := range p {
		if p[i] != again[i] {
			t.Errorf("bucket %d = %+v, want %+v", i, again[i], p[i])
		}
	}
}

func TestMetricDefinitionPartitionFor(t *testing.T) {
	male, _ := NewPartition([]float64{0, 8, 20}, []string{"Low", "Optimal"})
	generic, _ := NewPartition([]float64{0, 10, 20}, []string{"Low", "Optimal"})

	def := MetricDefinition{
		Kind:       "test",
		Field:      FieldBodyFat,
		Partitions: map[SexCategory]Partition{SexMale: male, SexGeneric: generic},
	}

	if got := def.PartitionFor(SexMale); got[0].Upper != 8 {
		t.Errorf("male partition upper = %v, want 8", got[0].Upper)
	}
	if got := def.PartitionFor(SexFemale); got[0].Upper != 10 {
		t.Errorf("female falls back to generic; upper = %v, want 10", got[0].Upper)
	}

	def.SexIndependent = true
	if got := def.PartitionFor(SexMale); got[0].Upper != 10 {
		t.Errorf("sex-independent uses generic; upper = %v, want 10", got[0].Upper)
	}
}

func TestMetricDefinitionValidate(t *testing.T) {
	generic, _ := NewPartition([]float64{0, 10, 20}, []string{"Low", "Optimal"})

	tests := []struct {
		name    string
		def     MetricDefinition
		wantErr bool
	}{
		{
			name: "valid",
			def:  MetricDefinition{Kind: "x", Field: "f", Partitions: map[SexCategory]Partition{SexGeneric: generic}},
		},
		{
			name:    "no kind",
			def:     MetricDefinition{Field: "f", Partitions: map[SexCategory]Partition{SexGeneric: generic}},
			wantErr: true,
		},
		{
			name:    "no field",
			def:     MetricDefinition{Kind: "x", Partitions: map[SexCategory]Partition{SexGeneric: generic}},
			wantErr: true,
		},
		{
			name:    "no generic partition",
			def:     MetricDefinition{Kind: "x", Field: "f", Partitions: map[SexCategory]Partition{SexMale: generic}},
			wantErr: true,
		},
		{
			name: "gap between buckets",
			def: MetricDefinition{Kind: "x", Field: "f", Partitions: map[SexCategory]Partition{
				SexGeneric: {{Label: "Low", Lower: 0, Upper: 10}, {Label: "High", Lower: 12, Upper: 20}},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
