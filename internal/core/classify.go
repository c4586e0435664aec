package core

// classify.go maps normalized values onto named severity buckets.
//
// Every metric has one partition per sex category (or a single partition
// for sex-independent metrics). A partition is a contiguous run of
// closed-open intervals [lower, upper). Values outside the partition clamp
// to the nearest edge bucket, so classification never fails for a valid
// number.

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownMetric is returned for a metric that is not registered.
	ErrUnknownMetric = errors.New("unknown metric")

	// ErrInvalidPartition is returned when partition edges or labels are malformed.
	ErrInvalidPartition = errors.New("invalid partition")
)

// MetricKind identifies a classifiable metric.
type MetricKind string

const (
	MetricBodyFat     MetricKind = "body_fat"
	MetricBMI         MetricKind = "bmi"
	MetricMuscle      MetricKind = "muscle"
	MetricBodyWater   MetricKind = "body_water"
	MetricVisceralFat MetricKind = "visceral_fat"
)

// SexCategory selects which partition applies to a person.
type SexCategory string

const (
	SexMale    SexCategory = "male"
	SexFemale  SexCategory = "female"
	SexGeneric SexCategory = "generic"
)

// ResolveSex maps a recorded sex value to a category.
// Unrecognized values fall back to SexGeneric so classification always
// has a partition to use.
func ResolveSex(raw string) SexCategory {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "hombre", "m", "male":
		return SexMale
	case "2", "mujer", "f", "female":
		return SexFemale
	default:
		return SexGeneric
	}
}

// SexDisplayLabel translates the device's sex code for display.
// This is independent of ResolveSex: other values pass through unchanged.
func SexDisplayLabel(raw string) string {
	switch strings.TrimSpace(raw) {
	case "1":
		return "Hombre"
	case "2":
		return "Mujer"
	default:
		return raw
	}
}

// Bucket is one named interval [Lower, Upper) of a partition.
type Bucket struct {
	Label string  `json:"label"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Partition is an ordered, contiguous list of buckets.
type Partition []Bucket

// NewPartition builds a partition from n+1 strictly ascending edges and n labels.
func NewPartition(edges []float64, labels []string) (Partition, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: no buckets", ErrInvalidPartition)
	}
	if len(edges) != len(labels)+1 {
		return nil, fmt.Errorf("%w: %d edges for %d buckets, want %d",
			ErrInvalidPartition, len(edges), len(labels), len(labels)+1)
	}

	p := make(Partition, len(labels))
	for i, label := range labels {
		if label == "" {
			return nil, fmt.Errorf("%w: bucket %d has no label", ErrInvalidPartition, i)
		}
		if edges[i] >= edges[i+1] {
			return nil, fmt.Errorf("%w: edges must be strictly ascending (%g >= %g)",
				ErrInvalidPartition, edges[i], edges[i+1])
		}
		p[i] = Bucket{Label: label, Lower: edges[i], Upper: edges[i+1]}
	}
	return p, nil
}

// Locate returns the index of the bucket containing v, clamped to the
// first or last bucket for values outside the partition.
func (p Partition) Locate(v float64) int {
	for i, b := range p {
		if v < b.Upper {
			return i
		}
	}
	return len(p) - 1
}

// Edges returns the partition's boundaries, lowest first.
func (p Partition) Edges() []float64 {
	if len(p) == 0 {
		return nil
	}
	edges := make([]float64, 0, len(p)+1)
	edges = append(edges, p[0].Lower)
	for _, b := range p {
		edges = append(edges, b.Upper)
	}
	return edges
}

// Labels returns the bucket labels in order.
func (p Partition) Labels() []string {
	labels := make([]string, len(p))
	for i, b := range p {
		labels[i] = b.Label
	}
	return labels
}

// ClassificationResult is the bucket a measurement's metric falls into.
type ClassificationResult struct {
	Metric MetricKind `json:"metric"`
	Field  string     `json:"field"`
	Value  float64    `json:"value"`
	Label  string     `json:"label"`
	Index  int        `json:"index"`
}

// Classify places value in the partition for metric and sex.
// ok is false only if metric is not registered.
func Classify(value float64, metric MetricKind, sex SexCategory) (bucket Bucket, index int, ok bool) {
	def, found := Get(metric)
	if !found {
		return Bucket{}, 0, false
	}
	p := def.PartitionFor(sex)
	if len(p) == 0 {
		return Bucket{}, 0, false
	}
	index = p.Locate(value)
	return p[index], index, true
}

// ClassifyMeasurement classifies every registered metric present in m.
// Metrics whose value is missing or does not normalize are omitted.
func ClassifyMeasurement(m Measurement, sex SexCategory) []ClassificationResult {
	var results []ClassificationResult
	for _, def := range All() {
		n := m.Number(def.Field)
		if !n.Valid {
			continue
		}
		bucket, idx, ok := Classify(n.Value, def.Kind, sex)
		if !ok {
			continue
		}
		results = append(results, ClassificationResult{
			Metric: def.Kind,
			Field:  def.Field,
			Value:  n.Value,
			Label:  bucket.Label,
			Index:  idx,
		})
	}
	return results
}
