package core

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[MetricKind]MetricDefinition)
	registryMu sync.RWMutex
)

// MetricDefinition describes how one metric is read and classified.
type MetricDefinition struct {
	Kind  MetricKind // Unique identifier: "body_fat"
	Label string     // Display name: "Body fat"
	Field string     // Decoded field the value is read from
	Unit  string     // Native unit, "" if dimensionless
	Order int        // Position in reports

	// SexIndependent metrics use the SexGeneric partition for everyone.
	SexIndependent bool

	// Partitions by sex category. SexGeneric must always be present.
	Partitions map[SexCategory]Partition
}

// PartitionFor returns the partition that applies to sex.
func (d MetricDefinition) PartitionFor(sex SexCategory) Partition {
	if d.SexIndependent {
		return d.Partitions[SexGeneric]
	}
	if p, ok := d.Partitions[sex]; ok {
		return p
	}
	return d.Partitions[SexGeneric]
}

func (d MetricDefinition) validate() error {
	if d.Kind == "" {
		return fmt.Errorf("metric definition has no kind")
	}
	if d.Field == "" {
		return fmt.Errorf("metric %s has no field", d.Kind)
	}
	if len(d.Partitions[SexGeneric]) == 0 {
		return fmt.Errorf("metric %s: %w: missing generic partition", d.Kind, ErrInvalidPartition)
	}
	for sex, p := range d.Partitions {
		if _, err := NewPartition(p.Edges(), p.Labels()); err != nil {
			return fmt.Errorf("metric %s (%s): %w", d.Kind, sex, err)
		}
		for i := 1; i < len(p); i++ {
			if p[i].Lower != p[i-1].Upper {
				return fmt.Errorf("metric %s (%s): %w: gap between %g and %g",
					d.Kind, sex, ErrInvalidPartition, p[i-1].Upper, p[i].Lower)
			}
		}
	}
	return nil
}

// Register adds a metric definition to the registry.
// Panics if the definition is invalid or the kind is already registered.
func Register(def MetricDefinition) {
	if err := def.validate(); err != nil {
		panic(err.Error())
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Kind]; exists {
		panic(fmt.Sprintf("metric already registered: %s", def.Kind))
	}

	registry[def.Kind] = def
}

// Get returns a metric definition by kind.
// Returns false if not found.
func Get(kind MetricKind) (MetricDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[kind]
	return def, ok
}

// All returns all registered metric definitions.
// Sorted by Order then by kind for consistent ordering.
func All() []MetricDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]MetricDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Order != result[j].Order {
			return result[i].Order < result[j].Order
		}
		return result[i].Kind < result[j].Kind
	})

	return result
}

// MetricCount returns the number of registered metrics.
func MetricCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// SetGenericEdges replaces the edges of a metric's generic partition,
// keeping its labels. Sex-independent metrics cannot be overridden.
func SetGenericEdges(kind MetricKind, edges []float64) error {
	registryMu.Lock()
	defer registryMu.Unlock()

	def, ok := registry[kind]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMetric, kind)
	}
	if def.SexIndependent {
		return fmt.Errorf("%w: %s has a single sex-independent partition", ErrInvalidPartition, kind)
	}

	p, err := NewPartition(edges, def.Partitions[SexGeneric].Labels())
	if err != nil {
		return fmt.Errorf("metric %s: %w", kind, err)
	}

	partitions := make(map[SexCategory]Partition, len(def.Partitions))
	for sex, existing := range def.Partitions {
		partitions[sex] = existing
	}
	partitions[SexGeneric] = p
	def.Partitions = partitions
	registry[kind] = def

	return nil
}

// Clear removes all registered metrics.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[MetricKind]MetricDefinition)
}
