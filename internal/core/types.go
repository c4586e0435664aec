package core

import (
	"time"

	"github.com/google/uuid"
)

// RawRow is one CSV record from a device export, read as alternating
// code/value tokens (even index = code, odd index = value).
type RawRow []string

// RecordType selects how the rows of an input file are interpreted.
type RecordType string

const (
	RecordMeasurement RecordType = "measurement"
	RecordProfile     RecordType = "profile"
)

// Valid reports whether t is a known record type.
func (t RecordType) Valid() bool {
	return t == RecordMeasurement || t == RecordProfile
}

// SourceRef identifies where a row came from.
type SourceRef struct {
	File string `json:"file"` // Base name of the input file
	Row  int    `json:"row"`  // 1-based line number of the record
}

// Input names one file to ingest.
type Input struct {
	Path string
	Type RecordType
}

// FileError describes a file that could not be processed.
// The rest of the run is unaffected.
type FileError struct {
	File    string `json:"file"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AnalyzedMeasurement pairs a Measurement with the values derived from it.
// Derived values are never written back onto the Measurement.
type AnalyzedMeasurement struct {
	Measurement     Measurement            `json:"measurement"`
	MeasuredAt      *time.Time             `json:"measuredAt,omitempty"` // nil if date/time did not parse
	Sex             SexCategory            `json:"sex"`
	SexLabel        string                 `json:"sexLabel,omitempty"`
	FieldMap        map[string]string      `json:"fieldMap"` // Fields plus Unknown_<code> entries
	Readings        Readings               `json:"readings"`
	Classifications []ClassificationResult `json:"classifications"`
}

// ComparisonSection holds the deltas between the two latest measurements.
type ComparisonSection struct {
	Previous SourceRef          `json:"previous"`
	Current  SourceRef          `json:"current"`
	Results  []ComparisonResult `json:"results"`
}

// Report is everything one analysis run produces. It is the only value
// handed to rendering code.
type Report struct {
	RunID        uuid.UUID             `json:"runId"`
	GeneratedAt  time.Time             `json:"generatedAt"`
	Measurements []AnalyzedMeasurement `json:"measurements"` // Chronological, oldest first
	Profiles     []Profile             `json:"profiles"`
	Comparison   *ComparisonSection    `json:"comparison,omitempty"` // nil with fewer than two measurements
	FileErrors   []FileError           `json:"fileErrors,omitempty"`
}

// HasComparison reports whether the run produced a comparison section.
func (r *Report) HasComparison() bool {
	return r != nil && r.Comparison != nil
}
