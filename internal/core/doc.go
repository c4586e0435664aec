// Package core provides the ingestion and analysis logic for body-composition
// exports written by Tanita scales.
//
// This package has no UI or transport dependencies. It is used by the HTTP
// server, the report CLI and tests without modification.
//
// # Architecture
//
// A run moves through a fixed pipeline:
//
//  1. [SanitizingReader] strips the BOM and invalid UTF-8 from each file
//  2. encoding/csv splits records; [DecodeRow] turns code/value tokens
//     into named fields using the device [CodeTable]
//  3. [NewMeasurement] and [NewProfile] build records tagged with their
//     source file and line
//  4. [SortChronologically] orders measurements by date and time
//  5. [ClassifyMeasurement] places each reading into a named bucket
//  6. [CompareLatest] diffs the two most recent measurements
//
// [Service.Analyze] runs all of it and returns a [Report].
//
// # Metric Registry
//
// Classifiable metrics are registered at init time using [Register]. Each
// [MetricDefinition] carries the field it reads and one [Partition] per
// [SexCategory]:
//
//	core.Register(core.MetricDefinition{
//	    Kind:  core.MetricBodyFat,
//	    Field: core.FieldBodyFat,
//	    Partitions: map[core.SexCategory]core.Partition{
//	        core.SexGeneric: generic,
//	    },
//	})
//
// Import internal/core/metrics to register the built-in metrics.
//
// # Error Handling
//
// A file that cannot be read is reported in [Report.FileErrors] and does not
// stop the run. Technical errors are mapped to user-friendly messages using
// [MapError]:
//
//   - FILE001-FILE009: File errors (size, format, missing, unreadable)
//   - DIR001: Export directory missing
//   - MET001-MET002: Unknown metric, malformed ranges
//   - VAL002: Invalid number
package core
