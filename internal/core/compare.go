package core

import (
	"fmt"
	"math"
)

// SignificantDelta is the smallest absolute change, in the metric's
// native unit, that counts as significant. The comparison is strict.
const SignificantDelta = 0.1

// deltaPrecision removes float noise such as 25.2-24.0 = 1.1999999999999993.
const deltaPrecision = 1e9

// ComparedField is a field included in session-to-session comparisons.
type ComparedField struct {
	Field string `json:"field"`
	Unit  string `json:"unit"`
}

// ComparedFields is the fixed list of fields compared between the two
// latest measurements, in report order.
var ComparedFields = []ComparedField{
	{Field: FieldBodyMass, Unit: "kg"},
	{Field: FieldBMI, Unit: ""},
	{Field: FieldBodyFat, Unit: "%"},
	{Field: FieldMuscle, Unit: "%"},
	{Field: FieldBodyWater, Unit: "%"},
	{Field: FieldVisceralFat, Unit: ""},
	{Field: FieldMetabolicAge, Unit: "años"},
	{Field: FieldDailyCalories, Unit: "kcal"},
}

// ComparisonResult is the change of one field between two measurements.
type ComparisonResult struct {
	Field       string  `json:"field"`
	Unit        string  `json:"unit"`
	Previous    float64 `json:"previous"`
	Current     float64 `json:"current"`
	Delta       float64 `json:"delta"`
	Formatted   string  `json:"formatted"` // Signed, one decimal, with unit: "+1.2kg"
	Significant bool    `json:"significant"`
}

// FormatDelta renders a delta with an explicit sign and one decimal.
func FormatDelta(delta float64, unit string) string {
	return fmt.Sprintf("%+.1f%s", delta, unit)
}

// Compare computes current minus previous for one field.
// ok is false when either measurement lacks the field or its value does
// not normalize; other fields are unaffected.
func Compare(previous, current Measurement, field ComparedField) (ComparisonResult, bool) {
	prev := previous.Number(field.Field)
	cur := current.Number(field.Field)
	if !prev.Valid || !cur.Valid {
		return ComparisonResult{}, false
	}

	delta := math.Round((cur.Value-prev.Value)*deltaPrecision) / deltaPrecision

	return ComparisonResult{
		Field:       field.Field,
		Unit:        field.Unit,
		Previous:    prev.Value,
		Current:     cur.Value,
		Delta:       delta,
		Formatted:   FormatDelta(delta, field.Unit),
		Significant: math.Abs(delta) > SignificantDelta,
	}, true
}

// CompareLatest compares the last two measurements of a chronologically
// sorted slice over ComparedFields. ok is false with fewer than two
// measurements, in which case the comparison step is skipped.
func CompareLatest(sorted []Measurement) (*ComparisonSection, bool) {
	previous, current, ok := LatestPair(sorted)
	if !ok {
		return nil, false
	}

	section := &ComparisonSection{
		Previous: previous.Source,
		Current:  current.Source,
		Results:  []ComparisonResult{},
	}
	for _, f := range ComparedFields {
		if r, ok := Compare(previous, current, f); ok {
			section.Results = append(section.Results, r)
		}
	}
	return section, true
}
