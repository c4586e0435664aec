package core

import (
	"encoding/json"
	"fmt"
	"path/filepath"
)

// Measurement is one decoded reading from a measurement file.
// It is built once during ingestion and not modified afterwards.
type Measurement struct {
	Source  SourceRef         `json:"source"`
	Fields  map[string]string `json:"fields"`
	Unknown UnknownFields     `json:"unknown,omitempty"`
	Raw     RawRow            `json:"raw"`
}

// NewMeasurement decodes row and records where it came from.
// file may be a full path; only its base name is kept.
func NewMeasurement(file string, row int, raw RawRow) Measurement {
	decoded := DecodeRow(raw)
	return Measurement{
		Source:  SourceRef{File: filepath.Base(file), Row: row},
		Fields:  decoded.Fields,
		Unknown: decoded.Unknown,
		Raw:     append(RawRow(nil), raw...),
	}
}

// Value returns the raw value of a mapped field.
func (m Measurement) Value(field string) (string, bool) {
	v, ok := m.Fields[field]
	return v, ok
}

// Number returns a mapped field normalized with ToNumber.
// A missing field is absent.
func (m Measurement) Number(field string) Number {
	v, ok := m.Fields[field]
	if !ok {
		return Number{}
	}
	return ToNumber(v)
}

// FieldMap flattens mapped and unknown fields into one mapping, the shape
// reports expose as fieldMap. Unknown codes appear under UnknownKey(code).
func (m Measurement) FieldMap() map[string]string {
	out := make(map[string]string, len(m.Fields)+len(m.Unknown))
	for k, v := range m.Fields {
		out[k] = v
	}
	for code, v := range m.Unknown {
		out[UnknownKey(code)] = v
	}
	return out
}

// Segments holds one value per body segment.
type Segments struct {
	Torso    Number `json:"torso"`
	RightArm Number `json:"rightArm"`
	LeftArm  Number `json:"leftArm"`
	RightLeg Number `json:"rightLeg"`
	LeftLeg  Number `json:"leftLeg"`
}

// Any reports whether at least one segment has a non-zero value.
func (s Segments) Any() bool {
	for _, n := range []Number{s.Torso, s.RightArm, s.LeftArm, s.RightLeg, s.LeftLeg} {
		if n.Valid && n.Value != 0 {
			return true
		}
	}
	return false
}

// Readings is the numeric view of a Measurement's physiological fields.
// HasSegments is false when the scale reported no segment values, so the
// radar chart can be left out.
type Readings struct {
	Age           Number   `json:"age"`
	Height        Number   `json:"height"`
	BodyMass      Number   `json:"bodyMass"`
	BMI           Number   `json:"bmi"`
	BodyFat       Number   `json:"bodyFat"`
	Muscle        Number   `json:"muscle"`
	BodyWater     Number   `json:"bodyWater"`
	BoneMass      Number   `json:"boneMass"`
	VisceralFat   Number   `json:"visceralFat"`
	MetabolicAge  Number   `json:"metabolicAge"`
	DailyCalories Number   `json:"dailyCalories"`
	FatSegments   Segments `json:"fatSegments"`
	MuscleSegment Segments `json:"muscleSegments"`
	HasSegments   bool     `json:"hasSegments"`
}

// Readings normalizes every known physiological field of m.
func (m Measurement) Readings() Readings {
	r := Readings{
		Age:           m.Number(FieldAge),
		Height:        m.Number(FieldHeight),
		BodyMass:      m.Number(FieldBodyMass),
		BMI:           m.Number(FieldBMI),
		BodyFat:       m.Number(FieldBodyFat),
		Muscle:        m.Number(FieldMuscle),
		BodyWater:     m.Number(FieldBodyWater),
		BoneMass:      m.Number(FieldBoneMass),
		VisceralFat:   m.Number(FieldVisceralFat),
		MetabolicAge:  m.Number(FieldMetabolicAge),
		DailyCalories: m.Number(FieldDailyCalories),
		FatSegments: Segments{
			Torso:    m.Number(FieldFatTorso),
			RightArm: m.Number(FieldFatRightArm),
			LeftArm:  m.Number(FieldFatLeftArm),
			RightLeg: m.Number(FieldFatRightLeg),
			LeftLeg:  m.Number(FieldFatLeftLeg),
		},
		MuscleSegment: Segments{
			Torso:    m.Number(FieldMuscleTorso),
			RightArm: m.Number(FieldMuscleRightArm),
			LeftArm:  m.Number(FieldMuscleLeftArm),
			RightLeg: m.Number(FieldMuscleRightLeg),
			LeftLeg:  m.Number(FieldMuscleLeftLeg),
		},
	}
	r.HasSegments = r.FatSegments.Any() || r.MuscleSegment.Any()
	return r
}

// Profile is a row from a profile file. Its tokens are kept as-is.
type Profile struct {
	Source SourceRef `json:"source"`
	Data   RawRow    `json:"data"`
}

// NewProfile keeps raw without decoding it.
func NewProfile(file string, row int, raw RawRow) Profile {
	return Profile{
		Source: SourceRef{File: filepath.Base(file), Row: row},
		Data:   append(RawRow(nil), raw...),
	}
}

// Key returns the profile's identity within a run: "<file>_row_<n>",
// where n is the zero-based record index.
func (p Profile) Key() string {
	return fmt.Sprintf("%s_row_%d", p.Source.File, p.Source.Row-1)
}

// MarshalJSON adds the profile key next to its source and tokens.
func (p Profile) MarshalJSON() ([]byte, error) {
	type plain Profile
	return json.Marshal(struct {
		Key string `json:"key"`
		plain
	}{Key: p.Key(), plain: plain(p)})
}
