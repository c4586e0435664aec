package core

import "strings"

// UnknownPrefix marks unmapped codes in the flattened field mapping.
const UnknownPrefix = "Unknown_"

// UnknownFields holds values whose device code is not in the code table,
// keyed by the original (trimmed) code.
type UnknownFields map[string]string

// UnknownKey returns the flattened-mapping key for an unmapped code.
func UnknownKey(code string) string {
	return UnknownPrefix + code
}

// DecodedRow is the result of decoding one measurement row.
type DecodedRow struct {
	Fields  map[string]string
	Unknown UnknownFields
}

// DecodeRow decodes a measurement row into named fields.
//
// Tokens are taken in code/value pairs and trimmed. A trailing unpaired
// token is ignored. If a code repeats, the last value wins.
func DecodeRow(row RawRow) DecodedRow {
	out := DecodedRow{
		Fields:  make(map[string]string, len(row)/2),
		Unknown: make(UnknownFields),
	}

	for i := 0; i+1 < len(row); i += 2 {
		code := strings.TrimSpace(row[i])
		value := strings.TrimSpace(row[i+1])

		if field, ok := LookupCode(code); ok {
			out.Fields[field] = value
		} else {
			out.Unknown[code] = value
		}
	}

	return out
}

// decodable reports whether a row carries at least one code/value pair.
func decodable(row RawRow) bool {
	return len(row) >= 2
}
