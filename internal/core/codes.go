package core

import "sort"

// Field names produced by the decoder. These are the display names the
// scale's companion software uses, so reports can show them verbatim.
const (
	FieldLengthUnit      = "Unidad de longitud"
	FieldMassUnit        = "Unidad de masa"
	FieldAthleteMode     = "Modo atleta (0=Normal, 2=Atleta)"
	FieldBodyMass        = "Masa corporal (kg)"
	FieldBMI             = "Índice de masa corporal (IMC)"
	FieldModel           = "Modelo"
	FieldDate            = "Fecha de medición"
	FieldTime            = "Hora de medición"
	FieldSex             = "Género"
	FieldAge             = "Edad"
	FieldHeight          = "Altura (cm)"
	FieldActivityLevel   = "Nivel de actividad"
	FieldBodyFat         = "Grasa corporal total %"
	FieldFatRightArm     = "Grasa del brazo (derecho) %"
	FieldFatLeftArm      = "Grasa del brazo (izquierdo) %"
	FieldFatRightLeg     = "Grasa de la pierna (derecha) %"
	FieldFatLeftLeg      = "Grasa de la pierna (izquierda) %"
	FieldFatTorso        = "Grasa del torso %"
	FieldMuscle          = "Músculo corporal total %"
	FieldMuscleRightArm  = "Músculo del brazo (derecho) %"
	FieldMuscleLeftArm   = "Músculo del brazo (izquierdo) %"
	FieldMuscleRightLeg  = "Músculo de la pierna (derecha) %"
	FieldMuscleLeftLeg   = "Músculo de la pierna (izquierda) %"
	FieldMuscleTorso     = "Músculo del torso %"
	FieldBoneMass        = "Masa ósea estimada (kg)"
	FieldVisceralFat     = "Índice de grasa visceral"
	FieldMetabolicAge    = "Edad metabólica estimada"
	FieldDailyCalories   = "Ingesta calórica diaria (ICD)"
	FieldBodyWater       = "Agua corporal total %"
	FieldChecksum        = "Desconocido: BC"
	fieldUnknownZero     = "Desconocido: 16"
	fieldUnknownTilde2   = "Desconocido: 4"
	fieldUnknownTilde3   = "Desconocido: 3"
)

// codeTable maps device codes to field names. Built once, never mutated.
var codeTable = map[string]string{
	"0":  fieldUnknownZero,
	"~0": FieldLengthUnit,
	"~1": FieldMassUnit,
	"~2": fieldUnknownTilde2,
	"~3": fieldUnknownTilde3,
	"Bt": FieldAthleteMode,
	"Wk": FieldBodyMass,
	"MI": FieldBMI,
	"MO": FieldModel,
	"DT": FieldDate,
	"Ti": FieldTime,
	"GE": FieldSex,
	"AG": FieldAge,
	"Hm": FieldHeight,
	"AL": FieldActivityLevel,
	"FW": FieldBodyFat,
	"Fr": FieldFatRightArm,
	"Fl": FieldFatLeftArm,
	"FR": FieldFatRightLeg,
	"FL": FieldFatLeftLeg,
	"FT": FieldFatTorso,
	"mW": FieldMuscle,
	"mr": FieldMuscleRightArm,
	"ml": FieldMuscleLeftArm,
	"mR": FieldMuscleRightLeg,
	"mL": FieldMuscleLeftLeg,
	"mT": FieldMuscleTorso,
	"bw": FieldBoneMass,
	"IF": FieldVisceralFat,
	"rA": FieldMetabolicAge,
	"rD": FieldDailyCalories,
	"ww": FieldBodyWater,
	"CS": FieldChecksum,
}

// CodeEntry is one row of the device code table.
type CodeEntry struct {
	Code  string `json:"code"`
	Field string `json:"field"`
}

// LookupCode returns the field name for a device code.
// Codes are case-sensitive: "FR" and "Fr" are different segments.
func LookupCode(code string) (string, bool) {
	field, ok := codeTable[code]
	return field, ok
}

// CodeTable returns a copy of the code table sorted by code.
func CodeTable() []CodeEntry {
	entries := make([]CodeEntry, 0, len(codeTable))
	for code, field := range codeTable {
		entries = append(entries, CodeEntry{Code: code, Field: field})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Code < entries[j].Code
	})
	return entries
}
