package measure

// ExamType selects which tool catalog is offered. A frontal
// (anteroposterior) radiograph gets coronal-plane tools, a lateral one gets
// sagittal-plane tools.
type ExamType string

const (
	ExamFrontal ExamType = "frontal"
	ExamLateral ExamType = "lateral"
)

// ToolDefinition is a static catalog entry for the tool palette.
type ToolDefinition struct {
	Kind         Kind
	Name         string
	Description  string
	PointsNeeded int
}

// sharedTools are offered for every exam type.
var sharedTools = []Kind{
	KindLength,
	KindAngle,
	KindStandardDistance,
	KindCircle,
	KindEllipse,
	KindRectangle,
	KindArrow,
	KindPolygon,
}

var frontalTools = []Kind{
	KindCobb,
	KindClavicleAngle,
	KindT1Tilt,
	KindAVT,
	KindTS,
}

var lateralTools = []Kind{
	KindSacralSlope,
	KindPelvicTilt,
	KindPelvicIncidence,
	KindLumbarLordosis,
	KindThoracicKyphosis,
	KindSVA,
}

// Catalog returns the fixed tool list for an exam type. The selection is a
// pure lookup; unknown exam types get the frontal catalog.
func Catalog(exam ExamType) []ToolDefinition {
	kinds := frontalTools
	if exam == ExamLateral {
		kinds = lateralTools
	}

	defs := make([]ToolDefinition, 0, len(kinds)+len(sharedTools))
	for _, k := range kinds {
		defs = append(defs, toolFor(k))
	}
	for _, k := range sharedTools {
		defs = append(defs, toolFor(k))
	}
	return defs
}

func toolFor(kind Kind) ToolDefinition {
	spec, _ := SpecFor(kind)
	return ToolDefinition{
		Kind:         kind,
		Name:         spec.Name,
		Description:  spec.Description,
		PointsNeeded: spec.PointsNeeded,
	}
}
