package catalog

// TagInstruction maps an emotional-state tag to the natural-language
// instruction that biases tone and pacing of the generated session.
type TagInstruction struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Instruction string `json:"instruction"`
}

var tags = map[string]TagInstruction{
	"stressed":   {ID: "stressed", Label: "Estresado/a", Instruction: "Enfócate en técnicas de relajación y liberación de tensión"},
	"sad":        {ID: "sad", Label: "Triste", Instruction: "Ofrece palabras de consuelo y esperanza, con tonos cálidos y comprensivos"},
	"anxious":    {ID: "anxious", Label: "Ansioso/a", Instruction: "Proporciona técnicas de grounding y respiración calmante"},
	"tired":      {ID: "tired", Label: "Cansado/a", Instruction: "Usa un ritmo más lento y relajante, enfocado en el descanso"},
	"angry":      {ID: "angry", Label: "Enojado/a", Instruction: "Incluye técnicas de liberación emocional y transformación de la energía"},
	"confused":   {ID: "confused", Label: "Confundido/a", Instruction: "Ofrece claridad y simplicidad, con pasos claros y directos"},
	"gratitude":  {ID: "gratitude", Label: "Gratitud", Instruction: "Amplifica el agradecimiento con reconocimientos concretos de lo cotidiano"},
	"compassion": {ID: "compassion", Label: "Compasión", Instruction: "Cultiva la ternura hacia uno mismo y hacia los demás"},
	"joy":        {ID: "joy", Label: "Alegría", Instruction: "Celebra el momento presente con un tono luminoso y ligero"},
	"hope":       {ID: "hope", Label: "Esperanza", Instruction: "Siembra imágenes de futuro amable y de nuevos comienzos"},
}

// Tag looks up a tag instruction by id.
func Tag(id string) (TagInstruction, bool) {
	t, ok := tags[id]
	return t, ok
}

// Tags returns the tag catalog in stable id order.
func Tags() []TagInstruction {
	order := []string{"stressed", "sad", "anxious", "tired", "angry", "confused", "gratitude", "compassion", "joy", "hope"}
	out := make([]TagInstruction, 0, len(order))
	for _, id := range order {
		out = append(out, tags[id])
	}
	return out
}

// ResolveTags filters the requested tag ids down to known ones,
// preserving request order. Unknown ids are dropped rather than
// rejected so an older server tolerates newer client tag sets.
func ResolveTags(ids []string) []TagInstruction {
	out := make([]TagInstruction, 0, len(ids))
	for _, id := range ids {
		if t, ok := tags[id]; ok {
			out = append(out, t)
		}
	}
	return out
}
