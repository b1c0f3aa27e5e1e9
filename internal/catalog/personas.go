package catalog

import "errors"

var ErrUnknownPersona = errors.New("unknown persona")

// PersonaProfile bundles a narration identity: how it speaks, which
// images it reaches for, which synthesis voice renders it, and the
// ambient track that plays underneath its sessions. Profiles are
// defined at process start and never mutated.
type PersonaProfile struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Personality        string   `json:"personality"`
	Description        string   `json:"description"`
	Specialties        []string `json:"specialties"`
	Metaphors          []string `json:"metaphors"`
	Preview            string   `json:"preview,omitempty"`
	VoiceID            string   `json:"voice_id"`
	BackgroundTrackRef string   `json:"background_track_ref"`
}

var personas = map[string]PersonaProfile{
	"bamboo": {
		ID:          "bamboo",
		Name:        "Bambú Resiliente",
		Personality: "Flexible y adaptable, con voz suave como el viento entre bambúes",
		Description: "Evoca bosques de bambú asiáticos. Te enseña a doblarte sin romperte, creciendo con serenidad y fortaleza.",
		Specialties: []string{"Cambios de vida", "Resiliencia", "Crecimiento personal"},
		Metaphors: []string{
			"Me doblo con el viento pero nunca me rompo",
			"Crezco hacia el cielo un nudo a la vez",
			"Mis raíces sostienen a todo el bosque",
		},
		VoiceID:            "21m00Tcm4TlvDq8ikWAM",
		BackgroundTrackRef: "https://hebbkx1anhila5yf.public.blob.vercel-storage.com/Bamb_Resiliente_2025-09-13T185553-TVF8bJeugzyl2lp1ppadoMpSWE4UBA.mp3",
	},
	"lotus": {
		ID:          "lotus",
		Name:        "Loto Purificador",
		Personality: "Puro y renovador, con voz cristalina como agua tranquila",
		Description: "Soundscape de aguas tranquilas. Como la flor que emerge del lodo, te ayuda a encontrar claridad y renovación.",
		Specialties: []string{"Renacimiento", "Pureza mental", "Calma profunda"},
		Metaphors: []string{
			"Emerjo del lodo con pétalos limpios",
			"Floto serena sobre aguas profundas",
			"Cada amanecer abro mis pétalos de nuevo",
		},
		VoiceID:            "EXAVITQu4vr4xnSDxMaL",
		BackgroundTrackRef: "https://hebbkx1anhila5yf.public.blob.vercel-storage.com/Loto_Sereno_2025-09-13T190200-wrnxL1jLIssLaoQ3LckGLMZP8TASWD.mp3",
	},
	"ceibo": {
		ID:          "ceibo",
		Name:        "Ceibo Renaciente",
		Personality: "Apasionado y resiliente, con voz cálida y acento argentino",
		Description: "Flor nacional argentina que renace después de tormentas. Te abraza con calidez maternal y fuerza motivadora.",
		Specialties: []string{"Renacimiento", "Fuerza motivadora", "Pasión de vida"},
		Metaphors: []string{
			"Mi flor roja es fuego que renace",
			"Mis raíces se entrelazan con toda la selva",
			"Florezco más fuerte después de cada tormenta",
			"El fuego de mi flor es el de tu corazón",
		},
		Preview:            "Hola, soy Ceibo. Mi flor roja arde con la pasión de la vida que siempre renace. Como florezco después de cada tormenta, vos también podés encontrar tu fuerza.",
		VoiceID:            "onwK4e9ZLuTAKqWW03F9",
		BackgroundTrackRef: "https://hebbkx1anhila5yf.public.blob.vercel-storage.com/Races_del_Ceibo_2025-09-13T193715-QVXVQTYGZVtHxqQMNSgpfEUFKTYGQa.mp3",
	},
	"cactus": {
		ID:          "cactus",
		Name:        "Cactus Resistente",
		Personality: "Sobrio y resistente, con voz cálida y contenida como el desierto al amanecer",
		Description: "Paisaje sonoro desértico. Te enseña la belleza de la resistencia silenciosa y el florecimiento interno.",
		Specialties: []string{"Resistencia", "Energía contenida", "Supervivencia"},
		Metaphors: []string{
			"Guardo agua de vida para las sequías",
			"Florezco en la adversidad del desierto",
			"Mi quietud es fuerza contenida",
		},
		VoiceID:            "pNInz6obpgDQGcFmaJgB",
		BackgroundTrackRef: "https://hebbkx1anhila5yf.public.blob.vercel-storage.com/Espritu_del_Cactus_2025-09-13T192044-F1qscUn3CoNa1viCXHfS7aQuv5B9Wq.mp3",
	},
}

// Persona looks up a profile by id. The miss branch is explicit so that
// callers can surface unknown ids instead of composing from a zero value.
func Persona(id string) (PersonaProfile, bool) {
	p, ok := personas[id]
	return p, ok
}

// Personas returns all profiles in stable id order for catalog listings.
func Personas() []PersonaProfile {
	out := make([]PersonaProfile, 0, len(personas))
	for _, id := range []string{"bamboo", "lotus", "ceibo", "cactus"} {
		out = append(out, personas[id])
	}
	return out
}
