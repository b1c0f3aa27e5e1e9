// Package script composes the generation prompt for a meditation
// session from persona and emotional-state catalog data.
package script

import (
	"fmt"
	"strings"

	"github.com/florecer/florecer/internal/catalog"
	"github.com/florecer/florecer/internal/reliability"
)

// Compose builds the single natural-language instruction handed to the
// text-generation service. It is pure: same persona and tags always
// yield the same prompt, and no network is touched. Unknown tag ids
// are dropped; an unknown persona id is an error because persona data
// carries the identity and metaphors the prompt is built around.
func Compose(personaID string, tagIDs []string) (string, error) {
	persona, ok := catalog.Persona(personaID)
	if !ok {
		return "", fmt.Errorf("%w: %q", reliability.ErrUnknownPersona, personaID)
	}

	resolved := catalog.ResolveTags(tagIDs)
	instructions := make([]string, 0, len(resolved))
	for _, t := range resolved {
		instructions = append(instructions, t.Instruction)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Eres %s, una guía de meditación. Tu personalidad: %q.\n\n", persona.Name, persona.Personality)
	fmt.Fprintf(&b, "Metáforas propias que puedes reutilizar: [%s].\n\n", strings.Join(persona.Metaphors, ", "))
	// Zero resolved tags leaves this segment empty; the persona content
	// alone is enough for a usable prompt.
	fmt.Fprintf(&b, "Instrucciones adicionales según el estado de quien escucha: %s\n\n", strings.Join(instructions, " "))
	b.WriteString("Escribe el guion de una sesión de meditación guiada de 3 a 4 minutos con cinco partes en este orden: ")
	b.WriteString("1) saludo y presentación de tu identidad, ")
	b.WriteString("2) una técnica de respiración adaptada al estado indicado, ")
	b.WriteString("3) una visualización que use tus metáforas, ")
	b.WriteString("4) afirmaciones, ")
	b.WriteString("5) un cierre suave de regreso al presente invitando a abrir los ojos lentamente.\n")
	b.WriteString("Devuelve únicamente el texto hablado, sin comentarios ni encabezados.")

	return b.String(), nil
}
