package catalog

import "testing"

func TestPersonaLookup(t *testing.T) {
	p, ok := Persona("ceibo")
	if !ok {
		t.Fatalf("Persona(ceibo) not found")
	}
	if p.VoiceID == "" || p.BackgroundTrackRef == "" {
		t.Fatalf("ceibo profile incomplete: %+v", p)
	}
	if len(p.Metaphors) == 0 {
		t.Fatalf("ceibo has no metaphors")
	}

	if _, ok := Persona("tumbleweed"); ok {
		t.Fatalf("Persona(tumbleweed) should not resolve")
	}
}

func TestPersonasStableOrder(t *testing.T) {
	all := Personas()
	if len(all) != 4 {
		t.Fatalf("Personas() len = %d, want 4", len(all))
	}
	if all[0].ID != "bamboo" || all[3].ID != "cactus" {
		t.Fatalf("unexpected order: %s ... %s", all[0].ID, all[3].ID)
	}
	for _, p := range all {
		if p.Personality == "" || p.VoiceID == "" || len(p.Metaphors) == 0 {
			t.Fatalf("persona %s incomplete", p.ID)
		}
	}
}

func TestResolveTagsDropsUnknown(t *testing.T) {
	resolved := ResolveTags([]string{"sad", "futuristic", "hope"})
	if len(resolved) != 2 {
		t.Fatalf("resolved = %d tags, want 2", len(resolved))
	}
	if resolved[0].ID != "sad" || resolved[1].ID != "hope" {
		t.Fatalf("unexpected resolution order: %+v", resolved)
	}
}

func TestTagsCatalogComplete(t *testing.T) {
	all := Tags()
	if len(all) != 10 {
		t.Fatalf("Tags() len = %d, want 10", len(all))
	}
	for _, tag := range all {
		if tag.Instruction == "" || tag.Label == "" {
			t.Fatalf("tag %s incomplete", tag.ID)
		}
	}
}
