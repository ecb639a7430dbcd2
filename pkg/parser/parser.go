// Package parser extracts structured turn data from narrative text
// produced under the SCENE/ENCOUNTER/CHOICES prompt grammar.
package parser

import (
	"html"
	"strings"
)

// Section labels of the response grammar, in required order.
const (
	SceneLabel     = "SCENE:"
	EncounterLabel = "ENCOUNTER:"
	ChoicesLabel   = "CHOICES:"
)

// FallbackScene is substituted when the generated text carries no SCENE
// label at all. The session continues with filler content rather than
// failing the turn, because the generation call cannot be cheaply
// retried within the turn's latency budget.
const FallbackScene = "The storyteller's voice falters and the world dissolves into gray mist. When it clears, you stand where you were, the path ahead uncertain."

// FallbackChoice is substituted when the CHOICES section yields no
// usable lines.
const FallbackChoice = "Choices not found - continue the adventure"

// noneSynonyms are encounter values treated as "no encounter".
var noneSynonyms = map[string]struct{}{
	"empty":      {},
	"none":       {},
	"no monster": {},
	"no item":    {},
	"none.":      {},
}

// Result is the structured form of one generated turn.
type Result struct {
	Scene     string
	Encounter string // empty when the scene has no encounter
	Choices   []string
}

// HasEncounter reports whether the scene surfaced an encounter.
func (r Result) HasEncounter() bool {
	return r.Encounter != ""
}

// Parse splits raw narrative text into scene, optional encounter, and
// choices. It is pure and deterministic: the same input always yields
// the same result, and it never fails. Degenerate input degrades to the
// fallback scene and choice.
func Parse(raw string) Result {
	// The generation service sometimes echoes entity-encoded
	// apostrophes back verbatim; normalize before section matching.
	text := html.UnescapeString(raw)

	sceneIdx := strings.Index(text, SceneLabel)
	if sceneIdx < 0 {
		return Result{
			Scene:   FallbackScene,
			Choices: []string{FallbackChoice},
		}
	}

	encounterIdx := strings.Index(text, EncounterLabel)
	choicesIdx := strings.Index(text, ChoicesLabel)

	sceneEnd := len(text)
	if encounterIdx > sceneIdx {
		sceneEnd = encounterIdx
	} else if choicesIdx > sceneIdx {
		sceneEnd = choicesIdx
	}
	scene := strings.TrimSpace(text[sceneIdx+len(SceneLabel) : sceneEnd])

	var encounter string
	if encounterIdx >= 0 {
		encEnd := len(text)
		if choicesIdx > encounterIdx {
			encEnd = choicesIdx
		}
		encounter = strings.TrimSpace(text[encounterIdx+len(EncounterLabel) : encEnd])
		if _, none := noneSynonyms[strings.ToLower(encounter)]; none {
			encounter = ""
		}
	}

	var choices []string
	if choicesIdx >= 0 {
		for line := range strings.SplitSeq(text[choicesIdx+len(ChoicesLabel):], "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				choices = append(choices, line)
			}
		}
	}
	if len(choices) == 0 {
		choices = []string{FallbackChoice}
	}

	return Result{
		Scene:     scene,
		Encounter: encounter,
		Choices:   choices,
	}
}
