package engine

import (
	"context"
	"strings"

	"github.com/questforge/questforge/pkg/actor"
	"github.com/questforge/questforge/pkg/parser"
	"github.com/questforge/questforge/pkg/session"
)

// ErrorScene is the fixed user-visible scene substituted when the
// generation service fails. The turn stays playable; it just carries
// filler narrative.
const ErrorScene = "The storyteller pauses, momentarily lost for words. The threads of the tale slip away, then slowly weave back together. Choose a path to press on."

// nextScene composes one generation call and parses the result. The
// raw text is normalized (markdown markers stripped; the parser handles
// entity-encoded apostrophes) before section matching. A service
// failure returns the error with a zero Result; the caller substitutes
// ErrorScene.
func (e *Engine) nextScene(ctx context.Context, prompt string) (parser.Result, error) {
	raw, err := e.llm.Complete(ctx, prompt)
	if err != nil {
		e.logger.Error("Generation call failed", "error", err)
		return parser.Result{}, err
	}
	return parser.Parse(parser.StripMarkdown(raw)), nil
}

// itemWords flag encounter names that describe an object rather than a
// creature, used only when the generation service drops the
// "Monster:"/"Item:" prefix it was asked for.
var itemWords = []string{
	"sword", "dagger", "axe", "bow", "shield", "armor", "helm",
	"potion", "elixir", "scroll", "tome", "book", "map", "key",
	"amulet", "ring", "gem", "jewel", "coin", "gold", "treasure",
	"chest", "torch", "lantern", "rope", "cloak", "boots", "wand", "staff",
}

// encounterFromText classifies a non-empty encounter string into a
// typed encounter. The prompt asks for a "Monster:" or "Item:" prefix;
// without one, the name is scanned for object words and otherwise
// assumed to be a monster.
func encounterFromText(text string) *session.Encounter {
	lower := strings.ToLower(text)

	if strings.HasPrefix(lower, "monster:") {
		return &session.Encounter{
			Kind: session.EncounterMonster,
			Name: strings.TrimSpace(text[len("monster:"):]),
			HP:   actor.DefaultMonsterHP,
		}
	}
	if strings.HasPrefix(lower, "item:") {
		return &session.Encounter{
			Kind: session.EncounterItem,
			Name: strings.TrimSpace(text[len("item:"):]),
		}
	}

	for _, w := range itemWords {
		if strings.Contains(lower, w) {
			return &session.Encounter{
				Kind: session.EncounterItem,
				Name: strings.TrimSpace(text),
			}
		}
	}
	return &session.Encounter{
		Kind: session.EncounterMonster,
		Name: strings.TrimSpace(text),
		HP:   actor.DefaultMonsterHP,
	}
}
