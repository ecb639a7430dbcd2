// Package prompts holds the templates sent to the generation service
// and the helpers that assemble per-turn context.
package prompts

import (
	"fmt"
	"strings"

	"github.com/questforge/questforge/pkg/session"
)

// ScenarioList asks for the adventure premises shown on the start
// screen. The delimiters and field labels must match pkg/scenario.
const ScenarioList = `Generate 6 unique scenarios for a Dungeons & Dragons adventure.
Each scenario must be formatted EXACTLY as follows:

---SCENARIO---
Title: [the scenario title]
Setting: [the setting]
Plot: [the main quest]
---END SCENARIO---

Do not include introductions, conclusions, or any additional text. Do not use formatting characters such as * or #.`

// SimplifiedScenario is the retry prompt used when the delimited list
// could not be parsed at all.
const SimplifiedScenario = `Generate a single scenario for a Dungeons & Dragons adventure with a Title, a Setting, and a Plot line. Label each field exactly "Title:", "Setting:" and "Plot:".`

// responseFormat is the strict section grammar every turn response must
// follow. The parser depends on these exact labels.
const responseFormat = `Respond EXACTLY in this format, with these uppercase labels and nothing else:

SCENE:
[2-4 sentences describing what happens]

ENCOUNTER:
[at most ONE encounter, written as "Monster: <name>" or "Item: <name>", or the word "none"]

CHOICES:
[exactly 3 actions the player can take, one per line]

Do not use formatting characters such as * or #. Do not add any text outside the three sections.`

// noEncounterFormat is the grammar variant used for follow-up scenes
// after a monster is defeated, where a fresh encounter is not wanted.
const noEncounterFormat = `Respond EXACTLY in this format, with these uppercase labels and nothing else:

SCENE:
[2-4 sentences describing what happens]

ENCOUNTER:
none

CHOICES:
[exactly 3 actions the player can take, one per line]

Do not introduce any monster or item. Do not use formatting characters such as * or #.`

// Opening builds the prompt for the first scene of an adventure.
func Opening(title string) string {
	var sb strings.Builder
	sb.WriteString("You are the narrator of a text adventure game. Begin the adventure titled ")
	fmt.Fprintf(&sb, "%q. Describe the opening scene where the hero arrives.\n\n", title)
	sb.WriteString(responseFormat)
	return sb.String()
}

// Continuation builds the prompt for a story-advancing turn. The full
// prior transcript is included so the narrative stays coherent, and
// encounter detection stays enabled.
func Continuation(s *session.Session, choice string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are the narrator of a text adventure game titled %q. Here is the story so far:\n\n", s.AdventureTitle)
	sb.WriteString(Transcript(s.History))
	fmt.Fprintf(&sb, "\nThe player chose: %q. Continue the story.\n\n", choice)
	sb.WriteString(responseFormat)
	return sb.String()
}

// PostVictory builds the follow-up prompt requested after a monster is
// defeated. The scene must carry the story past the fight without
// surfacing a new encounter.
func PostVictory(s *session.Session, monsterName string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are the narrator of a text adventure game titled %q. Here is the story so far:\n\n", s.AdventureTitle)
	sb.WriteString(Transcript(s.History))
	fmt.Fprintf(&sb, "\nThe player has just defeated the %s in combat. Describe the aftermath and move the story forward.\n\n", monsterName)
	sb.WriteString(noEncounterFormat)
	return sb.String()
}

// Transcript renders the history log as narrative context. Choices are
// omitted; only the scenes matter for coherence.
func Transcript(history []session.Turn) string {
	var sb strings.Builder
	for _, t := range history {
		sb.WriteString(t.Scene)
		sb.WriteString("\n\n")
	}
	return sb.String()
}
