package engine

import (
	"strings"

	"github.com/questforge/questforge/pkg/session"
)

// Player-facing choice labels owned by the engine rather than the
// generation service.
const (
	AttackAgainChoice  = "Attack again"
	FleeChoice         = "Attempt to flee"
	RestartChoice      = "Restart this adventure"
	NewAdventureChoice = "Choose a new adventure"
)

// ActionKind is the closed set of actions a choice can resolve to.
type ActionKind string

const (
	// ActionContinue is the exhaustive fallback: a plain narrative
	// choice that advances the story.
	ActionContinue ActionKind = "continue"

	ActionAttack       ActionKind = "attack"
	ActionTakeItem     ActionKind = "take_item"
	ActionLeaveItem    ActionKind = "leave_item"
	ActionDiscardItem  ActionKind = "discard_item"
	ActionDiscardNew   ActionKind = "discard_new"
	ActionRestart      ActionKind = "restart"
	ActionNewAdventure ActionKind = "new_adventure"
)

// Action is a classified player choice. Target carries the attack
// target or the item to discard, when applicable.
type Action struct {
	Kind   ActionKind
	Target string
}

// Classify maps free-form choice text onto an Action. Choices are
// model-generated prose, so this is substring heuristics by necessity;
// all of it lives here so the fallback branch stays testable. Anything
// unrecognized is a plain continuation.
func Classify(s *session.Session, choice string) Action {
	trimmed := strings.TrimSpace(choice)
	lower := strings.ToLower(trimmed)

	if s.Ended {
		switch {
		case strings.Contains(lower, "restart"):
			return Action{Kind: ActionRestart}
		case strings.Contains(lower, "new adventure"):
			return Action{Kind: ActionNewAdventure}
		default:
			return Action{Kind: ActionContinue}
		}
	}

	if s.PendingSwap != nil {
		if lower == strings.ToLower(session.DiscardNewItemChoice) {
			return Action{Kind: ActionDiscardNew}
		}
		if rest, ok := strings.CutPrefix(trimmed, "Discard "); ok {
			return Action{Kind: ActionDiscardItem, Target: strings.TrimSpace(rest)}
		}
		return Action{Kind: ActionContinue}
	}

	if strings.Contains(lower, "attack") {
		return Action{Kind: ActionAttack, Target: attackTarget(trimmed)}
	}

	if s.Encounter != nil && s.Encounter.Kind == session.EncounterItem {
		switch {
		case strings.Contains(lower, "take"):
			return Action{Kind: ActionTakeItem}
		case strings.Contains(lower, "leave"):
			return Action{Kind: ActionLeaveItem}
		}
	}

	return Action{Kind: ActionContinue}
}

// attackTarget extracts the target name from attack-flavored choice
// text, e.g. "Attack the goblin with your sword" yields "goblin with
// your sword" trimmed down to "goblin" only when articles allow. The
// extraction is best-effort; an empty result means the caller should
// fall back to the tracked encounter or a generic name.
func attackTarget(choice string) string {
	lower := strings.ToLower(choice)
	idx := strings.Index(lower, "attack")
	if idx < 0 {
		return ""
	}
	rest := strings.TrimSpace(choice[idx+len("attack"):])
	for _, article := range []string{"the ", "a ", "an "} {
		if strings.HasPrefix(strings.ToLower(rest), article) {
			rest = rest[len(article):]
			break
		}
	}
	// Stop at prepositions describing the means of attack.
	for _, sep := range []string{" with ", " using ", " before ", ","} {
		if i := strings.Index(strings.ToLower(rest), sep); i >= 0 {
			rest = rest[:i]
		}
	}
	rest = strings.TrimRight(strings.TrimSpace(rest), ".!")
	// "Attack again" names no target; the tracked encounter is meant.
	if strings.EqualFold(rest, "again") {
		return ""
	}
	return rest
}
