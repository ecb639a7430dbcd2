package prompts

import (
	"strings"
	"testing"

	"github.com/questforge/questforge/pkg/session"
)

func TestOpening(t *testing.T) {
	p := Opening("The Lost Mine")

	if !strings.Contains(p, `"The Lost Mine"`) {
		t.Error("Prompt should name the adventure")
	}
	if !strings.Contains(p, "SCENE:") || !strings.Contains(p, "ENCOUNTER:") || !strings.Contains(p, "CHOICES:") {
		t.Error("Prompt should carry the section grammar")
	}
}

func TestContinuation(t *testing.T) {
	s := session.New("The Lost Mine", 20)
	s.AppendTurn("You stand at the mine entrance.", []string{"Enter"})
	s.AppendTurn("The shaft descends into darkness.", []string{"Light a torch"})

	p := Continuation(s, "Light a torch")

	if !strings.Contains(p, "You stand at the mine entrance.") {
		t.Error("Prompt should include the first scene")
	}
	if !strings.Contains(p, "The shaft descends into darkness.") {
		t.Error("Prompt should include the latest scene")
	}
	if !strings.Contains(p, `"Light a torch"`) {
		t.Error("Prompt should include the player's choice")
	}
	if !strings.Contains(p, "ENCOUNTER:") {
		t.Error("Prompt should carry the section grammar")
	}
}

func TestPostVictory(t *testing.T) {
	s := session.New("The Lost Mine", 20)
	s.AppendTurn("A troll blocks the tunnel.", []string{"Attack the troll"})

	p := PostVictory(s, "troll")

	if !strings.Contains(p, "defeated the troll") {
		t.Error("Prompt should name the defeated monster")
	}
	if !strings.Contains(p, "Do not introduce any monster or item.") {
		t.Error("Follow-up prompt must forbid fresh encounters")
	}
}

func TestTranscript(t *testing.T) {
	history := []session.Turn{
		{Scene: "Scene one.", Choices: []string{"Go north"}},
		{Scene: "Scene two.", Choices: []string{"Go south"}},
	}

	tr := Transcript(history)

	if !strings.Contains(tr, "Scene one.") || !strings.Contains(tr, "Scene two.") {
		t.Errorf("Transcript missing scenes: %q", tr)
	}
	if strings.Contains(tr, "Go north") {
		t.Error("Transcript should not render choices")
	}
}
