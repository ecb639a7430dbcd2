// Package scenario models the adventure scenarios a player picks from
// before a session starts, and the parsing of the generated list.
package scenario

import (
	"regexp"
	"strings"
)

// Block delimiters of the scenario-list grammar.
const (
	BlockStart = "---SCENARIO---"
	BlockEnd   = "---END SCENARIO---"
)

// Per-field fallbacks when a block is missing a line.
const (
	TitleNotFound   = "Title not found"
	SettingNotFound = "Setting not found"
	PlotNotFound    = "Plot not found"
)

var (
	titleRe   = regexp.MustCompile(`Title:[ \t]*(.*)`)
	settingRe = regexp.MustCompile(`Setting:[ \t]*(.*)`)
	plotRe    = regexp.MustCompile(`Plot:[ \t]*(.*)`)
)

// Scenario is one selectable adventure premise.
type Scenario struct {
	Title    string `json:"title"`
	Setting  string `json:"setting"`
	Plot     string `json:"plot"`
	ImageURL string `json:"image_url,omitempty"`
}

// ParseList extracts scenarios from generated text delimited by
// BlockStart/BlockEnd markers. Blocks missing fields get per-field
// fallbacks; text with no delimiters at all yields nil, signalling the
// caller to fall back to a simplified single-scenario prompt.
func ParseList(text string) []Scenario {
	blocks := strings.Split(text, BlockStart)
	if len(blocks) < 2 {
		return nil
	}
	// The first element precedes the first delimiter and may hold
	// introductory chatter; skip it.
	blocks = blocks[1:]

	scenarios := make([]Scenario, 0, len(blocks))
	for _, block := range blocks {
		block = strings.SplitN(block, BlockEnd, 2)[0]
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		scenarios = append(scenarios, ParseOne(block))
	}
	return scenarios
}

// ParseOne extracts a single scenario from free text, substituting
// fallbacks for any missing field. It backs both block parsing and the
// simplified retry prompt.
func ParseOne(text string) Scenario {
	return Scenario{
		Title:   matchOr(titleRe, text, TitleNotFound),
		Setting: matchOr(settingRe, text, SettingNotFound),
		Plot:    matchOr(plotRe, text, PlotNotFound),
	}
}

func matchOr(re *regexp.Regexp, text, fallback string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return fallback
	}
	v := strings.TrimSpace(m[1])
	if v == "" {
		return fallback
	}
	return v
}
