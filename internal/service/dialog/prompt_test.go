package dialog

import (
	"strings"
	"testing"
	"time"

	"github.com/fbianco/edbot/internal/core"
)

func wordCounter(text string) int {
	return len(strings.Fields(text))
}

func testSnapshot() core.Snapshot {
	return core.Snapshot{
		Info: core.UserProfile{
			core.FactName:      "Alice",
			core.FactWorkStart: "09:00",
			core.FactWorkEnd:   "18:00",
		},
		Interests: []core.Interest{
			{Topic: "music", Level: 3},
			{Topic: "reading", Level: 1},
		},
		Programming: []core.ProgrammingKnowledge{
			{Language: "python", Framework: "django"},
			{Language: "go"},
			{Framework: "react"},
		},
	}
}

func TestBuild_MessageOrder(t *testing.T) {
	b := NewBuilder(0, wordCounter)
	pairs := []Pair{
		{User: "first question", Assistant: "first answer"},
		{User: "second question", Assistant: "second answer"},
	}

	messages := b.Build(testSnapshot(), nil, pairs, "new question")

	if len(messages) != 6 {
		t.Fatalf("expected 6 messages, got %d", len(messages))
	}
	if messages[0].Role != core.RoleSystem {
		t.Errorf("first message must be the system preamble, got role %q", messages[0].Role)
	}
	if messages[1].Content != "first question" || messages[2].Content != "first answer" {
		t.Error("history must follow the preamble oldest first")
	}
	last := messages[len(messages)-1]
	if last.Role != core.RoleUser || last.Content != "new question" {
		t.Errorf("the new turn must come last, got %+v", last)
	}
}

func TestBuild_PreambleContents(t *testing.T) {
	b := NewBuilder(0, wordCounter)
	appts := []core.Appointment{
		{Title: "dentist", Moment: time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC)},
	}

	messages := b.Build(testSnapshot(), appts, nil, "hi")
	preamble := messages[0].Content

	for _, want := range []string{
		"Alice",
		"09:00 to 18:00",
		"music, reading",
		"python (django)",
		"go",
		"(react)",
		"dentist",
	} {
		if !strings.Contains(preamble, want) {
			t.Errorf("preamble missing %q:\n%s", want, preamble)
		}
	}
}

func TestBuild_PreambleOmitsUnknownFacts(t *testing.T) {
	b := NewBuilder(0, wordCounter)

	messages := b.Build(core.Snapshot{Info: core.UserProfile{}}, nil, nil, "hi")
	preamble := messages[0].Content

	if strings.Contains(preamble, "Name:") {
		t.Errorf("empty name must not be rendered:\n%s", preamble)
	}
}

func TestBuild_TokenCeilingDropsOldestPairs(t *testing.T) {
	// Each message costs its word count plus 4; a tight ceiling forces the
	// oldest pairs out while the new turn and preamble stay.
	b := NewBuilder(60, wordCounter)

	var pairs []Pair
	for i := 0; i < 10; i++ {
		pairs = append(pairs, Pair{
			User:      "one two three four five six seven eight nine ten",
			Assistant: "one two three four five six seven eight nine ten",
		})
	}

	messages := b.Build(core.Snapshot{Info: core.UserProfile{}}, nil, pairs, "final question")

	if got := b.CountTokens(messages); got > 60 {
		t.Errorf("request still over the token limit: %d tokens", got)
	}
	last := messages[len(messages)-1]
	if last.Content != "final question" {
		t.Error("the new user turn must survive trimming")
	}
	if messages[0].Role != core.RoleSystem {
		t.Error("the system preamble must survive trimming")
	}
}

func TestBuild_ZeroCeilingKeepsAllPairs(t *testing.T) {
	b := NewBuilder(0, wordCounter)
	pairs := make([]Pair, 10)
	for i := range pairs {
		pairs[i] = Pair{User: "question", Assistant: "answer"}
	}

	messages := b.Build(core.Snapshot{Info: core.UserProfile{}}, nil, pairs, "hi")
	if len(messages) != 22 {
		t.Errorf("ceiling disabled: expected all pairs kept, got %d messages", len(messages))
	}
}
