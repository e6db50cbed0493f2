package router

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fbianco/edbot/internal/core"
)

type actionCall struct {
	verb core.ActionVerb
	arg  string
}

type mockRunner struct {
	calls  []actionCall
	status string
	err    error
}

func (m *mockRunner) Run(ctx context.Context, verb core.ActionVerb, arg string) (string, error) {
	m.calls = append(m.calls, actionCall{verb, arg})
	if m.err != nil {
		return "", m.err
	}
	return m.status, nil
}

func TestRoute_CannedGreeting(t *testing.T) {
	runner := &mockRunner{}
	r := New(runner)

	reply, ok := r.Route(context.Background(), "good morning ED")
	if !ok {
		t.Fatal("expected canned reply")
	}
	if reply != "Good morning! How can I help you today?" {
		t.Errorf("expected the table's exact reply, got %q", reply)
	}
	if len(runner.calls) != 0 {
		t.Errorf("greeting must not dispatch an action, got %+v", runner.calls)
	}
}

func TestRoute_OpenAction(t *testing.T) {
	runner := &mockRunner{status: "Opening notepad..."}
	r := New(runner)

	reply, ok := r.Route(context.Background(), "abrir notepad")
	if !ok {
		t.Fatal("expected action dispatch")
	}
	if reply != "Opening notepad..." {
		t.Errorf("reply must equal the runner's status string, got %q", reply)
	}
	if len(runner.calls) != 1 || runner.calls[0] != (actionCall{core.ActionOpen, "notepad"}) {
		t.Errorf("expected open/notepad, got %+v", runner.calls)
	}
}

func TestRoute_TrailingSegmentAfterRepeatedKeyword(t *testing.T) {
	runner := &mockRunner{status: "ok"}
	r := New(runner)

	_, ok := r.Route(context.Background(), "open the thing, no wait, open calculator")
	if !ok {
		t.Fatal("expected action dispatch")
	}
	if runner.calls[0].arg != "calculator" {
		t.Errorf("argument must come from the last split segment, got %q", runner.calls[0].arg)
	}
}

func TestRoute_VolumeSubActions(t *testing.T) {
	tests := []struct {
		utterance string
		want      string
	}{
		{"turn the volume up", "increase"},
		{"volume down please", "decrease"},
		{"volume mudo", "mute"},
		{"aumentar o volume", "increase"},
	}

	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			runner := &mockRunner{status: "ok"}
			r := New(runner)

			_, ok := r.Route(context.Background(), tt.utterance)
			if !ok {
				t.Fatal("expected volume dispatch")
			}
			if runner.calls[0].verb != core.ActionVolume || runner.calls[0].arg != tt.want {
				t.Errorf("expected volume/%s, got %+v", tt.want, runner.calls[0])
			}
		})
	}
}

func TestRoute_MediaSubActions(t *testing.T) {
	tests := []struct {
		utterance string
		want      string
	}{
		{"pause the music", "play-pause"},
		{"play the next music track", "next"},
		{"stop the music", "stop"},
		{"tocar a próxima música", "next"},
		{"música anterior", "previous"},
	}

	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			runner := &mockRunner{status: "ok"}
			r := New(runner)

			_, ok := r.Route(context.Background(), tt.utterance)
			if !ok {
				t.Fatal("expected media dispatch")
			}
			if runner.calls[0].verb != core.ActionMedia || runner.calls[0].arg != tt.want {
				t.Errorf("expected media/%s, got %+v", tt.want, runner.calls[0])
			}
		})
	}
}

func TestRoute_SearchAction(t *testing.T) {
	runner := &mockRunner{status: "Searching the web for 'golang generics'..."}
	r := New(runner)

	reply, ok := r.Route(context.Background(), "search golang generics")
	if !ok {
		t.Fatal("expected search dispatch")
	}
	if runner.calls[0].verb != core.ActionSearch || runner.calls[0].arg != "golang generics" {
		t.Errorf("unexpected call %+v", runner.calls[0])
	}
	if reply != runner.status {
		t.Errorf("reply must pass the status through, got %q", reply)
	}
}

func TestRoute_ActionFailureBecomesStatusString(t *testing.T) {
	runner := &mockRunner{err: &core.ActionError{Verb: core.ActionOpen, Err: errors.New("no such application")}}
	r := New(runner)

	reply, ok := r.Route(context.Background(), "open gimp")
	if !ok {
		t.Fatal("a failed action still resolves the turn")
	}
	if !strings.Contains(reply, "no such application") {
		t.Errorf("failure reply should describe the error, got %q", reply)
	}
}

func TestRoute_UnresolvedDelegates(t *testing.T) {
	runner := &mockRunner{}
	r := New(runner)

	reply, ok := r.Route(context.Background(), "what's the weather like on Mars?")
	if ok {
		t.Fatalf("expected delegation to the model, got %q", reply)
	}
	if len(runner.calls) != 0 {
		t.Errorf("unresolved utterance must not dispatch, got %+v", runner.calls)
	}
}
