package core

import "context"

// Completer is the remote model collaborator. It receives the full ordered
// request and returns a single assistant-role reply.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (Message, error)
}

// ActionVerb names an OS-level side effect the router can dispatch.
type ActionVerb string

const (
	ActionOpen       ActionVerb = "open"
	ActionClose      ActionVerb = "close"
	ActionVolume     ActionVerb = "volume"
	ActionSearch     ActionVerb = "search"
	ActionScreenshot ActionVerb = "screenshot"
	ActionProcesses  ActionVerb = "processes"
	ActionMedia      ActionVerb = "media"
	ActionNotify     ActionVerb = "notify"
)

// ActionRunner executes a system action. The returned string describes the
// request having been issued, not the effect having completed.
type ActionRunner interface {
	Run(ctx context.Context, verb ActionVerb, arg string) (string, error)
}

// Speaker is a one-way text-to-speech sink.
type Speaker interface {
	Say(ctx context.Context, text string) error
}

// Transcriber yields one transcribed utterance, or ErrNoSpeech when nothing
// intelligible was captured.
type Transcriber interface {
	Listen(ctx context.Context) (string, error)
}
