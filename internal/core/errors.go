package core

import (
	"errors"
	"fmt"
)

// ErrUnknownFactKey rejects a profile write outside the enumerated key set.
var ErrUnknownFactKey = errors.New("unknown fact key")

// ErrNoSpeech signals a recognition attempt that produced no utterance.
var ErrNoSpeech = errors.New("no speech recognized")

// ParseError marks a rule whose trigger matched but whose payload could not
// be captured. The extractor logs it and falls through to the next rule.
type ParseError struct {
	Rule  string
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("rule %q: parse %q: %v", e.Rule, e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// CompletionError wraps any failure of the model collaborator. The dialog
// service converts it to an apologetic reply; it never aborts a turn.
type CompletionError struct {
	Err error
}

func (e *CompletionError) Error() string { return fmt.Sprintf("completion: %v", e.Err) }

func (e *CompletionError) Unwrap() error { return e.Err }

// ActionError wraps a failed system action. The router converts it to a
// status string describing the failure.
type ActionError struct {
	Verb ActionVerb
	Err  error
}

func (e *ActionError) Error() string { return fmt.Sprintf("action %s: %v", e.Verb, e.Err) }

func (e *ActionError) Unwrap() error { return e.Err }
