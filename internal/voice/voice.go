// Package voice holds the text-to-speech and speech-to-text collaborators.
// The dispatch core treats a transcription exactly like typed input.
package voice

import (
	"context"
	"os/exec"
	"strings"

	"github.com/fbianco/edbot/internal/core"
	"github.com/fbianco/edbot/pkg/log"
)

// ExecSpeaker speaks through an external synthesizer command. Playback is
// fire-and-forget: Say returns once the process has been launched.
type ExecSpeaker struct {
	command string
	start   func(name string, args ...string) error
}

func NewExecSpeaker(command string) *ExecSpeaker {
	return &ExecSpeaker{
		command: command,
		start: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
	}
}

func (s *ExecSpeaker) Say(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	log.FromCtx(ctx).Debug().Str("command", s.command).Msg("speaking reply")
	return s.start(s.command, text)
}

// ExecTranscriber shells out to a recognizer command that prints one
// transcribed utterance on stdout.
type ExecTranscriber struct {
	command string
	args    []string
	output  func(ctx context.Context, name string, args ...string) (string, error)
}

func NewExecTranscriber(command string, args ...string) *ExecTranscriber {
	return &ExecTranscriber{
		command: command,
		args:    args,
		output: func(ctx context.Context, name string, args ...string) (string, error) {
			out, err := exec.CommandContext(ctx, name, args...).Output()
			return string(out), err
		},
	}
}

func (t *ExecTranscriber) Listen(ctx context.Context) (string, error) {
	out, err := t.output(ctx, t.command, t.args...)
	if err != nil {
		return "", err
	}
	utterance := strings.TrimSpace(out)
	if utterance == "" {
		return "", core.ErrNoSpeech
	}
	return utterance, nil
}

// NullSpeaker discards all speech. Used when voice output is disabled.
type NullSpeaker struct{}

func (NullSpeaker) Say(ctx context.Context, text string) error { return nil }

// NullTranscriber reports no microphone.
type NullTranscriber struct{}

func (NullTranscriber) Listen(ctx context.Context) (string, error) {
	return "", core.ErrNoSpeech
}
