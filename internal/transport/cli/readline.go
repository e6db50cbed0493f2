package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/fbianco/edbot/internal/config"
	"github.com/fbianco/edbot/internal/core"
	"github.com/fbianco/edbot/internal/service/dialog"
	"github.com/fbianco/edbot/pkg/log"
)

type ReadLine struct {
	cfg         *config.AppConfig
	dialog      *dialog.Service
	speaker     core.Speaker
	transcriber core.Transcriber
	rl          *readline.Instance
}

func NewReadLine(cfg *config.AppConfig, svc *dialog.Service, speaker core.Speaker, transcriber core.Transcriber) (*ReadLine, error) {
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     filepath.Join(cfg.RuntimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		cfg:         cfg,
		dialog:      svc,
		speaker:     speaker,
		transcriber: transcriber,
		rl:          rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("chat started. Type 'exit' to quit, ':listen' to speak.")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if len(line) == 0 {
					return nil
				}
				continue
			} else if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		if line == ":listen" {
			line = r.listen(ctx)
			if line == "" {
				continue
			}
			fmt.Fprintf(r.rl.Stdout(), "you said: %s\n", line)
		}

		reply, err := r.dialog.Turn(ctx, line)
		if err != nil {
			logger.Error().Err(err).Msg("turn persistence failed")
		}
		fmt.Fprintf(r.rl.Stdout(), "%s\n", reply)

		if r.speaker != nil {
			if err := r.speaker.Say(ctx, reply); err != nil {
				logger.Warn().Err(err).Msg("speech playback failed")
			}
		}
	}
}

func (r *ReadLine) listen(ctx context.Context) string {
	fmt.Fprintln(r.rl.Stdout(), "listening...")

	utterance, err := r.transcriber.Listen(ctx)
	if err != nil {
		if errors.Is(err, core.ErrNoSpeech) {
			fmt.Fprintln(r.rl.Stdout(), "I didn't catch anything. Please try again.")
		} else {
			fmt.Fprintf(r.rl.Stdout(), "speech recognition failed: %v\n", err)
		}
		return ""
	}
	return utterance
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
