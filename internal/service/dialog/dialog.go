// Package dialog owns the per-turn pipeline: fact extraction, intent
// routing, context building and the model completion, followed by
// persistence of the finished turn. A turn always yields a textual reply;
// collaborator failures degrade, they never abort.
package dialog

import (
	"context"
	"fmt"
	"time"

	"github.com/fbianco/edbot/internal/core"
	"github.com/fbianco/edbot/pkg/log"
	"github.com/fbianco/edbot/pkg/retry"
)

const apologyReply = "I'm sorry, I couldn't reach my language model just now. Please try again in a moment."

const upcomingInPreamble = 3

type FactExtractor interface {
	Extract(ctx context.Context, utterance string) (string, bool)
}

type IntentRouter interface {
	Route(ctx context.Context, utterance string) (string, bool)
}

type Config struct {
	SessionID         string
	WindowSize        int
	MaxContextTokens  int
	CompletionTimeout time.Duration
}

type Service struct {
	profile   core.ProfileRepository
	conv      core.ConversationRepository
	extractor FactExtractor
	router    IntentRouter
	completer core.Completer
	builder   *Builder
	window    *Window
	retrier   *retry.Retrier
	sessionID string
	timeout   time.Duration
	now       func() time.Time
}

func NewService(
	cfg Config,
	profile core.ProfileRepository,
	conv core.ConversationRepository,
	ext FactExtractor,
	router IntentRouter,
	completer core.Completer,
) *Service {
	timeout := cfg.CompletionTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Service{
		profile:   profile,
		conv:      conv,
		extractor: ext,
		router:    router,
		completer: completer,
		builder:   NewBuilder(cfg.MaxContextTokens, nil),
		window:    NewWindow(cfg.WindowSize),
		retrier:   retry.NewDefaultRetrier(),
		sessionID: cfg.SessionID,
		timeout:   timeout,
		now:       time.Now,
	}
}

// Resume seeds the history window from the tail of a previous session so a
// restart keeps its conversational context. Only the in-memory window is
// preloaded; new turns are logged under the current session.
func (s *Service) Resume(ctx context.Context, sessionID string) error {
	turns, err := s.conv.RecentTurns(ctx, sessionID, s.window.capacity)
	if err != nil {
		return fmt.Errorf("load previous session: %w", err)
	}
	for _, t := range turns {
		s.window.Append(t.UserText, t.AssistantText)
	}
	log.FromCtx(ctx).Debug().
		Str("session", sessionID).
		Int("pairs", len(turns)).
		Msg("resumed conversation window")
	return nil
}

// Turn processes one utterance end to end and returns the reply. The
// returned error reports persistence trouble only; the reply is always
// usable. Turns are strictly sequential; callers must not overlap them.
func (s *Service) Turn(ctx context.Context, utterance string) (string, error) {
	logger := log.FromCtx(ctx)

	reply, resolved := s.extractor.Extract(ctx, utterance)
	if !resolved {
		reply, resolved = s.router.Route(ctx, utterance)
	}
	if !resolved {
		reply = s.complete(ctx, utterance)
	}

	now := s.now().UTC()
	err := s.conv.AddTurn(ctx, core.Turn{
		SessionID:     s.sessionID,
		CreatedAt:     now,
		UserText:      utterance,
		AssistantText: reply,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to persist turn")
	}

	s.window.Append(utterance, reply)

	if ferr := s.profile.SetFact(ctx, core.FactLastInteraction, now.Format(time.RFC3339)); ferr != nil {
		logger.Error().Err(ferr).Msg("failed to stamp last interaction")
	}

	return reply, err
}

// complete builds the bounded context and calls the model. The call runs
// under its own timeout so a wedged provider cannot stall later turns.
func (s *Service) complete(ctx context.Context, utterance string) string {
	logger := log.FromCtx(ctx)

	snap, err := s.profile.Snapshot(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load profile snapshot")
		snap = core.Snapshot{Info: core.DefaultProfile()}
	}

	appts, err := s.profile.NextAppointments(ctx, upcomingInPreamble)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load upcoming appointments")
	}

	messages := s.builder.Build(snap, appts, s.window.Pairs(), utterance)
	logger.Debug().
		Int("messages", len(messages)).
		Int("tokens", s.builder.CountTokens(messages)).
		Msg("built completion request")

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var response core.Message
	err = s.retrier.Do(cctx, func() error {
		msg, cerr := s.completer.Complete(cctx, messages)
		if cerr != nil {
			return cerr
		}
		response = msg
		return nil
	})
	if err != nil {
		logger.Error().Err(&core.CompletionError{Err: err}).Msg("completion failed")
		return apologyReply
	}

	return response.Content
}

// WindowLen exposes the current sliding-window size, mainly for inspection.
func (s *Service) WindowLen() int {
	return s.window.Len()
}
