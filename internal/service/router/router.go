// Package router classifies an utterance into a canned reply, a system
// action, or "delegate to the model". Evaluation is ordered and
// deterministic: the canned table first, then keyword rules; a later rule
// never overrides an earlier match.
package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/fbianco/edbot/internal/core"
	"github.com/fbianco/edbot/pkg/log"
)

type Router struct {
	actions core.ActionRunner
}

func New(actions core.ActionRunner) *Router {
	return &Router{actions: actions}
}

type cannedEntry struct {
	match string
	reply string
}

// First matching entry wins. Substring matching, like the extractor.
var cannedReplies = []cannedEntry{
	{"bom dia", "Bom dia! How can I help you today?"},
	{"boa tarde", "Boa tarde! What can I do for you?"},
	{"boa noite", "Boa noite! Need anything before you wrap up?"},
	{"good morning", "Good morning! How can I help you today?"},
	{"good afternoon", "Good afternoon! What can I do for you?"},
	{"good evening", "Good evening! Need anything before you wrap up?"},
	{"hello", "Hello! What can I do for you?"},
	{"olá", "Olá! What can I do for you?"},
	{"how are you", "I'm doing great and ready to help. What do you need?"},
}

type keywordRule struct {
	keyword string
	verb    core.ActionVerb
}

// Keyword order matters: "abrir"/"open" style pairs sit next to each other
// and the first keyword present in the utterance dispatches.
var keywordRules = []keywordRule{
	{"abrir", core.ActionOpen},
	{"open", core.ActionOpen},
	{"fechar", core.ActionClose},
	{"close", core.ActionClose},
	{"volume", core.ActionVolume},
	{"pesquisar", core.ActionSearch},
	{"search", core.ActionSearch},
	{"captura de tela", core.ActionScreenshot},
	{"screenshot", core.ActionScreenshot},
	{"processos", core.ActionProcesses},
	{"processes", core.ActionProcesses},
	{"mídia", core.ActionMedia},
	{"música", core.ActionMedia},
	{"music", core.ActionMedia},
}

// Route resolves the utterance to a reply, or reports false to delegate the
// turn to the model.
func (r *Router) Route(ctx context.Context, utterance string) (string, bool) {
	lowered := strings.ToLower(utterance)

	for _, entry := range cannedReplies {
		if strings.Contains(lowered, entry.match) {
			return entry.reply, true
		}
	}

	for _, rule := range keywordRules {
		if !strings.Contains(lowered, rule.keyword) {
			continue
		}
		arg := extractArg(lowered, rule.keyword)
		switch rule.verb {
		case core.ActionVolume:
			arg = volumeSubAction(lowered)
		case core.ActionMedia:
			arg = mediaSubAction(lowered)
		}

		log.FromCtx(ctx).Debug().
			Str("verb", string(rule.verb)).
			Str("arg", arg).
			Msg("dispatching system action")

		result, err := r.actions.Run(ctx, rule.verb, arg)
		if err != nil {
			return fmt.Sprintf("I couldn't complete that action: %v", err), true
		}
		return result, true
	}

	return "", false
}

// extractArg takes the trailing substring after the keyword: split on the
// keyword and keep the last segment, so repeated keywords yield the text
// after the final occurrence.
func extractArg(lowered, keyword string) string {
	parts := strings.Split(lowered, keyword)
	return strings.TrimSpace(parts[len(parts)-1])
}

func volumeSubAction(lowered string) string {
	switch {
	case containsAny(lowered, "aument", "increase", "up"):
		return "increase"
	case containsAny(lowered, "dimin", "decrease", "down", "lower"):
		return "decrease"
	case containsAny(lowered, "mudo", "mute"):
		return "mute"
	}
	return ""
}

// mediaSubAction checks skip directions before play/pause so "play the next
// song" skips rather than toggles.
func mediaSubAction(lowered string) string {
	switch {
	case containsAny(lowered, "próxima", "proximo", "next", "skip"):
		return "next"
	case containsAny(lowered, "anterior", "previous"):
		return "previous"
	case containsAny(lowered, "parar", "stop"):
		return "stop"
	case containsAny(lowered, "pausar", "pause", "tocar", "play"):
		return "play-pause"
	}
	return ""
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
