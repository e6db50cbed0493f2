// Package extractor scans utterances for profile facts using an ordered
// list of substring rules. Matching is case-insensitive and untokenized, so
// substrings inside unrelated words can match; that is accepted behavior.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/fbianco/edbot/internal/core"
	"github.com/fbianco/edbot/pkg/log"
)

// Store is the subset of the profile repository the extractor writes to.
type Store interface {
	SetFact(ctx context.Context, key core.FactKey, value string) error
	UpsertInterest(ctx context.Context, topic string, level int) error
	UpsertProgramming(ctx context.Context, language, framework string, level int) error
}

type Extractor struct {
	store Store
}

func New(store Store) *Extractor {
	return &Extractor{store: store}
}

// Trigger tables carry Portuguese phrases alongside English
// equivalents. Order is load-bearing: "javascript" must precede "java" or
// the shorter substring masks the longer one.
var (
	namePhrases = []string{"meu nome é ", "me chamo ", "my name is ", "call me "}

	workPatterns = []struct{ marker, sep string }{
		{"trabalho das ", " às "},
		{"trabalho entre ", " e "},
		{"work between ", " and "},
		{"work from ", " to "},
	}

	languages  = []string{"python", "javascript", "java", "c#", "php", "ruby"}
	frameworks = []string{"django", "flask", "react", "angular", "vue", "laravel"}

	interestMarkers = []string{
		"gosto de ", "adoro ", "prefiro ", "interesse em ",
		"i like ", "i love ", "i prefer ", "interested in ",
	}
)

type rule struct {
	name  string
	apply func(e *Extractor, ctx context.Context, lowered string) (string, bool, error)
}

var rules = []rule{
	{"name", (*Extractor).nameRule},
	{"work_hours", (*Extractor).workHoursRule},
	{"language", (*Extractor).languageRule},
	{"framework", (*Extractor).frameworkRule},
}

// Extract runs the rule list against the utterance. The first matching rule
// wins and returns its direct reply; a rule whose payload fails to parse
// contributes nothing and evaluation falls through to the next rule. The
// interest scan is write-only and runs regardless of which rule replies.
func (e *Extractor) Extract(ctx context.Context, utterance string) (string, bool) {
	logger := log.FromCtx(ctx)
	lowered := strings.ToLower(utterance)

	e.scanInterests(ctx, lowered)

	for _, r := range rules {
		reply, ok, err := r.apply(e, ctx, lowered)
		if err != nil {
			var parseErr *core.ParseError
			if errors.As(err, &parseErr) {
				logger.Debug().Err(err).Msg("extraction rule fell through")
				continue
			}
			logger.Error().Err(err).Str("rule", r.name).Msg("profile write failed")
		}
		if ok {
			return reply, true
		}
	}
	return "", false
}

func (e *Extractor) nameRule(ctx context.Context, lowered string) (string, bool, error) {
	for _, phrase := range namePhrases {
		idx := strings.Index(lowered, phrase)
		if idx < 0 {
			continue
		}
		fields := strings.Fields(lowered[idx+len(phrase):])
		if len(fields) == 0 {
			return "", false, &core.ParseError{Rule: "name", Input: lowered, Err: errors.New("no word after introduction phrase")}
		}
		name := titleCase(fields[0])
		err := e.store.SetFact(ctx, core.FactName, name)
		return fmt.Sprintf("Nice to meet you, %s! I'll remember your name.", name), true, err
	}
	return "", false, nil
}

func (e *Extractor) workHoursRule(ctx context.Context, lowered string) (string, bool, error) {
	for _, p := range workPatterns {
		idx := strings.Index(lowered, p.marker)
		if idx < 0 {
			continue
		}
		rest := lowered[idx+len(p.marker):]
		parts := strings.SplitN(rest, p.sep, 2)
		if len(parts) < 2 {
			return "", false, &core.ParseError{Rule: "work_hours", Input: rest, Err: fmt.Errorf("missing %q separator", p.sep)}
		}
		// Raw capture, no format validation.
		start := strings.TrimSpace(parts[0])
		end := strings.TrimSpace(parts[1])
		if start == "" || end == "" {
			return "", false, &core.ParseError{Rule: "work_hours", Input: rest, Err: errors.New("empty time bound")}
		}
		if err := e.store.SetFact(ctx, core.FactWorkStart, start); err != nil {
			return "", false, err
		}
		err := e.store.SetFact(ctx, core.FactWorkEnd, end)
		return fmt.Sprintf("Got it! You work from %s to %s. I'll remember that.", start, end), true, err
	}
	return "", false, nil
}

func (e *Extractor) languageRule(ctx context.Context, lowered string) (string, bool, error) {
	for _, lang := range languages {
		for _, trigger := range []string{"programo em " + lang, "i program in " + lang, "uso " + lang, "i use " + lang} {
			if strings.Contains(lowered, trigger) {
				err := e.store.UpsertProgramming(ctx, lang, "", 1)
				return fmt.Sprintf("Cool! I'll remember that you program in %s.", lang), true, err
			}
		}
	}
	return "", false, nil
}

// frameworkRule never fires when languageRule already matched; an utterance
// naming both records only the language.
func (e *Extractor) frameworkRule(ctx context.Context, lowered string) (string, bool, error) {
	for _, fw := range frameworks {
		if strings.Contains(lowered, fw) {
			err := e.store.UpsertProgramming(ctx, "", fw, 1)
			return fmt.Sprintf("Noted, you have experience with %s!", fw), true, err
		}
	}
	return "", false, nil
}

func (e *Extractor) scanInterests(ctx context.Context, lowered string) {
	for _, marker := range interestMarkers {
		idx := strings.Index(lowered, marker)
		if idx < 0 {
			continue
		}
		topic := lowered[idx+len(marker):]
		if dot := strings.Index(topic, "."); dot >= 0 {
			topic = topic[:dot]
		}
		topic = strings.TrimSpace(topic)
		if topic == "" {
			continue
		}
		if err := e.store.UpsertInterest(ctx, topic, 1); err != nil {
			log.FromCtx(ctx).Error().Err(err).Str("topic", topic).Msg("interest write failed")
		}
	}
}

func titleCase(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
