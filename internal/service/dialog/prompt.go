package dialog

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkoukk/tiktoken-go"

	"github.com/fbianco/edbot/internal/core"
)

// TokenCounter estimates the token cost of a text fragment.
type TokenCounter func(text string) int

// Builder assembles the completion request: a system preamble rendered from
// the profile snapshot, the history window oldest first, then the new user
// turn last. When maxTokens > 0, oldest pairs are dropped until the request
// fits; at 0 the window stays purely pair-count bounded.
type Builder struct {
	maxTokens int
	counter   TokenCounter
}

func NewBuilder(maxTokens int, counter TokenCounter) *Builder {
	if counter == nil {
		counter = tiktokenCount
	}
	return &Builder{maxTokens: maxTokens, counter: counter}
}

func (b *Builder) Build(snap core.Snapshot, appts []core.Appointment, pairs []Pair, utterance string) []core.Message {
	messages := b.assemble(snap, appts, pairs, utterance)

	if b.maxTokens > 0 {
		for b.countTokens(messages) > b.maxTokens && len(pairs) > 0 {
			pairs = pairs[1:]
			messages = b.assemble(snap, appts, pairs, utterance)
		}
	}
	return messages
}

// CountTokens reports the approximate token cost of a built request.
func (b *Builder) CountTokens(messages []core.Message) int {
	return b.countTokens(messages)
}

func (b *Builder) assemble(snap core.Snapshot, appts []core.Appointment, pairs []Pair, utterance string) []core.Message {
	messages := make([]core.Message, 0, len(pairs)*2+2)
	messages = append(messages, core.Message{
		Role:    core.RoleSystem,
		Content: renderPreamble(snap, appts),
	})
	for _, p := range pairs {
		messages = append(messages,
			core.Message{Role: core.RoleUser, Content: p.User},
			core.Message{Role: core.RoleAssistant, Content: p.Assistant},
		)
	}
	messages = append(messages, core.Message{Role: core.RoleUser, Content: utterance})
	return messages
}

func renderPreamble(snap core.Snapshot, appts []core.Appointment) string {
	var sb strings.Builder
	sb.WriteString("You are " + core.EdName + ", a personal desktop assistant. Be concise and helpful.\n")
	sb.WriteString("\nUser profile:\n")

	if name := snap.Info[core.FactName]; name != "" {
		fmt.Fprintf(&sb, "- Name: %s\n", name)
	}
	if addr := snap.Info[core.FactPreferredAddress]; addr != "" {
		fmt.Fprintf(&sb, "- Preferred form of address: %s\n", addr)
	}
	start, end := snap.Info[core.FactWorkStart], snap.Info[core.FactWorkEnd]
	if start != "" && end != "" {
		fmt.Fprintf(&sb, "- Work hours: %s to %s\n", start, end)
	}

	if len(snap.Interests) > 0 {
		topics := make([]string, 0, len(snap.Interests))
		for _, in := range snap.Interests {
			topics = append(topics, in.Topic)
		}
		fmt.Fprintf(&sb, "- Interests: %s\n", strings.Join(topics, ", "))
	}

	if len(snap.Programming) > 0 {
		entries := make([]string, 0, len(snap.Programming))
		for _, pk := range snap.Programming {
			entries = append(entries, formatKnowledge(pk))
		}
		fmt.Fprintf(&sb, "- Programming: %s\n", strings.Join(entries, ", "))
	}

	if len(appts) > 0 {
		sb.WriteString("\nUpcoming appointments:\n")
		for _, a := range appts {
			fmt.Fprintf(&sb, "- %s at %s\n", a.Title, a.Moment.Format(time.RFC1123))
		}
	}

	return sb.String()
}

func formatKnowledge(pk core.ProgrammingKnowledge) string {
	switch {
	case pk.Language != "" && pk.Framework != "":
		return fmt.Sprintf("%s (%s)", pk.Language, pk.Framework)
	case pk.Language != "":
		return pk.Language
	default:
		return fmt.Sprintf("(%s)", pk.Framework)
	}
}

func (b *Builder) countTokens(messages []core.Message) int {
	total := 0
	for _, m := range messages {
		total += b.counter(m.Content) + 4
	}
	return total
}

var (
	tokenizerOnce sync.Once
	tokenizer     *tiktoken.Tiktoken
)

func tiktokenCount(text string) int {
	tokenizerOnce.Do(func() {
		tk, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			tokenizer = tk
		}
	})
	if tokenizer == nil {
		// Rough fallback when the encoding is unavailable offline.
		return len(text) / 4
	}
	return len(tokenizer.Encode(text, nil, nil))
}
