// Package actions executes OS-level side effects on behalf of the router.
// Status strings describe the request having been issued; the underlying
// effect is asynchronous and opaque to the dispatch core.
package actions

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/fbianco/edbot/internal/core"
	"github.com/fbianco/edbot/pkg/log"
)

const searchURL = "https://www.google.com/search?q="

// Runner dispatches action verbs to external commands. The exec seams are
// injectable so tests never spawn processes.
type Runner struct {
	screenshotDir string

	// start launches a command without waiting for it to finish.
	start func(name string, args ...string) error
	// output runs a command to completion and captures stdout.
	output func(ctx context.Context, name string, args ...string) (string, error)
}

func NewRunner(screenshotDir string) *Runner {
	return &Runner{
		screenshotDir: screenshotDir,
		start: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
		output: func(ctx context.Context, name string, args ...string) (string, error) {
			out, err := exec.CommandContext(ctx, name, args...).Output()
			return string(out), err
		},
	}
}

func (r *Runner) Run(ctx context.Context, verb core.ActionVerb, arg string) (string, error) {
	log.FromCtx(ctx).Info().Str("verb", string(verb)).Str("arg", arg).Msg("running system action")

	switch verb {
	case core.ActionOpen:
		return r.open(arg)
	case core.ActionClose:
		return r.close(ctx, arg)
	case core.ActionVolume:
		return r.volume(ctx, arg)
	case core.ActionSearch:
		return r.search(arg)
	case core.ActionScreenshot:
		return r.screenshot(ctx)
	case core.ActionProcesses:
		return r.processes(ctx)
	case core.ActionMedia:
		return r.media(ctx, arg)
	case core.ActionNotify:
		return r.notify(arg)
	default:
		return "", &core.ActionError{Verb: verb, Err: fmt.Errorf("unsupported verb")}
	}
}

func (r *Runner) open(app string) (string, error) {
	if app == "" {
		return "", &core.ActionError{Verb: core.ActionOpen, Err: fmt.Errorf("nothing to open")}
	}
	// Try the name as a binary first; fall back to the desktop opener for
	// files and URLs.
	if err := r.start(app); err != nil {
		if err := r.start("xdg-open", app); err != nil {
			return "", &core.ActionError{Verb: core.ActionOpen, Err: err}
		}
	}
	return fmt.Sprintf("Opening %s...", app), nil
}

func (r *Runner) close(ctx context.Context, app string) (string, error) {
	if app == "" {
		return "", &core.ActionError{Verb: core.ActionClose, Err: fmt.Errorf("nothing to close")}
	}
	if _, err := r.output(ctx, "pkill", "-f", app); err != nil {
		return "", &core.ActionError{Verb: core.ActionClose, Err: err}
	}
	return fmt.Sprintf("Closing %s...", app), nil
}

func (r *Runner) volume(ctx context.Context, sub string) (string, error) {
	var amixerArg, status string
	switch sub {
	case "increase":
		amixerArg, status = "5%+", "Turning the volume up..."
	case "decrease":
		amixerArg, status = "5%-", "Turning the volume down..."
	case "mute":
		amixerArg, status = "toggle", "Toggling mute..."
	default:
		return "", &core.ActionError{Verb: core.ActionVolume, Err: fmt.Errorf("unknown volume action %q", sub)}
	}
	if _, err := r.output(ctx, "amixer", "-q", "set", "Master", amixerArg); err != nil {
		return "", &core.ActionError{Verb: core.ActionVolume, Err: err}
	}
	return status, nil
}

func (r *Runner) search(query string) (string, error) {
	if query == "" {
		return "", &core.ActionError{Verb: core.ActionSearch, Err: fmt.Errorf("empty query")}
	}
	if err := r.start("xdg-open", searchURL+url.QueryEscape(query)); err != nil {
		return "", &core.ActionError{Verb: core.ActionSearch, Err: err}
	}
	return fmt.Sprintf("Searching the web for '%s'...", query), nil
}

func (r *Runner) screenshot(ctx context.Context) (string, error) {
	name := fmt.Sprintf("screenshot_%s.png", time.Now().Format("20060102_150405"))
	path := filepath.Join(r.screenshotDir, name)
	if _, err := r.output(ctx, "scrot", path); err != nil {
		return "", &core.ActionError{Verb: core.ActionScreenshot, Err: err}
	}
	return fmt.Sprintf("Screenshot saved as %s", path), nil
}

func (r *Runner) processes(ctx context.Context) (string, error) {
	out, err := r.output(ctx, "ps", "-eo", "pid,comm,pmem", "--sort=-pmem")
	if err != nil {
		return "", &core.ActionError{Verb: core.ActionProcesses, Err: err}
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) > 11 { // header plus top ten
		lines = lines[:11]
	}
	return strings.Join(lines, "\n"), nil
}

func (r *Runner) media(ctx context.Context, sub string) (string, error) {
	var playerctlArg, status string
	switch sub {
	case "play-pause":
		playerctlArg, status = "play-pause", "Toggling playback..."
	case "next":
		playerctlArg, status = "next", "Skipping to the next track..."
	case "previous":
		playerctlArg, status = "previous", "Going back a track..."
	case "stop":
		playerctlArg, status = "stop", "Stopping playback..."
	default:
		return "", &core.ActionError{Verb: core.ActionMedia, Err: fmt.Errorf("unknown media action %q", sub)}
	}
	if _, err := r.output(ctx, "playerctl", playerctlArg); err != nil {
		return "", &core.ActionError{Verb: core.ActionMedia, Err: err}
	}
	return status, nil
}

func (r *Runner) notify(text string) (string, error) {
	if err := r.start("notify-send", core.EdName, text); err != nil {
		return "", &core.ActionError{Verb: core.ActionNotify, Err: err}
	}
	return "Notification sent.", nil
}
