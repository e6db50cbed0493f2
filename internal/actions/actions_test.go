package actions

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fbianco/edbot/internal/core"
)

type execCall struct {
	name string
	args []string
}

func newStubRunner() (*Runner, *[]execCall) {
	calls := &[]execCall{}
	r := NewRunner("/tmp")
	r.start = func(name string, args ...string) error {
		*calls = append(*calls, execCall{name, args})
		return nil
	}
	r.output = func(ctx context.Context, name string, args ...string) (string, error) {
		*calls = append(*calls, execCall{name, args})
		return "", nil
	}
	return r, calls
}

func TestRun_Open(t *testing.T) {
	r, calls := newStubRunner()

	status, err := r.Run(context.Background(), core.ActionOpen, "notepad")
	if err != nil {
		t.Fatal(err)
	}
	if status != "Opening notepad..." {
		t.Errorf("unexpected status %q", status)
	}
	if len(*calls) != 1 || (*calls)[0].name != "notepad" {
		t.Errorf("unexpected exec calls %+v", *calls)
	}
}

func TestRun_OpenFallsBackToDesktopOpener(t *testing.T) {
	r, calls := newStubRunner()
	failFirst := true
	r.start = func(name string, args ...string) error {
		*calls = append(*calls, execCall{name, args})
		if failFirst {
			failFirst = false
			return errors.New("not found")
		}
		return nil
	}

	status, err := r.Run(context.Background(), core.ActionOpen, "report.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(status, "report.pdf") {
		t.Errorf("unexpected status %q", status)
	}
	if len(*calls) != 2 || (*calls)[1].name != "xdg-open" {
		t.Errorf("expected xdg-open fallback, got %+v", *calls)
	}
}

func TestRun_VolumeSubActions(t *testing.T) {
	tests := []struct {
		sub     string
		wantArg string
	}{
		{"increase", "5%+"},
		{"decrease", "5%-"},
		{"mute", "toggle"},
	}

	for _, tt := range tests {
		t.Run(tt.sub, func(t *testing.T) {
			r, calls := newStubRunner()
			if _, err := r.Run(context.Background(), core.ActionVolume, tt.sub); err != nil {
				t.Fatal(err)
			}
			last := (*calls)[len(*calls)-1]
			if last.name != "amixer" || last.args[len(last.args)-1] != tt.wantArg {
				t.Errorf("unexpected call %+v", last)
			}
		})
	}
}

func TestRun_VolumeUnknownSubAction(t *testing.T) {
	r, _ := newStubRunner()

	_, err := r.Run(context.Background(), core.ActionVolume, "loudest")
	var actionErr *core.ActionError
	if !errors.As(err, &actionErr) {
		t.Fatalf("expected ActionError, got %v", err)
	}
	if actionErr.Verb != core.ActionVolume {
		t.Errorf("unexpected verb %q", actionErr.Verb)
	}
}

func TestRun_MediaSubActions(t *testing.T) {
	tests := []struct {
		sub     string
		wantArg string
	}{
		{"play-pause", "play-pause"},
		{"next", "next"},
		{"previous", "previous"},
		{"stop", "stop"},
	}

	for _, tt := range tests {
		t.Run(tt.sub, func(t *testing.T) {
			r, calls := newStubRunner()
			if _, err := r.Run(context.Background(), core.ActionMedia, tt.sub); err != nil {
				t.Fatal(err)
			}
			last := (*calls)[len(*calls)-1]
			if last.name != "playerctl" || last.args[0] != tt.wantArg {
				t.Errorf("unexpected call %+v", last)
			}
		})
	}
}

func TestRun_MediaUnknownSubAction(t *testing.T) {
	r, _ := newStubRunner()

	_, err := r.Run(context.Background(), core.ActionMedia, "rewind")
	var actionErr *core.ActionError
	if !errors.As(err, &actionErr) {
		t.Fatalf("expected ActionError, got %v", err)
	}
	if actionErr.Verb != core.ActionMedia {
		t.Errorf("unexpected verb %q", actionErr.Verb)
	}
}

func TestRun_SearchEscapesQuery(t *testing.T) {
	r, calls := newStubRunner()

	status, err := r.Run(context.Background(), core.ActionSearch, "go generics tutorial")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(status, "go generics tutorial") {
		t.Errorf("status should echo the query, got %q", status)
	}
	url := (*calls)[0].args[0]
	if strings.Contains(url, " ") {
		t.Errorf("query must be escaped, got %q", url)
	}
}

func TestRun_ExecFailureBecomesActionError(t *testing.T) {
	r, _ := newStubRunner()
	r.output = func(ctx context.Context, name string, args ...string) (string, error) {
		return "", errors.New("command not found")
	}

	_, err := r.Run(context.Background(), core.ActionClose, "firefox")
	var actionErr *core.ActionError
	if !errors.As(err, &actionErr) {
		t.Fatalf("expected ActionError, got %v", err)
	}
}

func TestRun_ProcessesTruncatesToTopTen(t *testing.T) {
	r, _ := newStubRunner()
	var lines []string
	lines = append(lines, "  PID COMMAND %MEM")
	for i := 0; i < 20; i++ {
		lines = append(lines, "  123 someproc 1.0")
	}
	r.output = func(ctx context.Context, name string, args ...string) (string, error) {
		return strings.Join(lines, "\n"), nil
	}

	out, err := r.Run(context.Background(), core.ActionProcesses, "")
	if err != nil {
		t.Fatal(err)
	}
	if got := len(strings.Split(out, "\n")); got != 11 {
		t.Errorf("expected header plus ten rows, got %d lines", got)
	}
}
