package wallpaperlib

import (
	"context"
	"errors"
	"os/exec"
	"reflect"
	"strings"
	"testing"
	"time"
)

type fakeRunner struct {
	calls     [][]string
	deadlines []bool
	failAt    int
	err       error
	stderr    string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	_, ok := ctx.Deadline()
	f.deadlines = append(f.deadlines, ok)
	if f.err != nil && len(f.calls) == f.failAt {
		return f.stderr, f.err
	}
	return "", nil
}

func TestApplyInvokesEachTargetInOrder(t *testing.T) {
	runner := &fakeRunner{}
	a := &Applier{Runner: runner, Command: "gsettings", Targets: DefaultTargets}

	path := "/wallpapers/a b.png"
	got, err := a.Apply(context.Background(), path)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if got != path {
		t.Fatalf("expected %q, got %q", path, got)
	}

	want := [][]string{
		{"gsettings", "set", "org.gnome.desktop.background", "picture-uri", "file:///wallpapers/a b.png"},
		{"gsettings", "set", "org.gnome.desktop.background", "picture-uri-dark", "file:///wallpapers/a b.png"},
		{"gsettings", "set", "org.gnome.desktop.screensaver", "picture-uri", "file:///wallpapers/a b.png"},
	}
	if !reflect.DeepEqual(runner.calls, want) {
		t.Fatalf("unexpected calls:\n got %v\nwant %v", runner.calls, want)
	}
}

func TestApplyStopsAtFirstFailure(t *testing.T) {
	runner := &fakeRunner{failAt: 2, err: errors.New("boom"), stderr: "no schema\n"}
	a := &Applier{Runner: runner, Targets: DefaultTargets}

	_, err := a.Apply(context.Background(), "/wallpapers/a.png")
	if !errors.Is(err, ErrCommand) {
		t.Fatalf("expected ErrCommand, got %v", err)
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *CommandError, got %T", err)
	}
	if cmdErr.Target != DefaultTargets[1] {
		t.Fatalf("unexpected failed target %v", cmdErr.Target)
	}
	if !reflect.DeepEqual(cmdErr.Applied, DefaultTargets[:1]) {
		t.Fatalf("unexpected applied targets %v", cmdErr.Applied)
	}
	if len(runner.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(runner.calls))
	}
	if runner.calls[0][0] != defaultGsettings {
		t.Fatalf("expected default command, got %q", runner.calls[0][0])
	}
	if !strings.Contains(err.Error(), "no schema") {
		t.Fatalf("expected stderr in error, got %q", err.Error())
	}
}

func TestApplyMissingExecutable(t *testing.T) {
	a := &Applier{
		Runner:  ExecRunner{},
		Command: "/nonexistent/wallpaper-randomizer/gsettings",
		Targets: DefaultTargets,
	}

	path, err := a.Apply(context.Background(), "/wallpapers/a.png")
	if err == nil {
		t.Fatalf("expected error, got path %q", path)
	}
	if !errors.Is(err, ErrCommand) {
		t.Fatalf("expected ErrCommand, got %v", err)
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) || len(cmdErr.Applied) != 0 {
		t.Fatalf("expected nothing applied, got %v", err)
	}
}

func TestApplyRejectsInvalidPath(t *testing.T) {
	runner := &fakeRunner{}
	a := &Applier{Runner: runner, Targets: DefaultTargets}

	for _, p := range []string{"", "/wallpapers/bad\xff.png", "/wallpapers/a\x00.png"} {
		_, err := a.Apply(context.Background(), p)
		if !errors.Is(err, ErrInvalidPath) {
			t.Fatalf("expected ErrInvalidPath for %q, got %v", p, err)
		}
	}
	if len(runner.calls) != 0 {
		t.Fatalf("expected no calls, got %v", runner.calls)
	}
}

func TestApplyTimeout(t *testing.T) {
	runner := &fakeRunner{}
	a := &Applier{Runner: runner, Targets: DefaultTargets, Timeout: time.Second}
	if _, err := a.Apply(context.Background(), "/wallpapers/a.png"); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	for i, ok := range runner.deadlines {
		if !ok {
			t.Fatalf("call %d had no deadline", i)
		}
	}

	runner = &fakeRunner{}
	a = &Applier{Runner: runner, Targets: DefaultTargets}
	if _, err := a.Apply(context.Background(), "/wallpapers/a.png"); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	for i, ok := range runner.deadlines {
		if ok {
			t.Fatalf("call %d unexpectedly had a deadline", i)
		}
	}
}

func TestExecRunnerExitStatus(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	ctx := context.Background()

	stderr, err := ExecRunner{}.Run(ctx, "sh", "-c", "echo oops >&2; exit 3")
	if err == nil {
		t.Fatalf("expected exit status error")
	}
	if strings.TrimSpace(stderr) != "oops" {
		t.Fatalf("unexpected stderr %q", stderr)
	}

	_, err = ExecRunner{IgnoreExitStatus: true}.Run(ctx, "sh", "-c", "exit 3")
	if err != nil {
		t.Fatalf("expected exit status to be ignored, got %v", err)
	}
}

func TestExecRunnerTimeout(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := ExecRunner{IgnoreExitStatus: true}.Run(ctx, "sleep", "5")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestNewApplierFromConfig(t *testing.T) {
	timeout := 3
	a := NewApplier(&Config{
		Gsettings:        "/usr/bin/gsettings",
		CommandTimeout:   &timeout,
		IgnoreExitStatus: true,
	})

	if a.Command != "/usr/bin/gsettings" {
		t.Fatalf("unexpected command %q", a.Command)
	}
	if a.Timeout != 3*time.Second {
		t.Fatalf("unexpected timeout %s", a.Timeout)
	}
	if r, ok := a.Runner.(ExecRunner); !ok || !r.IgnoreExitStatus {
		t.Fatalf("unexpected runner %#v", a.Runner)
	}

	a = NewApplier(&Config{})
	if a.Command != defaultGsettings || a.Timeout != defaultCommandTimeout*time.Second {
		t.Fatalf("unexpected defaults %q %s", a.Command, a.Timeout)
	}
	if len(a.Targets) != 3 {
		t.Fatalf("expected 3 targets, got %d", len(a.Targets))
	}
}
