package wallpaperlib

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sys/execabs"
)

// Target is a single gsettings slot
type Target struct {
	Schema string
	Key    string
}

func (t Target) String() string {
	return t.Schema + " " + t.Key
}

// Applied in this order
var DefaultTargets = []Target{
	{Schema: "org.gnome.desktop.background", Key: "picture-uri"},
	{Schema: "org.gnome.desktop.background", Key: "picture-uri-dark"},
	{Schema: "org.gnome.desktop.screensaver", Key: "picture-uri"},
}

const defaultGsettings = "gsettings"

// Runner runs one external command to completion, returning whatever it wrote
// to stderr.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

type ExecRunner struct {
	// Only failures to spawn or communicate with the process are errors
	IgnoreExitStatus bool
}

func (r ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	var stderr bytes.Buffer

	cmd := execabs.CommandContext(ctx, name, args...)
	cmd.Env = sessionEnv()
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err == nil {
		return stderr.String(), nil
	}

	if ctx.Err() != nil {
		return stderr.String(), ctx.Err()
	}

	var exitErr *execabs.ExitError
	if r.IgnoreExitStatus && errors.As(err, &exitErr) {
		slog.Warn("Ignoring exit status", "command", name, "status", exitErr.ExitCode())
		return stderr.String(), nil
	}
	return stderr.String(), err
}

type Applier struct {
	Runner  Runner
	Command string
	Targets []Target
	// Zero means wait forever on each command
	Timeout time.Duration
}

func NewApplier(c *Config) *Applier {
	a := &Applier{
		Runner:  ExecRunner{},
		Command: defaultGsettings,
		Targets: DefaultTargets,
	}
	if c != nil {
		a.Runner = ExecRunner{IgnoreExitStatus: c.IgnoreExitStatus}
		if c.Gsettings != "" {
			a.Command = c.Gsettings
		}
		a.Timeout = time.Duration(c.Timeout()) * time.Second
	}
	return a
}

func FileURI(path AbsolutePath) string {
	return "file://" + path
}

// Apply sets path as the wallpaper for every target, stopping at the first
// failure. Returns path on success.
func (a *Applier) Apply(ctx context.Context, path AbsolutePath) (AbsolutePath, error) {
	if err := validatePath(path); err != nil {
		return "", err
	}

	uri := FileURI(path)
	applied := make([]Target, 0, len(a.Targets))

	for _, t := range a.Targets {
		stderr, err := a.set(ctx, t, uri)
		if err != nil {
			return "", &CommandError{
				Target:  t,
				Applied: applied,
				Stderr:  stderr,
				Err:     err,
			}
		}
		applied = append(applied, t)
	}

	return path, nil
}

func (a *Applier) set(ctx context.Context, t Target, uri string) (string, error) {
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	command := a.Command
	if command == "" {
		command = defaultGsettings
	}

	runner := a.Runner
	if runner == nil {
		runner = ExecRunner{}
	}

	slog.Debug("Running", "command", command, "schema", t.Schema, "key", t.Key, "uri", uri)
	return runner.Run(ctx, command, "set", t.Schema, t.Key, uri)
}
