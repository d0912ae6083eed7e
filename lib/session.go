package wallpaperlib

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"regexp"
	"strings"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
)

const dbusAddress = "DBUS_SESSION_BUS_ADDRESS"

// gsettings silently writes nowhere useful without a session bus, which cron
// and systemd timers don't provide.
// For now just assume we're dealing with per-user dbus sessions
func sessionEnv() []string {
	env := os.Environ()
	if os.Getenv(dbusAddress) != "" {
		return env
	}

	u, err := user.Current()
	if err != nil || u.Uid == "" {
		return env
	}

	return append(env, dbusAddress+"=unix:path=/run/user/"+u.Uid+"/bus")
}

var displayRE = regexp.MustCompile(`^:[0-9]+`)

// Trims individual screens out of an X11 DISPLAY variable
func trimDisplay(display string) string {
	trimmed := displayRE.FindString(display)
	if trimmed != "" {
		return trimmed
	}
	return display
}

// Assumes a display ID of the form ":[0-9]+"
// True if it's definitely a local X session
func testXSession(display string) bool {
	_, err := os.Stat("/tmp/.X11-unix/X" + strings.TrimLeft(display, ":"))
	return err == nil
}

// WindowManager asks the window manager running on display for its name.
// An empty display falls back to $DISPLAY.
func WindowManager(display string) (string, error) {
	if display == "" {
		display = os.Getenv("DISPLAY")
	}

	d := trimDisplay(display)
	if d == "" {
		return "", errors.New("$DISPLAY is not set")
	}
	if !testXSession(d) {
		return "", fmt.Errorf(
			"[%s] is not a local X session. Wayland is not yet supported", d)
	}

	// Stop polluting stdout
	xgb.Logger.SetOutput(io.Discard)
	xgbutil.Logger.SetOutput(io.Discard)

	X, err := xgbutil.NewConnDisplay(d)
	if err != nil {
		return "", err
	}
	defer X.Conn().Close()

	return ewmh.GetEwmhWM(X)
}

func IsGnome(wm string) bool {
	return strings.Contains(strings.ToLower(wm), "gnome")
}
