package platform

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"focusforge/internal/core/phasetimer"
)

type xprintidleProvider struct {
	path string
}

type unsupportedIdleProvider struct{}

func newIdleProvider() IdleProvider {
	// xprintidle only sees X11 input; a pure Wayland session reports nothing useful.
	if isPureWayland() {
		return unsupportedIdleProvider{}
	}
	path, err := exec.LookPath("xprintidle")
	if err != nil {
		return unsupportedIdleProvider{}
	}
	return &xprintidleProvider{path: path}
}

func isPureWayland() bool {
	sessionType := strings.ToLower(os.Getenv("XDG_SESSION_TYPE"))
	return sessionType == "wayland" && os.Getenv("DISPLAY") == ""
}

func (provider *xprintidleProvider) IdleDuration() (time.Duration, error) {
	output, err := exec.Command(provider.path).Output()
	if err != nil {
		return 0, fmt.Errorf("xprintidle: %w", err)
	}
	return parseIdleMillis(string(output))
}

func parseIdleMillis(output string) (time.Duration, error) {
	idleMillis, err := strconv.ParseInt(strings.TrimSpace(output), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse idle milliseconds: %w", err)
	}
	return millisToDuration(idleMillis), nil
}

func (unsupportedIdleProvider) IdleDuration() (time.Duration, error) {
	return 0, phasetimer.ErrIdleUnsupported
}
