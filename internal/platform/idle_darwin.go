package platform

import (
	"time"

	"focusforge/internal/core/phasetimer"
)

type unsupportedIdleProvider struct{}

func newIdleProvider() IdleProvider {
	return unsupportedIdleProvider{}
}

func (unsupportedIdleProvider) IdleDuration() (time.Duration, error) {
	return 0, phasetimer.ErrIdleUnsupported
}
