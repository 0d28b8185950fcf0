package platform

import (
	"time"

	"focusforge/internal/core/phasetimer"
)

// IdleProvider returns the duration since last user input.
type IdleProvider interface {
	IdleDuration() (time.Duration, error)
}

var _ phasetimer.IdleChecker = IdleProvider(nil)

// NewIdleProvider returns a platform-specific idle provider. Providers
// that cannot measure input return phasetimer.ErrIdleUnsupported.
func NewIdleProvider() IdleProvider {
	return newIdleProvider()
}

func millisToDuration(idleMillis int64) time.Duration {
	if idleMillis < 0 {
		idleMillis = 0
	}
	return time.Duration(idleMillis) * time.Millisecond
}
