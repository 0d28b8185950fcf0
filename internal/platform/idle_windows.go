package platform

import (
	"fmt"
	"syscall"
	"time"
	"unsafe"
)

var (
	procGetLastInputInfo = syscall.NewLazyDLL("user32.dll").NewProc("GetLastInputInfo")
	procGetTickCount     = syscall.NewLazyDLL("kernel32.dll").NewProc("GetTickCount")
)

type lastInputProvider struct{}

type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

func newIdleProvider() IdleProvider {
	return lastInputProvider{}
}

func (lastInputProvider) IdleDuration() (time.Duration, error) {
	info := lastInputInfo{cbSize: uint32(unsafe.Sizeof(lastInputInfo{}))}
	result, _, err := procGetLastInputInfo.Call(uintptr(unsafe.Pointer(&info)))
	if result == 0 {
		return 0, fmt.Errorf("get last input info: %w", err)
	}

	// Both values are 32-bit millisecond tick counts, so subtraction wraps correctly.
	tick, _, _ := procGetTickCount.Call()
	idleMillis := uint32(tick) - info.dwTime
	return millisToDuration(int64(idleMillis)), nil
}
