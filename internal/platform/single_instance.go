package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
)

// ErrAlreadyRunning indicates another timer instance already holds the lock.
var ErrAlreadyRunning = errors.New("another instance is already running")

const (
	minLockPort = 20000
	maxLockPort = 39999
)

// InstanceGuard keeps a localhost listener open for as long as this process
// owns the session counter.
type InstanceGuard struct {
	listener net.Listener
}

// AcquireSingleInstance binds a port derived from appName. The GUI and the
// terminal UI share the same lock because both write the session file.
func AcquireSingleInstance(appName string) (*InstanceGuard, error) {
	address := fmt.Sprintf("127.0.0.1:%d", portFromName(appName))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w (lock %s): %v", ErrAlreadyRunning, address, err)
	}
	return &InstanceGuard{listener: listener}, nil
}

// Release frees the lock. It is safe to call on a nil guard.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	err := guard.listener.Close()
	guard.listener = nil
	return err
}

// Address returns the bound lock address.
func (guard *InstanceGuard) Address() string {
	if guard == nil || guard.listener == nil {
		return ""
	}
	return guard.listener.Addr().String()
}

func portFromName(appName string) int {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(slugName(appName)))
	rangeSize := uint32(maxLockPort - minLockPort + 1)
	return minLockPort + int(hash.Sum32()%rangeSize)
}
