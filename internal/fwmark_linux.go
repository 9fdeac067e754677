//go:build linux

package internal

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// setSocketMark applies SO_MARK so the platform's routing policy (e.g. an
// ip rule keyed on fwmark) can steer the telemetry connection onto a
// specific route, independent of the game's own traffic.
func setSocketMark(fd uintptr, mark uint32) error {
	if mark == 0 {
		return nil
	}
	if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_MARK, int(mark)); err != nil {
		return fmt.Errorf("setsockopt SO_MARK=%d: %w", mark, err)
	}
	return nil
}
