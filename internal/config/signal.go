package config

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// ParseSignal accepts "SIGTERM", "TERM", "term" or a signal number.
func ParseSignal(name string) (unix.Signal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("empty signal name")
	}

	if n, err := strconv.Atoi(name); err == nil {
		if n <= 0 || unix.SignalName(unix.Signal(n)) == "" {
			return 0, fmt.Errorf("unknown signal: %d", n)
		}

		return unix.Signal(n), nil
	}

	upper := strings.ToUpper(name)
	if !strings.HasPrefix(upper, "SIG") {
		upper = "SIG" + upper
	}

	sig := unix.SignalNum(upper)
	if sig == 0 {
		return 0, fmt.Errorf("unknown signal: %q", name)
	}

	return sig, nil
}
