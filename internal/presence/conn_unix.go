//go:build !windows

package presence

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"
)

// dialIPC tries the well-known Discord socket names under the runtime
// directories until one answers.
func dialIPC() (net.Conn, error) {
	var lastErr error
	for _, dir := range socketDirs() {
		for i := 0; i < 10; i++ {
			path := filepath.Join(dir, fmt.Sprintf("discord-ipc-%d", i))
			conn, err := net.DialTimeout("unix", path, 2*time.Second)
			if err == nil {
				return conn, nil
			}
			lastErr = err
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no candidate socket directories")
	}
	return nil, fmt.Errorf("discord ipc socket not found: %w", lastErr)
}

func socketDirs() []string {
	var dirs []string
	for _, env := range []string{"XDG_RUNTIME_DIR", "TMPDIR", "TMP", "TEMP"} {
		if dir := os.Getenv(env); dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return append(dirs, "/tmp")
}
