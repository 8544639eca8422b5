//go:build windows

package presence

import (
	"fmt"
	"net"
	"time"

	"github.com/Microsoft/go-winio"
)

func dialIPC() (net.Conn, error) {
	timeout := 2 * time.Second
	var lastErr error
	for i := 0; i < 10; i++ {
		pipe := fmt.Sprintf(`\\.\pipe\discord-ipc-%d`, i)
		conn, err := winio.DialPipe(pipe, &timeout)
		if err == nil {
			return conn, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("discord ipc pipe not found: %w", lastErr)
}
