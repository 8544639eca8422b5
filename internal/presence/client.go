package presence

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"sync"

	"github.com/google/uuid"
)

// IPC opcodes.
const (
	opHandshake = 0
	opFrame     = 1
	opClose     = 2
)

// Publisher is what the daemon needs from a presence backend. done is
// invoked with the result of the publish so callers can log it without
// blocking on the pipe themselves.
type Publisher interface {
	UpdatePresence(activity Activity, done func(error))
	ClearPresence()
	Close()
}

// Client talks to a local Discord client over its IPC socket. The
// connection is made lazily on the first publish and re-established
// after pipe errors.
type Client struct {
	appID string

	mu   sync.Mutex
	conn net.Conn
}

// NewClient returns an unconnected client for the given application ID.
func NewClient(appID string) *Client {
	return &Client{appID: appID}
}

// Connected reports whether a handshake has completed and the socket is
// still open as far as we know.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Connect dials the Discord IPC socket and performs the handshake. It
// is safe to call on an already-connected client.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectLocked()
}

func (c *Client) connectLocked() error {
	if c.conn != nil {
		return nil
	}
	conn, err := dialIPC()
	if err != nil {
		return err
	}
	handshake := struct {
		V        int    `json:"v"`
		ClientID string `json:"client_id"`
	}{V: 1, ClientID: c.appID}
	if err := writeFrame(conn, opHandshake, handshake); err != nil {
		conn.Close()
		return fmt.Errorf("presence handshake: %w", err)
	}
	if _, _, err := readFrame(conn); err != nil {
		conn.Close()
		return fmt.Errorf("presence handshake response: %w", err)
	}
	c.conn = conn
	return nil
}

// UpdatePresence publishes the activity, reconnecting if the pipe was
// lost since the last call. done receives the final result.
func (c *Client) UpdatePresence(activity Activity, done func(error)) {
	err := c.setActivity(&activity)
	if done != nil {
		done(err)
	}
}

// ClearPresence removes any published activity. Errors are swallowed;
// a clear against a dead pipe has nothing left to clear.
func (c *Client) ClearPresence() {
	_ = c.setActivity(nil)
}

func (c *Client) setActivity(activity *Activity) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.connectLocked(); err != nil {
		return err
	}
	cmd := struct {
		Cmd   string `json:"cmd"`
		Args  any    `json:"args"`
		Nonce string `json:"nonce"`
	}{
		Cmd: "SET_ACTIVITY",
		Args: struct {
			PID      int       `json:"pid"`
			Activity *Activity `json:"activity"`
		}{PID: os.Getpid(), Activity: activity},
		Nonce: uuid.NewString(),
	}
	if err := writeFrame(c.conn, opFrame, cmd); err != nil {
		c.dropLocked()
		return fmt.Errorf("presence publish: %w", err)
	}
	_, payload, err := readFrame(c.conn)
	if err != nil {
		c.dropLocked()
		return fmt.Errorf("presence publish response: %w", err)
	}
	var resp struct {
		Evt  string `json:"evt"`
		Data struct {
			Message string `json:"message"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &resp); err == nil && resp.Evt == "ERROR" {
		return fmt.Errorf("presence publish rejected: %s", resp.Data.Message)
	}
	return nil
}

// Close clears the activity and tears down the socket.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return
	}
	_ = writeFrame(c.conn, opClose, struct{}{})
	c.dropLocked()
}

func (c *Client) dropLocked() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func writeFrame(conn net.Conn, opcode int32, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, opcode)
	binary.Write(&buf, binary.LittleEndian, int32(len(payload)))
	buf.Write(payload)
	_, err = conn.Write(buf.Bytes())
	return err
}

func readFrame(conn net.Conn) (int32, []byte, error) {
	var header struct {
		Opcode int32
		Length int32
	}
	if err := binary.Read(conn, binary.LittleEndian, &header); err != nil {
		return 0, nil, err
	}
	if header.Length < 0 || header.Length > 1<<20 {
		return 0, nil, fmt.Errorf("frame length %d out of range", header.Length)
	}
	payload := make([]byte, header.Length)
	if _, err := io.ReadFull(conn, payload); err != nil {
		return 0, nil, err
	}
	return header.Opcode, payload, nil
}
