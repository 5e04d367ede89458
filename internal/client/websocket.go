// ABOUTME: WebSocket client for the tone host bridge
// ABOUTME: Acts as a host runtime: pulls frames and publishes the output sample rate
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Resonate-Protocol/resonate-tone/internal/protocol"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/gorilla/websocket"
)

// handshakeTimeout bounds the wait for server/hello
const handshakeTimeout = 5 * time.Second

// ErrClosed is returned after Close
var ErrClosed = errors.New("client closed")

// ServerError is a request rejected by the bridge
type ServerError struct {
	Code    string
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("bridge error %s: %s", e.Code, e.Message)
}

// Client drives a remote tone stream. Requests are serialized; one is in
// flight at a time, matching the bridge's single-host model.
type Client struct {
	conn  *websocket.Conn
	hello protocol.ServerHello

	mu     sync.Mutex
	closed bool
}

// Dial connects to the bridge at url (ws://host:port/path) and waits for server/hello
func Dial(url string) (*Client, error) {
	log.Printf("Connecting to %s", url)

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("dial failed: %w", err)
	}

	c := &Client{conn: conn}
	if err := c.handshake(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("handshake failed: %w", err)
	}

	log.Printf("Connected to %s (%.0f Hz, %d channels)", c.hello.Name, c.hello.SampleRate, c.hello.Channels)
	return c, nil
}

func (c *Client) handshake() error {
	c.conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	defer c.conn.SetReadDeadline(time.Time{})

	env, err := c.readEnvelope()
	if err != nil {
		return err
	}
	if env.Type != protocol.TypeServerHello {
		return fmt.Errorf("expected %s, got %s", protocol.TypeServerHello, env.Type)
	}
	if err := json.Unmarshal(env.Payload, &c.hello); err != nil {
		return fmt.Errorf("failed to parse server hello: %w", err)
	}
	if c.hello.Format != protocol.SampleFormat || c.hello.Channels != audio.StereoChannels {
		return fmt.Errorf("unsupported stream: %s with %d channels", c.hello.Format, c.hello.Channels)
	}
	return nil
}

// Hello returns the stream description sent by the bridge
func (c *Client) Hello() protocol.ServerHello {
	return c.hello
}

// Fill requests frames and decodes them into buf, which must hold
// frames*2 samples. Returns the number of frames written.
func (c *Client) Fill(buf []float32, frames int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, ErrClosed
	}
	if err := c.send(protocol.TypeClientFill, protocol.Fill{Frames: frames}); err != nil {
		return 0, err
	}

	msgType, data, err := c.conn.ReadMessage()
	if err != nil {
		return 0, fmt.Errorf("read failed: %w", err)
	}
	if msgType == websocket.TextMessage {
		return 0, decodeError(data)
	}

	n := audio.Float32LE(buf, data)
	return n / audio.StereoChannels, nil
}

// SetSampleRate publishes a new output rate and returns the rate the bridge applied
func (c *Client) SetSampleRate(hz float64) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, ErrClosed
	}
	if err := c.send(protocol.TypeClientSampleRate, protocol.SampleRate{SampleRate: hz}); err != nil {
		return 0, err
	}

	env, err := c.readEnvelope()
	if err != nil {
		return 0, err
	}
	switch env.Type {
	case protocol.TypeServerSampleRate:
		var ack protocol.SampleRate
		if err := json.Unmarshal(env.Payload, &ack); err != nil {
			return 0, fmt.Errorf("failed to parse sample rate ack: %w", err)
		}
		return ack.SampleRate, nil
	case protocol.TypeServerError:
		return 0, payloadError(env.Payload)
	default:
		return 0, fmt.Errorf("unexpected message %s", env.Type)
	}
}

// Close closes the connection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return c.conn.Close()
}

func (c *Client) send(msgType string, payload interface{}) error {
	if err := c.conn.WriteJSON(protocol.Message{Type: msgType, Payload: payload}); err != nil {
		return fmt.Errorf("failed to send %s: %w", msgType, err)
	}
	return nil
}

func (c *Client) readEnvelope() (protocol.Envelope, error) {
	var env protocol.Envelope

	msgType, data, err := c.conn.ReadMessage()
	if err != nil {
		return env, fmt.Errorf("read failed: %w", err)
	}
	if msgType != websocket.TextMessage {
		return env, fmt.Errorf("expected text message, got type %d", msgType)
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return env, fmt.Errorf("failed to parse message: %w", err)
	}
	return env, nil
}

func decodeError(data []byte) error {
	var env protocol.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("failed to parse message: %w", err)
	}
	if env.Type != protocol.TypeServerError {
		return fmt.Errorf("unexpected message %s", env.Type)
	}
	return payloadError(env.Payload)
}

func payloadError(raw json.RawMessage) error {
	var e protocol.Error
	if err := json.Unmarshal(raw, &e); err != nil {
		return fmt.Errorf("failed to parse error: %w", err)
	}
	return &ServerError{Code: e.Code, Message: e.Message}
}
