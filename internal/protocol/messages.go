// ABOUTME: Host bridge message type definitions
// ABOUTME: Defines the JSON control messages exchanged with a remote host runtime
package protocol

import "encoding/json"

// Message types
const (
	TypeServerHello      = "server/hello"
	TypeServerError      = "server/error"
	TypeServerSampleRate = "server/sample_rate"
	TypeClientFill       = "client/fill"
	TypeClientSampleRate = "client/sample_rate"
)

// Error codes carried in server/error
const (
	ErrCodeBadMessage  = "bad_message"
	ErrCodeUnknownType = "unknown_type"
	ErrCodeBadFrames   = "bad_frames"
	ErrCodeBadRate     = "bad_sample_rate"
	ErrCodeNoStream    = "no_stream"
)

// SampleFormat names the binary layout of fill responses
const SampleFormat = "f32le"

// Message is the top-level wrapper for all control messages
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Envelope is used when decoding, deferring payload parsing until the type is known
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ServerHello is sent once when a host connects
type ServerHello struct {
	Name       string  `json:"name"`
	Version    string  `json:"version"`
	SampleRate float64 `json:"sample_rate"`
	Channels   int     `json:"channels"`
	Format     string  `json:"format"`
	MaxFrames  int     `json:"max_frames"`
}

// Fill asks for a number of frames. The answer is one binary message of
// Frames*Channels little-endian float32 samples.
type Fill struct {
	Frames int `json:"frames"`
}

// SampleRate publishes the host's output rate
type SampleRate struct {
	SampleRate float64 `json:"sample_rate"`
}

// Error reports a rejected request
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
