// ABOUTME: Tests for host bridge message types
// ABOUTME: Pins the JSON wire shape seen by host runtimes
package protocol

import (
	"encoding/json"
	"testing"
)

func TestWireShape(t *testing.T) {
	tests := []struct {
		name     string
		msg      Message
		expected string
	}{
		{
			name:     "fill",
			msg:      Message{Type: TypeClientFill, Payload: Fill{Frames: 128}},
			expected: `{"type":"client/fill","payload":{"frames":128}}`,
		},
		{
			name:     "sample rate",
			msg:      Message{Type: TypeClientSampleRate, Payload: SampleRate{SampleRate: 48000}},
			expected: `{"type":"client/sample_rate","payload":{"sample_rate":48000}}`,
		},
		{
			name:     "error",
			msg:      Message{Type: TypeServerError, Payload: Error{Code: ErrCodeNoStream, Message: "idle"}},
			expected: `{"type":"server/error","payload":{"code":"no_stream","message":"idle"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.msg)
			if err != nil {
				t.Fatalf("failed to marshal: %v", err)
			}
			if string(data) != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, data)
			}
		})
	}
}

func TestEnvelopeDefersPayload(t *testing.T) {
	data := []byte(`{"type":"server/hello","payload":{"name":"tone","version":"0.1.0","sample_rate":44100,"channels":2,"format":"f32le","max_frames":2048}}`)

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if env.Type != TypeServerHello {
		t.Fatalf("expected type %s, got %s", TypeServerHello, env.Type)
	}

	var hello ServerHello
	if err := json.Unmarshal(env.Payload, &hello); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if hello.SampleRate != 44100 || hello.MaxFrames != 2048 || hello.Format != SampleFormat {
		t.Errorf("unexpected hello: %+v", hello)
	}
}
