// ABOUTME: WebSocket transport for host-driven audio
// ABOUTME: A remote runtime pulls frames and publishes its sample rate over one connection
package hostbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Resonate-Protocol/resonate-tone/internal/discovery"
	"github.com/Resonate-Protocol/resonate-tone/internal/protocol"
	"github.com/Resonate-Protocol/resonate-tone/internal/version"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/gorilla/websocket"
)

const (
	// Path is the WebSocket endpoint
	Path = "/tone"

	// MaxFramesPerRequest caps a single fill request
	MaxFramesPerRequest = 2048
)

// Config holds bridge server configuration
type Config struct {
	Port       int
	Name       string
	EnableMDNS bool
}

// Server exposes a Registry over WebSocket. Only one host may drive the
// stream at a time since the generator is not reentrant.
type Server struct {
	config   Config
	registry *Registry
	upgrader websocket.Upgrader
	mux      *http.ServeMux

	listener    net.Listener
	httpServer  *http.Server
	mdnsManager *discovery.Manager

	hostMu  sync.Mutex
	host    *websocket.Conn
	closing bool
	hostWG  sync.WaitGroup

	busy     atomic.Bool
	served   atomic.Uint64
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewServer creates a bridge server for registry
func NewServer(config Config, registry *Registry) *Server {
	s := &Server{
		config:   config,
		registry: registry,
		mux:      http.NewServeMux(),
		upgrader: websocket.Upgrader{
			// Browser pages are served from anywhere on the local network
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		stopChan: make(chan struct{}),
	}
	s.mux.HandleFunc(Path, s.handleWebSocket)
	return s
}

// Handler returns the HTTP handler serving the bridge
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Listen binds the bridge port and starts mDNS advertisement. Bind
// failures are returned here so callers can fail their own setup.
func (s *Server) Listen() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = ln

	log.Printf("Host bridge listening on %s%s", ln.Addr(), Path)

	if s.config.EnableMDNS {
		s.mdnsManager = discovery.NewManager(discovery.Config{
			ServiceName: s.config.Name,
			Port:        ln.Addr().(*net.TCPAddr).Port,
			Path:        Path,
		})

		if err := s.mdnsManager.Advertise(); err != nil {
			log.Printf("Failed to start mDNS advertisement: %v", err)
		} else {
			log.Printf("mDNS advertisement started")
		}
	}

	return nil
}

// Addr returns the bound address, or nil before Listen
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts hosts on the listener opened by Listen until Stop is called
func (s *Server) Serve() error {
	if s.listener == nil {
		return errors.New("host bridge not listening")
	}

	s.httpServer = &http.Server{Handler: s.mux}

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(s.listener); !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case <-s.stopChan:
		log.Printf("Host bridge shutting down...")
	case err := <-errChan:
		log.Printf("HTTP server error: %v", err)
		serverErr = err
	}

	if s.mdnsManager != nil {
		s.mdnsManager.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Shutdown leaves hijacked connections alone
	s.closeHost()
	s.hostWG.Wait()

	if serverErr != nil {
		return fmt.Errorf("HTTP server failed: %w", serverErr)
	}
	return nil
}

// Stop stops the server
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

// Connected reports whether a host is currently attached
func (s *Server) Connected() bool {
	return s.busy.Load()
}

// FillsServed returns the number of fill requests answered
func (s *Server) FillsServed() uint64 {
	return s.served.Load()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.busy.CompareAndSwap(false, true) {
		log.Printf("Rejecting host %s: another host is driving the stream", r.RemoteAddr)
		http.Error(w, "another host is already driving the stream", http.StatusConflict)
		return
	}
	defer s.busy.Store(false)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	if !s.trackHost(conn) {
		return
	}
	defer s.untrackHost(conn)

	log.Printf("Host connected from %s", r.RemoteAddr)
	s.handleConnection(conn)
	log.Printf("Host disconnected: %s", r.RemoteAddr)
}

// trackHost records conn so shutdown can close it. It refuses once
// shutdown has begun.
func (s *Server) trackHost(conn *websocket.Conn) bool {
	s.hostMu.Lock()
	defer s.hostMu.Unlock()

	if s.closing {
		return false
	}
	s.host = conn
	s.hostWG.Add(1)
	return true
}

// untrackHost releases the connection before signalling shutdown
func (s *Server) untrackHost(conn *websocket.Conn) {
	conn.Close()
	s.busy.Store(false)

	s.hostMu.Lock()
	s.host = nil
	s.hostMu.Unlock()
	s.hostWG.Done()
}

// closeHost disconnects the attached host, if any, and refuses new ones
func (s *Server) closeHost() {
	s.hostMu.Lock()
	defer s.hostMu.Unlock()

	s.closing = true
	if s.host != nil {
		s.host.Close()
	}
}

// handleConnection serves one host until it disconnects
func (s *Server) handleConnection(conn *websocket.Conn) {
	hello := protocol.ServerHello{
		Name:       s.config.Name,
		Version:    version.Version,
		SampleRate: s.registry.SampleRate(),
		Channels:   audio.StereoChannels,
		Format:     protocol.SampleFormat,
		MaxFrames:  MaxFramesPerRequest,
	}
	if err := sendMessage(conn, protocol.TypeServerHello, hello); err != nil {
		log.Printf("Error sending server hello: %v", err)
		return
	}

	// reused across requests
	samples := make([]float32, MaxFramesPerRequest*audio.StereoChannels)
	payload := make([]byte, len(samples)*audio.BytesPerSample)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}

		if msgType != websocket.TextMessage {
			if err := sendError(conn, protocol.ErrCodeBadMessage, "expected a text control message"); err != nil {
				log.Printf("Error sending error: %v", err)
				return
			}
			continue
		}

		var env protocol.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			if err := sendError(conn, protocol.ErrCodeBadMessage, err.Error()); err != nil {
				log.Printf("Error sending error: %v", err)
				return
			}
			continue
		}

		switch env.Type {
		case protocol.TypeClientFill:
			if err := s.handleFill(conn, env.Payload, samples, payload); err != nil {
				log.Printf("Error answering fill: %v", err)
				return
			}
		case protocol.TypeClientSampleRate:
			if err := s.handleSampleRate(conn, env.Payload); err != nil {
				log.Printf("Error answering sample rate: %v", err)
				return
			}
		default:
			if err := sendError(conn, protocol.ErrCodeUnknownType, fmt.Sprintf("unknown message type %q", env.Type)); err != nil {
				log.Printf("Error sending error: %v", err)
				return
			}
		}
	}
}

// handleFill answers a fill request with one binary frame. Only write
// failures are returned; rejected requests get a server/error.
func (s *Server) handleFill(conn *websocket.Conn, raw json.RawMessage, samples []float32, payload []byte) error {
	var req protocol.Fill
	if err := json.Unmarshal(raw, &req); err != nil {
		return sendError(conn, protocol.ErrCodeBadMessage, err.Error())
	}
	if req.Frames < 1 || req.Frames > MaxFramesPerRequest {
		return sendError(conn, protocol.ErrCodeBadFrames,
			fmt.Sprintf("frames must be between 1 and %d", MaxFramesPerRequest))
	}

	n := req.Frames * audio.StereoChannels
	if !s.registry.Fill(samples[:n], req.Frames) {
		return sendError(conn, protocol.ErrCodeNoStream, "no stream has been started")
	}

	audio.PutFloat32LE(payload, samples[:n])
	s.served.Add(1)
	return conn.WriteMessage(websocket.BinaryMessage, payload[:n*audio.BytesPerSample])
}

// handleSampleRate applies a host rate and acknowledges it. Only write
// failures are returned.
func (s *Server) handleSampleRate(conn *websocket.Conn, raw json.RawMessage) error {
	var req protocol.SampleRate
	if err := json.Unmarshal(raw, &req); err != nil {
		return sendError(conn, protocol.ErrCodeBadMessage, err.Error())
	}
	if err := s.registry.SetSampleRate(req.SampleRate); err != nil {
		return sendError(conn, protocol.ErrCodeBadRate, err.Error())
	}
	return sendMessage(conn, protocol.TypeServerSampleRate, protocol.SampleRate{SampleRate: s.registry.SampleRate()})
}

func sendMessage(conn *websocket.Conn, msgType string, payload interface{}) error {
	data, err := json.Marshal(protocol.Message{Type: msgType, Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", msgType, err)
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

func sendError(conn *websocket.Conn, code, message string) error {
	return sendMessage(conn, protocol.TypeServerError, protocol.Error{Code: code, Message: message})
}
