package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/mdlayher/vsock"
	"github.com/rs/zerolog"
)

const defaultPort = 5000

// BridgeServer exposes spend validation to a host process over vsock, so the
// host can submit candidate transactions without linking the library. Each
// connection carries one CBOR request (client half-closes after writing) and
// receives one CBOR response.
type BridgeServer struct {
	port uint32
	log  zerolog.Logger
}

func NewBridgeServer(port uint32, log zerolog.Logger) *BridgeServer {
	return &BridgeServer{port: port, log: log}
}

func (s *BridgeServer) Start() error {
	listener, err := vsock.Listen(s.port, nil)
	if err != nil {
		return fmt.Errorf("failed to create vsock listener: %w", err)
	}
	defer func() {
		if err := listener.Close(); err != nil {
			s.log.Error().Err(err).Msg("failed to close listener")
		}
	}()

	s.log.Info().Uint32("port", s.port).Msg("bridge server listening on vsock")

	maxWorkers, err := getRequiredEnvInt("HOSTBRIDGE_MAX_WORKERS")
	if err != nil {
		return fmt.Errorf("failed to get max workers config: %w", err)
	}

	return s.serve(listener, maxWorkers)
}

// serve runs the accept loop with a bounded worker pool. Connections are
// rejected immediately when the pool is full rather than queued.
func (s *BridgeServer) serve(listener net.Listener, maxWorkers int) error {
	semaphore := make(chan struct{}, maxWorkers)
	s.log.Info().Int("max_workers", maxWorkers).Msg("worker pool initialized")

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			s.log.Error().Err(err).Msg("failed to accept connection")
			continue
		}

		// Acquire worker slot - immediate rejection if pool full
		select {
		case semaphore <- struct{}{}:
			go func(c net.Conn) {
				defer func() { <-semaphore }() // Release worker slot
				s.handleConnection(c)
			}(conn)
		default:
			s.log.Info().Msg("no workers available, rejecting connection (pool full)")
			if err := conn.Close(); err != nil {
				s.log.Error().Err(err).Msg("failed to close rejected connection")
			}
		}
	}
}

func (s *BridgeServer) handleConnection(conn net.Conn) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Any("panic", r).Msg("panic recovered in handleConnection")
		}
		if err := conn.Close(); err != nil {
			s.log.Error().Err(err).Msg("failed to close connection")
		}
	}()

	_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, conn); err != nil {
		s.log.Error().Err(err).Msg("failed to read request")
		return
	}

	var req BridgeRequest
	response := func() BridgeResponse {
		if err := cbor.Unmarshal(buf.Bytes(), &req); err != nil {
			s.log.Error().Err(err).Msg("failed to decode request")
			return BridgeResponse{
				Type:    ResponseTypeError,
				Message: fmt.Sprintf("Failed to decode request: %v", err),
			}
		}
		s.log.Info().Str("type", req.Type).Msg("received request")
		return handleRequest(req)
	}()

	if response.Type == ResponseTypeVerdict {
		s.log.Info().
			Str("request_id", response.RequestID).
			Bool("accepted", response.Accepted).
			Str("reason", string(response.Reason)).
			Msg("validation verdict")
	}

	data, err := cbor.Marshal(response)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
		return
	}
	if _, err := conn.Write(data); err != nil {
		s.log.Error().Err(err).Msg("failed to write response")
	}
}

// Helper function for required environment variable parsing
func getRequiredEnvInt(key string) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return 0, fmt.Errorf("required environment variable %s is not set", key)
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %s (must be a valid integer)", key, value)
	}

	return intValue, nil
}

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	server := NewBridgeServer(defaultPort, log)
	if err := server.Start(); err != nil {
		log.Fatal().Err(err).Msg("bridge server exited")
	}
}
