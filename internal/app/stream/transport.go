//go:generate mockgen -source=transport.go -destination=transport_mock.go -package=stream
package stream

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"porter/internal/app/errors"
	"porter/internal/config"
	"porter/internal/config/logger"
)

const (
	frameBufferSize = 256
	errorBodyLimit  = 512
)

// Transport opens log stream subscriptions
type Transport interface {
	Open(ctx context.Context, cfg Config) (Subscription, error)
}

// Subscription is one open, receive-only stream
type Subscription interface {
	// Frames yields decoded frames and is closed when the transport ends
	Frames() <-chan Frame
	// Err reports why the transport ended; nil for a clean end or a client close
	Err() error
	// Close releases the connection; safe to call more than once
	Close() error
}

type httpTransport struct {
	client  *http.Client
	baseURL string
	token   string
	log     logger.Logger
}

// NewTransport creates an SSE transport for the configured backend
func NewTransport(cfg *config.Config, log logger.Logger) Transport {
	return &httpTransport{
		client:  newStreamingClient(cfg),
		baseURL: cfg.API.URL,
		token:   cfg.API.Token,
		log:     log.WithComponent("STREAM"),
	}
}

// newStreamingClient bounds connect and header time only; the body stays open until either side ends it
func newStreamingClient(cfg *config.Config) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: cfg.API.Timeout}).DialContext,
			TLSHandshakeTimeout:   cfg.API.Timeout,
			ResponseHeaderTimeout: cfg.API.Timeout,
		},
	}
}

// Open subscribes to the log stream described by cfg
func (t *httpTransport) Open(ctx context.Context, cfg Config) (Subscription, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	endpoint := streamURL(t.baseURL, cfg.MachineID) + "?" + cfg.Query().Encode()

	ctx, cancel := context.WithCancel(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %w", errors.ErrFailedToCreateRequest, err)
	}

	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	setAuth(req, t.token)

	resp, err := t.client.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %w", errors.ErrFailedToConnect, err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		resp.Body.Close()
		cancel()

		return nil, fmt.Errorf("%w: %d %s", errors.ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	sub := &subscription{
		frames: make(chan Frame, frameBufferSize),
		body:   resp.Body,
		ctx:    ctx,
		cancel: cancel,
		log:    t.log,
	}

	t.log.Debug().Str("machine", cfg.MachineID).Str("kind", string(cfg.Kind)).Msg("Subscription opened")

	go sub.read()

	return sub, nil
}

type subscription struct {
	frames chan Frame
	body   io.ReadCloser
	ctx    context.Context
	cancel context.CancelFunc
	log    logger.Logger

	mu   sync.Mutex
	err  error
	once sync.Once
}

func (s *subscription) Frames() <-chan Frame {
	return s.frames
}

func (s *subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}

func (s *subscription) Close() error {
	s.once.Do(func() {
		s.cancel()
		s.body.Close()
	})

	return nil
}

// read decodes events until the body ends; malformed frames are logged and skipped
func (s *subscription) read() {
	defer close(s.frames)
	defer s.Close()

	scanner := NewScanner(s.body)

	for scanner.Next() {
		frame, err := DecodeFrame(scanner.Event())
		if err != nil {
			s.log.Warn().Err(err).Msg("Skipping frame")
			continue
		}

		select {
		case s.frames <- frame:
		case <-s.ctx.Done():
			return
		}
	}

	if err := scanner.Err(); err != nil && s.ctx.Err() == nil {
		s.mu.Lock()
		s.err = fmt.Errorf("%w: %w", errors.ErrFailedToReadStream, err)
		s.mu.Unlock()
	}
}

func streamURL(baseURL, machineID string) string {
	return baseURL + "/api/machines/" + url.PathEscape(machineID) + "/logs/stream"
}

func setAuth(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
